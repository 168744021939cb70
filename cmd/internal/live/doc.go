// Package live streams newly posted board messages to connected members over
// WebSocket. The feed is broadcast-only: clients listen, they do not send.
package live
