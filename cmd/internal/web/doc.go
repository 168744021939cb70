// Package web serves the forum's server-rendered HTML pages: the board,
// signup, login, club redemption, and message posting.
package web
