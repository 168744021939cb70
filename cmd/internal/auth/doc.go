// Package auth implements Clubhouse's authentication and authorization core:
// credential verification, the per-request authorization decision, club
// secret redemption, and registration validation.
//
// Credential failures keep distinct internal kinds (unknown member vs wrong
// password) for logging, but the rendered message is identical for both so
// responses cannot be used to enumerate handles.
package auth
