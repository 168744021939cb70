// Package session maintains member identity across stateless requests.
//
// A successful login issues a server-side session row keyed by ULID; the
// client holds only an HMAC-signed reference to that row in a cookie. Every
// resolution re-reads both the session row and the member record, so role
// changes (club escalation) take effect on the very next request without
// re-login, and a deleted member degrades to anonymous rather than erroring.
package session
