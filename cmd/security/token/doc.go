// Package token signs and verifies opaque client-held tokens for Clubhouse.
//
// The session cookie carries a session reference in the form
// <value>.<base64url(HMAC-SHA256(value, key))>. The server never trusts the
// cookie contents without verifying the signature first, and verification is
// constant-time. Compromise of the signing key invalidates every session
// integrity guarantee, so startup policy requires a sufficiently long key.
package token
