// Package identity implements Clubhouse's membership identity foundation.
//
// It defines the canonical member record, the persistence boundary used by
// the auth and forum layers, and the Postgres and in-memory store
// implementations.
//
// This package is intentionally dependency-light and security-first.
package identity
