// Package password provides password hashing and verification for Clubhouse.
//
// It implements Argon2id hashing using a PHC-like encoded string format and includes:
// - Configurable Argon2id parameters (via environment variables)
// - The membership password policy (length + character composition)
// - Strict hash decoding and verification with anti-DoS bounds
// - A weighted limiter that bounds concurrent hashing work
//
// Security notes:
// - Hash strings are treated as untrusted input during Verify and are validated accordingly.
// - Verification refuses hashes with parameters that exceed reasonable bounds.
// - An entropy failure aborts hashing; there is no weak fallback.
package password
