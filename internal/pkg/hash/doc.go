// Package hash provides helpers for hashing and verifying secrets.
//
// Identifier digests must be deterministic so they can key the registry, so
// they use SHA-256 or, when a secret is configured, HMAC-SHA256. Credential
// blobs are only ever compared, so they are stored as salted Argon2id digests.
package hash
