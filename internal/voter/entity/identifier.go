package entity

import "time"

// Identifier binds the hash of a national identifier to a voting address.
// Records are append-only.
type Identifier struct {
	Hash         string    `json:"hash"`
	Address      string    `json:"address"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Credential is the stored fingerprint blob digest for a voting address.
type Credential struct {
	Address      string    `json:"address"`
	Digest       string    `json:"digest"`
	RegisteredAt time.Time `json:"registered_at"`
}
