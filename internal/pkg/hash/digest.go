package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Digest is a deterministic hex SHA-256 digest, keyed with HMAC when a
// secret is set. Equal inputs give equal digests, so the output can key the
// identifier registry.
type Digest struct {
	secret []byte
	keyed  bool
}

// NewSHA256 returns an unkeyed digest.
func NewSHA256() *Digest {
	return &Digest{}
}

// NewHMACSHA256 returns a digest keyed with secret. Without the secret a
// leaked registry cannot be matched against guessed identifiers.
func NewHMACSHA256(secret string) *Digest {
	return &Digest{secret: []byte(secret), keyed: true}
}

func (d *Digest) Hash(str string) ([]byte, error) {
	return d.sum(str), nil
}

func (d *Digest) Verify(hashed, str string) bool {
	return subtle.ConstantTimeCompare([]byte(hashed), d.sum(str)) == 1
}

func (d *Digest) sum(str string) []byte {
	if !d.keyed {
		sum := sha256.Sum256([]byte(str))
		return hex.AppendEncode(nil, sum[:])
	}

	mac := hmac.New(sha256.New, d.secret)
	mac.Write([]byte(str))
	return hex.AppendEncode(nil, mac.Sum(nil))
}
