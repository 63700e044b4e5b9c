package hash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var errArgon2idFormat = errors.New("malformed argon2id digest")

type argon2Params struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
}

// Argon2id digests credential blobs with a random salt. Digests use the
// PHC string form so parameters can change without invalidating old ones.
// At most two digests are computed at once since each takes 32 MiB.
type Argon2id struct {
	params  argon2Params
	saltLen int
	keyLen  uint32
	pepper  string
	slots   chan struct{}
}

// NewArgon2id returns an Argon2id hasher. The pepper is appended to every
// input and never stored.
func NewArgon2id(pepper string) *Argon2id {
	return &Argon2id{
		params:  argon2Params{memory: 32 * 1024, iterations: 3, parallelism: 2},
		saltLen: 16,
		keyLen:  32,
		pepper:  pepper,
		slots:   make(chan struct{}, 2),
	}
}

func (a *Argon2id) key(str string, salt []byte, p argon2Params, keyLen uint32) []byte {
	a.slots <- struct{}{}
	defer func() { <-a.slots }()

	return argon2.IDKey([]byte(str+a.pepper), salt, p.iterations, p.memory, p.parallelism, keyLen)
}

func (a *Argon2id) Hash(str string) ([]byte, error) {
	salt := make([]byte, a.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	key := a.key(str, salt, a.params, a.keyLen)
	b64 := base64.RawStdEncoding

	return fmt.Appendf(nil, "$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, a.params.memory, a.params.iterations, a.params.parallelism,
		b64.EncodeToString(salt), b64.EncodeToString(key),
	), nil
}

// Verify reports whether str produces hashed. Malformed digests and empty
// input never match.
func (a *Argon2id) Verify(hashed, str string) bool {
	if str == "" {
		return false
	}

	p, salt, want, err := parseArgon2id(hashed)
	if err != nil {
		return false
	}

	got := a.key(str, salt, p, uint32(len(want)))
	return subtle.ConstantTimeCompare(want, got) == 1
}

func parseArgon2id(encoded string) (argon2Params, []byte, []byte, error) {
	var p argon2Params

	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, nil, nil, errArgon2idFormat
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, errArgon2idFormat
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &p.parallelism); err != nil {
		return p, nil, nil, errArgon2idFormat
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, errArgon2idFormat
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, errArgon2idFormat
	}

	return p, salt, key, nil
}
