package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA256(t *testing.T) {
	// Arrange
	h := NewSHA256()

	// Act
	got, err := h.Hash("123456789012")

	// Assert
	require.NoError(t, err)
	assert.Len(t, got, 64)
	again, _ := h.Hash("123456789012")
	assert.Equal(t, got, again)
	assert.True(t, h.Verify(string(got), "123456789012"))
	assert.False(t, h.Verify(string(got), "123456789013"))
}

func TestSHA256_KnownVector(t *testing.T) {
	got, err := NewSHA256().Hash("abc")

	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", string(got))
}

func TestHMACSHA256(t *testing.T) {
	// Arrange
	a := NewHMACSHA256("secret-a")
	b := NewHMACSHA256("secret-b")

	// Act
	ha, _ := a.Hash("123456789012")
	hb, _ := b.Hash("123456789012")

	// Assert
	assert.NotEqual(t, ha, hb)
	assert.True(t, a.Verify(string(ha), "123456789012"))
	assert.False(t, b.Verify(string(ha), "123456789012"))
}

func TestArgon2id(t *testing.T) {
	// Arrange
	h := NewArgon2id("pepper")
	blob := "eyJpZCI6ImNyZWQtMSJ9"

	// Act
	first, err := h.Hash(blob)
	require.NoError(t, err)
	second, err := h.Hash(blob)
	require.NoError(t, err)

	// Assert
	assert.NotEqual(t, first, second, "salted digests differ")
	assert.True(t, h.Verify(string(first), blob))
	assert.True(t, h.Verify(string(second), blob))
	assert.False(t, h.Verify(string(first), blob+"x"))
	assert.False(t, h.Verify(string(first), ""))
	assert.False(t, h.Verify("not-a-digest", blob))
}

func TestParseArgon2id(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{name: "empty", encoded: ""},
		{name: "wrong algorithm", encoded: "$argon2i$v=19$m=32768,t=3,p=2$c2FsdA$a2V5"},
		{name: "wrong version", encoded: "$argon2id$v=16$m=32768,t=3,p=2$c2FsdA$a2V5"},
		{name: "bad params", encoded: "$argon2id$v=19$m=x,t=3,p=2$c2FsdA$a2V5"},
		{name: "bad salt", encoded: "$argon2id$v=19$m=32768,t=3,p=2$!!$a2V5"},
		{name: "empty key", encoded: "$argon2id$v=19$m=32768,t=3,p=2$c2FsdA$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := parseArgon2id(tt.encoded)

			assert.ErrorIs(t, err, errArgon2idFormat)
		})
	}
}

func TestArgon2id_PepperMatters(t *testing.T) {
	digest, err := NewArgon2id("pepper-a").Hash("blob")
	require.NoError(t, err)

	assert.False(t, NewArgon2id("pepper-b").Verify(string(digest), "blob"))
}
