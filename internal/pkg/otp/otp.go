package otp

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/pquerna/otp"
)

// Generator produces one-time passcodes.
type Generator interface {
	Generate() (string, error)
}

// Numeric generates fixed-length decimal codes without a leading zero.
type Numeric struct {
	digits otp.Digits
	min    int64
	span   *big.Int
	rand   io.Reader
}

// NewNumeric returns a generator for codes of the given length.
//
// If digits is not 6 or 8, it falls back to 6 digits, giving codes in
// [100000, 999999].
func NewNumeric(digits otp.Digits) *Numeric {
	if digits != otp.DigitsSix && digits != otp.DigitsEight {
		digits = otp.DigitsSix
	}

	lower := int64(1)
	for i := 1; i < digits.Length(); i++ {
		lower *= 10
	}
	upper := lower*10 - 1

	return &Numeric{
		digits: digits,
		min:    lower,
		span:   big.NewInt(upper - lower + 1),
		rand:   rand.Reader,
	}
}

// Digits returns the code length.
func (n *Numeric) Digits() int {
	return n.digits.Length()
}

// Generate returns a new code.
func (n *Numeric) Generate() (string, error) {
	v, err := rand.Int(n.rand, n.span)
	if err != nil {
		return "", err
	}

	return n.digits.Format(int32(v.Int64() + n.min)), nil
}
