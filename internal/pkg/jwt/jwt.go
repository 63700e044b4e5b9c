package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidSigningMethod = errors.New("invalid JWT signing method")
	ErrSigningKeyTooShort   = errors.New("HS512 signing key must be at least 64 bytes (512 bits)")
	ErrTokenExpired         = errors.New("JWT token has expired")
	ErrInvalidToken         = errors.New("invalid token")
)

// JWT issues and checks voter sessions.
type JWT interface {
	Generate(voterAddress string, method Method) (string, error)
	Verify(tokenStr string) (Claims, error)
}

// Method records how the voter proved control of their registration.
type Method string

const (
	MethodOTP         Method = "otp"
	MethodFingerprint Method = "fingerprint"
)

type Config struct {
	// Secret is the HMAC key, at least 64 bytes.
	Secret    []byte
	Issuer    string
	Audiences []string
	TTL       time.Duration
	// Clock stamps and checks token times.
	Clock interface{ Now() time.Time }
	// UUID produces the token ID.
	UUID interface{ Generate() string }
}

// Claims is a voter session. Subject is the lowercased voting address.
type Claims struct {
	jwt.RegisteredClaims
	VoterAddress string `json:"voter_address"`
	Method       Method `json:"amr"`
}

type authKey struct{}

// GetAuth returns the verified session in ctx, or nil.
func GetAuth(ctx context.Context) *Claims {
	if clm, ok := ctx.Value(authKey{}).(Claims); ok {
		return &clm
	}
	return nil
}

func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, authKey{}, clm)
}
