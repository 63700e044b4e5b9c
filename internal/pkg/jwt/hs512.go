package jwt

import (
	"errors"
	"strings"

	libJWT "github.com/golang-jwt/jwt/v5"
)

const minSecretLen = 64

// HS512 signs sessions with a shared secret. Token times are both issued
// and checked against the configured clock.
type HS512 struct {
	cfg    Config
	parser *libJWT.Parser
}

func NewHS512(cfg Config) (*HS512, error) {
	if len(cfg.Secret) < minSecretLen {
		return nil, ErrSigningKeyTooShort
	}

	opts := []libJWT.ParserOption{
		libJWT.WithIssuer(cfg.Issuer),
		libJWT.WithValidMethods([]string{libJWT.SigningMethodHS512.Alg()}),
		libJWT.WithIssuedAt(),
		libJWT.WithExpirationRequired(),
	}
	if len(cfg.Audiences) > 0 {
		opts = append(opts, libJWT.WithAudience(cfg.Audiences...))
	}
	if cfg.Clock != nil {
		opts = append(opts, libJWT.WithTimeFunc(cfg.Clock.Now))
	}

	return &HS512{cfg: cfg, parser: libJWT.NewParser(opts...)}, nil
}

func (h *HS512) Generate(voterAddress string, method Method) (string, error) {
	now := h.cfg.Clock.Now()

	claims := Claims{
		RegisteredClaims: libJWT.RegisteredClaims{
			ID:        h.cfg.UUID.Generate(),
			Subject:   strings.ToLower(voterAddress),
			Issuer:    h.cfg.Issuer,
			Audience:  h.cfg.Audiences,
			IssuedAt:  libJWT.NewNumericDate(now),
			NotBefore: libJWT.NewNumericDate(now),
			ExpiresAt: libJWT.NewNumericDate(now.Add(h.cfg.TTL)),
		},
		VoterAddress: voterAddress,
		Method:       method,
	}

	return libJWT.NewWithClaims(libJWT.SigningMethodHS512, claims).SignedString(h.cfg.Secret)
}

// Verify returns the claims of a valid session. A token whose subject does
// not match its voter address is rejected.
func (h *HS512) Verify(tokenStr string) (Claims, error) {
	var claims Claims

	_, err := h.parser.ParseWithClaims(tokenStr, &claims, func(t *libJWT.Token) (any, error) {
		if _, ok := t.Method.(*libJWT.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return h.cfg.Secret, nil
	})
	switch {
	case errors.Is(err, libJWT.ErrTokenExpired):
		return Claims{}, ErrTokenExpired
	case err != nil:
		return Claims{}, errors.Join(ErrInvalidToken, err)
	}

	if claims.Subject != strings.ToLower(claims.VoterAddress) {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
