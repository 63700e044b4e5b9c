package usecase

import (
	"strings"
)

// normalizeIdentifier drops the separators people type into national IDs
// ("1234 5678 9012", "1234-5678-9012") so they hash to the same record.
func normalizeIdentifier(raw string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '\t' {
			return -1
		}
		return r
	}, raw)
}

func normalizeEmail(raw string) string {
	return strings.TrimSpace(strings.ToLower(raw))
}

func (s *Usecase) hashIdentifier(identifier string) (string, error) {
	h, err := s.identifierHash.Hash(identifier)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
