package validator

import (
	"maps"
	"slices"
	"strings"
)

// Validator validates request and dependency structs using struct tags.
type Validator interface {
	Validate(data any) error
}

// FieldErrors maps snake_case field names to a readable message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation error"
	}

	keys := slices.Sorted(maps.Keys(fe))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fe[k])
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// Values returns the messages keyed by field.
func (fe FieldErrors) Values() map[string]string {
	return fe
}
