package instrument

import (
	"net/http"
	"strings"
)

// Masked replaces a hidden value.
const Masked = "***"

// Masker hides values stored under secret keys. Keys compare ignoring case,
// hyphens, underscores and spaces, so one entry covers "aadhaarId",
// "aadhaar_id" and "Aadhaar-Id".
type Masker struct {
	keys map[string]struct{}
}

// NewMasker builds a Masker for the given key names. Blank names are ignored.
func NewMasker(fields ...string) Masker {
	m := Masker{keys: make(map[string]struct{}, len(fields))}
	for _, f := range fields {
		if k := foldKey(f); k != "" {
			m.keys[k] = struct{}{}
		}
	}
	return m
}

var keyFolder = strings.NewReplacer("-", "", "_", "", " ", "")

func foldKey(k string) string {
	return strings.ToLower(keyFolder.Replace(k))
}

// Empty reports whether the masker hides nothing.
func (m Masker) Empty() bool {
	return len(m.keys) == 0
}

// Hides reports whether values under key are masked.
func (m Masker) Hides(key string) bool {
	_, ok := m.keys[foldKey(key)]
	return ok
}

// Value walks decoded JSON values and string maps, returning a copy with
// secret entries masked. Other values are returned unchanged.
func (m Masker) Value(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if m.Hides(k) {
				out[k] = Masked
				continue
			}
			out[k] = m.Value(inner)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(val))
		for k, inner := range val {
			if m.Hides(k) {
				inner = Masked
			}
			out[k] = inner
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = m.Value(inner)
		}
		return out
	default:
		return v
	}
}

// Header returns a copy of h with secret headers masked.
func (m Masker) Header(h http.Header) http.Header {
	out := h.Clone()
	for k := range out {
		if m.Hides(k) {
			out.Set(k, Masked)
		}
	}
	return out
}
