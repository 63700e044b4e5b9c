package router

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/shandysiswandi/evoting/internal/pkg/goerror"
)

// Request wraps http.Request with helpers for inbound handlers.
type Request struct {
	// Request is the underlying http.Request.
	*http.Request
}

type decodeOptions struct {
	allowUnknown bool
}

// DecodeOption adjusts how DecodeBody reads the payload.
type DecodeOption func(*decodeOptions)

// AllowUnknownFields accepts payloads carrying keys dst does not declare,
// as browser clients often send their whole form state.
func AllowUnknownFields() DecodeOption {
	return func(o *decodeOptions) { o.allowUnknown = true }
}

// DecodeBody decodes one JSON object from the body into dst. Unknown fields
// are rejected unless AllowUnknownFields is given. Trailing data is always
// rejected.
func (r *Request) DecodeBody(dst any, opts ...DecodeOption) error {
	if r == nil || r.Body == nil {
		return goerror.NewInvalidFormat()
	}

	var o decodeOptions
	for _, opt := range opts {
		opt(&o)
	}

	dec := json.NewDecoder(r.Body)
	if !o.allowUnknown {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(dst); err != nil {
		return goerror.NewInvalidFormat()
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return goerror.NewInvalidFormat()
	}

	return nil
}
