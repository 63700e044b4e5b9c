package router

import (
	"encoding/json"
	"fmt"

	"github.com/shandysiswandi/evoting/internal/pkg/config"
	"github.com/shandysiswandi/evoting/internal/pkg/instrument"
)

// voterSecrets are hidden from request and response logs whatever the
// configuration says. Both spellings of the national identifier key are
// seen from clients.
var voterSecrets = []string{
	"aadhaarId",
	"aadharID",
	"otp",
	"fingerprintData",
	"token",
	"authorization",
	HeaderAdminKey,
}

func newRedactor(cfg config.Config) instrument.Masker {
	fields := append([]string(nil), voterSecrets...)
	if cfg != nil {
		fields = append(fields, cfg.GetArray("instrument.log_mask_fields")...)
	}
	return instrument.NewMasker(fields...)
}

// loggedBody returns a loggable form of a JSON payload. A body that does
// not parse as JSON cannot be masked field by field, so only its size is
// kept. The same goes for bodies too large to buffer.
func loggedBody(m instrument.Masker, raw []byte, overflow bool) any {
	if overflow {
		return fmt.Sprintf("<body over %d bytes omitted>", maxLoggedBody)
	}
	if len(raw) == 0 {
		return nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Sprintf("<unparsed body omitted, %d bytes>", len(raw))
	}
	return m.Value(v)
}
