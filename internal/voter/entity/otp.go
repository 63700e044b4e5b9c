package entity

import (
	"crypto/subtle"
	"errors"
	"time"
)

// ErrOTPInvalid covers absent, mismatched, consumed and expired codes alike.
var ErrOTPInvalid = errors.New("invalid or expired otp")

// OTPState is the lifecycle of an issued code.
type OTPState uint8

const (
	OTPStateActive OTPState = iota + 1
	OTPStateConsumed
	OTPStateExpired
)

func (s OTPState) String() string {
	switch s {
	case OTPStateActive:
		return "active"
	case OTPStateConsumed:
		return "consumed"
	case OTPStateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// OTPEntry is a one-time code issued to a contact key (normalised email).
type OTPEntry struct {
	ContactKey string    `json:"contact_key"`
	Code       string    `json:"code"`
	Subject    string    `json:"subject"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	State      OTPState  `json:"state"`
}

// NewOTPEntry returns an active entry valid for ttl from now.
func NewOTPEntry(contactKey, code, subject string, now time.Time, ttl time.Duration) OTPEntry {
	return OTPEntry{
		ContactKey: contactKey,
		Code:       code,
		Subject:    subject,
		IssuedAt:   now,
		ExpiresAt:  now.Add(ttl),
		State:      OTPStateActive,
	}
}

// IsExpired reports whether now is at or past the expiry instant.
func (e OTPEntry) IsExpired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Verify is the pure transition applied when a code is presented.
//
// An active, unexpired entry with a matching code becomes Consumed. An
// expired entry becomes Expired and reports ErrOTPInvalid. A mismatch leaves
// the entry Active and reports ErrOTPInvalid. Any other state is terminal.
func (e OTPEntry) Verify(code string, now time.Time) (OTPEntry, error) {
	if e.State != OTPStateActive {
		return e, ErrOTPInvalid
	}

	if e.IsExpired(now) {
		e.State = OTPStateExpired
		return e, ErrOTPInvalid
	}

	if subtle.ConstantTimeCompare([]byte(e.Code), []byte(code)) != 1 {
		return e, ErrOTPInvalid
	}

	e.State = OTPStateConsumed
	return e, nil
}
