package config

import (
	"io"
	"time"
)

// Config is the read-only view of gateway settings handed to every module.
// Missing keys read as the zero value; callers apply their own defaults.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt64(key string) int64
	GetFloat64(key string) float64

	// GetSecond reads an integer key as a number of seconds, as used by the
	// *_seconds keys.
	GetSecond(key string) time.Duration
	// GetMinute reads an integer key as a number of minutes.
	GetMinute(key string) time.Duration

	// GetArray accepts either a YAML list or a comma separated string. Items
	// are trimmed and blanks dropped.
	GetArray(key string) []string
}
