// Package otp generates numeric one-time passcodes delivered out of band
// (email, SMS). Codes are drawn uniformly with crypto/rand so every code of the
// configured length is equally likely.
package otp
