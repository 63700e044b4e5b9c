// Package clock supplies the time source for OTP expiry, session tokens and
// event timestamps, so tests can move time by hand.
package clock
