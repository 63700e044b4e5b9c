// Package jwt issues and verifies the HS512 session tokens handed to voters
// after an OTP or fingerprint check, and carries verified claims through
// the request context.
package jwt
