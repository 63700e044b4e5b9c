// Package validator checks use case inputs and module dependencies against
// their struct tags. Failures come back as FieldErrors, which the router
// renders in the error envelope.
package validator
