// Package goerror carries the client-facing message and HTTP mapping of an
// error alongside its cause.
package goerror

import (
	"errors"
	"log/slog"
	"net/http"
)

var (
	ErrNotFound = errors.New("resource not found")
	ErrConflict = errors.New("resource conflict")
)

// Type is the broad class of an error.
type Type int

const (
	TypeServer Type = iota
	TypeBusiness
	TypeValidation
)

func (t Type) String() string {
	switch t {
	case TypeBusiness:
		return "business"
	case TypeValidation:
		return "validation"
	default:
		return "server"
	}
}

// Code selects the HTTP status of an error.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidFormat
	CodeInvalidInput
	CodeUnauthorized
	CodeConflict
	// CodeDuplicate rejects a value that may only be bound once.
	CodeDuplicate
	// CodeRejected is a well-formed request that failed a domain check.
	CodeRejected
)

var statusByCode = map[Code]int{
	CodeInternal:      http.StatusInternalServerError,
	CodeInvalidFormat: http.StatusBadRequest,
	CodeInvalidInput:  http.StatusBadRequest,
	CodeUnauthorized:  http.StatusUnauthorized,
	CodeConflict:      http.StatusConflict,
	CodeDuplicate:     http.StatusBadRequest,
	CodeRejected:      http.StatusBadRequest,
}

// Dependency names the collaborator behind a server error. It shows up in
// logs and spans, never in responses.
type Dependency string

const (
	DependencyNone     Dependency = ""
	DependencyMail     Dependency = "mail"
	DependencyContract Dependency = "contract"
	DependencyStore    Dependency = "store"
	DependencyBroker   Dependency = "broker"
)

const msgInternal = "Internal server error"

// Error pairs a client-facing message with the cause that stays internal.
type Error struct {
	cause   error
	msg     string
	errType Type
	code    Code
	dep     Dependency
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.cause }

// Msg is the message safe to show clients.
func (e *Error) Msg() string { return e.msg }

func (e *Error) Type() Type { return e.errType }

func (e *Error) Code() Code { return e.code }

func (e *Error) Dependency() Dependency { return e.dep }

func (e *Error) StatusCode() int {
	if status, ok := statusByCode[e.code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LogValue logs the classification next to the cause.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("type", e.errType.String()),
		slog.String("msg", e.msg),
	}
	if e.dep != DependencyNone {
		attrs = append(attrs, slog.String("dependency", string(e.dep)))
	}
	if e.cause != nil {
		attrs = append(attrs, slog.String("cause", e.cause.Error()))
	}
	return slog.GroupValue(attrs...)
}

// NewServer hides err behind the generic server message.
func NewServer(err error) error {
	return &Error{cause: err, msg: msgInternal, errType: TypeServer, code: CodeInternal}
}

// NewDependency is NewServer with the failing collaborator recorded.
func NewDependency(dep Dependency, err error) error {
	return &Error{cause: err, msg: msgInternal, errType: TypeServer, code: CodeInternal, dep: dep}
}

// DependencyOf returns the collaborator recorded anywhere in err's chain.
func DependencyOf(err error) Dependency {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.dep
	}
	return DependencyNone
}

func NewBusiness(msg string, code Code) error {
	return &Error{msg: msg, errType: TypeBusiness, code: code}
}

// NewInvalidInput wraps a validation failure. The router lists the field
// errors of err in the response.
func NewInvalidInput(err error) error {
	return &Error{cause: err, msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput}
}

// NewInvalidFormat reports a body that could not be decoded.
func NewInvalidFormat() error {
	return &Error{msg: "Invalid request body", errType: TypeValidation, code: CodeInvalidFormat}
}
