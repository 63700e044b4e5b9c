package mail

import (
	"context"
	"io"
)

// Message is a single-recipient plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mail sends messages through some provider.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}
