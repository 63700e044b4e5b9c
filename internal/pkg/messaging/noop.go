package messaging

import "context"

// Noop drops every event.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (*Noop) Publish(ctx context.Context, ev Event) error {
	if ev.Destination == "" {
		return ErrDestinationRequired
	}
	return ctx.Err()
}

func (*Noop) Close() error { return nil }
