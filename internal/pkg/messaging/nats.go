package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
)

var ErrNATSURLRequired = errors.New("messaging: nats url is required")

type NATSConfig struct {
	URL     string
	Options []nats.Option
}

// NATS publishes on core NATS subjects. Publish waits for the server to
// acknowledge the flush so a dead connection surfaces as an error.
type NATS struct {
	conn *nats.Conn
}

func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("messaging: nats connect: %w", err)
	}

	return &NATS{conn: conn}, nil
}

func (n *NATS) Publish(ctx context.Context, ev Event) error {
	if ev.Destination == "" {
		return ErrDestinationRequired
	}
	if n.conn.IsClosed() || n.conn.IsDraining() {
		return ErrClosed
	}

	if err := n.conn.PublishMsg(natsMessage(ev)); err != nil {
		return fmt.Errorf("messaging: nats %s: %w", ev.Destination, err)
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("messaging: nats flush: %w", err)
	}
	return nil
}

// Close drains pending publishes before closing.
func (n *NATS) Close() error {
	if n.conn.IsClosed() {
		return nil
	}
	return n.conn.Drain()
}

func natsMessage(ev Event) *nats.Msg {
	msg := nats.NewMsg(ev.Destination)
	msg.Data = ev.Body
	for k, v := range ev.headers() {
		msg.Header.Set(k, v)
	}
	if ev.Key != "" {
		msg.Header.Set("key", ev.Key)
	}
	return msg
}
