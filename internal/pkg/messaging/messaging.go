package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shandysiswandi/evoting/internal/pkg/instrument"
)

const (
	DriverNone  = "none"
	DriverNATS  = "nats"
	DriverKafka = "kafka"

	// HeaderCorrelationID carries the request correlation ID on every event.
	HeaderCorrelationID = "cID"
	headerContentType   = "content-type"
	contentTypeJSON     = "application/json"
)

var (
	ErrUnknownDriver       = errors.New("messaging: unknown driver")
	ErrDestinationRequired = errors.New("messaging: destination is required")
	ErrClosed              = errors.New("messaging: publisher closed")
)

// Event is a JSON encoded domain event. Key is the partition key, the voter
// address for every event this service emits, so one voter's events stay
// ordered on Kafka.
type Event struct {
	Destination   string
	Key           string
	Body          []byte
	CorrelationID string
}

// NewEvent encodes payload as the event body.
func NewEvent(ctx context.Context, destination, key string, payload any) (Event, error) {
	if destination == "" {
		return Event{}, ErrDestinationRequired
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("messaging: encode %s: %w", destination, err)
	}

	return Event{
		Destination:   destination,
		Key:           key,
		Body:          body,
		CorrelationID: instrument.GetCorrelationID(ctx),
	}, nil
}

func (e Event) headers() map[string]string {
	h := map[string]string{headerContentType: contentTypeJSON}
	if e.CorrelationID != "" {
		h[HeaderCorrelationID] = e.CorrelationID
	}
	return h
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type Messaging interface {
	io.Closer
	Publisher
}

// Config holds the settings of every driver; only the selected one is read.
type Config struct {
	Kafka KafkaConfig
	NATS  NATSConfig
}

// New returns the publisher for driver. An empty driver disables
// publishing.
func New(driver string, cfg Config) (Messaging, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverNone:
		return NewNoop(), nil
	case DriverKafka:
		return NewKafka(cfg.Kafka)
	case DriverNATS:
		return NewNATS(cfg.NATS)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
