package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
)

var ErrKafkaBrokersRequired = errors.New("messaging: kafka brokers are required")

type KafkaConfig struct {
	Brokers      []string
	ClientID     string
	DialTimeout  time.Duration
	BatchTimeout time.Duration
	// RequiredAcks is -1 for all replicas, 1 for the leader only.
	RequiredAcks int
}

// Kafka publishes through a single writer; the topic is set per message.
// Keys are hashed to partitions.
type Kafka struct {
	w      *kafka.Writer
	closed atomic.Bool
}

func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}

	return &Kafka{w: &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		AllowAutoTopicCreation: false,
		Transport: &kafka.Transport{
			ClientID:    cfg.ClientID,
			DialTimeout: cfg.DialTimeout,
		},
	}}, nil
}

func (k *Kafka) Publish(ctx context.Context, ev Event) error {
	if ev.Destination == "" {
		return ErrDestinationRequired
	}
	if k.closed.Load() {
		return ErrClosed
	}

	if err := k.w.WriteMessages(ctx, kafkaMessage(ev, time.Now())); err != nil {
		return fmt.Errorf("messaging: kafka %s: %w", ev.Destination, err)
	}
	return nil
}

func (k *Kafka) Close() error {
	if !k.closed.CompareAndSwap(false, true) {
		return nil
	}
	return k.w.Close()
}

func kafkaMessage(ev Event, now time.Time) kafka.Message {
	msg := kafka.Message{
		Topic: ev.Destination,
		Value: ev.Body,
		Time:  now,
	}
	if ev.Key != "" {
		msg.Key = []byte(ev.Key)
	}
	for k, v := range ev.headers() {
		msg.Headers = append(msg.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return msg
}
