package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/evoting/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m, err := New("", Config{})
	require.NoError(t, err)
	assert.IsType(t, &Noop{}, m)

	m, err = New(" None ", Config{})
	require.NoError(t, err)
	assert.IsType(t, &Noop{}, m)

	_, err = New("rabbit", Config{})
	assert.ErrorIs(t, err, ErrUnknownDriver)

	_, err = New(DriverKafka, Config{})
	assert.ErrorIs(t, err, ErrKafkaBrokersRequired)

	_, err = New(DriverNATS, Config{})
	assert.ErrorIs(t, err, ErrNATSURLRequired)
}

func TestNewEvent(t *testing.T) {
	// Arrange
	ctx := instrument.SetCorrelationID(context.Background(), "cid-1")

	// Act
	ev, err := NewEvent(ctx, "vote.cast", "0xabc", map[string]int{"candidateId": 2})
	_, errDest := NewEvent(ctx, "", "0xabc", nil)
	_, errEncode := NewEvent(ctx, "vote.cast", "0xabc", make(chan int))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, Event{Destination: "vote.cast", Key: "0xabc", Body: []byte(`{"candidateId":2}`), CorrelationID: "cid-1"}, ev)
	assert.ErrorIs(t, errDest, ErrDestinationRequired)
	assert.Error(t, errEncode)
}

func TestNoop_Publish(t *testing.T) {
	// Arrange
	n := NewNoop()
	ctx, cancel := context.WithCancel(context.Background())

	// Act
	err := n.Publish(ctx, Event{Destination: "voter.registered"})
	cancel()
	errCanceled := n.Publish(ctx, Event{Destination: "voter.registered"})

	// Assert
	require.NoError(t, err)
	assert.ErrorIs(t, errCanceled, context.Canceled)
	assert.ErrorIs(t, n.Publish(context.Background(), Event{}), ErrDestinationRequired)
	assert.NoError(t, n.Close())
}

func TestKafka_Publish_Validation(t *testing.T) {
	// Arrange
	k, err := NewKafka(KafkaConfig{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	// Act
	errDest := k.Publish(context.Background(), Event{})
	require.NoError(t, k.Close())
	errClosed := k.Publish(context.Background(), Event{Destination: "vote.cast"})

	// Assert
	assert.ErrorIs(t, errDest, ErrDestinationRequired)
	assert.ErrorIs(t, errClosed, ErrClosed)
	assert.NoError(t, k.Close())
}

func TestKafkaMessage(t *testing.T) {
	now := time.Unix(1700000000, 0)

	msg := kafkaMessage(Event{Destination: "vote.cast", Key: "0xabc", Body: []byte(`{"id":1}`), CorrelationID: "c-1"}, now)

	assert.Equal(t, "vote.cast", msg.Topic)
	assert.Equal(t, []byte("0xabc"), msg.Key)
	assert.Equal(t, now, msg.Time)
	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, map[string]string{"cID": "c-1", "content-type": "application/json"}, headers)
}

func TestNATSMessage(t *testing.T) {
	msg := natsMessage(Event{Destination: "otp.verified", Key: "0xabc", Body: []byte("payload")})

	assert.Equal(t, "otp.verified", msg.Subject)
	assert.Equal(t, []byte("payload"), msg.Data)
	assert.Equal(t, "0xabc", msg.Header.Get("key"))
	assert.Equal(t, "application/json", msg.Header.Get("content-type"))
	assert.Empty(t, msg.Header.Get("cID"))
}
