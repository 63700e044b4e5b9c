package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/evoting/internal/pkg/instrument"
	"github.com/shandysiswandi/evoting/internal/pkg/jwt"
	"github.com/shandysiswandi/evoting/internal/pkg/messaging"
	"github.com/shandysiswandi/evoting/internal/shared/event"
	"github.com/shandysiswandi/evoting/internal/voter/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	destinations []string
	events       []messaging.Event
	err          error
}

func (c *capturePublisher) Publish(_ context.Context, ev messaging.Event) error {
	c.destinations = append(c.destinations, ev.Destination)
	c.events = append(c.events, ev)
	return c.err
}

func TestMessaging_PublishVoterRegistered(t *testing.T) {
	// Arrange
	pub := &capturePublisher{}
	m := NewMessaging(pub, instrument.NewNoop())
	ctx := instrument.SetCorrelationID(context.Background(), "cid-7")
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	// Act
	err := m.PublishVoterRegistered(ctx, usecase.VoterRegisteredEvent{
		EventID:        11,
		VoterAddress:   "0xabc",
		IdentifierHash: "deadbeef",
		TxHash:         "0x01",
		RegisteredAt:   at,
	})

	// Assert
	require.NoError(t, err)
	require.Equal(t, []string{event.VoterRegisteredDestination}, pub.destinations)
	msg := pub.events[0]
	assert.Equal(t, "0xabc", msg.Key)
	assert.Equal(t, "cid-7", msg.CorrelationID)

	var body event.VoterRegisteredMessage
	require.NoError(t, json.Unmarshal(msg.Body, &body))
	assert.Equal(t, int64(11), body.EventID)
	assert.Equal(t, "deadbeef", body.IdentifierHash)
	assert.True(t, at.Equal(body.RegisteredAt))
}

func TestMessaging_PublishVoterAuthenticated_Error(t *testing.T) {
	pub := &capturePublisher{err: errors.New("nats: no servers")}
	m := NewMessaging(pub, instrument.NewNoop())

	err := m.PublishVoterAuthenticated(context.Background(), usecase.VoterAuthenticatedEvent{
		VoterAddress: "0xabc",
		Method:       jwt.MethodFingerprint,
	})

	assert.EqualError(t, err, "nats: no servers")
	assert.Equal(t, []string{event.VoterAuthenticatedDestination}, pub.destinations)
}
