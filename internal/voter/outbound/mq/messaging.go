package mq

import (
	"context"

	"github.com/shandysiswandi/evoting/internal/pkg/instrument"
	"github.com/shandysiswandi/evoting/internal/pkg/messaging"
	"github.com/shandysiswandi/evoting/internal/shared/event"
	"github.com/shandysiswandi/evoting/internal/voter/usecase"
	"go.opentelemetry.io/otel/codes"
)

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishVoterRegistered(ctx context.Context, msg usecase.VoterRegisteredEvent) error {
	return m.publish(ctx, "PublishVoterRegistered", event.VoterRegisteredDestination, msg.VoterAddress, event.VoterRegisteredMessage{
		EventID:        msg.EventID,
		VoterAddress:   msg.VoterAddress,
		IdentifierHash: msg.IdentifierHash,
		TxHash:         msg.TxHash,
		RegisteredAt:   msg.RegisteredAt,
	})
}

func (m *Messaging) PublishVoterAuthenticated(ctx context.Context, msg usecase.VoterAuthenticatedEvent) error {
	return m.publish(ctx, "PublishVoterAuthenticated", event.VoterAuthenticatedDestination, msg.VoterAddress, event.VoterAuthenticatedMessage{
		EventID:      msg.EventID,
		VoterAddress: msg.VoterAddress,
		Method:       string(msg.Method),
		VerifiedAt:   msg.VerifiedAt,
	})
}

func (m *Messaging) publish(ctx context.Context, spanName, destination, key string, payload any) error {
	ctx, span := m.ins.Tracer("voter.outbound.mq").Start(ctx, spanName)
	defer span.End()

	ev, err := messaging.NewEvent(ctx, destination, key, payload)
	if err == nil {
		err = m.client.Publish(ctx, ev)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
