package mq

import (
	"context"

	"github.com/shandysiswandi/evoting/internal/ballot/usecase"
	"github.com/shandysiswandi/evoting/internal/pkg/instrument"
	"github.com/shandysiswandi/evoting/internal/pkg/messaging"
	"github.com/shandysiswandi/evoting/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishVoteCast(ctx context.Context, msg usecase.VoteCastEvent) error {
	ctx, span := m.ins.Tracer("ballot.outbound.mq").Start(ctx, "PublishVoteCast")
	defer span.End()

	ev, err := messaging.NewEvent(ctx, event.VoteCastDestination, msg.VoterAddress, event.VoteCastMessage{
		EventID:      msg.EventID,
		VoterAddress: msg.VoterAddress,
		CandidateID:  msg.CandidateID,
		TxHash:       msg.TxHash,
		CastAt:       msg.CastAt,
	})
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
