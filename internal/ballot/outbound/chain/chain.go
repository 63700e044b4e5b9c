package chain

import (
	"context"

	"github.com/samber/lo"
	"github.com/shandysiswandi/evoting/internal/ballot/entity"
	"github.com/shandysiswandi/evoting/internal/pkg/evoting"
	"github.com/shandysiswandi/evoting/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Chain struct {
	client evoting.Contract
	ins    instrument.Instrumentation
}

func New(client evoting.Contract, ins instrument.Instrumentation) *Chain {
	return &Chain{client: client, ins: ins}
}

func (c *Chain) Candidates(ctx context.Context) ([]entity.Candidate, error) {
	ctx, span := c.startSpan(ctx, "Candidates")
	defer span.End()

	cs, err := c.client.GetCandidates(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	return lo.Map(cs, toCandidate), nil
}

func (c *Chain) Results(ctx context.Context) ([]entity.Candidate, error) {
	ctx, span := c.startSpan(ctx, "Results")
	defer span.End()

	cs, err := c.client.GetResults(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	return lo.Map(cs, toCandidate), nil
}

func (c *Chain) Voters(ctx context.Context) ([]string, error) {
	ctx, span := c.startSpan(ctx, "Voters")
	defer span.End()

	voters, err := c.client.GetVoters(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("voters.count", len(voters)))

	return voters, nil
}

func (c *Chain) AddCandidate(ctx context.Context, name string) (string, error) {
	ctx, span := c.startSpan(ctx, "AddCandidate")
	defer span.End()

	rc, err := c.client.AddCandidate(ctx, name)
	if err != nil {
		recordError(span, err)
		return rc.TxHash, err
	}

	span.SetAttributes(attribute.String("tx.hash", rc.TxHash))

	return rc.TxHash, nil
}

func (c *Chain) Vote(ctx context.Context, voterAddress string, candidateID uint64) (string, error) {
	ctx, span := c.startSpan(ctx, "Vote")
	defer span.End()

	span.SetAttributes(attribute.Int64("candidate.id", int64(candidateID)))

	rc, err := c.client.Vote(ctx, voterAddress, candidateID)
	if err != nil {
		recordError(span, err)
		return rc.TxHash, err
	}

	span.SetAttributes(attribute.String("tx.hash", rc.TxHash))

	return rc.TxHash, nil
}

func (c *Chain) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.ins.Tracer("ballot.outbound.chain").Start(ctx, name)
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func toCandidate(c evoting.Candidate, _ int) entity.Candidate {
	return entity.Candidate{ID: c.ID, Name: c.Name, VoteCount: c.VoteCount}
}
