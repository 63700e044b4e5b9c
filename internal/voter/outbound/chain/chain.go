package chain

import (
	"context"

	"github.com/shandysiswandi/evoting/internal/pkg/evoting"
	"github.com/shandysiswandi/evoting/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type contract interface {
	AddVoter(ctx context.Context, voterAddress string) (evoting.Receipt, error)
}

type Chain struct {
	client contract
	ins    instrument.Instrumentation
}

func New(client contract, ins instrument.Instrumentation) *Chain {
	return &Chain{client: client, ins: ins}
}

func (c *Chain) AddVoter(ctx context.Context, voterAddress string) (string, error) {
	ctx, span := c.ins.Tracer("voter.outbound.chain").Start(ctx, "AddVoter")
	defer span.End()

	rc, err := c.client.AddVoter(ctx, voterAddress)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return rc.TxHash, err
	}

	span.SetAttributes(attribute.String("tx.hash", rc.TxHash))

	return rc.TxHash, nil
}
