// Package store persists voter registry, OTP and credential state.
//
// Two drivers exist: Memory keeps everything in process and is lost on
// restart, Redis survives restarts and is shared between replicas.
package store

import (
	"context"
	"errors"

	"github.com/shandysiswandi/evoting/internal/pkg/goerror"
	"github.com/shandysiswandi/evoting/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DriverMemory selects the in-process store.
	DriverMemory = "memory"
	// DriverRedis selects the Redis store.
	DriverRedis = "redis"
)

type tracer struct {
	ins  instrument.Instrumentation
	name string
}

func (t tracer) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return t.ins.Tracer(t.name).Start(ctx, name)
}

func (t tracer) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
