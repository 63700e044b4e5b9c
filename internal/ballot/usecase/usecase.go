package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/evoting/internal/ballot/entity"
	"github.com/shandysiswandi/evoting/internal/pkg/clock"
	"github.com/shandysiswandi/evoting/internal/pkg/config"
	"github.com/shandysiswandi/evoting/internal/pkg/idempotency"
	"github.com/shandysiswandi/evoting/internal/pkg/instrument"
	"github.com/shandysiswandi/evoting/internal/pkg/uid"
	"github.com/shandysiswandi/evoting/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type VoteCastEvent struct {
	EventID      int64
	VoterAddress string
	CandidateID  uint64
	TxHash       string
	CastAt       time.Time
}

type repoChain interface {
	Candidates(ctx context.Context) ([]entity.Candidate, error)
	Results(ctx context.Context) ([]entity.Candidate, error)
	Voters(ctx context.Context) ([]string, error)
	AddCandidate(ctx context.Context, name string) (string, error)
	Vote(ctx context.Context, voterAddress string, candidateID uint64) (string, error)
}

type repoMessaging interface {
	PublishVoteCast(ctx context.Context, msg VoteCastEvent) error
}

type Usecase struct {
	repoChain     repoChain
	repoMessaging repoMessaging
	idempotency   idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	uid           uid.NumberID
	clock         clock.Clocker
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoChain     repoChain
	RepoMessaging repoMessaging
	// Idempotency guards vote relay per address. Nil disables the guard.
	Idempotency idempotency.Idempotency
	Validator   validator.Validator
	Config      config.Config
	UID         uid.NumberID
	Clock       clock.Clocker
	Instrument  instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoChain:     dep.RepoChain,
		repoMessaging: dep.RepoMessaging,
		idempotency:   dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		uid:           dep.UID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("ballot.usecase").Start(ctx, name)
}
