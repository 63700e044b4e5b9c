package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/evoting/internal/pkg/clock"
	"github.com/shandysiswandi/evoting/internal/pkg/config"
	"github.com/shandysiswandi/evoting/internal/pkg/hash"
	"github.com/shandysiswandi/evoting/internal/pkg/instrument"
	"github.com/shandysiswandi/evoting/internal/pkg/jwt"
	"github.com/shandysiswandi/evoting/internal/pkg/otp"
	"github.com/shandysiswandi/evoting/internal/pkg/uid"
	"github.com/shandysiswandi/evoting/internal/pkg/validator"
	"github.com/shandysiswandi/evoting/internal/voter/entity"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
)

const defaultOTPTTL = 5 * time.Minute

type VoterRegisteredEvent struct {
	EventID        int64
	VoterAddress   string
	IdentifierHash string
	TxHash         string
	RegisteredAt   time.Time
}

type VoterAuthenticatedEvent struct {
	EventID      int64
	VoterAddress string
	Method       jwt.Method
	VerifiedAt   time.Time
}

type repoStore interface {
	CreateIdentifier(ctx context.Context, in entity.Identifier) error
	GetIdentifier(ctx context.Context, hash string) (*entity.Identifier, error)
	DeleteIdentifier(ctx context.Context, hash string) error

	SaveOTP(ctx context.Context, in entity.OTPEntry) error
	ConsumeOTP(ctx context.Context, contactKey string, fn func(entity.OTPEntry) (entity.OTPEntry, error)) (entity.OTPEntry, error)
	SweepOTP(ctx context.Context, now time.Time) (int, error)

	SaveCredential(ctx context.Context, in entity.Credential) error
	GetCredential(ctx context.Context, address string) (*entity.Credential, error)
}

type repoChain interface {
	AddVoter(ctx context.Context, voterAddress string) (string, error)
}

type repoMail interface {
	SendOTP(ctx context.Context, to, code string) error
}

type repoMessaging interface {
	PublishVoterRegistered(ctx context.Context, msg VoterRegisteredEvent) error
	PublishVoterAuthenticated(ctx context.Context, msg VoterAuthenticatedEvent) error
}

type Usecase struct {
	repoStore      repoStore
	repoChain      repoChain
	repoMail       repoMail
	repoMessaging  repoMessaging
	validator      validator.Validator
	cfg            config.Config
	identifierHash hash.Hash
	argon2id       hash.Hash
	otp            otp.Generator
	uid            uid.NumberID
	clock          clock.Clocker
	jwt            jwt.JWT
	ins            instrument.Instrumentation

	sweeping    *atomic.Bool
	otpIssued   metric.Int64Counter
	otpVerified metric.Int64Counter
	otpRejected metric.Int64Counter
	otpSwept    metric.Int64Counter
}

type Dependency struct {
	RepoStore      repoStore
	RepoChain      repoChain
	RepoMail       repoMail
	RepoMessaging  repoMessaging
	Validator      validator.Validator
	Config         config.Config
	IdentifierHash hash.Hash
	Argon2ID       hash.Hash
	OTP            otp.Generator
	UID            uid.NumberID
	Clock          clock.Clocker
	JWT            jwt.JWT
	Instrument     instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	s := &Usecase{
		repoStore:      dep.RepoStore,
		repoChain:      dep.RepoChain,
		repoMail:       dep.RepoMail,
		repoMessaging:  dep.RepoMessaging,
		validator:      dep.Validator,
		cfg:            dep.Config,
		identifierHash: dep.IdentifierHash,
		argon2id:       dep.Argon2ID,
		otp:            dep.OTP,
		uid:            dep.UID,
		clock:          dep.Clock,
		jwt:            dep.JWT,
		ins:            dep.Instrument,
		sweeping:       atomic.NewBool(false),
	}

	meter := s.ins.Meter("voter.usecase")
	s.otpIssued = s.counter(meter, "voter.otp.issued", "Number of one-time codes issued")
	s.otpVerified = s.counter(meter, "voter.otp.verified", "Number of one-time codes accepted")
	s.otpRejected = s.counter(meter, "voter.otp.rejected", "Number of one-time codes rejected")
	s.otpSwept = s.counter(meter, "voter.otp.swept", "Number of expired one-time codes removed by the sweeper")

	return s
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("voter.usecase").Start(ctx, name)
}

func (s *Usecase) counter(meter metric.Meter, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		slog.Error("failed to create counter", "name", name, "error", err)
		return nil
	}
	return c
}

func (s *Usecase) count(ctx context.Context, c metric.Int64Counter, n int64) {
	if c != nil && n > 0 {
		c.Add(ctx, n)
	}
}

func (s *Usecase) otpTTL() time.Duration {
	if ttl := s.cfg.GetSecond("modules.voter.otp.ttl_seconds"); ttl > 0 {
		return ttl
	}
	return defaultOTPTTL
}
