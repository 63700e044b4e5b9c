package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	libjwt "github.com/golang-jwt/jwt/v5"
	"github.com/shandysiswandi/evoting/internal/ballot/entity"
	"github.com/shandysiswandi/evoting/internal/pkg/config"
	"github.com/shandysiswandi/evoting/internal/pkg/goerror"
	"github.com/shandysiswandi/evoting/internal/pkg/idempotency"
	"github.com/shandysiswandi/evoting/internal/pkg/instrument"
	"github.com/shandysiswandi/evoting/internal/pkg/jwt"
	"github.com/shandysiswandi/evoting/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const voterAddr = "0x5555555555555555555555555555555555555555"

type fakeChain struct {
	candidates []entity.Candidate
	voters     []string
	txHash     string
	err        error
	votes      []uint64
}

func (f *fakeChain) Candidates(context.Context) ([]entity.Candidate, error) { return f.candidates, f.err }
func (f *fakeChain) Results(context.Context) ([]entity.Candidate, error)    { return f.candidates, f.err }
func (f *fakeChain) Voters(context.Context) ([]string, error)               { return f.voters, f.err }

func (f *fakeChain) AddCandidate(context.Context, string) (string, error) { return f.txHash, f.err }

func (f *fakeChain) Vote(_ context.Context, _ string, id uint64) (string, error) {
	f.votes = append(f.votes, id)
	return f.txHash, f.err
}

type fakeMessaging struct {
	events []VoteCastEvent
}

func (f *fakeMessaging) PublishVoteCast(_ context.Context, msg VoteCastEvent) error {
	f.events = append(f.events, msg)
	return nil
}

// fakeGuard mimics the Redis state tracker: one successful run per key, and
// a failed run frees the key.
type fakeGuard struct {
	seen       map[string]bool
	inFlight   bool
	acquireErr error
	markErr    error
}

func (g *fakeGuard) Acquire(context.Context, string, time.Duration) (idempotency.State, error) {
	return idempotency.StateNone, nil
}

func (g *fakeGuard) MarkCompleted(context.Context, string, time.Duration) error { return nil }

func (g *fakeGuard) Release(_ context.Context, key string) error {
	delete(g.seen, key)
	return nil
}

func (g *fakeGuard) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	if g.acquireErr != nil {
		return g.acquireErr
	}
	if g.inFlight {
		return idempotency.ErrAlreadyInProgress
	}
	if g.seen[key] {
		return idempotency.ErrAlreadyCompleted
	}
	g.seen[key] = true
	if err := fn(ctx); err != nil {
		_ = g.Release(ctx, key)
		return err
	}
	return g.markErr
}

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

type fixedID struct{}

func (fixedID) Generate() int64 { return 9 }

func newUsecase(t *testing.T, ch *fakeChain, mq *fakeMessaging, guard idempotency.Idempotency) *Usecase {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)
	cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  ballot:\n    vote_guard_seconds: 30\n"))
	require.NoError(t, err)

	return New(Dependency{
		RepoChain:     ch,
		RepoMessaging: mq,
		Idempotency:   guard,
		Validator:     v,
		Config:        cfg,
		UID:           fixedID{},
		Clock:         fixedClock{},
		Instrument:    instrument.NewNoop(),
	})
}

func ptr(v uint64) *uint64 { return &v }

func TestCandidates(t *testing.T) {
	// Arrange
	ch := &fakeChain{candidates: []entity.Candidate{{ID: 0, Name: "Asha", VoteCount: 1}}}
	uc := newUsecase(t, ch, &fakeMessaging{}, nil)

	// Act
	got, err := uc.Candidates(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, ch.candidates, got)
}

func TestResults_ContractError(t *testing.T) {
	uc := newUsecase(t, &fakeChain{err: errors.New("rpc timeout")}, &fakeMessaging{}, nil)

	_, err := uc.Results(context.Background())

	assert.Equal(t, goerror.DependencyContract, goerror.DependencyOf(err))
}

func TestVoters(t *testing.T) {
	uc := newUsecase(t, &fakeChain{voters: []string{voterAddr}}, &fakeMessaging{}, nil)

	got, err := uc.Voters(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{voterAddr}, got)
}

func TestAddCandidate(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		uc := newUsecase(t, &fakeChain{txHash: "0x01"}, &fakeMessaging{}, nil)

		out, err := uc.AddCandidate(context.Background(), AddCandidateInput{Name: "  Ravi "})

		require.NoError(t, err)
		assert.Equal(t, "0x01", out.TxHash)
	})

	t.Run("blank name", func(t *testing.T) {
		uc := newUsecase(t, &fakeChain{}, &fakeMessaging{}, nil)

		_, err := uc.AddCandidate(context.Background(), AddCandidateInput{Name: "   "})

		var gerr *goerror.Error
		require.ErrorAs(t, err, &gerr)
		assert.Equal(t, goerror.TypeValidation, gerr.Type())
	})
}

func TestVote(t *testing.T) {
	t.Run("relays and publishes", func(t *testing.T) {
		// Arrange
		ch := &fakeChain{txHash: "0xvote"}
		mq := &fakeMessaging{}
		uc := newUsecase(t, ch, mq, &fakeGuard{seen: map[string]bool{}})

		// Act
		out, err := uc.Vote(context.Background(), VoteInput{VoterAddress: voterAddr, CandidateID: ptr(0)})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "0xvote", out.TxHash)
		assert.Equal(t, []uint64{0}, ch.votes)
		require.Len(t, mq.events, 1)
		assert.Equal(t, VoteCastEvent{EventID: 9, VoterAddress: voterAddr, CandidateID: 0, TxHash: "0xvote", CastAt: fixedClock{}.Now()}, mq.events[0])
	})

	t.Run("missing candidate", func(t *testing.T) {
		uc := newUsecase(t, &fakeChain{}, &fakeMessaging{}, nil)

		_, err := uc.Vote(context.Background(), VoteInput{VoterAddress: voterAddr})

		var gerr *goerror.Error
		require.ErrorAs(t, err, &gerr)
		assert.Equal(t, goerror.TypeValidation, gerr.Type())
	})

	t.Run("duplicate submit", func(t *testing.T) {
		ch := &fakeChain{txHash: "0xvote"}
		uc := newUsecase(t, ch, &fakeMessaging{}, &fakeGuard{seen: map[string]bool{}})

		_, first := uc.Vote(context.Background(), VoteInput{VoterAddress: voterAddr, CandidateID: ptr(1)})
		_, second := uc.Vote(context.Background(), VoteInput{VoterAddress: voterAddr, CandidateID: ptr(1)})

		require.NoError(t, first)
		var gerr *goerror.Error
		require.ErrorAs(t, second, &gerr)
		assert.Equal(t, goerror.CodeConflict, gerr.Code())
		assert.Len(t, ch.votes, 1)
	})

	t.Run("in flight submit", func(t *testing.T) {
		ch := &fakeChain{txHash: "0xvote"}
		uc := newUsecase(t, ch, &fakeMessaging{}, &fakeGuard{seen: map[string]bool{}, inFlight: true})

		_, err := uc.Vote(context.Background(), VoteInput{VoterAddress: voterAddr, CandidateID: ptr(1)})

		var gerr *goerror.Error
		require.ErrorAs(t, err, &gerr)
		assert.Equal(t, goerror.CodeConflict, gerr.Code())
		assert.Equal(t, "Vote already being processed", gerr.Msg())
		assert.Empty(t, ch.votes)
	})

	t.Run("retry after reverted vote", func(t *testing.T) {
		// Arrange
		ch := &fakeChain{err: errors.New("execution reverted")}
		uc := newUsecase(t, ch, &fakeMessaging{}, &fakeGuard{seen: map[string]bool{}})
		in := VoteInput{VoterAddress: voterAddr, CandidateID: ptr(1)}

		// Act
		_, first := uc.Vote(context.Background(), in)
		ch.err = nil
		ch.txHash = "0xretry"
		out, second := uc.Vote(context.Background(), in)

		// Assert
		assert.Equal(t, goerror.DependencyContract, goerror.DependencyOf(first))
		require.NoError(t, second)
		assert.Equal(t, "0xretry", out.TxHash)
	})

	t.Run("reverted", func(t *testing.T) {
		uc := newUsecase(t, &fakeChain{err: errors.New("reverted")}, &fakeMessaging{}, &fakeGuard{seen: map[string]bool{}})

		_, err := uc.Vote(context.Background(), VoteInput{VoterAddress: voterAddr, CandidateID: ptr(1)})

		assert.Equal(t, goerror.DependencyContract, goerror.DependencyOf(err))
	})

	t.Run("guard unavailable", func(t *testing.T) {
		ch := &fakeChain{}
		uc := newUsecase(t, ch, &fakeMessaging{}, &fakeGuard{acquireErr: errors.New("redis: connection refused")})

		_, err := uc.Vote(context.Background(), VoteInput{VoterAddress: voterAddr, CandidateID: ptr(1)})

		assert.Equal(t, goerror.DependencyStore, goerror.DependencyOf(err))
		assert.Empty(t, ch.votes)
	})

	t.Run("mark failure after mining", func(t *testing.T) {
		uc := newUsecase(t, &fakeChain{txHash: "0xvote"}, &fakeMessaging{},
			&fakeGuard{seen: map[string]bool{}, markErr: errors.New("redis: i/o timeout")})

		out, err := uc.Vote(context.Background(), VoteInput{VoterAddress: voterAddr, CandidateID: ptr(1)})

		require.NoError(t, err)
		assert.Equal(t, "0xvote", out.TxHash)
	})

	t.Run("session for another voter", func(t *testing.T) {
		uc := newUsecase(t, &fakeChain{}, &fakeMessaging{}, nil)
		ctx := jwt.SetAuth(context.Background(), jwt.Claims{
			RegisteredClaims: libjwt.RegisteredClaims{Subject: "0x1"},
			VoterAddress:     "0x1",
		})

		_, err := uc.Vote(ctx, VoteInput{VoterAddress: voterAddr, CandidateID: ptr(1)})

		var gerr *goerror.Error
		require.ErrorAs(t, err, &gerr)
		assert.Equal(t, goerror.CodeUnauthorized, gerr.Code())
	})
}
