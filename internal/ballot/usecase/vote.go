package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/evoting/internal/pkg/goerror"
	"github.com/shandysiswandi/evoting/internal/pkg/idempotency"
	"github.com/shandysiswandi/evoting/internal/pkg/jwt"
)

const defaultVoteGuard = 30 * time.Second

type VoteInput struct {
	VoterAddress string  `validate:"required,eth_addr"`
	CandidateID  *uint64 `validate:"required"`
}

type VoteOutput struct {
	TxHash string
}

// Vote relays a ballot to the contract and waits for its receipt. When a
// session is present it must belong to the voting address.
func (s *Usecase) Vote(ctx context.Context, in VoteInput) (*VoteOutput, error) {
	ctx, span := s.startSpan(ctx, "Vote")
	defer span.End()

	in.VoterAddress = strings.TrimSpace(in.VoterAddress)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if claims := jwt.GetAuth(ctx); claims != nil && claims.Subject != strings.ToLower(in.VoterAddress) {
		slog.WarnContext(ctx, "session does not match voter", "voter_address", in.VoterAddress, "subject", claims.Subject)
		return nil, goerror.NewBusiness("Session does not belong to this voter", goerror.CodeUnauthorized)
	}

	var (
		txHash   string
		relayed  bool
		relayErr error
	)
	relay := func(ctx context.Context) error {
		relayed = true
		txHash, relayErr = s.repoChain.Vote(ctx, in.VoterAddress, *in.CandidateID)
		return relayErr
	}

	var err error
	if s.idempotency == nil {
		err = relay(ctx)
	} else {
		guard := s.cfg.GetSecond("modules.ballot.vote_guard_seconds")
		if guard <= 0 {
			guard = defaultVoteGuard
		}
		err = s.idempotency.Exec(ctx, "vote:"+strings.ToLower(in.VoterAddress), relay,
			idempotency.WithLockDuration(guard),
			idempotency.WithStateTTL(guard),
		)
	}

	switch {
	case errors.Is(err, idempotency.ErrAlreadyInProgress):
		slog.WarnContext(ctx, "vote already in flight", "voter_address", in.VoterAddress)
		return nil, goerror.NewBusiness("Vote already being processed", goerror.CodeConflict)
	case errors.Is(err, idempotency.ErrAlreadyCompleted):
		slog.WarnContext(ctx, "vote already cast", "voter_address", in.VoterAddress)
		return nil, goerror.NewBusiness("Vote already cast", goerror.CodeConflict)
	case relayErr != nil:
		slog.ErrorContext(ctx, "failed to contract vote", "voter_address", in.VoterAddress, "tx_hash", txHash, "error", relayErr)
		return nil, goerror.NewDependency(goerror.DependencyContract, relayErr)
	case err != nil && !relayed:
		slog.ErrorContext(ctx, "failed to acquire vote guard", "voter_address", in.VoterAddress, "error", err)
		return nil, goerror.NewDependency(goerror.DependencyStore, err)
	case err != nil:
		// the transaction is mined; only recording the guard state failed
		slog.WarnContext(ctx, "failed to mark vote guard", "voter_address", in.VoterAddress, "error", err)
	}

	if err := s.repoMessaging.PublishVoteCast(ctx, VoteCastEvent{
		EventID:      s.uid.Generate(),
		VoterAddress: in.VoterAddress,
		CandidateID:  *in.CandidateID,
		TxHash:       txHash,
		CastAt:       s.clock.Now(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish vote cast", "voter_address", in.VoterAddress, "error", err)
	}

	return &VoteOutput{TxHash: txHash}, nil
}
