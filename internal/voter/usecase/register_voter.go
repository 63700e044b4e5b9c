package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/evoting/internal/pkg/goerror"
	"github.com/shandysiswandi/evoting/internal/voter/entity"
)

type RegisterVoterInput struct {
	VoterAddress string `validate:"required,eth_addr"`
	Identifier   string `validate:"required,identifier"`
	Email        string `validate:"required,email"`
}

type RegisterVoterOutput struct {
	TxHash string
}

// RegisterVoter reserves the identifier, authorises the address on the
// contract and emails a one-time code. A contract failure releases the
// reservation; a mail failure does not.
func (s *Usecase) RegisterVoter(ctx context.Context, in RegisterVoterInput) (*RegisterVoterOutput, error) {
	ctx, span := s.startSpan(ctx, "RegisterVoter")
	defer span.End()

	in.VoterAddress = strings.TrimSpace(in.VoterAddress)
	in.Identifier = normalizeIdentifier(in.Identifier)
	in.Email = normalizeEmail(in.Email)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	idHash, err := s.hashIdentifier(in.Identifier)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash identifier", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	if err := s.repoStore.CreateIdentifier(ctx, entity.Identifier{
		Hash:         idHash,
		Address:      in.VoterAddress,
		RegisteredAt: now,
	}); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			slog.WarnContext(ctx, "identifier already registered", "voter_address", in.VoterAddress)
			return nil, goerror.NewBusiness("Voter already registered", goerror.CodeDuplicate)
		}

		slog.ErrorContext(ctx, "failed to repo create identifier", "voter_address", in.VoterAddress, "error", err)
		return nil, goerror.NewDependency(goerror.DependencyStore, err)
	}

	txHash, err := s.repoChain.AddVoter(ctx, in.VoterAddress)
	if err != nil {
		slog.ErrorContext(ctx, "failed to contract add voter", "voter_address", in.VoterAddress, "tx_hash", txHash, "error", err)

		if derr := s.repoStore.DeleteIdentifier(ctx, idHash); derr != nil {
			slog.ErrorContext(ctx, "failed to release identifier after contract failure", "voter_address", in.VoterAddress, "error", derr)
		}

		return nil, goerror.NewDependency(goerror.DependencyContract, err)
	}

	if err := s.issueOTP(ctx, in.Email, in.VoterAddress); err != nil {
		return nil, err
	}

	if err := s.repoMessaging.PublishVoterRegistered(ctx, VoterRegisteredEvent{
		EventID:        s.uid.Generate(),
		VoterAddress:   in.VoterAddress,
		IdentifierHash: idHash,
		TxHash:         txHash,
		RegisteredAt:   now,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish voter registered", "voter_address", in.VoterAddress, "error", err)
	}

	return &RegisterVoterOutput{TxHash: txHash}, nil
}
