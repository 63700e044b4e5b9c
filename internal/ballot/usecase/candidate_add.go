package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/evoting/internal/pkg/goerror"
)

type AddCandidateInput struct {
	Name string `validate:"required,max=128"`
}

type AddCandidateOutput struct {
	TxHash string
}

func (s *Usecase) AddCandidate(ctx context.Context, in AddCandidateInput) (*AddCandidateOutput, error) {
	ctx, span := s.startSpan(ctx, "AddCandidate")
	defer span.End()

	in.Name = strings.TrimSpace(in.Name)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	txHash, err := s.repoChain.AddCandidate(ctx, in.Name)
	if err != nil {
		slog.ErrorContext(ctx, "failed to contract add candidate", "name", in.Name, "tx_hash", txHash, "error", err)
		return nil, goerror.NewDependency(goerror.DependencyContract, err)
	}

	return &AddCandidateOutput{TxHash: txHash}, nil
}
