package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/evoting/internal/ballot/entity"
	"github.com/shandysiswandi/evoting/internal/pkg/goerror"
)

func (s *Usecase) Candidates(ctx context.Context) ([]entity.Candidate, error) {
	ctx, span := s.startSpan(ctx, "Candidates")
	defer span.End()

	cs, err := s.repoChain.Candidates(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to contract get candidates", "error", err)
		return nil, goerror.NewDependency(goerror.DependencyContract, err)
	}

	return cs, nil
}

func (s *Usecase) Results(ctx context.Context) ([]entity.Candidate, error) {
	ctx, span := s.startSpan(ctx, "Results")
	defer span.End()

	cs, err := s.repoChain.Results(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to contract get results", "error", err)
		return nil, goerror.NewDependency(goerror.DependencyContract, err)
	}

	return cs, nil
}

func (s *Usecase) Voters(ctx context.Context) ([]string, error) {
	ctx, span := s.startSpan(ctx, "Voters")
	defer span.End()

	voters, err := s.repoChain.Voters(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to contract get voters", "error", err)
		return nil, goerror.NewDependency(goerror.DependencyContract, err)
	}

	return voters, nil
}
