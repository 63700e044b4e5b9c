package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/evoting/internal/pkg/goerror"
)

// SweepOTP deletes every expired code and returns how many were removed.
// Overlapping calls return immediately with zero.
func (s *Usecase) SweepOTP(ctx context.Context) (int, error) {
	if !s.sweeping.CompareAndSwap(false, true) {
		return 0, nil
	}
	defer s.sweeping.Store(false)

	ctx, span := s.startSpan(ctx, "SweepOTP")
	defer span.End()

	removed, err := s.repoStore.SweepOTP(ctx, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo sweep otp", "error", err)
		return 0, goerror.NewDependency(goerror.DependencyStore, err)
	}

	s.count(ctx, s.otpSwept, int64(removed))
	if removed > 0 {
		slog.InfoContext(ctx, "expired otp entries swept", "count", removed)
	}

	return removed, nil
}
