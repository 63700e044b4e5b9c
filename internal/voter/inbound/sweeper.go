package inbound

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/evoting/internal/pkg/goroutine"
)

const defaultSweepInterval = 300 * time.Second

type sweeper interface {
	SweepOTP(ctx context.Context) (int, error)
}

// RegisterOTPSweeper starts the periodic removal of expired codes. The loop
// ends when ctx is cancelled.
func RegisterOTPSweeper(ctx context.Context, routine *goroutine.Manager, interval time.Duration, uc sweeper) {
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	routine.Go(ctx, "otp-sweeper", func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		slog.InfoContext(ctx, "otp sweeper started", "interval", interval.String())

		for {
			select {
			case <-ctx.Done():
				slog.InfoContext(ctx, "otp sweeper stopped")
				return nil
			case <-ticker.C:
				if _, err := uc.SweepOTP(ctx); err != nil {
					slog.WarnContext(ctx, "otp sweep failed", "error", err)
				}
			}
		}
	})
}
