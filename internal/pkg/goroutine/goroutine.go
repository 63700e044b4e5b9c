package goroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/evoting/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine applies when NewManager gets a non-positive limit.
const DefaultMaxGoroutine = 16

// ErrPanicked wraps the value recovered from a task panic.
var ErrPanicked = errors.New("goroutine panicked")

// Manager owns the gateway's background tasks, such as the OTP sweeper. It
// bounds how many run at once and lets shutdown wait for all of them.
type Manager struct {
	mu     sync.Mutex
	closed bool
	errs   []error
	wg     sync.WaitGroup
	slots  chan struct{}
}

// NewManager creates a Manager running at most limit tasks at a time.
func NewManager(limit int) *Manager {
	if limit < 1 {
		limit = DefaultMaxGoroutine
	}
	return &Manager{slots: make(chan struct{}, limit)}
}

// Go starts f under name and reports whether it was started. Tasks are
// refused after Wait, when every slot is taken, or when ctx is already
// done. A task error or panic is collected for Wait.
func (g *Manager) Go(ctx context.Context, name string, f func(ctx context.Context) error) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch {
	case g.closed:
		slog.WarnContext(ctx, "goroutine manager closed, task skipped", "task", name)
		return false
	case ctx.Err() != nil:
		slog.WarnContext(ctx, "context done, task skipped", "task", name, "because", ctx.Err())
		return false
	}

	select {
	case g.slots <- struct{}{}:
	default:
		slog.WarnContext(ctx, "goroutine limit reached, task skipped", "task", name, "limit", cap(g.slots))
		return false
	}

	g.wg.Go(func() {
		defer func() { <-g.slots }()
		if err := g.run(ctx, name, f); err != nil {
			g.mu.Lock()
			g.errs = append(g.errs, err)
			g.mu.Unlock()
		}
	})

	return true
}

func (g *Manager) run(ctx context.Context, name string, f func(ctx context.Context) error) (err error) {
	defer func() {
		rvr := recover()
		if rvr == nil {
			return
		}

		slog.ErrorContext(ctx, "panic in background task", "task", name, "because", rvr, "stack", stacktrace.Summary(debug.Stack()))
		err = fmt.Errorf("%s: %w: %v", name, ErrPanicked, rvr)
	}()

	if err := f(ctx); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Wait stops accepting tasks, blocks until running ones return and joins
// their errors.
func (g *Manager) Wait() error {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}
