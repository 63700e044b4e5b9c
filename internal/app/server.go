package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// Run serves HTTP until the context given to New ends or the listener
// fails, then shuts everything down.
func (a *App) Run() error {
	errc := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "address", a.httpServer.Addr)
		errc <- a.httpServer.ListenAndServe()
	}()

	var err error
	select {
	case <-a.ctx.Done():
		slog.Info("shutdown requested")
	case err = <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		} else {
			err = fmt.Errorf("http server: %w", err)
		}
	}

	timeout := a.config.GetSecond("app.server.shutdown_timeout_seconds")
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return errors.Join(err, a.Stop(ctx))
}

// Stop drains in-flight requests, waits for background tasks and closes
// every resource.
func (a *App) Stop(ctx context.Context) error {
	a.cancel()

	var errs []error
	if err := a.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http server: %w", err))
	}

	slog.InfoContext(ctx, "waiting for background tasks")
	if err := a.goroutine.Wait(); err != nil {
		errs = append(errs, fmt.Errorf("background tasks: %w", err))
	}

	errs = append(errs, a.close(ctx))
	if err := errors.Join(errs...); err != nil {
		return err
	}

	slog.InfoContext(ctx, "application stopped")
	return nil
}
