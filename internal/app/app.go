// Package app wires the gateway: configuration, shared clients, the HTTP
// router and the voter and ballot modules.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/evoting/internal/pkg/clock"
	"github.com/shandysiswandi/evoting/internal/pkg/config"
	"github.com/shandysiswandi/evoting/internal/pkg/evoting"
	"github.com/shandysiswandi/evoting/internal/pkg/goroutine"
	"github.com/shandysiswandi/evoting/internal/pkg/hash"
	"github.com/shandysiswandi/evoting/internal/pkg/idempotency"
	"github.com/shandysiswandi/evoting/internal/pkg/instrument"
	"github.com/shandysiswandi/evoting/internal/pkg/jwt"
	"github.com/shandysiswandi/evoting/internal/pkg/mail"
	"github.com/shandysiswandi/evoting/internal/pkg/messaging"
	"github.com/shandysiswandi/evoting/internal/pkg/otp"
	"github.com/shandysiswandi/evoting/internal/pkg/router"
	"github.com/shandysiswandi/evoting/internal/pkg/uid"
	"github.com/shandysiswandi/evoting/internal/pkg/validator"
)

const defaultShutdownTimeout = 10 * time.Second

type closer struct {
	name string
	fn   func(context.Context) error
}

type App struct {
	// ctx ends when the process is asked to stop; background tasks follow it
	ctx    context.Context
	cancel context.CancelFunc

	config config.Config
	ins    instrument.Instrumentation

	goroutine      *goroutine.Manager
	validator      validator.Validator
	clock          clock.Clocker
	identifierHash hash.Hash
	argon2id       hash.Hash
	uid            uid.NumberID
	uuid           uid.StringID
	otp            otp.Generator
	jwt            jwt.JWT

	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	contract  *evoting.Client
	mail      mail.Mail
	messaging messaging.Messaging

	router     *router.Router
	httpServer *http.Server

	closers []closer
}

// New brings every dependency up in order. If a step fails, whatever was
// already opened is closed again.
func New(ctx context.Context) (*App, error) {
	a := &App{}
	a.ctx, a.cancel = context.WithCancel(ctx)

	steps := []struct {
		name string
		fn   func() error
	}{
		{"config", a.initConfig},
		{"instrument", a.initInstrument},
		{"libraries", a.initLibraries},
		{"jwt", a.initJWT},
		{"redis", a.initCache},
		{"contract", a.initContract},
		{"mail", a.initMail},
		{"messaging", a.initMessaging},
		{"http server", a.initHTTPServer},
		{"modules", a.initModules},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			a.cancel()
			closeCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
			defer cancel()
			return nil, errors.Join(fmt.Errorf("init %s: %w", step.name, err), a.close(closeCtx))
		}
	}

	return a, nil
}

// onClose registers a resource to release at shutdown.
func (a *App) onClose(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

// close releases resources in reverse order of opening.
func (a *App) close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resource", "name", c.name, "error", err)
			errs = append(errs, fmt.Errorf("close %s: %w", c.name, err))
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
