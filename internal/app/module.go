package app

import (
	"fmt"

	"github.com/shandysiswandi/evoting/internal/ballot"
	"github.com/shandysiswandi/evoting/internal/voter"
)

func (a *App) initModules() error {
	if a.config.GetBool("modules.voter.enabled") {
		if err := voter.New(voter.Dependency{
			Ctx:            a.ctx,
			CacheConn:      a.cacheConn,
			Contract:       a.contract,
			Mail:           a.mail,
			Messaging:      a.messaging,
			Router:         a.router,
			Goroutine:      a.goroutine,
			Config:         a.config,
			Instrument:     a.ins,
			UID:            a.uid,
			Clock:          a.clock,
			Validator:      a.validator,
			IdentifierHash: a.identifierHash,
			Argon2ID:       a.argon2id,
			OTP:            a.otp,
			JWT:            a.jwt,
		}); err != nil {
			return fmt.Errorf("voter: %w", err)
		}
	}

	if a.config.GetBool("modules.ballot.enabled") {
		if err := ballot.New(ballot.Dependency{
			Idempotency: a.idemp,
			Contract:    a.contract,
			Messaging:   a.messaging,
			Router:      a.router,
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			Clock:       a.clock,
			Validator:   a.validator,
			JWT:         a.jwt,
		}); err != nil {
			return fmt.Errorf("ballot: %w", err)
		}
	}

	return nil
}
