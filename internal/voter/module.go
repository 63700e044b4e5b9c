package voter

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/evoting/internal/pkg/clock"
	"github.com/shandysiswandi/evoting/internal/pkg/config"
	"github.com/shandysiswandi/evoting/internal/pkg/evoting"
	"github.com/shandysiswandi/evoting/internal/pkg/goroutine"
	"github.com/shandysiswandi/evoting/internal/pkg/hash"
	"github.com/shandysiswandi/evoting/internal/pkg/instrument"
	"github.com/shandysiswandi/evoting/internal/pkg/jwt"
	"github.com/shandysiswandi/evoting/internal/pkg/mail"
	"github.com/shandysiswandi/evoting/internal/pkg/messaging"
	"github.com/shandysiswandi/evoting/internal/pkg/otp"
	"github.com/shandysiswandi/evoting/internal/pkg/router"
	"github.com/shandysiswandi/evoting/internal/pkg/uid"
	"github.com/shandysiswandi/evoting/internal/pkg/validator"
	"github.com/shandysiswandi/evoting/internal/voter/inbound"
	"github.com/shandysiswandi/evoting/internal/voter/outbound/chain"
	"github.com/shandysiswandi/evoting/internal/voter/outbound/email"
	"github.com/shandysiswandi/evoting/internal/voter/outbound/mq"
	"github.com/shandysiswandi/evoting/internal/voter/outbound/store"
	"github.com/shandysiswandi/evoting/internal/voter/usecase"
)

var errRedisRequired = errors.New("voter: store driver redis needs a redis connection")

type Dependency struct {
	// Ctx bounds background work such as the OTP sweeper. Nil disables it.
	Ctx            context.Context
	CacheConn      *redis.Client
	Contract       evoting.Contract           `validate:"required"`
	Mail           mail.Mail                  `validate:"required"`
	Messaging      messaging.Messaging        `validate:"required"`
	Router         *router.Router             `validate:"required"`
	Goroutine      *goroutine.Manager         `validate:"required"`
	Config         config.Config              `validate:"required"`
	Instrument     instrument.Instrumentation `validate:"required"`
	UID            uid.NumberID               `validate:"required"`
	Clock          clock.Clocker              `validate:"required"`
	Validator      validator.Validator        `validate:"required"`
	IdentifierHash hash.Hash                  `validate:"required"`
	Argon2ID       hash.Hash                  `validate:"required"`
	OTP            otp.Generator              `validate:"required"`
	JWT            jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	ucDep := usecase.Dependency{
		RepoChain:      chain.New(dep.Contract, dep.Instrument),
		RepoMail:       email.New(dep.Mail, dep.Instrument),
		RepoMessaging:  mq.NewMessaging(dep.Messaging, dep.Instrument),
		Validator:      dep.Validator,
		Config:         dep.Config,
		IdentifierHash: dep.IdentifierHash,
		Argon2ID:       dep.Argon2ID,
		OTP:            dep.OTP,
		UID:            dep.UID,
		Clock:          dep.Clock,
		JWT:            dep.JWT,
		Instrument:     dep.Instrument,
	}

	switch driver := dep.Config.GetString("store.driver"); driver {
	case "", store.DriverMemory:
		ucDep.RepoStore = store.NewMemory(dep.Instrument)
	case store.DriverRedis:
		if dep.CacheConn == nil {
			return errRedisRequired
		}
		ucDep.RepoStore = store.NewRedis(dep.CacheConn, dep.Instrument)
	default:
		return fmt.Errorf("voter: unknown store driver %q", driver)
	}

	uc := usecase.New(ucDep)

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	if dep.Ctx != nil {
		interval := dep.Config.GetSecond("modules.voter.otp.sweep_interval_seconds")
		inbound.RegisterOTPSweeper(dep.Ctx, dep.Goroutine, interval, uc)
	}

	return nil
}
