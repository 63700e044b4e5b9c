package ballot

import (
	"github.com/shandysiswandi/evoting/internal/ballot/inbound"
	"github.com/shandysiswandi/evoting/internal/ballot/outbound/chain"
	"github.com/shandysiswandi/evoting/internal/ballot/outbound/mq"
	"github.com/shandysiswandi/evoting/internal/ballot/usecase"
	"github.com/shandysiswandi/evoting/internal/pkg/clock"
	"github.com/shandysiswandi/evoting/internal/pkg/config"
	"github.com/shandysiswandi/evoting/internal/pkg/evoting"
	"github.com/shandysiswandi/evoting/internal/pkg/idempotency"
	"github.com/shandysiswandi/evoting/internal/pkg/instrument"
	"github.com/shandysiswandi/evoting/internal/pkg/jwt"
	"github.com/shandysiswandi/evoting/internal/pkg/messaging"
	"github.com/shandysiswandi/evoting/internal/pkg/router"
	"github.com/shandysiswandi/evoting/internal/pkg/uid"
	"github.com/shandysiswandi/evoting/internal/pkg/validator"
)

type Dependency struct {
	// Idempotency is optional; without it concurrent votes are not guarded.
	Idempotency idempotency.Idempotency
	Contract    evoting.Contract           `validate:"required"`
	Messaging   messaging.Messaging        `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
	JWT         jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoChain:     chain.New(dep.Contract, dep.Instrument),
		RepoMessaging: mq.NewMessaging(dep.Messaging, dep.Instrument),
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Config:        dep.Config,
		UID:           dep.UID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
	})

	guards := inbound.Guards{
		Admin: router.AdminKey(dep.Config.GetString("modules.ballot.admin_key")),
	}
	if dep.Config.GetBool("modules.ballot.vote_requires_session") {
		guards.Session = router.Authenticated(dep.JWT)
	}

	inbound.RegisterHTTPEndpoint(dep.Router, uc, guards)

	return nil
}
