package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/evoting/internal/pkg/goerror"
	"github.com/shandysiswandi/evoting/internal/voter/entity"
)

type SendOTPInput struct {
	Email      string `validate:"required,email"`
	Identifier string `validate:"required,identifier"`
}

// SendOTP re-issues a code for an already registered identifier.
func (s *Usecase) SendOTP(ctx context.Context, in SendOTPInput) error {
	ctx, span := s.startSpan(ctx, "SendOTP")
	defer span.End()

	in.Email = normalizeEmail(in.Email)
	in.Identifier = normalizeIdentifier(in.Identifier)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	idHash, err := s.hashIdentifier(in.Identifier)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash identifier", "error", err)
		return goerror.NewServer(err)
	}

	rec, err := s.repoStore.GetIdentifier(ctx, idHash)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "otp requested for unregistered identifier")
		return goerror.NewBusiness("Voter not registered", goerror.CodeRejected)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get identifier", "error", err)
		return goerror.NewDependency(goerror.DependencyStore, err)
	}

	return s.issueOTP(ctx, in.Email, rec.Address)
}

// issueOTP stores a fresh code for email, replacing any earlier one, and
// mails it. On mail failure the stored code is left to expire.
func (s *Usecase) issueOTP(ctx context.Context, email, subject string) error {
	code, err := s.otp.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp", "error", err)
		return goerror.NewServer(err)
	}

	entry := entity.NewOTPEntry(email, code, subject, s.clock.Now(), s.otpTTL())
	if err := s.repoStore.SaveOTP(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to repo save otp", "email", email, "error", err)
		return goerror.NewDependency(goerror.DependencyStore, err)
	}

	if err := s.repoMail.SendOTP(ctx, email, code); err != nil {
		slog.ErrorContext(ctx, "failed to send otp mail", "email", email, "error", err)
		return goerror.NewDependency(goerror.DependencyMail, err)
	}

	s.count(ctx, s.otpIssued, 1)

	return nil
}
