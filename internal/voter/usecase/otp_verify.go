package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/evoting/internal/pkg/goerror"
	"github.com/shandysiswandi/evoting/internal/pkg/jwt"
	"github.com/shandysiswandi/evoting/internal/voter/entity"
)

type VerifyOTPInput struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required,otp"`
}

type SessionOutput struct {
	VoterAddress string
	Token        string
}

// VerifyOTP consumes the code issued to email and returns a voter session.
// Absent, wrong and expired codes are indistinguishable to the caller.
func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) (*SessionOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	in.Email = normalizeEmail(in.Email)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	now := s.clock.Now()
	entry, err := s.repoStore.ConsumeOTP(ctx, in.Email, func(e entity.OTPEntry) (entity.OTPEntry, error) {
		return e.Verify(in.Code, now)
	})
	if err != nil {
		if errors.Is(err, entity.ErrOTPInvalid) || errors.Is(err, goerror.ErrNotFound) || errors.Is(err, goerror.ErrConflict) {
			s.count(ctx, s.otpRejected, 1)
			slog.WarnContext(ctx, "otp rejected", "email", in.Email)
			return nil, goerror.NewBusiness("Invalid or expired OTP", goerror.CodeRejected)
		}

		slog.ErrorContext(ctx, "failed to repo consume otp", "email", in.Email, "error", err)
		return nil, goerror.NewDependency(goerror.DependencyStore, err)
	}

	s.count(ctx, s.otpVerified, 1)

	return s.openSession(ctx, entry.Subject, jwt.MethodOTP)
}

func (s *Usecase) openSession(ctx context.Context, voterAddress string, method jwt.Method) (*SessionOutput, error) {
	token, err := s.jwt.Generate(voterAddress, method)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate session token", "voter_address", voterAddress, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishVoterAuthenticated(ctx, VoterAuthenticatedEvent{
		EventID:      s.uid.Generate(),
		VoterAddress: voterAddress,
		Method:       method,
		VerifiedAt:   s.clock.Now(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish voter authenticated", "voter_address", voterAddress, "error", err)
	}

	return &SessionOutput{VoterAddress: voterAddress, Token: token}, nil
}
