package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/evoting/internal/pkg/goerror"
	"github.com/shandysiswandi/evoting/internal/pkg/jwt"
	"github.com/shandysiswandi/evoting/internal/voter/entity"
)

type FingerprintInput struct {
	VoterAddress    string `validate:"required,eth_addr"`
	FingerprintData string `validate:"required,max=65536"`
}

// RegisterFingerprint stores a digest of the opaque credential blob for an
// address, replacing any earlier one. This is a stub, not WebAuthn.
func (s *Usecase) RegisterFingerprint(ctx context.Context, in FingerprintInput) error {
	ctx, span := s.startSpan(ctx, "RegisterFingerprint")
	defer span.End()

	in.VoterAddress = strings.TrimSpace(in.VoterAddress)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	digest, err := s.argon2id.Hash(in.FingerprintData)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash fingerprint", "voter_address", in.VoterAddress, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoStore.SaveCredential(ctx, entity.Credential{
		Address:      in.VoterAddress,
		Digest:       string(digest),
		RegisteredAt: s.clock.Now(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo save credential", "voter_address", in.VoterAddress, "error", err)
		return goerror.NewDependency(goerror.DependencyStore, err)
	}

	return nil
}

// AuthenticateFingerprint compares the blob with the stored one and opens a
// voter session on match. Unknown addresses fail like a mismatch.
func (s *Usecase) AuthenticateFingerprint(ctx context.Context, in FingerprintInput) (*SessionOutput, error) {
	ctx, span := s.startSpan(ctx, "AuthenticateFingerprint")
	defer span.End()

	in.VoterAddress = strings.TrimSpace(in.VoterAddress)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	cred, err := s.repoStore.GetCredential(ctx, in.VoterAddress)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "fingerprint not registered", "voter_address", in.VoterAddress)
		return nil, goerror.NewBusiness("Fingerprint authentication failed", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get credential", "voter_address", in.VoterAddress, "error", err)
		return nil, goerror.NewDependency(goerror.DependencyStore, err)
	}

	if !s.argon2id.Verify(cred.Digest, in.FingerprintData) {
		slog.WarnContext(ctx, "fingerprint mismatch", "voter_address", in.VoterAddress)
		return nil, goerror.NewBusiness("Fingerprint authentication failed", goerror.CodeUnauthorized)
	}

	return s.openSession(ctx, in.VoterAddress, jwt.MethodFingerprint)
}
