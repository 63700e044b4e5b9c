package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/evoting/internal/pkg/goerror"
	"github.com/shandysiswandi/evoting/internal/voter/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type voterStore interface {
	CreateIdentifier(ctx context.Context, in entity.Identifier) error
	GetIdentifier(ctx context.Context, hash string) (*entity.Identifier, error)
	DeleteIdentifier(ctx context.Context, hash string) error
	SaveOTP(ctx context.Context, in entity.OTPEntry) error
	ConsumeOTP(ctx context.Context, contactKey string, fn func(entity.OTPEntry) (entity.OTPEntry, error)) (entity.OTPEntry, error)
	SweepOTP(ctx context.Context, now time.Time) (int, error)
	SaveCredential(ctx context.Context, in entity.Credential) error
	GetCredential(ctx context.Context, address string) (*entity.Credential, error)
}

var issuedAt = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func verifyAt(code string, now time.Time) func(entity.OTPEntry) (entity.OTPEntry, error) {
	return func(e entity.OTPEntry) (entity.OTPEntry, error) { return e.Verify(code, now) }
}

func runStoreSuite(t *testing.T, newStore func(t *testing.T) voterStore) {
	t.Run("identifier is append only", func(t *testing.T) {
		// Arrange
		s := newStore(t)
		ctx := context.Background()
		rec := entity.Identifier{Hash: "h1", Address: "0xA", RegisteredAt: issuedAt}

		// Act
		err1 := s.CreateIdentifier(ctx, rec)
		err2 := s.CreateIdentifier(ctx, entity.Identifier{Hash: "h1", Address: "0xB"})
		got, errGet := s.GetIdentifier(ctx, "h1")

		// Assert
		require.NoError(t, err1)
		assert.ErrorIs(t, err2, goerror.ErrConflict)
		require.NoError(t, errGet)
		assert.Equal(t, "0xA", got.Address)
	})

	t.Run("concurrent create admits exactly one", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			success int
		)
		for i := range 16 {
			wg.Go(func() {
				err := s.CreateIdentifier(ctx, entity.Identifier{Hash: "race", Address: fmt.Sprintf("0x%d", i)})
				if err == nil {
					mu.Lock()
					success++
					mu.Unlock()
				}
			})
		}
		wg.Wait()

		assert.Equal(t, 1, success)
	})

	t.Run("missing identifier and delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.GetIdentifier(ctx, "nope")
		assert.ErrorIs(t, err, goerror.ErrNotFound)

		require.NoError(t, s.CreateIdentifier(ctx, entity.Identifier{Hash: "h2", Address: "0xA"}))
		require.NoError(t, s.DeleteIdentifier(ctx, "h2"))
		_, err = s.GetIdentifier(ctx, "h2")
		assert.ErrorIs(t, err, goerror.ErrNotFound)
	})

	t.Run("otp is single use", func(t *testing.T) {
		// Arrange
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.SaveOTP(ctx, entity.NewOTPEntry("a@x.io", "123456", "0xA", issuedAt, 5*time.Minute)))

		// Act
		first, err1 := s.ConsumeOTP(ctx, "a@x.io", verifyAt("123456", issuedAt.Add(time.Minute)))
		_, err2 := s.ConsumeOTP(ctx, "a@x.io", verifyAt("123456", issuedAt.Add(time.Minute)))

		// Assert
		require.NoError(t, err1)
		assert.Equal(t, entity.OTPStateConsumed, first.State)
		assert.Equal(t, "0xA", first.Subject)
		assert.ErrorIs(t, err2, goerror.ErrNotFound)
	})

	t.Run("mismatch keeps the entry", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.SaveOTP(ctx, entity.NewOTPEntry("b@x.io", "123456", "", issuedAt, 5*time.Minute)))

		_, errWrong := s.ConsumeOTP(ctx, "b@x.io", verifyAt("000000", issuedAt))
		_, errRight := s.ConsumeOTP(ctx, "b@x.io", verifyAt("123456", issuedAt))

		assert.ErrorIs(t, errWrong, entity.ErrOTPInvalid)
		assert.NoError(t, errRight)
	})

	t.Run("expired entry is removed on verify", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.SaveOTP(ctx, entity.NewOTPEntry("c@x.io", "123456", "", issuedAt, 5*time.Minute)))

		got, err := s.ConsumeOTP(ctx, "c@x.io", verifyAt("123456", issuedAt.Add(6*time.Minute)))
		_, errAgain := s.ConsumeOTP(ctx, "c@x.io", verifyAt("123456", issuedAt))

		assert.ErrorIs(t, err, entity.ErrOTPInvalid)
		assert.Equal(t, entity.OTPStateExpired, got.State)
		assert.ErrorIs(t, errAgain, goerror.ErrNotFound)
	})

	t.Run("reissue overwrites", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.SaveOTP(ctx, entity.NewOTPEntry("d@x.io", "111111", "", issuedAt, 5*time.Minute)))
		require.NoError(t, s.SaveOTP(ctx, entity.NewOTPEntry("d@x.io", "222222", "", issuedAt, 5*time.Minute)))

		_, errOld := s.ConsumeOTP(ctx, "d@x.io", verifyAt("111111", issuedAt))
		_, errNew := s.ConsumeOTP(ctx, "d@x.io", verifyAt("222222", issuedAt))

		assert.ErrorIs(t, errOld, entity.ErrOTPInvalid)
		assert.NoError(t, errNew)
	})

	t.Run("sweep removes exactly the expired entries", func(t *testing.T) {
		// Arrange
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.SaveOTP(ctx, entity.NewOTPEntry("old1@x.io", "111111", "", issuedAt, 5*time.Minute)))
		require.NoError(t, s.SaveOTP(ctx, entity.NewOTPEntry("old2@x.io", "222222", "", issuedAt.Add(time.Minute), 5*time.Minute)))
		require.NoError(t, s.SaveOTP(ctx, entity.NewOTPEntry("fresh@x.io", "333333", "", issuedAt.Add(4*time.Minute), 5*time.Minute)))

		// Act
		removed, err := s.SweepOTP(ctx, issuedAt.Add(6*time.Minute))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 2, removed)
		_, errFresh := s.ConsumeOTP(ctx, "fresh@x.io", verifyAt("333333", issuedAt.Add(6*time.Minute)))
		assert.NoError(t, errFresh)
		_, errOld := s.ConsumeOTP(ctx, "old1@x.io", verifyAt("111111", issuedAt))
		assert.ErrorIs(t, errOld, goerror.ErrNotFound)
	})

	t.Run("credential overwrite and case insensitive lookup", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.SaveCredential(ctx, entity.Credential{Address: "0xAbC", Digest: "d1"}))
		require.NoError(t, s.SaveCredential(ctx, entity.Credential{Address: "0xabc", Digest: "d2"}))
		got, err := s.GetCredential(ctx, "0XABC")
		_, errMissing := s.GetCredential(ctx, "0xdef")

		require.NoError(t, err)
		assert.Equal(t, "d2", got.Digest)
		assert.ErrorIs(t, errMissing, goerror.ErrNotFound)
	})
}
