package goroutine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_WaitCollectsErrors(t *testing.T) {
	// Arrange
	m := NewManager(2)
	boom := errors.New("boom")

	// Act
	started := m.Go(context.Background(), "failing", func(context.Context) error { return boom })
	m.Go(context.Background(), "ok", func(context.Context) error { return nil })
	err := m.Wait()

	// Assert
	assert.True(t, started)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "failing: boom")
}

func TestManager_RecoversPanic(t *testing.T) {
	m := NewManager(1)

	m.Go(context.Background(), "otp-sweeper", func(context.Context) error { panic("sweep exploded") })
	err := m.Wait()

	assert.ErrorIs(t, err, ErrPanicked)
	assert.ErrorContains(t, err, "otp-sweeper")
}

func TestManager_ClosedSkips(t *testing.T) {
	m := NewManager(1)
	require.NoError(t, m.Wait())

	ran := false
	started := m.Go(context.Background(), "late", func(context.Context) error { ran = true; return nil })

	assert.False(t, started)
	assert.False(t, ran)
}

func TestManager_CanceledContext(t *testing.T) {
	m := NewManager(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	started := m.Go(ctx, "canceled", func(context.Context) error { ran = true; return nil })

	assert.NoError(t, m.Wait())
	assert.False(t, started)
	assert.False(t, ran)
}

func TestManager_Limit(t *testing.T) {
	// Arrange
	m := NewManager(1)
	release := make(chan struct{})
	m.Go(context.Background(), "long", func(context.Context) error { <-release; return nil })

	// Act
	started := m.Go(context.Background(), "extra", func(context.Context) error { return nil })
	close(release)

	// Assert
	assert.False(t, started)
	assert.NoError(t, m.Wait())
}
