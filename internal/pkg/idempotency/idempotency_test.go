package idempotency

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memClient keeps keys in a map and ignores expirations.
type memClient struct {
	mu     sync.Mutex
	values map[string]string
	delErr error
}

func newMemClient() *memClient {
	return &memClient{values: map[string]string{}}
}

func (m *memClient) SetNX(_ context.Context, key string, value any, _ time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	m.values[key] = value.(string)
	return redis.NewBoolResult(true, nil)
}

func (m *memClient) Get(_ context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memClient) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (m *memClient) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delErr != nil {
		return redis.NewIntResult(0, m.delErr)
	}
	var n int64
	for _, k := range keys {
		if _, ok := m.values[k]; ok {
			delete(m.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestExec_RetryAfterFailure(t *testing.T) {
	// Arrange
	tracker := New(newMemClient())
	ctx := context.Background()
	reverted := errors.New("execution reverted")
	calls := 0

	// Act
	first := tracker.Exec(ctx, "vote:0xaaa", func(context.Context) error { calls++; return reverted })
	second := tracker.Exec(ctx, "vote:0xaaa", func(context.Context) error { calls++; return nil })
	third := tracker.Exec(ctx, "vote:0xaaa", func(context.Context) error { calls++; return nil })

	// Assert
	assert.ErrorIs(t, first, reverted)
	assert.NoError(t, second)
	assert.ErrorIs(t, third, ErrAlreadyCompleted)
	assert.Equal(t, 2, calls)
}

func TestExec_InFlight(t *testing.T) {
	// Arrange
	tracker := New(newMemClient())
	ctx := context.Background()
	state, err := tracker.Acquire(ctx, "vote:0xbbb", time.Minute)
	require.NoError(t, err)
	require.Equal(t, StateNone, state)

	// Act
	err = tracker.Exec(ctx, "vote:0xbbb", func(context.Context) error { return nil })

	// Assert
	assert.ErrorIs(t, err, ErrAlreadyInProgress)
}

func TestExec_ReleaseError(t *testing.T) {
	// Arrange
	client := newMemClient()
	client.delErr = errors.New("redis: i/o timeout")
	tracker := New(client)
	reverted := errors.New("execution reverted")

	// Act
	err := tracker.Exec(context.Background(), "vote:0xccc", func(context.Context) error { return reverted })

	// Assert
	assert.ErrorIs(t, err, reverted)
	assert.ErrorIs(t, err, client.delErr)
}

func TestAcquire_UnknownState(t *testing.T) {
	// Arrange
	client := newMemClient()
	client.values["evoting:idempotency:vote:0xddd"] = "failed"
	tracker := New(client)

	// Act
	state, err := tracker.Acquire(context.Background(), "vote:0xddd", time.Minute)

	// Assert
	assert.Equal(t, StateError, state)
	assert.ErrorIs(t, err, ErrInvalidState)
}
