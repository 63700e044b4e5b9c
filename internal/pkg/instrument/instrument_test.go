package instrument

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Disabled(t *testing.T) {
	// Act
	ins, err := New(context.Background(), &Config{ServiceName: "evoting-test"})

	// Assert
	require.NoError(t, err)
	_, span := ins.Tracer("test").Start(context.Background(), "noop")
	span.End()
	assert.False(t, span.SpanContext().IsValid())
	assert.NoError(t, ins.Shutdown(context.Background()))
}

func TestProvider_ShutdownOrder(t *testing.T) {
	// Arrange
	var order []string
	p := &provider{shutdowns: []func(context.Context) error{
		func(context.Context) error { order = append(order, "traces"); return nil },
		func(context.Context) error { order = append(order, "metrics"); return nil },
		func(context.Context) error { order = append(order, "logs"); return nil },
	}}

	// Act
	err := p.Shutdown(context.Background())
	again := p.Shutdown(context.Background())

	// Assert
	require.NoError(t, err)
	require.NoError(t, again)
	assert.Equal(t, []string{"logs", "metrics", "traces"}, order)
}
