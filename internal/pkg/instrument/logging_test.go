package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelationID(t *testing.T) {
	// Arrange
	ctx := context.Background()

	// Act
	before := GetCorrelationID(ctx)
	ctx = SetCorrelationID(ctx, "cid-1")

	// Assert
	assert.Empty(t, before)
	assert.Equal(t, "cid-1", GetCorrelationID(ctx))
}

func TestLoggingHandlers_MaskAndCorrelation(t *testing.T) {
	// Arrange
	buf := &bytes.Buffer{}
	logger := slog.New(newServiceHandler(slog.NewJSONHandler(buf, nil), "evoting", NewMasker(" OTP ", "fingerprintData", "")))
	ctx := SetCorrelationID(context.Background(), "cid-42")

	// Act
	logger.InfoContext(ctx, "otp issued",
		"otp", "123456",
		"body", map[string]any{"email": "a@example.com", "fingerprint_data": "blob"},
	)

	// Assert
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "***", line["otp"])
	assert.Equal(t, "cid-42", line["_cID"])
	assert.Equal(t, "evoting", line["service"])
	body, ok := line["body"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "***", body["fingerprint_data"])
	assert.Equal(t, "a@example.com", body["email"])
}

func TestNoop(t *testing.T) {
	ins := NewNoop()

	_, span := ins.Tracer("t").Start(context.Background(), "op")
	span.End()

	assert.NoError(t, ins.Shutdown(context.Background()))
}

func TestLoggingHandlers_WithAttrsMasked(t *testing.T) {
	// Arrange
	buf := &bytes.Buffer{}
	logger := slog.New(newServiceHandler(slog.NewJSONHandler(buf, nil), "evoting", NewMasker("aadhaarId")))

	// Act
	logger.With("Aadhaar-Id", "123456789012").Info("registering")

	// Assert
	assert.NotContains(t, buf.String(), "123456789012")
	assert.Contains(t, buf.String(), `"service":"evoting"`)
}

func TestMasker(t *testing.T) {
	m := NewMasker("aadhaarId", "x-admin-key")

	assert.True(t, m.Hides("AADHAAR_ID"))
	assert.True(t, m.Hides("X-Admin-Key"))
	assert.False(t, m.Hides("email"))
	assert.True(t, NewMasker("", " ").Empty())
	assert.Equal(t, map[string]string{"aadhaar-id": Masked, "email": "a@b.c"},
		m.Value(map[string]string{"aadhaar-id": "1", "email": "a@b.c"}))
	assert.Equal(t, "plain", m.Value("plain"))
}

func TestRenameAttr(t *testing.T) {
	src := slog.Any(slog.SourceKey, &slog.Source{File: "/src/app/internal/voter/usecase/otp_send.go", Line: 42})
	outside := slog.Any(slog.SourceKey, &slog.Source{File: "/usr/lib/go/src/net/http/server.go", Line: 1})

	file := renameAttr(nil, src)
	assert.Equal(t, "file", file.Key)
	assert.Equal(t, "internal/voter/usecase/otp_send.go:42", file.Value.String())
	assert.True(t, renameAttr(nil, outside).Equal(slog.Attr{}))
	assert.Equal(t, "severity", renameAttr(nil, slog.String(slog.LevelKey, "INFO")).Key)
}
