package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestFromContext_ReturnsRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(&buf, "info", "json")

	ctx := base.WithRequestID("req-123").WithContext(context.Background())
	FromContext(ctx, Nop()).Info().Msg("hello")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "hello", entry["message"])
}

func TestFromContext_FallsBack(t *testing.T) {
	var buf bytes.Buffer
	fallback := NewWithWriter(&buf, "info", "json").WithComponent("fallback")

	FromContext(context.Background(), fallback).Info().Msg("no request logger")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "fallback", entry["component"])
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn", "json")

	log.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("kept")
	assert.NotZero(t, buf.Len())
}

func TestHTTPRequest(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", "json")

	log.HTTPRequest("POST", "/subscriptions", 200, 15*time.Millisecond, "127.0.0.1")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/subscriptions", entry["path"])
	assert.EqualValues(t, 200, entry["status"])
}
