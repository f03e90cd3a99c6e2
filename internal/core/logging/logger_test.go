package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureGlobal(t *testing.T, hooks ...zerolog.Hook) *bytes.Buffer {
	t.Helper()
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	l := zerolog.New(&buf)
	for _, h := range hooks {
		l = l.Hook(h)
	}
	log.Logger = l
	return &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestComponent(t *testing.T) {
	buf := captureGlobal(t)

	logger := Component("test-component")
	logger.Info().Msg("test message")

	entry := decodeLine(t, buf)
	assert.Equal(t, "test-component", entry["cmp"])
	assert.Equal(t, "test message", entry["message"])
}

func TestComponentCtx(t *testing.T) {
	buf := captureGlobal(t, ContextHook{})

	ctx := WithQuery(WithRequestID(context.Background(), 7), "zelda")
	logger := ComponentCtx(ctx, "search")
	logger.Debug().Msg("search aborted")

	entry := decodeLine(t, buf)
	assert.Equal(t, "search", entry["cmp"])
	assert.InDelta(t, 7, entry["request_id"], 0)
	assert.Equal(t, "zelda", entry["query"])
}
