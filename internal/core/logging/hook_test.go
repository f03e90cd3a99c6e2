package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name   string
		ctx    context.Context
		want   map[string]any
		absent []string
	}{
		{
			name: "request with query",
			ctx:  WithQuery(WithRequestID(context.Background(), 3), "mario"),
			want: map[string]any{"request_id": float64(3), "query": "mario"},
		},
		{
			name:   "platform request",
			ctx:    WithRequestID(context.Background(), 4),
			want:   map[string]any{"request_id": float64(4)},
			absent: []string{"query"},
		},
		{
			name:   "background",
			ctx:    context.Background(),
			absent: []string{"request_id", "query"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(tt.ctx).Msg("test")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

			for k, v := range tt.want {
				assert.Equal(t, v, entry[k], k)
			}
			for _, k := range tt.absent {
				assert.NotContains(t, entry, k)
			}
		})
	}
}
