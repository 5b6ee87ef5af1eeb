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

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf).Level(zerolog.InfoLevel)

	logger.Info().Str("doc", "main").Int("rows", 3).Msg("loaded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "loaded", entry["message"])
	assert.Equal(t, "main", entry["doc"])
	assert.Equal(t, float64(3), entry["rows"])
	assert.Contains(t, entry, "time")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"nonsense", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), "level %q", tt.in)
	}
}

func TestContextLogger(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf)

		ctx := WithLogger(context.Background(), &logger)
		got := FromContext(ctx)
		require.NotNil(t, got)

		got.Info().Msg("from context")
		assert.Contains(t, buf.String(), "from context")
	})

	t.Run("missing logger falls back to default", func(t *testing.T) {
		assert.Equal(t, Default(), FromContext(context.Background()))
		assert.Equal(t, Default(), FromContext(nil)) //nolint:staticcheck // nil context fallback is the behavior under test
	})

	t.Run("nil logger stores default", func(t *testing.T) {
		ctx := WithLogger(context.Background(), nil)
		assert.Equal(t, Default(), Ctx(ctx))
	})
}
