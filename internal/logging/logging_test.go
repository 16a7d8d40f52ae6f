package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNewProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "ledger-api", "info", "production")

	logger.Debug("hidden")
	logger.Info("charge created", "amount_paisa", 150075)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "charge created", rec["msg"])
	assert.Equal(t, "ledger-api", rec["service"])
	assert.Equal(t, float64(150075), rec["amount_paisa"])
}

func TestNewDevelopmentWritesText(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "ledger-api", "debug", "development").Debug("sweep", "marked", 2)

	assert.Contains(t, buf.String(), "msg=sweep")
	assert.Contains(t, buf.String(), "marked=2")
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "ledger-api", "info", "production")

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))

	ctx = With(ctx, "receivable_id", "r-1")
	FromContext(ctx).Info("payment recorded")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "r-1", rec["receivable_id"])
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}
