package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     LogConfig
		wantErr bool
	}{
		{name: "defaults", cfg: DefaultLogConfig()},
		{name: "console format", cfg: LogConfig{Level: "debug", Format: "console", Output: "stderr"}},
		{name: "invalid level", cfg: LogConfig{Level: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, err := NewLogger(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestZapLogger_FieldsAndWith(t *testing.T) {
	t.Parallel()

	core, recorded := observer.New(zap.InfoLevel)
	logger := NewZapLogger(zap.New(core))

	logger.With(String("component", "router")).Info("request handled",
		Int("status", 200),
	)

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "request handled", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "router", fields["component"])
	assert.EqualValues(t, 200, fields["status"])
}

func TestNopLogger(t *testing.T) {
	t.Parallel()

	logger := NopLogger()
	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("dropped")
	logger.Error("dropped")
	assert.NoError(t, logger.Sync())
}
