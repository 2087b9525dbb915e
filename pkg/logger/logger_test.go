package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_StructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Info().Str("wallet_id", "w-1").Msg("transaction created")

	var output map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output), "logger output should be valid JSON")

	assert.Equal(t, "transaction created", output["message"])
	assert.Equal(t, "w-1", output["wallet_id"])
	assert.Equal(t, "info", output["level"])
	assert.Equal(t, Service, output["service"])
	assert.Contains(t, output, "time")
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	tests := []struct {
		level    string
		logAt    zerolog.Level
		expected bool
	}{
		{"debug", zerolog.DebugLevel, true},
		{"info", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, true},
		{"error", zerolog.InfoLevel, false},
		{"error", zerolog.ErrorLevel, true},
		{"warn", zerolog.WarnLevel, true},
		{"invalid", zerolog.DebugLevel, false},
		{"invalid", zerolog.InfoLevel, true},
		{"", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.logAt.String(), func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(tt.level, &buf)
			log.WithLevel(tt.logAt).Msg("check")
			assert.Equal(t, tt.expected, buf.Len() > 0)
		})
	}
}

func TestNew_PrettyMode(t *testing.T) {
	log := New("info", true)
	log.Info().Msg("pretty mode test")
}
