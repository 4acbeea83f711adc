package config

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Level(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{"Debug level", "debug", true, true},
		{"Upper case level", "DEBUG", true, true},
		{"Warn level", "warn", false, false},
		{"Empty level falls back to info", "", false, true},
		{"Unknown level falls back to info", "verbose", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(LoggerConfig{Level: tt.level, Format: "json"}, &buf)

			logger.Debug().Msg("debug line")
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug line")))

			logger.Info().Msg("info line")
			assert.Equal(t, tt.wantInfo, bytes.Contains(buf.Bytes(), []byte("info line")))
		})
	}
}

func TestNewLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(LoggerConfig{Level: "info", Format: "json"}, &buf)

	logger.Warn().Str("code", "SPRING").Msg("discount code rejected")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "gamestore", entry["app"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "SPRING", entry["code"])
	assert.Equal(t, "discount code rejected", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(LoggerConfig{Level: "info", Format: "console"}, &buf)

	logger.Info().Msg("server started")

	assert.Contains(t, buf.String(), "server started")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())), "console output should not be JSON")
}
