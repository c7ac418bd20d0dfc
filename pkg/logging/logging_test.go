package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			t.Setenv("XDG_STATE_HOME", tempDir)

			SetupLogger(tt.verbosity)

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())

			logPath := filepath.Join(tempDir, "shade", "shade.log")
			_, err := os.Stat(logPath)
			assert.NoError(t, err, "log file should exist at %s", logPath)
		})
	}
}

func TestGetLogFilePath(t *testing.T) {
	stateHome := filepath.Join(t.TempDir(), "state")
	t.Setenv("XDG_STATE_HOME", stateHome)

	got := getLogFilePath()
	assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	assert.True(t, strings.HasSuffix(filepath.ToSlash(got), "state/shade/shade.log"), got)
}

func TestGetLogger(t *testing.T) {
	var sb strings.Builder
	SetupWriter(&sb, 1)

	logger := GetLogger("test-component")
	logger.Info().Msg("test message")

	assert.Contains(t, sb.String(), `"component":"test-component"`)
	assert.Contains(t, sb.String(), "test message")
}

func TestWithFields(t *testing.T) {
	var sb strings.Builder
	SetupWriter(&sb, 1)

	logger := WithFields(map[string]interface{}{
		"key1": "value1",
		"key2": 42,
	})
	logger.Info().Msg("test message with fields")

	out := sb.String()
	assert.Contains(t, out, `"key1":"value1"`)
	assert.Contains(t, out, `"key2":42`)
}

func TestSetupWriterRespectsLevel(t *testing.T) {
	var sb strings.Builder
	SetupWriter(&sb, 0)

	l := GetLogger("quiet")
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")

	assert.NotContains(t, sb.String(), "hidden")
	assert.Contains(t, sb.String(), "shown")
}
