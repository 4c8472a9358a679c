package logger_test

import (
	"bytes"
	"testing"

	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func Test_ParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected logger.LogStatus
	}{
		{"verbose", logger.VERBOSE},
		{"DEBUG", logger.DEBUG},
		{" info ", logger.INFO},
		{"warn", logger.WARNING},
		{"Warning", logger.WARNING},
		{"error", logger.ERROR},
		{"", logger.DEFAULT_MIN_STAT},
		{"loud", logger.DEFAULT_MIN_STAT},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, logger.ParseLevel(tt.input), "input %q", tt.input)
	}
}

func Test_Level_Ordering(t *testing.T) {
	assert.Less(t, logger.VERBOSE.Level(), logger.DEBUG.Level())
	assert.Less(t, logger.INFO.Level(), logger.WARNING.Level())
	assert.Less(t, logger.ERROR.Level(), logger.FATAL.Level())
}

func Test_SetOutput(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(nil)
	logger.SetMinLoggingLevel(logger.INFO.Level())
	defer logger.SetMinLoggingLevel(logger.DEFAULT_MIN_STAT.Level())

	log := logger.Get("Test")
	log.Emit(logger.DEBUG, "hidden\n")
	log.Emit(logger.WARNING, "visible %d\n", 42)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "[Test]")
	assert.Contains(t, buf.String(), "visible 42")
}
