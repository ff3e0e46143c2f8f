package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", "json")
	log.Info("poll created", zap.Uint("poll_id", 7))

	assert.Contains(t, buf.String(), `"msg":"poll created"`)
	assert.Contains(t, buf.String(), `"poll_id":7`)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn", "console")
	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, zapcore.InfoLevel, parseLevel("loud"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("ERROR"))
}
