package logger_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/stagehand/internal/adapters/logger"
	"go.trai.ch/stagehand/internal/core/domain"
	"go.trai.ch/zerr"
)

func newBuffered() (*logger.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&buf)
	return lg, &buf
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		log   func(*logger.Logger)
		level string
		text  string
	}{
		{"info", func(l *logger.Logger) { l.Info("switched to levels/a") }, "level=INFO", "switched to levels/a"},
		{"warn", func(l *logger.Logger) { l.Warn("load slot taken over") }, "level=WARN", "load slot taken over"},
		{"error", func(l *logger.Logger) { l.Error(os.ErrPermission) }, "level=ERROR", "permission denied"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newBuffered()
			tt.log(lg)

			assert.Contains(t, buf.String(), tt.level)
			assert.Contains(t, buf.String(), tt.text)
		})
	}
}

func TestLogger_ErrorKeepsContext(t *testing.T) {
	lg, buf := newBuffered()

	lg.Error(zerr.With(zerr.Wrap(domain.ErrKeyNotFound, "switch failed"), "key", "levels/missing"))

	out := buf.String()
	assert.Contains(t, out, `msg="operation failed"`)
	assert.Contains(t, out, "resource not found")
	assert.Contains(t, out, "levels/missing")
}

func TestLogger_SetLevel(t *testing.T) {
	lg, buf := newBuffered()

	lg.Info("before")
	lg.SetLevel(domain.LogLevelWarn)
	lg.Info("hidden")
	lg.Warn("shown")

	assert.Contains(t, buf.String(), "before")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogger_SetOutputRedirects(t *testing.T) {
	lg, first := newBuffered()
	lg.Info("one")

	var second bytes.Buffer
	lg.SetOutput(&second)
	lg.Info("two")

	assert.Contains(t, first.String(), "one")
	assert.NotContains(t, first.String(), "two")
	assert.Contains(t, second.String(), "two")
}
