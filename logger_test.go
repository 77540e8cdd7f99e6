package authstate_test

import (
	"bytes"
	"log/slog"
	"testing"

	authstate "github.com/goliatone/go-auth-state"
	"github.com/stretchr/testify/assert"
)

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := authstate.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	logger.Debug("api request", "operation", "login")
	logger.Info("operation failed", "operation", "logout")
	logger.Error("activity sink failed", "error", "boom")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG msg=\"api request\" operation=login")
	assert.Contains(t, out, "level=INFO msg=\"operation failed\" operation=logout")
	assert.Contains(t, out, "level=ERROR msg=\"activity sink failed\" error=boom")
}

func TestSlogLoggerDefaultsWhenNil(t *testing.T) {
	assert.NotNil(t, authstate.NewSlogLogger(nil))
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := authstate.NopLogger()
	assert.NotPanics(t, func() {
		logger.Debug("x", "k", "v")
		logger.Info("x")
		logger.Error("x", "odd")
	})
}
