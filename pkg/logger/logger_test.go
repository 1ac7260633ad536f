package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.info)
	assert.NotNil(t, logger.error)
	assert.NotNil(t, logger.warn)
}

func TestLogger_Levels(t *testing.T) {
	logger := New()

	// None of the levels should panic
	logger.Info("settlement completed for session %s", "session-123")
	logger.Warn("clock skew detected: ended_at before started_at for %s", "session-123")
	logger.Error("failed to credit creator wallet: %v", assert.AnError)
}

func TestLogger_Formatting(t *testing.T) {
	logger := New()

	logger.Info("charged %s %.2f for %d seconds", "client-1", 20.83, 125)
	logger.Error("wallet mutation %d of %d failed: %s", 2, 3, "timeout")
}
