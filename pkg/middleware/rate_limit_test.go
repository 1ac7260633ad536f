package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitKey(t *testing.T) {
	key := rateLimitKey("/api/v1/session/start", "user-123")

	assert.Equal(t, "settlement:rate_limit:/api/v1/session/start:user-123", key)
}

func TestRateLimitKey_DistinctPerUserAndPath(t *testing.T) {
	base := rateLimitKey("/api/v1/wallet", "user-1")

	assert.NotEqual(t, base, rateLimitKey("/api/v1/wallet", "user-2"))
	assert.NotEqual(t, base, rateLimitKey("/api/v1/session/start", "user-1"))
}
