package middleware

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllowsBurst(t *testing.T) {
	rl := NewRateLimiter()

	// The burst budget admits 20 immediate requests, then rejects.
	for i := 0; i < 20; i++ {
		require.True(t, rl.Allow("10.0.0.1"), "request %d should be allowed", i)
	}
	require.False(t, rl.Allow("10.0.0.1"))
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < 20; i++ {
		rl.Allow("10.0.0.1")
	}
	require.False(t, rl.Allow("10.0.0.1"))
	require.True(t, rl.Allow("10.0.0.2"))
}
