package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiter_BurstThenRefill(t *testing.T) {
	rl := NewRateLimiter(2, 3)
	now := rl.lastRefill

	for i := 0; i < 3; i++ {
		require.True(t, rl.allowAt(now), "request %d", i)
	}
	require.False(t, rl.allowAt(now))

	// 0.5s 补充一个令牌
	now = now.Add(500 * time.Millisecond)
	require.True(t, rl.allowAt(now))
	require.False(t, rl.allowAt(now))

	// 补充不超过容量
	now = now.Add(time.Minute)
	for i := 0; i < 3; i++ {
		require.True(t, rl.allowAt(now))
	}
	require.False(t, rl.allowAt(now))
}

func TestRateLimiter_MinimumBurst(t *testing.T) {
	rl := NewRateLimiter(0, 0)
	require.True(t, rl.Allow())
	require.False(t, rl.Allow())
}
