package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGeneralCache_SetGet(t *testing.T) {
	c, err := NewGeneralCache(0, 0)
	require.NoError(t, err)
	defer c.Close()

	require.True(t, c.Set("waits", []int{1, 4}))
	c.Wait()

	got, ok := GetAs[[]int](c, "waits")
	require.True(t, ok)
	require.Equal(t, []int{1, 4}, got)

	_, ok = GetAs[string](c, "waits")
	require.False(t, ok)

	c.Delete("waits")
	c.Wait()
	_, ok = c.Get("waits")
	require.False(t, ok)
}

func TestGeneralCache_TTL(t *testing.T) {
	c, err := NewGeneralCache(100, 50*time.Millisecond)
	require.NoError(t, err)
	defer c.Close()

	c.Set("k", true)
	c.Wait()
	_, ok := c.Get("k")
	require.True(t, ok)

	require.Eventually(t, func() bool {
		_, ok := c.Get("k")
		return !ok
	}, 2*time.Second, 20*time.Millisecond)
}
