package crawlcache_test

import (
	"errors"
	"testing"
	"time"

	"github.com/findable-ai/findable-score/internal/crawlcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetAndGet(t *testing.T) {
	c := crawlcache.New[string](time.Hour)
	c.Set("Example.com", "result")

	v, ok := c.Get("example.com")
	require.True(t, ok)
	assert.Equal(t, "result", v)
}

func TestCache_Get_MissingReturnsFalse(t *testing.T) {
	c := crawlcache.New[string](time.Hour)
	_, ok := c.Get("nothing.example")
	assert.False(t, ok)
}

func TestCache_Get_ExpiredEntryIsMiss(t *testing.T) {
	c := crawlcache.New[string](time.Nanosecond) // expires almost at once
	c.Set("example.com", "stale")
	time.Sleep(time.Millisecond)

	_, ok := c.Get("example.com")
	assert.False(t, ok)
}

func TestCache_GetOrCrawl_UsesCacheWithoutCallingCrawl(t *testing.T) {
	c := crawlcache.New[string](time.Hour)
	c.Set("example.com", "cached")

	calls := 0
	v, err := c.GetOrCrawl("example.com", false, func() (string, error) {
		calls++
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "cached", v)
	assert.Zero(t, calls)
}

func TestCache_GetOrCrawl_ForceRefreshBypassesCache(t *testing.T) {
	c := crawlcache.New[string](time.Hour)
	c.Set("example.com", "cached")

	v, err := c.GetOrCrawl("example.com", true, func() (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}

func TestCache_GetOrCrawl_PropagatesCrawlError(t *testing.T) {
	c := crawlcache.New[string](time.Hour)
	boom := errors.New("boom")

	_, err := c.GetOrCrawl("example.com", false, func() (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestCache_Invalidate(t *testing.T) {
	c := crawlcache.New[string](time.Hour)
	c.Set("example.com", "cached")
	c.Invalidate("example.com")

	_, ok := c.Get("example.com")
	assert.False(t, ok)
}
