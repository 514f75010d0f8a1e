package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(ttl time.Duration) (*Cache, *time.Time) {
	c := New(map[string]time.Duration{"stats": ttl})
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }
	return c, &current
}

func TestGetMissesWhenEmpty(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	_, ok := c.Get("stats")
	assert.False(t, ok)
}

func TestSetThenGetWithinTTL(t *testing.T) {
	c, now := newTestCache(time.Minute)

	c.Set("stats", 42)
	*now = now.Add(59 * time.Second)

	v, ok := c.Get("stats")
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestGetMissesAfterTTL(t *testing.T) {
	c, now := newTestCache(time.Minute)

	c.Set("stats", 42)
	*now = now.Add(time.Minute)

	_, ok := c.Get("stats")
	assert.False(t, ok)
}

func TestInvalidateForcesRecompute(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("stats", "stale")
	c.Invalidate("stats")

	_, ok := c.Get("stats")
	assert.False(t, ok)

	calls := 0
	v, err := c.GetOrCompute("stats", func() (interface{}, error) {
		calls++
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
	assert.Equal(t, 1, calls)
}

func TestGetOrComputeCachesResult(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	first, err := c.GetOrCompute("stats", compute)
	require.NoError(t, err)
	second, err := c.GetOrCompute("stats", compute)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestGetOrComputeErrorIsNotCached(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	_, err := c.GetOrCompute("stats", func() (interface{}, error) {
		return nil, errors.New("store unavailable")
	})
	assert.Error(t, err)

	v, err := c.GetOrCompute("stats", func() (interface{}, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestUnknownEntryIsPassthrough(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("nope", 1)
	_, ok := c.Get("nope")
	assert.False(t, ok)

	v, err := c.GetOrCompute("nope", func() (interface{}, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}
