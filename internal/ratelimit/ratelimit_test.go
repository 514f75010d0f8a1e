package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter() (*Limiter, *time.Time) {
	l := New()
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }
	return l, &current
}

func TestAllowUpToMax(t *testing.T) {
	l, _ := newTestLimiter()

	for i := 0; i < 30; i++ {
		assert.True(t, l.Allow("predict", "10.0.0.1", 30, time.Minute), "request %d", i)
	}
	assert.False(t, l.Allow("predict", "10.0.0.1", 30, time.Minute))
}

func TestRejectionDoesNotConsumeSlot(t *testing.T) {
	l, now := newTestLimiter()

	assert.True(t, l.Allow("predict", "c", 1, time.Minute))
	assert.False(t, l.Allow("predict", "c", 1, time.Minute))
	assert.False(t, l.Allow("predict", "c", 1, time.Minute))

	// Only the single allowed request occupies the window, so one slot
	// frees up exactly one window after it.
	*now = now.Add(time.Minute + time.Second)
	assert.True(t, l.Allow("predict", "c", 1, time.Minute))
}

func TestWindowSlides(t *testing.T) {
	l, now := newTestLimiter()

	assert.True(t, l.Allow("predict", "c", 2, time.Minute))
	*now = now.Add(30 * time.Second)
	assert.True(t, l.Allow("predict", "c", 2, time.Minute))
	assert.False(t, l.Allow("predict", "c", 2, time.Minute))

	// First instant ages out, second is still inside the window.
	*now = now.Add(31 * time.Second)
	assert.True(t, l.Allow("predict", "c", 2, time.Minute))
	assert.False(t, l.Allow("predict", "c", 2, time.Minute))
}

func TestScopesAreIndependent(t *testing.T) {
	l, _ := newTestLimiter()

	assert.True(t, l.Allow("predict", "c", 1, time.Minute))
	assert.False(t, l.Allow("predict", "c", 1, time.Minute))

	// Same client, different endpoint class: separate budget.
	assert.True(t, l.Allow("batch", "c", 1, time.Minute))
}

func TestClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter()

	assert.True(t, l.Allow("predict", "a", 1, time.Minute))
	assert.True(t, l.Allow("predict", "b", 1, time.Minute))
}

func TestConcurrentCallersCannotBurstPastMax(t *testing.T) {
	l := New()

	const max = 10
	var wg sync.WaitGroup
	allowed := make(chan bool, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- l.Allow("predict", "c", max, time.Minute)
		}()
	}
	wg.Wait()
	close(allowed)

	count := 0
	for ok := range allowed {
		if ok {
			count++
		}
	}
	assert.Equal(t, max, count)
}
