package cycle

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignal_ConsumeWhenClear(t *testing.T) {
	var s Signal
	assert.False(t, s.TryConsume(), "fresh signal has no pending cycle")
}

func TestSignal_FireThenConsume(t *testing.T) {
	var s Signal

	s.Fire()
	assert.True(t, s.TryConsume())
	assert.False(t, s.TryConsume(), "a fire must not be observed twice")
}

func TestSignal_CoalescesFires(t *testing.T) {
	var s Signal

	// Two fires before the loop gets around to checking.
	s.Fire()
	s.Fire()

	assert.True(t, s.TryConsume(), "exactly one pending cycle")
	assert.False(t, s.TryConsume(), "back-to-back fires collapse into one")
}

func TestSignal_ConcurrentFires(t *testing.T) {
	var s Signal
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Fire()
		}()
	}
	wg.Wait()

	consumed := 0
	for s.TryConsume() {
		consumed++
	}
	assert.Equal(t, 1, consumed, "any number of fires leaves at most one pending cycle")
}
