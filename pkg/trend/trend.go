package trend

import (
	"sync"
	"time"

	"github.com/itohio/picotemp/pkg/pico"
)

// Trend maintains a rolling time window of station readings.
//
// Internally a FIFO buffer that keeps order: the oldest reading is at
// index 0, the latest at the end. Removal is based on timestamp (time
// window), not on count.
type Trend struct {
	readings []pico.Reading

	// Thread safety
	mu sync.RWMutex

	// Update callbacks receive a copy of the current window
	callbacks []func(readings []pico.Reading)
	cbMu      sync.RWMutex

	window time.Duration

	// Shutdown control
	shutdown bool // Set to true when input channel closes, prevents further callbacks
}

// New creates a Trend holding the given window of history.
func New(window time.Duration) *Trend {
	return &Trend{
		readings:  make([]pico.Reading, 0),
		callbacks: make([]func(readings []pico.Reading), 0),
		window:    window,
		shutdown:  false,
	}
}

// Process consumes readings from the input channel until it closes.
// When the input channel closes, it sets the shutdown flag to prevent
// further callbacks.
func (t *Trend) Process(input <-chan pico.Reading) {
	for r := range input {
		t.add(r)
	}
	// Channel closed - mark as shutdown to prevent further callbacks
	t.mu.Lock()
	t.shutdown = true
	t.mu.Unlock()
}

// add appends a reading, trims the window, and notifies observers.
func (t *Trend) add(r pico.Reading) {
	t.mu.Lock()

	t.readings = append(t.readings, r)

	// Remove readings outside the time window (based on timestamp, not count)
	cutoffTime := r.Time.Add(-t.window)
	cutoffIndex := 0
	for i, reading := range t.readings {
		if reading.Time.After(cutoffTime) {
			cutoffIndex = i
			break
		}
	}
	if cutoffIndex > 0 {
		t.readings = t.readings[cutoffIndex:]
	}

	shouldNotify := !t.shutdown

	t.mu.Unlock()

	if shouldNotify {
		t.notifyCallbacks()
	}
}

// Readings returns a copy of the current window, oldest first.
func (t *Trend) Readings() []pico.Reading {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]pico.Reading, len(t.readings))
	copy(result, t.readings)
	return result
}

// Span returns the lowest and highest temperature in the window.
// ok is false while the window is empty.
func (t *Trend) Span() (low, high float64, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.readings) == 0 {
		return 0, 0, false
	}

	low = t.readings[0].Celsius
	high = t.readings[0].Celsius
	for _, r := range t.readings {
		if r.Celsius < low {
			low = r.Celsius
		}
		if r.Celsius > high {
			high = r.Celsius
		}
	}
	return low, high, true
}

// OnUpdate registers a callback invoked after every accepted reading.
// The callback receives a copy of the window and should return quickly.
func (t *Trend) OnUpdate(callback func(readings []pico.Reading)) {
	t.cbMu.Lock()
	defer t.cbMu.Unlock()
	t.callbacks = append(t.callbacks, callback)
}

// ResetShutdown resets the shutdown flag, allowing callbacks to be sent
// again. Call before attaching a new device chain.
func (t *Trend) ResetShutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.shutdown = false
}

// notifyCallbacks invokes all registered callbacks with a copy of the
// window. Copies are made while holding the read lock, callbacks run
// without any lock held.
func (t *Trend) notifyCallbacks() {
	t.mu.RLock()
	readingsCopy := make([]pico.Reading, len(t.readings))
	copy(readingsCopy, t.readings)
	t.mu.RUnlock()

	t.cbMu.RLock()
	callbacks := make([]func(readings []pico.Reading), len(t.callbacks))
	copy(callbacks, t.callbacks)
	t.cbMu.RUnlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(readingsCopy)
		}
	}
}
