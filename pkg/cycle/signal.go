package cycle

import "sync/atomic"

// Signal is the pending-cycle flag between the timer callback and the
// cycle loop. One writer fires it, one reader consumes it. Fires that
// land while a cycle is already pending coalesce into a single cycle.
type Signal struct {
	pending atomic.Bool
}

// Fire marks a cycle due. This is the only work a timer callback does,
// so it stays safe to call from any goroutine or interrupt context.
func (s *Signal) Fire() {
	s.pending.Store(true)
}

// TryConsume reports whether a cycle was due and clears the flag in the
// same atomic step, so one fire is never observed twice.
func (s *Signal) TryConsume() bool {
	return s.pending.CompareAndSwap(true, false)
}
