package cycle

import (
	"fmt"
	"time"
)

// Alarm delivers a recurring notification. Implementations invoke onFire
// from their own goroutine; onFire must stay minimal.
type Alarm interface {
	Start(interval time.Duration, onFire func()) error
	Stop()
}

// Ensure TickerAlarm implements Alarm.
var _ Alarm = (*TickerAlarm)(nil)

// TickerAlarm drives onFire from a goroutine-owned time.Ticker. Under
// TinyGo the runtime ticker is backed by the hardware timer, so the same
// implementation serves the board and the host.
type TickerAlarm struct {
	stop chan struct{}
	done chan struct{}
}

// NewTickerAlarm creates an alarm that is not yet running.
func NewTickerAlarm() *TickerAlarm {
	return &TickerAlarm{}
}

// Start begins firing every interval until Stop.
func (a *TickerAlarm) Start(interval time.Duration, onFire func()) error {
	if interval <= 0 {
		return fmt.Errorf("alarm interval must be positive, got %v", interval)
	}
	if a.stop != nil {
		return fmt.Errorf("alarm already started")
	}

	a.stop = make(chan struct{})
	a.done = make(chan struct{})

	ticker := time.NewTicker(interval)
	go func() {
		defer close(a.done)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				onFire()
			case <-a.stop:
				return
			}
		}
	}()

	return nil
}

// Stop cancels the recurring notification and waits for the firing
// goroutine to exit. Safe to call on a never-started alarm.
func (a *TickerAlarm) Stop() {
	if a.stop == nil {
		return
	}

	close(a.stop)
	<-a.done
	a.stop = nil
	a.done = nil
}
