package cycle

import (
	"context"
	"fmt"
	"time"

	"github.com/itohio/picotemp/pkg/therm"
)

// DefaultInterval is the period between measurement cycles.
const DefaultInterval = 500 * time.Millisecond

// Acquirer captures one burst of raw conversion results.
type Acquirer interface {
	AcquireBurst() []uint16
}

// Presenter publishes one averaged temperature.
type Presenter interface {
	Present(celsius float64)
}

// Controller owns the measure-average-present loop. It alternates
// between a low-power wait and running exactly one cycle per consumed
// timer fire.
type Controller struct {
	signal   Signal
	alarm    Alarm
	acq      Acquirer
	sink     Presenter
	interval time.Duration

	// wait parks the loop briefly between flag checks. The sleep yields
	// to the scheduler, which idles the core on TinyGo targets.
	wait func()
}

// NewController wires an alarm, an acquisition unit and a presentation
// sink into a cycle loop.
func NewController(alarm Alarm, acq Acquirer, sink Presenter, interval time.Duration) *Controller {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Controller{
		alarm:    alarm,
		acq:      acq,
		sink:     sink,
		interval: interval,
		wait:     func() { time.Sleep(100 * time.Microsecond) },
	}
}

// Run starts the alarm and loops until ctx is cancelled: wait for the
// pending flag, capture a burst, average it, present the result. A fire
// arriving while a cycle is in flight is kept pending and served next;
// several such fires collapse into one. Returns nil after a clean
// shutdown, or the alarm start error.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.alarm.Start(c.interval, c.signal.Fire); err != nil {
		return fmt.Errorf("start cycle alarm: %w", err)
	}
	defer c.alarm.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if !c.signal.TryConsume() {
			c.wait()
			continue
		}

		buf := c.acq.AcquireBurst()
		c.sink.Present(therm.Average(buf))
	}
}
