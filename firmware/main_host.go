//go:build !tinygo

//go:generate tinygo flash -target=pico

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/itohio/picotemp/pkg/acquire"
	"github.com/itohio/picotemp/pkg/cycle"
	"github.com/itohio/picotemp/pkg/oled"
	"github.com/itohio/picotemp/pkg/screen"
)

// Host build: the same cycle loop as the board, with acquisition simulated
// and the display push dropped. The serial feed goes to stdout, so the
// monitor can be pointed at a pipe instead of a real port during
// development.
func main() {
	var (
		bias     = flag.Float64("bias", 24.0, "simulated ambient temperature in celsius")
		noise    = flag.Float64("noise", 0.3, "simulated sample noise amplitude in celsius")
		interval = flag.Duration("interval", cycle.DefaultInterval, "measurement cycle period")
		ticks    = flag.Int("ticks", 0, "stop after this many cycles (0 runs until interrupted)")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	unit := acquire.NewUnit(&acquire.SimSource{}, acquire.NewSimEngine(*bias, *noise), acquire.DefaultBurstLen)

	var sink cycle.Presenter = screen.NewSink(oled.NewFrame(oled.FullScreen()), screen.NopPusher{}, os.Stdout)
	if *ticks > 0 {
		sink = &limitedSink{inner: sink, left: *ticks, stop: stop}
	}

	ctrl := cycle.NewController(cycle.NewTickerAlarm(), unit, sink, *interval)
	if err := ctrl.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "picotemp:", err)
		os.Exit(1)
	}
}

// limitedSink ends the run after a fixed number of presentations.
type limitedSink struct {
	inner cycle.Presenter
	left  int
	stop  context.CancelFunc
}

func (s *limitedSink) Present(celsius float64) {
	s.inner.Present(celsius)
	s.left--
	if s.left == 0 {
		s.stop()
	}
}
