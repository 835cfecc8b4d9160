package screen

import (
	"fmt"
	"image/color"
	"io"
	"time"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"github.com/itohio/picotemp/pkg/oled"
)

// Pusher moves a rendered frame onto a panel. *oled.Device implements it;
// hosts substitute mirrors of their own.
type Pusher interface {
	Push(f *oled.Frame) error
}

// NopPusher drops frames, for headless runs where only the text feed and
// the in-memory frame matter.
type NopPusher struct{}

func (NopPusher) Push(*oled.Frame) error { return nil }

// Fixed three-line layout. The y values are tinyfont baselines: the
// nominal row of each line plus the font's baseline offset.
const (
	fontOffset = 6 // proggy TinySZ baseline offset

	textX    = 5
	titleY   = 0 + fontOffset
	valueY   = 16 + fontOffset
	subtextY = 32 + fontOffset

	titleText   = "TEMP SENSOR"
	subtextText = "RP2040 INTERNAL"
)

// Sink renders an averaged temperature onto the panel and mirrors it to
// a line-oriented text feed.
type Sink struct {
	frame  *oled.Frame
	push   Pusher
	mirror io.Writer
	font   tinyfont.Fonter
}

// NewSink builds the sink around a pre-allocated frame. The frame is
// reused for every presentation.
func NewSink(frame *oled.Frame, push Pusher, mirror io.Writer) *Sink {
	return &Sink{
		frame:  frame,
		push:   push,
		mirror: mirror,
		font:   &proggy.TinySZ8pt7b,
	}
}

// Frame returns the sink's render target, for host-side mirroring.
func (s *Sink) Frame() *oled.Frame {
	return s.frame
}

// Present renders one temperature: clear the frame, draw the three text
// lines, push the frame, then write one feed line. The push result is
// not consulted; the feed line is written regardless. Equal temperatures
// render byte-identical frames.
func (s *Sink) Present(celsius float64) {
	s.frame.Clear()

	white := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	tinyfont.WriteLine(s.frame, s.font, textX, titleY, titleText, white)
	tinyfont.WriteLine(s.frame, s.font, textX, valueY, fmt.Sprintf("Temp: %.2f C", celsius), white)
	tinyfont.WriteLine(s.frame, s.font, textX, subtextY, subtextText, white)

	_ = s.push.Push(s.frame)

	fmt.Fprintf(s.mirror, "temp,%d,%.2f\n", time.Now().UnixMicro(), celsius)
}
