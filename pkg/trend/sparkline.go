package trend

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/chewxy/math32"

	"github.com/itohio/picotemp/pkg/pico"
)

// Sparkline renders a readings window into an RGBA image for the GUI.
// The vertical axis spans the window's min/max with a 10% margin, the
// horizontal axis is time.
type Sparkline struct {
	Background color.RGBA
	Line       color.RGBA

	maxPoints int
	display   []pico.Reading // reused downsample buffer
}

// NewSparkline creates a sparkline that plots at most maxPoints points.
func NewSparkline(maxPoints int) *Sparkline {
	return &Sparkline{
		Background: color.RGBA{R: 20, G: 20, B: 20, A: 255},
		Line:       color.RGBA{R: 255, G: 165, B: 0, A: 255},
		maxPoints:  maxPoints,
		display:    make([]pico.Reading, 0, maxPoints),
	}
}

// Render draws the readings into a fresh width x height image.
func (s *Sparkline) Render(readings []pico.Reading, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(s.Background), image.Point{}, draw.Src)

	s.display = Downsample(s.display, readings, s.maxPoints)
	if len(s.display) < 2 || width < 2 || height < 2 {
		return img
	}

	yMin := s.display[0].Celsius
	yMax := s.display[0].Celsius
	for _, r := range s.display {
		if r.Celsius < yMin {
			yMin = r.Celsius
		}
		if r.Celsius > yMax {
			yMax = r.Celsius
		}
	}

	// Add 10% margin
	span := yMax - yMin
	if span == 0 {
		span = 1.0
	}
	margin := span * 0.1
	yMin -= margin
	yMax += margin

	first := s.display[0].Time
	total := float32(s.display[len(s.display)-1].Time.Sub(first).Seconds())

	w := float32(width - 1)
	h := float32(height - 1)

	var prevX, prevY float32
	for i, r := range s.display {
		var x float32
		if total > 0 {
			x = float32(r.Time.Sub(first).Seconds()) / total * w
		} else {
			// Degenerate window, space points evenly
			x = float32(i) / float32(len(s.display)-1) * w
		}
		y := h - float32((r.Celsius-yMin)/(yMax-yMin))*h

		if i > 0 {
			drawSegment(img, prevX, prevY, x, y, s.Line)
		}
		prevX, prevY = x, y
	}

	return img
}

// drawSegment rasterizes one segment by stepping along the longer axis.
func drawSegment(img *image.RGBA, x0, y0, x1, y1 float32, c color.RGBA) {
	steps := int(math32.Max(math32.Abs(x1-x0), math32.Abs(y1-y0))) + 1
	for i := 0; i <= steps; i++ {
		t := float32(i) / float32(steps)
		x := int(math32.Round(x0 + (x1-x0)*t))
		y := int(math32.Round(y0 + (y1-y0)*t))
		img.SetRGBA(x, y, c)
	}
}
