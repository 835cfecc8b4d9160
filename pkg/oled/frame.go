package oled

import (
	"image"
	"image/color"

	"tinygo.org/x/drivers"
)

// Frame satisfies drivers.Displayer so font renderers can draw into it.
var _ drivers.Displayer = (*Frame)(nil)

// Frame is a monochrome pixel buffer covering one panel area, stored in
// the controller's page layout so it can be pushed without reshuffling.
type Frame struct {
	area Area
	buf  []byte
}

// NewFrame allocates a zeroed frame for the area. The allocation happens
// once; rendering reuses the same bytes every cycle.
func NewFrame(area Area) *Frame {
	return &Frame{
		area: area,
		buf:  make([]byte, area.BufferLength()),
	}
}

// Area returns the panel window this frame covers.
func (f *Frame) Area() Area {
	return f.area
}

// Bytes returns the backing buffer in push order.
func (f *Frame) Bytes() []byte {
	return f.buf
}

// Size returns the drawable dimensions in pixels.
func (f *Frame) Size() (x, y int16) {
	return int16(f.area.Cols()), int16(f.area.PageRows() * PageHeight)
}

// SetPixel sets or clears one pixel. Any non-black color sets the pixel.
// Out-of-bounds coordinates are ignored.
func (f *Frame) SetPixel(x, y int16, c color.RGBA) {
	w, h := f.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}

	idx := int(x) + int(y)/PageHeight*f.area.Cols()
	bit := byte(1) << (uint(y) % PageHeight)

	if c.R != 0 || c.G != 0 || c.B != 0 {
		f.buf[idx] |= bit
	} else {
		f.buf[idx] &^= bit
	}
}

// Display is a no-op: pushing the frame over the bus is the Device's
// job, so drawing stays decoupled from the transport.
func (f *Frame) Display() error {
	return nil
}

// Clear zeroes every pixel.
func (f *Frame) Clear() {
	for i := range f.buf {
		f.buf[i] = 0
	}
}

// Image renders the frame as white-on-black for host-side mirroring.
func (f *Frame) Image() *image.RGBA {
	w, h := f.Size()
	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))

	for y := int16(0); y < h; y++ {
		for x := int16(0); x < w; x++ {
			idx := int(x) + int(y)/PageHeight*f.area.Cols()
			bit := byte(1) << (uint(y) % PageHeight)

			c := color.RGBA{A: 0xFF}
			if f.buf[idx]&bit != 0 {
				c = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
			}
			img.SetRGBA(int(x), int(y), c)
		}
	}

	return img
}
