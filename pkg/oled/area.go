package oled

// Panel geometry. The controller RAM is organized in pages of 8
// vertically stacked pixels.
const (
	Width      = 128
	Height     = 64
	PageHeight = 8
	Pages      = Height / PageHeight
)

// Area is a rectangular window of the panel in controller coordinates:
// column and page ranges, both ends inclusive.
type Area struct {
	StartCol  uint8
	EndCol    uint8
	StartPage uint8
	EndPage   uint8
}

// FullScreen covers the whole panel.
func FullScreen() Area {
	return Area{
		EndCol:  Width - 1,
		EndPage: Pages - 1,
	}
}

// Cols returns the number of columns the area spans.
func (a Area) Cols() int {
	return int(a.EndCol) - int(a.StartCol) + 1
}

// PageRows returns the number of pages the area spans.
func (a Area) PageRows() int {
	return int(a.EndPage) - int(a.StartPage) + 1
}

// BufferLength returns the byte count of a buffer covering the area,
// one byte per column per page.
func (a Area) BufferLength() int {
	return a.Cols() * a.PageRows()
}
