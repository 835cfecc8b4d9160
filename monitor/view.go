package main

import (
	"fmt"
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"

	"github.com/itohio/picotemp/pkg/pico"
	"github.com/itohio/picotemp/pkg/trend"
)

// Sparkline render resolution. The canvas scales the finished image to
// the window, so this only bounds the plot detail.
const (
	sparkRenderWidth  = 512
	sparkRenderHeight = 192
)

// tempView holds the reading display: the large current value, the
// trend sparkline and a pixel-for-pixel mirror of the station's screen.
type tempView struct {
	tempText  *canvas.Text
	spark     *trend.Sparkline
	sparkImg  *canvas.Image
	mirrorImg *canvas.Image
}

func newTempView(maxPoints int) *tempView {
	tempText := canvas.NewText("--.-- °C", color.NRGBA{R: 0xff, G: 0xa5, A: 0xff})
	tempText.TextSize = 42
	tempText.TextStyle = fyne.TextStyle{Bold: true}
	tempText.Alignment = fyne.TextAlignCenter

	spark := trend.NewSparkline(maxPoints)

	sparkImg := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, sparkRenderWidth, sparkRenderHeight)))
	sparkImg.FillMode = canvas.ImageFillStretch
	sparkImg.SetMinSize(fyne.NewSize(sparkRenderWidth, sparkRenderHeight))

	// The station screen is 128x64 1-bit; nearest-neighbour scaling keeps
	// the mirror crisp instead of smearing the glyphs.
	mirrorImg := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 128, 64)))
	mirrorImg.FillMode = canvas.ImageFillContain
	mirrorImg.ScaleMode = canvas.ImageScalePixels
	mirrorImg.SetMinSize(fyne.NewSize(256, 128))

	return &tempView{
		tempText:  tempText,
		spark:     spark,
		sparkImg:  sparkImg,
		mirrorImg: mirrorImg,
	}
}

// content lays the view out: value on top, sparkline filling the middle,
// screen mirror at the bottom.
func (v *tempView) content() fyne.CanvasObject {
	return container.NewBorder(
		container.NewCenter(v.tempText),
		container.NewCenter(v.mirrorImg),
		nil,
		nil,
		v.sparkImg,
	)
}

// renderSpark rasterizes the trend window. Called off the UI thread; the
// finished image is handed to update via fyne.Do.
func (v *tempView) renderSpark(readings []pico.Reading) image.Image {
	return v.spark.Render(readings, sparkRenderWidth, sparkRenderHeight)
}

// update applies a finished snapshot to the widgets. Must run on the
// main Fyne thread.
func (v *tempView) update(latest float64, spark, mirror image.Image) {
	v.tempText.Text = fmt.Sprintf("%.2f °C", latest)
	v.tempText.Refresh()

	v.sparkImg.Image = spark
	v.sparkImg.Refresh()

	v.mirrorImg.Image = mirror
	v.mirrorImg.Refresh()
}
