// internal/gui/view.go
// Live image view fed by the frame pipeline
package gui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

// ImageView shows the most recent filtered frame. It implements
// core.DisplaySink.
type ImageView struct {
	image *canvas.Image

	// do runs fn on the UI goroutine
	do func(fn func())
}

func NewImageView() *ImageView {
	img := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleFastest
	img.SetMinSize(fyne.NewSize(320, 240))

	return &ImageView{
		image: img,
		do:    fyne.Do,
	}
}

// Show replaces the displayed image. It may be called from any goroutine
// and does not wait for the redraw.
func (v *ImageView) Show(img image.Image) {
	v.do(func() {
		v.image.Image = img
		v.image.Refresh()
	})
}

// Current returns the image currently on screen.
func (v *ImageView) Current() image.Image {
	return v.image.Image
}

func (v *ImageView) GetContainer() fyne.CanvasObject {
	return v.image
}
