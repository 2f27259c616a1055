package adaptive

import (
	"errors"
	"image"
	"image/color"

	"github.com/abrplay/abrplay/player"
	"golang.org/x/image/draw"
)

var errNoDimensions = errors.New("video reports no dimensions")

// composePoster draws frame scaled onto a black canvas of the given size.
func composePoster(frame image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, errNoDimensions
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.ApproxBiLinear.Scale(canvas, canvas.Bounds(), frame, frame.Bounds(), draw.Over, nil)
	return canvas, nil
}

// renderPoster captures the displayed frame at native video size.
func renderPoster(host player.Host) (image.Image, error) {
	width, height, err := host.VideoSize()
	if err != nil {
		return nil, err
	}

	frame, err := host.CaptureFrame()
	if err != nil {
		return nil, err
	}

	return composePoster(frame, width, height)
}
