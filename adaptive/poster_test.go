package adaptive

import (
	"image"
	"image/color"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestComposePoster(t *testing.T) {
	Convey("Given a captured frame", t, func() {
		frame := image.NewRGBA(image.Rect(0, 0, 8, 4))
		for x := 0; x < 8; x++ {
			for y := 0; y < 4; y++ {
				frame.Set(x, y, color.RGBA{R: 255, A: 255})
			}
		}

		Convey("It is scaled onto a canvas of the native size", func() {
			poster, err := composePoster(frame, 32, 16)
			So(err, ShouldBeNil)
			So(poster.Bounds().Dx(), ShouldEqual, 32)
			So(poster.Bounds().Dy(), ShouldEqual, 16)

			r, _, _, a := poster.At(16, 8).RGBA()
			So(r>>8, ShouldEqual, 255)
			So(a>>8, ShouldEqual, 255)
		})

		Convey("Transparent frames leave the black canvas visible", func() {
			poster, err := composePoster(image.NewRGBA(image.Rect(0, 0, 4, 4)), 4, 4)
			So(err, ShouldBeNil)
			r, g, b, a := poster.At(1, 1).RGBA()
			So([]uint32{r, g, b, a >> 8}, ShouldResemble, []uint32{0, 0, 0, 255})
		})

		Convey("Missing dimensions are an error", func() {
			_, err := composePoster(frame, 0, 16)
			So(err, ShouldEqual, errNoDimensions)
		})
	})

	Convey("renderPoster captures at the host video size", t, func() {
		host := newFakeHost()
		poster, err := renderPoster(host)
		So(err, ShouldBeNil)
		So(poster.Bounds().Dx(), ShouldEqual, 64)
		So(poster.Bounds().Dy(), ShouldEqual, 36)
	})
}
