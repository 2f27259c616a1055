package player

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/abrplay/abrplay/filesystem"
	"github.com/abrplay/abrplay/where"
)

// posterOverlayID is the mpv overlay slot used for freeze-frame posters.
const posterOverlayID = 63

// encodeBGRA converts an image into the premultiplied BGRA layout mpv overlays expect.
func encodeBGRA(img image.Image) (data []byte, width, height int) {
	bounds := img.Bounds()
	width, height = bounds.Dx(), bounds.Dy()
	data = make([]byte, width*height*4)

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			binary.LittleEndian.PutUint32(data[i:], uint32(c.B)|uint32(c.G)<<8|uint32(c.R)<<16|uint32(c.A)<<24)
			i += 4
		}
	}
	return data, width, height
}

func (m *MPV) framePath(name string) string {
	return filepath.Join(where.Frames(), fmt.Sprintf("%s-%d.%s", m.id, os.Getpid(), name))
}

// CaptureFrame asks mpv for a screenshot of the video layer and decodes it.
func (m *MPV) CaptureFrame() (image.Image, error) {
	path := m.framePath("png")
	if _, err := m.sendCommand("screenshot-to-file", path, "video"); err != nil {
		return nil, fmt.Errorf("capture frame: %w", err)
	}
	defer func() { _ = filesystem.API().Remove(path) }()

	f, err := filesystem.API().Open(path)
	if err != nil {
		return nil, fmt.Errorf("capture frame: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return img, nil
}

// SetPoster writes the image as a raw BGRA file and shows it as an overlay.
func (m *MPV) SetPoster(img image.Image) error {
	data, w, h := encodeBGRA(img)
	if w == 0 || h == 0 {
		return ErrNoVideo
	}

	path := m.framePath("bgra")
	if err := filesystem.API().WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write poster: %w", err)
	}

	_, err := m.sendCommand("overlay-add", posterOverlayID, 0, 0, path, 0, "bgra", w, h, w*4)
	return err
}

// ClearPoster removes the overlay and brings the on-screen controller back.
func (m *MPV) ClearPoster() error {
	_, err := m.sendCommand("overlay-remove", posterOverlayID)
	_ = filesystem.API().Remove(m.framePath("bgra"))
	_, _ = m.sendCommand("script-message", "osc-visibility", "auto", "no-osd")
	return err
}

// HidePlayAffordance hides mpv's on-screen controller.
func (m *MPV) HidePlayAffordance() error {
	_, err := m.sendCommand("script-message", "osc-visibility", "never", "no-osd")
	return err
}
