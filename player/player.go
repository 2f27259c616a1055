// Package player defines the host media player the adaptive engine drives.
// The primary implementation targets 'mpv' via its JSON-IPC interface.
package player

import (
	"errors"
	"image"
	"mime"
	"strings"
)

// Event is a lifecycle notification emitted by a host.
type Event string

const (
	EventPlay       Event = "play"
	EventPause      Event = "pause"
	EventEnded      Event = "ended"
	EventDataLoaded Event = "data-loaded"
)

var (
	// ErrNotRunning is returned by hosts whose backend is gone.
	ErrNotRunning = errors.New("player is not running")
	// ErrNoVideo is returned when no video frame is available.
	ErrNoVideo = errors.New("no video frame available")
)

// Host encapsulates the playback capabilities the adaptive engine consumes.
type Host interface {
	// Position returns the playback position in seconds.
	Position() (float64, error)

	// BufferedEnd returns the end of the buffered range in seconds.
	BufferedEnd() (float64, error)

	// Paused reports whether playback is suspended.
	Paused() (bool, error)

	// VideoSize returns the native dimensions of the current video.
	VideoSize() (width, height int, err error)

	// Load replaces the media target. EventDataLoaded follows once data is available.
	Load(uri, mediaType string) error

	// Seek moves to an absolute position in seconds.
	Seek(seconds float64) error

	Play() error
	Pause() error

	// CanPlayType reports support for a MIME type; an error means the check itself failed.
	CanPlayType(mediaType string) (bool, error)

	// CaptureFrame grabs the currently displayed video frame.
	CaptureFrame() (image.Image, error)

	// SetPoster shows a still image over the video surface.
	SetPoster(img image.Image) error

	// ClearPoster removes the still image and restores the play affordance.
	ClearPoster() error

	// HidePlayAffordance hides on-screen playback controls.
	HidePlayAffordance() error

	// Subscribe registers a lifecycle callback and returns a function removing it.
	Subscribe(fn func(Event)) (unsubscribe func())
}

var streamingTypes = map[string]bool{
	"application/x-mpegurl":         true,
	"application/vnd.apple.mpegurl": true,
	"application/dash+xml":          true,
	"application/ogg":               true,
}

// CanPlayType reports whether mpv-class players handle a MIME type.
// An empty type is accepted; a malformed one is an error.
func CanPlayType(mediaType string) (bool, error) {
	if strings.TrimSpace(mediaType) == "" {
		return true, nil
	}

	parsed, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return false, err
	}

	if strings.HasPrefix(parsed, "video/") || strings.HasPrefix(parsed, "audio/") {
		return true, nil
	}

	return streamingTypes[parsed], nil
}
