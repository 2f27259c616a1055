package adaptive

import (
	"context"
	"errors"
	"image"
	"strconv"
	"sync"
	"time"

	"github.com/abrplay/abrplay/player"
	"github.com/abrplay/abrplay/source"
	"github.com/samber/lo"
)

type load struct {
	uri       string
	mediaType string
}

// fakeHost records what the engine asks of the player.
type fakeHost struct {
	mu sync.Mutex

	position    float64
	bufferedEnd float64
	paused      bool
	width       int
	height      int

	loads   []load
	seeks   []float64
	plays   int
	posters []image.Image
	cleared int
	hidden  int
	loadErr error

	subscriber func(player.Event)
}

func newFakeHost() *fakeHost {
	return &fakeHost{paused: true, width: 64, height: 36}
}

func (h *fakeHost) Position() (float64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position, nil
}

func (h *fakeHost) BufferedEnd() (float64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bufferedEnd, nil
}

func (h *fakeHost) Paused() (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.paused, nil
}

func (h *fakeHost) VideoSize() (int, int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width, h.height, nil
}

func (h *fakeHost) failLoads(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loadErr = err
}

func (h *fakeHost) Load(uri, mediaType string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if uri == "" {
		return errors.New("empty uri")
	}
	if h.loadErr != nil {
		return h.loadErr
	}
	h.loads = append(h.loads, load{uri: uri, mediaType: mediaType})
	return nil
}

func (h *fakeHost) Seek(seconds float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seeks = append(h.seeks, seconds)
	h.position = seconds
	return nil
}

func (h *fakeHost) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.plays++
	h.paused = false
	return nil
}

func (h *fakeHost) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paused = true
	return nil
}

func (h *fakeHost) CanPlayType(mediaType string) (bool, error) {
	return player.CanPlayType(mediaType)
}

func (h *fakeHost) CaptureFrame() (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 16, 9)), nil
}

func (h *fakeHost) SetPoster(img image.Image) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.posters = append(h.posters, img)
	return nil
}

func (h *fakeHost) ClearPoster() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cleared++
	return nil
}

func (h *fakeHost) HidePlayAffordance() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hidden++
	return nil
}

func (h *fakeHost) Subscribe(fn func(player.Event)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscriber = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.subscriber = nil
	}
}

func (h *fakeHost) emit(ev player.Event) {
	h.mu.Lock()
	fn := h.subscriber
	h.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

func (h *fakeHost) setPlaying(playing bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paused = !playing
}

func (h *fakeHost) setBuffer(position, bufferedEnd float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.position = position
	h.bufferedEnd = bufferedEnd
}

func (h *fakeHost) lastLoad() load {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.loads) == 0 {
		return load{}
	}
	return h.loads[len(h.loads)-1]
}

func (h *fakeHost) loadCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.loads)
}

// fakeProber hands its completion callback to the test.
type fakeProber struct {
	enabled bool
	starts  int
	resets  int
	done    func(kbps float64)
}

func (p *fakeProber) Enabled() bool { return p.enabled }

func (p *fakeProber) Start(_ context.Context, done func(kbps float64)) bool {
	if !p.enabled {
		return false
	}
	p.starts++
	p.done = done
	return true
}

func (p *fakeProber) Reset() { p.resets++ }

func (p *fakeProber) finish(kbps float64) {
	p.done(kbps)
}

// recorder collects notifications in order.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) SourceChanged(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "source:"+label)
}

func (r *recorder) QualityApplied(baseLabel string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "quality:"+baseLabel)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func ladder(bitrates ...float64) []source.Raw {
	return lo.Map(bitrates, func(b float64, _ int) source.Raw {
		label := strconv.FormatFloat(b, 'f', -1, 64)
		return source.Raw{
			Label:   label,
			Src:     "https://cdn.test/" + label + ".mp4",
			Type:    "video/mp4",
			Bitrate: lo.ToPtr(b),
		}
	})
}

// newTestEngine builds an engine whose handlers the test drives directly.
func newTestEngine(host *fakeHost, prober Prober, threshold int) (*Engine, *recorder) {
	rec := &recorder{}
	e := New(host, prober, Options{
		Threshold:      threshold,
		SampleInterval: time.Hour,
		Listeners:      []Listener{rec},
	})
	return e, rec
}

// drain runs queued engine work on the calling goroutine.
func drain(e *Engine) {
	for {
		select {
		case fn := <-e.events:
			fn()
		default:
			return
		}
	}
}
