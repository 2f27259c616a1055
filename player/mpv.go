package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/abrplay/abrplay/constant"
	"github.com/abrplay/abrplay/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// MPV implements Host on top of an idle mpv process controlled through JSON-IPC.
type MPV struct {
	id         string
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	mu         sync.Mutex    // protects socket writes

	listener *EventListener

	subMu       sync.Mutex
	subscribers map[int]func(Event)
	nextSub     int

	logger *log.Entry
}

// NewMPV creates an MPV host; nothing is started until Open.
func NewMPV() *MPV {
	exited := make(chan struct{})
	close(exited)
	return &MPV{
		exited:      exited,
		subscribers: make(map[int]func(Event)),
		logger:      log.Component("mpv"),
	}
}

// Open launches an idle mpv window with an IPC socket and starts the event listener.
func (m *MPV) Open(title string, headers map[string]string) error {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	m.id = fmt.Sprintf("%x", randomBytes)
	// os.TempDir keeps the socket path short and valid on macOS
	m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("%s-%s.sock", constant.Abrplay, m.id))

	m.cmd = exec.Command("mpv", launchArgs(m.socketPath, title, headers)...)

	// Detach from the parent process group so terminal signals do not cascade.
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		m.socketPath = ""
		return fmt.Errorf("start mpv: %w", err)
	}

	m.exited = make(chan struct{})
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			m.logger.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		m.socketPath = ""
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.listener = NewEventListener(m.socketPath, m.dispatch)
	if err := m.listener.Start(); err != nil {
		return err
	}

	return nil
}

// launchArgs builds the mpv command line. Only socket, window and header
// options are passed so the user's mpv.conf stays in charge of decoding.
func launchArgs(socketPath, title string, headers map[string]string) []string {
	safeTitle := sanitizeTitle(title)
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", socketPath),
		fmt.Sprintf("--force-media-title=%s", safeTitle),
		fmt.Sprintf("--title=%s", safeTitle),
		"--force-window=yes",
		"--idle=yes",
		"--keep-open=no",
	}

	if len(headers) > 0 {
		keys := make([]string, 0, len(headers))
		for k := range headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fields := make([]string, 0, len(keys))
		for _, k := range keys {
			fields = append(fields, fmt.Sprintf("%s: %s", k, strings.ReplaceAll(headers[k], ",", "%2C")))
		}
		args = append(args, "--http-header-fields="+strings.Join(fields, ","))
	}

	return args
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// Subscribe registers a lifecycle callback. Callbacks run on the listener goroutine.
func (m *MPV) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	id := m.nextSub
	m.nextSub++
	m.subscribers[id] = fn

	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subscribers, id)
	}
}

func (m *MPV) dispatch(event Event) {
	m.subMu.Lock()
	fns := make([]func(Event), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	m.logger.Debugf("event %s", event)
	for _, fn := range fns {
		fn(event)
	}
}

// Position returns the current playback position in seconds.
func (m *MPV) Position() (float64, error) {
	return m.getFloatProperty("time-pos")
}

// BufferedEnd returns the timestamp up to which the demuxer cache reaches.
func (m *MPV) BufferedEnd() (float64, error) {
	return m.getFloatProperty("demuxer-cache-time")
}

// Paused returns whether playback is currently paused.
func (m *MPV) Paused() (bool, error) {
	data, err := m.sendCommand("get_property", "pause")
	if err != nil {
		return false, err
	}
	paused, ok := data.(bool)
	if !ok {
		return false, fmt.Errorf("property pause: expected bool, got %T", data)
	}
	return paused, nil
}

// VideoSize returns the native video dimensions.
func (m *MPV) VideoSize() (int, int, error) {
	w, err := m.getFloatProperty("width")
	if err != nil {
		return 0, 0, err
	}
	h, err := m.getFloatProperty("height")
	if err != nil {
		return 0, 0, err
	}
	return int(w), int(h), nil
}

// Load replaces the current file. mpv sniffs the container, so the media type is only logged.
func (m *MPV) Load(uri, mediaType string) error {
	target, err := sanitizeMediaTarget(uri)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	m.logger.With("type", mediaType).Infof("loading %s", target)
	_, err = m.sendCommand("loadfile", target, "replace")
	return err
}

// Seek moves playback to the given absolute position in seconds.
func (m *MPV) Seek(seconds float64) error {
	_, err := m.sendCommand("seek", seconds, "absolute+exact")
	return err
}

// Play resumes playback.
func (m *MPV) Play() error {
	return m.Set("pause", false)
}

// Pause suspends playback.
func (m *MPV) Pause() error {
	return m.Set("pause", true)
}

// CanPlayType reports whether mpv handles the MIME type.
func (m *MPV) CanPlayType(mediaType string) (bool, error) {
	return CanPlayType(mediaType)
}

// IsRunning reports whether mpv is responding to IPC commands.
func (m *MPV) IsRunning() bool {
	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand("get_property", "pid")
	return err == nil
}

// Close shuts down the mpv process and cleans up resources.
func (m *MPV) Close() error {
	if m.socketPath == "" {
		return nil
	}

	if m.listener != nil {
		m.listener.Stop()
	}

	_, _ = m.sendCommand("quit")

	select {
	case <-m.exited:
	case <-time.After(3 * time.Second):
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)
	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// Set writes an mpv property.
func (m *MPV) Set(property string, value interface{}) error {
	_, err := m.sendCommand("set_property", property, value)
	return err
}

func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand("get_property", name)
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// sanitizeMediaTarget validates that a URI is safe to pass to mpv.
// Catalog files are user input, so flag-like and non-http schemes are refused.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
