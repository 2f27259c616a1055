// Package mini implements a lightweight, prompt-driven quality selector for plain terminals.
package mini

import (
	"github.com/abrplay/abrplay/adaptive"
	"github.com/abrplay/abrplay/util"
)

var (
	truncateAt = 100
)

// Engine is the part of the adaptive engine the prompts drive.
type Engine interface {
	Entries() []adaptive.Entry
	SelectByLabel(label string) bool
	Snapshot() adaptive.Snapshot
}

// Transport toggles playback on the host.
type Transport interface {
	Play() error
	Pause() error
	Paused() (bool, error)
}

type Options struct {
	Engine    Engine
	Transport Transport
	// Done closes when the player window is gone.
	Done <-chan struct{}
	Title string
}

type mini struct {
	width, height int

	state         state
	statesHistory util.Stack[state]

	options *Options
}

func newMini(options *Options) *mini {
	return &mini{
		statesHistory: util.Stack[state]{},
		options:       options,
	}
}

func (m *mini) previousState() {
	if m.statesHistory.Len() > 0 {
		m.setState(m.statesHistory.Pop())
	}
}

func (m *mini) setState(s state) {
	m.state = s
}

func (m *mini) newState(s state) {
	if m.state == s {
		return
	}

	if m.state != 0 {
		m.statesHistory.Push(m.state)
	}

	m.setState(s)
}

// exited reports whether the player is gone.
func (m *mini) exited() bool {
	if m.options.Done == nil {
		return false
	}

	select {
	case <-m.options.Done:
		return true
	default:
		return false
	}
}

// Run prompts until the user quits or the player exits.
func Run(options *Options) error {
	m := newMini(options)
	m.state = controlState

	if w, h, err := util.TerminalSize(); err == nil {
		m.width, m.height = w, h
		truncateAt = w
	}

	for m.state != quitState {
		if m.exited() {
			return nil
		}

		if err := m.handleState(); err != nil {
			return err
		}
	}

	return nil
}

func (m *mini) handleState() error {
	switch m.state {
	case controlState:
		return m.handleControlState()
	case qualityState:
		return m.handleQualityState()
	case statusState:
		return m.handleStatusState()
	}

	return nil
}
