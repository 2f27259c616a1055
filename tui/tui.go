// Package tui provides the full-screen quality selector shown while a title plays.
package tui

import (
	"github.com/abrplay/abrplay/adaptive"
	tea "github.com/charmbracelet/bubbletea"
)

// Engine is the part of the adaptive engine the menu drives.
type Engine interface {
	Entries() []adaptive.Entry
	SelectByLabel(label string) bool
	Snapshot() adaptive.Snapshot
	AddListener(l adaptive.Listener)
}

// Transport toggles playback on the host.
type Transport interface {
	Play() error
	Pause() error
	Paused() (bool, error)
}

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	Engine    Engine
	Transport Transport
	// Done closes when the player window is gone.
	Done <-chan struct{}
	// Title of the content being played.
	Title string
	// IconOnly renders the menu title as a bare icon.
	IconOnly bool
}

// Run executes the Bubble Tea application until the user quits or the player exits.
func Run(options *Options) error {
	bubble := newBubble(options)
	options.Engine.AddListener(bubble.listener)
	bubble.newState(playingState)

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
