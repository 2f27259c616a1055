package tui

import (
	"github.com/abrplay/abrplay/adaptive"
	tea "github.com/charmbracelet/bubbletea"
)

type (
	sourceChangedMsg  string
	qualityAppliedMsg string
	playerExitedMsg   struct{}
	refreshedMsg      struct {
		entries  []adaptive.Entry
		snapshot adaptive.Snapshot
	}
)

// channelListener forwards engine notifications into the UI.
// Sends never block the engine; a full buffer drops the notification.
type channelListener struct {
	messages chan tea.Msg
}

func newChannelListener() *channelListener {
	return &channelListener{messages: make(chan tea.Msg, 16)}
}

func (c *channelListener) SourceChanged(label string) {
	c.send(sourceChangedMsg(label))
}

func (c *channelListener) QualityApplied(baseLabel string) {
	c.send(qualityAppliedMsg(baseLabel))
}

func (c *channelListener) send(msg tea.Msg) {
	select {
	case c.messages <- msg:
	default:
	}
}

// wait returns a command delivering the next notification.
func (c *channelListener) wait() tea.Cmd {
	return func() tea.Msg {
		return <-c.messages
	}
}
