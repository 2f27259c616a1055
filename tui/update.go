package tui

import (
	"fmt"

	"github.com/abrplay/abrplay/icon"
	"github.com/abrplay/abrplay/internal/ui"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Init starts listening for engine notifications and player exit.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(b.listener.wait(), b.refresh(), b.waitForExit(), b.spinnerC.Tick)
}

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmds = append(cmds, uiCmd)
	}

	switch msg := msg.(type) {
	case error:
		b.raiseError(msg)
		return b, tea.Batch(cmds...)
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, tea.Batch(append(cmds, cmd)...)
	case playerExitedMsg:
		return b, tea.Quit
	case sourceChangedMsg:
		b.selected = string(msg)
		b.remember("selected " + b.selected)
		return b, tea.Batch(append(cmds, b.listener.wait(), b.refresh())...)
	case qualityAppliedMsg:
		b.applied = string(msg)
		b.remember("playing " + b.applied)
		cmds = append(cmds, ui.Notify(fmt.Sprintf("%s %s", icon.Get(icon.Success), b.applied)))
		return b, tea.Batch(append(cmds, b.listener.wait(), b.refresh())...)
	case refreshedMsg:
		b.snapshot = msg.snapshot
		if current := msg.snapshot.Current; current != nil {
			b.selected = current.Label
			if b.applied == "" {
				b.applied = current.BaseLabel
			}
		}
		b.setEntries(msg.entries)
		return b, tea.Batch(cmds...)
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch b.state {
	case playingState:
		cmd = b.updatePlaying(msg)
	case qualityState:
		cmd = b.updateQuality(msg)
	case errorState:
		cmd = b.updateError(msg)
	}

	return b, tea.Batch(append(cmds, cmd)...)
}

func (b *statefulBubble) updatePlaying(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.quit):
		return tea.Quit
	case bubblesKey.Matches(keyMsg, b.keymap.openMenu):
		b.newState(qualityState)
		return b.refresh()
	case bubblesKey.Matches(keyMsg, b.keymap.playPause):
		return b.togglePlayback()
	}
	return nil
}

func (b *statefulBubble) updateQuality(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(keyMsg, b.keymap.back):
			b.previousState()
			return nil
		case bubblesKey.Matches(keyMsg, b.keymap.confirm):
			item, ok := b.qualityC.SelectedItem().(*listItem)
			if !ok {
				return nil
			}
			b.previousState()
			return b.selectLabel(item.entry.Label)
		}
	}

	var cmd tea.Cmd
	b.qualityC, cmd = b.qualityC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateError(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.quit):
		return tea.Quit
	case bubblesKey.Matches(keyMsg, b.keymap.back):
		b.lastError = nil
		b.previousState()
	}
	return nil
}

func (b *statefulBubble) refresh() tea.Cmd {
	engine := b.options.Engine
	return func() tea.Msg {
		return refreshedMsg{
			entries:  engine.Entries(),
			snapshot: engine.Snapshot(),
		}
	}
}

func (b *statefulBubble) selectLabel(label string) tea.Cmd {
	engine := b.options.Engine
	return func() tea.Msg {
		if !engine.SelectByLabel(label) {
			return fmt.Errorf("quality %q is not available", label)
		}
		return nil
	}
}

func (b *statefulBubble) togglePlayback() tea.Cmd {
	transport := b.options.Transport
	if transport == nil {
		return nil
	}

	return func() tea.Msg {
		paused, err := transport.Paused()
		if err != nil {
			return err
		}
		if paused {
			err = transport.Play()
		} else {
			err = transport.Pause()
		}
		if err != nil {
			return err
		}
		return nil
	}
}

func (b *statefulBubble) waitForExit() tea.Cmd {
	done := b.options.Done
	if done == nil {
		return nil
	}
	return func() tea.Msg {
		<-done
		return playerExitedMsg{}
	}
}
