package mini

import (
	"fmt"

	"github.com/abrplay/abrplay/adaptive"
	"github.com/abrplay/abrplay/icon"
	"github.com/abrplay/abrplay/style"
	"github.com/samber/lo"
)

type state int

const (
	controlState state = iota + 1
	qualityState
	statusState
	quitState
)

func (m *mini) handleControlState() error {
	snapshot := m.options.Engine.Snapshot()

	header := "Now Playing"
	if m.options.Title != "" {
		header = m.options.Title
	}
	if current := snapshot.Current; current != nil {
		header = fmt.Sprintf("%s  %s %s", header, icon.Get(icon.Quality), describe(current))
	}
	title(header)

	actions := []action{changeQuality}
	if m.options.Transport != nil {
		actions = append(actions, togglePause)
	}
	actions = append(actions, showStatus, quit)

	index, err := menu("What now?", lo.Map(actions, func(a action, _ int) string { return a.String() }), 0)
	if err != nil {
		return err
	}

	switch actions[index] {
	case changeQuality:
		m.newState(qualityState)
	case togglePause:
		return m.togglePause()
	case showStatus:
		m.newState(statusState)
	case quit:
		m.newState(quitState)
	}

	return nil
}

func (m *mini) handleQualityState() error {
	entries := m.options.Engine.Entries()
	if len(entries) == 0 {
		fail("No playable sources")
		m.previousState()
		return nil
	}

	options := lo.Map(entries, func(e adaptive.Entry, _ int) string {
		return entryLine(e)
	})
	options = append(options, back.String())

	_, def, _ := lo.FindIndexOf(entries, func(e adaptive.Entry) bool { return e.Selected })

	title("Select Quality")
	index, err := menu("Quality", options, def)
	if err != nil {
		return err
	}

	m.previousState()
	if index >= len(entries) {
		return nil
	}

	label := entries[index].Label
	if !m.options.Engine.SelectByLabel(label) {
		fail(fmt.Sprintf("Quality %q is not available", label))
		return nil
	}

	succeed("Switched to " + label)
	return nil
}

func (m *mini) handleStatusState() error {
	snapshot := m.options.Engine.Snapshot()

	current := "none"
	if snapshot.Current != nil {
		current = describe(snapshot.Current)
	}

	fmt.Printf("%s %s\n", style.Faint("mode   "), snapshot.Mode)
	fmt.Printf("%s %s\n", style.Faint("state  "), snapshot.State)
	fmt.Printf("%s %s\n", style.Faint("source "), current)
	fmt.Println()

	m.previousState()
	return nil
}

func (m *mini) togglePause() error {
	paused, err := m.options.Transport.Paused()
	if err != nil {
		return err
	}

	if paused {
		return m.options.Transport.Play()
	}

	return m.options.Transport.Pause()
}

func describe(view *adaptive.SourceView) string {
	if view.Auto && view.BaseLabel != "" {
		return fmt.Sprintf("%s (%s)", view.Label, view.BaseLabel)
	}
	return view.Label
}

func entryLine(e adaptive.Entry) string {
	line := e.Label
	if e.Auto {
		line = icon.Get(icon.Auto) + " " + line
	}
	if e.Selected {
		line += " " + icon.Get(icon.Check)
	}
	return line
}
