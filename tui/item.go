package tui

import (
	"github.com/abrplay/abrplay/adaptive"
	"github.com/abrplay/abrplay/icon"
	"github.com/abrplay/abrplay/style"
	"github.com/charmbracelet/lipgloss"
)

// listItem wraps a quality menu entry for the bubbles list.
type listItem struct {
	entry adaptive.Entry
}

func (t *listItem) mark() string {
	if !t.entry.Selected {
		return ""
	}
	return lipgloss.NewStyle().Bold(true).Foreground(style.AccentColor).Render(icon.Get(icon.Check))
}

// Title renders the label, flagging the active entry.
func (t *listItem) Title() string {
	title := t.entry.Label
	if t.entry.Auto {
		title = icon.Get(icon.Auto) + " " + title
	}
	if mark := t.mark(); mark != "" {
		title += " " + mark
	}
	return title
}

// Description tells what selecting the entry does.
func (t *listItem) Description() string {
	switch {
	case t.entry.Auto && t.entry.Selected && t.entry.BaseLabel != "":
		return style.Faint("adaptive, now " + t.entry.BaseLabel)
	case t.entry.Auto:
		return style.Faint("adaptive")
	default:
		return style.Faint("fixed")
	}
}

// FilterValue is the label.
func (t *listItem) FilterValue() string {
	return t.entry.Label
}
