package tui

import (
	"fmt"
	"strings"

	"github.com/abrplay/abrplay/adaptive"
	"github.com/abrplay/abrplay/color"
	"github.com/abrplay/abrplay/icon"
	"github.com/abrplay/abrplay/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case playingState:
		output = b.viewPlaying()
	case qualityState:
		output = b.viewQuality()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

// menuTitle is the quality button caption: an icon alone, or the icon and the active label.
func (b *statefulBubble) menuTitle() string {
	glyph := icon.Get(icon.Quality)
	if b.options != nil && b.options.IconOnly && glyph != "" {
		return glyph
	}

	label := b.selected
	if label == "" {
		label = "Quality"
	}
	return strings.TrimSpace(glyph + " " + label)
}

func (b *statefulBubble) fit(s string) string {
	if b.width <= 0 {
		return s
	}
	return truncate.StringWithTail(s, uint(b.width), "…")
}

func (b *statefulBubble) viewPlaying() string {
	title := "Now Playing"
	if b.options != nil && b.options.Title != "" {
		title = b.options.Title
	}

	status := b.snapshot.State.String()
	if b.snapshot.State == adaptive.StateTransitioning || b.snapshot.State == adaptive.StateProbing {
		status = b.spinnerC.View() + " " + status
	}

	lines := []string{
		style.Title(b.fit(title)),
		"",
		b.fit(fmt.Sprintf("%s %s", b.menuTitle(), b.qualityLine())),
		b.fit(fmt.Sprintf("%s %s", style.Faint("mode"), b.snapshot.Mode)),
		b.fit(fmt.Sprintf("%s %s", style.Faint("state"), status)),
		"",
	}

	for _, line := range b.recent {
		lines = append(lines, style.Faint(b.fit(line)))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) qualityLine() string {
	if b.applied == "" {
		return style.Faint("waiting for the first rendition")
	}
	if b.selected == "" || b.selected == b.applied {
		return style.Quality(b.applied, true)
	}
	return style.Quality(b.selected, true) + " " + style.Fg(color.Gray)("→ "+b.applied)
}

func (b *statefulBubble) viewQuality() string {
	return listExtraPaddingStyle.Render(b.qualityC.View())
}

func (b *statefulBubble) viewError() string {
	msg := "unknown error"
	if b.lastError != nil {
		msg = b.lastError.Error()
	}

	body := style.Fg(style.ErrorColor)(msg)
	if b.width > 0 {
		body = wrap.String(body, b.width)
	}

	return b.renderLines(true, []string{
		style.ErrorTitle("Error"),
		"",
		icon.Get(icon.Fail) + " Something went wrong:",
		"",
		body,
	})
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
