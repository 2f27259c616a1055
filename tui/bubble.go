package tui

import (
	"time"

	"github.com/abrplay/abrplay/adaptive"
	"github.com/abrplay/abrplay/internal/ui"
	"github.com/abrplay/abrplay/style"
	"github.com/abrplay/abrplay/util"
	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

// recentLimit bounds the activity log on the playing screen.
const recentLimit = 5

// statefulBubble holds the menu state and the last view of the engine.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]

	keymap *statefulKeymap

	qualityC list.Model
	spinnerC spinner.Model
	helpC    help.Model

	listener *channelListener
	notifier *ui.Model

	entries  []adaptive.Entry
	snapshot adaptive.Snapshot
	selected string
	applied  string
	recent   []string

	lastError     error
	width, height int

	options *Options
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if b.state != 0 && b.state != errorState {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
	}
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	b.qualityC.SetSize(listWidth, height-yy)
	b.qualityC.Help.Width = listWidth

	b.width = width - x
	b.height = height - y
	b.helpC.Width = listWidth
}

func (b *statefulBubble) remember(line string) {
	b.recent = append(b.recent, time.Now().Format("15:04:05")+" "+line)
	if len(b.recent) > recentLimit {
		b.recent = b.recent[len(b.recent)-recentLimit:]
	}
}

// setEntries replaces the menu rows and moves the cursor onto the active one.
func (b *statefulBubble) setEntries(entries []adaptive.Entry) {
	b.entries = entries
	items := lo.Map(entries, func(e adaptive.Entry, _ int) list.Item {
		return &listItem{entry: e}
	})
	b.qualityC.SetItems(items)

	if _, index, ok := lo.FindIndexOf(entries, func(e adaptive.Entry) bool { return e.Selected }); ok {
		b.qualityC.Select(index)
	}

	b.qualityC.Title = b.menuTitle()
}

func newBubble(options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := &statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        keymap,
		listener:      newChannelListener(),
		notifier:      &ui.Model{},
		options:       options,
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	bubble.qualityC = list.New([]list.Item{}, delegate, 0, 0)
	bubble.qualityC.KeyMap = keymap.forList()
	bubble.qualityC.AdditionalShortHelpKeys = keymap.ShortHelp
	bubble.qualityC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
		return keymap.FullHelp()[0]
	}
	bubble.qualityC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(style.AccentColor).Padding(0, 1)
	bubble.qualityC.Styles.NoItems = paddingStyle
	bubble.qualityC.SetFilteringEnabled(false)
	bubble.qualityC.SetShowPagination(false)
	bubble.qualityC.SetShowStatusBar(false)
	bubble.qualityC.Title = bubble.menuTitle()

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return bubble
}
