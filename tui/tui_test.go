package tui

import (
	"errors"
	"sync"
	"testing"

	"github.com/abrplay/abrplay/adaptive"
	"github.com/abrplay/abrplay/internal/ui"
	"github.com/abrplay/abrplay/key"
	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

type fakeEngine struct {
	mu       sync.Mutex
	entries  []adaptive.Entry
	selected []string
}

func (f *fakeEngine) Entries() []adaptive.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries
}

func (f *fakeEngine) SelectByLabel(label string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.Label == label {
			f.selected = append(f.selected, label)
			return true
		}
	}
	return false
}

func (f *fakeEngine) Snapshot() adaptive.Snapshot {
	return adaptive.Snapshot{Mode: adaptive.ModeAuto, Current: &adaptive.SourceView{Label: "auto", BaseLabel: "480p", Auto: true}}
}

func (f *fakeEngine) AddListener(adaptive.Listener) {}

type fakeTransport struct {
	paused bool
	calls  []string
}

func (f *fakeTransport) Play() error           { f.calls = append(f.calls, "play"); return nil }
func (f *fakeTransport) Pause() error          { f.calls = append(f.calls, "pause"); return nil }
func (f *fakeTransport) Paused() (bool, error) { return f.paused, nil }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestBubble() (*statefulBubble, *fakeEngine, *fakeTransport) {
	viper.Set(key.IconsVariant, "plain")
	engine := &fakeEngine{entries: []adaptive.Entry{
		{Label: "720p", BaseLabel: "720p"},
		{Label: "480p", BaseLabel: "480p"},
		{Label: "auto", BaseLabel: "480p", Auto: true, Selected: true},
	}}
	transport := &fakeTransport{paused: true}
	b := newBubble(&Options{Engine: engine, Transport: transport, Title: "Clip"})
	b.newState(playingState)
	b.Update(b.refresh()())
	return b, engine, transport
}

func TestBubble(t *testing.T) {
	Convey("Given a bubble showing an auto catalog", t, func() {
		b, engine, transport := newTestBubble()

		Convey("The menu mirrors the engine entries", func() {
			So(b.qualityC.Items(), ShouldHaveLength, 3)
			So(b.qualityC.Index(), ShouldEqual, 2)
			So(b.selected, ShouldEqual, "auto")
			So(b.applied, ShouldEqual, "480p")
			So(b.qualityC.Title, ShouldEqual, "Q auto")
		})

		Convey("The playing view names content and rendition", func() {
			view := b.View()
			So(view, ShouldContainSubstring, "Clip")
			So(view, ShouldContainSubstring, "480p")
		})

		Convey("Opening the menu and confirming selects the entry under the cursor", func() {
			b.Update(runes("s"))
			So(b.state, ShouldEqual, qualityState)

			b.qualityC.Select(0)
			cmd := b.updateQuality(tea.KeyMsg{Type: tea.KeyEnter})
			So(b.state, ShouldEqual, playingState)
			So(cmd, ShouldNotBeNil)
			So(cmd(), ShouldBeNil)
			So(engine.selected, ShouldResemble, []string{"720p"})
		})

		Convey("Escape leaves the menu without selecting", func() {
			b.Update(runes("s"))
			b.Update(tea.KeyMsg{Type: tea.KeyEsc})
			So(b.state, ShouldEqual, playingState)
			So(engine.selected, ShouldBeEmpty)
		})

		Convey("Space toggles playback", func() {
			cmd := b.updatePlaying(runes(" "))
			So(cmd, ShouldNotBeNil)
			So(cmd(), ShouldBeNil)
			So(transport.calls, ShouldResemble, []string{"play"})
		})

		Convey("Applied qualities are flashed and remembered", func() {
			_, cmd := b.Update(qualityAppliedMsg("720p"))
			So(cmd, ShouldNotBeNil)
			So(b.applied, ShouldEqual, "720p")
			So(b.recent, ShouldHaveLength, 1)

			b.Update(ui.NotificationMsg("applied 720p"))
			So(b.notifier.Current(), ShouldContainSubstring, "720p")
			So(b.View(), ShouldContainSubstring, "applied 720p")
		})

		Convey("Errors switch to the error view and back", func() {
			b.Update(errors.New("boom"))
			So(b.state, ShouldEqual, errorState)
			So(b.View(), ShouldContainSubstring, "boom")

			b.Update(tea.KeyMsg{Type: tea.KeyEsc})
			So(b.state, ShouldEqual, playingState)
		})

		Convey("Player exit quits", func() {
			_, cmd := b.Update(playerExitedMsg{})
			So(cmd(), ShouldResemble, tea.Quit())
		})
	})

	Convey("Given the icon-only button", t, func() {
		viper.Set(key.IconsVariant, "plain")
		b := newBubble(&Options{Engine: &fakeEngine{}, IconOnly: true})
		b.selected = "1080p"

		Convey("The title is the icon alone", func() {
			So(b.menuTitle(), ShouldEqual, "Q")
		})
	})
}

func TestChannelListener(t *testing.T) {
	Convey("Given a listener nobody drains", t, func() {
		l := newChannelListener()

		Convey("Notifications beyond the buffer are dropped instead of blocking", func() {
			for i := 0; i < 40; i++ {
				l.QualityApplied("720p")
			}
			So(len(l.messages), ShouldEqual, cap(l.messages))
		})

		Convey("wait delivers queued notifications in order", func() {
			l.SourceChanged("auto")
			l.QualityApplied("480p")
			So(l.wait()(), ShouldEqual, sourceChangedMsg("auto"))
			So(l.wait()(), ShouldEqual, qualityAppliedMsg("480p"))
		})
	})
}
