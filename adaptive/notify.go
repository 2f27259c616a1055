package adaptive

import "github.com/abrplay/abrplay/source"

// Listener receives engine notifications on the engine goroutine.
// Implementations must not call blocking Engine methods synchronously.
type Listener interface {
	// SourceChanged reports the selected catalog label.
	SourceChanged(label string)
	// QualityApplied reports the rendition now playing.
	QualityApplied(baseLabel string)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnSourceChanged  func(label string)
	OnQualityApplied func(baseLabel string)
}

func (l ListenerFuncs) SourceChanged(label string) {
	if l.OnSourceChanged != nil {
		l.OnSourceChanged(label)
	}
}

func (l ListenerFuncs) QualityApplied(baseLabel string) {
	if l.OnQualityApplied != nil {
		l.OnQualityApplied(baseLabel)
	}
}

// SourceView is a detached copy of a catalog entry.
type SourceView struct {
	Label     string
	BaseLabel string
	URI       string
	Bitrate   float64
	Auto      bool
}

func viewOf(s *source.Source) *SourceView {
	if s == nil {
		return nil
	}
	return &SourceView{
		Label:     s.Label,
		BaseLabel: s.BaseLabel,
		URI:       s.URI,
		Bitrate:   s.Bitrate,
		Auto:      s.Auto,
	}
}

func (e *Engine) notifySourceChanged(label string) {
	for _, l := range e.listeners {
		l.SourceChanged(label)
	}
}

func (e *Engine) notifyQualityApplied(baseLabel string) {
	for _, l := range e.listeners {
		l.QualityApplied(baseLabel)
	}
}
