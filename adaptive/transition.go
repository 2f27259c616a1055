package adaptive

import (
	"github.com/abrplay/abrplay/source"
)

// pendingLoad is a media load awaiting its data-loaded event.
type pendingLoad struct {
	position   float64
	wasPlaying bool
	masked     bool
	initial    bool
}

// switchTo applies a decided rendition. While in auto mode the auto entry
// impersonates the target instead of being replaced by it.
func (e *Engine) switchTo(target *source.Source, t trigger) {
	e.transition(t, func() {
		if e.current != nil && e.current.Auto && !target.Auto {
			e.current.Impersonate(target)
			return
		}
		e.current = target
	})
	e.decider.Reset()
}

// transition swaps the media target while preserving position and masking the reload.
func (e *Engine) transition(t trigger, apply func()) {
	e.stopSampler()
	e.abandonProbe(t)

	load := &pendingLoad{}
	if prev := e.pending; prev != nil {
		// A reload is still in flight: its recorded position is the one worth keeping.
		load.position = prev.position
		load.wasPlaying = prev.wasPlaying
		load.masked = prev.masked
		load.initial = prev.initial
	} else {
		if pos, err := e.host.Position(); err == nil {
			load.position = pos
		}
		if paused, err := e.host.Paused(); err == nil {
			load.wasPlaying = !paused
		}
		if load.wasPlaying {
			load.masked = true
			e.maskReload()
		}
	}

	apply()

	e.pending = load
	e.setState(StateTransitioning, t)

	e.logger.With("position", load.position).Infof("loading %s", e.current.Describe())
	if err := e.host.Load(e.current.URI, e.current.MediaType); err != nil {
		e.logger.Errorf("load %s: %s", e.current.URI, err)
		e.pending = nil
		e.unmask(load)
		e.setState(StateIdle, t)
		e.resumeSampling(t)
		return
	}

	e.notifyQualityApplied(e.current.BaseLabel)
}

// maskReload hides controls and freezes the current frame on screen.
func (e *Engine) maskReload() {
	if err := e.host.HidePlayAffordance(); err != nil {
		e.logger.Warnf("hide controls: %s", err)
	}

	poster, err := renderPoster(e.host)
	if err != nil {
		e.logger.Warnf("poster skipped: %s", err)
		return
	}

	if err := e.host.SetPoster(poster); err != nil {
		e.logger.Warnf("set poster: %s", err)
	}
}

func (e *Engine) unmask(load *pendingLoad) {
	if !load.masked {
		return
	}
	if err := e.host.ClearPoster(); err != nil {
		e.logger.Warnf("clear poster: %s", err)
	}
}

// handleDataLoaded completes the latest pending load.
func (e *Engine) handleDataLoaded() {
	load := e.pending
	if load == nil {
		return
	}
	e.pending = nil

	if !load.initial {
		if err := e.host.Seek(load.position); err != nil {
			e.logger.Warnf("restore position %.2f: %s", load.position, err)
		}
	}
	e.unmask(load)
	if e.state == StateTransitioning {
		e.setState(StateIdle, triggerDataLoaded)
	}

	if load.wasPlaying {
		if err := e.host.Play(); err != nil {
			e.logger.Warnf("resume: %s", err)
		}
	}

	// Playback that is already running never emits a play event, so treat it as one.
	if paused, err := e.host.Paused(); err == nil && !paused {
		e.handlePlay()
	}
}
