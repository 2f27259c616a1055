package adaptive

import (
	"github.com/abrplay/abrplay/source"
	"github.com/samber/mo"
)

// DefaultThreshold is the number of agreeing observations required before a switch.
const DefaultThreshold = 4

// Decider maps throughput observations to renditions and gates switches behind
// a run of consecutive agreeing observations.
type Decider struct {
	threshold int

	memory        map[float64]int
	lastCandidate mo.Option[float64]
}

// NewDecider returns a decider; thresholds below one fall back to DefaultThreshold.
func NewDecider(threshold int) *Decider {
	if threshold < 1 {
		threshold = DefaultThreshold
	}
	return &Decider{
		threshold: threshold,
		memory:    make(map[float64]int),
	}
}

// Threshold returns the confirmation count in effect.
func (d *Decider) Threshold() int {
	return d.threshold
}

// Pick returns the first fixed rendition at or below the observation, or the lowest one.
func Pick(cat *source.Catalog, observation float64) *source.Source {
	for _, s := range cat.Fixed() {
		if s.Bitrate <= observation {
			return s
		}
	}
	return cat.Lowest()
}

// Evaluate decides whether the observation warrants switching away from current.
// Initial observations bypass the confirmation gate.
func (d *Decider) Evaluate(cat *source.Catalog, current *source.Source, observation float64, initial bool) mo.Option[*source.Source] {
	candidate := Pick(cat, observation)
	if candidate == nil {
		return mo.None[*source.Source]()
	}

	if current != nil && candidate.Bitrate == current.Bitrate {
		return mo.None[*source.Source]()
	}

	if initial {
		return mo.Some(candidate)
	}

	if last, ok := d.lastCandidate.Get(); !ok || last != candidate.Bitrate {
		d.memory = map[float64]int{candidate.Bitrate: 1}
	} else {
		d.memory[candidate.Bitrate]++
	}
	d.lastCandidate = mo.Some(candidate.Bitrate)

	if d.memory[candidate.Bitrate] < d.threshold {
		return mo.None[*source.Source]()
	}

	d.Reset()
	return mo.Some(candidate)
}

// Count returns the consecutive observations recorded for a bitrate.
func (d *Decider) Count(bitrate float64) int {
	return d.memory[bitrate]
}

// Reset clears the confirmation memory.
func (d *Decider) Reset() {
	d.memory = make(map[float64]int)
	d.lastCandidate = mo.None[float64]()
}
