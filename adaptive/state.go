// Package adaptive switches a player between renditions as the estimated throughput changes.
package adaptive

// Mode tells whether the engine follows throughput or a user choice.
type Mode int

const (
	ModeFixed Mode = iota
	ModeAuto
)

func (m Mode) String() string {
	if m == ModeAuto {
		return "auto"
	}
	return "fixed"
}

// State is the lifecycle phase of the engine.
type State int

const (
	StateIdle State = iota
	StateProbing
	StateTransitioning
	StateSampling
)

func (s State) String() string {
	switch s {
	case StateProbing:
		return "probing"
	case StateTransitioning:
		return "transitioning"
	case StateSampling:
		return "sampling"
	default:
		return "idle"
	}
}

// trigger names the cause of a state change in logs.
type trigger string

const (
	triggerSources    trigger = "sources"
	triggerProbe      trigger = "probe"
	triggerProbeDone  trigger = "probe-done"
	triggerDeadline   trigger = "probe-deadline"
	triggerSwitch     trigger = "switch"
	triggerSelect     trigger = "select"
	triggerDataLoaded trigger = "data-loaded"
	triggerPlay       trigger = "play"
	triggerPause      trigger = "pause"
	triggerEnded      trigger = "ended"
)

// Snapshot is a read-only view of the engine for callers outside the loop.
type Snapshot struct {
	Mode    Mode
	State   State
	Current *SourceView
	Pending bool
}

// Entry is one row of the quality menu.
type Entry struct {
	Label     string
	BaseLabel string
	Auto      bool
	Selected  bool
}
