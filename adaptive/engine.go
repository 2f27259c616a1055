package adaptive

import (
	"context"
	"time"

	"github.com/abrplay/abrplay/log"
	"github.com/abrplay/abrplay/player"
	"github.com/abrplay/abrplay/source"
)

const eventBuffer = 64

// Prober is a one-shot throughput measurement.
type Prober interface {
	// Enabled reports whether a measurement can run at all.
	Enabled() bool
	// Start launches a measurement; done may be called from any goroutine.
	Start(ctx context.Context, done func(kbps float64)) bool
	// Reset forgets cached measurement state.
	Reset()
}

// Engine selects and switches renditions for one host.
// All state is owned by the goroutine running Run.
type Engine struct {
	host   player.Host
	prober Prober
	opts   Options

	decider *Decider
	sampler Sampler

	ctx    context.Context
	events chan func()
	done   chan struct{}

	catalog      *source.Catalog
	current      *source.Source
	mode         Mode
	state        State
	reportOnPlay bool

	// probeGen and sampleGen invalidate stale probe answers and ticks.
	probeGen  int
	sampleGen int
	pending   *pendingLoad

	samplerStop chan struct{}
	deadline    *time.Timer

	listeners []Listener
	logger    *log.Entry
}

// New returns an engine bound to host. prober may be nil.
func New(host player.Host, prober Prober, opts Options) *Engine {
	if opts.SampleInterval <= 0 {
		opts.SampleInterval = SampleInterval
	}

	return &Engine{
		host:      host,
		prober:    prober,
		opts:      opts,
		decider:   NewDecider(opts.Threshold),
		ctx:       context.Background(),
		events:    make(chan func(), eventBuffer),
		done:      make(chan struct{}),
		listeners: append([]Listener(nil), opts.Listeners...),
		logger:    log.Component("engine"),
	}
}

// Run executes engine handlers until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	e.ctx = ctx
	unsubscribe := e.host.Subscribe(func(ev player.Event) {
		e.post(func() { e.handleHostEvent(ev) })
	})

	defer func() {
		unsubscribe()
		e.stopSampler()
		e.stopDeadline()
		close(e.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-e.events:
			fn()
		}
	}
}

// Done is closed once Run has returned.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// post queues fn on the engine goroutine without waiting.
func (e *Engine) post(fn func()) {
	select {
	case e.events <- fn:
	case <-e.done:
	}
}

// call runs fn on the engine goroutine and waits for it. It reports false once the engine stopped.
func (e *Engine) call(fn func()) bool {
	ran := make(chan struct{})
	select {
	case e.events <- func() { fn(); close(ran) }:
	case <-e.done:
		return false
	}

	select {
	case <-ran:
		return true
	case <-e.done:
		return false
	}
}

// AddListener registers a listener for subsequent notifications.
func (e *Engine) AddListener(l Listener) {
	e.post(func() { e.listeners = append(e.listeners, l) })
}

// SetSources replaces the catalog and picks the initial rendition. Run must be active.
func (e *Engine) SetSources(raw []source.Raw) *source.Catalog {
	var cat *source.Catalog
	e.call(func() { cat = e.setSources(raw) })
	return cat
}

// SelectByLabel switches to the catalog entry with the given label.
// Unknown labels report false and change nothing.
func (e *Engine) SelectByLabel(label string) bool {
	var ok bool
	e.call(func() { ok = e.selectLabel(label) })
	return ok
}

// Entries lists the quality menu rows.
func (e *Engine) Entries() []Entry {
	var entries []Entry
	e.call(func() { entries = e.entries() })
	return entries
}

// Snapshot returns a copy of the engine state.
func (e *Engine) Snapshot() Snapshot {
	var snap Snapshot
	e.call(func() { snap = e.snapshot() })
	return snap
}

func (e *Engine) entries() []Entry {
	list := e.catalog.Entries()
	entries := make([]Entry, 0, len(list))
	for _, s := range list {
		entries = append(entries, Entry{
			Label:     s.Label,
			BaseLabel: s.BaseLabel,
			Auto:      s.Auto,
			Selected:  s == e.current,
		})
	}
	return entries
}

func (e *Engine) snapshot() Snapshot {
	return Snapshot{
		Mode:    e.mode,
		State:   e.state,
		Current: viewOf(e.current),
		Pending: e.pending != nil,
	}
}

func (e *Engine) setState(s State, t trigger) {
	if e.state == s {
		return
	}
	e.logger.With("trigger", string(t)).Debugf("%s -> %s", e.state, s)
	e.state = s
}

func (e *Engine) setSources(raw []source.Raw) *source.Catalog {
	e.stopSampler()
	e.abandonProbe(triggerSources)
	e.decider.Reset()
	if e.prober != nil {
		e.prober.Reset()
	}

	e.pending = nil
	e.catalog = source.Build(raw, e.host.CanPlayType, !e.opts.DisableAdaptive)
	e.current = nil
	e.mode = ModeFixed
	e.reportOnPlay = false
	e.setState(StateIdle, triggerSources)

	e.logger.Infof("catalog %v", e.catalog.Labels())

	if e.catalog.Len() == 0 {
		return e.catalog
	}

	e.chooseInitial()
	return e.catalog
}

// chooseInitial selects the starting rendition and loads it.
func (e *Engine) chooseInitial() {
	probing := false

	if auto, ok := e.catalog.Auto(); ok && e.prober != nil && e.prober.Enabled() {
		auto.Impersonate(e.catalog.Lowest())
		e.current = auto
		e.mode = ModeAuto
		probing = true
	} else {
		middle := e.catalog.Middle()
		if ok {
			auto.Impersonate(middle)
		}
		e.current = middle
		e.mode = ModeFixed
	}

	e.reportOnPlay = true
	e.logger.With("mode", e.mode.String()).Infof("initial rendition %s", e.current.Describe())

	e.pending = &pendingLoad{initial: true}
	if err := e.host.Load(e.current.URI, e.current.MediaType); err != nil {
		e.logger.Errorf("initial load: %s", err)
		e.pending = nil
	}

	if probing {
		e.startProbe()
	}
}

func (e *Engine) startProbe() {
	e.probeGen++
	gen := e.probeGen

	started := e.prober.Start(e.ctx, func(kbps float64) {
		e.post(func() { e.probeDone(gen, kbps) })
	})
	if !started {
		return
	}

	e.setState(StateProbing, triggerProbe)
	e.armDeadline()
}

// armDeadline starts the probe deadline for the outstanding probe.
func (e *Engine) armDeadline() {
	if e.opts.ProbeTimeout <= 0 || e.deadline != nil {
		return
	}

	gen := e.probeGen
	e.deadline = time.AfterFunc(e.opts.ProbeTimeout, func() {
		e.post(func() { e.probeDeadline(gen) })
	})
}

func (e *Engine) probeDone(gen int, kbps float64) {
	if gen != e.probeGen || e.state != StateProbing {
		e.logger.Debugf("dropping stale probe result %.2f", kbps)
		return
	}
	if e.mode != ModeAuto || e.current == nil || !e.current.Auto {
		e.logger.Debugf("dropping probe result %.2f, selection changed", kbps)
		return
	}

	e.stopDeadline()
	e.probeGen++
	e.setState(StateIdle, triggerProbeDone)

	e.logger.Infof("probe measured %.2f", kbps)
	if target, ok := e.decider.Evaluate(e.catalog, e.current, kbps, true).Get(); ok {
		e.switchTo(target, triggerProbeDone)
		return
	}

	e.resumeSampling(triggerProbeDone)
}

func (e *Engine) probeDeadline(gen int) {
	if gen != e.probeGen {
		return
	}

	e.logger.Warnf("probe did not answer within %s", e.opts.ProbeTimeout)
	e.abandonProbe(triggerDeadline)
	e.resumeSampling(triggerDeadline)
}

// abandonProbe cancels the deadline and invalidates any outstanding probe answer.
func (e *Engine) abandonProbe(t trigger) {
	e.stopDeadline()
	e.probeGen++
	if e.state == StateProbing {
		e.setState(StateIdle, t)
	}
}

func (e *Engine) stopDeadline() {
	if e.deadline != nil {
		e.deadline.Stop()
		e.deadline = nil
	}
}

// resumeSampling starts the sampler when auto playback is running and nothing is pending.
func (e *Engine) resumeSampling(t trigger) {
	if e.mode != ModeAuto || e.pending != nil || e.state != StateIdle {
		return
	}
	if paused, err := e.host.Paused(); err != nil || paused {
		return
	}
	e.startSampler(t)
}

func (e *Engine) startSampler(t trigger) {
	if e.samplerStop != nil {
		return
	}

	e.sampler.Reset()
	e.sampleGen++
	gen := e.sampleGen
	stop := make(chan struct{})
	e.samplerStop = stop

	go func() {
		ticker := time.NewTicker(e.opts.SampleInterval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				e.post(func() { e.sampleTick(gen) })
			}
		}
	}()

	e.setState(StateSampling, t)
}

func (e *Engine) stopSampler() {
	if e.samplerStop == nil {
		return
	}
	close(e.samplerStop)
	e.samplerStop = nil
	e.sampleGen++
	if e.state == StateSampling {
		e.state = StateIdle
	}
}

func (e *Engine) sampleTick(gen int) {
	if gen != e.sampleGen || e.mode != ModeAuto || e.current == nil {
		return
	}

	bufferedEnd, err := e.host.BufferedEnd()
	if err != nil {
		e.logger.Debugf("sample skipped: %s", err)
		return
	}
	position, err := e.host.Position()
	if err != nil {
		e.logger.Debugf("sample skipped: %s", err)
		return
	}

	delta, ok := e.sampler.Observe(bufferedEnd, position)
	if !ok {
		return
	}

	signal := e.current.Bitrate * delta
	if target, ok := e.decider.Evaluate(e.catalog, e.current, signal, false).Get(); ok {
		e.logger.Infof("trend %.2f confirmed %s", signal, target.Label)
		e.switchTo(target, triggerSwitch)
	}
}

func (e *Engine) handleHostEvent(ev player.Event) {
	switch ev {
	case player.EventPlay:
		e.handlePlay()
	case player.EventPause:
		e.handleHalt(triggerPause)
	case player.EventEnded:
		e.handleHalt(triggerEnded)
	case player.EventDataLoaded:
		e.handleDataLoaded()
	}
}

func (e *Engine) handlePlay() {
	if e.current == nil {
		return
	}

	if e.reportOnPlay {
		e.reportOnPlay = false
		e.notifySourceChanged(e.current.Label)
		e.notifyQualityApplied(e.current.BaseLabel)
	}

	if e.state == StateProbing {
		e.armDeadline()
		return
	}

	if e.mode == ModeAuto && e.pending == nil && e.state == StateIdle {
		e.startSampler(triggerPlay)
	}
}

// handleHalt stops the timers. An outstanding probe keeps running and still applies when it answers.
func (e *Engine) handleHalt(t trigger) {
	e.stopSampler()
	e.stopDeadline()
	if e.current != nil {
		e.reportOnPlay = true
	}
	e.logger.With("trigger", string(t)).Debugf("halted in %s", e.state)
}

// selectLabel applies a menu choice.
func (e *Engine) selectLabel(label string) bool {
	entry, ok := e.catalog.Find(label)
	if !ok {
		e.logger.Warnf("unknown label %q", label)
		return false
	}

	e.stopSampler()
	e.abandonProbe(triggerSelect)

	if entry.Auto {
		// Entering auto continues with the rendition on screen until the sampler decides otherwise.
		if e.current != nil && !e.current.Auto {
			entry.Impersonate(e.current)
		}
		e.mode = ModeAuto
	} else {
		e.mode = ModeFixed
	}

	e.logger.With("mode", e.mode.String()).Infof("selected %s", entry.Describe())
	e.notifySourceChanged(entry.Label)
	e.transition(triggerSelect, func() { e.current = entry })
	e.decider.Reset()
	return true
}
