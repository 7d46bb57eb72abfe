package system

import (
	"sort"
	"time"

	"go.uber.org/zap"
)

// Observer receives per-phase and per-frame timings from a Runner.
type Observer interface {
	PhaseTiming(phase Phase, d time.Duration)
	FrameTiming(frame uint64, d time.Duration)
}

// Runner executes systems in phase order each frame. Systems sharing a
// phase run in registration order.
type Runner struct {
	systems  []System
	sorted   bool
	frame    uint64
	observer Observer
	log      *zap.Logger
}

func NewRunner(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		systems: make([]System, 0, 8),
		log:     log,
	}
}

// Observe attaches an observer for timing data. nil detaches it.
func (r *Runner) Observe(o Observer) { r.observer = o }

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
	r.log.Debug("system registered", zap.Stringer("phase", s.Phase()), zap.Int("systems", len(r.systems)))
}

// Frame returns the number of completed Tick calls.
func (r *Runner) Frame() uint64 { return r.frame }

func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	start := time.Now()
	phaseStart := start
	for i, s := range r.systems {
		s.Update(dt)
		if r.observer == nil {
			continue
		}
		last := i == len(r.systems)-1
		if last || r.systems[i+1].Phase() != s.Phase() {
			now := time.Now()
			r.observer.PhaseTiming(s.Phase(), now.Sub(phaseStart))
			phaseStart = now
		}
	}
	r.frame++
	if r.observer != nil {
		r.observer.FrameTiming(r.frame, time.Since(start))
	}
}

// TickPhase runs only the systems registered for phase. It does not
// advance the frame counter.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Update(dt)
		}
	}
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
