package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/framecs/runtime/internal/core/ecs"
	"github.com/framecs/runtime/internal/core/event"
	coresys "github.com/framecs/runtime/internal/core/system"
)

// RefreshSystem sweeps the manager every `every` frames at frame end.
// Phase 3 (Refresh).
type RefreshSystem struct {
	mgr     *ecs.Manager
	bus     *event.Bus
	log     *zap.Logger
	every   int
	counter int
	frame   uint64
}

// NewRefreshSystem sweeps every frame when every <= 1. bus may be nil.
func NewRefreshSystem(mgr *ecs.Manager, every int, bus *event.Bus, log *zap.Logger) *RefreshSystem {
	if every < 1 {
		every = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RefreshSystem{mgr: mgr, bus: bus, log: log, every: every}
}

func (s *RefreshSystem) Phase() coresys.Phase { return coresys.PhaseRefresh }

func (s *RefreshSystem) Update(_ time.Duration) {
	s.frame++
	s.counter++
	if s.counter < s.every {
		return
	}
	s.counter = 0

	stats, err := s.mgr.Refresh()
	if err != nil {
		s.log.Error("refresh failed", zap.Uint64("frame", s.frame), zap.Error(err))
		return
	}
	if s.bus != nil {
		event.Emit(s.bus, event.SweepCompleted{Frame: s.frame, Stats: stats})
	}
}
