package system

import (
	"time"

	"github.com/framecs/runtime/internal/core/ecs"
	coresys "github.com/framecs/runtime/internal/core/system"
)

// UpdateSystem runs the manager's update pass. Phase 1 (Update).
type UpdateSystem struct {
	mgr *ecs.Manager
}

func NewUpdateSystem(mgr *ecs.Manager) *UpdateSystem {
	return &UpdateSystem{mgr: mgr}
}

func (s *UpdateSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *UpdateSystem) Update(dt time.Duration) {
	s.mgr.Update(dt)
}
