package system

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/framecs/runtime/internal/core/ecs"
	coresys "github.com/framecs/runtime/internal/core/system"
)

// Surface is the output a render pass draws onto.
type Surface interface {
	Clear()
	Show()
}

// RenderSystem clears the surface, runs the manager's render pass in
// insertion order, then presents. Phase 2 (Render).
type RenderSystem struct {
	mgr     *ecs.Manager
	surface Surface
}

// NewRenderSystem creates a render system. surface may be nil.
func NewRenderSystem(mgr *ecs.Manager, surface Surface) *RenderSystem {
	return &RenderSystem{mgr: mgr, surface: surface}
}

func (s *RenderSystem) Phase() coresys.Phase { return coresys.PhaseRender }

func (s *RenderSystem) Update(_ time.Duration) {
	if s.surface != nil {
		s.surface.Clear()
	}
	s.mgr.Render()
	if s.surface != nil {
		s.surface.Show()
	}
}

// LayerRenderSystem renders entities layer by layer, back to front, in
// each layer's index order. Entries the next Refresh would evict are
// skipped. An entity in several listed layers renders once per layer.
// Phase 2 (Render).
type LayerRenderSystem struct {
	mgr     *ecs.Manager
	surface Surface
	log     *zap.Logger
	order   []ecs.Layer
}

// NewLayerRenderSystem fails if any layer in order is out of range.
// surface and log may be nil.
func NewLayerRenderSystem(mgr *ecs.Manager, surface Surface, log *zap.Logger, order ...ecs.Layer) (*LayerRenderSystem, error) {
	for _, l := range order {
		if _, err := mgr.Layer(l); err != nil {
			return nil, fmt.Errorf("layer render order: %w", err)
		}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &LayerRenderSystem{mgr: mgr, surface: surface, log: log, order: order}, nil
}

func (s *LayerRenderSystem) Phase() coresys.Phase { return coresys.PhaseRender }

func (s *LayerRenderSystem) Update(_ time.Duration) {
	if s.surface != nil {
		s.surface.Clear()
	}
	for _, l := range s.order {
		if err := ecs.EachInLayer(s.mgr, l, (*ecs.Entity).Render); err != nil {
			s.log.Error("layer render failed", zap.Uint("layer", uint(l)), zap.Error(err))
		}
	}
	if s.surface != nil {
		s.surface.Show()
	}
}
