package event

import (
	"time"

	"github.com/framecs/runtime/internal/core/ecs"
)

// SweepCompleted is emitted after every Manager.Refresh.
type SweepCompleted struct {
	Frame uint64
	Stats ecs.SweepStats
}

// FrameCompleted is emitted once per runner tick.
type FrameCompleted struct {
	Frame    uint64
	Elapsed  time.Duration
	Entities int
}
