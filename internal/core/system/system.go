package system

import "time"

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseEvents  Phase = iota // 0: swap + dispatch last frame's events
	PhaseUpdate               // 1: entity/component update pass
	PhaseRender               // 2: entity/component render pass, present
	PhaseRefresh              // 3: sweep group/layer indices, destroy inactive entities
)

func (p Phase) String() string {
	switch p {
	case PhaseEvents:
		return "events"
	case PhaseUpdate:
		return "update"
	case PhaseRender:
		return "render"
	case PhaseRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// System is the interface every frame system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
