package component

import (
	"time"

	"github.com/framecs/runtime/internal/core/ecs"
)

// Health destroys its entity when Current drops to zero.
type Health struct {
	ecs.Base
	Current int
	Max     int
}

func NewHealth(max int) *Health {
	return &Health{Current: max, Max: max}
}

// Damage subtracts n (clamped at zero) and reports whether the entity died.
func (h *Health) Damage(n int) bool {
	h.Current -= n
	if h.Current < 0 {
		h.Current = 0
	}
	if h.Current == 0 {
		if e, ok := h.Entity(); ok {
			e.Destroy()
		}
		return true
	}
	return false
}

func (h *Health) Heal(n int) {
	h.Current = min(h.Current+n, h.Max)
}

func (h *Health) Alive() bool { return h.Current > 0 }

// Lifetime destroys its entity after TTL has elapsed.
type Lifetime struct {
	ecs.Base
	TTL     time.Duration
	elapsed time.Duration
}

func (l *Lifetime) Update(dt time.Duration) {
	l.elapsed += dt
	if l.elapsed >= l.TTL {
		if e, ok := l.Entity(); ok {
			e.Destroy()
		}
	}
}

func (l *Lifetime) Remaining() time.Duration {
	return max(l.TTL-l.elapsed, 0)
}
