package ecs

import "time"

// Component is a behaviour unit owned by exactly one Entity. Concrete
// components embed Base, which supplies no-op hooks and the owner handle,
// and are attached by pointer:
//
//	type Health struct {
//		ecs.Base
//		Value int
//	}
//
//	hp, err := ecs.AddComponent(e, &Health{Value: 100})
type Component interface {
	// Init runs once, right after the component is attached. A non-nil
	// error aborts the attach.
	Init() error
	Update(dt time.Duration)
	Render()

	base() *Base
}

// Releaser is implemented by components holding resources that must be
// freed when their entity is destroyed by Refresh.
type Releaser interface {
	Release()
}

// Base is embedded by every concrete component.
type Base struct {
	owner   EntityID
	manager *Manager
}

func (*Base) Init() error          { return nil }
func (*Base) Update(time.Duration) {}
func (*Base) Render()              {}

func (b *Base) base() *Base { return b }

// Entity resolves the owning entity. ok is false before the component is
// attached and after its entity has been destroyed.
func (b *Base) Entity() (e *Entity, ok bool) {
	if b.manager == nil {
		return nil, false
	}
	return b.manager.Lookup(b.owner)
}

// Owner returns the handle of the owning entity (zero if unattached).
func (b *Base) Owner() EntityID { return b.owner }
