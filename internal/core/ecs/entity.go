package ecs

import (
	"time"

	"github.com/rotisserie/eris"
)

// Group is a gameplay category index in [0, MaxGroups).
type Group uint

// Layer is a render-order category index in [0, MaxLayers).
type Layer uint

// membership tracks the bits an entity claims and the slots for which the
// manager index currently holds an entry for it. The two differ between a
// Del* call (or deactivation) and the next Refresh.
type membership struct {
	bits    Bits32
	indexed Bits32
}

// Entity owns an ordered set of components, at most one per type, plus its
// group and layer membership. Entities are created by Manager.AddEntity and
// destroyed only by Manager.Refresh.
type Entity struct {
	id      EntityID
	manager *Manager

	components []Component
	lookup     [MaxComponentTypes]Component
	present    Bits32

	groups membership
	layers membership

	active   bool
	released bool
}

func (e *Entity) ID() EntityID        { return e.id }
func (e *Entity) Manager() *Manager   { return e.manager }
func (e *Entity) IsActive() bool      { return e.active }
func (e *Entity) ComponentCount() int { return len(e.components) }

// SetActive flags the entity for removal (false) or cancels a pending
// removal (true). Nothing is unlinked until the next Refresh.
func (e *Entity) SetActive(active bool) {
	if e.released {
		return
	}
	e.active = active
}

// Destroy is shorthand for SetActive(false).
func (e *Entity) Destroy() { e.SetActive(false) }

// Released reports whether Refresh has already destroyed the entity.
func (e *Entity) Released() bool { return e.released }

// seal marks the entity released and drops its memberships. From here on
// every structural mutation fails with ErrEntityReleased.
func (e *Entity) seal() {
	e.released = true
	e.groups = membership{}
	e.layers = membership{}
}

// Update forwards to every component in attach order. Components attached
// during the pass are first ticked on the next pass.
func (e *Entity) Update(dt time.Duration) {
	for i, n := 0, len(e.components); i < n; i++ {
		e.components[i].Update(dt)
	}
}

// Render forwards to every component in attach order.
func (e *Entity) Render() {
	for i, n := 0, len(e.components); i < n; i++ {
		e.components[i].Render()
	}
}

// AddComponent attaches c to e under T's type id and runs c.Init. If Init
// fails the attach is undone and the error is returned wrapped.
func AddComponent[T Component](e *Entity, c T) (T, error) {
	var zero T
	id, err := TypeIDOf[T](e.manager.types)
	if err != nil {
		return zero, err
	}
	if err := e.attach(id, c); err != nil {
		return zero, eris.Wrapf(err, "add %s to entity %s", typeName[T](), e.id)
	}
	return c, nil
}

// GetComponent returns the T attached to e.
func GetComponent[T Component](e *Entity) (T, error) {
	c, ok := component[T](e)
	if !ok {
		return c, eris.Wrapf(ErrComponentNotFound, "get %s from entity %s", typeName[T](), e.id)
	}
	return c, nil
}

// MustGetComponent is GetComponent for callers that know T is present.
func MustGetComponent[T Component](e *Entity) T {
	c, err := GetComponent[T](e)
	if err != nil {
		panic(err)
	}
	return c
}

// HasComponent reports whether a T is attached to e. It never allocates a
// type id.
func HasComponent[T Component](e *Entity) bool {
	id, ok := lookupTypeID[T](e.manager.types)
	return ok && e.present.Has(uint(id))
}

func component[T Component](e *Entity) (T, bool) {
	var zero T
	id, ok := lookupTypeID[T](e.manager.types)
	if !ok || !e.present.Has(uint(id)) {
		return zero, false
	}
	return e.lookup[id].(T), true
}

func (e *Entity) attach(id ComponentTypeID, c Component) error {
	if e.released {
		return ErrEntityReleased
	}
	if e.present.Has(uint(id)) {
		return ErrDuplicateComponent
	}
	b := c.base()
	if b.manager != nil {
		return eris.Wrapf(ErrComponentAttached, "owner %s", b.owner)
	}
	b.owner, b.manager = e.id, e.manager

	pos := len(e.components)
	e.components = append(e.components, c)
	e.lookup[id] = c
	e.present.Set(uint(id))

	if err := c.Init(); err != nil {
		e.components = append(e.components[:pos], e.components[pos+1:]...)
		e.lookup[id] = nil
		e.present.Clear(uint(id))
		b.owner, b.manager = 0, nil
		return eris.Wrap(err, "init")
	}
	return nil
}

func (e *Entity) HasGroup(g Group) bool { return e.groups.bits.Has(uint(g)) }
func (e *Entity) HasLayer(l Layer) bool { return e.layers.bits.Has(uint(l)) }

// Groups returns the group bits the entity currently claims.
func (e *Entity) Groups() Bits32 { return e.groups.bits }

// Layers returns the layer bits the entity currently claims.
func (e *Entity) Layers() Bits32 { return e.layers.bits }

// AddGroup joins g and links the entity into the manager's group index
// immediately. Joining a group twice is a no-op.
func (e *Entity) AddGroup(g Group) error {
	if uint(g) >= MaxGroups {
		return eris.Wrapf(ErrCapacityExceeded, "group %d out of range [0,%d)", g, MaxGroups)
	}
	return e.join(&e.groups, uint(g), &e.manager.groups[g])
}

// AddLayer joins l and links the entity into the manager's layer index
// immediately. Joining a layer twice is a no-op.
func (e *Entity) AddLayer(l Layer) error {
	if uint(l) >= MaxLayers {
		return eris.Wrapf(ErrCapacityExceeded, "layer %d out of range [0,%d)", l, MaxLayers)
	}
	return e.join(&e.layers, uint(l), &e.manager.layers[l])
}

// DelGroup leaves g. The manager index keeps its entry until Refresh.
func (e *Entity) DelGroup(g Group) error {
	if uint(g) >= MaxGroups {
		return eris.Wrapf(ErrCapacityExceeded, "group %d out of range [0,%d)", g, MaxGroups)
	}
	e.groups.bits.Clear(uint(g))
	return nil
}

// DelLayer leaves l. The manager index keeps its entry until Refresh.
func (e *Entity) DelLayer(l Layer) error {
	if uint(l) >= MaxLayers {
		return eris.Wrapf(ErrCapacityExceeded, "layer %d out of range [0,%d)", l, MaxLayers)
	}
	e.layers.bits.Clear(uint(l))
	return nil
}

func (e *Entity) join(m *membership, slot uint, index *[]*Entity) error {
	if e.released {
		return eris.Wrapf(ErrEntityReleased, "entity %s", e.id)
	}
	m.bits.Set(slot)
	if !m.indexed.Has(slot) {
		*index = append(*index, e)
		m.indexed.Set(slot)
	}
	return nil
}
