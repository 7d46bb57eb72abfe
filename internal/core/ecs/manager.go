package ecs

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

type traversal uint8

const (
	traversalNone traversal = iota
	traversalUpdate
	traversalRender
)

func (t traversal) String() string {
	switch t {
	case traversalUpdate:
		return "update"
	case traversalRender:
		return "render"
	default:
		return "none"
	}
}

// SweepStats summarises one Refresh.
type SweepStats struct {
	GroupEvictions int
	LayerEvictions int
	Destroyed      int
	Remaining      int
}

// Manager owns every entity and the per-group / per-layer indices over
// them. Index entries are added eagerly by Entity.AddGroup/AddLayer and
// removed lazily by Refresh, so between refreshes an index may still list
// entities that were deactivated or left the group. Callers needing strict
// freshness re-check IsActive and HasGroup/HasLayer, or use EachInGroup.
//
// A Manager is not safe for concurrent use; it is driven by a single loop.
type Manager struct {
	entities []*Entity
	groups   [MaxGroups][]*Entity
	layers   [MaxLayers][]*Entity

	pool    *EntityPool
	byIndex []*Entity
	types   *TypeRegistry
	dead    []*Entity

	log       *zap.Logger
	onSweep   []func(SweepStats)
	traversal traversal
}

// Option configures a Manager.
type Option func(*Manager)

func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithTypeRegistry isolates the manager's component ids from the
// process-wide registry.
func WithTypeRegistry(r *TypeRegistry) Option {
	return func(m *Manager) { m.types = r }
}

// WithSweepHook registers fn to run after every Refresh.
func WithSweepHook(fn func(SweepStats)) Option {
	return func(m *Manager) { m.onSweep = append(m.onSweep, fn) }
}

// WithCapacity pre-sizes entity storage.
func WithCapacity(n int) Option {
	return func(m *Manager) {
		m.entities = make([]*Entity, 0, n)
		m.byIndex = make([]*Entity, 0, n)
		m.pool = NewEntityPool(n)
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		entities: make([]*Entity, 0, 256),
		byIndex:  make([]*Entity, 0, 256),
		pool:     NewEntityPool(256),
		types:    defaultTypes,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Types returns the registry the manager resolves component ids against.
func (m *Manager) Types() *TypeRegistry { return m.types }

// AddEntity creates an active entity at the end of the master sequence.
// Entities added during Update or Render are first ticked on the next pass.
func (m *Manager) AddEntity() *Entity {
	id := m.pool.Create()
	e := &Entity{id: id, manager: m, active: true}
	m.entities = append(m.entities, e)

	idx := int(id.Index())
	for len(m.byIndex) <= idx {
		m.byIndex = append(m.byIndex, nil)
	}
	m.byIndex[idx] = e
	return e
}

// Lookup resolves a handle. It fails once the entity has been destroyed.
func (m *Manager) Lookup(id EntityID) (*Entity, bool) {
	if !m.pool.Alive(id) {
		return nil, false
	}
	return m.byIndex[id.Index()], true
}

// Alive reports whether id names an entity that Refresh has not destroyed.
func (m *Manager) Alive(id EntityID) bool { return m.pool.Alive(id) }

// Len returns the size of the master sequence, pending removals included.
func (m *Manager) Len() int { return len(m.entities) }

// Entities returns the master sequence in insertion order. The slice is
// owned by the manager and is only valid until the next Refresh.
func (m *Manager) Entities() []*Entity { return m.entities }

// Update ticks every entity in insertion order. Entities pending removal
// still get this tick; they are dropped by the next Refresh.
func (m *Manager) Update(dt time.Duration) {
	m.enter(traversalUpdate)
	defer m.leave()
	for i, n := 0, len(m.entities); i < n; i++ {
		m.entities[i].Update(dt)
	}
}

// Render is the render-pass counterpart of Update.
func (m *Manager) Render() {
	m.enter(traversalRender)
	defer m.leave()
	for i, n := 0, len(m.entities); i < n; i++ {
		m.entities[i].Render()
	}
}

func (m *Manager) enter(t traversal) {
	if m.traversal != traversalNone {
		err := eris.Wrapf(ErrTraversal, "%s started during %s", t, m.traversal)
		m.log.Error("nested traversal", zap.Error(err))
		panic(err)
	}
	m.traversal = t
}

func (m *Manager) leave() { m.traversal = traversalNone }

// Group returns the index for g. Entries may be stale until the next
// Refresh; the slice is read-only for callers and valid until then.
func (m *Manager) Group(g Group) ([]*Entity, error) {
	if uint(g) >= MaxGroups {
		return nil, eris.Wrapf(ErrCapacityExceeded, "group %d out of range [0,%d)", g, MaxGroups)
	}
	return m.groups[g], nil
}

// Layer returns the index for l, with the same staleness as Group.
func (m *Manager) Layer(l Layer) ([]*Entity, error) {
	if uint(l) >= MaxLayers {
		return nil, eris.Wrapf(ErrCapacityExceeded, "layer %d out of range [0,%d)", l, MaxLayers)
	}
	return m.layers[l], nil
}

// Refresh evicts index entries whose entity is inactive or no longer a
// member, then destroys every inactive entity. Indices are always swept
// before any entity is released, so no index ever holds a released entity.
// It must not be called from inside Update or Render.
func (m *Manager) Refresh() (SweepStats, error) {
	if m.traversal != traversalNone {
		return SweepStats{}, eris.Wrapf(ErrTraversal, "refresh during %s", m.traversal)
	}

	var stats SweepStats
	stats.GroupEvictions = sweepIndices(&m.groups, func(e *Entity) *membership { return &e.groups })
	stats.LayerEvictions = sweepIndices(&m.layers, func(e *Entity) *membership { return &e.layers })

	kept := m.entities[:0]
	dead := m.dead[:0]
	for _, e := range m.entities {
		if e.active {
			kept = append(kept, e)
		} else {
			dead = append(dead, e)
		}
	}
	clear(m.entities[len(kept):])
	m.entities = kept

	// Every dying entity is sealed before any hook runs, so a Releaser
	// cannot rejoin an index that was just swept. Hooks run after
	// compaction so entities they spawn land in the new master sequence.
	for _, e := range dead {
		e.seal()
	}
	for _, e := range dead {
		m.release(e)
	}
	stats.Destroyed = len(dead)
	clear(dead)
	m.dead = dead[:0]
	stats.Remaining = len(m.entities)

	if stats.GroupEvictions+stats.LayerEvictions+stats.Destroyed > 0 {
		m.log.Debug("refresh",
			zap.Int("group_evictions", stats.GroupEvictions),
			zap.Int("layer_evictions", stats.LayerEvictions),
			zap.Int("destroyed", stats.Destroyed),
			zap.Int("remaining", stats.Remaining),
		)
	}
	for _, fn := range m.onSweep {
		fn(stats)
	}
	return stats, nil
}

// sweepIndices compacts each index in place, keeping order, and returns the
// number of evicted entries.
func sweepIndices(indices *[MaxGroups][]*Entity, sel func(*Entity) *membership) int {
	evicted := 0
	for slot := range indices {
		index := indices[slot]
		kept := index[:0]
		for _, e := range index {
			mb := sel(e)
			if e.active && mb.bits.Has(uint(slot)) {
				kept = append(kept, e)
				continue
			}
			mb.indexed.Clear(uint(slot))
			evicted++
		}
		clear(index[len(kept):])
		indices[slot] = kept
	}
	return evicted
}

func (m *Manager) release(e *Entity) {
	for _, c := range e.components {
		if r, ok := c.(Releaser); ok {
			r.Release()
		}
	}
	e.components = nil
	e.lookup = [MaxComponentTypes]Component{}
	e.present = 0

	m.byIndex[e.id.Index()] = nil
	m.pool.Destroy(e.id)
}
