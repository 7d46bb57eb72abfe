package ecs

import (
	"reflect"
	"sync"

	"github.com/rotisserie/eris"
)

// Capacity limits. Every fixed-size table and bitset in this package is
// sized by these; they are not runtime-tunable.
const (
	MaxComponentTypes = 32
	MaxGroups         = 32
	MaxLayers         = 32
)

// ComponentTypeID is a dense index assigned once per component type, in
// first-use order starting at 0. Only meaningful inside the process.
type ComponentTypeID uint8

// TypeRegistry hands out ComponentTypeIDs. The zero value is not usable;
// construct with NewTypeRegistry.
type TypeRegistry struct {
	mu       sync.Mutex
	capacity int
	ids      map[reflect.Type]ComponentTypeID
	names    []string
}

// NewTypeRegistry creates a registry holding at most capacity types.
// capacity is clamped to MaxComponentTypes.
func NewTypeRegistry(capacity int) *TypeRegistry {
	if capacity <= 0 || capacity > MaxComponentTypes {
		capacity = MaxComponentTypes
	}
	return &TypeRegistry{
		capacity: capacity,
		ids:      make(map[reflect.Type]ComponentTypeID, capacity),
		names:    make([]string, 0, capacity),
	}
}

var defaultTypes = NewTypeRegistry(MaxComponentTypes)

// DefaultTypeRegistry is the process-wide registry used by managers that
// were not given one explicitly.
func DefaultTypeRegistry() *TypeRegistry { return defaultTypes }

// TypeID returns the process-wide id for T, allocating it on first use.
func TypeID[T Component]() (ComponentTypeID, error) {
	return TypeIDOf[T](defaultTypes)
}

// TypeIDOf returns the id for T in r, allocating it on first use.
// A failed allocation does not consume an id.
func TypeIDOf[T Component](r *TypeRegistry) (ComponentTypeID, error) {
	return r.register(reflect.TypeFor[T]())
}

// lookupTypeID reports the id for T without allocating one.
func lookupTypeID[T Component](r *TypeRegistry) (ComponentTypeID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.ids[reflect.TypeFor[T]()]
	return id, ok
}

func (r *TypeRegistry) register(t reflect.Type) (ComponentTypeID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.ids[t]; ok {
		return id, nil
	}
	if len(r.names) >= r.capacity {
		return 0, eris.Wrapf(ErrCapacityExceeded, "register component %s: %d types already registered", t, r.capacity)
	}
	id := ComponentTypeID(len(r.names))
	r.ids[t] = id
	r.names = append(r.names, t.String())
	return id, nil
}

// Len returns the number of registered types.
func (r *TypeRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.names)
}

// Name returns the Go type name registered under id, or "" if unassigned.
func (r *TypeRegistry) Name(id ComponentTypeID) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if int(id) >= len(r.names) {
		return ""
	}
	return r.names[id]
}

func typeName[T any]() string { return reflect.TypeFor[T]().String() }
