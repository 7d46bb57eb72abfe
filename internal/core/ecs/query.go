package ecs

// EachInGroup calls fn for every entry of g's index that is still active
// and still a member, skipping entries that the next Refresh would evict.
func EachInGroup(m *Manager, g Group, fn func(*Entity)) error {
	index, err := m.Group(g)
	if err != nil {
		return err
	}
	for _, e := range index {
		if e.active && e.HasGroup(g) {
			fn(e)
		}
	}
	return nil
}

// EachInLayer is the layer counterpart of EachInGroup.
func EachInLayer(m *Manager, l Layer, fn func(*Entity)) error {
	index, err := m.Layer(l)
	if err != nil {
		return err
	}
	for _, e := range index {
		if e.active && e.HasLayer(l) {
			fn(e)
		}
	}
	return nil
}

// Each2 calls fn for every entity in entities that has both A and B,
// in slice order.
func Each2[A, B Component](entities []*Entity, fn func(*Entity, A, B)) {
	for _, e := range entities {
		a, ok := component[A](e)
		if !ok {
			continue
		}
		b, ok := component[B](e)
		if !ok {
			continue
		}
		fn(e, a, b)
	}
}

// Each3 calls fn for every entity in entities that has A, B and C.
func Each3[A, B, C Component](entities []*Entity, fn func(*Entity, A, B, C)) {
	for _, e := range entities {
		a, ok := component[A](e)
		if !ok {
			continue
		}
		b, ok := component[B](e)
		if !ok {
			continue
		}
		c, ok := component[C](e)
		if !ok {
			continue
		}
		fn(e, a, b, c)
	}
}
