package ecs

import "math/bits"

// Bits32 is a fixed 32-slot bitset used for component presence and
// group/layer membership. Out-of-range slots are never set.
type Bits32 uint32

func (b *Bits32) Set(i uint) {
	if i < 32 {
		*b |= 1 << i
	}
}

func (b *Bits32) Clear(i uint) {
	if i < 32 {
		*b &^= 1 << i
	}
}

func (b Bits32) Has(i uint) bool {
	return i < 32 && b&(1<<i) != 0
}

// Count returns the number of set slots.
func (b Bits32) Count() int { return bits.OnesCount32(uint32(b)) }

// Each calls fn for every set slot in ascending order.
func (b Bits32) Each(fn func(i uint)) {
	for v := uint32(b); v != 0; v &= v - 1 {
		fn(uint(bits.TrailingZeros32(v)))
	}
}
