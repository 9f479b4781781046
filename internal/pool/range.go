// Package pool computes the single address range a server hands out
// from its own host address and subnet mask, and allocates from it by
// scanning a lease.Table forward with wraparound.
package pool

import (
	"fmt"

	"github.com/dlaa/dhcplite/pkg/dhcpv4"
)

// Range is the inclusive [Min, Max] set of host-order addresses the
// allocator may offer.
type Range struct {
	Min, Max uint32
}

// NewRange derives the pool's bounds from the server's own address and
// subnet mask (spec.md §3): min skips the network address and .1 (the
// conventional default-router address), max skips the broadcast
// address. Construction fails if the derived min exceeds max — for
// instance 192.168.1.1/31, which yields min .2 and max .0.
func NewRange(addr, mask uint32) (Range, error) {
	min := (addr & mask) | 2
	max := (addr & mask) | ^(mask | 1)
	if min > max {
		return Range{}, fmt.Errorf("pool: empty address range for addr=%s mask=%s", dhcpv4.Uint32ToIP(addr), dhcpv4.Uint32ToIP(mask))
	}
	return Range{Min: min, Max: max}, nil
}

// Contains reports whether v lies within the range, inclusive.
func (r Range) Contains(v uint32) bool {
	return v >= r.Min && v <= r.Max
}

// Size returns the number of addresses in the range.
func (r Range) Size() uint32 {
	return r.Max - r.Min + 1
}
