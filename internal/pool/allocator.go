package pool

import (
	"errors"

	"github.com/dlaa/dhcplite/internal/lease"
)

// ErrExhausted means the allocator scanned every address in the range
// and found none free.
var ErrExhausted = errors.New("pool: address range exhausted")

// Allocator hands out addresses from a Range by scanning a lease.Table
// forward with wraparound (spec.md §4.3). It holds no state of its own
// beyond the range — the "last offered" cursor it reads and advances
// lives on the Table, so an Allocator is cheap to construct per request.
type Allocator struct {
	Table *lease.Table
	Range Range
}

// New returns an Allocator over table bounded to rng.
func New(table *lease.Table, rng Range) *Allocator {
	return &Allocator{Table: table, Range: rng}
}

// Allocate scans forward from start, wrapping at Range.Max back to
// Range.Min, and returns the first address not already present in the
// table. It stops — reporting ErrExhausted — after checking every
// address in the range exactly once, which is equivalent to the
// revisit-the-start-candidate stopping rule spec.md §4.3 describes
// since the range is finite. On success it advances Table.LastOffered
// to the chosen address.
func (a *Allocator) Allocate(start uint32) (uint32, error) {
	candidate := a.Table.NextCandidate(start, a.Range.Min, a.Range.Max)
	for i := uint32(0); i < a.Range.Size(); i++ {
		if _, occupied := a.Table.ByAddrValue(candidate); !occupied {
			a.Table.LastOffered = candidate
			return candidate, nil
		}
		candidate = a.Table.NextCandidate(candidate+1, a.Range.Min, a.Range.Max)
	}
	return 0, ErrExhausted
}
