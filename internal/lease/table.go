package lease

import "fmt"

// Table is the set of Bindings a server has handed out, indexed by
// address and by client identifier, plus the rotating cursor the
// allocator uses to pick up where the last offer left off.
//
// The source keeps this cursor as a function-local static; here it is
// an explicit field so a Table — and the server built on it — is
// self-contained and testable without touching global state
// (DESIGN.md, "Process-wide static allocation cursor").
type Table struct {
	byAddr   map[uint32]*Binding
	byClient map[string]*Binding

	LastOffered uint32
}

// NewTable creates an empty table with a sentinel binding reserving
// serverAddr against allocation (spec.md §3, "Initial contents contain
// exactly one sentinel entry for the server's own address").
func NewTable(serverAddr uint32) *Table {
	t := &Table{
		byAddr:   make(map[uint32]*Binding),
		byClient: make(map[string]*Binding),
	}
	sentinel := &Binding{AddrValue: serverAddr}
	t.byAddr[serverAddr] = sentinel
	return t
}

// ByClientID looks up a binding by client identifier.
func (t *Table) ByClientID(id []byte) (*Binding, bool) {
	b, ok := t.byClient[string(id)]
	return b, ok
}

// ByAddrValue reports whether addr is already claimed, by a client or
// by the server sentinel.
func (t *Table) ByAddrValue(addr uint32) (*Binding, bool) {
	b, ok := t.byAddr[addr]
	return b, ok
}

// Insert adds b to both indices. It fails if addr or client id already
// collide with an existing binding — the two invariants spec.md §3
// requires ("addr_value is unique across bindings", "client_id is
// unique across non-sentinel bindings").
func (t *Table) Insert(b *Binding) error {
	if _, exists := t.byAddr[b.AddrValue]; exists {
		return fmt.Errorf("lease: address %d already bound", b.AddrValue)
	}
	if !b.sentinel() {
		if _, exists := t.byClient[string(b.ClientID)]; exists {
			return fmt.Errorf("lease: client identifier already bound")
		}
	}
	t.byAddr[b.AddrValue] = b
	if !b.sentinel() {
		t.byClient[string(b.ClientID)] = b
	}
	return nil
}

// NextCandidate implements the table's half of the wraparound rule:
// start if it still fits within [min, max], else min. The scanning loop
// that repeatedly applies this to walk the whole range lives in the
// allocator (spec.md §4.2, "the table itself is policy-free").
func (t *Table) NextCandidate(start, min, max uint32) uint32 {
	if start <= max && start >= min {
		return start
	}
	return min
}

// Count returns the number of bindings, including the server sentinel.
func (t *Table) Count() int {
	return len(t.byAddr)
}
