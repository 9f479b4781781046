// Package hostaddr is the "host addressing provider" external
// collaborator spec.md §6 describes: it finds the server's own IPv4
// address and subnet mask so the core can derive its address range
// without ever touching the OS directly.
package hostaddr

import (
	"context"
	"fmt"
	"net"
)

// Provider returns the local, non-loopback IPv4 address and mask the
// server should bind and serve from.
type Provider interface {
	HostAddress(ctx context.Context) (addr net.IP, mask net.IPMask, err error)
}

// ErrAmbiguousAddressing is returned when the host does not carry
// exactly one loopback address plus exactly one other non-zero address
// — the configuration spec.md §6 requires ("routing is bypassed and no
// other DHCP server is present" assumes a single simple interface).
var ErrAmbiguousAddressing = fmt.Errorf("hostaddr: expected exactly one loopback address and one other address")
