package hostaddr

import (
	"context"
	"net"
)

// StaticProvider returns a fixed address and mask. It exists for tests
// and for any future deployment that wants to skip interface discovery;
// the server itself always goes through the Provider interface.
type StaticProvider struct {
	Addr net.IP
	Mask net.IPMask
}

// HostAddress implements Provider.
func (p StaticProvider) HostAddress(ctx context.Context) (net.IP, net.IPMask, error) {
	return p.Addr, p.Mask, nil
}
