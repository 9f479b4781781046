package hostaddr

import (
	"context"
	"fmt"
	"net"

	"github.com/vishvananda/netlink"
)

// NetlinkProvider enumerates every IPv4 address configured on the host
// via rtnetlink, grounded on the link/address handling in
// vishvananda/netlink (the pattern irai-packet uses for interface
// configuration). It mirrors the validation the Windows source performs
// against GetIpAddrTable: exactly one loopback entry, exactly one other
// non-zero entry, or initialization fails.
type NetlinkProvider struct{}

// HostAddress implements Provider.
func (NetlinkProvider) HostAddress(ctx context.Context) (net.IP, net.IPMask, error) {
	addrs, err := netlink.AddrList(nil, netlink.FAMILY_V4)
	if err != nil {
		return nil, nil, fmt.Errorf("hostaddr: listing addresses: %w", err)
	}

	var loopback int
	var other *netlink.Addr
	var otherCount int
	for i := range addrs {
		a := addrs[i]
		if a.IP.IsLoopback() {
			loopback++
			continue
		}
		otherCount++
		other = &a
	}

	if loopback != 1 || otherCount != 1 {
		return nil, nil, fmt.Errorf("%w: found %d loopback, %d other", ErrAmbiguousAddressing, loopback, otherCount)
	}
	if other.IP.Equal(net.IPv4zero) {
		return nil, nil, fmt.Errorf("hostaddr: address is 0.0.0.0, no network available")
	}

	ip := other.IP.To4()
	if ip == nil {
		return nil, nil, fmt.Errorf("hostaddr: address %s is not IPv4", other.IP)
	}
	return ip, other.Mask, nil
}
