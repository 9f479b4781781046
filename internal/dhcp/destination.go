package dhcp

import (
	"net"

	"github.com/dlaa/dhcplite/pkg/dhcpv4"
)

// SelectDestination implements RFC 2131 §4.1's destination-selection
// rule (spec.md §4.5). It may set the BROADCAST bit on reply.Flags (the
// relay path) as a side effect; the UDP port is always ClientPort,
// decided by the caller, never by this function.
func SelectDestination(req, reply *Message) net.IP {
	if !IsZero(req.GIAddr) {
		reply.Flags |= BroadcastFlag
		return req.GIAddr
	}

	if mt, ok := reply.MessageType(); ok && mt == dhcpv4.MessageTypeNak {
		return dhcpv4.BroadcastIP
	}

	// OFFER or ACK.
	if !IsZero(req.CIAddr) {
		return req.CIAddr
	}
	if req.IsBroadcast() {
		return dhcpv4.BroadcastIP
	}
	// A true unicast to the client's hardware address at yiaddr is out
	// of scope (no raw L2 socket); broadcast instead and rely on the
	// client filtering by xid and chaddr.
	return dhcpv4.BroadcastIP
}
