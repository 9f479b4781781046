package dhcp

import (
	"net"
	"testing"

	"github.com/dlaa/dhcplite/pkg/dhcpv4"
)

func replyWithType(mt dhcpv4.MessageType) *Message {
	return &Message{Options: Options{dhcpv4.OptionDHCPMessageType: {byte(mt)}}}
}

func TestSelectDestinationRelay(t *testing.T) {
	req := &Message{GIAddr: net.IPv4(10, 0, 0, 1), Flags: 0}
	reply := replyWithType(dhcpv4.MessageTypeOffer)

	dst := SelectDestination(req, reply)
	if !dst.Equal(net.IPv4(10, 0, 0, 1)) {
		t.Errorf("destination = %s, want 10.0.0.1", dst)
	}
	if reply.Flags&BroadcastFlag == 0 {
		t.Error("expected BROADCAST flag to be set on relay path")
	}
}

func TestSelectDestinationNakAlwaysBroadcasts(t *testing.T) {
	req := &Message{GIAddr: net.IPv4zero, CIAddr: net.IPv4(192, 168, 1, 2)}
	reply := replyWithType(dhcpv4.MessageTypeNak)

	dst := SelectDestination(req, reply)
	if !dst.Equal(dhcpv4.BroadcastIP) {
		t.Errorf("NAK destination = %s, want broadcast", dst)
	}
}

func TestSelectDestinationUnicastToCiaddr(t *testing.T) {
	req := &Message{GIAddr: net.IPv4zero, CIAddr: net.IPv4(192, 168, 1, 2)}
	reply := replyWithType(dhcpv4.MessageTypeAck)

	dst := SelectDestination(req, reply)
	if !dst.Equal(net.IPv4(192, 168, 1, 2)) {
		t.Errorf("destination = %s, want 192.168.1.2", dst)
	}
}

func TestSelectDestinationBroadcastFlagSet(t *testing.T) {
	req := &Message{GIAddr: net.IPv4zero, CIAddr: net.IPv4zero, Flags: BroadcastFlag}
	reply := replyWithType(dhcpv4.MessageTypeOffer)

	dst := SelectDestination(req, reply)
	if !dst.Equal(dhcpv4.BroadcastIP) {
		t.Errorf("destination = %s, want broadcast", dst)
	}
}

func TestSelectDestinationFallsBackToBroadcast(t *testing.T) {
	req := &Message{GIAddr: net.IPv4zero, CIAddr: net.IPv4zero, Flags: 0}
	reply := replyWithType(dhcpv4.MessageTypeOffer)

	dst := SelectDestination(req, reply)
	if !dst.Equal(dhcpv4.BroadcastIP) {
		t.Errorf("destination = %s, want broadcast (no raw L2 unicast)", dst)
	}
}
