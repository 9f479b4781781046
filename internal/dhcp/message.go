// Package dhcp implements the DHCPv4 wire codec, the RFC 2131 §4.3
// request-processing state machine, destination selection, and the
// server loop that ties them to a transport.
package dhcp

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/dlaa/dhcplite/pkg/dhcpv4"
)

// fixedHeaderLen is the size of the DHCP fixed header, not counting the
// 4-byte magic cookie that follows it (RFC 2131 §2).
const fixedHeaderLen = 236

// Message is a decoded DHCPv4 packet. Ciaddr/Yiaddr/Siaddr/Giaddr are
// always held as 4-byte net.IP values in network order, matching the
// wire; Options keys are host-order numeric tags with raw value bytes —
// only Ciaddr/Yiaddr/Siaddr/Giaddr carry network-order bytes at rest,
// everything else that touches address arithmetic (the lease table, the
// allocator) works in host-order uint32 and converts at this boundary.
type Message struct {
	Op     dhcpv4.OpCode
	HType  byte
	HLen   byte
	Hops   byte
	XID    uint32
	Secs   uint16
	Flags  uint16
	CIAddr net.IP
	YIAddr net.IP
	SIAddr net.IP
	GIAddr net.IP
	CHAddr net.HardwareAddr
	SName  [64]byte
	File   [128]byte

	Options Options
}

// BroadcastFlag is bit 15 of the flags field (RFC 2131 §2).
const BroadcastFlag uint16 = 0x8000

// DecodeMessage parses a raw datagram into a Message. It fails with
// ErrMalformed if the buffer is shorter than the fixed header plus
// magic cookie, if the cookie doesn't match, or if the option region is
// truncated.
func DecodeMessage(data []byte) (*Message, error) {
	if len(data) < fixedHeaderLen+4 {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrMalformed, len(data), fixedHeaderLen+4)
	}

	m := &Message{
		Op:    dhcpv4.OpCode(data[0]),
		HType: data[1],
		HLen:  data[2],
		Hops:  data[3],
		XID:   binary.BigEndian.Uint32(data[4:8]),
		Secs:  binary.BigEndian.Uint16(data[8:10]),
		Flags: binary.BigEndian.Uint16(data[10:12]),
	}
	m.CIAddr = net.IP(append([]byte(nil), data[12:16]...))
	m.YIAddr = net.IP(append([]byte(nil), data[16:20]...))
	m.SIAddr = net.IP(append([]byte(nil), data[20:24]...))
	m.GIAddr = net.IP(append([]byte(nil), data[24:28]...))

	hlen := m.HLen
	if hlen > 16 {
		hlen = 16
	}
	chaddr := make([]byte, hlen)
	copy(chaddr, data[28:28+int(hlen)])
	m.CHAddr = chaddr

	copy(m.SName[:], data[44:108])
	copy(m.File[:], data[108:236])

	cookie := data[236:240]
	if cookie[0] != dhcpv4.MagicCookie[0] || cookie[1] != dhcpv4.MagicCookie[1] ||
		cookie[2] != dhcpv4.MagicCookie[2] || cookie[3] != dhcpv4.MagicCookie[3] {
		return nil, fmt.Errorf("%w: bad magic cookie %v", ErrMalformed, cookie)
	}

	opts, err := DecodeOptions(data[240:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	m.Options = opts

	return m, nil
}

// Encode serializes m back to wire bytes, padding the result up to
// dhcpv4.MinPacketSize if the natural length is shorter.
func (m *Message) Encode() []byte {
	optBytes := m.Options.Encode()
	total := fixedHeaderLen + 4 + len(optBytes)
	if total < dhcpv4.MinPacketSize {
		total = dhcpv4.MinPacketSize
	}

	buf := make([]byte, total)
	buf[0] = byte(m.Op)
	buf[1] = m.HType
	buf[2] = m.HLen
	buf[3] = m.Hops
	binary.BigEndian.PutUint32(buf[4:8], m.XID)
	binary.BigEndian.PutUint16(buf[8:10], m.Secs)
	binary.BigEndian.PutUint16(buf[10:12], m.Flags)
	copy(buf[12:16], to4(m.CIAddr))
	copy(buf[16:20], to4(m.YIAddr))
	copy(buf[20:24], to4(m.SIAddr))
	copy(buf[24:28], to4(m.GIAddr))
	copy(buf[28:44], m.CHAddr)
	copy(buf[44:108], m.SName[:])
	copy(buf[108:236], m.File[:])
	buf[236] = dhcpv4.MagicCookie[0]
	buf[237] = dhcpv4.MagicCookie[1]
	buf[238] = dhcpv4.MagicCookie[2]
	buf[239] = dhcpv4.MagicCookie[3]
	copy(buf[240:], optBytes)

	return buf
}

func to4(ip net.IP) []byte {
	if ip == nil {
		return []byte{0, 0, 0, 0}
	}
	if v4 := ip.To4(); v4 != nil {
		return v4
	}
	return []byte{0, 0, 0, 0}
}

// MessageType returns the DHCP message type from option 53, and false
// if the option is absent or not exactly one byte.
func (m *Message) MessageType() (dhcpv4.MessageType, bool) {
	b, ok := m.Options[dhcpv4.OptionDHCPMessageType]
	if !ok || len(b) != 1 {
		return 0, false
	}
	return dhcpv4.MessageType(b[0]), true
}

// ClientIdentifier returns the RFC 2131-prescribed client identifier:
// option 61 if present and non-empty, else the full chaddr.
func (m *Message) ClientIdentifier() []byte {
	if id, ok := m.Options[dhcpv4.OptionClientIdentifier]; ok && len(id) > 0 {
		return id
	}
	return []byte(m.CHAddr)
}

// Hostname returns option 12 as a string, or "" if absent.
func (m *Message) Hostname() string {
	if b, ok := m.Options[dhcpv4.OptionHostname]; ok {
		return string(b)
	}
	return ""
}

// IsBroadcast reports whether the BROADCAST bit is set in flags.
func (m *Message) IsBroadcast() bool {
	return m.Flags&BroadcastFlag != 0
}

// IsZero reports whether ip is nil or the all-zeros address.
func IsZero(ip net.IP) bool {
	return ip == nil || ip.Equal(net.IPv4zero)
}

// NewReply builds the BOOTREPLY skeleton spec.md §4.4 describes: echoed
// htype/hlen/xid/flags/giaddr/chaddr, zeroed ciaddr/yiaddr/siaddr, and no
// message-type option yet — the caller's branch is responsible for
// setting option 53 before the message is sent. siaddr stays zero per
// spec.md §3 ("next-server; zero"); the server's own address goes only
// into option 54, never into siaddr.
func NewReply(req *Message, serverName string) *Message {
	reply := &Message{
		Op:      dhcpv4.OpCodeBootReply,
		HType:   req.HType,
		HLen:    req.HLen,
		Hops:    0,
		XID:     req.XID,
		Secs:    0,
		Flags:   req.Flags,
		CIAddr:  net.IPv4zero,
		YIAddr:  net.IPv4zero,
		SIAddr:  net.IPv4zero,
		GIAddr:  req.GIAddr,
		CHAddr:  append(net.HardwareAddr(nil), req.CHAddr...),
		Options: make(Options),
	}
	copy(reply.SName[:], []byte(serverName))
	return reply
}
