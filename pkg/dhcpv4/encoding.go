package dhcpv4

import (
	"encoding/binary"
	"fmt"
	"net"
)

// IPToBytes converts a net.IP to its 4-byte network-order form.
func IPToBytes(ip net.IP) []byte {
	ip4 := ip.To4()
	if ip4 == nil {
		return []byte{0, 0, 0, 0}
	}
	return []byte(ip4)
}

// BytesToIP converts a 4-byte network-order slice to a net.IP.
func BytesToIP(b []byte) (net.IP, error) {
	if len(b) != 4 {
		return nil, fmt.Errorf("invalid IPv4 length %d: expected 4", len(b))
	}
	return net.IPv4(b[0], b[1], b[2], b[3]), nil
}

// Uint32ToBytes converts a uint32 to 4 bytes, network byte order.
func Uint32ToBytes(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

// BytesToUint32 converts 4 network-order bytes to a uint32.
func BytesToUint32(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("invalid uint32 length %d: expected 4", len(b))
	}
	return binary.BigEndian.Uint32(b), nil
}

// BytesToUint8 narrows a one-byte option value.
func BytesToUint8(b []byte) (byte, error) {
	if len(b) != 1 {
		return 0, fmt.Errorf("invalid uint8 length %d: expected 1", len(b))
	}
	return b[0], nil
}

// IPToUint32 converts an IPv4 address to its host-order numeric form.
// Range arithmetic and lease-table lookups keep addresses in this form;
// conversion to and from network order happens only at the wire boundary
// (see SPEC_FULL.md §5, "Endianness").
func IPToUint32(ip net.IP) uint32 {
	ip4 := ip.To4()
	if ip4 == nil {
		return 0
	}
	return binary.BigEndian.Uint32(ip4)
}

// Uint32ToIP converts a host-order numeric address back to a net.IP.
func Uint32ToIP(v uint32) net.IP {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return net.IPv4(b[0], b[1], b[2], b[3])
}
