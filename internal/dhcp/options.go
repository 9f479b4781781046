package dhcp

import (
	"fmt"
	"sort"

	"github.com/dlaa/dhcplite/pkg/dhcpv4"
)

// Options is a decoded DHCP option set: tag to raw value bytes.
type Options map[dhcpv4.OptionCode][]byte

// DecodeOptions walks the TLV option region of a datagram (RFC 2132
// §3). PAD (0) is skipped; END (255) stops the walk and any trailing
// bytes are ignored, matching the source's tolerant behavior. A
// duplicate tag overwrites the earlier value — last write wins, which a
// plain map gives for free. A length byte that would run past the end
// of data is ErrMalformed.
func DecodeOptions(data []byte) (Options, error) {
	opts := make(Options)
	i := 0
	for i < len(data) {
		code := dhcpv4.OptionCode(data[i])
		i++

		if code == dhcpv4.OptionPad {
			continue
		}
		if code == dhcpv4.OptionEnd {
			break
		}

		if i >= len(data) {
			return nil, fmt.Errorf("%w: option %d truncated, no length byte", ErrMalformed, code)
		}
		length := int(data[i])
		i++

		if i+length > len(data) {
			return nil, fmt.Errorf("%w: option %d needs %d bytes, have %d", ErrMalformed, code, length, len(data)-i)
		}
		value := make([]byte, length)
		copy(value, data[i:i+length])
		opts[code] = value
		i += length
	}
	return opts, nil
}

// Encode serializes the option set as tag/len/value triples followed by
// END. Tags are emitted in ascending order so that two calls on equal
// option sets always produce identical bytes — spec.md §4.1's
// recommended deterministic order, unlike a bare map-iteration encode.
func (opts Options) Encode() []byte {
	codes := make([]dhcpv4.OptionCode, 0, len(opts))
	for code := range opts {
		if code == dhcpv4.OptionPad || code == dhcpv4.OptionEnd {
			continue
		}
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	size := 1
	for _, code := range codes {
		size += 2 + len(opts[code])
	}

	buf := make([]byte, 0, size)
	for _, code := range codes {
		v := opts[code]
		buf = append(buf, byte(code), byte(len(v)))
		buf = append(buf, v...)
	}
	buf = append(buf, byte(dhcpv4.OptionEnd))
	return buf
}

// Get returns the raw value for code and whether it is present.
func (opts Options) Get(code dhcpv4.OptionCode) ([]byte, bool) {
	v, ok := opts[code]
	return v, ok
}

// Set stores a raw option value.
func (opts Options) Set(code dhcpv4.OptionCode, value []byte) {
	opts[code] = value
}

// Uint8 narrows option code to a single byte. Requesting a fixed-width
// value from an option of the wrong width is an explicit error, never a
// silent zero (DESIGN.md, "Untagged option reinterpret-cast").
func (opts Options) Uint8(code dhcpv4.OptionCode) (byte, error) {
	v, ok := opts[code]
	if !ok {
		return 0, fmt.Errorf("option %d absent", code)
	}
	return dhcpv4.BytesToUint8(v)
}

// Uint16 narrows option code to a network-order uint16.
func (opts Options) Uint16(code dhcpv4.OptionCode) (uint16, error) {
	v, ok := opts[code]
	if !ok {
		return 0, fmt.Errorf("option %d absent", code)
	}
	if len(v) != 2 {
		return 0, fmt.Errorf("invalid uint16 length %d: expected 2", len(v))
	}
	return uint16(v[0])<<8 | uint16(v[1]), nil
}

// Uint32 narrows option code to a network-order uint32.
func (opts Options) Uint32(code dhcpv4.OptionCode) (uint32, error) {
	v, ok := opts[code]
	if !ok {
		return 0, fmt.Errorf("option %d absent", code)
	}
	return dhcpv4.BytesToUint32(v)
}

// IP narrows option code to a 4-byte IPv4 address.
func (opts Options) IP(code dhcpv4.OptionCode) (value [4]byte, err error) {
	v, ok := opts[code]
	if !ok {
		return value, fmt.Errorf("option %d absent", code)
	}
	if len(v) != 4 {
		return value, fmt.Errorf("option %d has length %d, want 4", code, len(v))
	}
	copy(value[:], v)
	return value, nil
}

// Delete removes an option.
func (opts Options) Delete(code dhcpv4.OptionCode) {
	delete(opts, code)
}
