package dhcp

import "errors"

// Sentinel errors the processor and server loop distinguish. Each has a
// fixed logging/drop policy; see SPEC_FULL.md §9.
var (
	// ErrMalformed means the datagram is not a valid DHCP request: bad
	// size, missing cookie, truncated options, or a missing/invalid
	// message type. Never answered — a NAK requires a valid request.
	ErrMalformed = errors.New("dhcp: malformed message")

	// ErrUnsupportedType means the message type is client-bound
	// (OFFER/ACK/NAK) or outside 1..8.
	ErrUnsupportedType = errors.New("dhcp: unsupported message type")

	// ErrSelfRequest means option 12 named this server's own hostname.
	ErrSelfRequest = errors.New("dhcp: request from self")

	// ErrTransportClosed is the sentinel the transport returns once its
	// socket has been closed by the signal handler; the server loop
	// treats it as a clean stop, not a failure.
	ErrTransportClosed = errors.New("dhcp: transport closed")
)
