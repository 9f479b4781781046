package dhcp

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dlaa/dhcplite/internal/lease"
	"github.com/dlaa/dhcplite/internal/pool"
	"github.com/dlaa/dhcplite/pkg/dhcpv4"
)

// Identity is the server's own address, mask, and hostname — the
// (addr, mask, hostname) triple spec.md §4.4 passes into the processor.
type Identity struct {
	Addr     uint32 // host-order
	Mask     uint32 // host-order
	Hostname string
}

// Processor is the RFC 2131 §4.3 request-processing state machine.
// It is a pure function of (request, mutable table) — all I/O happens
// in the caller (the server loop), which is what makes it testable
// without a socket (DESIGN.md, "Control flow via ambient booleans").
type Processor struct {
	Table     *lease.Table
	Allocator *pool.Allocator
	Identity  Identity
	Logger    *slog.Logger
}

// Process consumes one parsed request and returns either a reply to
// send or a nil reply. A non-nil error always means "drop silently,
// caller decides how to log it"; a nil reply with a nil error means
// "accept, no reply, no log" (DECLINE/RELEASE/INFORM).
func (p *Processor) Process(req *Message) (*Message, error) {
	if req.Op != dhcpv4.OpCodeBootRequest {
		return nil, fmt.Errorf("%w: op %d, want BOOTREQUEST", ErrMalformed, req.Op)
	}

	mt, ok := req.MessageType()
	if !ok || !mt.Valid() {
		return nil, fmt.Errorf("%w: missing or invalid message type", ErrMalformed)
	}

	if h := req.Hostname(); h != "" && strings.EqualFold(h, p.Identity.Hostname) {
		return nil, ErrSelfRequest
	}

	switch mt {
	case dhcpv4.MessageTypeOffer, dhcpv4.MessageTypeAck, dhcpv4.MessageTypeNak:
		return nil, fmt.Errorf("%w: %s received from a client", ErrUnsupportedType, mt)
	case dhcpv4.MessageTypeDecline, dhcpv4.MessageTypeRelease, dhcpv4.MessageTypeInform:
		// Explicit non-goals: accepted silently, no state change, no reply.
		return nil, nil
	}

	clientID := req.ClientIdentifier()
	binding, seenBefore := p.Table.ByClientID(clientID)

	reply := NewReply(req, p.Identity.Hostname)
	reply.Options.Set(dhcpv4.OptionServerIdentifier, dhcpv4.Uint32ToBytes(p.Identity.Addr))
	reply.Options.Set(dhcpv4.OptionIPLeaseTime, dhcpv4.Uint32ToBytes(dhcpv4.LeaseSeconds))
	reply.Options.Set(dhcpv4.OptionSubnetMask, dhcpv4.Uint32ToBytes(p.Identity.Mask))

	switch mt {
	case dhcpv4.MessageTypeDiscover:
		return p.handleDiscover(req, reply, clientID, binding, seenBefore)
	case dhcpv4.MessageTypeRequest:
		return p.handleRequest(reply, req, binding, seenBefore)
	default:
		// Already filtered to 1..8 above, and every named case is
		// handled; this is unreachable.
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mt)
	}
}

func (p *Processor) handleDiscover(req, reply *Message, clientID []byte, binding *lease.Binding, seenBefore bool) (*Message, error) {
	var addr uint32
	if seenBefore {
		addr = binding.AddrValue
	} else {
		allocated, err := p.Allocator.Allocate(p.Table.LastOffered + 1)
		if err != nil {
			return nil, fmt.Errorf("dhcp: %w", err)
		}
		addr = allocated
		newBinding := &lease.Binding{
			AddrValue: addr,
			ClientID:  append([]byte(nil), clientID...),
			Hostname:  req.Hostname(),
		}
		if err := p.Table.Insert(newBinding); err != nil {
			// The allocator only returns free addresses; a collision
			// here would mean the table and allocator disagree.
			return nil, fmt.Errorf("dhcp: %w", err)
		}
	}

	reply.YIAddr = dhcpv4.Uint32ToIP(addr)
	reply.Options.Set(dhcpv4.OptionDHCPMessageType, []byte{byte(dhcpv4.MessageTypeOffer)})
	return reply, nil
}

// handleRequest implements spec.md §4.4 branch 2 exactly as specified
// in prose, not by transliterating the source's REQUEST-validation
// predicate — that predicate has a tautological clause the source
// itself calls a likely refactor bug (spec.md §9, open question).
func (p *Processor) handleRequest(reply, req *Message, binding *lease.Binding, seenBefore bool) (*Message, error) {
	requestedAddr, hasRequestedIP := requestedIPValue(req)
	serverID, hasServerID := serverIdentifierValue(req)
	selecting := hasServerID && serverID == p.Identity.Addr

	ciaddr := dhcpv4.IPToUint32(req.CIAddr)
	ciaddrNonZero := !IsZero(req.CIAddr)

	ack := false
	switch {
	case selecting:
		// ciaddr should be zero in selecting state; the source treats
		// this as assert-only and continues regardless.
		ack = seenBefore
	default:
		// Init-reboot (RequestedIP present, tolerating non-zero ciaddr)
		// or renewing/rebinding (RequestedIP absent, ciaddr non-zero).
		validShape := hasRequestedIP || ciaddrNonZero
		if !validShape {
			return nil, fmt.Errorf("%w: REQUEST has neither RequestedIP nor ciaddr", ErrMalformed)
		}
		if seenBefore && (binding.AddrValue == requestedAddr || binding.AddrValue == ciaddr) {
			ack = true
		}
	}

	if ack {
		addr := dhcpv4.Uint32ToIP(binding.AddrValue)
		reply.CIAddr = addr
		reply.YIAddr = addr
		reply.Options.Set(dhcpv4.OptionDHCPMessageType, []byte{byte(dhcpv4.MessageTypeAck)})
		return reply, nil
	}

	// Lease time and subnet mask are meaningless in a NAK.
	reply.Options.Delete(dhcpv4.OptionIPLeaseTime)
	reply.Options.Delete(dhcpv4.OptionSubnetMask)
	reply.Options.Set(dhcpv4.OptionDHCPMessageType, []byte{byte(dhcpv4.MessageTypeNak)})
	return reply, nil
}

func requestedIPValue(req *Message) (uint32, bool) {
	v, ok := req.Options.Get(dhcpv4.OptionRequestedIP)
	if !ok || len(v) != 4 {
		return 0, false
	}
	value, err := dhcpv4.BytesToUint32(v)
	if err != nil {
		return 0, false
	}
	return value, true
}

func serverIdentifierValue(req *Message) (uint32, bool) {
	v, ok := req.Options.Get(dhcpv4.OptionServerIdentifier)
	if !ok || len(v) != 4 {
		return 0, false
	}
	value, err := dhcpv4.BytesToUint32(v)
	if err != nil {
		return 0, false
	}
	return value, true
}
