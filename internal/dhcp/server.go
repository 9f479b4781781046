package dhcp

import (
	"errors"
	"log/slog"
	"net"

	"github.com/dlaa/dhcplite/internal/metrics"
	"github.com/dlaa/dhcplite/pkg/dhcpv4"
)

// Server owns the transport, the processor, and — transitively, through
// the processor — the lease table for the lifetime of the process. It
// is deliberately single-threaded and blocking (spec.md §5): one read
// buffer, no goroutine per packet, no locking. This is a direct
// departure from the teacher's server.go, which spawns a goroutine per
// received datagram; that concurrency model has no home here because
// the spec requires the opposite (SPEC_FULL.md §6.6).
type Server struct {
	Transport Transport
	Processor *Processor
	Logger    *slog.Logger
	Metrics   *metrics.Metrics // optional; nil disables instrumentation
}

// Serve blocks, reading datagrams one at a time and replying as the
// processor directs, until the transport reports ErrTransportClosed —
// the signal handler's way of asking the loop to stop cleanly. Any
// other transport error is logged and the loop continues, mirroring the
// source's treatment of "interrupted" recv errors as retry-worthy.
func (s *Server) Serve() error {
	buf := make([]byte, dhcpv4.MaxReadSize)
	for {
		n, peer, err := s.Transport.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, ErrTransportClosed) {
				return nil
			}
			s.Logger.Error("transport read failed", "error", err)
			continue
		}
		s.handleDatagram(buf[:n], peer)
	}
}

func (s *Server) handleDatagram(data []byte, peer *net.UDPAddr) {
	req, err := DecodeMessage(data)
	if err != nil {
		s.Logger.Warn("malformed datagram", "peer", peer, "error", err)
		s.incDrop("malformed")
		return
	}

	reply, err := s.Processor.Process(req)
	if err != nil {
		s.logProcessError(req, peer, err)
		return
	}
	s.updateBindingsGauge()
	if reply == nil {
		// DECLINE/RELEASE/INFORM: accepted, nothing to send.
		return
	}

	dst := SelectDestination(req, reply)
	mt, _ := reply.MessageType()
	s.logReply(reply, mt, dst)
	s.incSent(mt)

	if err := s.Transport.WriteTo(reply.Encode(), &net.UDPAddr{IP: dst, Port: dhcpv4.ClientPort}); err != nil {
		s.Logger.Error("transport write failed", "destination", dst, "error", err)
	}
}

func (s *Server) logProcessError(req *Message, peer *net.UDPAddr, err error) {
	switch {
	case errors.Is(err, ErrSelfRequest):
		// Declines to lease to itself; not worth a log line per request.
		s.incDrop("self_request")
	case errors.Is(err, ErrUnsupportedType):
		s.Logger.Warn("unsupported message type", "peer", peer, "error", err)
		s.incDrop("unsupported_type")
	case errors.Is(err, ErrMalformed):
		s.Logger.Warn("malformed request", "peer", peer, "error", err)
		s.incDrop("malformed")
	default:
		s.Logger.Error("pool exhausted", "peer", peer, "xid", req.XID, "error", err)
		if s.Metrics != nil {
			s.Metrics.PoolExhaustedTotal.Inc()
		}
	}
}

func (s *Server) logReply(reply *Message, mt dhcpv4.MessageType, dst net.IP) {
	s.Logger.Info("reply",
		"type", mt.String(),
		"chaddr", reply.CHAddr.String(),
		"yiaddr", reply.YIAddr.String(),
		"destination", dst.String(),
	)
}

func (s *Server) incDrop(reason string) {
	if s.Metrics != nil {
		s.Metrics.DropsTotal.WithLabelValues(reason).Inc()
	}
}

// updateBindingsGauge reports the current number of client bindings,
// excluding the server's own sentinel entry (lease.Table always carries
// exactly one).
func (s *Server) updateBindingsGauge() {
	if s.Metrics == nil {
		return
	}
	s.Metrics.BindingsActive.Set(float64(s.Processor.Table.Count() - 1))
}

func (s *Server) incSent(mt dhcpv4.MessageType) {
	if s.Metrics == nil {
		return
	}
	switch mt {
	case dhcpv4.MessageTypeOffer:
		s.Metrics.OffersTotal.Inc()
	case dhcpv4.MessageTypeAck:
		s.Metrics.AcksTotal.Inc()
	case dhcpv4.MessageTypeNak:
		s.Metrics.NaksTotal.Inc()
	}
}
