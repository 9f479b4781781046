package dhcp

import (
	"log/slog"
	"net"
	"sync"
	"testing"

	"github.com/dlaa/dhcplite/internal/lease"
	"github.com/dlaa/dhcplite/internal/metrics"
	"github.com/dlaa/dhcplite/internal/pool"
	"github.com/dlaa/dhcplite/pkg/dhcpv4"
)

// fakeTransport lets the server loop be driven without a real socket —
// the same role the teacher's tests give a fake net.PacketConn.
type fakeTransport struct {
	mu      sync.Mutex
	inbox   [][]byte
	sent    []sentDatagram
	closed  bool
}

type sentDatagram struct {
	data []byte
	dst  *net.UDPAddr
}

func (f *fakeTransport) ReadFrom(buf []byte) (int, *net.UDPAddr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.inbox) == 0 {
		return 0, nil, ErrTransportClosed
	}
	next := f.inbox[0]
	f.inbox = f.inbox[1:]
	n := copy(buf, next)
	return n, &net.UDPAddr{IP: net.IPv4(192, 168, 1, 50), Port: dhcpv4.ClientPort}, nil
}

func (f *fakeTransport) WriteTo(buf []byte, dst *net.UDPAddr) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentDatagram{data: append([]byte(nil), buf...), dst: dst})
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func newTestServer(t *testing.T, transport *fakeTransport) *Server {
	t.Helper()
	addr := dhcpv4.IPToUint32(net.IPv4(192, 168, 1, 10))
	mask := dhcpv4.IPToUint32(net.IPv4(255, 255, 255, 0))
	rng, err := pool.NewRange(addr, mask)
	if err != nil {
		t.Fatalf("NewRange: %v", err)
	}
	table := lease.NewTable(addr)

	return &Server{
		Transport: transport,
		Processor: &Processor{
			Table:     table,
			Allocator: pool.New(table, rng),
			Identity:  Identity{Addr: addr, Mask: mask, Hostname: "dhcplite-test-server"},
			Logger:    slog.New(slog.NewTextHandler(discardWriter{}, nil)),
		},
		Logger:  slog.New(slog.NewTextHandler(discardWriter{}, nil)),
		Metrics: metrics.New(),
	}
}

func TestServeRepliesToDiscoverThenStopsOnClose(t *testing.T) {
	mac, _ := net.ParseMAC("aa:bb:cc:dd:ee:01")
	req := &Message{
		Op:      dhcpv4.OpCodeBootRequest,
		HType:   1,
		HLen:    6,
		CHAddr:  mac,
		CIAddr:  net.IPv4zero,
		GIAddr:  net.IPv4zero,
		Options: Options{dhcpv4.OptionDHCPMessageType: {byte(dhcpv4.MessageTypeDiscover)}},
	}

	transport := &fakeTransport{inbox: [][]byte{req.Encode()}}
	server := newTestServer(t, transport)

	if err := server.Serve(); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	transport.mu.Lock()
	defer transport.mu.Unlock()
	if len(transport.sent) != 1 {
		t.Fatalf("sent %d datagrams, want 1", len(transport.sent))
	}
	reply, err := DecodeMessage(transport.sent[0].data)
	if err != nil {
		t.Fatalf("DecodeMessage(sent): %v", err)
	}
	mt, _ := reply.MessageType()
	if mt != dhcpv4.MessageTypeOffer {
		t.Errorf("message type = %v, want OFFER", mt)
	}
	if transport.sent[0].dst.IP.String() != "255.255.255.255" {
		t.Errorf("destination = %s, want broadcast", transport.sent[0].dst.IP)
	}
}

func TestServeDropsMalformedDatagramAndContinues(t *testing.T) {
	transport := &fakeTransport{inbox: [][]byte{{0x01, 0x02, 0x03}}}
	server := newTestServer(t, transport)

	if err := server.Serve(); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	transport.mu.Lock()
	defer transport.mu.Unlock()
	if len(transport.sent) != 0 {
		t.Errorf("sent %d datagrams, want 0 for a malformed read", len(transport.sent))
	}
}
