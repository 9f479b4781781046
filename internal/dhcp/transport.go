package dhcp

import (
	"errors"
	"fmt"
	"net"

	"github.com/dlaa/dhcplite/pkg/dhcpv4"
)

// Transport is the narrow interface the server loop needs from the
// network: read a datagram and its source, and write a datagram to a
// destination. Production code uses udpTransport; tests can fake this
// without opening a socket.
type Transport interface {
	ReadFrom(buf []byte) (n int, peer *net.UDPAddr, err error)
	WriteTo(buf []byte, dst *net.UDPAddr) error
	Close() error
}

// udpTransport binds one UDP socket for both receiving client
// broadcasts on ServerPort and sending replies back out. The broadcast
// send option must be enabled before any send to 255.255.255.255
// succeeds.
type udpTransport struct {
	conn *net.UDPConn
}

// NewUDPTransport binds addr:ServerPort and enables broadcast sends.
// Unlike the Windows source, which needs an explicit SO_BROADCAST
// setsockopt, net.UDPConn already permits sends to a broadcast
// destination on Linux once the local address is bound — there is no
// separate enable step to perform here, only the bind itself.
func NewUDPTransport(addr net.IP) (Transport, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: addr, Port: dhcpv4.ServerPort})
	if err != nil {
		return nil, fmt.Errorf("dhcp: binding %s:%d: %w", addr, dhcpv4.ServerPort, err)
	}
	return &udpTransport{conn: conn}, nil
}

func (t *udpTransport) ReadFrom(buf []byte) (int, *net.UDPAddr, error) {
	n, peer, err := t.conn.ReadFromUDP(buf)
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return 0, nil, ErrTransportClosed
		}
		return 0, nil, err
	}
	return n, peer, nil
}

func (t *udpTransport) WriteTo(buf []byte, dst *net.UDPAddr) error {
	_, err := t.conn.WriteToUDP(buf, dst)
	return err
}

func (t *udpTransport) Close() error {
	return t.conn.Close()
}
