package hopwire

import (
	"net"
	"strconv"
)

func portString(p uint16) string { return strconv.Itoa(int(p)) }

// Addr is a plain value record: no back-pointers to the ProxyStep that
// produced it.
type Addr struct {
	Host string
	Port uint16
}

func (a Addr) String() string {
	if a.Host == "" {
		return ""
	}

	return net.JoinHostPort(a.Host, portString(a.Port))
}

// TunnelSocket wraps an open TCP connection that has completed every hop's
// handshake. It exclusively owns the underlying net.Conn; after Close it
// must not be used again.
type TunnelSocket struct {
	net.Conn
	bound Addr
	peer  Addr
	proxy Addr
}

// BoundAddress returns the address/port the last proxy reported it bound on
// our behalf. It is the zero address for HTTP CONNECT, which reports none.
func (t *TunnelSocket) BoundAddress() Addr { return t.bound }

// PeerAddress returns the destination as finally addressed: the IPv4
// literal if resolution happened locally, the original hostname if remote
// resolution carried it.
func (t *TunnelSocket) PeerAddress() Addr { return t.peer }

// ProxyAddress returns the transport-layer peer: the first hop dialed.
func (t *TunnelSocket) ProxyAddress() Addr { return t.proxy }
