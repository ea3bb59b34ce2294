package hopwire

import (
	"context"
	"net"
	"strconv"

	"golang.org/x/net/proxy"
)

// Deliberately no init() here registering a proxy.RegisterDialerType, unlike
// the teacher's pkg/socks4 dialer: that would be exactly the kind of
// process-wide mutable state the design notes call out to avoid. Callers
// who want golang.org/x/net/proxy interop construct a Client and use it
// directly as a proxy.Dialer / proxy.ContextDialer.

var (
	_ proxy.Dialer        = (*Client)(nil)
	_ proxy.ContextDialer = (*Client)(nil)
)

// Dial implements proxy.Dialer by delegating to DialContext with a
// background context.
func (c *Client) Dial(network, addr string) (net.Conn, error) {
	return c.DialContext(context.Background(), network, addr)
}

// DialContext implements proxy.ContextDialer, driving this client's
// configured chain to reach addr.
func (c *Client) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	if network != "tcp" && network != "tcp4" {
		return nil, &net.OpError{Op: "dial", Net: network, Err: net.UnknownNetworkError(network)}
	}

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}

	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return nil, err
	}

	return c.Connect(ctx, host, uint16(port))
}
