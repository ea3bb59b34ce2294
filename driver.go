package hopwire

import (
	"context"
	"net"

	"github.com/hopwire/hopwire/pkg/httpconnect"
	"github.com/hopwire/hopwire/pkg/proxyerr"
	"github.com/hopwire/hopwire/pkg/socks4"
	"github.com/hopwire/hopwire/pkg/socks5"
)

// Connect walks chain left to right, opening a raw TCP connection to the
// first hop and then instructing each hop, via its own protocol, to reach
// the next, finally reaching (destHost, destPort). On any handshake
// failure the socket is closed and the error is returned; no partial state
// is exposed. See spec section 4.5.
func Connect(
	ctx context.Context,
	chain Chain,
	destHost string,
	destPort uint16,
	dialer Dialer,
	resolver Resolver,
) (*TunnelSocket, error) {
	if destHost == "" {
		return nil, &proxyerr.GeneralProxyError{Code: 5, Msg: "bad input"}
	}

	full := chain.sentinel(destHost, destPort)

	for _, step := range full[:len(full)-1] {
		if step.Kind != Socks4 && step.Kind != Socks5 && step.Kind != Http {
			return nil, &proxyerr.GeneralProxyError{Code: 6, Msg: "bad proxy type"}
		}

		if step.Host == "" {
			return nil, &proxyerr.GeneralProxyError{Code: 5, Msg: "bad input"}
		}
	}

	first := full[0]

	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(first.Host, portString(first.PortOrDefault())))
	if err != nil {
		return nil, &proxyerr.GeneralProxyError{Code: 7, Msg: "connect failed: " + err.Error()}
	}

	sock := &TunnelSocket{
		Conn:  conn,
		proxy: Addr{Host: first.Host, Port: first.PortOrDefault()},
	}

	for i := 0; i < len(full)-1; i++ {
		step := full[i]
		next := full[i+1]

		boundHost, boundPort, peerHost, peerPort, err := negotiate(ctx, conn, step, next, resolver)
		if err != nil {
			conn.Close()
			return nil, err
		}

		sock.bound = Addr{Host: boundHost, Port: boundPort}
		sock.peer = Addr{Host: peerHost, Port: peerPort}
	}

	return sock, nil
}

// negotiate dispatches a single hop's handshake to the negotiator matching
// step.Kind, addressing next's host/port as the destination.
func negotiate(
	ctx context.Context,
	conn net.Conn,
	step ProxyStep,
	next ProxyStep,
	resolver Resolver,
) (boundHost string, boundPort uint16, peerHost string, peerPort uint16, err error) {
	destPort := next.PortOrDefault()

	switch step.Kind {
	case Socks5:
		return socks5.Negotiate(ctx, conn, next.Host, destPort, socks5.Step{
			User:      step.User,
			Password:  step.Password,
			RemoteDNS: step.RemoteDNS,
		}, resolver)
	case Socks4:
		return socks4.Negotiate(ctx, conn, next.Host, destPort, socks4.Step{
			User:      step.User,
			RemoteDNS: step.RemoteDNS,
		}, resolver)
	case Http:
		return httpconnect.Negotiate(ctx, conn, next.Host, destPort, httpconnect.Step{
			RemoteDNS: step.RemoteDNS,
		}, resolver)
	default:
		return "", 0, "", 0, &proxyerr.GeneralProxyError{Code: 6, Msg: "bad proxy type"}
	}
}
