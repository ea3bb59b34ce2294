package hopwire

import "context"

// Trace is an optional hook fired by Client.Connect with three events:
// "connect.start" (a is destHost, destPort), "connect.error" (a is the
// error), and "connect.success" (a is the tunnel's PeerAddress). The chain
// driver and the negotiators fire no events of their own, so the dial and
// each hop's negotiation are not traced individually.
// A nil Trace disables tracing entirely; logging a library would impose a
// choice on callers this package has no business making.
type Trace func(event string, a ...any)

// Client holds the ambient configuration a caller would otherwise have to
// thread through every call: a default chain, dialer, resolver, and trace
// hook. The spec's source keeps this state as a mutable module-level
// default; here it is an explicit, separately constructed value so no
// process-wide state exists (see the design notes on avoiding global
// defaults).
type Client struct {
	chain    Chain
	dialer   Dialer
	resolver Resolver
	trace    Trace
}

// NewClient returns a Client with no default chain (direct dial), the
// standard net.Dialer, and the standard resolver.
func NewClient() *Client {
	return &Client{
		dialer:   NewDialer(),
		resolver: NewResolver(),
	}
}

// Builder returns a fluent Builder seeded with this client's current chain,
// for incrementally adding hops.
func (c *Client) Builder() *Builder {
	return &Builder{client: c, steps: append(Chain{}, c.chain...)}
}

func (c *Client) trc(event string, a ...any) {
	if c.trace != nil {
		c.trace(event, a...)
	}
}

// Connect dials through the client's configured chain to (destHost,
// destPort) and returns the resulting tunnel.
func (c *Client) Connect(ctx context.Context, destHost string, destPort uint16) (*TunnelSocket, error) {
	c.trc("connect.start", destHost, destPort)

	sock, err := Connect(ctx, c.chain, destHost, destPort, c.dialer, c.resolver)
	if err != nil {
		c.trc("connect.error", err)
		return nil, err
	}

	c.trc("connect.success", sock.PeerAddress())

	return sock, nil
}
