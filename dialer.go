package hopwire

import (
	"context"
	"net"
)

// Dialer opens the transport-layer connection to the first hop. Satisfied
// by *net.Dialer; callers may substitute their own (a pooled dialer, a
// context-aware rate limiter, a test double) as long as it produces a
// net.Conn.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// NewDialer returns the default Dialer, a *net.Dialer with no special
// configuration beyond what net.Dialer already provides (timeouts,
// keep-alive, and so on are the caller's to set on the returned value).
func NewDialer() *net.Dialer { return &net.Dialer{} }
