package hopwire

import (
	"context"
	"errors"
	"net"
)

// Resolver is the DNS collaborator the spec treats as a pure function that
// may fail with NameResolutionError. It satisfies the Resolver interface
// each negotiator subpackage declares locally, so it never needs to import
// them.
type Resolver interface {
	ResolveIPv4(ctx context.Context, host string) (net.IP, error)
}

// netResolver is the default Resolver, backed by net.DefaultResolver.
type netResolver struct {
	resolver *net.Resolver
}

// NewResolver returns the default Resolver, using Go's standard resolution
// machinery (cgo or the pure-Go resolver, per GODEBUG/netgo build settings).
func NewResolver() Resolver { return &netResolver{resolver: net.DefaultResolver} }

// ResolveIPv4 returns the raw lookup error; negotiators are responsible for
// wrapping it as a NameResolutionError alongside the hostname they were
// resolving, so this stays a thin pass-through.
func (r *netResolver) ResolveIPv4(ctx context.Context, host string) (net.IP, error) {
	ips, err := r.resolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		return nil, err
	}

	if len(ips) == 0 {
		return nil, errors.New("no A records")
	}

	return ips[0], nil
}
