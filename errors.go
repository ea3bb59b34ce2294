package hopwire

import "github.com/hopwire/hopwire/pkg/proxyerr"

// The error taxonomy is defined once in pkg/proxyerr so every negotiator
// subpackage can construct it without importing this package (which would
// create a cycle, since this package imports the negotiators). These
// aliases let callers type-switch against hopwire.Socks5Error and friends
// without reaching into pkg/proxyerr themselves.
type (
	GeneralProxyError   = proxyerr.GeneralProxyError
	Socks4Error         = proxyerr.Socks4Error
	Socks5Error         = proxyerr.Socks5Error
	Socks5AuthError     = proxyerr.Socks5AuthError
	HTTPError           = proxyerr.HTTPError
	NameResolutionError = proxyerr.NameResolutionError
)
