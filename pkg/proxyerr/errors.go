// Package proxyerr collects the error taxonomy shared by every negotiator
// and by the chain driver, so callers can type-switch on a proxy's own
// status code regardless of which hop or protocol produced it.
package proxyerr

import "fmt"

type (
	// GeneralProxyError covers structural wire errors, closed connections
	// mid-handshake, an unrecognized proxy kind, or bad caller input —
	// anything that isn't a protocol-level status code.
	GeneralProxyError struct {
		Code int
		Msg  string
	}

	// Socks4Error is a non-success status in an otherwise well-formed
	// SOCKS4 reply.
	Socks4Error struct {
		Code int
		Msg  string
	}

	// Socks5Error is a non-success status in the SOCKS5 CONNECT reply.
	Socks5Error struct {
		Code int
		Msg  string
	}

	// Socks5AuthError covers method rejection (0xFF) and credential
	// rejection during RFC 1929 sub-negotiation.
	Socks5AuthError struct {
		Code int
		Msg  string
	}

	// HTTPError is a non-200 status line from an HTTP CONNECT reply.
	HTTPError struct {
		Code   int
		Reason string
	}

	// NameResolutionError wraps a failure from the Resolver collaborator.
	NameResolutionError struct {
		Hostname string
		Err      error
	}
)

func (e *GeneralProxyError) Error() string { return fmt.Sprintf("general proxy error: %s", e.Msg) }

func (e *Socks4Error) Error() string { return fmt.Sprintf("socks4: %s", e.Msg) }

func (e *Socks5Error) Error() string { return fmt.Sprintf("socks5: %s", e.Msg) }

func (e *Socks5AuthError) Error() string { return fmt.Sprintf("socks5 auth: %s", e.Msg) }

func (e *HTTPError) Error() string { return fmt.Sprintf("http connect %d: %s", e.Code, e.Reason) }

func (e *NameResolutionError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.Hostname, e.Err)
}
func (e *NameResolutionError) Unwrap() error { return e.Err }

// socks5GeneralErrors maps SOCKS5 CONNECT reply status codes (0x00-0x08) to
// the RFC 1928 text. Anything above 0x08 is reported as code 9, "unknown
// error", matching the original proxy-chaining implementation this spec was
// distilled from.
var socks5GeneralErrors = [...]string{
	"succeeded",
	"general SOCKS server failure",
	"connection not allowed by ruleset",
	"network unreachable",
	"host unreachable",
	"connection refused",
	"TTL expired",
	"command not supported",
	"address type not supported",
}

// NewSocks5Error builds a Socks5Error from a raw SOCKS5 CONNECT reply status
// byte, mapping unknown codes to 9/"unknown error".
func NewSocks5Error(status byte) *Socks5Error {
	if int(status) < len(socks5GeneralErrors) {
		return &Socks5Error{Code: int(status), Msg: socks5GeneralErrors[status]}
	}

	return &Socks5Error{Code: 9, Msg: "unknown error"}
}

// socks4Errors maps SOCKS4 reply status bytes 0x5B-0x5D to their RFC text.
var socks4Errors = map[byte]string{
	0x5b: "request rejected or failed",
	0x5c: "request rejected because SOCKS server cannot connect to identd on the client",
	0x5d: "request rejected because the client program and identd report different user-ids",
}

// NewSocks4Error builds a Socks4Error from a raw SOCKS4 reply status byte,
// mapping anything outside 0x5B-0x5D to "unknown error".
func NewSocks4Error(status byte) *Socks4Error {
	if msg, ok := socks4Errors[status]; ok {
		return &Socks4Error{Code: int(status), Msg: msg}
	}

	return &Socks4Error{Code: int(status), Msg: "unknown error"}
}
