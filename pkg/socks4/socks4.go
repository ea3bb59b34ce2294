// Package socks4 implements the SOCKS4 handshake, including the SOCKS4A
// hostname extension, as a single request/reply exchange over an
// already-open net.Conn. See spec section 4.2.
package socks4

import (
	"bytes"
	"context"
	"encoding/binary"
	"net"

	"github.com/hopwire/hopwire/pkg/proxyerr"
	"github.com/hopwire/hopwire/pkg/wire"
)

const (
	version = 0x04
	connect = 0x01

	accessGranted = 0x5a

	replyLen = 8
)

// Resolver resolves a hostname to an IPv4 address when local resolution is
// required. Satisfied structurally by any DNS collaborator; no import of
// this package is needed to implement it.
type Resolver interface {
	ResolveIPv4(ctx context.Context, host string) (net.IP, error)
}

// Step carries the parts of a ProxyStep this negotiator needs. RemoteDNS
// selects the SOCKS4A hostname extension when destAddr is not already an
// IPv4 literal; it has no effect when destAddr is a literal.
type Step struct {
	User      []byte
	RemoteDNS bool
}

// Negotiate drives the SOCKS4 handshake over conn, instructing the proxy to
// connect to (destAddr, destPort). It returns the bound address/port the
// proxy reports, and the peer address as the client finally addressed it:
// the resolved IPv4 literal when resolution happened locally, or the
// original hostname when the SOCKS4A extension carried it to the proxy.
func Negotiate(
	ctx context.Context,
	conn net.Conn,
	destAddr string,
	destPort uint16,
	step Step,
	resolver Resolver,
) (boundHost string, boundPort uint16, peerHost string, peerPort uint16, err error) {
	ip, is4a, err := classify(ctx, destAddr, step.RemoteDNS, resolver)
	if err != nil {
		return "", 0, "", 0, err
	}

	req, err := buildRequest(destAddr, destPort, ip, step.User, is4a)
	if err != nil {
		return "", 0, "", 0, &proxyerr.GeneralProxyError{Code: 5, Msg: "bad input"}
	}

	if _, err := conn.Write(req); err != nil {
		return "", 0, "", 0, err
	}

	reply, err := wire.ReadExact(conn, replyLen)
	if err != nil {
		return "", 0, "", 0, &proxyerr.GeneralProxyError{Code: 0, Msg: "connection closed unexpectedly"}
	}

	if reply[0] != 0x00 {
		return "", 0, "", 0, &proxyerr.GeneralProxyError{Code: 1, Msg: "invalid data"}
	}

	if reply[1] != accessGranted {
		return "", 0, "", 0, proxyerr.NewSocks4Error(reply[1])
	}

	boundPort = wire.ParseUint16BE(reply[2:4])
	boundHost = net.IP(reply[4:8]).String()

	if is4a {
		peerHost = destAddr
	} else {
		peerHost = net.IP(ip[:]).String()
	}

	return boundHost, boundPort, peerHost, destPort, nil
}

// classify decides whether destAddr is an IPv4 literal, a hostname to be
// carried via SOCKS4A, or a hostname to be resolved locally first. It
// returns the four bytes to place in the request's IP field and whether
// the SOCKS4A extension applies.
func classify(ctx context.Context, destAddr string, remoteDNS bool, resolver Resolver) (ip [4]byte, is4a bool, err error) {
	if lit, ok := wire.IsIPv4Literal(destAddr); ok {
		return lit, false, nil
	}

	if remoteDNS {
		// SOCKS4A sentinel: 0.0.0.x, x != 0.
		return [4]byte{0, 0, 0, 1}, true, nil
	}

	resolved, err := resolver.ResolveIPv4(ctx, destAddr)
	if err != nil {
		return ip, false, &proxyerr.NameResolutionError{Hostname: destAddr, Err: err}
	}

	v4 := resolved.To4()
	if v4 == nil {
		return ip, false, &proxyerr.NameResolutionError{Hostname: destAddr, Err: &net.AddrError{Err: "resolver returned non-IPv4 address", Addr: destAddr}}
	}

	copy(ip[:], v4)

	return ip, false, nil
}

// buildRequest lays out: VER CMD PORT(2) IP(4) USERID NUL [HOSTNAME NUL].
// Field order and error accumulation mirror the teacher's request builder.
func buildRequest(destAddr string, destPort uint16, ip [4]byte, user []byte, is4a bool) ([]byte, error) {
	var (
		buf bytes.Buffer
		err error
	)

	write := func(p []byte) {
		if err == nil {
			_, err = buf.Write(p)
		}
	}
	writeBE := func(v uint16) {
		if err == nil {
			err = binary.Write(&buf, binary.BigEndian, v)
		}
	}

	write([]byte{version, connect})
	writeBE(destPort)
	write(ip[:])
	write(user)
	write([]byte{0x00})

	if is4a {
		write([]byte(destAddr))
		write([]byte{0x00})
	}

	return buf.Bytes(), err
}
