// Package socks5 implements the SOCKS5 handshake: method negotiation,
// optional RFC 1929 username/password sub-negotiation, and a CONNECT
// request/reply carrying one of the three SOCKS5 address forms. See spec
// section 4.3.
package socks5

import (
	"bytes"
	"context"
	"net"

	tsocks5 "github.com/txthinking/socks5"

	"github.com/hopwire/hopwire/pkg/proxyerr"
	"github.com/hopwire/hopwire/pkg/wire"
)

const (
	version = 0x05

	methodNoAuth   = 0x00
	methodUserPass = 0x02
	methodNoAccept = 0xff

	cmdConnect = 0x01

	authVersion = 0x01
)

// Resolver resolves a hostname to an IPv4 address when local resolution is
// required.
type Resolver interface {
	ResolveIPv4(ctx context.Context, host string) (net.IP, error)
}

// Step carries the parts of a ProxyStep this negotiator needs.
type Step struct {
	User      []byte
	Password  []byte
	RemoteDNS bool
}

// Negotiate drives the SOCKS5 handshake over conn: MethodOffer, MethodSelect,
// an optional UserPassAuth sub-negotiation, ConnectRequest, and
// ConnectReply. It returns the proxy's reported bound address/port and the
// address the client finally addressed.
func Negotiate(
	ctx context.Context,
	conn net.Conn,
	destAddr string,
	destPort uint16,
	step Step,
	resolver Resolver,
) (boundHost string, boundPort uint16, peerHost string, peerPort uint16, err error) {
	if err := offerMethods(conn, step); err != nil {
		return "", 0, "", 0, err
	}

	chosen, err := selectMethod(conn)
	if err != nil {
		return "", 0, "", 0, err
	}

	if chosen == methodUserPass {
		if err := authenticate(conn, step); err != nil {
			return "", 0, "", 0, err
		}
	}

	peerHost, err = connectRequest(ctx, conn, destAddr, destPort, step, resolver)
	if err != nil {
		return "", 0, "", 0, err
	}

	boundHost, boundPort, err = connectReply(conn)
	if err != nil {
		return "", 0, "", 0, err
	}

	return boundHost, boundPort, peerHost, destPort, nil
}

func offerMethods(conn net.Conn, step Step) error {
	var req []byte

	if len(step.User) > 0 && len(step.Password) > 0 {
		req = []byte{version, 0x02, methodNoAuth, methodUserPass}
	} else {
		req = []byte{version, 0x01, methodNoAuth}
	}

	_, err := conn.Write(req)

	return err
}

func selectMethod(conn net.Conn) (byte, error) {
	reply, err := wire.ReadExact(conn, 2)
	if err != nil {
		return 0, &proxyerr.GeneralProxyError{Code: 0, Msg: "connection closed unexpectedly"}
	}

	if reply[0] != version {
		return 0, &proxyerr.GeneralProxyError{Code: 1, Msg: "invalid data"}
	}

	switch reply[1] {
	case methodNoAuth, methodUserPass:
		return reply[1], nil
	case methodNoAccept:
		return 0, &proxyerr.Socks5AuthError{Code: 2, Msg: "all offered methods rejected"}
	default:
		return 0, &proxyerr.GeneralProxyError{Code: 1, Msg: "invalid data"}
	}
}

// authenticate performs RFC 1929 username/password sub-negotiation.
func authenticate(conn net.Conn, step Step) error {
	var buf bytes.Buffer

	buf.WriteByte(authVersion)
	buf.WriteByte(byte(len(step.User)))
	buf.Write(step.User)
	buf.WriteByte(byte(len(step.Password)))
	buf.Write(step.Password)

	if _, err := conn.Write(buf.Bytes()); err != nil {
		return err
	}

	reply, err := wire.ReadExact(conn, 2)
	if err != nil {
		return &proxyerr.GeneralProxyError{Code: 0, Msg: "connection closed unexpectedly"}
	}

	if reply[0] != authVersion {
		return &proxyerr.GeneralProxyError{Code: 1, Msg: "invalid data"}
	}

	if reply[1] != 0x00 {
		return &proxyerr.Socks5AuthError{Code: 3, Msg: "unknown username or invalid password"}
	}

	return nil
}

// connectRequest sends VER CMD RSV ATYP ADDR PORT and returns the address
// recorded as the peer: the IPv4 literal, the hostname carried via remote
// resolution, or the locally-resolved literal. An IPv4 literal always wins
// atyp 0x01 regardless of RemoteDNS (spec's Open Question resolution).
func connectRequest(ctx context.Context, conn net.Conn, destAddr string, destPort uint16, step Step, resolver Resolver) (peerHost string, err error) {
	var buf bytes.Buffer

	buf.Write([]byte{version, cmdConnect, 0x00})

	lit, isLiteral := wire.IsIPv4Literal(destAddr)

	switch {
	case isLiteral:
		buf.WriteByte(tsocks5.ATYPIPv4)
		buf.Write(lit[:])
		peerHost = destAddr

	case step.RemoteDNS:
		if len(destAddr) > 255 {
			return "", &proxyerr.GeneralProxyError{Code: 5, Msg: "bad input"}
		}

		buf.WriteByte(tsocks5.ATYPDomain)
		buf.WriteByte(byte(len(destAddr)))
		buf.WriteString(destAddr)
		peerHost = destAddr

	default:
		ip, err := resolver.ResolveIPv4(ctx, destAddr)
		if err != nil {
			return "", &proxyerr.NameResolutionError{Hostname: destAddr, Err: err}
		}

		v4 := ip.To4()
		if v4 == nil {
			return "", &proxyerr.NameResolutionError{Hostname: destAddr, Err: &net.AddrError{Err: "resolver returned non-IPv4 address", Addr: destAddr}}
		}

		buf.WriteByte(tsocks5.ATYPIPv4)
		buf.Write(v4)
		peerHost = v4.String()
	}

	buf.Write(wire.PutUint16BE(destPort))

	if _, err := conn.Write(buf.Bytes()); err != nil {
		return "", err
	}

	return peerHost, nil
}

func connectReply(conn net.Conn) (boundHost string, boundPort uint16, err error) {
	header, err := wire.ReadExact(conn, 4)
	if err != nil {
		return "", 0, &proxyerr.GeneralProxyError{Code: 0, Msg: "connection closed unexpectedly"}
	}

	if header[0] != version {
		return "", 0, &proxyerr.GeneralProxyError{Code: 1, Msg: "invalid data"}
	}

	if status := header[1]; status != tsocks5.RepSuccess {
		return "", 0, proxyerr.NewSocks5Error(status)
	}

	var addr []byte

	switch header[3] {
	case tsocks5.ATYPIPv4:
		addr, err = wire.ReadExact(conn, 4)
	case tsocks5.ATYPDomain:
		lenB, lerr := wire.ReadExact(conn, 1)
		if lerr != nil {
			return "", 0, &proxyerr.GeneralProxyError{Code: 0, Msg: "connection closed unexpectedly"}
		}

		addr, err = wire.ReadExact(conn, int(lenB[0]))
	case tsocks5.ATYPIPv6:
		return "", 0, &proxyerr.GeneralProxyError{Code: 1, Msg: "invalid data"}
	default:
		return "", 0, &proxyerr.GeneralProxyError{Code: 1, Msg: "invalid data"}
	}

	if err != nil {
		return "", 0, &proxyerr.GeneralProxyError{Code: 0, Msg: "connection closed unexpectedly"}
	}

	portB, err := wire.ReadExact(conn, 2)
	if err != nil {
		return "", 0, &proxyerr.GeneralProxyError{Code: 0, Msg: "connection closed unexpectedly"}
	}

	if header[3] == tsocks5.ATYPIPv4 {
		boundHost = net.IP(addr).String()
	} else {
		boundHost = string(addr)
	}

	return boundHost, wire.ParseUint16BE(portB), nil
}
