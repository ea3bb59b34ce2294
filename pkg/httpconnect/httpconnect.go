// Package httpconnect implements the HTTP CONNECT handshake: a text
// request line, accumulating the response until the header terminator, and
// status-line parsing. See spec section 4.4.
package httpconnect

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/hopwire/hopwire/pkg/proxyerr"
)

// Resolver resolves a hostname to an IPv4 address when local resolution is
// required.
type Resolver interface {
	ResolveIPv4(ctx context.Context, host string) (net.IP, error)
}

// Step carries the parts of a ProxyStep this negotiator needs.
type Step struct {
	RemoteDNS bool
}

// Negotiate sends a CONNECT request for (destAddr, destPort) and parses the
// status line of the reply. HTTP CONNECT reports no bound address, so
// boundHost/boundPort are always the zero address.
func Negotiate(
	ctx context.Context,
	conn net.Conn,
	destAddr string,
	destPort uint16,
	step Step,
	resolver Resolver,
) (boundHost string, boundPort uint16, peerHost string, peerPort uint16, err error) {
	hostForm := destAddr

	if !step.RemoteDNS {
		ip, err := resolver.ResolveIPv4(ctx, destAddr)
		if err != nil {
			return "", 0, "", 0, &proxyerr.NameResolutionError{Hostname: destAddr, Err: err}
		}

		hostForm = ip.String()
	}

	req := fmt.Sprintf("CONNECT %s:%d HTTP/1.1\r\nHost: %s:%d\r\n\r\n", hostForm, destPort, destAddr, destPort)

	if _, err := conn.Write([]byte(req)); err != nil {
		return "", 0, "", 0, err
	}

	header, err := readHeader(conn)
	if err != nil {
		return "", 0, "", 0, err
	}

	code, reason, err := parseStatusLine(header)
	if err != nil {
		return "", 0, "", 0, err
	}

	if code != 200 {
		return "", 0, "", 0, &proxyerr.HTTPError{Code: code, Reason: reason}
	}

	return "0.0.0.0", 0, hostForm, destPort, nil
}

// readHeader accumulates bytes from conn until the CRLF CRLF terminator is
// seen, one byte at a time so no tunnel bytes past the terminator are
// consumed.
func readHeader(conn net.Conn) ([]byte, error) {
	var buf bytes.Buffer

	one := make([]byte, 1)

	for !bytes.HasSuffix(buf.Bytes(), []byte("\r\n\r\n")) {
		n, err := conn.Read(one)
		if n == 0 || err != nil {
			return nil, &proxyerr.GeneralProxyError{Code: 0, Msg: "connection closed unexpectedly"}
		}

		buf.WriteByte(one[0])
	}

	return buf.Bytes(), nil
}

// parseStatusLine parses "<version> <code> <reason>" from the first line of
// an HTTP response header.
func parseStatusLine(header []byte) (code int, reason string, err error) {
	line := header
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	line = bytes.TrimRight(line, "\r\n")

	parts := strings.SplitN(string(line), " ", 3)
	if len(parts) < 2 {
		return 0, "", &proxyerr.GeneralProxyError{Code: 1, Msg: "invalid data"}
	}

	if parts[0] != "HTTP/1.0" && parts[0] != "HTTP/1.1" {
		return 0, "", &proxyerr.GeneralProxyError{Code: 1, Msg: "invalid data"}
	}

	code, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, "", &proxyerr.GeneralProxyError{Code: 1, Msg: "invalid data"}
	}

	if len(parts) == 3 {
		reason = parts[2]
	}

	return code, reason, nil
}
