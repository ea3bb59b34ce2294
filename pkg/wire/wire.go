// Package wire provides the framing primitives every negotiator builds on:
// exact-length reads, big-endian port encoding, and IPv4 dotted-quad
// classification. The SOCKS4 and SOCKS5 negotiators read their replies
// through ReadExact; requests are written to the net.Conn directly, and the
// HTTP CONNECT negotiator reads its response header from the net.Conn one
// byte at a time without using this package.
package wire

import (
	"encoding/binary"
	"errors"
	"io"
	"net"
)

// ErrShortRead is returned by ReadExact when the peer closes the connection
// before n bytes have arrived.
var ErrShortRead = errors.New("short read: connection closed before n bytes arrived")

// ReadExact accumulates from r until exactly n bytes have been read,
// tolerating short reads by looping. It returns ErrShortRead if the peer
// closes before n bytes are available. No timeout is imposed here;
// cancellation is the caller's concern (set a deadline on the underlying
// net.Conn or wrap r with a context-aware reader).
func ReadExact(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)

	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrShortRead
		}

		return nil, err
	}

	return buf, nil
}

// PutUint16BE encodes v as a big-endian 16-bit port.
func PutUint16BE(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)

	return b
}

// ParseUint16BE decodes a big-endian 16-bit port. b must be exactly 2 bytes.
func ParseUint16BE(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}

// IsIPv4Literal reports whether s parses as an IPv4 dotted-quad, returning
// its packed four-byte form. A parse failure is not itself an error: it
// just means the caller should treat s as a hostname instead.
func IsIPv4Literal(s string) (out [4]byte, ok bool) {
	ip := net.ParseIP(s)
	if ip == nil {
		return out, false
	}

	v4 := ip.To4()
	if v4 == nil {
		return out, false
	}

	copy(out[:], v4)

	return out, true
}
