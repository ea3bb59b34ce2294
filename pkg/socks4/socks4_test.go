package socks4

import (
	"bytes"
	"context"
	"errors"
	"net"
	"testing"

	"github.com/hopwire/hopwire/pkg/proxyerr"
)

type mockConn struct {
	net.Conn
	writeBuf bytes.Buffer
	readBuf  *bytes.Buffer
}

func (m *mockConn) Read(p []byte) (int, error)  { return m.readBuf.Read(p) }
func (m *mockConn) Write(p []byte) (int, error) { return m.writeBuf.Write(p) }
func (m *mockConn) Close() error                { return nil }

type stubResolver struct {
	ip  net.IP
	err error
}

func (s stubResolver) ResolveIPv4(ctx context.Context, host string) (net.IP, error) {
	return s.ip, s.err
}

func TestBuildRequestSocks4(t *testing.T) {
	ip, _ := ipv4("1.2.3.4")

	b, err := buildRequest("1.2.3.4", 1080, ip, []byte("nobody"), false)
	if err != nil {
		t.Fatal(err)
	}

	want := []byte{0x04, 0x01, 0x04, 0x38, 1, 2, 3, 4}
	want = append(want, []byte("nobody")...)
	want = append(want, 0x00)

	if !bytes.Equal(b, want) {
		t.Fatalf("got %x, want %x", b, want)
	}
}

func TestBuildRequestSocks4A(t *testing.T) {
	b, err := buildRequest("example.com", 80, [4]byte{0, 0, 0, 1}, nil, true)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.HasSuffix(b, []byte("example.com\x00")) {
		t.Fatalf("missing hostname suffix: %x", b)
	}

	if !bytes.Equal(b[:8], []byte{0x04, 0x01, 0x00, 0x50, 0, 0, 0, 1}) {
		t.Fatalf("wrong header: %x", b)
	}
}

func TestNegotiateSocks4ASuccess(t *testing.T) {
	conn := &mockConn{readBuf: bytes.NewBuffer([]byte{0x00, accessGranted, 0x00, 0x50, 127, 0, 0, 1})}

	boundHost, boundPort, peerHost, peerPort, err := Negotiate(
		context.Background(), conn, "example.com", 80, Step{RemoteDNS: true}, stubResolver{},
	)
	if err != nil {
		t.Fatal(err)
	}

	if boundHost != "127.0.0.1" || boundPort != 80 {
		t.Fatalf("bound = %s:%d", boundHost, boundPort)
	}

	if peerHost != "example.com" || peerPort != 80 {
		t.Fatalf("peer = %s:%d, want hostname per SOCKS4A", peerHost, peerPort)
	}

	want := []byte{0x04, 0x01, 0x00, 0x50, 0, 0, 0, 1, 0x00, 'e', 'x', 'a', 'm', 'p', 'l', 'e', '.', 'c', 'o', 'm', 0x00}
	if !bytes.Equal(conn.writeBuf.Bytes(), want) {
		t.Fatalf("got %x, want %x", conn.writeBuf.Bytes(), want)
	}
}

func TestNegotiateLocalResolvePeerIsLiteral(t *testing.T) {
	conn := &mockConn{readBuf: bytes.NewBuffer([]byte{0x00, accessGranted, 0x00, 0x50, 127, 0, 0, 1})}

	_, _, peerHost, _, err := Negotiate(
		context.Background(), conn, "example.com", 80, Step{RemoteDNS: false},
		stubResolver{ip: net.IPv4(9, 9, 9, 9)},
	)
	if err != nil {
		t.Fatal(err)
	}

	if peerHost != "9.9.9.9" {
		t.Fatalf("peer = %s, want resolved literal", peerHost)
	}
}

func TestNegotiateIPv4LiteralIgnoresRemoteDNS(t *testing.T) {
	conn := &mockConn{readBuf: bytes.NewBuffer([]byte{0x00, accessGranted, 0, 0, 0, 0, 0, 0})}

	_, _, peerHost, _, err := Negotiate(
		context.Background(), conn, "93.184.216.34", 80, Step{RemoteDNS: true}, stubResolver{},
	)
	if err != nil {
		t.Fatal(err)
	}

	if peerHost != "93.184.216.34" {
		t.Fatalf("peer = %s", peerHost)
	}
}

func TestNegotiateRejected(t *testing.T) {
	conn := &mockConn{readBuf: bytes.NewBuffer([]byte{0x00, 0x5b, 0, 0, 0, 0, 0, 0})}

	_, _, _, _, err := Negotiate(context.Background(), conn, "93.184.216.34", 80, Step{}, stubResolver{})

	var socks4Err *proxyerr.Socks4Error
	if !errors.As(err, &socks4Err) {
		t.Fatalf("expected *proxyerr.Socks4Error, got %T: %v", err, err)
	}

	if socks4Err.Code != 0x5b {
		t.Fatalf("code = %d", socks4Err.Code)
	}
}

func TestNegotiateBadFirstByte(t *testing.T) {
	conn := &mockConn{readBuf: bytes.NewBuffer([]byte{0x01, accessGranted, 0, 0, 0, 0, 0, 0})}

	_, _, _, _, err := Negotiate(context.Background(), conn, "93.184.216.34", 80, Step{}, stubResolver{})

	var general *proxyerr.GeneralProxyError
	if !errors.As(err, &general) {
		t.Fatalf("expected *proxyerr.GeneralProxyError, got %T: %v", err, err)
	}
}

func TestNegotiateShortReply(t *testing.T) {
	conn := &mockConn{readBuf: bytes.NewBuffer([]byte{0x00, accessGranted})}

	_, _, _, _, err := Negotiate(context.Background(), conn, "93.184.216.34", 80, Step{}, stubResolver{})
	if err == nil {
		t.Fatal("expected error on short reply")
	}
}

func TestNegotiateResolverFailure(t *testing.T) {
	conn := &mockConn{readBuf: &bytes.Buffer{}}

	_, _, _, _, err := Negotiate(
		context.Background(), conn, "nowhere.invalid", 80, Step{RemoteDNS: false},
		stubResolver{err: errors.New("no such host")},
	)

	var nameErr *proxyerr.NameResolutionError
	if !errors.As(err, &nameErr) {
		t.Fatalf("expected *proxyerr.NameResolutionError, got %T: %v", err, err)
	}
}

func ipv4(s string) ([4]byte, bool) {
	ip := net.ParseIP(s).To4()

	var out [4]byte
	copy(out[:], ip)

	return out, true
}
