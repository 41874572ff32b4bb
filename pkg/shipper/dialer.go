package shipper

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
)

// Dialer establishes connections to the collector. It can be replaced
// in tests to inject in-memory connections.
type Dialer interface {
	DialContext(ctx context.Context, network, addr string) (net.Conn, error)
}

// netDialer dials plain TCP.
type netDialer struct{}

func (netDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, network, addr)
}

// tlsDialer dials TCP and performs a TLS handshake.
type tlsDialer struct {
	conf *tls.Config
}

func (d tlsDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	var nd net.Dialer
	conn, err := nd.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := tls.Client(conn, d.conf)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("TLS handshake failed: %w", err)
	}
	return tlsConn, nil
}

// newDialer builds the dialer for the given configuration.
func newDialer(conf Config) Dialer {
	if !conf.UseTLS {
		return netDialer{}
	}

	host, _, err := net.SplitHostPort(conf.addr())
	if err != nil {
		host = conf.Host
	}
	return tlsDialer{conf: &tls.Config{
		MinVersion: tls.VersionTLS12,
		ServerName: host,

		// Self-signed collector certificates, opt-in only.
		InsecureSkipVerify: conf.AllowUntrustedServer,
	}}
}
