package identity

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

const dialTimeout = 30 * time.Second

var (
	transportsMutex = &sync.Mutex{}
	transports      = make(map[Engine]*fingerprintTransport)
)

// ClientHello returns the uTLS ClientHello fingerprint matching the
// identity's browser engine. Unknown engines present as Chrome, which
// is the most common fingerprint seen by upstream.
func (id Identity) ClientHello() utls.ClientHelloID {
	switch id.Engine {
	case Gecko:
		return utls.HelloFirefox_Auto
	case WebKit:
		return utls.HelloSafari_Auto
	}

	return utls.HelloChrome_Auto
}

// Transport returns a RoundTripper which performs TLS handshakes using the
// ClientHello of this identity's engine, so that the TLS fingerprint seen
// upstream agrees with the declared user-agent. HTTP/2 is attempted first;
// if the request fails, it is retried once over HTTP/1.1.
//
// Transports are shared between identities of the same engine so that
// connection pools are reused.
func (id Identity) Transport() http.RoundTripper {
	engine := id.Engine
	if engine == "" {
		engine = Blink
	}

	transportsMutex.Lock()
	defer transportsMutex.Unlock()
	if t, ok := transports[engine]; ok {
		return t
	}

	t := newFingerprintTransport(id.ClientHello())
	transports[engine] = t
	return t
}

// Client returns an http.Client using this identity's Transport.
func (id Identity) Client(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout, Transport: id.Transport()}
}

type fingerprintTransport struct {
	hello utls.ClientHelloID
	h2    *http2.Transport
	h1    *http.Transport
}

func newFingerprintTransport(hello utls.ClientHelloID) *fingerprintTransport {
	t := &fingerprintTransport{hello: hello}
	t.h2 = &http2.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
			return t.dial(ctx, network, addr, nil)
		},
	}
	t.h1 = &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return t.dial(ctx, network, addr, []string{"http/1.1"})
		},
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       30 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}

	return t
}

func (t *fingerprintTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}
	if req.Context().Err() != nil {
		return nil, err
	}

	retry, rewindErr := rewind(req)
	if rewindErr != nil {
		return nil, err
	}

	return t.h1.RoundTrip(retry)
}

func (t *fingerprintTransport) dial(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, t.hello)

	if err := tlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake with %s: %w", host, err)
	}

	return tlsConn, nil
}

// rewind produces a copy of the request which can be sent again. Requests
// with a body that cannot be re-read cannot be rewound.
func rewind(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return clone, nil
	}
	if req.GetBody == nil {
		return nil, fmt.Errorf("request body for %s cannot be rewound", req.URL)
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}

	clone.Body = body
	return clone, nil
}
