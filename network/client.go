// Package network provides the shared HTTP client used for bandwidth measurement and release checks.
package network

import (
	"net/http"
	"time"

	"github.com/abrplay/abrplay/constant"
	"golang.org/x/net/http2"
)

// Client is the singleton HTTP client shared across the application.
// Measurement requests bound their own duration through a context, so the client timeout only caps stalled transfers.
var Client = &http.Client{
	Timeout:   2 * time.Minute,
	Transport: &userAgentTransport{base: newTransport()},
}

// newTransport initializes a tuned http.Transport with HTTP/2 negotiated over TLS.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 16
	t.MaxIdleConnsPerHost = 4
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = time.Second
	// Transfer measurements must observe raw payload sizes.
	t.DisableCompression = true
	_ = http2.ConfigureTransport(t)
	return t
}

// userAgentTransport stamps outgoing requests with the application user agent.
type userAgentTransport struct {
	base http.RoundTripper
}

func (u *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", constant.UserAgent)
	}
	return u.base.RoundTrip(req)
}
