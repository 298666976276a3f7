package app

import (
	"net"
	"net/http"
	"time"

	"github.com/hyperifyio/medalboard/internal/fetch"
)

// newHTTPClient returns the client used for the single page download. The
// overall deadline is enforced by fetch.Client; these bound the phases.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = fetch.DefaultTimeout
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
