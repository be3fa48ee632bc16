// Package httpclient builds the pooled HTTP client shared by the
// Wikipedia fetcher and the model provider.
package httpclient

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"time"
)

const defaultTimeout = 30 * time.Second

// NewHTTPClient creates a pooled HTTP client with the given overall
// request timeout. Both outbound targets (Wikipedia pages, model
// completions) answer well inside a minute, and the generation budget
// cuts callers off long before these limits anyway.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ForceAttemptHTTP2:     true,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// NewDefaultHTTPClient creates a client with the default timeout,
// overridable through HTTP_TIMEOUT (plain integer seconds or a Go
// duration string).
func NewDefaultHTTPClient() *http.Client {
	return NewHTTPClient(envTimeout("HTTP_TIMEOUT", defaultTimeout))
}

func envTimeout(key string, def time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	return def
}
