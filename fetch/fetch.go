// Package fetch performs single-shot HTTP requests with a browser TLS
// fingerprint.
//
// Some media hosts front their content with anti-bot challenges that reject
// the standard Go TLS client hello. This package dials with a utls
// HelloChrome_120 fingerprint, preferring HTTP/2 and transparently falling
// back to HTTP/1.1 when the server negotiates only h1. Every call is
// stateless: fixed impersonation profile, fixed timeout, no retries.
package fetch

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

// Timeout bounds each request end to end.
const Timeout = 20 * time.Second

// browserUserAgent matches the impersonated Chrome fingerprint.
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ErrSetup marks failures before any network traffic (bad method, url, or payload).
var ErrSetup = errors.New("fetch setup failed")

// ErrRequest marks network failures and non-2xx responses.
var ErrRequest = errors.New("fetch request failed")

// Do performs one impersonated request and returns the response body text.
// For GET the payload becomes query parameters; for every other method it is
// sent as a JSON body. Responses outside the 2xx range fail.
func Do(ctx context.Context, method, rawURL string, payload map[string]any) (string, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return "", fmt.Errorf("%w: method is required", ErrSetup)
	}

	req, err := buildRequest(ctx, method, rawURL, payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSetup, err)
	}

	resp, err := send(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: unexpected status %d", ErrRequest, resp.StatusCode)
	}
	return string(body), nil
}

// buildRequest folds the payload into the request per method and applies the
// impersonated browser headers.
func buildRequest(ctx context.Context, method, rawURL string, payload map[string]any) (*http.Request, error) {
	var body io.Reader
	target := rawURL

	if method == http.MethodGet {
		withQuery, err := appendQuery(rawURL, payload)
		if err != nil {
			return nil, err
		}
		target = withQuery
	} else if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// appendQuery merges payload values into the url's query string.
func appendQuery(rawURL string, payload map[string]any) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	query := parsed.Query()
	for key, value := range payload {
		query.Set(key, fmt.Sprint(value))
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

// send tries the HTTP/2 transport first and falls back to HTTP/1.1 when the
// handshake or request fails, matching natural Chrome protocol negotiation.
func send(req *http.Request) (*http.Response, error) {
	h2Client := &http.Client{Timeout: Timeout, Transport: getH2Transport()}
	resp, err := h2Client.Do(req)
	if err == nil {
		return resp, nil
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, err
		}
		retry.Body = body
	}

	h1Client := &http.Client{Timeout: Timeout, Transport: h1Transport}
	return h1Client.Do(retry)
}

// h2Transport is a shared HTTP/2 transport dialing with the utls fingerprint.
var (
	h2Transport     *http2.Transport
	h2TransportOnce sync.Once
)

func getH2Transport() *http2.Transport {
	h2TransportOnce.Do(func() {
		h2Transport = &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialTLS(ctx, network, addr, nil)
			},
		}
	})
	return h2Transport
}

// h1Transport is a shared HTTP/1.1 transport for servers that refuse h2.
var h1Transport = &http.Transport{
	DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialTLS(ctx, network, addr, []string{"http/1.1"})
	},
}

// dialTLS creates a TLS connection mimicking Chrome 120's client hello.
// A nil protocol list advertises Chrome's natural h2+http/1.1 ALPN.
func dialTLS(ctx context.Context, network, addr string, protocols []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: Timeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protocols,
	}, utls.HelloChrome_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}
	return tlsConn, nil
}
