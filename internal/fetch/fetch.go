// Package fetch retrieves pages over HTTP with bounded timeouts and
// redirects. Failures are deliberately opaque: callers learn only that the
// page could not be retrieved, never why.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

// ErrFetchFailed covers every failure mode of a page fetch: transport
// errors, timeouts, redirect exhaustion, and non-success statuses.
var ErrFetchFailed = errors.New("could not retrieve content")

const (
	defaultTimeout   = 10 * time.Second
	defaultRedirects = 5
	// Cap on response body size so a pathological page cannot exhaust
	// memory; extraction truncates far below this anyway.
	maxBodyBytes = 5 << 20

	defaultUserAgent = "Mozilla/5.0 (compatible; SiteInsightBot/1.0)"
)

// Client wraps http.Client with a total timeout, a redirect cap, and a
// browser-like identity header.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// Timeout bounds the whole request including body read. Zero means
	// the 10 second default.
	Timeout time.Duration
	// RedirectMaxHops caps redirect following. Zero means default (5).
	RedirectMaxHops int
}

// Get issues a GET against rawURL and returns the body decoded to UTF-8.
// Every failure is reported as ErrFetchFailed.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if req.URL == nil || !isHTTPScheme(req.URL) {
		return nil, fmt.Errorf("%w: unsupported scheme", ErrFetchFailed)
	}
	ua := c.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	// Decode to UTF-8 based on the Content-Type charset or in-document
	// hints so non-UTF-8 pages extract cleanly.
	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return b, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		// Clone to attach our redirect policy without mutating the
		// caller's client.
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{CheckRedirect: c.checkRedirectFunc()}
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = defaultRedirects
	}
	return func(req *http.Request, via []*http.Request) error {
		// via includes the initial request, so a cap of 5 means up to
		// 5 redirect hops are followed before giving up.
		if len(via) > max {
			return errors.New("too many redirects")
		}
		if req.URL == nil || !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
