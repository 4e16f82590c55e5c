// Package http fetches documents over HTTP(S) with a single GET request.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %s", e.URL, e.Status)
}

// Source fetches one URL.
type Source struct {
	url    string
	client *http.Client
	header http.Header
}

// Option configures a Source.
type Option func(*Source)

// WithClient sets the HTTP client. The default is a go-cleanhttp client,
// which shares no state with http.DefaultClient and sets no timeout.
func WithClient(c *http.Client) Option {
	return func(s *Source) {
		if c != nil {
			s.client = c
		}
	}
}

// WithHeader adds a request header.
func WithHeader(key, value string) Option {
	return func(s *Source) {
		s.header.Add(key, value)
	}
}

// New creates a source for url.
//
// Example:
//
//	src := http.New("https://example.com/config.json")
func New(url string, opts ...Option) *Source {
	s := &Source{
		url:    url,
		client: cleanhttp.DefaultClient(),
		header: http.Header{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the URL being fetched.
func (s *Source) URL() string {
	return s.url
}

// Load performs the GET request and returns the response body.
// Deadlines come from ctx; the source applies none of its own.
func (s *Source) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range s.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{URL: s.url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}
