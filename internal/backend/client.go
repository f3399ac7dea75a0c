// Package backend provides a client for the metrics/ingestion API the
// dashboard monitors. The backend is an opaque HTTP service; this client
// only knows GET /metrics and POST /ingest.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"apitop/internal/model"
)

const (
	// DefaultTimeout bounds each /metrics fetch.
	DefaultTimeout = 3 * time.Second
	// IngestTimeout bounds each fire-and-forget /ingest post.
	IngestTimeout = 1 * time.Second

	maxBodySize = 1 << 20 // 1 MB
)

// FetchError wraps any failure to obtain a usable metrics snapshot:
// connection refused, DNS failure, timeout, non-2xx status, or a
// malformed body. Callers treat every FetchError as "backend
// unreachable" for the current cycle.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("backend: fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client talks to the backend metrics API.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// New creates a client for the given base URL. A zero timeout falls
// back to DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchMetrics fetches the current metrics snapshot. Fields absent in
// the payload default to zero values; the call only fails on transport
// errors or an unparseable body, and then always with a *FetchError.
func (c *Client) FetchMetrics(ctx context.Context) (*model.MetricsSnapshot, error) {
	url := c.baseURL + "/metrics"

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("reading response: %w", err)}
	}

	var snap model.MetricsSnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("parsing response: %w", err)}
	}
	return &snap, nil
}

// SendEvent posts one synthetic log record to the ingestion endpoint.
// Best-effort: the caller is expected to discard the returned error.
// The request never outlives IngestTimeout.
func (c *Client) SendEvent(ctx context.Context, ev model.LogEvent) error {
	url := c.baseURL + "/ingest"

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("backend: encoding event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, IngestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("backend: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: posting event: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("backend: ingest returned status %d", resp.StatusCode)
	}
	return nil
}
