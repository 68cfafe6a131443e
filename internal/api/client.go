package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrAPIUnavailable reports that no daemon answered at the configured address.
var ErrAPIUnavailable = errors.New("reelscribe API unavailable")

// ErrJobNotFound is returned by Client.Job for unknown ids.
var ErrJobNotFound = errors.New("job not found")

// Client talks to a running daemon.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient builds a client for bind ("host:port" or a full URL). Wildcard
// bind hosts are dialed on loopback.
func NewClient(bind string) (*Client, error) {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, errors.New("api bind address required")
	}
	if !strings.Contains(bind, "://") {
		if host, port, err := net.SplitHostPort(bind); err == nil && (host == "" || host == "0.0.0.0" || host == "::") {
			bind = net.JoinHostPort("127.0.0.1", port)
		}
		bind = "http://" + bind
	}
	base, err := url.Parse(bind)
	if err != nil {
		return nil, fmt.Errorf("parse api address: %w", err)
	}
	base.Path = ""
	base.RawQuery = ""
	base.Fragment = ""
	return &Client{base: base, http: &http.Client{Timeout: 10 * time.Second}}, nil
}

// Health fetches daemon health.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}

// Submit queues sourceURL for transcription.
func (c *Client) Submit(ctx context.Context, sourceURL string) (TranscribeResponse, error) {
	var out TranscribeResponse
	err := c.do(ctx, http.MethodPost, "/api/transcribe", TranscribeRequest{URL: sourceURL}, &out)
	return out, err
}

// Jobs lists every job known to the daemon.
func (c *Client) Jobs(ctx context.Context) ([]Job, error) {
	var out []Job
	err := c.do(ctx, http.MethodGet, "/api/jobs", nil, &out)
	return out, err
}

// Job fetches a single job.
func (c *Client) Job(ctx context.Context, id string) (Job, error) {
	var out Job
	err := c.do(ctx, http.MethodGet, "/api/jobs/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := c.base.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if IsAPIUnavailable(err) {
			return fmt.Errorf("%w at %s: %w", ErrAPIUnavailable, c.base.Host, err)
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && strings.HasPrefix(path, "/api/jobs/") {
		return ErrJobNotFound
	}
	if resp.StatusCode >= 400 {
		var apiErr ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("api %s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("api %s %s returned status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// IsAPIUnavailable reports whether err means the daemon could not be reached.
func IsAPIUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAPIUnavailable) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
