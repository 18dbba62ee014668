// Package signup decides whether the embedded newsletter signup form can be
// shown or the alternative form must be used instead.
//
// The decision is a best-effort heuristic: the embed URL is requested once
// with a fixed deadline and the outcome is kept until the next probe.
package signup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

const ProbeTimeout = 3 * time.Second

type Status int32

const (
	StatusUnknown Status = iota
	StatusAvailable
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

type Prober struct {
	httpClient *http.Client
	url        string
	userAgent  string
	timeout    time.Duration
}

func NewProber(httpClient *http.Client, url, userAgent string) *Prober {
	return &Prober{
		httpClient: httpClient,
		url:        url,
		userAgent:  userAgent,
		timeout:    ProbeTimeout,
	}
}

func (p *Prober) URL() string {
	return p.url
}

// Run requests the embed once. Any error maps to StatusUnavailable and is
// returned for logging.
func (p *Prober) Run(ctx context.Context) (Status, error) {
	if p.url == "" {
		return StatusUnavailable, fmt.Errorf("signup embed URL is not configured")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", p.url, nil)
	if err != nil {
		return StatusUnavailable, fmt.Errorf("failed to create request: %w", err)
	}

	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return StatusUnavailable, fmt.Errorf("failed to load signup embed: %w", err)
	}
	defer resp.Body.Close()

	io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return StatusUnavailable, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	switch strings.ToUpper(strings.TrimSpace(resp.Header.Get("X-Frame-Options"))) {
	case "DENY", "SAMEORIGIN":
		return StatusUnavailable, fmt.Errorf("embedding blocked by X-Frame-Options")
	}

	return StatusAvailable, nil
}

// State holds the latest probe outcome. Safe for concurrent use.
type State struct {
	status    atomic.Int32
	checkedAt atomic.Int64
}

func (s *State) Set(status Status, at time.Time) {
	s.status.Store(int32(status))
	s.checkedAt.Store(at.UnixNano())
}

func (s *State) Status() Status {
	return Status(s.status.Load())
}

// CheckedAt returns the time of the last probe, or the zero time.
func (s *State) CheckedAt() time.Time {
	nanos := s.checkedAt.Load()
	if nanos == 0 {
		return time.Time{}
	}
	return time.Unix(0, nanos)
}
