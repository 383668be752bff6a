package checker

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

const userAgent = "statuspage-checker/1.0"

// Result is the outcome of one check.
type Result struct {
	StatusCode int
	Latency    time.Duration
	// Message is set when the request failed before a response arrived.
	Message string
}

// Pinger performs HTTP checks.
type Pinger struct {
	httpClient *http.Client
}

// NewPinger creates a pinger whose checks give up after timeout.
func NewPinger(timeout time.Duration) *Pinger {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Pinger{httpClient: &http.Client{Timeout: timeout}}
}

// Ping requests the monitor URL. Transport failures are reported in the
// result with status 0, never as an error; err is only set for payloads that
// cannot form a request.
func (p *Pinger) Ping(ctx context.Context, payload CheckMonitorPayload) (Result, error) {
	method := strings.ToUpper(payload.Method)
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if payload.Body != "" && method != http.MethodGet && method != http.MethodHead {
		body = strings.NewReader(payload.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, payload.URL, body)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("User-Agent", userAgent)
	for _, h := range payload.Headers {
		if h.Key != "" {
			req.Header.Set(h.Key, h.Value)
		}
	}

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		return Result{Latency: latency, Message: err.Error()}, nil
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	return Result{StatusCode: resp.StatusCode, Latency: latency}, nil
}
