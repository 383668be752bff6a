// Package tinybird is a typed client for the analytics API that stores check
// results: one ingest endpoint and the pipes that read them back.
package tinybird

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"statuspage_backend/platform/config"
	"statuspage_backend/platform/logger"
)

// ErrDisabled is returned by every call when no API token is configured.
var ErrDisabled = errors.New("tinybird: client disabled")

// Client talks to the Tinybird HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	log        *logger.Logger
}

// New creates a Tinybird client from configuration.
func New(cfg config.TinybirdConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimSuffix(cfg.GetTinybirdURL(), "/"),
		token:      cfg.GetTinybirdToken(),
		log:        log,
	}
}

// Enabled reports whether the client has credentials.
func (c *Client) Enabled() bool {
	return c != nil && c.token != ""
}

// PublishPingResponse ingests one check result.
func (c *Client) PublishPingResponse(ctx context.Context, event PingResponse) error {
	if !c.Enabled() {
		return ErrDisabled
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode ping response: %w", err)
	}

	params := url.Values{}
	params.Set("name", datasourcePingResponse)
	reqURL := fmt.Sprintf("%s/v0/events?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(append(body, '\n')))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		c.log.Error("tinybird ingest failed", "status", resp.StatusCode, "datasource", datasourcePingResponse)
		return fmt.Errorf("ingest %s: status %d", datasourcePingResponse, resp.StatusCode)
	}
	return nil
}

// GetResponseList returns raw check results, newest first.
func (c *Client) GetResponseList(ctx context.Context, p ResponseListParams) ([]ResponseListItem, error) {
	params := url.Values{}
	params.Set("monitorId", p.MonitorID)
	if p.Region != "" {
		params.Set("region", p.Region)
	}
	if p.Limit > 0 {
		params.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Start > 0 {
		params.Set("start", strconv.FormatInt(p.Start, 10))
	}
	if p.End > 0 {
		params.Set("end", strconv.FormatInt(p.End, 10))
	}
	return queryPipe[ResponseListItem](ctx, c, pipeResponseList, params)
}

// GetMonitorList returns daily aggregates for a monitor.
func (c *Client) GetMonitorList(ctx context.Context, p MonitorListParams) ([]MonitorListItem, error) {
	return queryPipe[MonitorListItem](ctx, c, pipeMonitorList, monitorListValues(p))
}

func monitorListValues(p MonitorListParams) url.Values {
	params := url.Values{}
	params.Set("monitorId", p.MonitorID)
	if p.Limit > 0 {
		params.Set("limit", strconv.Itoa(p.Limit))
	}
	return params
}

func queryPipe[T any](ctx context.Context, c *Client, pipe string, params url.Values) ([]T, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	reqURL := fmt.Sprintf("%s/v0/pipes/%s.json?%s", c.baseURL, url.PathEscape(pipe), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		c.log.Error("tinybird unauthorized", "status", resp.StatusCode, "pipe", pipe)
		return nil, fmt.Errorf("pipe %s: unauthorized", pipe)
	case http.StatusNotFound:
		return nil, fmt.Errorf("pipe %s: not found", pipe)
	default:
		c.log.Error("tinybird upstream error", "status", resp.StatusCode, "pipe", pipe)
		return nil, fmt.Errorf("pipe %s: status %d", pipe, resp.StatusCode)
	}

	var decoded pipeResponse[T]
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode %s: %w", pipe, err)
	}
	if decoded.Data == nil {
		return []T{}, nil
	}
	return decoded.Data, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("tinybird request failed", "error", err, "path", req.URL.Path)
		return nil, fmt.Errorf("http request: %w", err)
	}
	return resp, nil
}
