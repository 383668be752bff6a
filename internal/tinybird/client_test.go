package tinybird

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"statuspage_backend/platform/config"
	"statuspage_backend/platform/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(&config.Config{TinybirdURL: srv.URL + "/", TinybirdToken: "tb_token"}, logger.Discard())
}

func TestPublishPingResponseSendsNDJSON(t *testing.T) {
	var gotPath, gotName, gotAuth, gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotName = r.URL.Query().Get("name")
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusAccepted)
	})

	err := client.PublishPingResponse(context.Background(), PingResponse{
		WorkspaceID: "1", MonitorID: "7", StatusCode: 200, Latency: 42, Region: "ams",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v0/events" || gotName != datasourcePingResponse {
		t.Fatalf("unexpected endpoint %q name=%q", gotPath, gotName)
	}
	if gotAuth != "Bearer tb_token" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if !strings.HasSuffix(gotBody, "\n") {
		t.Fatal("expected newline-terminated event")
	}

	var decoded PingResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(gotBody)), &decoded); err != nil {
		t.Fatalf("body is not a single JSON event: %v", err)
	}
	if decoded.MonitorID != "7" || decoded.StatusCode != 200 {
		t.Fatalf("unexpected event %+v", decoded)
	}
}

func TestGetResponseListQueriesPipe(t *testing.T) {
	var gotPath, gotMonitor, gotLimit string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMonitor = r.URL.Query().Get("monitorId")
		gotLimit = r.URL.Query().Get("limit")
		_, _ = w.Write([]byte(`{"data":[{"monitorId":"7","statusCode":503,"latency":120,"region":"iad"}]}`))
	})

	items, err := client.GetResponseList(context.Background(), ResponseListParams{MonitorID: "7", Limit: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v0/pipes/response_list__v0.json" || gotMonitor != "7" || gotLimit != "1" {
		t.Fatalf("unexpected query path=%q monitor=%q limit=%q", gotPath, gotMonitor, gotLimit)
	}
	if len(items) != 1 || items[0].StatusCode != 503 || items[0].Region != "iad" {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestGetMonitorListEmptyDataIsEmptySlice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meta":[]}`))
	})

	items, err := client.GetMonitorList(context.Background(), MonitorListParams{MonitorID: "7"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty slice, got %#v", items)
	}
}

func TestPipeErrorStatusIsReported(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	if _, err := client.GetMonitorList(context.Background(), MonitorListParams{MonitorID: "7"}); err == nil {
		t.Fatal("expected upstream error")
	}
}

func TestDisabledClientSkipsNetwork(t *testing.T) {
	client := New(&config.Config{TinybirdURL: "http://127.0.0.1:1"}, logger.Discard())

	if client.Enabled() {
		t.Fatal("client without token must be disabled")
	}
	if err := client.PublishPingResponse(context.Background(), PingResponse{}); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	if _, err := client.GetResponseList(context.Background(), ResponseListParams{}); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}
