package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"statuspage_backend/internal/checker"
	"statuspage_backend/internal/incidents/transport"
	monitorrepo "statuspage_backend/internal/monitors/repository"
	"statuspage_backend/internal/tinybird"
	workspacerepo "statuspage_backend/internal/workspaces/repository"
	"statuspage_backend/platform/apperr"
)

type fakeWorkspaces struct {
	memberships []workspacerepo.Membership
	workspaces  map[int64]workspacerepo.Workspace
	members     map[string]bool
	err         error
}

func (f *fakeWorkspaces) ListMembershipsByTenant(_ context.Context, _ string) ([]workspacerepo.Membership, error) {
	return f.memberships, f.err
}

func (f *fakeWorkspaces) GetByID(_ context.Context, id int64) (workspacerepo.Workspace, error) {
	if f.err != nil {
		return workspacerepo.Workspace{}, f.err
	}
	ws, ok := f.workspaces[id]
	if !ok {
		return workspacerepo.Workspace{}, apperr.NotFound("workspace not found")
	}
	return ws, nil
}

func (f *fakeWorkspaces) GetBySlugForTenant(_ context.Context, tenantID, slug string) (workspacerepo.Workspace, error) {
	for _, ws := range f.workspaces {
		if ws.Slug == slug && f.members[tenantID] {
			return ws, nil
		}
	}
	return workspacerepo.Workspace{}, apperr.NotFound("workspace not found")
}

func (f *fakeWorkspaces) IsMember(_ context.Context, tenantID string, _ int64) (bool, error) {
	return f.members[tenantID], f.err
}

func (f *fakeWorkspaces) HasMonitor(_ context.Context, _ int64) (bool, error) {
	return true, f.err
}

func newFakeWorkspaces() *fakeWorkspaces {
	return &fakeWorkspaces{
		memberships: []workspacerepo.Membership{{UserID: 1, WorkspaceID: 10}},
		workspaces:  map[int64]workspacerepo.Workspace{10: {ID: 10, Slug: "acme", Plan: "pro"}},
		members:     map[string]bool{"user_1": true},
	}
}

func TestDispatchStoreMapsMissingWorkspace(t *testing.T) {
	store := NewDispatchStore(newFakeWorkspaces())

	ws, ok, err := store.GetWorkspace(context.Background(), 10)
	if err != nil || !ok || ws.Slug != "acme" {
		t.Fatalf("expected acme, got %+v ok=%v err=%v", ws, ok, err)
	}

	_, ok, err = store.GetWorkspace(context.Background(), 99)
	if err != nil || ok {
		t.Fatalf("expected missing workspace to be ok=false without error, got ok=%v err=%v", ok, err)
	}
}

func TestDispatchStorePropagatesErrors(t *testing.T) {
	repo := newFakeWorkspaces()
	repo.err = errors.New("db down")
	store := NewDispatchStore(repo)

	if _, _, err := store.GetWorkspace(context.Background(), 10); err == nil {
		t.Fatal("expected error")
	}
	if _, err := store.ListMemberships(context.Background(), "user_1"); err == nil {
		t.Fatal("expected error")
	}
}

func TestDispatchStoreListsMemberships(t *testing.T) {
	store := NewDispatchStore(newFakeWorkspaces())
	memberships, err := store.ListMemberships(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(memberships) != 1 || memberships[0].WorkspaceID != 10 {
		t.Fatalf("unexpected memberships %+v", memberships)
	}
}

func TestWorkspaceAccessHidesForeignWorkspaces(t *testing.T) {
	access := NewWorkspaceAccess(newFakeWorkspaces())

	ws, err := access.MemberWorkspace(context.Background(), "user_1", 10)
	if err != nil || ws.Plan != "pro" {
		t.Fatalf("expected member workspace, got %+v err=%v", ws, err)
	}

	_, err = access.MemberWorkspace(context.Background(), "user_2", 10)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	id, err := access.MemberWorkspaceID(context.Background(), "user_1", "acme")
	if err != nil || id != 10 {
		t.Fatalf("expected id 10, got %d err=%v", id, err)
	}
}

type fakeResponses struct {
	items []tinybird.ResponseListItem
	err   error
	got   tinybird.ResponseListParams
}

func (f *fakeResponses) GetResponseList(_ context.Context, p tinybird.ResponseListParams) ([]tinybird.ResponseListItem, error) {
	f.got = p
	return f.items, f.err
}

func TestMonitorStatus(t *testing.T) {
	responses := &fakeResponses{items: []tinybird.ResponseListItem{{StatusCode: 503}}}
	status := NewMonitorStatus(responses)

	code, ok, err := status.LastStatus(context.Background(), 7)
	if err != nil || !ok || code != 503 {
		t.Fatalf("expected 503, got %d ok=%v err=%v", code, ok, err)
	}
	if responses.got.MonitorID != "7" || responses.got.Limit != 1 {
		t.Fatalf("unexpected params %+v", responses.got)
	}

	responses.items = nil
	if _, ok, err := status.LastStatus(context.Background(), 7); ok || err != nil {
		t.Fatalf("expected no status, got ok=%v err=%v", ok, err)
	}

	responses.err = tinybird.ErrDisabled
	if _, ok, err := status.LastStatus(context.Background(), 7); ok || err != nil {
		t.Fatalf("expected disabled analytics to be silent, got ok=%v err=%v", ok, err)
	}
}

type fakeMonitorLists struct {
	items []tinybird.MonitorListItem
	err   error
}

func (f *fakeMonitorLists) GetMonitorList(_ context.Context, _ tinybird.MonitorListParams) ([]tinybird.MonitorListItem, error) {
	return f.items, f.err
}

func TestUptimeMapsBuckets(t *testing.T) {
	uptime := NewUptime(&fakeMonitorLists{items: []tinybird.MonitorListItem{{Count: 10, OK: 9, AvgLatency: 120, CronTimestamp: 1700000000000}}})

	buckets, err := uptime.Uptime(context.Background(), 1, 45)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buckets) != 1 || buckets[0].Day != 1700000000000 || buckets[0].OK != 9 {
		t.Fatalf("unexpected buckets %+v", buckets)
	}
}

func TestUptimeDisabledIsEmpty(t *testing.T) {
	uptime := NewUptime(&fakeMonitorLists{err: tinybird.ErrDisabled})
	buckets, err := uptime.Uptime(context.Background(), 1, 45)
	if err != nil || buckets != nil {
		t.Fatalf("expected nil buckets, got %+v err=%v", buckets, err)
	}
}

type fakePings struct {
	got tinybird.PingResponse
}

func (f *fakePings) PublishPingResponse(_ context.Context, event tinybird.PingResponse) error {
	f.got = event
	return nil
}

func TestPingPublisherMapsEvent(t *testing.T) {
	pings := &fakePings{}
	publisher := NewPingPublisher(pings)

	ts := time.UnixMilli(1700000000123)
	err := publisher.PublishCheck(context.Background(), checker.CheckEvent{
		MonitorID:     3,
		WorkspaceID:   10,
		URL:           "https://example.com",
		Region:        "ams",
		CronTimestamp: 1700000000000,
		Timestamp:     ts,
		Result:        checker.Result{StatusCode: 200, Latency: 250 * time.Millisecond},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := pings.got
	if got.MonitorID != "3" || got.WorkspaceID != "10" || got.Latency != 250 || got.Timestamp != 1700000000123 || got.Region != "ams" {
		t.Fatalf("unexpected ping response %+v", got)
	}
}

type fakeMonitors struct {
	rows []monitorrepo.Monitor
}

func (f *fakeMonitors) ListActiveByWorkspace(_ context.Context, _ int64) ([]monitorrepo.Monitor, error) {
	return f.rows, nil
}

func (f *fakeMonitors) ListActiveByPeriodicity(_ context.Context, _ string) ([]monitorrepo.Monitor, error) {
	return f.rows, nil
}

func TestDueMonitorsCopiesRequestShape(t *testing.T) {
	due := NewDueMonitors(&fakeMonitors{rows: []monitorrepo.Monitor{{
		ID:          1,
		WorkspaceID: 10,
		URL:         "https://example.com",
		Method:      "POST",
		Body:        "{}",
		Regions:     []string{"ams"},
		Headers:     []monitorrepo.Header{{Key: "X-Token", Value: "abc"}},
	}}})

	monitors, err := due.DueMonitors(context.Background(), "1m")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := monitors[0]
	if m.Method != "POST" || m.Body != "{}" || len(m.Regions) != 1 || m.Headers[0].Key != "X-Token" {
		t.Fatalf("unexpected monitor %+v", m)
	}
}

func TestPublicMonitorsHidesRequestDetails(t *testing.T) {
	mons := NewPublicMonitors(&fakeMonitors{rows: []monitorrepo.Monitor{{ID: 1, Name: "API", Description: "public api", URL: "https://secret.internal"}}})
	rows, err := mons.ActiveMonitors(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "API" {
		t.Fatalf("unexpected monitors %+v", rows)
	}
}

type fakeIncidents struct {
	rows []transport.IncidentResponse
}

func (f *fakeIncidents) Recent(_ context.Context, _ int64, _ int) ([]transport.IncidentResponse, error) {
	return f.rows, nil
}

func TestPublicIncidentsKeepsTimeline(t *testing.T) {
	incidents := NewPublicIncidents(&fakeIncidents{rows: []transport.IncidentResponse{{
		ID:     1,
		Title:  "Outage",
		Status: "resolved",
		Updates: []transport.IncidentUpdateResponse{
			{Status: "investigating", Message: "looking", Date: "2024-01-01T00:00:00Z"},
			{Status: "resolved", Message: "fixed", Date: "2024-01-01T01:00:00Z"},
		},
	}}})

	rows, err := incidents.RecentIncidents(context.Background(), 10, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || len(rows[0].Updates) != 2 || rows[0].Updates[1].Status != "resolved" {
		t.Fatalf("unexpected incidents %+v", rows)
	}
}
