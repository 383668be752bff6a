package adapters

import (
	"context"

	"statuspage_backend/internal/checker"
	"statuspage_backend/internal/incidents/transport"
	monitorrepo "statuspage_backend/internal/monitors/repository"
	"statuspage_backend/internal/statuspage"
)

// MonitorLister is the subset of the monitor repository the adapters read.
type MonitorLister interface {
	ListActiveByWorkspace(ctx context.Context, workspaceID int64) ([]monitorrepo.Monitor, error)
	ListActiveByPeriodicity(ctx context.Context, periodicity string) ([]monitorrepo.Monitor, error)
}

// IncidentLister returns recent incidents with their timelines.
type IncidentLister interface {
	Recent(ctx context.Context, workspaceID int64, limit int) ([]transport.IncidentResponse, error)
}

// PublicMonitors exposes active monitors to status pages.
type PublicMonitors struct {
	monitors MonitorLister
}

func NewPublicMonitors(monitors MonitorLister) *PublicMonitors {
	return &PublicMonitors{monitors: monitors}
}

func (a *PublicMonitors) ActiveMonitors(ctx context.Context, workspaceID int64) ([]statuspage.PublicMonitor, error) {
	rows, err := a.monitors.ListActiveByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	result := make([]statuspage.PublicMonitor, 0, len(rows))
	for _, m := range rows {
		result = append(result, statuspage.PublicMonitor{ID: m.ID, Name: m.Name, Description: m.Description})
	}
	return result, nil
}

// PublicIncidents exposes incident timelines to status pages.
type PublicIncidents struct {
	incidents IncidentLister
}

func NewPublicIncidents(incidents IncidentLister) *PublicIncidents {
	return &PublicIncidents{incidents: incidents}
}

func (a *PublicIncidents) RecentIncidents(ctx context.Context, workspaceID int64, limit int) ([]statuspage.PublicIncident, error) {
	rows, err := a.incidents.Recent(ctx, workspaceID, limit)
	if err != nil {
		return nil, err
	}
	result := make([]statuspage.PublicIncident, 0, len(rows))
	for _, inc := range rows {
		updates := make([]statuspage.PublicIncidentUpdate, 0, len(inc.Updates))
		for _, u := range inc.Updates {
			updates = append(updates, statuspage.PublicIncidentUpdate{Status: u.Status, Message: u.Message, Date: u.Date})
		}
		result = append(result, statuspage.PublicIncident{
			ID:        inc.ID,
			Title:     inc.Title,
			Status:    inc.Status,
			CreatedAt: inc.CreatedAt,
			Updates:   updates,
		})
	}
	return result, nil
}

// DueMonitors feeds the checker scheduler from the monitor repository.
type DueMonitors struct {
	monitors MonitorLister
}

func NewDueMonitors(monitors MonitorLister) *DueMonitors {
	return &DueMonitors{monitors: monitors}
}

func (a *DueMonitors) DueMonitors(ctx context.Context, periodicity string) ([]checker.Monitor, error) {
	rows, err := a.monitors.ListActiveByPeriodicity(ctx, periodicity)
	if err != nil {
		return nil, err
	}
	result := make([]checker.Monitor, 0, len(rows))
	for _, m := range rows {
		headers := make([]checker.Header, 0, len(m.Headers))
		for _, h := range m.Headers {
			headers = append(headers, checker.Header{Key: h.Key, Value: h.Value})
		}
		result = append(result, checker.Monitor{
			ID:          m.ID,
			WorkspaceID: m.WorkspaceID,
			URL:         m.URL,
			Method:      m.Method,
			Headers:     headers,
			Body:        m.Body,
			Regions:     m.Regions,
		})
	}
	return result, nil
}
