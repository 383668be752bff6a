package statuspage

import (
	"context"
	"strings"

	"statuspage_backend/platform/apperr"
	"statuspage_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

const (
	sectionOverview  = ""
	sectionIncidents = "incidents"

	overviewIncidentLimit = 5
	archiveIncidentLimit  = 50
	uptimeDays            = 45
	uptimeFanOut          = 5
)

// PublicMonitor is the monitor data a status page may show.
type PublicMonitor struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Uptime      []UptimeBucket `json:"uptime,omitempty"`
}

// UptimeBucket is one day of aggregated checks.
type UptimeBucket struct {
	Day        int64   `json:"day"`
	Count      int     `json:"count"`
	OK         int     `json:"ok"`
	AvgLatency float64 `json:"avgLatency"`
}

// PublicIncidentUpdate is a timeline entry as shown publicly.
type PublicIncidentUpdate struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

// PublicIncident is an incident as shown publicly.
type PublicIncident struct {
	ID        int64                  `json:"id"`
	Title     string                 `json:"title"`
	Status    string                 `json:"status"`
	CreatedAt string                 `json:"createdAt"`
	Updates   []PublicIncidentUpdate `json:"updates"`
}

// MonitorSource lists the active monitors of a workspace.
type MonitorSource interface {
	ActiveMonitors(ctx context.Context, workspaceID int64) ([]PublicMonitor, error)
}

// IncidentSource lists recent incidents of a workspace.
type IncidentSource interface {
	RecentIncidents(ctx context.Context, workspaceID int64, limit int) ([]PublicIncident, error)
}

// UptimeSource returns daily uptime buckets for a monitor.
type UptimeSource interface {
	Uptime(ctx context.Context, monitorID int64, days int) ([]UptimeBucket, error)
}

// PageView is the rendered status page.
type PageView struct {
	Page      PageSummary      `json:"page"`
	Locale    string           `json:"locale"`
	Section   string           `json:"section"`
	Monitors  []PublicMonitor  `json:"monitors"`
	Incidents []PublicIncident `json:"incidents"`
}

// PageSummary is the public part of a page row.
type PageSummary struct {
	Slug         string  `json:"slug"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	CustomDomain *string `json:"customDomain,omitempty"`
}

// Service renders status pages.
type Service struct {
	pages     PageReader
	monitors  MonitorSource
	incidents IncidentSource
	uptime    UptimeSource
	log       *logger.Logger
}

// NewService creates a renderer. uptime may be nil.
func NewService(pages PageReader, monitors MonitorSource, incidents IncidentSource, uptime UptimeSource, log *logger.Logger) *Service {
	return &Service{pages: pages, monitors: monitors, incidents: incidents, uptime: uptime, log: log}
}

// Render builds the view of tenant's page at path.
func (s *Service) Render(ctx context.Context, tenant, locale, path string) (PageView, error) {
	section := strings.Trim(path, "/")
	if section != sectionOverview && section != sectionIncidents {
		return PageView{}, apperr.NotFound(pageNotFoundMessage)
	}

	page, err := s.pages.GetByTenant(ctx, tenant)
	if err != nil {
		return PageView{}, err
	}

	view := PageView{
		Page: PageSummary{
			Slug:         page.Slug,
			Title:        page.Title,
			Description:  page.Description,
			CustomDomain: page.CustomDomain,
		},
		Locale:    locale,
		Section:   section,
		Monitors:  []PublicMonitor{},
		Incidents: []PublicIncident{},
	}

	limit := overviewIncidentLimit
	if section == sectionIncidents {
		limit = archiveIncidentLimit
	}
	incidents, err := s.incidents.RecentIncidents(ctx, page.WorkspaceID, limit)
	if err != nil {
		return PageView{}, err
	}
	view.Incidents = incidents

	if section == sectionOverview {
		monitors, err := s.monitors.ActiveMonitors(ctx, page.WorkspaceID)
		if err != nil {
			return PageView{}, err
		}
		s.attachUptime(ctx, monitors)
		view.Monitors = monitors
	}
	return view, nil
}

func (s *Service) attachUptime(ctx context.Context, monitors []PublicMonitor) {
	if s.uptime == nil {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uptimeFanOut)
	for i := range monitors {
		i := i
		g.Go(func() error {
			buckets, err := s.uptime.Uptime(gctx, monitors[i].ID, uptimeDays)
			if err != nil {
				s.log.Warn("uptime lookup failed", "monitorId", monitors[i].ID, "error", err)
				return nil
			}
			monitors[i].Uptime = buckets
			return nil
		})
	}
	_ = g.Wait()
}
