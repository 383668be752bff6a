// Package service implements monitor management scoped to workspace members.
package service

import (
	"context"
	"time"

	"statuspage_backend/internal/monitors/repository"
	"statuspage_backend/internal/monitors/transport"
	"statuspage_backend/internal/plans"
	"statuspage_backend/platform/apperr"
	"statuspage_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

const (
	monitorNotFoundMessage = "monitor not found"
	lastStatusFanOut       = 5
)

// Workspace is the slice of workspace state monitor rules depend on.
type Workspace struct {
	ID   int64
	Slug string
	Plan string
}

// WorkspaceAccess resolves workspaces the caller belongs to. Both methods
// return an apperr NotFound when the caller is not a member.
type WorkspaceAccess interface {
	MemberWorkspace(ctx context.Context, tenantID string, workspaceID int64) (Workspace, error)
	MemberWorkspaceBySlug(ctx context.Context, tenantID, slug string) (Workspace, error)
}

// StatusReader returns the last recorded HTTP status of a monitor. ok is
// false when no check has been recorded yet.
type StatusReader interface {
	LastStatus(ctx context.Context, monitorID int64) (code int, ok bool, err error)
}

// Service handles monitor use cases.
type Service struct {
	repo       repository.Repository
	workspaces WorkspaceAccess
	status     StatusReader
	log        *logger.Logger
}

// New creates a monitor service. status may be nil when analytics are disabled.
func New(repo repository.Repository, workspaces WorkspaceAccess, status StatusReader, log *logger.Logger) *Service {
	return &Service{repo: repo, workspaces: workspaces, status: status, log: log}
}

// Get returns a monitor the caller can see.
func (s *Service) Get(ctx context.Context, tenantID string, id int64) (transport.MonitorResponse, error) {
	m, _, err := s.authorize(ctx, tenantID, id)
	if err != nil {
		return transport.MonitorResponse{}, err
	}
	return toResponse(m), nil
}

// Update applies a partial update after checking membership and plan limits.
func (s *Service) Update(ctx context.Context, tenantID string, id int64, req transport.UpdateMonitorRequest) (transport.MonitorResponse, error) {
	_, ws, err := s.authorize(ctx, tenantID, id)
	if err != nil {
		return transport.MonitorResponse{}, err
	}

	if req.Periodicity != nil && *req.Periodicity != "other" && !plans.AllowsPeriodicity(ws.Plan, *req.Periodicity) {
		return transport.MonitorResponse{}, apperr.Forbidden("periodicity not available on the current plan").
			WithDetails(map[string]string{"plan": ws.Plan, "periodicity": *req.Periodicity})
	}

	params := repository.UpdateMonitorParams{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		URL:         req.URL,
		Method:      req.Method,
		Periodicity: req.Periodicity,
		Active:      req.Active,
		Regions:     req.Regions,
		Body:        req.Body,
	}
	if req.Headers != nil {
		headers := make([]repository.Header, 0, len(*req.Headers))
		for _, h := range *req.Headers {
			headers = append(headers, repository.Header{Key: h.Key, Value: h.Value})
		}
		params.Headers = &headers
	}

	updated, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.MonitorResponse{}, err
	}
	return toResponse(updated), nil
}

// Delete removes a monitor the caller can see.
func (s *Service) Delete(ctx context.Context, tenantID string, id int64) error {
	if _, _, err := s.authorize(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ListForWorkspace returns the workspace's monitors with their last status
// and whether the plan's monitor limit is reached. Analytics failures drop
// the status, never the list.
func (s *Service) ListForWorkspace(ctx context.Context, tenantID, slug string) (transport.WorkspaceMonitorsResponse, error) {
	ws, err := s.workspaces.MemberWorkspaceBySlug(ctx, tenantID, slug)
	if err != nil {
		return transport.WorkspaceMonitorsResponse{}, err
	}

	monitors, err := s.repo.ListByWorkspace(ctx, ws.ID)
	if err != nil {
		return transport.WorkspaceMonitorsResponse{}, err
	}

	items := make([]transport.MonitorResponse, len(monitors))
	for i, m := range monitors {
		items[i] = toResponse(m)
	}
	s.attachLastStatus(ctx, items)

	return transport.WorkspaceMonitorsResponse{
		Monitors: items,
		IsLimit:  plans.MonitorLimitReached(ws.Plan, len(monitors)),
		Plan:     string(plans.Get(ws.Plan).Name),
	}, nil
}

func (s *Service) attachLastStatus(ctx context.Context, items []transport.MonitorResponse) {
	if s.status == nil || len(items) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lastStatusFanOut)
	for i := range items {
		i := i
		g.Go(func() error {
			code, ok, err := s.status.LastStatus(gctx, items[i].ID)
			if err != nil {
				s.log.Warn("last status lookup failed", "monitorId", items[i].ID, "error", err)
				return nil
			}
			if ok {
				items[i].LastStatusCode = &code
			}
			return nil
		})
	}
	_ = g.Wait()
}

// authorize loads the monitor and confirms the caller belongs to its
// workspace. Foreign monitors are reported as missing.
func (s *Service) authorize(ctx context.Context, tenantID string, id int64) (repository.Monitor, Workspace, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Monitor{}, Workspace{}, err
	}

	ws, err := s.workspaces.MemberWorkspace(ctx, tenantID, m.WorkspaceID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return repository.Monitor{}, Workspace{}, apperr.NotFound(monitorNotFoundMessage)
		}
		return repository.Monitor{}, Workspace{}, err
	}
	return m, ws, nil
}

func toResponse(m repository.Monitor) transport.MonitorResponse {
	headers := make([]transport.HeaderDTO, 0, len(m.Headers))
	for _, h := range m.Headers {
		headers = append(headers, transport.HeaderDTO{Key: h.Key, Value: h.Value})
	}
	regions := m.Regions
	if regions == nil {
		regions = []string{}
	}

	return transport.MonitorResponse{
		ID:          m.ID,
		WorkspaceID: m.WorkspaceID,
		Name:        m.Name,
		Description: m.Description,
		URL:         m.URL,
		Method:      m.Method,
		Periodicity: m.Periodicity,
		Active:      m.Active,
		Regions:     regions,
		Headers:     headers,
		Body:        m.Body,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   m.UpdatedAt.Format(time.RFC3339),
	}
}
