// Package service implements incident timelines.
package service

import (
	"context"
	"time"

	"statuspage_backend/internal/incidents/repository"
	"statuspage_backend/internal/incidents/transport"
)

// WorkspaceResolver maps a workspace slug to its id for a member. Non-members
// get an apperr NotFound.
type WorkspaceResolver interface {
	MemberWorkspaceID(ctx context.Context, tenantID, slug string) (int64, error)
}

// Service handles incident use cases.
type Service struct {
	repo       repository.Repository
	workspaces WorkspaceResolver
	now        func() time.Time
}

// New creates an incident service.
func New(repo repository.Repository, workspaces WorkspaceResolver) *Service {
	return &Service{repo: repo, workspaces: workspaces, now: time.Now}
}

// Get returns an incident with its timeline.
func (s *Service) Get(ctx context.Context, tenantID, slug string, incidentID int64) (transport.IncidentResponse, error) {
	inc, err := s.incident(ctx, tenantID, slug, incidentID)
	if err != nil {
		return transport.IncidentResponse{}, err
	}
	return s.withUpdates(ctx, inc)
}

// CreateUpdate appends a timeline entry. A missing date means now.
func (s *Service) CreateUpdate(ctx context.Context, tenantID, slug string, incidentID int64, req transport.CreateIncidentUpdateRequest) (transport.IncidentUpdateResponse, error) {
	inc, err := s.incident(ctx, tenantID, slug, incidentID)
	if err != nil {
		return transport.IncidentUpdateResponse{}, err
	}

	date := s.now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}

	created, err := s.repo.CreateUpdate(ctx, repository.CreateUpdateParams{
		IncidentID: inc.ID,
		Status:     req.Status,
		Message:    req.Message,
		Date:       date,
	})
	if err != nil {
		return transport.IncidentUpdateResponse{}, err
	}
	return toUpdateResponse(created), nil
}

// EditUpdate changes an existing timeline entry.
func (s *Service) EditUpdate(ctx context.Context, tenantID, slug string, incidentID, updateID int64, req transport.UpdateIncidentUpdateRequest) (transport.IncidentUpdateResponse, error) {
	inc, err := s.incident(ctx, tenantID, slug, incidentID)
	if err != nil {
		return transport.IncidentUpdateResponse{}, err
	}

	var date *time.Time
	if req.Date != nil {
		utc := req.Date.UTC()
		date = &utc
	}

	updated, err := s.repo.UpdateUpdate(ctx, repository.UpdateUpdateParams{
		ID:         updateID,
		IncidentID: inc.ID,
		Status:     req.Status,
		Message:    req.Message,
		Date:       date,
	})
	if err != nil {
		return transport.IncidentUpdateResponse{}, err
	}
	return toUpdateResponse(updated), nil
}

// Recent returns the latest incidents of a workspace with their timelines,
// for public status pages.
func (s *Service) Recent(ctx context.Context, workspaceID int64, limit int) ([]transport.IncidentResponse, error) {
	incidents, err := s.repo.ListRecentByWorkspace(ctx, workspaceID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]transport.IncidentResponse, 0, len(incidents))
	for _, inc := range incidents {
		resp, err := s.withUpdates(ctx, inc)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *Service) incident(ctx context.Context, tenantID, slug string, incidentID int64) (repository.Incident, error) {
	workspaceID, err := s.workspaces.MemberWorkspaceID(ctx, tenantID, slug)
	if err != nil {
		return repository.Incident{}, err
	}
	return s.repo.GetIncident(ctx, workspaceID, incidentID)
}

func (s *Service) withUpdates(ctx context.Context, inc repository.Incident) (transport.IncidentResponse, error) {
	updates, err := s.repo.ListUpdates(ctx, inc.ID)
	if err != nil {
		return transport.IncidentResponse{}, err
	}

	items := make([]transport.IncidentUpdateResponse, 0, len(updates))
	for _, u := range updates {
		items = append(items, toUpdateResponse(u))
	}
	return transport.IncidentResponse{
		ID:        inc.ID,
		Title:     inc.Title,
		Status:    inc.Status,
		Updates:   items,
		CreatedAt: inc.CreatedAt.Format(time.RFC3339),
	}, nil
}

func toUpdateResponse(u repository.IncidentUpdate) transport.IncidentUpdateResponse {
	return transport.IncidentUpdateResponse{
		ID:         u.ID,
		IncidentID: u.IncidentID,
		Status:     u.Status,
		Message:    u.Message,
		Date:       u.Date.Format(time.RFC3339),
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  u.UpdatedAt.Format(time.RFC3339),
	}
}
