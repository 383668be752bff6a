package adapters

import (
	"context"

	"statuspage_backend/internal/dispatch"
	monitorsvc "statuspage_backend/internal/monitors/service"
	workspacerepo "statuspage_backend/internal/workspaces/repository"
	"statuspage_backend/platform/apperr"
)

const msgWorkspaceNotFound = "workspace not found"

// DispatchStore exposes the workspace store to the request dispatcher.
type DispatchStore struct {
	repo workspacerepo.Reader
}

func NewDispatchStore(repo workspacerepo.Reader) *DispatchStore {
	return &DispatchStore{repo: repo}
}

func (a *DispatchStore) ListMemberships(ctx context.Context, externalID string) ([]dispatch.Membership, error) {
	rows, err := a.repo.ListMembershipsByTenant(ctx, externalID)
	if err != nil {
		return nil, err
	}
	result := make([]dispatch.Membership, 0, len(rows))
	for _, m := range rows {
		result = append(result, dispatch.Membership{UserID: m.UserID, WorkspaceID: m.WorkspaceID, CreatedAt: m.CreatedAt})
	}
	return result, nil
}

func (a *DispatchStore) GetWorkspace(ctx context.Context, id int64) (dispatch.Workspace, bool, error) {
	ws, err := a.repo.GetByID(ctx, id)
	if apperr.Is(err, apperr.KindNotFound) {
		return dispatch.Workspace{}, false, nil
	}
	if err != nil {
		return dispatch.Workspace{}, false, err
	}
	return dispatch.Workspace{ID: ws.ID, Slug: ws.Slug}, true, nil
}

func (a *DispatchStore) HasMonitor(ctx context.Context, workspaceID int64) (bool, error) {
	return a.repo.HasMonitor(ctx, workspaceID)
}

// WorkspaceAccess answers membership checks for the dashboard modules.
type WorkspaceAccess struct {
	repo workspacerepo.Reader
}

func NewWorkspaceAccess(repo workspacerepo.Reader) *WorkspaceAccess {
	return &WorkspaceAccess{repo: repo}
}

// MemberWorkspace returns the workspace if tenantID belongs to it. Non-members
// get the same NotFound as a missing workspace.
func (a *WorkspaceAccess) MemberWorkspace(ctx context.Context, tenantID string, workspaceID int64) (monitorsvc.Workspace, error) {
	member, err := a.repo.IsMember(ctx, tenantID, workspaceID)
	if err != nil {
		return monitorsvc.Workspace{}, err
	}
	if !member {
		return monitorsvc.Workspace{}, apperr.NotFound(msgWorkspaceNotFound)
	}
	ws, err := a.repo.GetByID(ctx, workspaceID)
	if err != nil {
		return monitorsvc.Workspace{}, err
	}
	return toMonitorWorkspace(ws), nil
}

func (a *WorkspaceAccess) MemberWorkspaceBySlug(ctx context.Context, tenantID, slug string) (monitorsvc.Workspace, error) {
	ws, err := a.repo.GetBySlugForTenant(ctx, tenantID, slug)
	if err != nil {
		return monitorsvc.Workspace{}, err
	}
	return toMonitorWorkspace(ws), nil
}

// MemberWorkspaceID resolves a workspace slug for the incidents module.
func (a *WorkspaceAccess) MemberWorkspaceID(ctx context.Context, tenantID, slug string) (int64, error) {
	ws, err := a.repo.GetBySlugForTenant(ctx, tenantID, slug)
	if err != nil {
		return 0, err
	}
	return ws.ID, nil
}

func toMonitorWorkspace(ws workspacerepo.Workspace) monitorsvc.Workspace {
	return monitorsvc.Workspace{ID: ws.ID, Slug: ws.Slug, Plan: ws.Plan}
}
