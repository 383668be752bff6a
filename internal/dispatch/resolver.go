package dispatch

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

const (
	// AppRootPath is the dashboard entry point resolved on first login.
	AppRootPath = "/app"
	// IntegrationConfigurePath is the third-party deployment integration callback.
	IntegrationConfigurePath = "/app/integrations/vercel/configure"
)

// Resolver decides where an authenticated user landing on the app should go.
// Every call performs fresh lookups, each bounded by timeout.
type Resolver struct {
	store   WorkspaceStore
	timeout time.Duration
	metrics *Metrics
}

// NewResolver creates a resolver over store.
func NewResolver(store WorkspaceStore, timeout time.Duration, metrics *Metrics) *Resolver {
	return &Resolver{store: store, timeout: timeout, metrics: metrics}
}

// FirstWorkspace returns the user's first workspace. ok is false when the
// user has no membership or the membership points at a missing workspace.
func (r *Resolver) FirstWorkspace(ctx context.Context, externalID string) (Workspace, bool, error) {
	var memberships []Membership
	err := r.lookup(ctx, "memberships", func(ctx context.Context) error {
		var err error
		memberships, err = r.store.ListMemberships(ctx, externalID)
		return err
	})
	if err != nil {
		return Workspace{}, false, fmt.Errorf("list memberships: %w", err)
	}
	if len(memberships) == 0 {
		return Workspace{}, false, nil
	}

	var (
		ws Workspace
		ok bool
	)
	err = r.lookup(ctx, "workspace", func(ctx context.Context) error {
		var err error
		ws, ok, err = r.store.GetWorkspace(ctx, memberships[0].WorkspaceID)
		return err
	})
	if err != nil {
		return Workspace{}, false, fmt.Errorf("get workspace: %w", err)
	}
	return ws, ok, nil
}

// AppRoot returns the redirect target for the app root: onboarding while the
// workspace has no monitor, its monitor list otherwise. ok is false when no
// workspace could be resolved and the request should fall through.
func (r *Resolver) AppRoot(ctx context.Context, externalID string) (string, bool, error) {
	ws, ok, err := r.FirstWorkspace(ctx, externalID)
	if err != nil || !ok {
		return "", false, err
	}

	var hasMonitor bool
	err = r.lookup(ctx, "monitor", func(ctx context.Context) error {
		var err error
		hasMonitor, err = r.store.HasMonitor(ctx, ws.ID)
		return err
	})
	if err != nil {
		return "", false, fmt.Errorf("check monitors: %w", err)
	}

	if !hasMonitor {
		return OnboardingURL(ws.Slug), true, nil
	}
	return MonitorsURL(ws.Slug), true, nil
}

// IntegrationConfigure returns the workspace-scoped integration configure
// path, preserving query parameters sent by the integration provider.
func (r *Resolver) IntegrationConfigure(ctx context.Context, externalID, rawQuery string) (string, bool, error) {
	ws, ok, err := r.FirstWorkspace(ctx, externalID)
	if err != nil || !ok {
		return "", false, err
	}

	target := "/app/" + url.PathEscape(ws.Slug) + "/integrations/vercel/configure"
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	return target, true, nil
}

// OnboardingURL is the onboarding page for a workspace without monitors.
func OnboardingURL(slug string) string {
	return "/app/onboarding?workspaceSlug=" + url.QueryEscape(slug)
}

// MonitorsURL is the monitor list of a workspace.
func MonitorsURL(slug string) string {
	return "/app/" + url.PathEscape(slug) + "/monitors"
}

func (r *Resolver) lookup(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	r.metrics.observeLookup(name, time.Since(start), err)
	return err
}
