// Package dispatch decides, for every inbound request, whether it is a tenant
// status page, an authenticated app route or a public route, and rewrites or
// redirects it accordingly before the router sees it.
package dispatch

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"statuspage_backend/platform/config"
	"statuspage_backend/platform/httpkit"
	"statuspage_backend/platform/logger"
)

// Authenticator resolves the caller's session from the request.
type Authenticator interface {
	Authenticate(r *http.Request) httpkit.Session
}

// Stage is one step of the dispatch pipeline.
type Stage struct {
	Name string
	Run  func(ctx context.Context, req *Request) Outcome
}

// Dispatcher runs the ordered stages and stops at the first outcome that is
// not Continue.
type Dispatcher struct {
	hosts       HostClassifier
	routes      *RouteMatcher
	locales     *LocaleRewriter
	auth        Authenticator
	resolver    *Resolver
	passthrough []string
	signInURL   string
	log         *logger.Logger
	metrics     *Metrics
	stages      []Stage
}

// New creates a dispatcher from configuration.
func New(cfg config.DispatchConfig, auth Authenticator, store WorkspaceStore, log *logger.Logger, metrics *Metrics) *Dispatcher {
	signInURL := cfg.GetSignInURL()
	public := append([]string(nil), cfg.GetPublicRoutes()...)
	if signInPath := pathOf(signInURL); signInPath != "" {
		// the sign-in page must stay reachable or the auth gate would loop
		public = append(public, signInPath, strings.TrimSuffix(signInPath, "/")+"/*")
	}

	d := &Dispatcher{
		hosts:       NewHostClassifier(cfg.GetCanonicalDomain(), cfg.GetPreviewDomainSuffix(), cfg.GetTunnelDomainMarker()),
		routes:      NewRouteMatcher(public, cfg.GetIgnoredRoutes()),
		locales:     NewLocaleRewriter(cfg.GetSupportedLocales(), cfg.GetDefaultLocale(), cfg.GetLocaleCookieName()),
		auth:        auth,
		resolver:    NewResolver(store, cfg.GetLookupTimeout(), metrics),
		passthrough: cleanPatterns(cfg.GetPassthroughRoutes()),
		signInURL:   signInURL,
		log:         log,
		metrics:     metrics,
	}
	d.stages = []Stage{
		{Name: "passthrough", Run: d.passthroughStage},
		{Name: "tenant", Run: d.tenantStage},
		{Name: "auth", Run: d.authStage},
		{Name: "onboarding", Run: d.onboardingStage},
		{Name: "integration", Run: d.integrationStage},
	}
	return d
}

// Routes exposes the route matcher, used by the router to skip
// instrumentation on ignored paths.
func (d *Dispatcher) Routes() *RouteMatcher {
	return d.routes
}

// Locales returns the supported locale codes.
func (d *Dispatcher) Locales() []string {
	return d.locales.Locales()
}

// Dispatch runs the pipeline for r. It returns the deciding outcome, the
// name of the stage that produced it ("" when every stage continued) and the
// request state.
func (d *Dispatcher) Dispatch(r *http.Request) (Outcome, string, *Request) {
	req := &Request{
		HTTP:    r,
		Path:    normalizePath(r.URL.Path),
		Session: d.auth.Authenticate(r),
	}
	req.Class = d.routes.Classify(req.Path)

	ctx := r.Context()
	for _, stage := range d.stages {
		outcome := stage.Run(ctx, req)
		if outcome.Kind != OutcomeContinue {
			return outcome, stage.Name, req
		}
	}
	return Continue(), "", req
}

// Handler wraps next with the dispatcher. Rewrites are served by next under
// the new path; redirects and failures never reach it.
func (d *Dispatcher) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		outcome, stage, req := d.Dispatch(r)

		ctx := httpkit.WithSession(r.Context(), req.Session)
		if req.Session.IsAuthenticated() {
			ctx = context.WithValue(ctx, logger.UserIDKey, req.Session.UserID)
		}

		if !d.routes.Ignored(req.Path) {
			if stage == "" {
				stage = "none"
			}
			d.metrics.observeOutcome(stage, outcome.Kind)
		}

		switch outcome.Kind {
		case OutcomeRewrite:
			rewritten := r.Clone(ctx)
			u := *r.URL
			u.Path = outcome.Target
			u.RawPath = ""
			rewritten.URL = &u
			d.log.Rewrite(r.URL.Path, outcome.Target, req.Tenant)
			next.ServeHTTP(w, rewritten)
		case OutcomeRedirect:
			d.log.Redirect(stage, r.URL.Path, outcome.Target)
			http.Redirect(w, r, outcome.Target, http.StatusFound)
		case OutcomeError:
			d.log.WithContext(ctx).LookupFailed(stage, r.URL.Path, outcome.Err)
			httpkit.WriteInternalError(w)
		default:
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	})
}

func (d *Dispatcher) passthroughStage(_ context.Context, req *Request) Outcome {
	req.Passthrough = matchAny(d.passthrough, req.Path)
	return Continue()
}

// tenantStage serves status pages. It is terminal for any request addressed
// to a tenant, regardless of route class or session. A tenant host only
// serves its own page; the /status-page/ path form is honored on other hosts.
// Passthrough paths on a tenant host keep their path but are still exempt
// from the auth gate.
func (d *Dispatcher) tenantStage(_ context.Context, req *Request) Outcome {
	tenant, _ := d.hosts.Classify(req.HTTP.Host)
	req.Tenant = tenant
	if req.Passthrough {
		return Continue()
	}

	urlLocale, rest := d.locales.SplitLocale(req.Path)

	var statusPath string
	switch {
	case tenant != "":
		statusPath = StatusPagePrefix + url.PathEscape(tenant) + rest
	case strings.HasPrefix(rest, StatusPagePrefix):
		statusPath = rest
	default:
		return Continue()
	}

	return Rewrite(d.locales.Rewrite(req.HTTP, urlLocale, statusPath))
}

func (d *Dispatcher) authStage(_ context.Context, req *Request) Outcome {
	if req.Session.IsAuthenticated() || req.Class == RoutePublic || req.Tenant != "" {
		return Continue()
	}
	return Redirect(d.signInRedirect(req.HTTP))
}

func (d *Dispatcher) onboardingStage(ctx context.Context, req *Request) Outcome {
	if !req.Session.IsAuthenticated() || (req.Path != AppRootPath && req.Path != AppRootPath+"/") {
		return Continue()
	}

	target, ok, err := d.resolver.AppRoot(ctx, req.Session.UserID)
	if err != nil {
		return Fail(err)
	}
	if !ok {
		// no workspace yet: the sign-up webhook may not have landed
		return Continue()
	}
	return Redirect(target)
}

func (d *Dispatcher) integrationStage(ctx context.Context, req *Request) Outcome {
	if !req.Session.IsAuthenticated() || req.Path != IntegrationConfigurePath {
		return Continue()
	}

	target, ok, err := d.resolver.IntegrationConfigure(ctx, req.Session.UserID, req.HTTP.URL.RawQuery)
	if err != nil {
		return Fail(err)
	}
	if !ok {
		return Continue()
	}
	return Redirect(target)
}

// signInRedirect returns the sign-in URL carrying the original request URL
// as the post-login return target.
func (d *Dispatcher) signInRedirect(r *http.Request) string {
	target, err := url.Parse(d.signInURL)
	if err != nil {
		target = &url.URL{Path: d.signInURL}
	}
	query := target.Query()
	query.Set("redirect_url", originalURL(r))
	target.RawQuery = query.Encode()
	return target.String()
}

func originalURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

func pathOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return ""
	}
	return u.Path
}
