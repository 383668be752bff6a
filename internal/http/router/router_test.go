package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"statuspage_backend/internal/dispatch"
	apphttp "statuspage_backend/internal/http"
	"statuspage_backend/platform/config"
	"statuspage_backend/platform/httpkit"
	"statuspage_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

type staticAuth struct {
	session httpkit.Session
}

func (a staticAuth) Authenticate(*http.Request) httpkit.Session { return a.session }

type emptyStore struct{}

func (emptyStore) ListMemberships(context.Context, string) ([]dispatch.Membership, error) {
	return nil, nil
}

func (emptyStore) GetWorkspace(context.Context, int64) (dispatch.Workspace, bool, error) {
	return dispatch.Workspace{}, false, nil
}

func (emptyStore) HasMonitor(context.Context, int64) (bool, error) { return false, nil }

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type stubModule struct{}

func (stubModule) Name() string { return "stub" }

func (stubModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	for _, locale := range ctx.Locales {
		locale := locale
		ctx.Engine.GET("/"+locale+"/status-page/:slug/*path", func(c *gin.Context) {
			c.String(http.StatusOK, locale+":"+c.Param("slug")+":"+c.Param("path"))
		})
	}
	ctx.Protected.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, httpkit.GetIdentity(c).ExternalID())
	})
}

func testConfig() *config.Config {
	return &config.Config{
		CORSOrigins:         []string{"http://localhost:3000"},
		CanonicalDomain:     "openstatus.dev",
		PreviewDomainSuffix: ".vercel.app",
		TunnelDomainMarker:  "ngrok-free.app",
		PublicRoutes:        []string{"/", "/api/*", "/status-page/*"},
		IgnoredRoutes:       []string{"/api/og"},
		PassthroughRoutes:   []string{"/api/*"},
		SupportedLocales:    []string{"en", "de"},
		DefaultLocale:       "en",
		LocaleCookieName:    "locale",
		SignInURL:           "/app/sign-in",
		LookupTimeout:       time.Second,
	}
}

func newTestRouter(session httpkit.Session, health apphttp.HealthChecker) http.Handler {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	log := logger.Discard()
	return New(&apphttp.App{
		Config:     cfg,
		Logger:     log,
		Health:     health,
		Dispatcher: dispatch.New(cfg, staticAuth{session: session}, emptyStore{}, log, nil),
		Modules:    []apphttp.Module{stubModule{}},
	})
}

func get(h http.Handler, host, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Host = host
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestTenantHostReachesStatusPageRoute(t *testing.T) {
	w := get(newTestRouter(httpkit.Anonymous, nil), "acme.openstatus.dev", "/incidents")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Body.String(); got != "en:acme:/incidents" {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestHealth(t *testing.T) {
	w := get(newTestRouter(httpkit.Anonymous, nil), "openstatus.dev", "/api/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get(httpkit.HeaderRequestID) == "" {
		t.Fatal("expected request id header")
	}
}

func TestHealthOnAddressHost(t *testing.T) {
	w := get(newTestRouter(httpkit.Anonymous, nil), "10.0.0.5:8080", "/api/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Body.String(); !strings.Contains(got, `"status":"ok"`) {
		t.Fatalf("expected health JSON, got %q", got)
	}
}

func TestReadyOnCustomDomainIsNotRewritten(t *testing.T) {
	w := get(newTestRouter(httpkit.Anonymous, nil), "status.acme.com", "/api/ready")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Body.String(); !strings.Contains(got, `"status":"ok"`) {
		t.Fatalf("expected ready JSON, got %q", got)
	}
}

func TestReadyReportsUnavailableDatabase(t *testing.T) {
	down := pingFunc(func(context.Context) error { return errors.New("down") })
	w := get(newTestRouter(httpkit.Anonymous, down), "openstatus.dev", "/api/ready")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestProtectedRouteRequiresSession(t *testing.T) {
	w := get(newTestRouter(httpkit.Anonymous, nil), "openstatus.dev", "/api/v1/whoami")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestProtectedRouteSeesDispatcherSession(t *testing.T) {
	session := httpkit.Session{UserID: "user_1", Authenticated: true}
	w := get(newTestRouter(session, nil), "openstatus.dev", "/api/v1/whoami")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "user_1") {
		t.Fatalf("expected user id in body, got %q", w.Body.String())
	}
}

func TestAnonymousAppRouteRedirectsToSignIn(t *testing.T) {
	w := get(newTestRouter(httpkit.Anonymous, nil), "openstatus.dev", "/app/settings")
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); !strings.HasPrefix(loc, "/app/sign-in?redirect_url=") {
		t.Fatalf("unexpected location %q", loc)
	}
}
