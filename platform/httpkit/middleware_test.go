package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func okHandler(c *gin.Context) { c.Status(http.StatusOK) }

func TestRequireBearerSecret(t *testing.T) {
	cases := map[string]struct {
		secret string
		header string
		status int
	}{
		"match":        {secret: "cron", header: "Bearer cron", status: http.StatusOK},
		"mismatch":     {secret: "cron", header: "Bearer nope", status: http.StatusUnauthorized},
		"missing":      {secret: "cron", status: http.StatusUnauthorized},
		"empty secret": {secret: "", header: "Bearer ", status: http.StatusUnauthorized},
	}

	gin.SetMode(gin.TestMode)
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := gin.New()
			r.POST("/cron", RequireBearerSecret(tc.secret), okHandler)
			req := httptest.NewRequest(http.MethodPost, "/cron", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, w.Code)
			}
		})
	}
}

func TestRequireSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", RequireSession(), okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithSession(req.Context(), Session{UserID: "user_1", Authenticated: true}))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with session, got %d", w.Code)
	}
}

func TestRequestIDPropagates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(HeaderRequestID); got != "req-1" {
		t.Fatalf("expected req-1, got %q", got)
	}
}
