package checker

import (
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "statuspage_backend/internal/http"
	"statuspage_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

func newCronEngine(queue *fakeQueue) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	source := fakeSource{monitors: map[string][]Monitor{"5m": {{ID: 1, Regions: []string{"ams"}}}}}
	module := NewModule(NewScheduler(source, queue, nil, logger.Discard(), nil), "cron-secret")
	module.RegisterRoutes(&apphttp.RouterContext{Engine: engine, API: engine.Group("/api")})
	return engine
}

func TestCronRequiresSecret(t *testing.T) {
	queue := &fakeQueue{}
	engine := newCronEngine(queue)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/checker/cron/5m", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized || len(queue.payloads) != 0 {
		t.Fatalf("expected 401 without enqueue, got %d and %d tasks", w.Code, len(queue.payloads))
	}
}

func TestCronEnqueuesWithSecret(t *testing.T) {
	queue := &fakeQueue{}
	engine := newCronEngine(queue)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/checker/cron/5m", nil)
	req.Header.Set("Authorization", "Bearer cron-secret")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK || len(queue.payloads) != 1 {
		t.Fatalf("expected 200 with one task, got %d and %d tasks", w.Code, len(queue.payloads))
	}
}

func TestCronRejectsUnknownPeriodicity(t *testing.T) {
	engine := newCronEngine(&fakeQueue{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/checker/cron/2m", nil)
	req.Header.Set("Authorization", "Bearer cron-secret")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
