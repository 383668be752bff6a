package webhook

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"statuspage_backend/platform/logger"
	"statuspage_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

func newWebhookRouter(users UserProvisioner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(users, logger.Discard()), validator.New())
	r := gin.New()
	r.POST("/api/webhook/auth", SignatureMiddleware("s3cret"), h.HandleAuthEvent)
	return r
}

func deliver(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhook/auth", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderSignature, Sign("s3cret", []byte(body)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleAuthEventProvisionsUser(t *testing.T) {
	users := &fakeProvisioner{}
	body := `{"type":"user.created","data":{"id":"user_1","email_addresses":[{"id":"e1","email_address":"max@example.com"}]}}`

	w := deliver(newWebhookRouter(users), body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Status        string `json:"status"`
		Created       bool   `json:"created"`
		WorkspaceSlug string `json:"workspaceSlug"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Created || !strings.HasPrefix(resp.WorkspaceSlug, "max-") {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestHandleAuthEventAcknowledgesOtherTypes(t *testing.T) {
	users := &fakeProvisioner{}
	w := deliver(newWebhookRouter(users), `{"type":"user.updated","data":{"id":"user_1"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(users.slugs) != 0 {
		t.Fatal("expected no provisioning")
	}
}

func TestHandleAuthEventRejectsMalformedBody(t *testing.T) {
	w := deliver(newWebhookRouter(&fakeProvisioner{}), `{"type":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleAuthEventRequiresType(t *testing.T) {
	w := deliver(newWebhookRouter(&fakeProvisioner{}), `{"data":{"id":"user_1"}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
