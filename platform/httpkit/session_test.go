package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"statuspage_backend/platform/config"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "session-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newAuthenticator() *JWTAuthenticator {
	return NewJWTAuthenticator(&config.Config{JWTSessionSecret: testSecret, SessionCookieName: "__session"})
}

func TestAuthenticateBearerToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{"sub": "user_1", "exp": time.Now().Add(time.Hour).Unix()})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	session := newAuthenticator().Authenticate(req)
	if !session.IsAuthenticated() || session.UserID != "user_1" {
		t.Fatalf("expected user_1, got %+v", session)
	}
}

func TestAuthenticatePrefersCookie(t *testing.T) {
	cookieToken := signToken(t, testSecret, jwt.MapClaims{"sub": "cookie_user"})
	headerToken := signToken(t, testSecret, jwt.MapClaims{"sub": "header_user"})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "__session", Value: cookieToken})
	req.Header.Set("Authorization", "Bearer "+headerToken)

	if session := newAuthenticator().Authenticate(req); session.UserID != "cookie_user" {
		t.Fatalf("expected cookie_user, got %+v", session)
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	cases := map[string]string{
		"expired":      signToken(t, testSecret, jwt.MapClaims{"sub": "user_1", "exp": time.Now().Add(-time.Hour).Unix()}),
		"wrong secret": signToken(t, "other", jwt.MapClaims{"sub": "user_1"}),
		"no subject":   signToken(t, testSecret, jwt.MapClaims{"sid": "abc"}),
		"garbage":      "not-a-jwt",
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			if session := newAuthenticator().Authenticate(req); session.IsAuthenticated() {
				t.Fatalf("expected anonymous, got %+v", session)
			}
		})
	}
}

func TestAuthenticateWithoutToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if session := newAuthenticator().Authenticate(req); session != Anonymous {
		t.Fatalf("expected anonymous, got %+v", session)
	}
}
