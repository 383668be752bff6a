package httpkit

import (
	"errors"
	"net/http"
	"strings"

	"statuspage_backend/platform/config"

	"github.com/golang-jwt/jwt/v5"
)

var errInvalidToken = errors.New("invalid token")

// JWTAuthenticator verifies session tokens issued by the identity provider.
// Tokens are read from the session cookie first, then from a Bearer header.
type JWTAuthenticator struct {
	secret     []byte
	cookieName string
}

// NewJWTAuthenticator creates an authenticator for HS256 session tokens.
func NewJWTAuthenticator(cfg config.JWTConfig) *JWTAuthenticator {
	return &JWTAuthenticator{
		secret:     []byte(cfg.GetJWTSessionSecret()),
		cookieName: cfg.GetSessionCookieName(),
	}
}

// Authenticate resolves the caller's session. Missing or invalid tokens
// produce Anonymous; authentication never fails the request.
func (a *JWTAuthenticator) Authenticate(r *http.Request) Session {
	rawToken := a.extractToken(r)
	if rawToken == "" {
		return Anonymous
	}

	claims, err := a.parseClaims(rawToken)
	if err != nil {
		return Anonymous
	}

	sub, err := claims.GetSubject()
	if err != nil || strings.TrimSpace(sub) == "" {
		return Anonymous
	}

	return Session{UserID: sub, Authenticated: true}
}

func (a *JWTAuthenticator) extractToken(r *http.Request) string {
	if a.cookieName != "" {
		if cookie, err := r.Cookie(a.cookieName); err == nil && strings.TrimSpace(cookie.Value) != "" {
			return strings.TrimSpace(cookie.Value)
		}
	}
	if token, ok := extractBearerToken(r.Header.Get("Authorization")); ok {
		return token
	}
	return ""
}

func (a *JWTAuthenticator) parseClaims(rawToken string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(rawToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, errInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidToken
	}

	return claims, nil
}

func extractBearerToken(authHeader string) (string, bool) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}

	rawToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if rawToken == "" {
		return "", false
	}

	return rawToken, true
}
