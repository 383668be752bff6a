// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Identity represents the caller's identity as resolved by the dispatcher.
// Handlers access it without depending on how the session was verified.
type Identity interface {
	// ExternalID returns the identity provider's user ID ("tenant id").
	ExternalID() string
	// IsAuthenticated returns true if the session was valid.
	IsAuthenticated() bool
}

// Session is the request-scoped authentication result.
type Session struct {
	UserID        string
	Authenticated bool
}

// ExternalID implements Identity.
func (s Session) ExternalID() string {
	return s.UserID
}

// IsAuthenticated implements Identity.
func (s Session) IsAuthenticated() bool {
	return s.Authenticated && s.UserID != ""
}

// Anonymous is the session of a caller without a valid token.
var Anonymous = Session{}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session stored in ctx, or Anonymous.
func SessionFromContext(ctx context.Context) Session {
	if session, ok := ctx.Value(sessionKey{}).(Session); ok {
		return session
	}
	return Anonymous
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if no session is present.
func GetIdentity(c *gin.Context) Identity {
	return SessionFromContext(c.Request.Context())
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the caller is not authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil
	}
	return id
}

// RequireSession rejects requests the dispatcher did not authenticate.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if MustGetIdentity(c) == nil {
			return
		}
		c.Next()
	}
}
