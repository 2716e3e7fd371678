package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"tutorhub.backend/internal/domain/entities"
	domainerrors "tutorhub.backend/internal/domain/errors"
	"tutorhub.backend/internal/interfaces/http/response"
	"tutorhub.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// SessionCookie carries the session access token for browser clients
	SessionCookie = "session_token"

	// AccountIDKey is the context key for the session's account ID
	AccountIDKey = "accountId"
	// AccountRoleKey is the context key for the session's role
	AccountRoleKey = "accountRole"
	// SessionIDKey is the context key for the session ID
	SessionIDKey = "sessionId"

	NoticeLoginRequired = "login_required"
	NoticeRoleRequired  = "role_required"
)

// SessionResolver maps an access token to a live session
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*entities.Session, error)
}

// TokenFromRequest reads the access token from the Authorization header or the session cookie
func TokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader(AuthorizationHeader); strings.HasPrefix(h, BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(h, BearerPrefix))
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

func resolveSession(c *gin.Context, resolver SessionResolver) (*entities.Session, bool) {
	token := TokenFromRequest(c)
	if token == "" {
		return nil, false
	}
	session, err := resolver.Resolve(c.Request.Context(), token)
	if err != nil {
		return nil, false
	}

	c.Set(AccountIDKey, session.AccountID)
	c.Set(AccountRoleKey, session.Role)
	c.Set(SessionIDKey, session.ID)
	ctx := context.WithValue(c.Request.Context(), logger.AccountIDKey, session.AccountID.String())
	ctx = context.WithValue(ctx, logger.SessionIDKey, session.ID)
	c.Request = c.Request.WithContext(ctx)
	return session, true
}

// SessionMiddleware requires an established session and rejects API requests without one
func SessionMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := resolveSession(c, resolver); !ok {
			response.ErrorWithError(c, http.StatusUnauthorized, domainerrors.CodeSessionRequired, "please log in to continue")
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalSessionMiddleware resolves a session when one is presented, without requiring it
func OptionalSessionMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		resolveSession(c, resolver)
		c.Next()
	}
}

// DashboardMiddleware guards page routes: requests without a session whose role matches are
// redirected to the login page with a visible notice instead of failing
func DashboardMiddleware(resolver SessionResolver, role entities.Role, loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := resolveSession(c, resolver)
		if !ok {
			RedirectToLogin(c, loginURL, NoticeLoginRequired)
			return
		}
		if session.Role != role {
			RedirectToLogin(c, loginURL, NoticeRoleRequired)
			return
		}
		c.Next()
	}
}

// RedirectToLogin aborts with a 302 to loginURL carrying the notice and the original path
func RedirectToLogin(c *gin.Context, loginURL, notice string) {
	target, err := url.Parse(loginURL)
	if err != nil {
		target = &url.URL{Path: "/login"}
	}
	q := target.Query()
	q.Set("notice", notice)
	q.Set("next", c.Request.URL.Path)
	target.RawQuery = q.Encode()

	c.Redirect(http.StatusFound, target.String())
	c.Abort()
}

// GetAccountID gets the session's account ID from context
func GetAccountID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(AccountIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetAccountRole gets the session's role from context
func GetAccountRole(c *gin.Context) (entities.Role, bool) {
	v, exists := c.Get(AccountRoleKey)
	if !exists {
		return "", false
	}
	role, ok := v.(entities.Role)
	return role, ok
}

// GetSessionID gets the session ID from context
func GetSessionID(c *gin.Context) (string, bool) {
	v, exists := c.Get(SessionIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
