package middleware

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"tutorhub.backend/internal/domain/entities"
	domainerrors "tutorhub.backend/internal/domain/errors"
	"tutorhub.backend/internal/interfaces/http/response"
	"tutorhub.backend/pkg/logger"
)

//go:embed authz_model.conf
var authzModel string

// memberRole is the group every role belongs to
const memberRole = "member"

// routePolicies grants roles access to API route patterns (keyMatch2 syntax) and methods (regex).
// Dashboard pages are guarded by DashboardMiddleware instead.
var routePolicies = [][]string{
	{memberRole, "/api/v1/auth/*", "GET|POST"},
	{memberRole, "/api/v1/profile", "GET"},
	{memberRole, "/api/v1/profile/*", "GET|PUT"},

	{string(entities.RoleStudent), "/api/v1/courses/:id/enroll", "POST"},
	{string(entities.RoleStudent), "/api/v1/courses/enrolled", "GET"},
	{string(entities.RoleStudent), "/api/v1/courses/:id/sessions", "GET"},
	{string(entities.RoleStudent), "/api/v1/sessions/booked", "GET"},
	{string(entities.RoleStudent), "/api/v1/sessions/:id/book", "POST|DELETE"},

	{string(entities.RoleTutor), "/api/v1/courses", "POST"},
	{string(entities.RoleTutor), "/api/v1/courses/mine", "GET"},
	{string(entities.RoleTutor), "/api/v1/courses/:id/sessions", "GET|POST"},
	{string(entities.RoleTutor), "/api/v1/sessions/mine", "GET"},
	{string(entities.RoleTutor), "/api/v1/sessions/:id/status", "PUT"},
	{string(entities.RoleTutor), "/api/v1/sessions/:id/attendance", "GET|POST"},

	{string(entities.RoleAdmin), "/api/v1/admin/*", "GET|POST|PUT|DELETE"},
}

// NewEnforcer builds the route authorization enforcer with its in-memory policies
func NewEnforcer() (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(authzModel)
	if err != nil {
		return nil, fmt.Errorf("parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}

	if _, err := enforcer.AddPolicies(routePolicies); err != nil {
		return nil, fmt.Errorf("load casbin policies: %w", err)
	}
	for _, role := range entities.Roles {
		if _, err := enforcer.AddGroupingPolicy(string(role), memberRole); err != nil {
			return nil, fmt.Errorf("load casbin groups: %w", err)
		}
	}
	return enforcer, nil
}

// Enforcer is the subset of casbin used for route checks
type Enforcer interface {
	Enforce(rvals ...interface{}) (bool, error)
}

// AuthorizeMiddleware checks the session role against the route policies.
// It must run after SessionMiddleware.
func AuthorizeMiddleware(enforcer Enforcer) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetAccountRole(c)
		if !ok {
			response.ErrorWithError(c, http.StatusUnauthorized, domainerrors.CodeSessionRequired, "please log in to continue")
			c.Abort()
			return
		}

		allowed, err := enforcer.Enforce(string(role), c.Request.URL.Path, c.Request.Method)
		if err != nil {
			logger.Error(c.Request.Context(), "Authorization check failed", zap.Error(err))
			response.Error(c, domainerrors.InternalError(err))
			c.Abort()
			return
		}
		if !allowed {
			response.Error(c, domainerrors.Forbidden("you do not have access to this resource"))
			c.Abort()
			return
		}
		c.Next()
	}
}
