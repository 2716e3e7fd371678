package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"tutorhub.backend/internal/domain/entities"
	"tutorhub.backend/internal/interfaces/http/response"
)

// DashboardService assembles role dashboards
type DashboardService interface {
	Get(ctx context.Context, accountID uuid.UUID, role entities.Role) (*entities.Dashboard, error)
}

// DashboardHandler serves the role dashboards
type DashboardHandler struct {
	dashboards DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboards DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

// Show returns the handler for one role's dashboard.
// It runs behind DashboardMiddleware, which has already matched the session role.
// GET /dashboard/{student,tutor,admin}
func (h *DashboardHandler) Show(role entities.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := sessionAccountID(c)
		if !ok {
			return
		}
		dashboard, err := h.dashboards.Get(c.Request.Context(), accountID, role)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, http.StatusOK, dashboard)
	}
}
