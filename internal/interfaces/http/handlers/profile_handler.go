package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"tutorhub.backend/internal/domain/entities"
	domainerrors "tutorhub.backend/internal/domain/errors"
	"tutorhub.backend/internal/interfaces/http/middleware"
	"tutorhub.backend/internal/interfaces/http/response"
)

// ProfileService reads and edits the profiles of the current account
type ProfileService interface {
	Overview(ctx context.Context, accountID uuid.UUID) (*entities.ProfileOverview, error)
	Get(ctx context.Context, accountID uuid.UUID) (entities.RoleProfile, error)
	UpdateAttributes(ctx context.Context, accountID uuid.UUID, attrs *entities.ProfileAttributes) (entities.RoleProfile, error)
	GetGeneric(ctx context.Context, accountID uuid.UUID) (*entities.GenericProfile, error)
	UpdateGeneric(ctx context.Context, accountID uuid.UUID, input *entities.GenericProfileInput) (*entities.GenericProfile, error)
}

// ProfileHandler handles the self-service profile endpoints
type ProfileHandler struct {
	profiles ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func sessionAccountID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetAccountID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("please log in to continue"))
	}
	return id, ok
}

// GetOverview returns the account with its contact and role profiles
// GET /api/v1/profile
func (h *ProfileHandler) GetOverview(c *gin.Context) {
	accountID, ok := sessionAccountID(c)
	if !ok {
		return
	}
	overview, err := h.profiles.Overview(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, overview)
}

// GetRoleProfile returns the role profile matching the account's role
// GET /api/v1/profile/role
func (h *ProfileHandler) GetRoleProfile(c *gin.Context) {
	accountID, ok := sessionAccountID(c)
	if !ok {
		return
	}
	profile, err := h.profiles.Get(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// UpdateRoleProfile edits role-specific attributes
// PUT /api/v1/profile/role
func (h *ProfileHandler) UpdateRoleProfile(c *gin.Context) {
	accountID, ok := sessionAccountID(c)
	if !ok {
		return
	}
	var input entities.ProfileAttributes
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err, nil)
		return
	}
	profile, err := h.profiles.UpdateAttributes(c.Request.Context(), accountID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// GetContact returns the generic contact profile
// GET /api/v1/profile/contact
func (h *ProfileHandler) GetContact(c *gin.Context) {
	accountID, ok := sessionAccountID(c)
	if !ok {
		return
	}
	generic, err := h.profiles.GetGeneric(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, generic)
}

// UpdateContact edits the generic contact profile
// PUT /api/v1/profile/contact
func (h *ProfileHandler) UpdateContact(c *gin.Context) {
	accountID, ok := sessionAccountID(c)
	if !ok {
		return
	}
	var input entities.GenericProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err, nil)
		return
	}
	generic, err := h.profiles.UpdateGeneric(c.Request.Context(), accountID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, generic)
}
