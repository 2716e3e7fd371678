package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"tutorhub.backend/internal/domain/entities"
	domainerrors "tutorhub.backend/internal/domain/errors"
	"tutorhub.backend/internal/interfaces/http/response"
)

// AdminAccountService is the administrative side of the account directory
type AdminAccountService interface {
	UpdateRole(ctx context.Context, id uuid.UUID, role entities.Role, force bool) (*entities.Account, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.AccountStatus) (*entities.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdminProfileService is the administrative side of role profile management
type AdminProfileService interface {
	Overview(ctx context.Context, accountID uuid.UUID) (*entities.ProfileOverview, error)
	AdminCreate(ctx context.Context, input *entities.CreateProfileInput) (entities.RoleProfile, *entities.Account, error)
	Create(ctx context.Context, accountID uuid.UUID, role entities.Role, attrs *entities.ProfileAttributes) (entities.RoleProfile, error)
	Delete(ctx context.Context, accountID uuid.UUID, role entities.Role) error
	ApproveTutor(ctx context.Context, accountID uuid.UUID) (*entities.TutorProfile, error)
}

// AdminHandler handles administrative account and profile endpoints
type AdminHandler struct {
	accounts AdminAccountService
	profiles AdminProfileService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(accounts AdminAccountService, profiles AdminProfileService) *AdminHandler {
	return &AdminHandler{
		accounts: accounts,
		profiles: profiles,
	}
}

type createRoleProfileRequest struct {
	Role       entities.Role               `json:"role" binding:"required,role"`
	Attributes *entities.ProfileAttributes `json:"attributes,omitempty"`
}

func accountIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid account ID"))
		return uuid.Nil, false
	}
	return id, true
}

// GetAccount returns an account with its profiles
// GET /api/v1/admin/accounts/:id
func (h *AdminHandler) GetAccount(c *gin.Context) {
	id, ok := accountIDParam(c)
	if !ok {
		return
	}
	overview, err := h.profiles.Overview(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, overview)
}

// UpdateRole switches an account's role and moves its role profile along
// PUT /api/v1/admin/accounts/:id/role
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	id, ok := accountIDParam(c)
	if !ok {
		return
	}
	var input entities.UpdateRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err, nil)
		return
	}

	account, err := h.accounts.UpdateRole(c.Request.Context(), id, input.Role, input.Force)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, account)
}

// UpdateStatus changes an account's lifecycle status
// PUT /api/v1/admin/accounts/:id/status
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	id, ok := accountIDParam(c)
	if !ok {
		return
	}
	var input entities.UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err, nil)
		return
	}

	account, err := h.accounts.UpdateStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, account)
}

// DeleteAccount removes an account and everything hanging off it
// DELETE /api/v1/admin/accounts/:id
func (h *AdminHandler) DeleteAccount(c *gin.Context) {
	id, ok := accountIDParam(c)
	if !ok {
		return
	}
	if err := h.accounts.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Account deleted"})
}

// CreateProfile creates a role profile directly; the account role follows the profile
// POST /api/v1/admin/profiles
func (h *AdminHandler) CreateProfile(c *gin.Context) {
	var input entities.CreateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err, nil)
		return
	}

	profile, account, err := h.profiles.AdminCreate(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"profile": profile,
		"account": account,
	})
}

// CreateRoleProfile creates the missing role profile of an account whose role already matches
// POST /api/v1/admin/accounts/:id/profiles
func (h *AdminHandler) CreateRoleProfile(c *gin.Context) {
	id, ok := accountIDParam(c)
	if !ok {
		return
	}
	var input createRoleProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err, nil)
		return
	}

	profile, err := h.profiles.Create(c.Request.Context(), id, input.Role, input.Attributes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, profile)
}

// DeleteRoleProfile removes a stray role profile that does not match the account role
// DELETE /api/v1/admin/accounts/:id/profiles/:role
func (h *AdminHandler) DeleteRoleProfile(c *gin.Context) {
	id, ok := accountIDParam(c)
	if !ok {
		return
	}
	role, valid := entities.ParseRole(c.Param("role"))
	if !valid {
		response.Error(c, domainerrors.ErrInvalidRole)
		return
	}

	if err := h.profiles.Delete(c.Request.Context(), id, role); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Role profile deleted"})
}

// ApproveTutor marks a tutor profile as approved
// PUT /api/v1/admin/accounts/:id/approve
func (h *AdminHandler) ApproveTutor(c *gin.Context) {
	id, ok := accountIDParam(c)
	if !ok {
		return
	}
	profile, err := h.profiles.ApproveTutor(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}
