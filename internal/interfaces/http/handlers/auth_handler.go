package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"tutorhub.backend/internal/domain/entities"
	domainerrors "tutorhub.backend/internal/domain/errors"
	"tutorhub.backend/internal/interfaces/http/middleware"
	"tutorhub.backend/internal/interfaces/http/response"
	"tutorhub.backend/internal/interfaces/http/validation"
	"tutorhub.backend/pkg/logger"
)

// LoginPath is where a successful registration sends the client
const LoginPath = "/login"

// AccountService is the account directory used by the HTTP layer
type AccountService interface {
	Register(ctx context.Context, input *entities.RegisterInput) (*entities.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error)
	ChangePassword(ctx context.Context, id uuid.UUID, input *entities.ChangePasswordInput) error
}

// SessionService runs the login flow
type SessionService interface {
	Login(ctx context.Context, input *entities.LoginInput) (*entities.LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	accounts     AccountService
	sessions     SessionService
	secureCookie bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accounts AccountService, sessions SessionService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		accounts:     accounts,
		sessions:     sessions,
		secureCookie: secureCookie,
	}
}

// registrationFields echoes the submitted form back without the passwords
func registrationFields(in *entities.RegisterInput) gin.H {
	return gin.H{
		"email":     in.Email,
		"username":  in.Username,
		"firstName": in.FirstName,
		"lastName":  in.LastName,
		"phone":     in.Phone,
		"gender":    in.Gender,
		"role":      in.Role,
	}
}

func loginFields(in *entities.LoginInput) gin.H {
	return gin.H{
		"email": in.Email,
		"role":  in.Role,
	}
}

// bindError answers a failed bind. Role tag failures are reported as an invalid role
// so clients see one consistent code for it.
func bindError(c *gin.Context, err error, fields gin.H) {
	if validation.HasTag(err, validation.RoleTag) {
		response.ErrorWithFields(c, domainerrors.ErrInvalidRole, fields)
		return
	}
	if errs := validation.FieldErrors(err); errs != nil {
		response.ValidationError(c, domainerrors.CodeInvalidInput, "please correct the errors below", errs, fields)
		return
	}
	response.ErrorWithFields(c, domainerrors.BadRequest("malformed request body"), fields)
}

// Register handles account registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err, registrationFields(&input))
		return
	}

	account, err := h.accounts.Register(c.Request.Context(), &input)
	if err != nil {
		response.ErrorWithFields(c, err, registrationFields(&input))
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message":     "Registration successful. Please log in.",
		"account":     account,
		"redirect":    "login",
		"redirectUrl": LoginPath,
	})
}

// Login handles role-claimed login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err, loginFields(&input))
		return
	}

	result, err := h.sessions.Login(c.Request.Context(), &input)
	if err != nil {
		response.ErrorWithFields(c, err, loginFields(&input))
		return
	}

	session := result.Session
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, session.AccessToken, maxAge, "/", "", h.secureCookie, true)

	response.Success(c, http.StatusOK, gin.H{
		"state":       result.State,
		"sessionId":   session.ID,
		"accessToken": session.AccessToken,
		"expiresAt":   session.ExpiresAt,
		"redirect":    result.Redirect.Name,
		"redirectUrl": result.Redirect.URL,
		"account":     result.Account,
	})
}

// Logout ends the current session. It always succeeds from the client's point of view.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if sid, ok := middleware.GetSessionID(c); ok {
		if err := h.sessions.Logout(c.Request.Context(), sid); err != nil && !errors.Is(err, domainerrors.ErrUnauthorized) {
			logger.Warn(c.Request.Context(), "Failed to delete session on logout", zap.Error(err))
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	response.Success(c, http.StatusOK, gin.H{
		"message":     "Logged out",
		"redirect":    entities.RedirectHome.Name,
		"redirectUrl": entities.RedirectHome.URL,
	})
}

// Me returns the account behind the current session
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("please log in to continue"))
		return
	}

	account, err := h.accounts.GetByID(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, account)
}

// ChangePassword changes the password of the current account
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("please log in to continue"))
		return
	}

	var input entities.ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err, nil)
		return
	}

	if err := h.accounts.ChangePassword(c.Request.Context(), accountID, &input); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Password changed successfully"})
}
