package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Account directory
	ErrDuplicateIdentity  = errors.New("email or username already registered")
	ErrInvalidRole        = errors.New("invalid role")
	ErrWeakCredential     = errors.New("password does not satisfy the password policy")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotActive   = errors.New("account is not active")
	ErrRoleChangeConflict = errors.New("role change conflicts with dependent records")

	// Role profiles
	ErrRoleMismatch          = errors.New("role does not match account")
	ErrProfileAlreadyExists  = errors.New("role profile already exists")
	ErrProfileCreationFailed = errors.New("profile creation failed")
	ErrInvariantViolation    = errors.New("account and role profile are inconsistent")
	ErrMissingReference      = errors.New("referenced record does not exist")

	// Courses and tutoring sessions
	ErrAlreadyEnrolled = errors.New("already enrolled in course")
	ErrAlreadyBooked   = errors.New("session already booked")
	ErrSessionClosed   = errors.New("session is not open")
)

// Error codes carried in API responses
const (
	CodeBadRequest          = "BAD_REQUEST"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeInternalError       = "INTERNAL_ERROR"
	CodeDuplicateIdentity   = "DUPLICATE_IDENTITY"
	CodeInvalidRole         = "INVALID_ROLE"
	CodeWeakCredential      = "WEAK_CREDENTIAL"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeRoleMismatch        = "ROLE_MISMATCH"
	CodeAccountNotActive    = "ACCOUNT_NOT_ACTIVE"
	CodeRoleChangeConflict  = "ROLE_CHANGE_CONFLICT"
	CodeProfileExists       = "PROFILE_ALREADY_EXISTS"
	CodeAlreadyEnrolled     = "ALREADY_ENROLLED"
	CodeAlreadyBooked       = "ALREADY_BOOKED"
	CodeSessionClosed       = "SESSION_CLOSED"
	CodeMissingReference    = "MISSING_REFERENCE"
	CodeInvariantViolation  = "INVARIANT_VIOLATION"
	CodeSessionRequired     = "SESSION_REQUIRED"
	CodeIdempotencyConflict = "IDEMPOTENCY_CONFLICT"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrBadRequest)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, nil)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

func InternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, message, nil)
}

// NewError creates a new error with a custom message wrapping an existing error
func NewError(message string, err error) error {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    CodeBadRequest,
		Message: message,
		Err:     err,
	}
}

// FromError maps a domain error onto its HTTP representation.
// Messages for credential and role failures stay generic so they never reveal account state.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NotFound("resource not found")
	case errors.Is(err, ErrDuplicateIdentity):
		return NewAppError(http.StatusConflict, CodeDuplicateIdentity, "an account with this email or username already exists", err)
	case errors.Is(err, ErrInvalidRole):
		return NewAppError(http.StatusBadRequest, CodeInvalidRole, "please select a valid role", err)
	case errors.Is(err, ErrWeakCredential):
		return NewAppError(http.StatusBadRequest, CodeWeakCredential, err.Error(), err)
	case errors.Is(err, ErrInvalidCredentials):
		return NewAppError(http.StatusUnauthorized, CodeInvalidCredentials, "invalid email or password", err)
	case errors.Is(err, ErrRoleMismatch):
		return NewAppError(http.StatusForbidden, CodeRoleMismatch, "you are not registered with the selected role", err)
	case errors.Is(err, ErrAccountNotActive):
		return NewAppError(http.StatusForbidden, CodeAccountNotActive, "this account is not active", err)
	case errors.Is(err, ErrRoleChangeConflict):
		return NewAppError(http.StatusConflict, CodeRoleChangeConflict, "the current role profile still has dependent records", err)
	case errors.Is(err, ErrProfileAlreadyExists):
		return NewAppError(http.StatusConflict, CodeProfileExists, "a role profile already exists for this account", err)
	case errors.Is(err, ErrAlreadyEnrolled):
		return NewAppError(http.StatusConflict, CodeAlreadyEnrolled, "already enrolled in this course", err)
	case errors.Is(err, ErrAlreadyBooked):
		return NewAppError(http.StatusConflict, CodeAlreadyBooked, "this session is already booked", err)
	case errors.Is(err, ErrSessionClosed):
		return NewAppError(http.StatusConflict, CodeSessionClosed, "this session is no longer open", err)
	case errors.Is(err, ErrMissingReference):
		return NewAppError(http.StatusUnprocessableEntity, CodeMissingReference, "a referenced record does not exist", err)
	case errors.Is(err, ErrInvariantViolation):
		return NewAppError(http.StatusUnprocessableEntity, CodeInvariantViolation, "account profile is inconsistent, please contact support", err)
	case errors.Is(err, ErrProfileCreationFailed):
		return InternalError(err)
	case errors.Is(err, ErrUnauthorized):
		return Unauthorized("authentication required")
	case errors.Is(err, ErrForbidden):
		return Forbidden("access denied")
	case errors.Is(err, ErrBadRequest):
		return BadRequest(err.Error())
	default:
		return InternalError(err)
	}
}
