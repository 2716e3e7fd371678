package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Constructors(t *testing.T) {
	err := NewAppError(http.StatusBadRequest, CodeBadRequest, "bad", ErrBadRequest)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, CodeBadRequest, err.Code)
	assert.Equal(t, "bad", err.Message)
	assert.Equal(t, ErrBadRequest.Error(), err.Error())
	assert.True(t, stderrors.Is(err, ErrBadRequest))

	notFound := NotFound("missing")
	assert.Equal(t, http.StatusNotFound, notFound.Status)
	assert.Equal(t, CodeNotFound, notFound.Code)

	conflict := Conflict("exists")
	assert.Equal(t, http.StatusConflict, conflict.Status)
	assert.Equal(t, CodeConflict, conflict.Code)
	assert.Equal(t, "exists", conflict.Error())

	internal := InternalError(stderrors.New("db down"))
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Equal(t, CodeInternalError, internal.Code)

	custom := NewError("custom", ErrForbidden)
	assert.Equal(t, ErrForbidden.Error(), custom.Error())

	badReq := BadRequest("bad request")
	assert.Equal(t, http.StatusBadRequest, badReq.Status)
	assert.Equal(t, CodeInvalidInput, badReq.Code)

	unauth := Unauthorized("unauthorized")
	assert.Equal(t, http.StatusUnauthorized, unauth.Status)
	assert.Equal(t, CodeUnauthorized, unauth.Code)

	forbidden := Forbidden("forbidden")
	assert.Equal(t, http.StatusForbidden, forbidden.Status)
	assert.Equal(t, CodeForbidden, forbidden.Code)

	internalMsg := InternalServerError("boom")
	assert.Equal(t, http.StatusInternalServerError, internalMsg.Status)
	assert.Equal(t, "boom", internalMsg.Message)
	assert.Equal(t, "boom", internalMsg.Error())
}

func TestFromError_MapsDomainErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("lookup: %w", ErrNotFound), http.StatusNotFound, CodeNotFound},
		{ErrDuplicateIdentity, http.StatusConflict, CodeDuplicateIdentity},
		{ErrInvalidRole, http.StatusBadRequest, CodeInvalidRole},
		{fmt.Errorf("too short: %w", ErrWeakCredential), http.StatusBadRequest, CodeWeakCredential},
		{ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{ErrRoleMismatch, http.StatusForbidden, CodeRoleMismatch},
		{ErrAccountNotActive, http.StatusForbidden, CodeAccountNotActive},
		{ErrRoleChangeConflict, http.StatusConflict, CodeRoleChangeConflict},
		{ErrProfileAlreadyExists, http.StatusConflict, CodeProfileExists},
		{ErrAlreadyEnrolled, http.StatusConflict, CodeAlreadyEnrolled},
		{ErrAlreadyBooked, http.StatusConflict, CodeAlreadyBooked},
		{ErrSessionClosed, http.StatusConflict, CodeSessionClosed},
		{fmt.Errorf("%w: courses.tutor_id", ErrMissingReference), http.StatusUnprocessableEntity, CodeMissingReference},
		{ErrInvariantViolation, http.StatusUnprocessableEntity, CodeInvariantViolation},
		{ErrProfileCreationFailed, http.StatusInternalServerError, CodeInternalError},
		{ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized},
		{ErrForbidden, http.StatusForbidden, CodeForbidden},
		{ErrBadRequest, http.StatusBadRequest, CodeInvalidInput},
		{stderrors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tc := range cases {
		appErr := FromError(tc.err)
		assert.Equal(t, tc.status, appErr.Status, tc.err.Error())
		assert.Equal(t, tc.code, appErr.Code, tc.err.Error())
	}

	assert.Nil(t, FromError(nil))

	existing := Forbidden("nope")
	assert.Same(t, existing, FromError(fmt.Errorf("wrapped: %w", existing)))
}

func TestFromError_RoleMismatchMessageIsGeneric(t *testing.T) {
	appErr := FromError(ErrRoleMismatch)
	for _, r := range []string{"student", "tutor", "admin"} {
		assert.NotContains(t, appErr.Message, r)
	}
}
