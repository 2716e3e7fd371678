package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tutorhub.backend/internal/domain/entities"
	domainerrors "tutorhub.backend/internal/domain/errors"
	"tutorhub.backend/internal/interfaces/http/middleware"
)

func TestAuthHandler_Register(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(request{method: http.MethodPost, path: "/api/v1/auth/register", body: registerBody("A@X.com", "alice", entities.RoleStudent)})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out struct {
		Account     entities.Account `json:"account"`
		RedirectURL string           `json:"redirectUrl"`
	}
	decode(t, rec, &out)
	assert.Equal(t, "a@x.com", out.Account.Email)
	assert.Equal(t, entities.RoleStudent, out.Account.Role)
	assert.Equal(t, "/login", out.RedirectURL)
	assert.NotContains(t, rec.Body.String(), testPassword)
}

func TestAuthHandler_Register_DuplicateRedisplaysFields(t *testing.T) {
	h := newAPIHarness(t)
	h.register("a@x.com", "alice", entities.RoleStudent)

	rec := h.do(request{method: http.MethodPost, path: "/api/v1/auth/register", body: registerBody("a@x.com", "bob", entities.RoleTutor)})
	require.Equal(t, http.StatusConflict, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, domainerrors.CodeDuplicateIdentity, body.Code)
	assert.Equal(t, "bob", body.Fields["username"])
	assert.Equal(t, "tutor", body.Fields["role"])
	assert.NotContains(t, body.Fields, "password")
	assert.NotContains(t, rec.Body.String(), testPassword)
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	h := newAPIHarness(t)

	t.Run("invalid role", func(t *testing.T) {
		rec := h.do(request{method: http.MethodPost, path: "/api/v1/auth/register", body: registerBody("a@x.com", "alice", "parent")})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, domainerrors.CodeInvalidRole, body.Code)
		assert.Equal(t, "a@x.com", body.Fields["email"])
	})

	t.Run("invalid phone", func(t *testing.T) {
		in := registerBody("a@x.com", "alice", entities.RoleStudent)
		in["phone"] = "12-34"
		rec := h.do(request{method: http.MethodPost, path: "/api/v1/auth/register", body: in})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, domainerrors.CodeInvalidInput, body.Code)
		assert.Contains(t, body.Errors, "phone")
	})

	t.Run("password mismatch", func(t *testing.T) {
		in := registerBody("a@x.com", "alice", entities.RoleStudent)
		in["confirmPassword"] = "Different1!"
		rec := h.do(request{method: http.MethodPost, path: "/api/v1/auth/register", body: in})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, domainerrors.CodeWeakCredential, decodeError(t, rec).Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := h.do(request{method: http.MethodPost, path: "/api/v1/auth/register", body: "not-an-object"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	var n int64
	require.NoError(t, h.db.Table("accounts").Count(&n).Error)
	assert.Zero(t, n)
}

func TestAuthHandler_Register_IdempotencyKeyReplays(t *testing.T) {
	h := newAPIHarness(t)
	headers := map[string]string{middleware.IdempotencyHeader: "signup-1"}

	first := h.do(request{method: http.MethodPost, path: "/api/v1/auth/register", body: registerBody("a@x.com", "alice", entities.RoleStudent), headers: headers})
	require.Equal(t, http.StatusCreated, first.Code)
	second := h.do(request{method: http.MethodPost, path: "/api/v1/auth/register", body: registerBody("a@x.com", "alice", entities.RoleStudent), headers: headers})
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Hit"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestAuthHandler_Login(t *testing.T) {
	h := newAPIHarness(t)
	h.register("a@x.com", "alice", entities.RoleStudent)

	rec := h.do(request{method: http.MethodPost, path: "/api/v1/auth/login", body: map[string]interface{}{
		"email": "a@x.com", "password": testPassword, "role": "student",
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out loginResponse
	decode(t, rec, &out)
	assert.Equal(t, entities.LoginStateSessionEstablished, out.State)
	assert.Equal(t, "student_dashboard", out.Redirect)
	assert.Equal(t, "/dashboard/student", out.RedirectURL)
	assert.NotEmpty(t, out.SessionID)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, out.AccessToken, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	me := h.do(request{method: http.MethodGet, path: "/api/v1/auth/me", cookie: cookie})
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"email":"a@x.com"`)
}

func TestAuthHandler_Login_Rejections(t *testing.T) {
	h := newAPIHarness(t)
	h.register("a@x.com", "alice", entities.RoleStudent)

	cases := []struct {
		name     string
		email    string
		password string
		role     string
		status   int
		code     string
	}{
		{"role mismatch", "a@x.com", testPassword, "tutor", http.StatusForbidden, domainerrors.CodeRoleMismatch},
		{"wrong password", "a@x.com", "Wrong1!pass", "student", http.StatusUnauthorized, domainerrors.CodeInvalidCredentials},
		{"unknown email", "nobody@x.com", testPassword, "student", http.StatusUnauthorized, domainerrors.CodeInvalidCredentials},
		{"invalid role", "a@x.com", testPassword, "parent", http.StatusBadRequest, domainerrors.CodeInvalidRole},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := h.do(request{method: http.MethodPost, path: "/api/v1/auth/login", body: map[string]interface{}{
				"email": tc.email, "password": tc.password, "role": tc.role,
			}})
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			body := decodeError(t, rec)
			assert.Equal(t, tc.code, body.Code)
			assert.Equal(t, tc.email, body.Fields["email"])
			assert.Equal(t, tc.role, body.Fields["role"])
			assert.NotContains(t, rec.Body.String(), tc.password)
			assert.Empty(t, rec.Result().Cookies())
		})
	}

	missing := h.do(request{method: http.MethodPost, path: "/api/v1/auth/login", body: map[string]interface{}{"email": "a@x.com"}})
	require.Equal(t, http.StatusBadRequest, missing.Code)
	body := decodeError(t, missing)
	assert.Contains(t, body.Errors, "password")
	assert.Contains(t, body.Errors, "role")
}

func TestAuthHandler_LogoutRevokesSession(t *testing.T) {
	h := newAPIHarness(t)
	h.register("a@x.com", "alice", entities.RoleStudent)
	token := h.login("a@x.com", entities.RoleStudent)

	rec := h.do(request{method: http.MethodPost, path: "/api/v1/auth/logout", token: token})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redirectUrl":"/"`)
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)

	me := h.do(request{method: http.MethodGet, path: "/api/v1/auth/me", token: token})
	assert.Equal(t, http.StatusUnauthorized, me.Code)

	// logging out without a session still succeeds
	again := h.do(request{method: http.MethodPost, path: "/api/v1/auth/logout"})
	assert.Equal(t, http.StatusOK, again.Code)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	h := newAPIHarness(t)
	h.register("a@x.com", "alice", entities.RoleStudent)
	token := h.login("a@x.com", entities.RoleStudent)

	wrong := h.do(request{method: http.MethodPost, path: "/api/v1/auth/change-password", token: token, body: map[string]string{
		"currentPassword": "Wrong1!pass", "newPassword": "N3w!Passw0rd",
	}})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)

	rec := h.do(request{method: http.MethodPost, path: "/api/v1/auth/change-password", token: token, body: map[string]string{
		"currentPassword": testPassword, "newPassword": "N3w!Passw0rd",
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	login := h.do(request{method: http.MethodPost, path: "/api/v1/auth/login", body: map[string]interface{}{
		"email": "a@x.com", "password": "N3w!Passw0rd", "role": "student",
	}})
	assert.Equal(t, http.StatusOK, login.Code)
}

func TestAuthHandler_MeRequiresSession(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(request{method: http.MethodGet, path: "/api/v1/auth/me"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), domainerrors.CodeSessionRequired))
}
