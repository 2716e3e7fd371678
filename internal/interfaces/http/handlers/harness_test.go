package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"tutorhub.backend/internal/domain/entities"
	repoimpl "tutorhub.backend/internal/infrastructure/repositories"
	"tutorhub.backend/internal/interfaces/http/handlers"
	"tutorhub.backend/internal/interfaces/http/middleware"
	"tutorhub.backend/internal/interfaces/http/validation"
	"tutorhub.backend/internal/testutil"
	"tutorhub.backend/internal/usecases"
	"tutorhub.backend/pkg/crypto"
	"tutorhub.backend/pkg/jwt"
	redispkg "tutorhub.backend/pkg/redis"
)

const (
	testSessionKey = "0000000000000000000000000000000000000000000000000000000000000000"
	testPassword   = "Secur3P@ss"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterGin(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type apiHarness struct {
	t        *testing.T
	db       *gorm.DB
	mr       *miniredis.Miniredis
	router   *gin.Engine
	accounts *usecases.AccountUsecase
	profiles *usecases.ProfileUsecase
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()

	db := testutil.NewSchemaDB(t)
	mr := miniredis.RunT(t)
	cli := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	redispkg.SetClient(cli)
	t.Cleanup(func() { _ = cli.Close() })

	store, err := redispkg.NewSessionStore(testSessionKey)
	require.NoError(t, err)
	hasher, err := crypto.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	enforcer, err := middleware.NewEnforcer()
	require.NoError(t, err)

	uow := repoimpl.NewUnitOfWork(db)
	accountRepo := repoimpl.NewAccountRepository(db)
	profileRepo := repoimpl.NewProfileRepository(db)
	courseRepo := repoimpl.NewCourseRepository(db)
	enrollmentRepo := repoimpl.NewEnrollmentRepository(db)
	sessionRepo := repoimpl.NewTutoringSessionRepository(db)
	bookingRepo := repoimpl.NewSessionBookingRepository(db)
	attendanceRepo := repoimpl.NewAttendanceRepository(db)

	sync := usecases.NewProfileSync(accountRepo, profileRepo, courseRepo, enrollmentRepo, sessionRepo, bookingRepo, attendanceRepo)
	accounts := usecases.NewAccountUsecase(uow, accountRepo, sync, hasher, usecases.NewPasswordPolicy(), store, entities.AccountStatusActive)
	profiles := usecases.NewProfileUsecase(uow, accountRepo, profileRepo, sync, store)
	sessions := usecases.NewSessionUsecase(accounts, accountRepo, profileRepo, store, jwt.NewJWTService("test-secret", time.Hour), time.Hour)
	courses := usecases.NewCourseUsecase(uow, accountRepo, courseRepo, enrollmentRepo, profileRepo)
	tutoring := usecases.NewTutoringUsecase(uow, accountRepo, profileRepo, courseRepo, enrollmentRepo, sessionRepo, bookingRepo, attendanceRepo)
	dashboards := usecases.NewDashboardUsecase(accountRepo, profileRepo, courses)

	authHandler := handlers.NewAuthHandler(accounts, sessions, false)
	profileHandler := handlers.NewProfileHandler(profiles)
	courseHandler := handlers.NewCourseHandler(courses)
	tutoringHandler := handlers.NewTutoringHandler(tutoring)
	dashboardHandler := handlers.NewDashboardHandler(dashboards)
	adminHandler := handlers.NewAdminHandler(accounts, profiles)

	r := gin.New()
	requireSession := []gin.HandlerFunc{middleware.SessionMiddleware(sessions), middleware.AuthorizeMiddleware(enforcer)}

	auth := r.Group("/api/v1/auth")
	auth.POST("/register", middleware.IdempotencyMiddleware(), authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", middleware.OptionalSessionMiddleware(sessions), authHandler.Logout)
	auth.GET("/me", append(requireSession, authHandler.Me)...)
	auth.POST("/change-password", append(requireSession, authHandler.ChangePassword)...)

	profile := r.Group("/api/v1/profile", requireSession...)
	profile.GET("", profileHandler.GetOverview)
	profile.GET("/role", profileHandler.GetRoleProfile)
	profile.PUT("/role", profileHandler.UpdateRoleProfile)
	profile.GET("/contact", profileHandler.GetContact)
	profile.PUT("/contact", profileHandler.UpdateContact)

	courseGroup := r.Group("/api/v1/courses", requireSession...)
	courseGroup.POST("", courseHandler.Create)
	courseGroup.GET("/mine", courseHandler.ListMine)
	courseGroup.GET("/enrolled", courseHandler.ListEnrolled)
	courseGroup.POST("/:id/enroll", courseHandler.Enroll)
	courseGroup.POST("/:id/sessions", tutoringHandler.Schedule)
	courseGroup.GET("/:id/sessions", tutoringHandler.ListForCourse)

	sessionGroup := r.Group("/api/v1/sessions", requireSession...)
	sessionGroup.GET("/mine", tutoringHandler.ListMine)
	sessionGroup.GET("/booked", tutoringHandler.ListBooked)
	sessionGroup.PUT("/:id/status", tutoringHandler.UpdateStatus)
	sessionGroup.POST("/:id/book", tutoringHandler.Book)
	sessionGroup.DELETE("/:id/book", tutoringHandler.CancelBooking)
	sessionGroup.POST("/:id/attendance", tutoringHandler.RecordAttendance)
	sessionGroup.GET("/:id/attendance", tutoringHandler.ListAttendance)

	admin := r.Group("/api/v1/admin", requireSession...)
	admin.POST("/profiles", adminHandler.CreateProfile)
	admin.GET("/accounts/:id", adminHandler.GetAccount)
	admin.PUT("/accounts/:id/role", adminHandler.UpdateRole)
	admin.PUT("/accounts/:id/status", adminHandler.UpdateStatus)
	admin.PUT("/accounts/:id/approve", adminHandler.ApproveTutor)
	admin.DELETE("/accounts/:id", adminHandler.DeleteAccount)
	admin.POST("/accounts/:id/profiles", adminHandler.CreateRoleProfile)
	admin.DELETE("/accounts/:id/profiles/:role", adminHandler.DeleteRoleProfile)

	for _, role := range entities.Roles {
		r.GET(entities.RedirectFor(role).URL, middleware.DashboardMiddleware(sessions, role, handlers.LoginPath), dashboardHandler.Show(role))
	}

	return &apiHarness{t: t, db: db, mr: mr, router: r, accounts: accounts, profiles: profiles}
}

type request struct {
	method  string
	path    string
	body    interface{}
	token   string
	cookie  *http.Cookie
	headers map[string]string
}

func (h *apiHarness) do(req request) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if req.body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(req.body))
	}
	httpReq := httptest.NewRequest(req.method, req.path, &buf)
	httpReq.Header.Set("Content-Type", "application/json")
	if req.token != "" {
		httpReq.Header.Set(middleware.AuthorizationHeader, middleware.BearerPrefix+req.token)
	}
	if req.cookie != nil {
		httpReq.AddCookie(req.cookie)
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, httpReq)
	return rec
}

func registerBody(email, username string, role entities.Role) map[string]interface{} {
	return map[string]interface{}{
		"email":           email,
		"username":        username,
		"password":        testPassword,
		"confirmPassword": testPassword,
		"firstName":       "Test",
		"lastName":        "User",
		"role":            role,
	}
}

func (h *apiHarness) register(email, username string, role entities.Role) *entities.Account {
	h.t.Helper()
	acc, err := h.accounts.Register(context.Background(), &entities.RegisterInput{
		Email:           email,
		Username:        username,
		Password:        testPassword,
		ConfirmPassword: testPassword,
		Role:            role,
	})
	require.NoError(h.t, err)
	return acc
}

type loginResponse struct {
	State       entities.LoginState `json:"state"`
	SessionID   string              `json:"sessionId"`
	AccessToken string              `json:"accessToken"`
	Redirect    string              `json:"redirect"`
	RedirectURL string              `json:"redirectUrl"`
}

// login logs in through the API and returns the access token
func (h *apiHarness) login(email string, role entities.Role) string {
	h.t.Helper()
	rec := h.do(request{method: http.MethodPost, path: "/api/v1/auth/login", body: map[string]interface{}{
		"email": email, "password": testPassword, "role": role,
	}})
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())
	var out loginResponse
	decode(h.t, rec, &out)
	require.NotEmpty(h.t, out.AccessToken)
	return out.AccessToken
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

type errorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Errors  map[string]string      `json:"errors"`
	Fields  map[string]interface{} `json:"fields"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	decode(t, rec, &body)
	return body
}
