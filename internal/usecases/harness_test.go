package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"tutorhub.backend/internal/domain/entities"
	"tutorhub.backend/internal/domain/repositories"
	repoimpl "tutorhub.backend/internal/infrastructure/repositories"
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

// harness wires every usecase to sqlite-backed repositories and a miniredis session store
type harness struct {
	db  *gorm.DB
	mr  *miniredis.Miniredis
	uow repositories.UnitOfWork

	accountRepo    *repoimpl.AccountRepository
	profileRepo    *repoimpl.ProfileRepository
	courseRepo     *repoimpl.CourseRepository
	enrollmentRepo *repoimpl.EnrollmentRepository
	sessionRepo    *repoimpl.TutoringSessionRepository
	bookingRepo    *repoimpl.SessionBookingRepository
	attendanceRepo *repoimpl.AttendanceRepository

	sync       *usecases.ProfileSync
	accounts   *usecases.AccountUsecase
	profiles   *usecases.ProfileUsecase
	sessions   *usecases.SessionUsecase
	courses    *usecases.CourseUsecase
	tutoring   *usecases.TutoringUsecase
	dashboards *usecases.DashboardUsecase
}

func newHarness(t *testing.T) *harness {
	return newHarnessWithStatus(t, entities.AccountStatusActive)
}

func newHarnessWithStatus(t *testing.T, defaultStatus entities.AccountStatus) *harness {
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

	h := &harness{
		db:             db,
		mr:             mr,
		uow:            repoimpl.NewUnitOfWork(db),
		accountRepo:    repoimpl.NewAccountRepository(db),
		profileRepo:    repoimpl.NewProfileRepository(db),
		courseRepo:     repoimpl.NewCourseRepository(db),
		enrollmentRepo: repoimpl.NewEnrollmentRepository(db),
		sessionRepo:    repoimpl.NewTutoringSessionRepository(db),
		bookingRepo:    repoimpl.NewSessionBookingRepository(db),
		attendanceRepo: repoimpl.NewAttendanceRepository(db),
	}
	h.sync = usecases.NewProfileSync(h.accountRepo, h.profileRepo, h.courseRepo, h.enrollmentRepo,
		h.sessionRepo, h.bookingRepo, h.attendanceRepo)
	h.accounts = usecases.NewAccountUsecase(h.uow, h.accountRepo, h.sync, hasher, usecases.NewPasswordPolicy(), store, defaultStatus)
	h.profiles = usecases.NewProfileUsecase(h.uow, h.accountRepo, h.profileRepo, h.sync, store)
	h.sessions = usecases.NewSessionUsecase(h.accounts, h.accountRepo, h.profileRepo, store,
		jwt.NewJWTService("test-secret", time.Hour), time.Hour)
	h.courses = usecases.NewCourseUsecase(h.uow, h.accountRepo, h.courseRepo, h.enrollmentRepo, h.profileRepo)
	h.tutoring = usecases.NewTutoringUsecase(h.uow, h.accountRepo, h.profileRepo, h.courseRepo, h.enrollmentRepo,
		h.sessionRepo, h.bookingRepo, h.attendanceRepo)
	h.dashboards = usecases.NewDashboardUsecase(h.accountRepo, h.profileRepo, h.courses)
	return h
}

func registerInput(email, username string, role entities.Role) *entities.RegisterInput {
	return &entities.RegisterInput{
		Email:           email,
		Username:        username,
		Password:        testPassword,
		ConfirmPassword: testPassword,
		FirstName:       "Test",
		LastName:        "User",
		Role:            role,
	}
}

func (h *harness) register(t *testing.T, email, username string, role entities.Role) *entities.Account {
	t.Helper()
	acc, err := h.accounts.Register(context.Background(), registerInput(email, username, role))
	require.NoError(t, err)
	return acc
}

func (h *harness) login(t *testing.T, email string, role entities.Role) *entities.LoginResult {
	t.Helper()
	res, err := h.sessions.Login(context.Background(), &entities.LoginInput{Email: email, Password: testPassword, Role: role})
	require.NoError(t, err)
	return res
}

func (h *harness) count(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.db.Table(table).Count(&n).Error)
	return n
}
