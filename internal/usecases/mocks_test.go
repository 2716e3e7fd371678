package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"tutorhub.backend/internal/domain/entities"
	"tutorhub.backend/pkg/jwt"
	"tutorhub.backend/pkg/redis"
	"tutorhub.backend/pkg/utils"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

func (m *MockUnitOfWork) WithLock(ctx context.Context) context.Context {
	return ctx
}

// Mock AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *entities.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*entities.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) IdentityTaken(ctx context.Context, email, username string) (bool, bool, error) {
	args := m.Called(ctx, email, username)
	return args.Bool(0), args.Bool(1), args.Error(2)
}

func (m *MockAccountRepository) UpdateRole(ctx context.Context, id uuid.UUID, role entities.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.AccountStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockAccountRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccountRepository) CountByRole(ctx context.Context) ([]entities.RoleCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.RoleCount), args.Error(1)
}

func (m *MockAccountRepository) ListRoleIntegrityViolations(ctx context.Context, pagination utils.PaginationParams) ([]*entities.Account, int64, error) {
	args := m.Called(ctx, pagination)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Account), args.Get(1).(int64), args.Error(2)
}

// Mock ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) CreateRoleProfile(ctx context.Context, profile entities.RoleProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) GetRoleProfile(ctx context.Context, accountID uuid.UUID, role entities.Role) (entities.RoleProfile, error) {
	args := m.Called(ctx, accountID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entities.RoleProfile), args.Error(1)
}

func (m *MockProfileRepository) ListRoleProfiles(ctx context.Context, accountID uuid.UUID) ([]entities.RoleProfile, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.RoleProfile), args.Error(1)
}

func (m *MockProfileRepository) UpdateRoleProfile(ctx context.Context, profile entities.RoleProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) DeleteRoleProfile(ctx context.Context, accountID uuid.UUID, role entities.Role) error {
	args := m.Called(ctx, accountID, role)
	return args.Error(0)
}

func (m *MockProfileRepository) CreateGeneric(ctx context.Context, profile *entities.GenericProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) GetGeneric(ctx context.Context, accountID uuid.UUID) (*entities.GenericProfile, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GenericProfile), args.Error(1)
}

func (m *MockProfileRepository) UpdateGeneric(ctx context.Context, profile *entities.GenericProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) DeleteGeneric(ctx context.Context, accountID uuid.UUID) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// Mock PasswordHasher
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	args := m.Called(password, hash)
	return args.Bool(0)
}

func (m *MockPasswordHasher) CheckDummy(password string) {
	m.Called(password)
}

// Mock SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error {
	args := m.Called(ctx, sessionID, data, expiration)
	return args.Error(0)
}

func (m *MockSessionStore) GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redis.SessionData), args.Error(1)
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockSessionStore) DeleteAccountSessions(ctx context.Context, accountID string) (int, error) {
	args := m.Called(ctx, accountID)
	return args.Int(0), args.Error(1)
}

// Mock TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) IssueSessionToken(accountID uuid.UUID, email, role, sessionID string) (*jwt.IssuedToken, error) {
	args := m.Called(accountID, email, role, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.IssuedToken), args.Error(1)
}

func (m *MockTokenIssuer) ValidateToken(token string) (*jwt.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.Claims), args.Error(1)
}
