package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"tutorhub.backend/pkg/jwt"
	"tutorhub.backend/pkg/redis"
)

// PasswordHasher hashes and verifies credentials
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(password, hash string) bool
	// CheckDummy performs a comparison that always fails, for unknown accounts
	CheckDummy(password string)
}

// SessionRevoker drops every session bound to an account
type SessionRevoker interface {
	DeleteAccountSessions(ctx context.Context, accountID string) (int, error)
}

// SessionStore persists login sessions
type SessionStore interface {
	SessionRevoker
	CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// TokenIssuer signs and validates session access tokens
type TokenIssuer interface {
	IssueSessionToken(accountID uuid.UUID, email, role, sessionID string) (*jwt.IssuedToken, error)
	ValidateToken(token string) (*jwt.Claims, error)
}
