package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"tutorhub.backend/internal/domain/entities"
	domainerrors "tutorhub.backend/internal/domain/errors"
	"tutorhub.backend/internal/domain/repositories"
	"tutorhub.backend/pkg/crypto"
	"tutorhub.backend/pkg/logger"
	"tutorhub.backend/pkg/redis"
)

var generateSessionID = crypto.GenerateSessionID

// SessionUsecase is the login flow: authenticate, check the claimed role, establish a session
type SessionUsecase struct {
	accounts    *AccountUsecase
	profileRepo repositories.ProfileRepository
	accountRepo repositories.AccountRepository
	store       SessionStore
	tokens      TokenIssuer
	ttl         time.Duration
}

// NewSessionUsecase creates a new session usecase
func NewSessionUsecase(
	accounts *AccountUsecase,
	accountRepo repositories.AccountRepository,
	profileRepo repositories.ProfileRepository,
	store SessionStore,
	tokens TokenIssuer,
	ttl time.Duration,
) *SessionUsecase {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionUsecase{
		accounts:    accounts,
		accountRepo: accountRepo,
		profileRepo: profileRepo,
		store:       store,
		tokens:      tokens,
		ttl:         ttl,
	}
}

// Login runs one login attempt through pending, role_check and a terminal state.
// The returned result is never nil; on failure its state is rejected and the error says why.
func (u *SessionUsecase) Login(ctx context.Context, input *entities.LoginInput) (result *entities.LoginResult, err error) {
	result = &entities.LoginResult{State: entities.LoginStatePending, Redirect: entities.RedirectHome}
	defer func() {
		if err != nil {
			result.State = entities.LoginStateRejected
			result.Session = nil
			result.Account = nil
			result.Redirect = entities.RedirectHome
		}
		loginAttempts.WithLabelValues(outcomeLabel(err)).Inc()
	}()

	claimed, ok := entities.ParseRole(string(input.Role))
	if !ok {
		return result, domainerrors.ErrInvalidRole
	}

	account, err := u.accounts.Authenticate(ctx, input.Email, input.Password)
	if err != nil {
		return result, err
	}

	result.State = entities.LoginStateRoleCheck
	if err := u.checkRole(ctx, account, claimed); err != nil {
		logger.Warn(ctx, "Login rejected",
			zap.String("account_id", account.ID.String()),
			zap.String("claimed_role", string(claimed)),
			zap.Error(err),
		)
		return result, err
	}

	session, err := u.establish(ctx, account)
	if err != nil {
		return result, err
	}

	result.State = entities.LoginStateSessionEstablished
	result.Session = session
	result.Account = account
	result.Redirect = entities.RedirectFor(account.Role)

	logger.Info(ctx, "Session established",
		zap.String("account_id", account.ID.String()),
		zap.String("role", string(account.Role)),
	)
	return result, nil
}

// checkRole requires an account whose declared role equals the claim, that may log in and
// whose matching role profile exists. The role is compared before the status is looked at.
func (u *SessionUsecase) checkRole(ctx context.Context, account *entities.Account, claimed entities.Role) error {
	if account.Role != claimed {
		return domainerrors.ErrRoleMismatch
	}
	if !account.Status.CanLogin() {
		return domainerrors.ErrAccountNotActive
	}

	_, err := u.profileRepo.GetRoleProfile(ctx, account.ID, account.Role)
	if err == nil {
		return nil
	}
	if errors.Is(err, domainerrors.ErrNotFound) {
		integrityViolations.Inc()
		logger.Error(ctx, "Account has no role profile matching its role",
			zap.String("account_id", account.ID.String()),
			zap.String("role", string(account.Role)),
		)
		return domainerrors.ErrInvariantViolation
	}
	return err
}

func (u *SessionUsecase) establish(ctx context.Context, account *entities.Account) (*entities.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	issued, err := u.tokens.IssueSessionToken(account.ID, account.Email, string(account.Role), sessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = u.store.CreateSession(ctx, sessionID, &redis.SessionData{
		AccountID:   account.ID.String(),
		Email:       account.Email,
		Role:        string(account.Role),
		AccessToken: issued.Token,
		CreatedAt:   now,
	}, u.ttl)
	if err != nil {
		return nil, err
	}

	if err := u.accountRepo.TouchLastLogin(ctx, account.ID, now); err != nil {
		logger.Warn(ctx, "Failed to record last login", zap.String("account_id", account.ID.String()), zap.Error(err))
	}

	expiresAt := now.Add(u.ttl)
	if issued.ExpiresAt.Before(expiresAt) {
		expiresAt = issued.ExpiresAt
	}
	return &entities.Session{
		ID:          sessionID,
		AccountID:   account.ID,
		Email:       account.Email,
		Role:        account.Role,
		AccessToken: issued.Token,
		ExpiresAt:   expiresAt,
	}, nil
}

// Resolve maps a bearer token back to a live session. The token must verify, its session
// must still exist in the store and belong to the same account, and that account must still
// hold the session's role with a status that may log in.
func (u *SessionUsecase) Resolve(ctx context.Context, token string) (*entities.Session, error) {
	claims, err := u.tokens.ValidateToken(token)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized
	}
	if claims.SessionID == "" {
		return nil, domainerrors.ErrUnauthorized
	}

	data, err := u.store.GetSession(ctx, claims.SessionID)
	if err != nil {
		if !redis.IsNil(err) {
			logger.Warn(ctx, "Session lookup failed", zap.Error(err))
		}
		return nil, domainerrors.ErrUnauthorized
	}
	if data.AccountID != claims.AccountID.String() || data.AccessToken != token {
		return nil, domainerrors.ErrUnauthorized
	}

	role, ok := entities.ParseRole(data.Role)
	if !ok {
		return nil, domainerrors.ErrUnauthorized
	}

	// the stored role is a snapshot; the account must still hold it and be allowed in
	account, err := u.accountRepo.GetByID(ctx, claims.AccountID)
	if err != nil {
		if !errors.Is(err, domainerrors.ErrNotFound) {
			logger.Warn(ctx, "Account lookup failed", zap.Error(err))
		}
		return nil, domainerrors.ErrUnauthorized
	}
	if account.Role != role || !account.Status.CanLogin() {
		logger.Info(ctx, "Dropping stale session",
			zap.String("account_id", account.ID.String()),
			zap.String("session_role", string(role)),
			zap.String("account_role", string(account.Role)),
			zap.String("status", string(account.Status)),
		)
		if err := u.store.DeleteSession(ctx, claims.SessionID); err != nil {
			logger.Warn(ctx, "Failed to delete stale session", zap.Error(err))
		}
		return nil, domainerrors.ErrUnauthorized
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return &entities.Session{
		ID:          claims.SessionID,
		AccountID:   claims.AccountID,
		Email:       account.Email,
		Role:        role,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// Logout ends a single session
func (u *SessionUsecase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return domainerrors.ErrUnauthorized
	}
	return u.store.DeleteSession(ctx, sessionID)
}

// RevokeAll ends every session of the account
func (u *SessionUsecase) RevokeAll(ctx context.Context, accountID uuid.UUID) (int, error) {
	return u.store.DeleteAccountSessions(ctx, accountID.String())
}
