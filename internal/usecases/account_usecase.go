package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"tutorhub.backend/internal/domain/entities"
	domainerrors "tutorhub.backend/internal/domain/errors"
	"tutorhub.backend/internal/domain/repositories"
	"tutorhub.backend/pkg/logger"
	"tutorhub.backend/pkg/utils"
)

// AccountUsecase is the account directory: registration, authentication and account lifecycle
type AccountUsecase struct {
	uow           repositories.UnitOfWork
	accountRepo   repositories.AccountRepository
	sync          *ProfileSync
	hasher        PasswordHasher
	policy        *PasswordPolicy
	sessions      SessionRevoker
	defaultStatus entities.AccountStatus
}

// NewAccountUsecase creates a new account usecase
func NewAccountUsecase(
	uow repositories.UnitOfWork,
	accountRepo repositories.AccountRepository,
	sync *ProfileSync,
	hasher PasswordHasher,
	policy *PasswordPolicy,
	sessions SessionRevoker,
	defaultStatus entities.AccountStatus,
) *AccountUsecase {
	if defaultStatus != entities.AccountStatusPending {
		defaultStatus = entities.AccountStatusActive
	}
	return &AccountUsecase{
		uow:           uow,
		accountRepo:   accountRepo,
		sync:          sync,
		hasher:        hasher,
		policy:        policy,
		sessions:      sessions,
		defaultStatus: defaultStatus,
	}
}

func normalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Register creates an account together with its generic and role profiles in one unit of work
func (u *AccountUsecase) Register(ctx context.Context, input *entities.RegisterInput) (account *entities.Account, err error) {
	role, ok := entities.ParseRole(string(input.Role))
	roleLabel := string(role)
	if !ok {
		roleLabel = "invalid"
	}
	defer func() {
		registrations.WithLabelValues(outcomeLabel(err), roleLabel).Inc()
	}()
	if !ok {
		return nil, domainerrors.ErrInvalidRole
	}
	input.Role = role

	email := normalizeIdentifier(input.Email)
	username := normalizeIdentifier(input.Username)
	if email == "" || username == "" {
		return nil, domainerrors.NewError("email and username are required", domainerrors.ErrBadRequest)
	}

	if input.Password != input.ConfirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", domainerrors.ErrWeakCredential)
	}
	if err := u.policy.Validate(input.Password, email, username); err != nil {
		return nil, err
	}

	emailTaken, usernameTaken, err := u.accountRepo.IdentityTaken(ctx, email, username)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, fmt.Errorf("%w: email", domainerrors.ErrDuplicateIdentity)
	}
	if usernameTaken {
		return nil, fmt.Errorf("%w: username", domainerrors.ErrDuplicateIdentity)
	}

	hash, err := u.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	gender := input.Gender
	if !gender.IsValid() {
		gender = entities.GenderPreferNotToSay
	}
	phone := null.NewString(strings.TrimSpace(input.Phone), strings.TrimSpace(input.Phone) != "")

	now := time.Now()
	account = &entities.Account{
		ID:           utils.GenerateUUIDv7(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Phone:        phone,
		Gender:       gender,
		Role:         role,
		Status:       u.defaultStatus,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.accountRepo.Create(txCtx, account); err != nil {
			return err
		}
		return u.sync.OnAccountCreated(txCtx, account, input.Profile)
	})
	if err != nil {
		if !errors.Is(err, domainerrors.ErrDuplicateIdentity) {
			logger.Error(ctx, "Registration failed", zap.String("role", string(role)), zap.Error(err))
		}
		return nil, err
	}

	logger.Info(ctx, "Account registered",
		zap.String("account_id", account.ID.String()),
		zap.String("role", string(account.Role)),
	)
	return account, nil
}

// Authenticate verifies an email and password. Unknown emails and wrong passwords both yield
// ErrInvalidCredentials, and unknown emails still pay for a bcrypt comparison.
func (u *AccountUsecase) Authenticate(ctx context.Context, email, password string) (*entities.Account, error) {
	account, err := u.accountRepo.GetByEmail(ctx, normalizeIdentifier(email))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			u.hasher.CheckDummy(password)
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !u.hasher.Check(password, account.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}
	return account, nil
}

// GetByID gets an account by ID
func (u *AccountUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	return u.accountRepo.GetByID(ctx, id)
}

// UpdateRole changes the declared role and re-materializes role profiles.
// Dependent records of the old profile block the change unless force is set.
func (u *AccountUsecase) UpdateRole(ctx context.Context, id uuid.UUID, newRole entities.Role, force bool) (*entities.Account, error) {
	role, ok := entities.ParseRole(string(newRole))
	if !ok {
		return nil, domainerrors.ErrInvalidRole
	}

	var account *entities.Account
	var changed bool
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		acc, err := u.accountRepo.GetByID(u.uow.WithLock(txCtx), id)
		if err != nil {
			return err
		}
		account = acc
		if acc.Role == role {
			return nil
		}
		changed = true
		return u.sync.SwitchRole(txCtx, acc, role, force)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		u.revokeSessions(ctx, id, "role changed")
		logger.Info(ctx, "Account role updated",
			zap.String("account_id", id.String()),
			zap.String("role", string(role)),
			zap.Bool("force", force),
		)
	}
	return account, nil
}

// UpdateStatus sets the account status; accounts that can no longer log in lose their sessions
func (u *AccountUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.AccountStatus) (*entities.Account, error) {
	if !status.IsValid() {
		return nil, domainerrors.NewError("invalid account status", domainerrors.ErrBadRequest)
	}
	if err := u.accountRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	if !status.CanLogin() {
		u.revokeSessions(ctx, id, "status changed")
	}
	return u.accountRepo.GetByID(ctx, id)
}

// ChangePassword replaces the password after verifying the current one
func (u *AccountUsecase) ChangePassword(ctx context.Context, id uuid.UUID, input *entities.ChangePasswordInput) error {
	account, err := u.accountRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !u.hasher.Check(input.CurrentPassword, account.PasswordHash) {
		return domainerrors.ErrInvalidCredentials
	}
	if err := u.policy.Validate(input.NewPassword, account.Email, account.Username); err != nil {
		return err
	}

	hash, err := u.hasher.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	return u.accountRepo.UpdatePasswordHash(ctx, id, hash)
}

// Delete removes the account with its profiles and dependent records, then revokes its sessions
func (u *AccountUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		account, err := u.accountRepo.GetByID(u.uow.WithLock(txCtx), id)
		if err != nil {
			return err
		}
		if err := u.sync.RemoveAll(txCtx, account); err != nil {
			return err
		}
		return u.accountRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	u.revokeSessions(ctx, id, "account deleted")
	logger.Info(ctx, "Account deleted", zap.String("account_id", id.String()))
	return nil
}

func (u *AccountUsecase) revokeSessions(ctx context.Context, id uuid.UUID, reason string) {
	revokeAccountSessions(ctx, u.sessions, id, reason)
}

// revokeAccountSessions drops the account's sessions; failures are logged, not returned,
// because the state change they follow is already committed
func revokeAccountSessions(ctx context.Context, sessions SessionRevoker, id uuid.UUID, reason string) {
	if sessions == nil {
		return
	}
	n, err := sessions.DeleteAccountSessions(ctx, id.String())
	if err != nil {
		logger.Warn(ctx, "Failed to revoke account sessions",
			zap.String("account_id", id.String()),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return
	}
	if n > 0 {
		logger.Info(ctx, "Account sessions revoked",
			zap.String("account_id", id.String()),
			zap.String("reason", reason),
			zap.Int("sessions", n),
		)
	}
}
