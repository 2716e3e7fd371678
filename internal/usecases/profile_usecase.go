package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"tutorhub.backend/internal/domain/entities"
	domainerrors "tutorhub.backend/internal/domain/errors"
	"tutorhub.backend/internal/domain/repositories"
	"tutorhub.backend/pkg/logger"
)

// ProfileUsecase is the role profile store
type ProfileUsecase struct {
	uow         repositories.UnitOfWork
	accountRepo repositories.AccountRepository
	profileRepo repositories.ProfileRepository
	sync        *ProfileSync
	sessions    SessionRevoker
}

// NewProfileUsecase creates a new profile usecase
func NewProfileUsecase(
	uow repositories.UnitOfWork,
	accountRepo repositories.AccountRepository,
	profileRepo repositories.ProfileRepository,
	sync *ProfileSync,
	sessions SessionRevoker,
) *ProfileUsecase {
	return &ProfileUsecase{
		uow:         uow,
		accountRepo: accountRepo,
		profileRepo: profileRepo,
		sync:        sync,
		sessions:    sessions,
	}
}

// Create adds the role profile of an account that has none. The variant must equal the
// account's role.
func (u *ProfileUsecase) Create(ctx context.Context, accountID uuid.UUID, role entities.Role, attrs *entities.ProfileAttributes) (entities.RoleProfile, error) {
	if !role.IsValid() {
		return nil, domainerrors.ErrInvalidRole
	}

	var profile entities.RoleProfile
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		account, err := u.accountRepo.GetByID(u.uow.WithLock(txCtx), accountID)
		if err != nil {
			return err
		}
		if account.Role != role {
			return domainerrors.ErrRoleMismatch
		}

		existing, err := u.profileRepo.ListRoleProfiles(txCtx, accountID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return domainerrors.ErrProfileAlreadyExists
		}

		profile, _ = entities.NewRoleProfile(accountID, role)
		entities.ApplyAttributes(profile, attrs)
		return u.profileRepo.CreateRoleProfile(txCtx, profile)
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// AdminCreate is the administrative direct profile creation. When the created variant differs
// from the account's role, the account's role is corrected to match and its sessions end.
func (u *ProfileUsecase) AdminCreate(ctx context.Context, input *entities.CreateProfileInput) (entities.RoleProfile, *entities.Account, error) {
	if !input.Role.IsValid() {
		return nil, nil, domainerrors.ErrInvalidRole
	}

	var (
		profile entities.RoleProfile
		account *entities.Account
		changed bool
	)
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		acc, err := u.accountRepo.GetByID(u.uow.WithLock(txCtx), input.AccountID)
		if err != nil {
			return err
		}
		account = acc

		_, err = u.profileRepo.GetRoleProfile(txCtx, acc.ID, input.Role)
		if err == nil {
			return domainerrors.ErrProfileAlreadyExists
		}
		if !errors.Is(err, domainerrors.ErrNotFound) {
			return err
		}

		profile, _ = entities.NewRoleProfile(acc.ID, input.Role)
		entities.ApplyAttributes(profile, input.Attributes)
		if err := u.profileRepo.CreateRoleProfile(txCtx, profile); err != nil {
			return err
		}

		changed = acc.Role != input.Role
		return u.sync.CorrectRoleFromProfile(txCtx, acc, profile)
	})
	if err != nil {
		return nil, nil, err
	}

	if changed {
		revokeAccountSessions(ctx, u.sessions, account.ID, "role corrected")
	}
	return profile, account, nil
}

// Get returns the role profile matching the account's current role
func (u *ProfileUsecase) Get(ctx context.Context, accountID uuid.UUID) (entities.RoleProfile, error) {
	account, err := u.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return u.profileRepo.GetRoleProfile(ctx, accountID, account.Role)
}

// Delete removes a role profile directly. The profile backing the account's current role
// can only go away with the account itself.
func (u *ProfileUsecase) Delete(ctx context.Context, accountID uuid.UUID, role entities.Role) error {
	if !role.IsValid() {
		return domainerrors.ErrInvalidRole
	}

	return u.uow.Do(ctx, func(txCtx context.Context) error {
		account, err := u.accountRepo.GetByID(u.uow.WithLock(txCtx), accountID)
		if err != nil {
			return err
		}
		if account.Role == role {
			return fmt.Errorf("%w: account role is %s", domainerrors.ErrInvariantViolation, role)
		}
		if _, err := u.profileRepo.GetRoleProfile(txCtx, accountID, role); err != nil {
			return err
		}
		return u.sync.removeRoleProfile(txCtx, accountID, role, false)
	})
}

// UpdateAttributes edits the fields of the account's current role profile
func (u *ProfileUsecase) UpdateAttributes(ctx context.Context, accountID uuid.UUID, attrs *entities.ProfileAttributes) (entities.RoleProfile, error) {
	profile, err := u.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	entities.ApplyAttributes(profile, attrs)
	if err := u.profileRepo.UpdateRoleProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetGeneric returns the contact profile
func (u *ProfileUsecase) GetGeneric(ctx context.Context, accountID uuid.UUID) (*entities.GenericProfile, error) {
	return u.profileRepo.GetGeneric(ctx, accountID)
}

// UpdateGeneric edits the contact profile
func (u *ProfileUsecase) UpdateGeneric(ctx context.Context, accountID uuid.UUID, input *entities.GenericProfileInput) (*entities.GenericProfile, error) {
	profile, err := u.profileRepo.GetGeneric(ctx, accountID)
	if err != nil {
		return nil, err
	}
	entities.ApplyGenericInput(profile, input)
	if err := u.profileRepo.UpdateGeneric(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Overview bundles the account with both of its profiles
func (u *ProfileUsecase) Overview(ctx context.Context, accountID uuid.UUID) (*entities.ProfileOverview, error) {
	account, err := u.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	overview := &entities.ProfileOverview{Account: account}
	generic, err := u.profileRepo.GetGeneric(ctx, accountID)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	overview.Generic = generic

	profile, err := u.profileRepo.GetRoleProfile(ctx, accountID, account.Role)
	switch {
	case err == nil:
		overview.Role = profile
	case errors.Is(err, domainerrors.ErrNotFound):
		integrityViolations.Inc()
		logger.Error(ctx, "Account has no role profile matching its role",
			zap.String("account_id", accountID.String()),
			zap.String("role", string(account.Role)),
		)
	default:
		return nil, err
	}
	return overview, nil
}

// ApproveTutor marks a tutor profile as approved
func (u *ProfileUsecase) ApproveTutor(ctx context.Context, accountID uuid.UUID) (*entities.TutorProfile, error) {
	profile, err := u.profileRepo.GetRoleProfile(ctx, accountID, entities.RoleTutor)
	if err != nil {
		return nil, err
	}
	tutor, ok := profile.(*entities.TutorProfile)
	if !ok {
		return nil, domainerrors.ErrInvariantViolation
	}
	if tutor.IsApproved {
		return tutor, nil
	}

	tutor.IsApproved = true
	tutor.ApprovedAt = null.TimeFrom(time.Now())
	if err := u.profileRepo.UpdateRoleProfile(ctx, tutor); err != nil {
		return nil, err
	}
	logger.Info(ctx, "Tutor approved", zap.String("account_id", accountID.String()))
	return tutor, nil
}
