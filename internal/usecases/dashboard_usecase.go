package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"tutorhub.backend/internal/domain/entities"
	domainerrors "tutorhub.backend/internal/domain/errors"
	"tutorhub.backend/internal/domain/repositories"
	"tutorhub.backend/pkg/logger"
)

// DashboardUsecase assembles role dashboards
type DashboardUsecase struct {
	accountRepo repositories.AccountRepository
	profileRepo repositories.ProfileRepository
	courses     *CourseUsecase
}

// NewDashboardUsecase creates a new dashboard usecase
func NewDashboardUsecase(
	accountRepo repositories.AccountRepository,
	profileRepo repositories.ProfileRepository,
	courses *CourseUsecase,
) *DashboardUsecase {
	return &DashboardUsecase{
		accountRepo: accountRepo,
		profileRepo: profileRepo,
		courses:     courses,
	}
}

// Get builds the dashboard of role for the account. The account's current role must be role.
func (u *DashboardUsecase) Get(ctx context.Context, accountID uuid.UUID, role entities.Role) (*entities.Dashboard, error) {
	account, err := u.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Role != role {
		return nil, domainerrors.ErrRoleMismatch
	}

	profile, err := u.profileRepo.GetRoleProfile(ctx, accountID, role)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			integrityViolations.Inc()
			logger.Error(ctx, "Account has no role profile matching its role",
				zap.String("account_id", accountID.String()),
				zap.String("role", string(role)),
			)
			return nil, domainerrors.ErrInvariantViolation
		}
		return nil, err
	}

	dashboard := &entities.Dashboard{Role: role, Account: account, Profile: profile}
	switch role {
	case entities.RoleStudent:
		dashboard.Courses, err = u.courses.ListForStudent(ctx, accountID)
	case entities.RoleTutor:
		dashboard.Courses, err = u.courses.ListForTutor(ctx, accountID)
		if tutor, ok := profile.(*entities.TutorProfile); ok {
			approved := tutor.IsApproved
			dashboard.IsApproved = &approved
		}
	case entities.RoleAdmin:
		dashboard.RoleCounts, err = u.accountRepo.CountByRole(ctx)
	}
	if err != nil {
		return nil, err
	}
	return dashboard, nil
}
