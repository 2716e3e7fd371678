package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"tutorhub.backend/internal/domain/entities"
	domainerrors "tutorhub.backend/internal/domain/errors"
	"tutorhub.backend/internal/domain/repositories"
	"tutorhub.backend/pkg/logger"
)

// ProfileSync keeps Account.Role and the existence of exactly one matching role profile consistent.
// Account.Role is authoritative. Every method expects to run inside a unit of work.
type ProfileSync struct {
	accountRepo    repositories.AccountRepository
	profileRepo    repositories.ProfileRepository
	courseRepo     repositories.CourseRepository
	enrollmentRepo repositories.EnrollmentRepository
	sessionRepo    repositories.TutoringSessionRepository
	bookingRepo    repositories.SessionBookingRepository
	attendanceRepo repositories.AttendanceRepository
}

// NewProfileSync creates a new profile synchronization policy
func NewProfileSync(
	accountRepo repositories.AccountRepository,
	profileRepo repositories.ProfileRepository,
	courseRepo repositories.CourseRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	sessionRepo repositories.TutoringSessionRepository,
	bookingRepo repositories.SessionBookingRepository,
	attendanceRepo repositories.AttendanceRepository,
) *ProfileSync {
	return &ProfileSync{
		accountRepo:    accountRepo,
		profileRepo:    profileRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		sessionRepo:    sessionRepo,
		bookingRepo:    bookingRepo,
		attendanceRepo: attendanceRepo,
	}
}

// OnAccountCreated materializes the generic profile and the role profile matching account.Role.
// Profiles that already exist are left untouched, so repeated calls are no-ops.
func (s *ProfileSync) OnAccountCreated(ctx context.Context, account *entities.Account, attrs *entities.ProfileAttributes) error {
	if !account.Role.IsValid() {
		return fmt.Errorf("%w: %w", domainerrors.ErrProfileCreationFailed, domainerrors.ErrInvalidRole)
	}

	if err := s.ensureGeneric(ctx, account); err != nil {
		return fmt.Errorf("%w: generic profile: %w", domainerrors.ErrProfileCreationFailed, err)
	}

	existing, err := s.profileRepo.ListRoleProfiles(ctx, account.ID)
	if err != nil {
		return fmt.Errorf("%w: %w", domainerrors.ErrProfileCreationFailed, err)
	}
	for _, p := range existing {
		if p.ProfileRole() != account.Role {
			return fmt.Errorf("%w: %w: account has a %s profile but role %s",
				domainerrors.ErrProfileCreationFailed, domainerrors.ErrInvariantViolation, p.ProfileRole(), account.Role)
		}
	}
	if len(existing) > 0 {
		return nil
	}

	profile, _ := entities.NewRoleProfile(account.ID, account.Role)
	entities.ApplyAttributes(profile, attrs)
	if err := s.profileRepo.CreateRoleProfile(ctx, profile); err != nil {
		if errors.Is(err, domainerrors.ErrProfileAlreadyExists) {
			return nil
		}
		return fmt.Errorf("%w: role profile: %w", domainerrors.ErrProfileCreationFailed, err)
	}
	return nil
}

func (s *ProfileSync) ensureGeneric(ctx context.Context, account *entities.Account) error {
	_, err := s.profileRepo.GetGeneric(ctx, account.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return err
	}
	err = s.profileRepo.CreateGeneric(ctx, &entities.GenericProfile{
		AccountID:     account.ID,
		WalletBalance: "0.00",
		KYCStatus:     entities.KYCNotStarted,
	})
	if errors.Is(err, domainerrors.ErrProfileAlreadyExists) {
		return nil
	}
	return err
}

// CorrectRoleFromProfile is the one-way correction run after an administrator creates a role
// profile directly: the account takes the role of the created profile and the stale profile of
// its previous role is removed. It is refused with ErrRoleChangeConflict when the stale profile
// still has dependent records.
func (s *ProfileSync) CorrectRoleFromProfile(ctx context.Context, account *entities.Account, created entities.RoleProfile) error {
	role := created.ProfileRole()
	if account.Role == role {
		return nil
	}

	previous := account.Role
	if err := s.removeRoleProfile(ctx, account.ID, previous, false); err != nil {
		return err
	}
	if err := s.accountRepo.UpdateRole(ctx, account.ID, role); err != nil {
		return err
	}
	account.Role = role

	roleCorrections.Inc()
	logger.Info(ctx, "Account role corrected from created profile",
		zap.String("account_id", account.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(role)),
	)
	return nil
}

// SwitchRole moves the account to newRole: the old role profile is removed (dependents too when
// force is set) and a profile for the new role is materialized if missing.
func (s *ProfileSync) SwitchRole(ctx context.Context, account *entities.Account, newRole entities.Role, force bool) error {
	if !newRole.IsValid() {
		return domainerrors.ErrInvalidRole
	}
	if account.Role == newRole {
		return nil
	}

	if err := s.removeRoleProfile(ctx, account.ID, account.Role, force); err != nil {
		return err
	}
	if err := s.accountRepo.UpdateRole(ctx, account.ID, newRole); err != nil {
		return err
	}
	account.Role = newRole

	_, err := s.profileRepo.GetRoleProfile(ctx, account.ID, newRole)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return err
	}
	profile, _ := entities.NewRoleProfile(account.ID, newRole)
	return s.profileRepo.CreateRoleProfile(ctx, profile)
}

// RemoveAll deletes every profile of the account and the records depending on them
func (s *ProfileSync) RemoveAll(ctx context.Context, account *entities.Account) error {
	for _, role := range entities.Roles {
		if err := s.removeRoleProfile(ctx, account.ID, role, true); err != nil {
			return err
		}
	}
	return s.profileRepo.DeleteGeneric(ctx, account.ID)
}

// removeRoleProfile deletes the role profile. Dependents block the removal unless force is set:
// a tutor's courses and sessions with their enrollments, bookings and attendance, or a student's
// enrollments, bookings and attendance.
func (s *ProfileSync) removeRoleProfile(ctx context.Context, accountID uuid.UUID, role entities.Role, force bool) error {
	switch role {
	case entities.RoleTutor:
		courses, err := s.courseRepo.CountByTutor(ctx, accountID)
		if err != nil {
			return err
		}
		sessions, err := s.sessionRepo.CountByTutor(ctx, accountID)
		if err != nil {
			return err
		}
		if courses+sessions > 0 {
			if !force {
				return fmt.Errorf("%w: tutor has %d course(s) and %d session(s)",
					domainerrors.ErrRoleChangeConflict, courses, sessions)
			}
			if err := runAll(ctx, accountID,
				s.attendanceRepo.DeleteByTutor,
				s.bookingRepo.DeleteByTutor,
				s.sessionRepo.DeleteByTutor,
				s.enrollmentRepo.DeleteByTutor,
				s.courseRepo.DeleteByTutor,
			); err != nil {
				return err
			}
		}
	case entities.RoleStudent:
		enrollments, err := s.enrollmentRepo.CountByStudent(ctx, accountID)
		if err != nil {
			return err
		}
		bookings, err := s.bookingRepo.CountByStudent(ctx, accountID)
		if err != nil {
			return err
		}
		attendance, err := s.attendanceRepo.CountByStudent(ctx, accountID)
		if err != nil {
			return err
		}
		if enrollments+bookings+attendance > 0 {
			if !force {
				return fmt.Errorf("%w: student has %d enrollment(s), %d booking(s) and %d attendance record(s)",
					domainerrors.ErrRoleChangeConflict, enrollments, bookings, attendance)
			}
			if err := runAll(ctx, accountID,
				s.attendanceRepo.DeleteByStudent,
				s.bookingRepo.DeleteByStudent,
				s.enrollmentRepo.DeleteByStudent,
			); err != nil {
				return err
			}
		}
	}

	err := s.profileRepo.DeleteRoleProfile(ctx, accountID, role)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return err
	}
	return nil
}

// runAll applies each delete in order, stopping at the first error
func runAll(ctx context.Context, id uuid.UUID, deletes ...func(context.Context, uuid.UUID) error) error {
	for _, del := range deletes {
		if err := del(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
