package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"tutorhub.backend/internal/domain/entities"
	domainerrors "tutorhub.backend/internal/domain/errors"
	"tutorhub.backend/internal/domain/repositories"
	"tutorhub.backend/pkg/logger"
	"tutorhub.backend/pkg/utils"
)

// CourseUsecase handles courses offered by tutors and student enrollments
type CourseUsecase struct {
	uow            repositories.UnitOfWork
	accountRepo    repositories.AccountRepository
	courseRepo     repositories.CourseRepository
	enrollmentRepo repositories.EnrollmentRepository
	profileRepo    repositories.ProfileRepository
}

// NewCourseUsecase creates a new course usecase
func NewCourseUsecase(
	uow repositories.UnitOfWork,
	accountRepo repositories.AccountRepository,
	courseRepo repositories.CourseRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	profileRepo repositories.ProfileRepository,
) *CourseUsecase {
	return &CourseUsecase{
		uow:            uow,
		accountRepo:    accountRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		profileRepo:    profileRepo,
	}
}

// lockRoleHolder locks the account row for the rest of the transaction and fails with
// ErrForbidden unless the account holds role and has the matching role profile.
// Role changes lock the same row, so the profile cannot disappear before the caller commits.
func lockRoleHolder(
	txCtx context.Context,
	uow repositories.UnitOfWork,
	accountRepo repositories.AccountRepository,
	profileRepo repositories.ProfileRepository,
	accountID uuid.UUID,
	role entities.Role,
) error {
	account, err := accountRepo.GetByID(uow.WithLock(txCtx), accountID)
	if err != nil {
		return err
	}
	forbidden := domainerrors.Forbidden("a " + string(role) + " profile is required")
	if account.Role != role {
		return forbidden
	}
	_, err = profileRepo.GetRoleProfile(txCtx, accountID, role)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return forbidden
	}
	return err
}

// Create adds a course taught by the tutor
func (u *CourseUsecase) Create(ctx context.Context, tutorID uuid.UUID, input *entities.CreateCourseInput) (*entities.Course, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domainerrors.BadRequest("title is required")
	}

	now := time.Now()
	course := &entities.Course{
		ID:          utils.GenerateUUIDv7(),
		TutorID:     tutorID,
		Title:       title,
		Description: input.Description,
		Category:    input.Category,
		Level:       input.Level,
		Status:      entities.CourseStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := lockRoleHolder(txCtx, u.uow, u.accountRepo, u.profileRepo, tutorID, entities.RoleTutor); err != nil {
			return err
		}
		return u.courseRepo.Create(txCtx, course)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Course created",
		zap.String("course_id", course.ID.String()),
		zap.String("tutor_id", tutorID.String()),
	)
	return course, nil
}

// Enroll registers the student in an active course
func (u *CourseUsecase) Enroll(ctx context.Context, studentID, courseID uuid.UUID) (*entities.Enrollment, error) {
	enrollment := &entities.Enrollment{
		ID:         utils.GenerateUUIDv7(),
		StudentID:  studentID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := lockRoleHolder(txCtx, u.uow, u.accountRepo, u.profileRepo, studentID, entities.RoleStudent); err != nil {
			return err
		}
		course, err := u.courseRepo.GetByID(txCtx, courseID)
		if err != nil {
			return err
		}
		if course.Status != entities.CourseStatusActive {
			return domainerrors.BadRequest("course is not open for enrollment")
		}
		return u.enrollmentRepo.Create(txCtx, enrollment)
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

// ListForTutor returns the tutor's courses
func (u *CourseUsecase) ListForTutor(ctx context.Context, tutorID uuid.UUID) ([]*entities.Course, error) {
	return u.courseRepo.ListByTutor(ctx, tutorID)
}

// ListForStudent returns the courses the student is enrolled in
func (u *CourseUsecase) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]*entities.Course, error) {
	return u.enrollmentRepo.ListCoursesForStudent(ctx, studentID)
}
