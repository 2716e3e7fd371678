package repositories

import (
	"context"

	"github.com/google/uuid"
	"tutorhub.backend/internal/domain/entities"
)

// CourseRepository defines course data operations
type CourseRepository interface {
	Create(ctx context.Context, course *entities.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Course, error)
	ListByTutor(ctx context.Context, tutorID uuid.UUID) ([]*entities.Course, error)
	CountByTutor(ctx context.Context, tutorID uuid.UUID) (int64, error)
	DeleteByTutor(ctx context.Context, tutorID uuid.UUID) error
}

// EnrollmentRepository defines enrollment data operations
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *entities.Enrollment) error
	ListCoursesForStudent(ctx context.Context, studentID uuid.UUID) ([]*entities.Course, error)
	IsEnrolled(ctx context.Context, studentID, courseID uuid.UUID) (bool, error)
	CountByStudent(ctx context.Context, studentID uuid.UUID) (int64, error)
	DeleteByStudent(ctx context.Context, studentID uuid.UUID) error
	// DeleteByTutor removes enrollments in any course taught by the tutor
	DeleteByTutor(ctx context.Context, tutorID uuid.UUID) error
}
