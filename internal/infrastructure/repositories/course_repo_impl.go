package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"tutorhub.backend/internal/domain/entities"
	domainerrors "tutorhub.backend/internal/domain/errors"
	"tutorhub.backend/internal/infrastructure/models"
)

// CourseRepository implements course data operations
type CourseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create creates a new course. The tutor must already have a tutor profile.
func (r *CourseRepository) Create(ctx context.Context, course *entities.Course) error {
	m := &models.Course{
		ID:          course.ID,
		TutorID:     course.TutorID,
		Title:       course.Title,
		Description: course.Description,
		Category:    course.Category,
		Level:       course.Level,
		Status:      string(course.Status),
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return translateWriteError(err, nil, "tutor profile")
	}
	course.CreatedAt = m.CreatedAt
	course.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Course, error) {
	var m models.Course
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return toCourseEntity(&m), nil
}

// ListByTutor lists the courses taught by a tutor, newest first
func (r *CourseRepository) ListByTutor(ctx context.Context, tutorID uuid.UUID) ([]*entities.Course, error) {
	var rows []models.Course
	if err := GetDB(ctx, r.db).Where("tutor_id = ?", tutorID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	courses := make([]*entities.Course, 0, len(rows))
	for i := range rows {
		courses = append(courses, toCourseEntity(&rows[i]))
	}
	return courses, nil
}

// CountByTutor counts the courses taught by a tutor
func (r *CourseRepository) CountByTutor(ctx context.Context, tutorID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.Course{}).Where("tutor_id = ?", tutorID).Count(&count).Error
	return count, err
}

// DeleteByTutor removes every course taught by a tutor
func (r *CourseRepository) DeleteByTutor(ctx context.Context, tutorID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("tutor_id = ?", tutorID).Delete(&models.Course{}).Error
}

// EnrollmentRepository implements enrollment data operations
type EnrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create enrolls a student. A repeated (student, course) pair yields ErrAlreadyEnrolled,
// a student without a student profile yields ErrMissingReference.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *entities.Enrollment) error {
	m := &models.Enrollment{
		ID:             enrollment.ID,
		StudentID:      enrollment.StudentID,
		CourseID:       enrollment.CourseID,
		EnrolledAt:     enrollment.EnrolledAt,
		Completed:      enrollment.Completed,
		CompletionDate: enrollment.CompletionDate.Ptr(),
	}
	return translateWriteError(GetDB(ctx, r.db).Create(m).Error, domainerrors.ErrAlreadyEnrolled, "student profile or course")
}

// ListCoursesForStudent lists the courses a student is enrolled in, most recent enrollment first
func (r *EnrollmentRepository) ListCoursesForStudent(ctx context.Context, studentID uuid.UUID) ([]*entities.Course, error) {
	var rows []models.Course
	err := GetDB(ctx, r.db).
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.student_id = ?", studentID).
		Order("enrollments.enrolled_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	courses := make([]*entities.Course, 0, len(rows))
	for i := range rows {
		courses = append(courses, toCourseEntity(&rows[i]))
	}
	return courses, nil
}

// IsEnrolled reports whether the student is enrolled in the course
func (r *EnrollmentRepository) IsEnrolled(ctx context.Context, studentID, courseID uuid.UUID) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error
	return count > 0, err
}

// CountByStudent counts a student's enrollments
func (r *EnrollmentRepository) CountByStudent(ctx context.Context, studentID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.Enrollment{}).Where("student_id = ?", studentID).Count(&count).Error
	return count, err
}

// DeleteByStudent removes a student's enrollments
func (r *EnrollmentRepository) DeleteByStudent(ctx context.Context, studentID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("student_id = ?", studentID).Delete(&models.Enrollment{}).Error
}

// DeleteByTutor removes enrollments in courses taught by the tutor
func (r *EnrollmentRepository) DeleteByTutor(ctx context.Context, tutorID uuid.UUID) error {
	return GetDB(ctx, r.db).
		Where("course_id IN (SELECT id FROM courses WHERE tutor_id = ?)", tutorID).
		Delete(&models.Enrollment{}).Error
}

func toCourseEntity(m *models.Course) *entities.Course {
	return &entities.Course{
		ID:          m.ID,
		TutorID:     m.TutorID,
		Title:       m.Title,
		Description: m.Description,
		Category:    m.Category,
		Level:       m.Level,
		Status:      entities.CourseStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
