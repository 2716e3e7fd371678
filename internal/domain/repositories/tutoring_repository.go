package repositories

import (
	"context"

	"github.com/google/uuid"
	"tutorhub.backend/internal/domain/entities"
)

// TutoringSessionRepository defines tutoring session data operations
type TutoringSessionRepository interface {
	Create(ctx context.Context, session *entities.TutoringSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.TutoringSession, error)
	ListByTutor(ctx context.Context, tutorID uuid.UUID) ([]*entities.TutoringSession, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*entities.TutoringSession, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.SessionStatus) error
	CountByTutor(ctx context.Context, tutorID uuid.UUID) (int64, error)
	DeleteByTutor(ctx context.Context, tutorID uuid.UUID) error
}

// SessionBookingRepository defines session booking data operations
type SessionBookingRepository interface {
	// Create books a seat. A repeated (session, student) pair yields ErrAlreadyBooked.
	Create(ctx context.Context, booking *entities.SessionBooking) error
	Get(ctx context.Context, sessionID, studentID uuid.UUID) (*entities.SessionBooking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.BookingStatus) error
	ListForStudent(ctx context.Context, studentID uuid.UUID) ([]*entities.SessionBooking, error)
	CountByStudent(ctx context.Context, studentID uuid.UUID) (int64, error)
	DeleteByStudent(ctx context.Context, studentID uuid.UUID) error
	// DeleteByTutor removes bookings of every session run by the tutor
	DeleteByTutor(ctx context.Context, tutorID uuid.UUID) error
}

// AttendanceRepository defines attendance data operations
type AttendanceRepository interface {
	// Record stores the attendance of a student, replacing an earlier record for the same session
	Record(ctx context.Context, attendance *entities.Attendance) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*entities.Attendance, error)
	CountByStudent(ctx context.Context, studentID uuid.UUID) (int64, error)
	DeleteByStudent(ctx context.Context, studentID uuid.UUID) error
	// DeleteByTutor removes attendance of every session run by the tutor
	DeleteByTutor(ctx context.Context, tutorID uuid.UUID) error
}
