package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"tutorhub.backend/internal/domain/entities"
	domainerrors "tutorhub.backend/internal/domain/errors"
	"tutorhub.backend/internal/infrastructure/models"
)

const sessionsOfTutor = "session_id IN (SELECT id FROM tutoring_sessions WHERE tutor_id = ?)"

// TutoringSessionRepository implements tutoring session data operations
type TutoringSessionRepository struct {
	db *gorm.DB
}

// NewTutoringSessionRepository creates a new tutoring session repository
func NewTutoringSessionRepository(db *gorm.DB) *TutoringSessionRepository {
	return &TutoringSessionRepository{db: db}
}

// Create schedules a session. The course and the tutor profile must exist.
func (r *TutoringSessionRepository) Create(ctx context.Context, session *entities.TutoringSession) error {
	m := &models.TutoringSession{
		ID:              session.ID,
		CourseID:        session.CourseID,
		TutorID:         session.TutorID,
		Title:           session.Title,
		Description:     session.Description,
		ScheduledAt:     session.ScheduledAt,
		DurationMinutes: session.DurationMinutes,
		Mode:            string(session.Mode),
		VideoURL:        session.VideoURL,
		Status:          string(session.Status),
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return translateWriteError(err, nil, "course or tutor profile")
	}
	session.CreatedAt = m.CreatedAt
	session.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a session by ID
func (r *TutoringSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.TutoringSession, error) {
	var m models.TutoringSession
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return toTutoringSessionEntity(&m), nil
}

// ListByTutor lists the sessions run by a tutor, soonest first
func (r *TutoringSessionRepository) ListByTutor(ctx context.Context, tutorID uuid.UUID) ([]*entities.TutoringSession, error) {
	return r.list(GetDB(ctx, r.db).Where("tutor_id = ?", tutorID))
}

// ListByCourse lists the sessions of a course, soonest first
func (r *TutoringSessionRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*entities.TutoringSession, error) {
	return r.list(GetDB(ctx, r.db).Where("course_id = ?", courseID))
}

func (r *TutoringSessionRepository) list(q *gorm.DB) ([]*entities.TutoringSession, error) {
	var rows []models.TutoringSession
	if err := q.Order("scheduled_at ASC").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	sessions := make([]*entities.TutoringSession, 0, len(rows))
	for i := range rows {
		sessions = append(sessions, toTutoringSessionEntity(&rows[i]))
	}
	return sessions, nil
}

// UpdateStatus moves a session to a new status
func (r *TutoringSessionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.SessionStatus) error {
	result := GetDB(ctx, r.db).Model(&models.TutoringSession{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// CountByTutor counts the sessions run by a tutor
func (r *TutoringSessionRepository) CountByTutor(ctx context.Context, tutorID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.TutoringSession{}).Where("tutor_id = ?", tutorID).Count(&count).Error
	return count, err
}

// DeleteByTutor removes every session run by a tutor
func (r *TutoringSessionRepository) DeleteByTutor(ctx context.Context, tutorID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("tutor_id = ?", tutorID).Delete(&models.TutoringSession{}).Error
}

// SessionBookingRepository implements session booking data operations
type SessionBookingRepository struct {
	db *gorm.DB
}

// NewSessionBookingRepository creates a new session booking repository
func NewSessionBookingRepository(db *gorm.DB) *SessionBookingRepository {
	return &SessionBookingRepository{db: db}
}

// Create books a seat. A repeated (session, student) pair yields ErrAlreadyBooked,
// a student without a student profile yields ErrMissingReference.
func (r *SessionBookingRepository) Create(ctx context.Context, booking *entities.SessionBooking) error {
	m := &models.SessionBooking{
		ID:        booking.ID,
		SessionID: booking.SessionID,
		StudentID: booking.StudentID,
		Status:    string(booking.Status),
		BookedAt:  booking.BookedAt,
	}
	return translateWriteError(GetDB(ctx, r.db).Create(m).Error, domainerrors.ErrAlreadyBooked, "tutoring session or student profile")
}

// Get loads the booking of a student in a session
func (r *SessionBookingRepository) Get(ctx context.Context, sessionID, studentID uuid.UUID) (*entities.SessionBooking, error) {
	var m models.SessionBooking
	err := GetDB(ctx, r.db).Where("session_id = ? AND student_id = ?", sessionID, studentID).First(&m).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return toSessionBookingEntity(&m), nil
}

// UpdateStatus changes the status of a booking
func (r *SessionBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.BookingStatus) error {
	result := GetDB(ctx, r.db).Model(&models.SessionBooking{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ListForStudent lists a student's bookings, most recent first
func (r *SessionBookingRepository) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]*entities.SessionBooking, error) {
	var rows []models.SessionBooking
	if err := GetDB(ctx, r.db).Where("student_id = ?", studentID).Order("booked_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	bookings := make([]*entities.SessionBooking, 0, len(rows))
	for i := range rows {
		bookings = append(bookings, toSessionBookingEntity(&rows[i]))
	}
	return bookings, nil
}

// CountByStudent counts a student's bookings
func (r *SessionBookingRepository) CountByStudent(ctx context.Context, studentID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.SessionBooking{}).Where("student_id = ?", studentID).Count(&count).Error
	return count, err
}

// DeleteByStudent removes a student's bookings
func (r *SessionBookingRepository) DeleteByStudent(ctx context.Context, studentID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("student_id = ?", studentID).Delete(&models.SessionBooking{}).Error
}

// DeleteByTutor removes bookings of sessions run by the tutor
func (r *SessionBookingRepository) DeleteByTutor(ctx context.Context, tutorID uuid.UUID) error {
	return GetDB(ctx, r.db).Where(sessionsOfTutor, tutorID).Delete(&models.SessionBooking{}).Error
}

// AttendanceRepository implements attendance data operations
type AttendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Record upserts the attendance of a student in a session.
// On return attendance carries the ID of the stored row.
func (r *AttendanceRepository) Record(ctx context.Context, attendance *entities.Attendance) error {
	m := &models.Attendance{
		ID:         attendance.ID,
		SessionID:  attendance.SessionID,
		StudentID:  attendance.StudentID,
		Status:     string(attendance.Status),
		Notes:      attendance.Notes,
		RecordedAt: attendance.RecordedAt,
	}
	db := GetDB(ctx, r.db)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "notes", "recorded_at"}),
	}).Create(m).Error
	if err != nil {
		return translateWriteError(err, nil, "tutoring session or student profile")
	}

	var stored models.Attendance
	if err := db.Where("session_id = ? AND student_id = ?", m.SessionID, m.StudentID).First(&stored).Error; err != nil {
		return notFoundOr(err)
	}
	attendance.ID = stored.ID
	return nil
}

// ListBySession lists the attendance recorded for a session
func (r *AttendanceRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*entities.Attendance, error) {
	var rows []models.Attendance
	if err := GetDB(ctx, r.db).Where("session_id = ?", sessionID).Order("recorded_at").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]*entities.Attendance, 0, len(rows))
	for i := range rows {
		records = append(records, toAttendanceEntity(&rows[i]))
	}
	return records, nil
}

// CountByStudent counts the attendance records of a student
func (r *AttendanceRepository) CountByStudent(ctx context.Context, studentID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.Attendance{}).Where("student_id = ?", studentID).Count(&count).Error
	return count, err
}

// DeleteByStudent removes a student's attendance records
func (r *AttendanceRepository) DeleteByStudent(ctx context.Context, studentID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("student_id = ?", studentID).Delete(&models.Attendance{}).Error
}

// DeleteByTutor removes attendance of sessions run by the tutor
func (r *AttendanceRepository) DeleteByTutor(ctx context.Context, tutorID uuid.UUID) error {
	return GetDB(ctx, r.db).Where(sessionsOfTutor, tutorID).Delete(&models.Attendance{}).Error
}

func toTutoringSessionEntity(m *models.TutoringSession) *entities.TutoringSession {
	return &entities.TutoringSession{
		ID:              m.ID,
		CourseID:        m.CourseID,
		TutorID:         m.TutorID,
		Title:           m.Title,
		Description:     m.Description,
		ScheduledAt:     m.ScheduledAt,
		DurationMinutes: m.DurationMinutes,
		Mode:            entities.SessionMode(m.Mode),
		VideoURL:        m.VideoURL,
		Status:          entities.SessionStatus(m.Status),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toSessionBookingEntity(m *models.SessionBooking) *entities.SessionBooking {
	return &entities.SessionBooking{
		ID:        m.ID,
		SessionID: m.SessionID,
		StudentID: m.StudentID,
		Status:    entities.BookingStatus(m.Status),
		BookedAt:  m.BookedAt,
	}
}

func toAttendanceEntity(m *models.Attendance) *entities.Attendance {
	return &entities.Attendance{
		ID:         m.ID,
		SessionID:  m.SessionID,
		StudentID:  m.StudentID,
		Status:     entities.AttendanceStatus(m.Status),
		Notes:      m.Notes,
		RecordedAt: m.RecordedAt,
	}
}
