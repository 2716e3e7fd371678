package usecases

import (
	"context"
	"errors"
	"fmt"
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

const defaultSessionMinutes = 60

// TutoringUsecase schedules course sessions, takes student bookings and records attendance
type TutoringUsecase struct {
	uow            repositories.UnitOfWork
	accountRepo    repositories.AccountRepository
	profileRepo    repositories.ProfileRepository
	courseRepo     repositories.CourseRepository
	enrollmentRepo repositories.EnrollmentRepository
	sessionRepo    repositories.TutoringSessionRepository
	bookingRepo    repositories.SessionBookingRepository
	attendanceRepo repositories.AttendanceRepository
	now            func() time.Time
}

// NewTutoringUsecase creates a new tutoring usecase
func NewTutoringUsecase(
	uow repositories.UnitOfWork,
	accountRepo repositories.AccountRepository,
	profileRepo repositories.ProfileRepository,
	courseRepo repositories.CourseRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	sessionRepo repositories.TutoringSessionRepository,
	bookingRepo repositories.SessionBookingRepository,
	attendanceRepo repositories.AttendanceRepository,
) *TutoringUsecase {
	return &TutoringUsecase{
		uow:            uow,
		accountRepo:    accountRepo,
		profileRepo:    profileRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		sessionRepo:    sessionRepo,
		bookingRepo:    bookingRepo,
		attendanceRepo: attendanceRepo,
		now:            time.Now,
	}
}

// Schedule adds a session to a course taught by the tutor
func (u *TutoringUsecase) Schedule(ctx context.Context, tutorID, courseID uuid.UUID, input *entities.ScheduleSessionInput) (*entities.TutoringSession, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domainerrors.BadRequest("title is required")
	}
	now := u.now()
	if !input.ScheduledAt.After(now) {
		return nil, domainerrors.BadRequest("scheduledAt must be in the future")
	}
	mode := input.Mode
	if mode == "" {
		mode = entities.SessionModeOnline
	}
	if !mode.IsValid() {
		return nil, domainerrors.BadRequest("unknown session mode")
	}
	duration := input.DurationMinutes
	if duration <= 0 {
		duration = defaultSessionMinutes
	}

	session := &entities.TutoringSession{
		ID:              utils.GenerateUUIDv7(),
		CourseID:        courseID,
		TutorID:         tutorID,
		Title:           title,
		Description:     input.Description,
		ScheduledAt:     input.ScheduledAt.UTC(),
		DurationMinutes: duration,
		Mode:            mode,
		VideoURL:        input.VideoURL,
		Status:          entities.SessionStatusScheduled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := lockRoleHolder(txCtx, u.uow, u.accountRepo, u.profileRepo, tutorID, entities.RoleTutor); err != nil {
			return err
		}
		course, err := u.courseRepo.GetByID(txCtx, courseID)
		if err != nil {
			return err
		}
		if course.TutorID != tutorID {
			return domainerrors.Forbidden("you do not teach this course")
		}
		if course.Status != entities.CourseStatusActive {
			return domainerrors.BadRequest("course is not active")
		}
		return u.sessionRepo.Create(txCtx, session)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Tutoring session scheduled",
		zap.String("session_id", session.ID.String()),
		zap.String("course_id", courseID.String()),
		zap.Time("scheduled_at", session.ScheduledAt),
	)
	return session, nil
}

// UpdateStatus moves one of the tutor's sessions through its lifecycle
func (u *TutoringUsecase) UpdateStatus(ctx context.Context, tutorID, sessionID uuid.UUID, status entities.SessionStatus) (*entities.TutoringSession, error) {
	if !status.IsValid() {
		return nil, domainerrors.BadRequest("unknown session status")
	}

	var session *entities.TutoringSession
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := lockRoleHolder(txCtx, u.uow, u.accountRepo, u.profileRepo, tutorID, entities.RoleTutor); err != nil {
			return err
		}
		s, err := u.ownedSession(txCtx, tutorID, sessionID)
		if err != nil {
			return err
		}
		if !s.Status.CanTransitionTo(status) {
			return domainerrors.BadRequest(fmt.Sprintf("a %s session cannot become %s", s.Status, status))
		}
		if err := u.sessionRepo.UpdateStatus(txCtx, s.ID, status); err != nil {
			return err
		}
		s.Status = status
		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Book reserves a seat for the student in a scheduled session of a course they are enrolled in.
// A booking the student cancelled earlier is confirmed again.
func (u *TutoringUsecase) Book(ctx context.Context, studentID, sessionID uuid.UUID) (booking *entities.SessionBooking, err error) {
	defer func() { sessionBookings.WithLabelValues(outcomeLabel(err)).Inc() }()

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := lockRoleHolder(txCtx, u.uow, u.accountRepo, u.profileRepo, studentID, entities.RoleStudent); err != nil {
			return err
		}
		session, err := u.sessionRepo.GetByID(txCtx, sessionID)
		if err != nil {
			return err
		}
		if !session.Status.OpenForBooking() {
			return domainerrors.ErrSessionClosed
		}
		enrolled, err := u.enrollmentRepo.IsEnrolled(txCtx, studentID, session.CourseID)
		if err != nil {
			return err
		}
		if !enrolled {
			return domainerrors.Forbidden("enroll in the course before booking its sessions")
		}

		existing, err := u.bookingRepo.Get(txCtx, sessionID, studentID)
		switch {
		case err == nil && existing.Status == entities.BookingStatusCancelled:
			if err := u.bookingRepo.UpdateStatus(txCtx, existing.ID, entities.BookingStatusConfirmed); err != nil {
				return err
			}
			existing.Status = entities.BookingStatusConfirmed
			booking = existing
			return nil
		case err == nil:
			return domainerrors.ErrAlreadyBooked
		case !errors.Is(err, domainerrors.ErrNotFound):
			return err
		}

		b := &entities.SessionBooking{
			ID:        utils.GenerateUUIDv7(),
			SessionID: sessionID,
			StudentID: studentID,
			Status:    entities.BookingStatusConfirmed,
			BookedAt:  u.now(),
		}
		if err := u.bookingRepo.Create(txCtx, b); err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// CancelBooking releases the student's confirmed seat while the session is still scheduled
func (u *TutoringUsecase) CancelBooking(ctx context.Context, studentID, sessionID uuid.UUID) (*entities.SessionBooking, error) {
	var booking *entities.SessionBooking
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		session, err := u.sessionRepo.GetByID(txCtx, sessionID)
		if err != nil {
			return err
		}
		b, err := u.bookingRepo.Get(txCtx, sessionID, studentID)
		if err != nil {
			return err
		}
		if b.Status != entities.BookingStatusConfirmed {
			return domainerrors.BadRequest("only confirmed bookings can be cancelled")
		}
		if !session.Status.OpenForBooking() {
			return domainerrors.ErrSessionClosed
		}
		if err := u.bookingRepo.UpdateStatus(txCtx, b.ID, entities.BookingStatusCancelled); err != nil {
			return err
		}
		b.Status = entities.BookingStatusCancelled
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// RecordAttendance stores the tutor's attendance record for a booked student and settles the
// booking as attended or no_show. Recording again replaces the earlier record.
func (u *TutoringUsecase) RecordAttendance(ctx context.Context, tutorID, sessionID uuid.UUID, input *entities.RecordAttendanceInput) (*entities.Attendance, error) {
	if !input.Status.IsValid() {
		return nil, domainerrors.BadRequest("unknown attendance status")
	}

	record := &entities.Attendance{
		ID:         utils.GenerateUUIDv7(),
		SessionID:  sessionID,
		StudentID:  input.StudentID,
		Status:     input.Status,
		Notes:      strings.TrimSpace(input.Notes),
		RecordedAt: u.now(),
	}
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := lockRoleHolder(txCtx, u.uow, u.accountRepo, u.profileRepo, tutorID, entities.RoleTutor); err != nil {
			return err
		}
		session, err := u.ownedSession(txCtx, tutorID, sessionID)
		if err != nil {
			return err
		}
		if session.Status == entities.SessionStatusCancelled {
			return domainerrors.ErrSessionClosed
		}

		booking, err := u.bookingRepo.Get(txCtx, sessionID, input.StudentID)
		if errors.Is(err, domainerrors.ErrNotFound) || (err == nil && booking.Status == entities.BookingStatusCancelled) {
			return domainerrors.BadRequest("the student has no booking for this session")
		}
		if err != nil {
			return err
		}

		if err := u.attendanceRepo.Record(txCtx, record); err != nil {
			return err
		}
		return u.bookingRepo.UpdateStatus(txCtx, booking.ID, input.Status.BookingOutcome())
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Attendance recorded",
		zap.String("session_id", sessionID.String()),
		zap.String("student_id", input.StudentID.String()),
		zap.String("status", string(input.Status)),
	)
	return record, nil
}

// ListAttendance returns the attendance recorded for one of the tutor's sessions
func (u *TutoringUsecase) ListAttendance(ctx context.Context, tutorID, sessionID uuid.UUID) ([]*entities.Attendance, error) {
	if _, err := u.ownedSession(ctx, tutorID, sessionID); err != nil {
		return nil, err
	}
	return u.attendanceRepo.ListBySession(ctx, sessionID)
}

// ListForTutor returns the sessions the tutor runs
func (u *TutoringUsecase) ListForTutor(ctx context.Context, tutorID uuid.UUID) ([]*entities.TutoringSession, error) {
	return u.sessionRepo.ListByTutor(ctx, tutorID)
}

// ListForCourse returns the sessions of a course to its tutor or to an enrolled student
func (u *TutoringUsecase) ListForCourse(ctx context.Context, accountID uuid.UUID, role entities.Role, courseID uuid.UUID) ([]*entities.TutoringSession, error) {
	course, err := u.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	switch role {
	case entities.RoleTutor:
		if course.TutorID != accountID {
			return nil, domainerrors.Forbidden("you do not teach this course")
		}
	case entities.RoleStudent:
		enrolled, err := u.enrollmentRepo.IsEnrolled(ctx, accountID, courseID)
		if err != nil {
			return nil, err
		}
		if !enrolled {
			return nil, domainerrors.Forbidden("you are not enrolled in this course")
		}
	default:
		return nil, domainerrors.Forbidden("access denied")
	}
	return u.sessionRepo.ListByCourse(ctx, courseID)
}

// ListBookings returns the student's bookings
func (u *TutoringUsecase) ListBookings(ctx context.Context, studentID uuid.UUID) ([]*entities.SessionBooking, error) {
	return u.bookingRepo.ListForStudent(ctx, studentID)
}

// ownedSession loads a session and fails with ErrForbidden when the tutor does not run it
func (u *TutoringUsecase) ownedSession(ctx context.Context, tutorID, sessionID uuid.UUID) (*entities.TutoringSession, error) {
	session, err := u.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.TutorID != tutorID {
		return nil, domainerrors.Forbidden("you do not run this session")
	}
	return session, nil
}
