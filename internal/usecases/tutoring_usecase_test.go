package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tutorhub.backend/internal/domain/entities"
	domainerrors "tutorhub.backend/internal/domain/errors"
)

type tutoringSetup struct {
	tutor   *entities.Account
	student *entities.Account
	course  *entities.Course
	session *entities.TutoringSession
}

// newTutoringSetup registers a tutor and an enrolled student and schedules one session
func newTutoringSetup(t *testing.T, h *harness) *tutoringSetup {
	t.Helper()
	ctx := context.Background()
	s := &tutoringSetup{
		tutor:   h.register(t, "t@x.com", "t", entities.RoleTutor),
		student: h.register(t, "s@x.com", "s", entities.RoleStudent),
	}
	var err error
	s.course, err = h.courses.Create(ctx, s.tutor.ID, &entities.CreateCourseInput{Title: "Algebra"})
	require.NoError(t, err)
	_, err = h.courses.Enroll(ctx, s.student.ID, s.course.ID)
	require.NoError(t, err)
	s.session, err = h.tutoring.Schedule(ctx, s.tutor.ID, s.course.ID, &entities.ScheduleSessionInput{
		Title:       " Week 1 ",
		ScheduledAt: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)
	return s
}

func TestTutoringUsecase_Schedule(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	s := newTutoringSetup(t, h)

	assert.Equal(t, "Week 1", s.session.Title)
	assert.Equal(t, entities.SessionModeOnline, s.session.Mode)
	assert.Equal(t, 60, s.session.DurationMinutes)
	assert.Equal(t, entities.SessionStatusScheduled, s.session.Status)

	_, err := h.tutoring.Schedule(ctx, s.tutor.ID, s.course.ID, &entities.ScheduleSessionInput{
		Title: "Yesterday", ScheduledAt: time.Now().Add(-time.Hour),
	})
	assert.ErrorIs(t, err, domainerrors.ErrBadRequest)

	other := h.register(t, "o@x.com", "o", entities.RoleTutor)
	_, err = h.tutoring.Schedule(ctx, other.ID, s.course.ID, &entities.ScheduleSessionInput{
		Title: "Hijack", ScheduledAt: time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = h.tutoring.Schedule(ctx, s.student.ID, s.course.ID, &entities.ScheduleSessionInput{
		Title: "Student led", ScheduledAt: time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = h.tutoring.Schedule(ctx, s.tutor.ID, uuid.New(), &entities.ScheduleSessionInput{
		Title: "Nowhere", ScheduledAt: time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	mine, err := h.tutoring.ListForTutor(ctx, s.tutor.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, s.session.ID, mine[0].ID)
}

func TestTutoringUsecase_BookCancelAndRebook(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	s := newTutoringSetup(t, h)

	booking, err := h.tutoring.Book(ctx, s.student.ID, s.session.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.BookingStatusConfirmed, booking.Status)

	_, err = h.tutoring.Book(ctx, s.student.ID, s.session.ID)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyBooked)

	cancelled, err := h.tutoring.CancelBooking(ctx, s.student.ID, s.session.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.BookingStatusCancelled, cancelled.Status)

	_, err = h.tutoring.CancelBooking(ctx, s.student.ID, s.session.ID)
	assert.ErrorIs(t, err, domainerrors.ErrBadRequest)

	again, err := h.tutoring.Book(ctx, s.student.ID, s.session.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, again.ID)
	assert.Equal(t, entities.BookingStatusConfirmed, again.Status)
	assert.Equal(t, int64(1), h.count(t, "session_bookings"))

	bookings, err := h.tutoring.ListBookings(ctx, s.student.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
}

func TestTutoringUsecase_BookRequiresEnrollmentAndOpenSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	s := newTutoringSetup(t, h)
	outsider := h.register(t, "x@x.com", "x", entities.RoleStudent)

	_, err := h.tutoring.Book(ctx, outsider.ID, s.session.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = h.tutoring.Book(ctx, s.tutor.ID, s.session.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = h.tutoring.Book(ctx, s.student.ID, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = h.tutoring.UpdateStatus(ctx, s.tutor.ID, s.session.ID, entities.SessionStatusCancelled)
	require.NoError(t, err)
	_, err = h.tutoring.Book(ctx, s.student.ID, s.session.ID)
	assert.ErrorIs(t, err, domainerrors.ErrSessionClosed)

	_, err = h.tutoring.UpdateStatus(ctx, s.tutor.ID, s.session.ID, entities.SessionStatusScheduled)
	assert.ErrorIs(t, err, domainerrors.ErrBadRequest)
}

func TestTutoringUsecase_RecordAttendanceSettlesBooking(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	s := newTutoringSetup(t, h)
	_, err := h.tutoring.Book(ctx, s.student.ID, s.session.ID)
	require.NoError(t, err)

	outsider := h.register(t, "x@x.com", "x", entities.RoleStudent)
	_, err = h.tutoring.RecordAttendance(ctx, s.tutor.ID, s.session.ID, &entities.RecordAttendanceInput{
		StudentID: outsider.ID, Status: entities.AttendancePresent,
	})
	assert.ErrorIs(t, err, domainerrors.ErrBadRequest)

	other := h.register(t, "o@x.com", "o", entities.RoleTutor)
	_, err = h.tutoring.RecordAttendance(ctx, other.ID, s.session.ID, &entities.RecordAttendanceInput{
		StudentID: s.student.ID, Status: entities.AttendancePresent,
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = h.tutoring.RecordAttendance(ctx, s.tutor.ID, s.session.ID, &entities.RecordAttendanceInput{
		StudentID: s.student.ID, Status: entities.AttendanceAbsent,
	})
	require.NoError(t, err)
	bookings, err := h.tutoring.ListBookings(ctx, s.student.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, entities.BookingStatusNoShow, bookings[0].Status)

	record, err := h.tutoring.RecordAttendance(ctx, s.tutor.ID, s.session.ID, &entities.RecordAttendanceInput{
		StudentID: s.student.ID, Status: entities.AttendanceLate, Notes: " traffic ",
	})
	require.NoError(t, err)
	assert.Equal(t, "traffic", record.Notes)

	records, err := h.tutoring.ListAttendance(ctx, s.tutor.ID, s.session.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, entities.AttendanceLate, records[0].Status)

	bookings, err = h.tutoring.ListBookings(ctx, s.student.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.BookingStatusAttended, bookings[0].Status)

	_, err = h.tutoring.CancelBooking(ctx, s.student.ID, s.session.ID)
	assert.ErrorIs(t, err, domainerrors.ErrBadRequest)

	_, err = h.tutoring.ListAttendance(ctx, other.ID, s.session.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestTutoringUsecase_ListForCourse(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	s := newTutoringSetup(t, h)
	outsider := h.register(t, "x@x.com", "x", entities.RoleStudent)

	list, err := h.tutoring.ListForCourse(ctx, s.tutor.ID, entities.RoleTutor, s.course.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = h.tutoring.ListForCourse(ctx, s.student.ID, entities.RoleStudent, s.course.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = h.tutoring.ListForCourse(ctx, outsider.ID, entities.RoleStudent, s.course.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = h.tutoring.ListForCourse(ctx, s.student.ID, entities.RoleAdmin, s.course.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestTutoringUsecase_RoleChangeCountsSchedulingRecords(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	s := newTutoringSetup(t, h)
	_, err := h.tutoring.Book(ctx, s.student.ID, s.session.ID)
	require.NoError(t, err)
	_, err = h.tutoring.RecordAttendance(ctx, s.tutor.ID, s.session.ID, &entities.RecordAttendanceInput{
		StudentID: s.student.ID, Status: entities.AttendancePresent,
	})
	require.NoError(t, err)

	_, err = h.accounts.UpdateRole(ctx, s.tutor.ID, entities.RoleStudent, false)
	require.ErrorIs(t, err, domainerrors.ErrRoleChangeConflict)
	assert.Contains(t, err.Error(), "1 session(s)")

	_, err = h.accounts.UpdateRole(ctx, s.student.ID, entities.RoleTutor, false)
	require.ErrorIs(t, err, domainerrors.ErrRoleChangeConflict)
	assert.Contains(t, err.Error(), "1 booking(s)")

	_, err = h.accounts.UpdateRole(ctx, s.student.ID, entities.RoleTutor, true)
	require.NoError(t, err)
	assert.Zero(t, h.count(t, "session_bookings"))
	assert.Zero(t, h.count(t, "attendance_records"))
	assert.Zero(t, h.count(t, "enrollments"))
	assert.Equal(t, int64(1), h.count(t, "tutoring_sessions"))

	_, err = h.accounts.UpdateRole(ctx, s.tutor.ID, entities.RoleStudent, true)
	require.NoError(t, err)
	assert.Zero(t, h.count(t, "tutoring_sessions"))
	assert.Zero(t, h.count(t, "courses"))
}
