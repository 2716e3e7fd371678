package entities

import (
	"time"

	"github.com/google/uuid"
)

// SessionMode is how a tutoring session is delivered
type SessionMode string

const (
	SessionModeOnline   SessionMode = "online"
	SessionModeInPerson SessionMode = "in_person"
	SessionModeHybrid   SessionMode = "hybrid"
)

func (m SessionMode) IsValid() bool {
	switch m {
	case SessionModeOnline, SessionModeInPerson, SessionModeHybrid:
		return true
	}
	return false
}

// SessionStatus is the lifecycle state of a tutoring session
type SessionStatus string

const (
	SessionStatusScheduled  SessionStatus = "scheduled"
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusCancelled  SessionStatus = "cancelled"
)

func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusScheduled, SessionStatusInProgress, SessionStatusCompleted, SessionStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a session may move from s to next.
// Completed and cancelled sessions are final.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	switch s {
	case SessionStatusScheduled:
		return next == SessionStatusInProgress || next == SessionStatusCompleted || next == SessionStatusCancelled
	case SessionStatusInProgress:
		return next == SessionStatusCompleted || next == SessionStatusCancelled
	}
	return false
}

// OpenForBooking reports whether students may still book the session
func (s SessionStatus) OpenForBooking() bool {
	return s == SessionStatusScheduled
}

// BookingStatus is the state of a student's seat in a session
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusAttended  BookingStatus = "attended"
	BookingStatusNoShow    BookingStatus = "no_show"
)

// AttendanceStatus is what the tutor recorded for a booked student
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

func (s AttendanceStatus) IsValid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	}
	return false
}

// BookingOutcome is the booking status implied by an attendance record
func (s AttendanceStatus) BookingOutcome() BookingStatus {
	if s == AttendanceAbsent {
		return BookingStatusNoShow
	}
	return BookingStatusAttended
}

// TutoringSession is a scheduled meeting of a course, run by the course's tutor
type TutoringSession struct {
	ID              uuid.UUID     `json:"id"`
	CourseID        uuid.UUID     `json:"courseId"`
	TutorID         uuid.UUID     `json:"tutorId"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	ScheduledAt     time.Time     `json:"scheduledAt"`
	DurationMinutes int           `json:"durationMinutes"`
	Mode            SessionMode   `json:"mode"`
	VideoURL        string        `json:"videoUrl,omitempty"`
	Status          SessionStatus `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// SessionBooking reserves a student's seat in a tutoring session. A student books a session at most once.
type SessionBooking struct {
	ID        uuid.UUID     `json:"id"`
	SessionID uuid.UUID     `json:"sessionId"`
	StudentID uuid.UUID     `json:"studentId"`
	Status    BookingStatus `json:"status"`
	BookedAt  time.Time     `json:"bookedAt"`
}

// Attendance is the tutor's record of one booked student in a session
type Attendance struct {
	ID         uuid.UUID        `json:"id"`
	SessionID  uuid.UUID        `json:"sessionId"`
	StudentID  uuid.UUID        `json:"studentId"`
	Status     AttendanceStatus `json:"status"`
	Notes      string           `json:"notes"`
	RecordedAt time.Time        `json:"recordedAt"`
}

// ScheduleSessionInput represents input for scheduling a tutoring session of a course
type ScheduleSessionInput struct {
	Title           string      `json:"title" binding:"required,max=200"`
	Description     string      `json:"description"`
	ScheduledAt     time.Time   `json:"scheduledAt" binding:"required"`
	DurationMinutes int         `json:"durationMinutes" binding:"omitempty,min=15,max=480"`
	Mode            SessionMode `json:"mode" binding:"omitempty,oneof=online in_person hybrid"`
	VideoURL        string      `json:"videoUrl" binding:"omitempty,url,max=500"`
}

// UpdateSessionStatusInput represents input for moving a session through its lifecycle
type UpdateSessionStatusInput struct {
	Status SessionStatus `json:"status" binding:"required,oneof=scheduled in_progress completed cancelled"`
}

// RecordAttendanceInput represents input for recording a student's attendance
type RecordAttendanceInput struct {
	StudentID uuid.UUID        `json:"studentId" binding:"required"`
	Status    AttendanceStatus `json:"status" binding:"required,oneof=present absent late"`
	Notes     string           `json:"notes" binding:"max=1000"`
}
