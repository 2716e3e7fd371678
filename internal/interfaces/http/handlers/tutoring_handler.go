package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"tutorhub.backend/internal/domain/entities"
	domainerrors "tutorhub.backend/internal/domain/errors"
	"tutorhub.backend/internal/interfaces/http/middleware"
	"tutorhub.backend/internal/interfaces/http/response"
)

// TutoringService schedules sessions and tracks bookings and attendance
type TutoringService interface {
	Schedule(ctx context.Context, tutorID, courseID uuid.UUID, input *entities.ScheduleSessionInput) (*entities.TutoringSession, error)
	UpdateStatus(ctx context.Context, tutorID, sessionID uuid.UUID, status entities.SessionStatus) (*entities.TutoringSession, error)
	Book(ctx context.Context, studentID, sessionID uuid.UUID) (*entities.SessionBooking, error)
	CancelBooking(ctx context.Context, studentID, sessionID uuid.UUID) (*entities.SessionBooking, error)
	RecordAttendance(ctx context.Context, tutorID, sessionID uuid.UUID, input *entities.RecordAttendanceInput) (*entities.Attendance, error)
	ListAttendance(ctx context.Context, tutorID, sessionID uuid.UUID) ([]*entities.Attendance, error)
	ListForTutor(ctx context.Context, tutorID uuid.UUID) ([]*entities.TutoringSession, error)
	ListForCourse(ctx context.Context, accountID uuid.UUID, role entities.Role, courseID uuid.UUID) ([]*entities.TutoringSession, error)
	ListBookings(ctx context.Context, studentID uuid.UUID) ([]*entities.SessionBooking, error)
}

// TutoringHandler handles tutoring session endpoints
type TutoringHandler struct {
	tutoring TutoringService
}

// NewTutoringHandler creates a new tutoring handler
func NewTutoringHandler(tutoring TutoringService) *TutoringHandler {
	return &TutoringHandler{tutoring: tutoring}
}

func pathID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid "+what+" ID"))
		return uuid.Nil, false
	}
	return id, true
}

// Schedule schedules a session for one of the current tutor's courses
// POST /api/v1/courses/:id/sessions
func (h *TutoringHandler) Schedule(c *gin.Context) {
	tutorID, ok := sessionAccountID(c)
	if !ok {
		return
	}
	courseID, ok := pathID(c, "course")
	if !ok {
		return
	}
	var input entities.ScheduleSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err, nil)
		return
	}

	session, err := h.tutoring.Schedule(c.Request.Context(), tutorID, courseID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, session)
}

// ListForCourse lists a course's sessions for its tutor or an enrolled student
// GET /api/v1/courses/:id/sessions
func (h *TutoringHandler) ListForCourse(c *gin.Context) {
	accountID, ok := sessionAccountID(c)
	if !ok {
		return
	}
	role, _ := middleware.GetAccountRole(c)
	courseID, ok := pathID(c, "course")
	if !ok {
		return
	}

	sessions, err := h.tutoring.ListForCourse(c.Request.Context(), accountID, role, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": sessions})
}

// ListMine lists the sessions taught by the current tutor
// GET /api/v1/sessions/mine
func (h *TutoringHandler) ListMine(c *gin.Context) {
	tutorID, ok := sessionAccountID(c)
	if !ok {
		return
	}
	sessions, err := h.tutoring.ListForTutor(c.Request.Context(), tutorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": sessions})
}

// ListBooked lists the current student's bookings
// GET /api/v1/sessions/booked
func (h *TutoringHandler) ListBooked(c *gin.Context) {
	studentID, ok := sessionAccountID(c)
	if !ok {
		return
	}
	bookings, err := h.tutoring.ListBookings(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": bookings})
}

// UpdateStatus moves a session through its lifecycle
// PUT /api/v1/sessions/:id/status
func (h *TutoringHandler) UpdateStatus(c *gin.Context) {
	tutorID, ok := sessionAccountID(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "session")
	if !ok {
		return
	}
	var input entities.UpdateSessionStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err, nil)
		return
	}

	session, err := h.tutoring.UpdateStatus(c.Request.Context(), tutorID, sessionID, input.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, session)
}

// Book books the current student into a session
// POST /api/v1/sessions/:id/book
func (h *TutoringHandler) Book(c *gin.Context) {
	studentID, ok := sessionAccountID(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "session")
	if !ok {
		return
	}

	booking, err := h.tutoring.Book(c.Request.Context(), studentID, sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, booking)
}

// CancelBooking cancels the current student's booking
// DELETE /api/v1/sessions/:id/book
func (h *TutoringHandler) CancelBooking(c *gin.Context) {
	studentID, ok := sessionAccountID(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "session")
	if !ok {
		return
	}

	booking, err := h.tutoring.CancelBooking(c.Request.Context(), studentID, sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, booking)
}

// RecordAttendance records a booked student's attendance
// POST /api/v1/sessions/:id/attendance
func (h *TutoringHandler) RecordAttendance(c *gin.Context) {
	tutorID, ok := sessionAccountID(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "session")
	if !ok {
		return
	}
	var input entities.RecordAttendanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err, nil)
		return
	}

	attendance, err := h.tutoring.RecordAttendance(c.Request.Context(), tutorID, sessionID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, attendance)
}

// ListAttendance lists the attendance recorded for a session
// GET /api/v1/sessions/:id/attendance
func (h *TutoringHandler) ListAttendance(c *gin.Context) {
	tutorID, ok := sessionAccountID(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "session")
	if !ok {
		return
	}

	records, err := h.tutoring.ListAttendance(c.Request.Context(), tutorID, sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": records})
}
