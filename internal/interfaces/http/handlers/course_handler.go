package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"tutorhub.backend/internal/domain/entities"
	domainerrors "tutorhub.backend/internal/domain/errors"
	"tutorhub.backend/internal/interfaces/http/response"
)

// CourseService manages courses and enrollments
type CourseService interface {
	Create(ctx context.Context, tutorID uuid.UUID, input *entities.CreateCourseInput) (*entities.Course, error)
	Enroll(ctx context.Context, studentID, courseID uuid.UUID) (*entities.Enrollment, error)
	ListForTutor(ctx context.Context, tutorID uuid.UUID) ([]*entities.Course, error)
	ListForStudent(ctx context.Context, studentID uuid.UUID) ([]*entities.Course, error)
}

// CourseHandler handles course endpoints
type CourseHandler struct {
	courses CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courses CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// Create creates a course owned by the current tutor
// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	tutorID, ok := sessionAccountID(c)
	if !ok {
		return
	}
	var input entities.CreateCourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err, nil)
		return
	}

	course, err := h.courses.Create(c.Request.Context(), tutorID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, course)
}

// Enroll enrolls the current student in a course
// POST /api/v1/courses/:id/enroll
func (h *CourseHandler) Enroll(c *gin.Context) {
	studentID, ok := sessionAccountID(c)
	if !ok {
		return
	}
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid course ID"))
		return
	}

	enrollment, err := h.courses.Enroll(c.Request.Context(), studentID, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, enrollment)
}

// ListMine lists the courses taught by the current tutor
// GET /api/v1/courses/mine
func (h *CourseHandler) ListMine(c *gin.Context) {
	tutorID, ok := sessionAccountID(c)
	if !ok {
		return
	}
	courses, err := h.courses.ListForTutor(c.Request.Context(), tutorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": courses})
}

// ListEnrolled lists the courses the current student is enrolled in
// GET /api/v1/courses/enrolled
func (h *CourseHandler) ListEnrolled(c *gin.Context) {
	studentID, ok := sessionAccountID(c)
	if !ok {
		return
	}
	courses, err := h.courses.ListForStudent(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": courses})
}
