package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// CourseStatus represents course availability
type CourseStatus string

const (
	CourseStatusActive   CourseStatus = "active"
	CourseStatusArchived CourseStatus = "archived"
)

// Course is a course offered by a tutor
type Course struct {
	ID          uuid.UUID    `json:"id"`
	TutorID     uuid.UUID    `json:"tutorId"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Level       string       `json:"level"`
	Status      CourseStatus `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Enrollment links a student to a course
type Enrollment struct {
	ID             uuid.UUID `json:"id"`
	StudentID      uuid.UUID `json:"studentId"`
	CourseID       uuid.UUID `json:"courseId"`
	EnrolledAt     time.Time `json:"enrolledAt"`
	Completed      bool      `json:"completed"`
	CompletionDate null.Time `json:"completionDate"`
}

// CreateCourseInput represents input for creating a course
type CreateCourseInput struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"max=100"`
	Level       string `json:"level" binding:"max=50"`
}

// RoleCount is the number of accounts holding a role
type RoleCount struct {
	Role  Role  `json:"role"`
	Count int64 `json:"count"`
}

// Dashboard is the role-specific landing data of an account
type Dashboard struct {
	Role       Role        `json:"role"`
	Account    *Account    `json:"account"`
	Profile    RoleProfile `json:"profile"`
	Courses    []*Course   `json:"courses,omitempty"`
	IsApproved *bool       `json:"isApproved,omitempty"`
	RoleCounts []RoleCount `json:"roleCounts,omitempty"`
}
