package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	TutorID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text"`
	Category    string    `gorm:"type:varchar(100)"`
	Level       string    `gorm:"type:varchar(50)"`
	Status      string    `gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Tutor *TutorProfile `gorm:"foreignKey:TutorID;references:AccountID;constraint:OnDelete:CASCADE"`
}

func (Course) TableName() string {
	return "courses"
}

type Enrollment struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	StudentID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_student_course"`
	CourseID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_student_course;index"`
	EnrolledAt     time.Time  `gorm:"not null"`
	Completed      bool       `gorm:"not null;default:false"`
	CompletionDate *time.Time `gorm:"type:timestamp"`

	Student *StudentProfile `gorm:"foreignKey:StudentID;references:AccountID;constraint:OnDelete:CASCADE"`
	Course  *Course         `gorm:"foreignKey:CourseID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
