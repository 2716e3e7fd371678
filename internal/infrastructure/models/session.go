package models

import (
	"time"

	"github.com/google/uuid"
)

type TutoringSession struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseID        uuid.UUID `gorm:"type:uuid;not null;index"`
	TutorID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Title           string    `gorm:"type:varchar(200);not null"`
	Description     string    `gorm:"type:text"`
	ScheduledAt     time.Time `gorm:"not null;index"`
	DurationMinutes int       `gorm:"not null;default:60"`
	Mode            string    `gorm:"type:varchar(20);not null;default:'online'"`
	VideoURL        string    `gorm:"type:varchar(500)"`
	Status          string    `gorm:"type:varchar(20);not null;default:'scheduled'"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Course *Course       `gorm:"foreignKey:CourseID;references:ID;constraint:OnDelete:CASCADE"`
	Tutor  *TutorProfile `gorm:"foreignKey:TutorID;references:AccountID;constraint:OnDelete:CASCADE"`
}

func (TutoringSession) TableName() string {
	return "tutoring_sessions"
}

type SessionBooking struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_session_bookings_session_student"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_session_bookings_session_student;index"`
	Status    string    `gorm:"type:varchar(20);not null;default:'confirmed'"`
	BookedAt  time.Time `gorm:"not null"`
	UpdatedAt time.Time

	Session *TutoringSession `gorm:"foreignKey:SessionID;references:ID;constraint:OnDelete:CASCADE"`
	Student *StudentProfile  `gorm:"foreignKey:StudentID;references:AccountID;constraint:OnDelete:CASCADE"`
}

func (SessionBooking) TableName() string {
	return "session_bookings"
}

type Attendance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_records_session_student"`
	StudentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_records_session_student;index"`
	Status     string    `gorm:"type:varchar(20);not null"`
	Notes      string    `gorm:"type:text"`
	RecordedAt time.Time `gorm:"not null"`

	Session *TutoringSession `gorm:"foreignKey:SessionID;references:ID;constraint:OnDelete:CASCADE"`
	Student *StudentProfile  `gorm:"foreignKey:StudentID;references:AccountID;constraint:OnDelete:CASCADE"`
}

func (Attendance) TableName() string {
	return "attendance_records"
}
