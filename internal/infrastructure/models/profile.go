package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type StudentProfile struct {
	AccountID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	GradeLevel        string    `gorm:"type:varchar(20)"`
	School            string    `gorm:"type:varchar(200)"`
	LearningGoals     string    `gorm:"type:text"`
	GuardianContact   string    `gorm:"type:varchar(100)"`
	PreferredLanguage string    `gorm:"type:varchar(50);default:'English'"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Account *Account `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE"`
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}

type TutorProfile struct {
	AccountID       uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Qualifications  string         `gorm:"type:text"`
	Subjects        pq.StringArray `gorm:"type:text[];default:'{}'"`
	ExperienceYears int            `gorm:"not null;default:0"`
	HourlyRate      string         `gorm:"type:decimal(10,2);not null;default:0"`
	Rating          float64        `gorm:"type:decimal(3,2);not null;default:0"`
	IsApproved      bool           `gorm:"not null;default:false"`
	ApprovedAt      *time.Time     `gorm:"type:timestamp"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Account *Account `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE"`
}

func (TutorProfile) TableName() string {
	return "tutor_profiles"
}

type AdminProfile struct {
	AccountID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	AdminLevel string    `gorm:"type:varchar(20);not null;default:'support'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Account *Account `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE"`
}

func (AdminProfile) TableName() string {
	return "admin_profiles"
}

type GenericProfile struct {
	AccountID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Address                string     `gorm:"type:text"`
	City                   string     `gorm:"type:varchar(100)"`
	Country                string     `gorm:"type:varchar(100)"`
	IdentityDocumentType   string     `gorm:"type:varchar(50)"`
	IdentityDocumentNumber string     `gorm:"type:varchar(100)"`
	WalletBalance          string     `gorm:"type:decimal(12,2);not null;default:0"`
	KYCStatus              string     `gorm:"type:varchar(50);not null;default:'NOT_STARTED'"`
	IsVerified             bool       `gorm:"not null;default:false"`
	VerifiedAt             *time.Time `gorm:"type:timestamp"`
	CreatedAt              time.Time
	UpdatedAt              time.Time

	Account *Account `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE"`
}

func (GenericProfile) TableName() string {
	return "generic_profiles"
}
