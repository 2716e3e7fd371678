package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// RoleProfile is implemented by every role-specific profile variant
type RoleProfile interface {
	ProfileRole() Role
	OwnerID() uuid.UUID
}

// AdminLevel represents the scope of an administrator
type AdminLevel string

const (
	AdminLevelSuper    AdminLevel = "super"
	AdminLevelAcademic AdminLevel = "academic"
	AdminLevelSupport  AdminLevel = "support"
)

// IsValid reports whether l is a known admin level
func (l AdminLevel) IsValid() bool {
	switch l {
	case AdminLevelSuper, AdminLevelAcademic, AdminLevelSupport:
		return true
	}
	return false
}

// DefaultPreferredLanguage is the language assigned to new student profiles
const DefaultPreferredLanguage = "English"

// StudentProfile holds student-specific attributes
type StudentProfile struct {
	AccountID         uuid.UUID `json:"accountId"`
	GradeLevel        string    `json:"gradeLevel"`
	School            string    `json:"school"`
	LearningGoals     string    `json:"learningGoals"`
	GuardianContact   string    `json:"guardianContact"`
	PreferredLanguage string    `json:"preferredLanguage"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (p *StudentProfile) ProfileRole() Role  { return RoleStudent }
func (p *StudentProfile) OwnerID() uuid.UUID { return p.AccountID }

// TutorProfile holds tutor-specific attributes
type TutorProfile struct {
	AccountID       uuid.UUID `json:"accountId"`
	Qualifications  string    `json:"qualifications"`
	Subjects        []string  `json:"subjects"`
	ExperienceYears int       `json:"experienceYears"`
	HourlyRate      string    `json:"hourlyRate"`
	Rating          float64   `json:"rating"`
	IsApproved      bool      `json:"isApproved"`
	ApprovedAt      null.Time `json:"approvedAt"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (p *TutorProfile) ProfileRole() Role  { return RoleTutor }
func (p *TutorProfile) OwnerID() uuid.UUID { return p.AccountID }

// AdminProfile holds administrator-specific attributes
type AdminProfile struct {
	AccountID  uuid.UUID  `json:"accountId"`
	AdminLevel AdminLevel `json:"adminLevel"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (p *AdminProfile) ProfileRole() Role  { return RoleAdmin }
func (p *AdminProfile) OwnerID() uuid.UUID { return p.AccountID }

// KYCStatus represents identity verification status
type KYCStatus string

const (
	KYCNotStarted       KYCStatus = "NOT_STARTED"
	KYCIDCardVerified   KYCStatus = "ID_CARD_VERIFIED"
	KYCFaceVerified     KYCStatus = "FACE_VERIFIED"
	KYCLivenessVerified KYCStatus = "LIVENESS_VERIFIED"
	KYCFullyVerified    KYCStatus = "FULLY_VERIFIED"
)

// GenericProfile holds contact and verification data common to every account
type GenericProfile struct {
	AccountID              uuid.UUID `json:"accountId"`
	Address                string    `json:"address"`
	City                   string    `json:"city"`
	Country                string    `json:"country"`
	IdentityDocumentType   string    `json:"identityDocumentType"`
	IdentityDocumentNumber string    `json:"identityDocumentNumber"`
	WalletBalance          string    `json:"walletBalance"`
	KYCStatus              KYCStatus `json:"kycStatus"`
	IsVerified             bool      `json:"isVerified"`
	VerifiedAt             null.Time `json:"verifiedAt"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// ProfileAttributes carries optional role profile fields.
// Only the fields relevant to the target role are read; nil means "leave unchanged".
type ProfileAttributes struct {
	GradeLevel        *string `json:"gradeLevel,omitempty" binding:"omitempty,max=20"`
	School            *string `json:"school,omitempty" binding:"omitempty,max=200"`
	LearningGoals     *string `json:"learningGoals,omitempty"`
	GuardianContact   *string `json:"guardianContact,omitempty" binding:"omitempty,max=100"`
	PreferredLanguage *string `json:"preferredLanguage,omitempty" binding:"omitempty,max=50"`

	Qualifications  *string  `json:"qualifications,omitempty"`
	Subjects        []string `json:"subjects,omitempty"`
	ExperienceYears *int     `json:"experienceYears,omitempty" binding:"omitempty,min=0"`
	HourlyRate      *string  `json:"hourlyRate,omitempty" binding:"omitempty,numeric"`

	AdminLevel *AdminLevel `json:"adminLevel,omitempty"`
}

// GenericProfileInput carries editable contact fields
type GenericProfileInput struct {
	Address                *string `json:"address,omitempty"`
	City                   *string `json:"city,omitempty" binding:"omitempty,max=100"`
	Country                *string `json:"country,omitempty" binding:"omitempty,max=100"`
	IdentityDocumentType   *string `json:"identityDocumentType,omitempty" binding:"omitempty,max=50"`
	IdentityDocumentNumber *string `json:"identityDocumentNumber,omitempty" binding:"omitempty,max=100"`
}

// CreateProfileInput is the administrative direct profile creation request
type CreateProfileInput struct {
	AccountID  uuid.UUID          `json:"accountId" binding:"required"`
	Role       Role               `json:"role" binding:"required,role"`
	Attributes *ProfileAttributes `json:"attributes,omitempty"`
}

// ProfileOverview bundles an account with its profiles
type ProfileOverview struct {
	Account *Account        `json:"account"`
	Generic *GenericProfile `json:"generic"`
	Role    RoleProfile     `json:"roleProfile"`
}

// NewRoleProfile builds an empty profile of the given role with defaults applied
func NewRoleProfile(accountID uuid.UUID, role Role) (RoleProfile, bool) {
	switch role {
	case RoleStudent:
		return &StudentProfile{AccountID: accountID, PreferredLanguage: DefaultPreferredLanguage}, true
	case RoleTutor:
		return &TutorProfile{AccountID: accountID, Subjects: []string{}, HourlyRate: "0.00"}, true
	case RoleAdmin:
		return &AdminProfile{AccountID: accountID, AdminLevel: AdminLevelSupport}, true
	}
	return nil, false
}

// ApplyAttributes copies the non-nil attributes relevant to p's role onto p
func ApplyAttributes(p RoleProfile, attrs *ProfileAttributes) {
	if attrs == nil {
		return
	}
	switch v := p.(type) {
	case *StudentProfile:
		setString(&v.GradeLevel, attrs.GradeLevel)
		setString(&v.School, attrs.School)
		setString(&v.LearningGoals, attrs.LearningGoals)
		setString(&v.GuardianContact, attrs.GuardianContact)
		setString(&v.PreferredLanguage, attrs.PreferredLanguage)
	case *TutorProfile:
		setString(&v.Qualifications, attrs.Qualifications)
		if attrs.Subjects != nil {
			v.Subjects = append([]string{}, attrs.Subjects...)
		}
		if attrs.ExperienceYears != nil {
			v.ExperienceYears = *attrs.ExperienceYears
		}
		setString(&v.HourlyRate, attrs.HourlyRate)
	case *AdminProfile:
		if attrs.AdminLevel != nil && attrs.AdminLevel.IsValid() {
			v.AdminLevel = *attrs.AdminLevel
		}
	}
}

// ApplyGenericInput copies the non-nil contact fields onto p
func ApplyGenericInput(p *GenericProfile, in *GenericProfileInput) {
	if in == nil {
		return
	}
	setString(&p.Address, in.Address)
	setString(&p.City, in.City)
	setString(&p.Country, in.Country)
	setString(&p.IdentityDocumentType, in.IdentityDocumentType)
	setString(&p.IdentityDocumentNumber, in.IdentityDocumentNumber)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
