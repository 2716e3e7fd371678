package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Role is the closed set of platform roles shared by accounts and role profiles
type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
	RoleAdmin   Role = "admin"
)

// Roles lists every valid role
var Roles = []Role{RoleStudent, RoleTutor, RoleAdmin}

// IsValid reports whether r is one of the closed role values
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleTutor, RoleAdmin:
		return true
	}
	return false
}

// ParseRole normalizes s and returns the matching role
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.IsValid()
}

// AccountStatus represents the lifecycle state of an account
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusInactive  AccountStatus = "inactive"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusPending   AccountStatus = "pending"
)

// IsValid reports whether s is a known status
func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountStatusActive, AccountStatusInactive, AccountStatusSuspended, AccountStatusPending:
		return true
	}
	return false
}

// CanLogin reports whether an account in this status may establish a session
func (s AccountStatus) CanLogin() bool {
	return s == AccountStatusActive || s == AccountStatusPending
}

// Gender is the self-declared gender of an account holder
type Gender string

const (
	GenderFemale         Gender = "Female"
	GenderMale           Gender = "Male"
	GenderOther          Gender = "Other"
	GenderPreferNotToSay Gender = "Prefer not to say"
)

// IsValid reports whether g is a known gender option
func (g Gender) IsValid() bool {
	switch g {
	case GenderFemale, GenderMale, GenderOther, GenderPreferNotToSay:
		return true
	}
	return false
}

// Account represents an identity in the account directory
type Account struct {
	ID           uuid.UUID     `json:"id"`
	Email        string        `json:"email"`
	Username     string        `json:"username"`
	PasswordHash string        `json:"-"`
	FirstName    string        `json:"firstName"`
	LastName     string        `json:"lastName"`
	Phone        null.String   `json:"phone"`
	Gender       Gender        `json:"gender"`
	Role         Role          `json:"role"`
	Status       AccountStatus `json:"status"`
	LastLoginAt  null.Time     `json:"lastLoginAt"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// DisplayName returns "First Last", falling back to the username
func (a *Account) DisplayName() string {
	name := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if name == "" {
		return a.Username
	}
	return name
}

// RegisterInput represents input for registering an account
type RegisterInput struct {
	Email           string `json:"email" binding:"required,email,max=254"`
	Username        string `json:"username" binding:"required,min=1,max=150"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	FirstName       string `json:"firstName" binding:"max=150"`
	LastName        string `json:"lastName" binding:"max=150"`
	Phone           string `json:"phone" binding:"omitempty,phone"`
	Gender          Gender `json:"gender" binding:"omitempty,gender"`
	Role            Role   `json:"role" binding:"required,role"`

	// Profile carries optional role profile attributes captured at sign-up
	Profile *ProfileAttributes `json:"profile,omitempty"`
}

// LoginInput represents input for establishing a session
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     Role   `json:"role" binding:"required"`
}

// ChangePasswordInput represents input for changing an account password
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// UpdateRoleInput represents an administrative role change
type UpdateRoleInput struct {
	Role  Role `json:"role" binding:"required,role"`
	Force bool `json:"force"`
}

// UpdateStatusInput represents an administrative status change
type UpdateStatusInput struct {
	Status AccountStatus `json:"status" binding:"required"`
}
