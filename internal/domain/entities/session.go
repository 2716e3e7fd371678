package entities

import (
	"time"

	"github.com/google/uuid"
)

// LoginState is the state of a single login attempt
type LoginState string

const (
	LoginStatePending            LoginState = "pending"
	LoginStateRoleCheck          LoginState = "role_check"
	LoginStateSessionEstablished LoginState = "session_established"
	LoginStateRejected           LoginState = "rejected"
)

// IsTerminal reports whether no further transition can happen from s
func (s LoginState) IsTerminal() bool {
	return s == LoginStateSessionEstablished || s == LoginStateRejected
}

// Redirect names a landing page and its path
type Redirect struct {
	Name string `json:"redirect"`
	URL  string `json:"redirectUrl"`
}

var (
	RedirectHome             = Redirect{Name: "home", URL: "/"}
	RedirectStudentDashboard = Redirect{Name: "student_dashboard", URL: "/dashboard/student"}
	RedirectTutorDashboard   = Redirect{Name: "tutor_dashboard", URL: "/dashboard/tutor"}
	RedirectAdminDashboard   = Redirect{Name: "admin_dashboard", URL: "/dashboard/admin"}
)

// RedirectFor maps a role to its dashboard; unknown roles land on home
func RedirectFor(role Role) Redirect {
	switch role {
	case RoleStudent:
		return RedirectStudentDashboard
	case RoleTutor:
		return RedirectTutorDashboard
	case RoleAdmin:
		return RedirectAdminDashboard
	default:
		return RedirectHome
	}
}

// Session is an established login session
type Session struct {
	ID          string    `json:"sessionId"`
	AccountID   uuid.UUID `json:"accountId"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	AccessToken string    `json:"accessToken,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// LoginResult is the outcome of a login attempt
type LoginResult struct {
	State    LoginState `json:"state"`
	Session  *Session   `json:"session,omitempty"`
	Account  *Account   `json:"account,omitempty"`
	Redirect Redirect   `json:"redirect"`
}
