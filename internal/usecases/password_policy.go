package usecases

import (
	"fmt"
	"strings"
	"unicode"

	domainerrors "tutorhub.backend/internal/domain/errors"
)

const (
	minPasswordLength = 8
	// bcrypt ignores bytes beyond 72
	maxPasswordLength = 72
)

var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"password12": {},
	"passw0rd":   {},
	"12345678":   {},
	"123456789":  {},
	"qwerty123":  {},
	"letmein1":   {},
	"iloveyou1":  {},
	"welcome1":   {},
	"admin123":   {},
	"abc12345":   {},
	"student1":   {},
	"teacher1":   {},
}

// PasswordPolicy validates new account passwords
type PasswordPolicy struct{}

// NewPasswordPolicy creates the default password policy
func NewPasswordPolicy() *PasswordPolicy {
	return &PasswordPolicy{}
}

// Validate returns an ErrWeakCredential-wrapped error describing the first failed rule
func (p *PasswordPolicy) Validate(password, email, username string) error {
	if len(password) < minPasswordLength {
		return weak("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return weak("password must be at most %d bytes", maxPasswordLength)
	}

	var hasLetter, hasDigit, allDigits = false, false, true
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
			allDigits = false
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			allDigits = false
		}
	}
	if allDigits {
		return weak("password cannot be entirely numeric")
	}
	if !hasLetter || !hasDigit {
		return weak("password must contain at least one letter and one digit")
	}

	lower := strings.ToLower(password)
	if _, ok := commonPasswords[lower]; ok {
		return weak("password is too common")
	}

	localPart := strings.ToLower(email)
	if at := strings.IndexByte(localPart, '@'); at >= 0 {
		localPart = localPart[:at]
	}
	if (localPart != "" && lower == localPart) || (username != "" && lower == strings.ToLower(username)) {
		return weak("password is too similar to the email or username")
	}

	return nil
}

func weak(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{domainerrors.ErrWeakCredential}, args...)...)
}
