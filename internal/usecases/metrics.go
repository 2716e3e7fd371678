package usecases

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	domainerrors "tutorhub.backend/internal/domain/errors"
)

var (
	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tutorhub",
		Name:      "login_attempts_total",
		Help:      "Login attempts by terminal outcome.",
	}, []string{"outcome"})

	registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tutorhub",
		Name:      "registrations_total",
		Help:      "Registration attempts by outcome and requested role.",
	}, []string{"outcome", "role"})

	integrityViolations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tutorhub",
		Name:      "role_integrity_violations_total",
		Help:      "Accounts found without a role profile matching their declared role.",
	})

	sessionBookings = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tutorhub",
		Name:      "session_bookings_total",
		Help:      "Tutoring session booking attempts by outcome.",
	}, []string{"outcome"})

	roleCorrections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tutorhub",
		Name:      "role_corrections_total",
		Help:      "Account roles corrected after direct role profile creation.",
	})
)

// outcomeLabel maps an error onto a bounded metric label
func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	return strings.ToLower(domainerrors.FromError(err).Code)
}
