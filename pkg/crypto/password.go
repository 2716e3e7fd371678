package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12
)

var (
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	randomRead                 = rand.Read
)

// PasswordHasher hashes and verifies account passwords with bcrypt.
// It keeps a hash of a random secret so that lookups for unknown accounts
// still pay for a full bcrypt comparison.
type PasswordHasher struct {
	cost      int
	dummyHash []byte
}

// NewPasswordHasher creates a hasher using the given bcrypt cost.
// Costs outside bcrypt's accepted range fall back to DefaultCost.
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}

	secret, err := GenerateRandomToken(16)
	if err != nil {
		return nil, err
	}
	dummy, err := bcryptGenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &PasswordHasher{cost: cost, dummyHash: dummy}, nil
}

// Hash hashes a password using the hasher's cost
func (h *PasswordHasher) Hash(password string) (string, error) {
	bytes, err := bcryptGenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// Check compares a password with a hash
func (h *PasswordHasher) Check(password, hash string) bool {
	return CheckPassword(password, hash)
}

// CheckDummy burns the same amount of work as Check against a hash that can never match.
func (h *PasswordHasher) CheckDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(password))
}

// HashPassword hashes a password using bcrypt with DefaultCost
func HashPassword(password string) (string, error) {
	bytes, err := bcryptGenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword compares a password with a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateRandomToken generates a random token of specified length
func GenerateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := randomRead(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateSessionID generates a 64-character session identifier
func GenerateSessionID() (string, error) {
	return GenerateRandomToken(32)
}
