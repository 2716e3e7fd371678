package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims represents JWT claims bound to a login session
type Claims struct {
	AccountID uuid.UUID `json:"accountId"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	SessionID string    `json:"sid"`
	jwt.RegisteredClaims
}

// IssuedToken is a signed access token and its expiry
type IssuedToken struct {
	Token     string    `json:"accessToken"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// JWTService handles JWT operations
type JWTService struct {
	secret       []byte
	accessExpiry time.Duration
	issuer       string
}

var signJWTToken = func(token *jwt.Token, secret []byte) (string, error) {
	return token.SignedString(secret)
}

// NewJWTService creates a new JWT service
func NewJWTService(secret string, accessExpiry time.Duration) *JWTService {
	return &JWTService{
		secret:       []byte(secret),
		accessExpiry: accessExpiry,
		issuer:       "tutorhub",
	}
}

// AccessExpiry returns the lifetime of issued access tokens
func (s *JWTService) AccessExpiry() time.Duration {
	return s.accessExpiry
}

// IssueSessionToken signs an access token for the given account and session
func (s *JWTService) IssueSessionToken(accountID uuid.UUID, email, role, sessionID string) (*IssuedToken, error) {
	now := time.Now()
	expiresAt := now.Add(s.accessExpiry)
	claims := &Claims{
		AccountID: accountID,
		Email:     email,
		Role:      role,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   accountID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := signJWTToken(token, s.secret)
	if err != nil {
		return nil, err
	}
	return &IssuedToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
