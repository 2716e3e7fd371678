package models

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email        string     `gorm:"type:varchar(254);uniqueIndex:idx_accounts_email;not null"`
	Username     string     `gorm:"type:varchar(150);uniqueIndex:idx_accounts_username;not null"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	FirstName    string     `gorm:"type:varchar(150)"`
	LastName     string     `gorm:"type:varchar(150)"`
	Phone        *string    `gorm:"type:varchar(17)"`
	Gender       string     `gorm:"type:varchar(20);not null;default:'Prefer not to say'"`
	Role         string     `gorm:"type:varchar(10);not null;index"`
	Status       string     `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt  *time.Time `gorm:"type:timestamp"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Account) TableName() string {
	return "accounts"
}
