package models

import (
	"time"

	"gorm.io/gorm"
)

// UserModel represents the database persistence model for users
type UserModel struct {
	ID                  uint    `gorm:"primarykey"`
	Username            string  `gorm:"uniqueIndex;not null;size:32"`
	Email               string  `gorm:"uniqueIndex;not null;size:255"`
	PasswordHash        *string `gorm:"size:255"`
	EmailVerified       bool    `gorm:"not null;default:false"`
	IsActive            bool    `gorm:"not null"`
	IsLocked            bool    `gorm:"not null;default:false"`
	FailedLoginAttempts int     `gorm:"not null;default:0"`
	LockedUntil         *time.Time
	Timezone            string `gorm:"not null;size:64;default:UTC"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return "users"
}
