package models

import (
	"time"

	"gorm.io/datatypes"
)

// DeviceInfo is stored as JSON in sessions.device_info.
type DeviceInfo struct {
	Browser        string `json:"browser,omitempty"`
	BrowserVersion string `json:"browser_version,omitempty"`
	OS             string `json:"os,omitempty"`
	Platform       string `json:"platform,omitempty"`
	Mobile         bool   `json:"mobile,omitempty"`
	Bot            bool   `json:"bot,omitempty"`
}

// SessionModel represents the database persistence model for sessions.
// TokenHash carries the uniqueness guarantee for bearer tokens.
type SessionModel struct {
	ID                uint                           `gorm:"primarykey"`
	UserID            uint                           `gorm:"not null;index"`
	User              *UserModel                     `gorm:"constraint:OnDelete:CASCADE"`
	TokenHash         string                         `gorm:"not null;size:64;uniqueIndex"`
	IPAddress         string                         `gorm:"size:45"`
	SystemInfo        string                         `gorm:"size:255"`
	DeviceFingerprint string                         `gorm:"size:128"`
	DeviceInfo        datatypes.JSONType[DeviceInfo] `gorm:"column:device_info"`
	AuthMethod        string                         `gorm:"not null;size:20"`
	IsActive          bool                           `gorm:"not null"`
	LastUsedAt        time.Time                      `gorm:"not null"`
	ExpiresAt         time.Time                      `gorm:"not null;index"`
	CreatedAt         time.Time                      `gorm:"index"`
	UpdatedAt         time.Time
}

// TableName specifies the table name for GORM
func (SessionModel) TableName() string {
	return "sessions"
}
