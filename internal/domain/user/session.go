package user

import (
	"context"
	"time"
)

// DeviceInfo is what could be parsed from the client's User-Agent.
type DeviceInfo struct {
	Browser        string
	BrowserVersion string
	OS             string
	Platform       string
	Mobile         bool
	Bot            bool
}

// DeviceMetadata describes the device a session was opened from.
type DeviceMetadata struct {
	IPAddress   string
	SystemInfo  string
	Fingerprint string
	Device      DeviceInfo
}

// Session is one signed-in device. The bearer token itself is never kept; only its
// hash, which is unique across all sessions.
type Session struct {
	ID                uint
	UserID            uint
	TokenHash         string
	IPAddress         string
	SystemInfo        string
	DeviceFingerprint string
	Device            DeviceInfo
	AuthMethod        string
	IsActive          bool
	LastUsedAt        time.Time
	ExpiresAt         time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewSession(userID uint, tokenHash string, meta DeviceMetadata, authMethod string, expiresAt, now time.Time) (*Session, error) {
	if userID == 0 || tokenHash == "" {
		return nil, ErrInvalidSessionData
	}

	return &Session{
		UserID:            userID,
		TokenHash:         tokenHash,
		IPAddress:         meta.IPAddress,
		SystemInfo:        meta.SystemInfo,
		DeviceFingerprint: meta.Fingerprint,
		Device:            meta.Device,
		AuthMethod:        authMethod,
		IsActive:          true,
		LastUsedAt:        now,
		ExpiresAt:         expiresAt,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func (s *Session) BelongsTo(userID uint) bool {
	return s.UserID == userID
}

func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// SessionRepository stores sessions. Lookups that match nothing return ErrSessionNotFound.
type SessionRepository interface {
	// Create inserts the session and assigns its ID. A token hash collision
	// returns ErrDuplicateSessionToken.
	Create(ctx context.Context, session *Session) error

	GetByID(ctx context.Context, id uint) (*Session, error)

	// GetByTokenHash resolves the session a bearer token belongs to.
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)

	// ListByUser returns all sessions of the user, most recently created first.
	ListByUser(ctx context.Context, userID uint) ([]*Session, error)

	// TouchLastUsed moves last_used_at forward to at; it never moves it back.
	TouchLastUsed(ctx context.Context, id uint, at time.Time) error

	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id uint) error

	// DeleteAllExcept removes every session of userID other than keepID and
	// returns how many were removed.
	DeleteAllExcept(ctx context.Context, userID uint, keepID uint) (int64, error)

	// DeleteExpired removes sessions whose token expired before the given time.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
