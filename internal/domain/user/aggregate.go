package user

import (
	"fmt"
	"time"

	vo "github.com/orris-inc/deskhub/internal/domain/user/valueobjects"
	"github.com/orris-inc/deskhub/internal/shared/biztime"
)

// User is the account aggregate root. Persistence concerns live in the mappers.
type User struct {
	id                  uint
	username            *vo.Username
	email               *vo.Email
	passwordHash        *string
	emailVerified       bool
	active              bool
	locked              bool
	failedLoginAttempts int
	lockedUntil         *time.Time
	timezone            string
	createdAt           time.Time
	updatedAt           time.Time
}

// NewUser creates an active account that has not chosen a password yet.
func NewUser(username *vo.Username, email *vo.Email, timezone string) (*User, error) {
	if username == nil {
		return nil, fmt.Errorf("username is required")
	}
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}
	if timezone == "" {
		timezone = biztime.DefaultTimezone
	}

	now := biztime.NowUTC()
	return &User{
		username:  username,
		email:     email,
		active:    true,
		timezone:  timezone,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Snapshot is the full persisted state of a user.
type Snapshot struct {
	ID                  uint
	Username            string
	Email               string
	PasswordHash        *string
	EmailVerified       bool
	Active              bool
	Locked              bool
	FailedLoginAttempts int
	LockedUntil         *time.Time
	Timezone            string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ReconstructUser rebuilds a user from persistence
func ReconstructUser(s Snapshot) (*User, error) {
	if s.ID == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	username, err := vo.NewUsername(s.Username)
	if err != nil {
		return nil, fmt.Errorf("invalid stored username: %w", err)
	}
	email, err := vo.NewEmail(s.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid stored email: %w", err)
	}

	return &User{
		id:                  s.ID,
		username:            username,
		email:               email,
		passwordHash:        s.PasswordHash,
		emailVerified:       s.EmailVerified,
		active:              s.Active,
		locked:              s.Locked,
		failedLoginAttempts: s.FailedLoginAttempts,
		lockedUntil:         s.LockedUntil,
		timezone:            s.Timezone,
		createdAt:           s.CreatedAt,
		updatedAt:           s.UpdatedAt,
	}, nil
}

// Snapshot exports the state for the persistence layer.
func (u *User) Snapshot() Snapshot {
	return Snapshot{
		ID:                  u.id,
		Username:            u.username.String(),
		Email:               u.email.String(),
		PasswordHash:        u.passwordHash,
		EmailVerified:       u.emailVerified,
		Active:              u.active,
		Locked:              u.locked,
		FailedLoginAttempts: u.failedLoginAttempts,
		LockedUntil:         u.lockedUntil,
		Timezone:            u.timezone,
		CreatedAt:           u.createdAt,
		UpdatedAt:           u.updatedAt,
	}
}

func (u *User) ID() uint { return u.id }
func (u *User) Username() *vo.Username { return u.username }
func (u *User) Email() *vo.Email { return u.email }
func (u *User) Timezone() string { return u.timezone }
func (u *User) IsEmailVerified() bool { return u.emailVerified }
func (u *User) IsActive() bool { return u.active }
func (u *User) FailedLoginAttempts() int { return u.failedLoginAttempts }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }
func (u *User) LockedUntil() *time.Time { return u.lockedUntil }

// SetID sets the user ID (only for persistence layer use)
func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

// MarkEmailVerified is used when an identity provider vouches for the address.
func (u *User) MarkEmailVerified() {
	if !u.emailVerified {
		u.emailVerified = true
		u.touch()
	}
}

// Deactivate disables the account; existing sessions stop authenticating.
func (u *User) Deactivate() {
	u.active = false
	u.touch()
}

func (u *User) Activate() {
	u.active = true
	u.touch()
}

// Lock administratively locks the account until Unlock is called.
func (u *User) Lock() {
	u.locked = true
	u.touch()
}

func (u *User) Unlock() {
	u.locked = false
	u.failedLoginAttempts = 0
	u.lockedUntil = nil
	u.touch()
}

// IsLocked reports an administrative lock or an unexpired lockout from failed logins.
func (u *User) IsLocked(now time.Time) bool {
	if u.locked {
		return true
	}
	return u.lockedUntil != nil && now.Before(*u.lockedUntil)
}

func (u *User) touch() {
	u.updatedAt = biztime.NowUTC()
}
