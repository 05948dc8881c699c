package user

import (
	"fmt"
	"time"

	vo "github.com/orris-inc/deskhub/internal/domain/user/valueobjects"
	"github.com/orris-inc/deskhub/internal/shared/errors"
)

// PasswordHasher turns a password into a one-way hash and checks candidates against it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// LockoutPolicy controls how many consecutive failures lock an account, and for how long.
type LockoutPolicy struct {
	MaxFailedAttempts int
	LockDuration      time.Duration
}

// DefaultLockoutPolicy locks for 30 minutes after 5 failures.
var DefaultLockoutPolicy = LockoutPolicy{MaxFailedAttempts: 5, LockDuration: 30 * time.Minute}

func (u *User) SetPassword(password *vo.Password, hasher PasswordHasher) error {
	if password == nil {
		return fmt.Errorf("password cannot be nil")
	}

	hash, err := hasher.Hash(password.String())
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u.passwordHash = &hash
	u.touch()
	return nil
}

func (u *User) HasPassword() bool {
	return u.passwordHash != nil && *u.passwordHash != ""
}

// EnsureCanAuthenticate rejects disabled or locked accounts.
func (u *User) EnsureCanAuthenticate(now time.Time) error {
	if !u.active {
		return errors.NewAccountInactiveError()
	}
	if u.IsLocked(now) {
		return errors.NewAccountLockedError()
	}
	return nil
}

// VerifyPassword checks plain against the stored hash and tracks consecutive failures.
// The caller must persist the user afterwards whether or not verification succeeded.
func (u *User) VerifyPassword(plain string, hasher PasswordHasher, policy LockoutPolicy, now time.Time) error {
	if !u.HasPassword() {
		return errors.NewPasswordNotSetError()
	}

	if err := hasher.Verify(plain, *u.passwordHash); err != nil {
		u.recordFailedLogin(policy, now)
		return errors.NewInvalidCredentialsError()
	}

	u.resetFailedLoginAttempts()
	return nil
}

func (u *User) recordFailedLogin(policy LockoutPolicy, now time.Time) {
	u.failedLoginAttempts++
	if policy.MaxFailedAttempts > 0 && u.failedLoginAttempts >= policy.MaxFailedAttempts {
		until := now.Add(policy.LockDuration)
		u.lockedUntil = &until
		u.failedLoginAttempts = 0
	}
	u.touch()
}

func (u *User) resetFailedLoginAttempts() {
	if u.failedLoginAttempts > 0 || u.lockedUntil != nil {
		u.failedLoginAttempts = 0
		u.lockedUntil = nil
		u.touch()
	}
}
