package user

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/orris-inc/deskhub/internal/domain/user/valueobjects"
	"github.com/orris-inc/deskhub/internal/shared/errors"
)

// reverseHasher is a deterministic stand-in for bcrypt.
type reverseHasher struct{}

func (reverseHasher) Hash(password string) (string, error) {
	b := []byte(password)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return "rev:" + string(b), nil
}

func (h reverseHasher) Verify(password, hash string) error {
	want, _ := h.Hash(password)
	if want != hash {
		return fmt.Errorf("mismatch")
	}
	return nil
}

func newTestUser(t *testing.T) *User {
	t.Helper()
	username, err := vo.NewUsername("alice")
	require.NoError(t, err)
	email, err := vo.NewEmail("alice@example.com")
	require.NoError(t, err)

	u, err := NewUser(username, email, "")
	require.NoError(t, err)

	password, err := vo.NewPassword("s3cret-password")
	require.NoError(t, err)
	require.NoError(t, u.SetPassword(password, reverseHasher{}))
	return u
}

func TestNewUser_Defaults(t *testing.T) {
	u := newTestUser(t)

	assert.True(t, u.IsActive())
	assert.False(t, u.IsEmailVerified())
	assert.Equal(t, "UTC", u.Timezone())
	assert.True(t, u.HasPassword())
	assert.Zero(t, u.ID())
}

func TestNewUser_RequiresIdentity(t *testing.T) {
	email, _ := vo.NewEmail("a@example.com")
	_, err := NewUser(nil, email, "UTC")
	assert.Error(t, err)

	username, _ := vo.NewUsername("alice")
	_, err = NewUser(username, nil, "UTC")
	assert.Error(t, err)
}

func TestUser_SetID(t *testing.T) {
	u := newTestUser(t)

	assert.Error(t, u.SetID(0))
	require.NoError(t, u.SetID(7))
	assert.Equal(t, uint(7), u.ID())
	assert.Error(t, u.SetID(8))
}

func TestUser_VerifyPassword(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	policy := LockoutPolicy{MaxFailedAttempts: 3, LockDuration: 15 * time.Minute}

	t.Run("correct password resets failures", func(t *testing.T) {
		u := newTestUser(t)
		_ = u.VerifyPassword("wrong", reverseHasher{}, policy, now)
		require.Equal(t, 1, u.FailedLoginAttempts())

		assert.NoError(t, u.VerifyPassword("s3cret-password", reverseHasher{}, policy, now))
		assert.Zero(t, u.FailedLoginAttempts())
	})

	t.Run("wrong password is a generic credentials error", func(t *testing.T) {
		u := newTestUser(t)
		err := u.VerifyPassword("nope", reverseHasher{}, policy, now)

		authErr := errors.GetAuthError(err)
		require.NotNil(t, authErr)
		assert.Equal(t, errors.ErrorTypeInvalidCredentials, authErr.Type)
	})

	t.Run("locks after max failures and unlocks after duration", func(t *testing.T) {
		u := newTestUser(t)
		for i := 0; i < 3; i++ {
			_ = u.VerifyPassword("nope", reverseHasher{}, policy, now)
		}

		assert.True(t, u.IsLocked(now))
		assert.Error(t, u.EnsureCanAuthenticate(now))
		assert.False(t, u.IsLocked(now.Add(16*time.Minute)))
		assert.NoError(t, u.EnsureCanAuthenticate(now.Add(16*time.Minute)))
	})

	t.Run("oauth-only account", func(t *testing.T) {
		username, _ := vo.NewUsername("bob")
		email, _ := vo.NewEmail("bob@example.com")
		u, err := NewUser(username, email, "UTC")
		require.NoError(t, err)

		err = u.VerifyPassword("anything1", reverseHasher{}, policy, now)
		authErr := errors.GetAuthError(err)
		require.NotNil(t, authErr)
		assert.Equal(t, errors.ErrorTypePasswordNotSet, authErr.Type)
	})
}

func TestUser_EnsureCanAuthenticate(t *testing.T) {
	now := time.Now().UTC()

	u := newTestUser(t)
	u.Deactivate()
	authErr := errors.GetAuthError(u.EnsureCanAuthenticate(now))
	require.NotNil(t, authErr)
	assert.Equal(t, errors.ErrorTypeAccountInactive, authErr.Type)

	u.Activate()
	u.Lock()
	authErr = errors.GetAuthError(u.EnsureCanAuthenticate(now))
	require.NotNil(t, authErr)
	assert.Equal(t, errors.ErrorTypeAccountLocked, authErr.Type)

	u.Unlock()
	assert.NoError(t, u.EnsureCanAuthenticate(now))
}

func TestUser_SnapshotRoundTrip(t *testing.T) {
	u := newTestUser(t)
	require.NoError(t, u.SetID(42))
	u.MarkEmailVerified()

	restored, err := ReconstructUser(u.Snapshot())
	require.NoError(t, err)

	assert.Equal(t, u.Snapshot(), restored.Snapshot())
}

func TestReconstructUser_RejectsBadState(t *testing.T) {
	_, err := ReconstructUser(Snapshot{ID: 0, Username: "alice", Email: "a@example.com"})
	assert.Error(t, err)

	_, err = ReconstructUser(Snapshot{ID: 1, Username: "alice", Email: "broken"})
	assert.Error(t, err)
}
