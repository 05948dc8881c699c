package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	meta := DeviceMetadata{IPAddress: "10.0.0.1", SystemInfo: "macOS 15 / Deskhub 2.1", Fingerprint: "fp-1"}

	s, err := NewSession(3, "hash", meta, "password", now.Add(time.Hour), now)
	require.NoError(t, err)

	assert.Equal(t, uint(3), s.UserID)
	assert.Equal(t, "10.0.0.1", s.IPAddress)
	assert.Equal(t, "macOS 15 / Deskhub 2.1", s.SystemInfo)
	assert.Equal(t, "fp-1", s.DeviceFingerprint)
	assert.True(t, s.IsActive)
	assert.Equal(t, now, s.LastUsedAt)
	assert.True(t, s.BelongsTo(3))
	assert.False(t, s.BelongsTo(4))
}

func TestNewSession_RequiresOwnerAndToken(t *testing.T) {
	now := time.Now()

	_, err := NewSession(0, "hash", DeviceMetadata{}, "password", now, now)
	assert.ErrorIs(t, err, ErrInvalidSessionData)

	_, err = NewSession(1, "", DeviceMetadata{}, "password", now, now)
	assert.ErrorIs(t, err, ErrInvalidSessionData)
}

func TestSession_IsExpired(t *testing.T) {
	now := time.Now()
	s := &Session{ExpiresAt: now}

	assert.True(t, s.IsExpired(now))
	assert.False(t, s.IsExpired(now.Add(-time.Second)))
	assert.False(t, (&Session{}).IsExpired(now))
}
