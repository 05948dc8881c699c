package repository

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/deskhub/internal/domain/user"
	"github.com/orris-inc/deskhub/internal/infrastructure/persistence/models"
)

func TestSessionRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, newTestUserRepo(db), "alice", "alice@example.com")
	repo := NewSessionRepository(db)
	ctx := t.Context()
	now := time.Now().UTC()

	s := newTestSession(t, owner.ID(), "hash-1", now)
	require.NoError(t, repo.Create(ctx, s))
	assert.NotZero(t, s.ID)

	found, err := repo.GetByTokenHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, s.ID, found.ID)
	assert.Equal(t, owner.ID(), found.UserID)
	assert.Equal(t, "Windows 11 / Deskhub 3.0", found.SystemInfo)
	assert.Equal(t, "Electron", found.Device.Browser)
	assert.True(t, found.IsActive)

	byID, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash-1", byID.TokenHash)
}

func TestSessionRepository_TokenUniqueness(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, newTestUserRepo(db), "alice", "alice@example.com")
	repo := NewSessionRepository(db)
	now := time.Now().UTC()

	require.NoError(t, repo.Create(t.Context(), newTestSession(t, owner.ID(), "same", now)))
	err := repo.Create(t.Context(), newTestSession(t, owner.ID(), "same", now))
	assert.ErrorIs(t, err, user.ErrDuplicateSessionToken)
}

func TestSessionRepository_NotFound(t *testing.T) {
	repo := NewSessionRepository(setupTestDB(t))

	_, err := repo.GetByTokenHash(t.Context(), "missing")
	assert.ErrorIs(t, err, user.ErrSessionNotFound)

	_, err = repo.GetByID(t.Context(), 12345)
	assert.ErrorIs(t, err, user.ErrSessionNotFound)
}

func TestSessionRepository_ListByUserMostRecentFirst(t *testing.T) {
	db := setupTestDB(t)
	users := newTestUserRepo(db)
	alice := createTestUser(t, users, "alice", "alice@example.com")
	bob := createTestUser(t, users, "bob", "bob@example.com")
	repo := NewSessionRepository(db)
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(t.Context(), newTestSession(t, alice.ID(), "a-old", base)))
	require.NoError(t, repo.Create(t.Context(), newTestSession(t, alice.ID(), "a-new", base.Add(2*time.Hour))))
	require.NoError(t, repo.Create(t.Context(), newTestSession(t, alice.ID(), "a-mid", base.Add(time.Hour))))
	require.NoError(t, repo.Create(t.Context(), newTestSession(t, bob.ID(), "b-1", base)))

	sessions, err := repo.ListByUser(t.Context(), alice.ID())
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "a-new", sessions[0].TokenHash)
	assert.Equal(t, "a-mid", sessions[1].TokenHash)
	assert.Equal(t, "a-old", sessions[2].TokenHash)

	empty, err := repo.ListByUser(t.Context(), 999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSessionRepository_TouchLastUsedIsMonotonic(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, newTestUserRepo(db), "alice", "alice@example.com")
	repo := NewSessionRepository(db)
	ctx := t.Context()
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	s := newTestSession(t, owner.ID(), "hash", base)
	require.NoError(t, repo.Create(ctx, s))

	later := base.Add(10 * time.Minute)
	require.NoError(t, repo.TouchLastUsed(ctx, s.ID, later))
	require.NoError(t, repo.TouchLastUsed(ctx, s.ID, base.Add(time.Minute)))

	found, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, found.LastUsedAt.Equal(later), "got %s", found.LastUsedAt)

	// touching a revoked session is harmless
	require.NoError(t, repo.Delete(ctx, s.ID))
	assert.NoError(t, repo.TouchLastUsed(ctx, s.ID, later.Add(time.Minute)))
}

func TestSessionRepository_ConcurrentTouches(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, newTestUserRepo(db), "alice", "alice@example.com")
	repo := NewSessionRepository(db)
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	s := newTestSession(t, owner.ID(), "hash", base)
	require.NoError(t, repo.Create(t.Context(), s))

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		wg.Add(1)
		go func(minute int) {
			defer wg.Done()
			assert.NoError(t, repo.TouchLastUsed(t.Context(), s.ID, base.Add(time.Duration(minute)*time.Minute)))
		}(i)
	}
	wg.Wait()

	found, err := repo.GetByID(t.Context(), s.ID)
	require.NoError(t, err)
	assert.True(t, found.LastUsedAt.Equal(base.Add(10*time.Minute)))
}

func TestSessionRepository_DeleteIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, newTestUserRepo(db), "alice", "alice@example.com")
	repo := NewSessionRepository(db)
	ctx := t.Context()

	s := newTestSession(t, owner.ID(), "hash", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, s))

	require.NoError(t, repo.Delete(ctx, s.ID))
	require.NoError(t, repo.Delete(ctx, s.ID))

	_, err := repo.GetByTokenHash(ctx, "hash")
	assert.ErrorIs(t, err, user.ErrSessionNotFound)
}

func TestSessionRepository_DeleteAllExcept(t *testing.T) {
	db := setupTestDB(t)
	users := newTestUserRepo(db)
	alice := createTestUser(t, users, "alice", "alice@example.com")
	bob := createTestUser(t, users, "bob", "bob@example.com")
	repo := NewSessionRepository(db)
	ctx := t.Context()
	now := time.Now().UTC()

	current := newTestSession(t, alice.ID(), "a-current", now)
	require.NoError(t, repo.Create(ctx, current))
	require.NoError(t, repo.Create(ctx, newTestSession(t, alice.ID(), "a-2", now)))
	require.NoError(t, repo.Create(ctx, newTestSession(t, alice.ID(), "a-3", now)))
	require.NoError(t, repo.Create(ctx, newTestSession(t, bob.ID(), "b-1", now)))

	n, err := repo.DeleteAllExcept(ctx, alice.ID(), current.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	remaining, err := repo.ListByUser(ctx, alice.ID())
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, current.ID, remaining[0].ID)

	bobs, err := repo.ListByUser(ctx, bob.ID())
	require.NoError(t, err)
	assert.Len(t, bobs, 1)

	n, err = repo.DeleteAllExcept(ctx, alice.ID(), current.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, newTestUserRepo(db), "alice", "alice@example.com")
	repo := NewSessionRepository(db)
	ctx := t.Context()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newTestSession(t, owner.ID(), "old", now.Add(-8*24*time.Hour))))
	require.NoError(t, repo.Create(ctx, newTestSession(t, owner.ID(), "fresh", now)))

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.GetByTokenHash(ctx, "fresh")
	assert.NoError(t, err)
}

func TestSessionRepository_CascadeOnUserDelete(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, newTestUserRepo(db), "alice", "alice@example.com")
	repo := NewSessionRepository(db)

	require.NoError(t, repo.Create(t.Context(), newTestSession(t, owner.ID(), "hash", time.Now().UTC())))
	require.NoError(t, db.Unscoped().Delete(&models.UserModel{}, owner.ID()).Error)

	_, err := repo.GetByTokenHash(t.Context(), "hash")
	assert.ErrorIs(t, err, user.ErrSessionNotFound)
}
