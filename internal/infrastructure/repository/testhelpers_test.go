package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/orris-inc/deskhub/internal/domain/user"
	vo "github.com/orris-inc/deskhub/internal/domain/user/valueobjects"
	"github.com/orris-inc/deskhub/internal/infrastructure/persistence/models"
	"github.com/orris-inc/deskhub/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// one connection, otherwise every pooled connection gets its own empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(&models.UserModel{}, &models.SessionModel{}))
	return db
}

func createTestUser(t *testing.T, repo user.Repository, username, email string) *user.User {
	t.Helper()
	return createTestUserCtx(t, t.Context(), repo, username, email)
}

func createTestUserCtx(t *testing.T, ctx context.Context, repo user.Repository, username, email string) *user.User {
	t.Helper()
	u, err := vo.NewUsername(username)
	require.NoError(t, err)
	e, err := vo.NewEmail(email)
	require.NoError(t, err)

	entity, err := user.NewUser(u, e, "UTC")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, entity))
	return entity
}

func newTestSession(t *testing.T, userID uint, tokenHash string, createdAt time.Time) *user.Session {
	t.Helper()
	s, err := user.NewSession(userID, tokenHash, user.DeviceMetadata{
		IPAddress:   "203.0.113.9",
		SystemInfo:  "Windows 11 / Deskhub 3.0",
		Fingerprint: "fp-" + tokenHash,
		Device:      user.DeviceInfo{Browser: "Electron", OS: "Windows 10"},
	}, "password", createdAt.Add(7*24*time.Hour), createdAt)
	require.NoError(t, err)
	return s
}

func newTestUserRepo(db *gorm.DB) user.Repository {
	return NewUserRepository(db, logger.NewNopLogger())
}
