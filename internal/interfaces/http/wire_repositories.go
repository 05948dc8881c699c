package http

import (
	"gorm.io/gorm"

	"github.com/orris-inc/deskhub/internal/domain/user"
	"github.com/orris-inc/deskhub/internal/infrastructure/repository"
	"github.com/orris-inc/deskhub/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	userRepo    user.Repository
	sessionRepo user.SessionRepository
}

// newRepositories creates all repository instances from the database connection.
func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		userRepo:    repository.NewUserRepository(db, log),
		sessionRepo: repository.NewSessionRepository(db),
	}
}
