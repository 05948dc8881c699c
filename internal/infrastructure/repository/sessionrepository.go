package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/deskhub/internal/domain/user"
	"github.com/orris-inc/deskhub/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/deskhub/internal/infrastructure/persistence/models"
	"github.com/orris-inc/deskhub/internal/shared/db"
	apperrors "github.com/orris-inc/deskhub/internal/shared/errors"
)

// SessionRepository implements user.SessionRepository with gorm.
type SessionRepository struct {
	db     *gorm.DB
	mapper mappers.SessionMapper
}

func NewSessionRepository(db *gorm.DB) user.SessionRepository {
	return &SessionRepository{
		db:     db,
		mapper: mappers.NewSessionMapper(),
	}
}

func (r *SessionRepository) Create(ctx context.Context, session *user.Session) error {
	model := r.mapper.ToModel(session)
	if err := db.GetTxFromContext(ctx, r.db).Omit("User").Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return user.ErrDuplicateSessionToken
		}
		return fmt.Errorf("failed to create session: %w", err)
	}
	session.ID = model.ID
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id uint) (*user.Session, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *SessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*user.Session, error) {
	return r.first(ctx, "token_hash = ?", tokenHash)
}

func (r *SessionRepository) first(ctx context.Context, query string, arg any) (*user.Session, error) {
	var model models.SessionModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return r.mapper.ToDomain(&model), nil
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID uint) ([]*user.Session, error) {
	var sessionModels []models.SessionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&sessionModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make([]*user.Session, len(sessionModels))
	for i := range sessionModels {
		sessions[i] = r.mapper.ToDomain(&sessionModels[i])
	}
	return sessions, nil
}

// TouchLastUsed skips the update when a newer timestamp has already been written,
// so concurrent touches can only move last_used_at forward.
func (r *SessionRepository) TouchLastUsed(ctx context.Context, id uint, at time.Time) error {
	err := db.GetTxFromContext(ctx, r.db).Model(&models.SessionModel{}).
		Where("id = ? AND last_used_at < ?", id, at).
		UpdateColumn("last_used_at", at).Error
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id uint) error {
	if err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).Delete(&models.SessionModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteAllExcept(ctx context.Context, userID uint, keepID uint) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND id <> ?", userID, keepID).
		Delete(&models.SessionModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Where("expires_at <= ?", before).
		Delete(&models.SessionModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
