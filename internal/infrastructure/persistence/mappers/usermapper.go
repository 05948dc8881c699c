package mappers

import (
	"fmt"

	"github.com/orris-inc/deskhub/internal/domain/user"
	"github.com/orris-inc/deskhub/internal/infrastructure/persistence/models"
)

// UserMapper handles the conversion between domain entities and persistence models
type UserMapper interface {
	ToEntity(model *models.UserModel) (*user.User, error)
	ToModel(entity *user.User) *models.UserModel
}

type UserMapperImpl struct{}

func NewUserMapper() UserMapper {
	return &UserMapperImpl{}
}

func (m *UserMapperImpl) ToEntity(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := user.ReconstructUser(user.Snapshot{
		ID:                  model.ID,
		Username:            model.Username,
		Email:               model.Email,
		PasswordHash:        model.PasswordHash,
		EmailVerified:       model.EmailVerified,
		Active:              model.IsActive,
		Locked:              model.IsLocked,
		FailedLoginAttempts: model.FailedLoginAttempts,
		LockedUntil:         model.LockedUntil,
		Timezone:            model.Timezone,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct user %d: %w", model.ID, err)
	}
	return entity, nil
}

func (m *UserMapperImpl) ToModel(entity *user.User) *models.UserModel {
	if entity == nil {
		return nil
	}

	s := entity.Snapshot()
	return &models.UserModel{
		ID:                  s.ID,
		Username:            s.Username,
		Email:               s.Email,
		PasswordHash:        s.PasswordHash,
		EmailVerified:       s.EmailVerified,
		IsActive:            s.Active,
		IsLocked:            s.Locked,
		FailedLoginAttempts: s.FailedLoginAttempts,
		LockedUntil:         s.LockedUntil,
		Timezone:            s.Timezone,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}
