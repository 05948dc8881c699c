package mappers

import (
	"gorm.io/datatypes"

	"github.com/orris-inc/deskhub/internal/domain/user"
	"github.com/orris-inc/deskhub/internal/infrastructure/persistence/models"
)

// SessionMapper handles the conversion between Session domain entities and persistence models.
type SessionMapper interface {
	ToModel(entity *user.Session) *models.SessionModel
	ToDomain(model *models.SessionModel) *user.Session
}

type SessionMapperImpl struct{}

func NewSessionMapper() SessionMapper {
	return &SessionMapperImpl{}
}

func (m *SessionMapperImpl) ToModel(entity *user.Session) *models.SessionModel {
	if entity == nil {
		return nil
	}
	return &models.SessionModel{
		ID:                entity.ID,
		UserID:            entity.UserID,
		TokenHash:         entity.TokenHash,
		IPAddress:         entity.IPAddress,
		SystemInfo:        entity.SystemInfo,
		DeviceFingerprint: entity.DeviceFingerprint,
		DeviceInfo: datatypes.NewJSONType(models.DeviceInfo{
			Browser:        entity.Device.Browser,
			BrowserVersion: entity.Device.BrowserVersion,
			OS:             entity.Device.OS,
			Platform:       entity.Device.Platform,
			Mobile:         entity.Device.Mobile,
			Bot:            entity.Device.Bot,
		}),
		AuthMethod: entity.AuthMethod,
		IsActive:   entity.IsActive,
		LastUsedAt: entity.LastUsedAt,
		ExpiresAt:  entity.ExpiresAt,
		CreatedAt:  entity.CreatedAt,
		UpdatedAt:  entity.UpdatedAt,
	}
}

func (m *SessionMapperImpl) ToDomain(model *models.SessionModel) *user.Session {
	if model == nil {
		return nil
	}
	device := model.DeviceInfo.Data()
	return &user.Session{
		ID:                model.ID,
		UserID:            model.UserID,
		TokenHash:         model.TokenHash,
		IPAddress:         model.IPAddress,
		SystemInfo:        model.SystemInfo,
		DeviceFingerprint: model.DeviceFingerprint,
		Device: user.DeviceInfo{
			Browser:        device.Browser,
			BrowserVersion: device.BrowserVersion,
			OS:             device.OS,
			Platform:       device.Platform,
			Mobile:         device.Mobile,
			Bot:            device.Bot,
		},
		AuthMethod: model.AuthMethod,
		IsActive:   model.IsActive,
		LastUsedAt: model.LastUsedAt,
		ExpiresAt:  model.ExpiresAt,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}
