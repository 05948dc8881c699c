package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/deskhub/internal/application/user/dto"
	"github.com/orris-inc/deskhub/internal/domain/user"
	"github.com/orris-inc/deskhub/internal/infrastructure/metrics"
	"github.com/orris-inc/deskhub/internal/shared/errors"
	"github.com/orris-inc/deskhub/internal/shared/logger"
)

type SignOutUseCase struct {
	sessionRepo user.SessionRepository
	metrics     *metrics.Recorder
	logger      logger.Interface
}

func NewSignOutUseCase(sessionRepo user.SessionRepository, recorder *metrics.Recorder, logger logger.Interface) *SignOutUseCase {
	return &SignOutUseCase{sessionRepo: sessionRepo, metrics: recorder, logger: logger}
}

// Execute ends the session the request arrived on.
func (uc *SignOutUseCase) Execute(ctx context.Context, caller Caller) (*dto.SignOutResponse, error) {
	if caller.SessionID == 0 {
		return nil, errors.NewValidationError("current session is unknown")
	}

	if err := uc.sessionRepo.Delete(ctx, caller.SessionID); err != nil {
		uc.logger.Errorw("failed to delete session", "error", err, "session_id", caller.SessionID)
		return nil, fmt.Errorf("failed to sign out: %w", err)
	}

	uc.metrics.SessionsRevoked(metrics.RevokeSignOut, 1)
	uc.logger.Infow("user signed out", "user_id", caller.UserID, "session_id", caller.SessionID)
	return &dto.SignOutResponse{ClearToken: true}, nil
}
