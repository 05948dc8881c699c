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

type RevokeAllSessionsUseCase struct {
	sessionRepo user.SessionRepository
	metrics     *metrics.Recorder
	logger      logger.Interface
}

func NewRevokeAllSessionsUseCase(sessionRepo user.SessionRepository, recorder *metrics.Recorder, logger logger.Interface) *RevokeAllSessionsUseCase {
	return &RevokeAllSessionsUseCase{sessionRepo: sessionRepo, metrics: recorder, logger: logger}
}

// Execute deletes every session of the caller except the current one.
func (uc *RevokeAllSessionsUseCase) Execute(ctx context.Context, caller Caller) (*dto.RevokeAllResponse, error) {
	if caller.SessionID == 0 {
		return nil, errors.NewValidationError("current session is unknown")
	}

	n, err := uc.sessionRepo.DeleteAllExcept(ctx, caller.UserID, caller.SessionID)
	if err != nil {
		uc.logger.Errorw("failed to revoke sessions", "error", err, "user_id", caller.UserID)
		return nil, fmt.Errorf("failed to revoke sessions: %w", err)
	}

	uc.metrics.SessionsRevoked(metrics.RevokeAll, n)
	uc.logger.Infow("other sessions revoked", "user_id", caller.UserID, "count", n)
	return &dto.RevokeAllResponse{Revoked: n}, nil
}
