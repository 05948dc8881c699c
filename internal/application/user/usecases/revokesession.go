package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/orris-inc/deskhub/internal/domain/user"
	"github.com/orris-inc/deskhub/internal/infrastructure/metrics"
	"github.com/orris-inc/deskhub/internal/shared/errors"
	"github.com/orris-inc/deskhub/internal/shared/logger"
)

type RevokeSessionCommand struct {
	Caller    Caller
	SessionID uint
}

type RevokeSessionUseCase struct {
	sessionRepo user.SessionRepository
	metrics     *metrics.Recorder
	logger      logger.Interface
}

func NewRevokeSessionUseCase(sessionRepo user.SessionRepository, recorder *metrics.Recorder, logger logger.Interface) *RevokeSessionUseCase {
	return &RevokeSessionUseCase{sessionRepo: sessionRepo, metrics: recorder, logger: logger}
}

// Execute deletes one of the caller's other sessions. The current session must be
// ended through sign-out, and a session of another account is never touched.
func (uc *RevokeSessionUseCase) Execute(ctx context.Context, cmd RevokeSessionCommand) error {
	if cmd.SessionID == 0 {
		return errors.NewValidationError("session id is required")
	}
	if cmd.SessionID == cmd.Caller.SessionID {
		return errors.NewValidationError("cannot revoke the current session", "use sign out instead")
	}

	target, err := uc.sessionRepo.GetByID(ctx, cmd.SessionID)
	if err != nil {
		if stderrors.Is(err, user.ErrSessionNotFound) {
			return err
		}
		uc.logger.Errorw("failed to get session", "error", err, "session_id", cmd.SessionID)
		return fmt.Errorf("failed to get session: %w", err)
	}

	if !target.BelongsTo(cmd.Caller.UserID) {
		uc.logger.Warnw("attempt to revoke a session of another user",
			"user_id", cmd.Caller.UserID,
			"session_id", cmd.SessionID,
		)
		return errors.NewForbiddenError("session does not belong to the current user")
	}

	if err := uc.sessionRepo.Delete(ctx, target.ID); err != nil {
		uc.logger.Errorw("failed to revoke session", "error", err, "session_id", target.ID)
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	uc.metrics.SessionsRevoked(metrics.RevokeSingle, 1)
	uc.logger.Infow("session revoked", "user_id", cmd.Caller.UserID, "session_id", target.ID)
	return nil
}
