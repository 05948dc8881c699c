package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/deskhub/internal/application/user/dto"
	"github.com/orris-inc/deskhub/internal/domain/user"
	"github.com/orris-inc/deskhub/internal/shared/logger"
)

// Caller identifies the authenticated user and the session the request arrived on.
type Caller struct {
	UserID    uint
	SessionID uint
}

type ListSessionsUseCase struct {
	sessionRepo user.SessionRepository
	logger      logger.Interface
}

func NewListSessionsUseCase(sessionRepo user.SessionRepository, logger logger.Interface) *ListSessionsUseCase {
	return &ListSessionsUseCase{sessionRepo: sessionRepo, logger: logger}
}

// Execute lists the caller's sessions, newest first, flagging the one in use by id.
func (uc *ListSessionsUseCase) Execute(ctx context.Context, caller Caller) (*dto.SessionListResponse, error) {
	sessions, err := uc.sessionRepo.ListByUser(ctx, caller.UserID)
	if err != nil {
		uc.logger.Errorw("failed to list sessions", "error", err, "user_id", caller.UserID)
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return dto.ToSessionListResponse(sessions, caller.SessionID), nil
}
