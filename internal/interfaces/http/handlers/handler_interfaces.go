package handlers

import (
	"context"

	"github.com/orris-inc/deskhub/internal/application/user/dto"
	"github.com/orris-inc/deskhub/internal/application/user/usecases"
)

// Use case interfaces for the handlers - enables unit testing with mocks.

type registerUseCase interface {
	Execute(ctx context.Context, cmd usecases.RegisterCommand) (*dto.AuthResponse, error)
}

type loginUseCase interface {
	Execute(ctx context.Context, cmd usecases.LoginWithPasswordCommand) (*dto.AuthResponse, error)
}

type initiateOAuthUseCase interface {
	Execute(ctx context.Context) (*usecases.InitiateOAuthLoginResult, error)
}

type handleOAuthCallbackUseCase interface {
	Execute(ctx context.Context, cmd usecases.HandleOAuthCallbackCommand) (*dto.AuthResponse, error)
}

type signOutUseCase interface {
	Execute(ctx context.Context, caller usecases.Caller) (*dto.SignOutResponse, error)
}

type getCurrentUserUseCase interface {
	Execute(ctx context.Context, userID uint) (*dto.UserResponse, error)
}

type listSessionsUseCase interface {
	Execute(ctx context.Context, caller usecases.Caller) (*dto.SessionListResponse, error)
}

type revokeSessionUseCase interface {
	Execute(ctx context.Context, cmd usecases.RevokeSessionCommand) error
}

type revokeAllSessionsUseCase interface {
	Execute(ctx context.Context, caller usecases.Caller) (*dto.RevokeAllResponse, error)
}
