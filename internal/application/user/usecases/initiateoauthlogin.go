package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/deskhub/internal/infrastructure/auth"
	"github.com/orris-inc/deskhub/internal/shared/errors"
	"github.com/orris-inc/deskhub/internal/shared/logger"
)

type InitiateOAuthLoginResult struct {
	AuthURL string
	State   string
}

type InitiateOAuthLoginUseCase struct {
	client     OAuthClient
	stateStore StateStore
	logger     logger.Interface
}

// NewInitiateOAuthLoginUseCase accepts a nil client, meaning Google sign-in is disabled.
func NewInitiateOAuthLoginUseCase(client OAuthClient, stateStore StateStore, logger logger.Interface) *InitiateOAuthLoginUseCase {
	return &InitiateOAuthLoginUseCase{
		client:     client,
		stateStore: stateStore,
		logger:     logger,
	}
}

func (uc *InitiateOAuthLoginUseCase) Execute(ctx context.Context) (*InitiateOAuthLoginResult, error) {
	if uc.client == nil {
		return nil, errors.NewNotFoundError("google sign-in is not configured")
	}

	state, err := auth.GenerateState()
	if err != nil {
		uc.logger.Errorw("failed to generate state", "error", err)
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}

	authURL, codeVerifier, err := uc.client.GetAuthURL(state)
	if err != nil {
		uc.logger.Errorw("failed to get auth URL", "error", err)
		return nil, fmt.Errorf("failed to get auth URL: %w", err)
	}

	if err := uc.stateStore.Set(ctx, state, codeVerifier); err != nil {
		uc.logger.Errorw("failed to store OAuth state", "error", err)
		return nil, fmt.Errorf("failed to store OAuth state: %w", err)
	}

	return &InitiateOAuthLoginResult{AuthURL: authURL, State: state}, nil
}
