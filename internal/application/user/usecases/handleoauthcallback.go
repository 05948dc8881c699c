package usecases

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	stderrors "errors"
	"fmt"

	"github.com/orris-inc/deskhub/internal/application/user/dto"
	"github.com/orris-inc/deskhub/internal/domain/user"
	vo "github.com/orris-inc/deskhub/internal/domain/user/valueobjects"
	"github.com/orris-inc/deskhub/internal/shared/biztime"
	"github.com/orris-inc/deskhub/internal/shared/constants"
	"github.com/orris-inc/deskhub/internal/shared/errors"
	"github.com/orris-inc/deskhub/internal/shared/logger"
)

const (
	oauthProviderGoogle    = "google"
	maxUsernameAttempts    = 5
	usernameSuffixByteSize = 3
)

type HandleOAuthCallbackCommand struct {
	Code   string
	State  string
	Device user.DeviceMetadata
}

type HandleOAuthCallbackUseCase struct {
	userRepo   user.Repository
	client     OAuthClient
	stateStore StateStore
	sessions   *SessionOpener
	clock      biztime.Clock
	logger     logger.Interface
}

func NewHandleOAuthCallbackUseCase(
	userRepo user.Repository,
	client OAuthClient,
	stateStore StateStore,
	sessions *SessionOpener,
	logger logger.Interface,
) *HandleOAuthCallbackUseCase {
	return &HandleOAuthCallbackUseCase{
		userRepo:   userRepo,
		client:     client,
		stateStore: stateStore,
		sessions:   sessions,
		logger:     logger,
	}
}

// Execute finishes the Google flow: the state is consumed exactly once, the verified
// e-mail selects or creates the account, and a session is opened for it.
func (uc *HandleOAuthCallbackUseCase) Execute(ctx context.Context, cmd HandleOAuthCallbackCommand) (*dto.AuthResponse, error) {
	if uc.client == nil {
		return nil, errors.NewNotFoundError("google sign-in is not configured")
	}
	if cmd.Code == "" || cmd.State == "" {
		return nil, errors.NewValidationError("code and state are required")
	}

	stateInfo, err := uc.stateStore.VerifyAndGet(ctx, cmd.State)
	if err != nil {
		uc.logger.Warnw("oauth state rejected", "error", err)
		return nil, errors.NewValidationError("invalid or expired state parameter")
	}

	accessToken, err := uc.client.ExchangeCode(ctx, cmd.Code, stateInfo.CodeVerifier)
	if err != nil {
		uc.logger.Errorw("failed to exchange code", "error", err)
		return nil, errors.NewOAuthError(oauthProviderGoogle, "token exchange")
	}

	info, err := uc.client.GetUserInfo(ctx, accessToken)
	if err != nil {
		uc.logger.Errorw("failed to get user info", "error", err)
		return nil, errors.NewOAuthError(oauthProviderGoogle, "user info")
	}
	if !info.EmailVerified {
		return nil, errors.NewForbiddenError("google account e-mail is not verified")
	}

	email, err := vo.NewEmail(info.Email)
	if err != nil {
		return nil, errors.NewValidationError("invalid email", err.Error())
	}

	account, isNew, err := uc.findOrCreateUser(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := account.EnsureCanAuthenticate(uc.clock.Now()); err != nil {
		uc.logger.Warnw("oauth login rejected", "user_id", account.ID(), "reason", err.Error())
		return nil, err
	}

	opened, err := uc.sessions.Open(ctx, account.ID(), cmd.Device, constants.AuthMethodGoogle)
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("user logged in with google",
		"user_id", account.ID(),
		"session_id", opened.Session.ID,
		"new_user", isNew,
	)

	return &dto.AuthResponse{
		Token:     opened.Token,
		ExpiresAt: opened.ExpiresAt,
		User:      dto.ToUserResponse(account),
		IsNewUser: isNew,
	}, nil
}

func (uc *HandleOAuthCallbackUseCase) findOrCreateUser(ctx context.Context, email *vo.Email) (*user.User, bool, error) {
	existing, err := uc.userRepo.GetByEmail(ctx, email.String())
	if err != nil {
		uc.logger.Errorw("failed to get user by email", "error", err)
		return nil, false, fmt.Errorf("failed to get user: %w", err)
	}
	if existing != nil {
		if !existing.IsEmailVerified() {
			existing.MarkEmailVerified()
			if err := uc.userRepo.Update(ctx, existing); err != nil {
				uc.logger.Warnw("failed to mark email verified", "error", err, "user_id", existing.ID())
			}
		}
		return existing, false, nil
	}

	username, err := uc.availableUsername(ctx, vo.UsernameFromEmail(email))
	if err != nil {
		return nil, false, err
	}

	created, err := user.NewUser(username, email, "")
	if err != nil {
		return nil, false, fmt.Errorf("failed to build user: %w", err)
	}
	created.MarkEmailVerified()

	if err := uc.userRepo.Create(ctx, created); err != nil {
		// Another callback for the same address won the race.
		if stderrors.Is(err, user.ErrEmailTaken) {
			existing, getErr := uc.userRepo.GetByEmail(ctx, email.String())
			if getErr == nil && existing != nil {
				return existing, false, nil
			}
		}
		uc.logger.Errorw("failed to create user", "error", err)
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}
	return created, true, nil
}

// availableUsername returns base, or base with a random suffix when base is taken.
func (uc *HandleOAuthCallbackUseCase) availableUsername(ctx context.Context, base string) (*vo.Username, error) {
	candidate := base
	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		if attempt > 0 {
			suffix := make([]byte, usernameSuffixByteSize)
			if _, err := rand.Read(suffix); err != nil {
				return nil, fmt.Errorf("failed to generate username suffix: %w", err)
			}
			candidate = base + "-" + hex.EncodeToString(suffix)
		}

		taken, err := uc.userRepo.ExistsByUsername(ctx, candidate)
		if err != nil {
			uc.logger.Errorw("failed to check username", "error", err)
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if !taken {
			return vo.NewUsername(candidate)
		}
	}
	return nil, errors.NewConflictError("could not find a free username")
}

func (uc *HandleOAuthCallbackUseCase) WithClock(clock biztime.Clock) *HandleOAuthCallbackUseCase {
	uc.clock = clock
	return uc
}
