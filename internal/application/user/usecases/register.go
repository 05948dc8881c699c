package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/deskhub/internal/application/user/dto"
	"github.com/orris-inc/deskhub/internal/domain/user"
	vo "github.com/orris-inc/deskhub/internal/domain/user/valueobjects"
	"github.com/orris-inc/deskhub/internal/shared/constants"
	"github.com/orris-inc/deskhub/internal/shared/errors"
	"github.com/orris-inc/deskhub/internal/shared/logger"
)

type RegisterCommand struct {
	Username string
	Email    string
	Password string
	Timezone string
	Device   user.DeviceMetadata
}

type RegisterUseCase struct {
	userRepo user.Repository
	hasher   user.PasswordHasher
	sessions *SessionOpener
	tx       TransactionRunner
	logger   logger.Interface
}

func NewRegisterUseCase(
	userRepo user.Repository,
	hasher user.PasswordHasher,
	sessions *SessionOpener,
	logger logger.Interface,
) *RegisterUseCase {
	return &RegisterUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		sessions: sessions,
		tx:       noTransaction{},
		logger:   logger,
	}
}

// WithTransaction makes account creation and the first session commit together, so a
// failed sign-in does not leave an account behind that blocks a retry.
func (uc *RegisterUseCase) WithTransaction(tx TransactionRunner) *RegisterUseCase {
	uc.tx = tx
	return uc
}

// Execute creates the account and signs it in on the calling device.
func (uc *RegisterUseCase) Execute(ctx context.Context, cmd RegisterCommand) (*dto.AuthResponse, error) {
	username, err := vo.NewUsername(cmd.Username)
	if err != nil {
		return nil, errors.NewValidationError("invalid username", err.Error())
	}
	email, err := vo.NewEmail(cmd.Email)
	if err != nil {
		return nil, errors.NewValidationError("invalid email", err.Error())
	}
	password, err := vo.NewPassword(cmd.Password)
	if err != nil {
		return nil, errors.NewValidationError("invalid password", err.Error())
	}
	if cmd.Timezone != "" {
		if _, err := time.LoadLocation(cmd.Timezone); err != nil {
			return nil, errors.NewValidationError("invalid timezone", cmd.Timezone)
		}
	}

	exists, err := uc.userRepo.ExistsByEmail(ctx, email.String())
	if err != nil {
		uc.logger.Errorw("failed to check email", "error", err)
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, user.ErrEmailTaken
	}

	exists, err = uc.userRepo.ExistsByUsername(ctx, username.String())
	if err != nil {
		uc.logger.Errorw("failed to check username", "error", err)
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, user.ErrUsernameTaken
	}

	newUser, err := user.NewUser(username, email, cmd.Timezone)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := newUser.SetPassword(password, uc.hasher); err != nil {
		uc.logger.Errorw("failed to hash password", "error", err)
		return nil, err
	}

	var opened *OpenedSession
	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		// The unique indexes still decide a race between two registrations.
		if err := uc.userRepo.Create(ctx, newUser); err != nil {
			if errors.IsConflictError(err) {
				return err
			}
			uc.logger.Errorw("failed to create user", "error", err)
			return fmt.Errorf("failed to create user: %w", err)
		}

		var err error
		opened, err = uc.sessions.Open(ctx, newUser.ID(), cmd.Device, constants.AuthMethodRegister)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("user registered", "user_id", newUser.ID(), "session_id", opened.Session.ID)

	return &dto.AuthResponse{
		Token:     opened.Token,
		ExpiresAt: opened.ExpiresAt,
		User:      dto.ToUserResponse(newUser),
		IsNewUser: true,
	}, nil
}
