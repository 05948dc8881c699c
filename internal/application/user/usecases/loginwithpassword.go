package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/orris-inc/deskhub/internal/application/user/dto"
	"github.com/orris-inc/deskhub/internal/domain/user"
	"github.com/orris-inc/deskhub/internal/shared/biztime"
	"github.com/orris-inc/deskhub/internal/shared/constants"
	"github.com/orris-inc/deskhub/internal/shared/errors"
	"github.com/orris-inc/deskhub/internal/shared/goroutine"
	"github.com/orris-inc/deskhub/internal/shared/logger"
	"github.com/orris-inc/deskhub/internal/shared/utils"
)

const loginAlertTimeLayout = "Jan 2, 2006 15:04 MST"

type LoginWithPasswordCommand struct {
	Email    string
	Password string
	Device   user.DeviceMetadata
}

type LoginWithPasswordUseCase struct {
	userRepo user.Repository
	hasher   CredentialHasher
	sessions *SessionOpener
	policy   user.LockoutPolicy
	alerts   LoginAlertSender
	clock    biztime.Clock
	logger   logger.Interface
}

func NewLoginWithPasswordUseCase(
	userRepo user.Repository,
	hasher CredentialHasher,
	sessions *SessionOpener,
	policy user.LockoutPolicy,
	logger logger.Interface,
) *LoginWithPasswordUseCase {
	return &LoginWithPasswordUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		sessions: sessions,
		policy:   policy,
		logger:   logger,
	}
}

// WithLoginAlerts mails the account owner after every successful sign-in.
func (uc *LoginWithPasswordUseCase) WithLoginAlerts(sender LoginAlertSender) *LoginWithPasswordUseCase {
	uc.alerts = sender
	return uc
}

func (uc *LoginWithPasswordUseCase) WithClock(clock biztime.Clock) *LoginWithPasswordUseCase {
	uc.clock = clock
	return uc
}

// Execute checks the credentials and opens a session. An unknown e-mail and a wrong
// password produce the same error.
func (uc *LoginWithPasswordUseCase) Execute(ctx context.Context, cmd LoginWithPasswordCommand) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if email == "" || cmd.Password == "" {
		return nil, errors.NewValidationError("email and password are required")
	}

	existingUser, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		uc.logger.Errorw("failed to get user by email", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existingUser == nil {
		uc.hasher.VerifyDummy(cmd.Password)
		uc.logger.Debugw("login attempt for unknown email", "email", utils.MaskEmail(email))
		return nil, errors.NewInvalidCredentialsError()
	}

	now := uc.clock.Now()
	if err := existingUser.EnsureCanAuthenticate(now); err != nil {
		uc.logger.Warnw("login rejected", "user_id", existingUser.ID(), "reason", err.Error())
		return nil, err
	}

	if err := existingUser.VerifyPassword(cmd.Password, uc.hasher, uc.policy, now); err != nil {
		if errors.IsSecurityEvent(err) {
			// The failure counter, and possibly the lock, must survive.
			if updateErr := uc.userRepo.Update(ctx, existingUser); updateErr != nil {
				uc.logger.Errorw("failed to record failed login", "error", updateErr, "user_id", existingUser.ID())
			}
			if existingUser.IsLocked(now) {
				uc.logger.Warnw("account locked after failed logins", "user_id", existingUser.ID())
			}
		}
		return nil, err
	}

	if err := uc.userRepo.Update(ctx, existingUser); err != nil {
		uc.logger.Warnw("failed to reset failed login counter", "error", err, "user_id", existingUser.ID())
	}

	opened, err := uc.sessions.Open(ctx, existingUser.ID(), cmd.Device, constants.AuthMethodPassword)
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("user logged in", "user_id", existingUser.ID(), "session_id", opened.Session.ID)
	uc.sendLoginAlert(existingUser, opened.Session)

	return &dto.AuthResponse{
		Token:     opened.Token,
		ExpiresAt: opened.ExpiresAt,
		User:      dto.ToUserResponse(existingUser),
	}, nil
}

func (uc *LoginWithPasswordUseCase) sendLoginAlert(u *user.User, session *user.Session) {
	if uc.alerts == nil {
		return
	}
	to := u.Email().String()
	username := u.Username().String()
	label := session.SystemInfo
	ip := session.IPAddress
	when := biztime.FormatForUser(session.CreatedAt, u.Timezone(), loginAlertTimeLayout)
	userID := u.ID()

	goroutine.SafeGo(uc.logger, "login-alert", func() {
		if err := uc.alerts.SendLoginAlert(to, username, label, ip, when); err != nil {
			uc.logger.Warnw("failed to send login alert", "error", err, "user_id", userID)
		}
	})
}
