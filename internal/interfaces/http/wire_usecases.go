package http

import (
	"time"

	"github.com/orris-inc/deskhub/internal/application/user/usecases"
	"github.com/orris-inc/deskhub/internal/domain/user"
	"github.com/orris-inc/deskhub/internal/infrastructure/email"
	"github.com/orris-inc/deskhub/internal/shared/db"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// Sign-in
	sessionOpener   *usecases.SessionOpener
	registerUC      *usecases.RegisterUseCase
	loginUC         *usecases.LoginWithPasswordUseCase
	initiateOAuthUC *usecases.InitiateOAuthLoginUseCase
	handleOAuthUC   *usecases.HandleOAuthCallbackUseCase
	getCurrentUC    *usecases.GetCurrentUserUseCase

	// Session lifecycle
	listSessionsUC      *usecases.ListSessionsUseCase
	revokeSessionUC     *usecases.RevokeSessionUseCase
	revokeAllSessionsUC *usecases.RevokeAllSessionsUseCase
	signOutUC           *usecases.SignOutUseCase
}

// ============================================================
// Section 2: Use cases
// ============================================================

func (c *Container) initUseCases() {
	cfg := c.cfg
	log := c.log
	repos := c.repos

	opener := usecases.NewSessionOpener(repos.sessionRepo, c.tokenIssuer, cfg.Auth.JWT.TokenTTL(), c.metrics, log)

	policy := user.LockoutPolicy{
		MaxFailedAttempts: cfg.Auth.Login.MaxFailedAttempts,
		LockDuration:      time.Duration(cfg.Auth.Login.LockMinutes) * time.Minute,
	}
	loginUC := usecases.NewLoginWithPasswordUseCase(repos.userRepo, c.hasher, opener, policy, log)
	if cfg.Email.LoginAlerts {
		loginUC.WithLoginAlerts(email.NewSMTPEmailService(email.SMTPConfigFrom(&cfg.Email)))
		log.Infow("login alert emails enabled", "smtp_host", cfg.Email.SMTPHost)
	}

	registerUC := usecases.NewRegisterUseCase(repos.userRepo, c.hasher, opener, log).
		WithTransaction(db.NewTransactionManager(c.db))

	// Passing a nil *GoogleOAuthClient would produce a non-nil interface.
	var oauthClient usecases.OAuthClient
	if c.oauthClient != nil {
		oauthClient = c.oauthClient
	}

	c.ucs = &allUseCases{
		sessionOpener:       opener,
		registerUC:          registerUC,
		loginUC:             loginUC,
		initiateOAuthUC:     usecases.NewInitiateOAuthLoginUseCase(oauthClient, c.stateStore, log),
		handleOAuthUC:       usecases.NewHandleOAuthCallbackUseCase(repos.userRepo, oauthClient, c.stateStore, opener, log),
		getCurrentUC:        usecases.NewGetCurrentUserUseCase(repos.userRepo, log),
		listSessionsUC:      usecases.NewListSessionsUseCase(repos.sessionRepo, log),
		revokeSessionUC:     usecases.NewRevokeSessionUseCase(repos.sessionRepo, c.metrics, log),
		revokeAllSessionsUC: usecases.NewRevokeAllSessionsUseCase(repos.sessionRepo, c.metrics, log),
		signOutUC:           usecases.NewSignOutUseCase(repos.sessionRepo, c.metrics, log),
	}
}
