package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/deskhub/internal/domain/user"
	"github.com/orris-inc/deskhub/internal/infrastructure/auth"
	"github.com/orris-inc/deskhub/internal/infrastructure/cache"
)

// TokenIssuer mints the bearer token handed to the client when a session opens.
type TokenIssuer interface {
	Issue(subjectID uint, ttl time.Duration) (token string, expiresAt time.Time, err error)
}

// CredentialHasher is a PasswordHasher that can also burn the time of a verification
// when there is no hash to verify against.
type CredentialHasher interface {
	user.PasswordHasher
	VerifyDummy(password string)
}

// LoginAlertSender notifies a user that their account was signed in to.
type LoginAlertSender interface {
	SendLoginAlert(to, username, device, ipAddress, when string) error
}

// StateStore remembers the OAuth state and PKCE verifier between redirect and callback.
type StateStore interface {
	Set(ctx context.Context, state string, codeVerifier string) error
	VerifyAndGet(ctx context.Context, state string) (*cache.StateInfo, error)
}

type OAuthClient interface {
	GetAuthURL(state string) (authURL string, codeVerifier string, err error)
	ExchangeCode(ctx context.Context, code string, codeVerifier string) (accessToken string, err error)
	GetUserInfo(ctx context.Context, accessToken string) (*auth.OAuthUserInfo, error)
}

// TransactionRunner runs fn inside one database transaction; repositories called with the
// ctx it passes join that transaction.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type noTransaction struct{}

func (noTransaction) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
