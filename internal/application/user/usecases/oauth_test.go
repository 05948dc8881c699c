package usecases

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/deskhub/internal/infrastructure/auth"
	apperrors "github.com/orris-inc/deskhub/internal/shared/errors"
)

type oauthFixture struct {
	initiate *InitiateOAuthLoginUseCase
	callback *HandleOAuthCallbackUseCase
	client   *mockOAuthClient
	users    *mockUserRepository
	sessions *mockSessionRepository
}

func newOAuthFixture() *oauthFixture {
	users := newMockUserRepository()
	sessions := newMockSessionRepository()
	client := &mockOAuthClient{}
	states := newTestStateStore()
	log := testLogger()
	return &oauthFixture{
		initiate: NewInitiateOAuthLoginUseCase(client, states, log),
		callback: NewHandleOAuthCallbackUseCase(users, client, states, newTestOpener(sessions, &stubTokenIssuer{}), log).
			WithClock(func() time.Time { return testNow }),
		client:   client,
		users:    users,
		sessions: sessions,
	}
}

func (f *oauthFixture) start(t *testing.T) string {
	t.Helper()
	res, err := f.initiate.Execute(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, res.State)
	u, err := url.Parse(res.AuthURL)
	require.NoError(t, err)
	assert.Equal(t, res.State, u.Query().Get("state"))
	return res.State
}

func TestOAuthLogin_CreatesVerifiedUser(t *testing.T) {
	f := newOAuthFixture()
	var gotVerifier string
	f.client.ExchangeCodeFunc = func(ctx context.Context, code, verifier string) (string, error) {
		gotVerifier = verifier
		return "access", nil
	}
	state := f.start(t)

	resp, err := f.callback.Execute(context.Background(), HandleOAuthCallbackCommand{Code: "c0de", State: state})
	require.NoError(t, err)

	assert.Equal(t, "verifier-"+state, gotVerifier)
	assert.True(t, resp.IsNewUser)
	assert.Equal(t, "grace", resp.User.Username)
	assert.True(t, resp.User.EmailVerified)

	stored, err := f.sessions.GetByTokenHash(context.Background(), auth.HashToken(resp.Token))
	require.NoError(t, err)
	assert.Equal(t, "google", stored.AuthMethod)
}

func TestOAuthLogin_StateIsSingleUse(t *testing.T) {
	f := newOAuthFixture()
	state := f.start(t)

	_, err := f.callback.Execute(context.Background(), HandleOAuthCallbackCommand{Code: "c0de", State: state})
	require.NoError(t, err)

	_, err = f.callback.Execute(context.Background(), HandleOAuthCallbackCommand{Code: "c0de", State: state})
	assert.True(t, apperrors.IsValidationError(err))
	assert.Equal(t, 1, f.sessions.count())
}

func TestOAuthLogin_UnknownState(t *testing.T) {
	f := newOAuthFixture()
	_, err := f.callback.Execute(context.Background(), HandleOAuthCallbackCommand{Code: "c0de", State: "forged"})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestOAuthLogin_ExistingAccountIsReused(t *testing.T) {
	f := newOAuthFixture()
	seeded := seedUser(f.users, "grace", "grace@example.com", "hopper1906")
	state := f.start(t)

	resp, err := f.callback.Execute(context.Background(), HandleOAuthCallbackCommand{Code: "c0de", State: state})
	require.NoError(t, err)
	assert.False(t, resp.IsNewUser)
	assert.Equal(t, seeded.ID(), resp.User.ID)
	assert.True(t, seeded.IsEmailVerified())
}

func TestOAuthLogin_UsernameCollisionGetsSuffix(t *testing.T) {
	f := newOAuthFixture()
	seedUser(f.users, "grace", "someone-else@example.com", "password123")
	state := f.start(t)

	resp, err := f.callback.Execute(context.Background(), HandleOAuthCallbackCommand{Code: "c0de", State: state})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.User.Username, "grace-"))
	assert.Len(t, resp.User.Username, len("grace-")+6)
}

func TestOAuthLogin_UnverifiedEmailRejected(t *testing.T) {
	f := newOAuthFixture()
	f.client.GetUserInfoFunc = func(ctx context.Context, accessToken string) (*auth.OAuthUserInfo, error) {
		return &auth.OAuthUserInfo{Email: "grace@example.com", EmailVerified: false}, nil
	}
	state := f.start(t)

	_, err := f.callback.Execute(context.Background(), HandleOAuthCallbackCommand{Code: "c0de", State: state})
	assert.True(t, apperrors.IsForbiddenError(err))
	assert.Zero(t, f.sessions.count())
}

func TestOAuthLogin_ProviderFailures(t *testing.T) {
	f := newOAuthFixture()
	f.client.ExchangeCodeFunc = func(ctx context.Context, code, verifier string) (string, error) {
		return "", errors.New("invalid_grant")
	}
	state := f.start(t)

	_, err := f.callback.Execute(context.Background(), HandleOAuthCallbackCommand{Code: "c0de", State: state})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeOAuthError, apperrors.GetAuthError(err).Type)
}

func TestOAuthLogin_LockedAccountRejected(t *testing.T) {
	f := newOAuthFixture()
	seeded := seedUser(f.users, "grace", "grace@example.com", "hopper1906")
	seeded.Lock()
	state := f.start(t)

	_, err := f.callback.Execute(context.Background(), HandleOAuthCallbackCommand{Code: "c0de", State: state})
	require.Error(t, err)
	assert.Zero(t, f.sessions.count())
}

func TestOAuthLogin_Disabled(t *testing.T) {
	log := testLogger()
	initiate := NewInitiateOAuthLoginUseCase(nil, newTestStateStore(), log)
	_, err := initiate.Execute(context.Background())
	assert.True(t, apperrors.IsNotFoundError(err))

	callback := NewHandleOAuthCallbackUseCase(newMockUserRepository(), nil, newTestStateStore(), nil, log)
	_, err = callback.Execute(context.Background(), HandleOAuthCallbackCommand{Code: "c", State: "s"})
	assert.True(t, apperrors.IsNotFoundError(err))
}
