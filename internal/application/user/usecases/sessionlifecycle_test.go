package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/deskhub/internal/domain/user"
	"github.com/orris-inc/deskhub/internal/infrastructure/auth"
	apperrors "github.com/orris-inc/deskhub/internal/shared/errors"
)

type lifecycleFixture struct {
	users     *mockUserRepository
	sessions  *mockSessionRepository
	login     *LoginWithPasswordUseCase
	list      *ListSessionsUseCase
	revoke    *RevokeSessionUseCase
	revokeAll *RevokeAllSessionsUseCase
	signOut   *SignOutUseCase
	me        *GetCurrentUserUseCase
}

func newLifecycleFixture() *lifecycleFixture {
	users := newMockUserRepository()
	sessions := newMockSessionRepository()
	opener := newTestOpener(sessions, &stubTokenIssuer{})
	log := testLogger()
	return &lifecycleFixture{
		users:     users,
		sessions:  sessions,
		login:     NewLoginWithPasswordUseCase(users, &stubHasher{}, opener, user.DefaultLockoutPolicy, log).WithClock(func() time.Time { return testNow }),
		list:      NewListSessionsUseCase(sessions, log),
		revoke:    NewRevokeSessionUseCase(sessions, nil, log),
		revokeAll: NewRevokeAllSessionsUseCase(sessions, nil, log),
		signOut:   NewSignOutUseCase(sessions, nil, log),
		me:        NewGetCurrentUserUseCase(users, log),
	}
}

// loginAs signs in and returns the caller the middleware would resolve from the token.
func (f *lifecycleFixture) loginAs(t *testing.T, email, password string) Caller {
	t.Helper()
	resp, err := f.login.Execute(context.Background(), LoginWithPasswordCommand{Email: email, Password: password})
	require.NoError(t, err)
	s, err := f.sessions.GetByTokenHash(context.Background(), auth.HashToken(resp.Token))
	require.NoError(t, err)
	return Caller{UserID: s.UserID, SessionID: s.ID}
}

func TestListSessions_SingleLoginIsCurrent(t *testing.T) {
	f := newLifecycleFixture()
	seedUser(f.users, "alice", "alice@example.com", "wonderland1")
	caller := f.loginAs(t, "alice@example.com", "wonderland1")

	resp, err := f.list.Execute(context.Background(), caller)
	require.NoError(t, err)
	require.Len(t, resp.Sessions, 1)
	assert.True(t, resp.Sessions[0].IsCurrentSession)
	assert.True(t, resp.Sessions[0].IsActive)
}

func TestListSessions_TwoLoginsExactlyOneCurrent(t *testing.T) {
	f := newLifecycleFixture()
	seedUser(f.users, "alice", "alice@example.com", "wonderland1")
	first := f.loginAs(t, "alice@example.com", "wonderland1")
	second := f.loginAs(t, "alice@example.com", "wonderland1")

	for _, caller := range []Caller{first, second} {
		resp, err := f.list.Execute(context.Background(), caller)
		require.NoError(t, err)
		require.Len(t, resp.Sessions, 2)

		current := 0
		for _, s := range resp.Sessions {
			assert.True(t, s.IsActive)
			if s.IsCurrentSession {
				current++
				assert.Equal(t, caller.SessionID, s.ID)
			}
		}
		assert.Equal(t, 1, current)
	}
}

func TestListSessions_OnlyCallersSessions(t *testing.T) {
	f := newLifecycleFixture()
	seedUser(f.users, "alice", "alice@example.com", "wonderland1")
	seedUser(f.users, "bob", "bob@example.com", "builder123")
	alice := f.loginAs(t, "alice@example.com", "wonderland1")
	f.loginAs(t, "bob@example.com", "builder123")

	resp, err := f.list.Execute(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, resp.Sessions, 1)
}

func TestRevokeSession(t *testing.T) {
	t.Run("revokes another own session", func(t *testing.T) {
		f := newLifecycleFixture()
		seedUser(f.users, "alice", "alice@example.com", "wonderland1")
		first := f.loginAs(t, "alice@example.com", "wonderland1")
		second := f.loginAs(t, "alice@example.com", "wonderland1")

		err := f.revoke.Execute(context.Background(), RevokeSessionCommand{Caller: second, SessionID: first.SessionID})
		require.NoError(t, err)

		_, err = f.sessions.GetByID(context.Background(), first.SessionID)
		assert.ErrorIs(t, err, user.ErrSessionNotFound)
		assert.Equal(t, 1, f.sessions.count())
	})

	t.Run("current session is a validation error", func(t *testing.T) {
		f := newLifecycleFixture()
		seedUser(f.users, "alice", "alice@example.com", "wonderland1")
		caller := f.loginAs(t, "alice@example.com", "wonderland1")

		err := f.revoke.Execute(context.Background(), RevokeSessionCommand{Caller: caller, SessionID: caller.SessionID})
		assert.True(t, apperrors.IsValidationError(err))
		assert.Equal(t, 1, f.sessions.count())
	})

	t.Run("session of another user is forbidden and untouched", func(t *testing.T) {
		f := newLifecycleFixture()
		seedUser(f.users, "alice", "alice@example.com", "wonderland1")
		seedUser(f.users, "bob", "bob@example.com", "builder123")
		alice := f.loginAs(t, "alice@example.com", "wonderland1")
		bob := f.loginAs(t, "bob@example.com", "builder123")

		err := f.revoke.Execute(context.Background(), RevokeSessionCommand{Caller: alice, SessionID: bob.SessionID})
		assert.True(t, apperrors.IsForbiddenError(err))

		_, err = f.sessions.GetByID(context.Background(), bob.SessionID)
		assert.NoError(t, err)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		f := newLifecycleFixture()
		seedUser(f.users, "alice", "alice@example.com", "wonderland1")
		caller := f.loginAs(t, "alice@example.com", "wonderland1")

		err := f.revoke.Execute(context.Background(), RevokeSessionCommand{Caller: caller, SessionID: 999})
		assert.True(t, apperrors.IsNotFoundError(err))
	})

	t.Run("zero id is a validation error", func(t *testing.T) {
		f := newLifecycleFixture()
		err := f.revoke.Execute(context.Background(), RevokeSessionCommand{Caller: Caller{UserID: 1, SessionID: 1}})
		assert.True(t, apperrors.IsValidationError(err))
	})

	t.Run("storage failure is not reported as not found", func(t *testing.T) {
		f := newLifecycleFixture()
		f.sessions.GetByIDFunc = func(ctx context.Context, id uint) (*user.Session, error) {
			return nil, errors.New("timeout")
		}
		err := f.revoke.Execute(context.Background(), RevokeSessionCommand{Caller: Caller{UserID: 1, SessionID: 1}, SessionID: 2})
		require.Error(t, err)
		assert.False(t, apperrors.IsNotFoundError(err))
	})
}

func TestRevokeAllSessions_KeepsCurrent(t *testing.T) {
	for _, others := range []int{0, 1, 4} {
		f := newLifecycleFixture()
		seedUser(f.users, "alice", "alice@example.com", "wonderland1")
		var current Caller
		for i := 0; i <= others; i++ {
			c := f.loginAs(t, "alice@example.com", "wonderland1")
			if i == others/2 {
				current = c
			}
		}

		resp, err := f.revokeAll.Execute(context.Background(), current)
		require.NoError(t, err)
		assert.Equal(t, int64(others), resp.Revoked)

		list, err := f.list.Execute(context.Background(), current)
		require.NoError(t, err)
		require.Len(t, list.Sessions, 1)
		assert.Equal(t, current.SessionID, list.Sessions[0].ID)
		assert.True(t, list.Sessions[0].IsCurrentSession)
	}
}

func TestRevokeAllSessions_ThreeLoginsFromSecond(t *testing.T) {
	f := newLifecycleFixture()
	seedUser(f.users, "alice", "alice@example.com", "wonderland1")
	seedUser(f.users, "bob", "bob@example.com", "builder123")
	f.loginAs(t, "alice@example.com", "wonderland1")
	second := f.loginAs(t, "alice@example.com", "wonderland1")
	f.loginAs(t, "alice@example.com", "wonderland1")
	f.loginAs(t, "bob@example.com", "builder123")

	resp, err := f.revokeAll.Execute(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Revoked)
	assert.Equal(t, 2, f.sessions.count())
}

func TestRevokeAllSessions_StorageFailure(t *testing.T) {
	f := newLifecycleFixture()
	f.sessions.DeleteAllExceptFunc = func(ctx context.Context, userID, keepID uint) (int64, error) {
		return 0, errors.New("deadlock")
	}
	_, err := f.revokeAll.Execute(context.Background(), Caller{UserID: 1, SessionID: 1})
	assert.Error(t, err)
}

func TestSignOut(t *testing.T) {
	f := newLifecycleFixture()
	seedUser(f.users, "alice", "alice@example.com", "wonderland1")
	caller := f.loginAs(t, "alice@example.com", "wonderland1")

	resp, err := f.signOut.Execute(context.Background(), caller)
	require.NoError(t, err)
	assert.True(t, resp.ClearToken)
	assert.Zero(t, f.sessions.count())

	// A second sign-out with the same id is a no-op.
	_, err = f.signOut.Execute(context.Background(), caller)
	assert.NoError(t, err)
}

func TestGetCurrentUser(t *testing.T) {
	f := newLifecycleFixture()
	seeded := seedUser(f.users, "alice", "alice@example.com", "wonderland1")

	resp, err := f.me.Execute(context.Background(), seeded.ID())
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "Europe/Berlin", resp.Timezone)

	_, err = f.me.Execute(context.Background(), 404)
	assert.True(t, apperrors.IsNotFoundError(err))
}
