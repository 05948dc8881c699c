// Package session is the desktop client's signed-in state. A Session is an ordinary value:
// construct one per account, pass it where it is needed.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/orris-inc/deskhub/internal/client/api"
	"github.com/orris-inc/deskhub/internal/client/credstore"
)

// TokenStore persists the credentials between runs. *credstore.Store implements it.
type TokenStore interface {
	Save(c *credstore.Credentials) error
	Load() (*credstore.Credentials, error)
	Clear() error
}

// API is the subset of *api.Client a Session uses.
type API interface {
	BaseURL() string
	Register(ctx context.Context, req api.RegisterRequest) api.Result[api.Auth]
	Login(ctx context.Context, email, password string) api.Result[api.Auth]
	Me(ctx context.Context, token string) api.Result[api.User]
	Logout(ctx context.Context, token string) api.Result[api.SignOut]
	Sessions(ctx context.Context, token string) api.Result[api.SessionList]
	RevokeSession(ctx context.Context, token string, id uint) api.Result[api.Empty]
	RevokeAllSessions(ctx context.Context, token string) api.Result[api.RevokeAll]
}

func notSignedIn() *api.Error {
	return &api.Error{Type: api.ErrorTypeUnauthorized, Message: "not signed in"}
}

type Session struct {
	api   API
	store TokenStore
	now   func() time.Time

	mu    sync.RWMutex
	creds *credstore.Credentials
}

func New(client API, store TokenStore) *Session {
	return &Session{api: client, store: store, now: time.Now}
}

// WithClock overrides the clock used to discard expired tokens.
func (s *Session) WithClock(now func() time.Time) *Session {
	s.now = now
	return s
}

// Restore loads saved credentials. It reports false when there is nothing usable: no file,
// a file for another server, an expired token, or a file that cannot be decrypted (which is
// then removed).
func (s *Session) Restore() (bool, error) {
	c, err := s.store.Load()
	switch {
	case errors.Is(err, credstore.ErrNotFound):
		return false, nil
	case errors.Is(err, credstore.ErrCorrupt):
		return false, s.store.Clear()
	case err != nil:
		return false, err
	}

	if c.ServerURL != "" && c.ServerURL != s.api.BaseURL() {
		return false, nil
	}
	if c.Expired(s.now()) {
		return false, s.store.Clear()
	}

	s.mu.Lock()
	s.creds = c
	s.mu.Unlock()
	return true, nil
}

func (s *Session) SignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds != nil
}

// Account is the e-mail or username the session was opened with.
func (s *Session) Account() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return ""
	}
	return s.creds.Account
}

func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return time.Time{}
	}
	return s.creds.ExpiresAt
}

func (s *Session) Login(ctx context.Context, email, password string) api.Result[api.Auth] {
	return s.open(email, s.api.Login(ctx, email, password))
}

func (s *Session) Register(ctx context.Context, req api.RegisterRequest) api.Result[api.Auth] {
	return s.open(req.Email, s.api.Register(ctx, req))
}

func (s *Session) open(account string, res api.Result[api.Auth]) api.Result[api.Auth] {
	auth, ok := res.Data()
	if !ok {
		return res
	}

	c := &credstore.Credentials{
		Token:     auth.Token,
		ExpiresAt: auth.ExpiresAt,
		Account:   account,
		ServerURL: s.api.BaseURL(),
	}
	if err := s.store.Save(c); err != nil {
		return api.Fail[api.Auth](&api.Error{Type: "storage_error", Message: fmt.Sprintf("signed in but failed to store token: %v", err)})
	}

	s.mu.Lock()
	s.creds = c
	s.mu.Unlock()
	return res
}

// SignOut revokes the current session on the server and forgets the token. The local token
// is dropped even when the server cannot be reached.
func (s *Session) SignOut(ctx context.Context) error {
	token := s.token()
	if token == "" {
		return s.forget()
	}

	res := s.api.Logout(ctx, token)
	if err := s.forget(); err != nil {
		return err
	}
	if e := res.Err(); e != nil && !e.Unauthenticated() {
		return e
	}
	return nil
}

func (s *Session) Me(ctx context.Context) api.Result[api.User] {
	return authed(s, func(token string) api.Result[api.User] { return s.api.Me(ctx, token) })
}

func (s *Session) Sessions(ctx context.Context) api.Result[api.SessionList] {
	return authed(s, func(token string) api.Result[api.SessionList] { return s.api.Sessions(ctx, token) })
}

func (s *Session) Revoke(ctx context.Context, id uint) api.Result[api.Empty] {
	return authed(s, func(token string) api.Result[api.Empty] { return s.api.RevokeSession(ctx, token, id) })
}

func (s *Session) RevokeAll(ctx context.Context) api.Result[api.RevokeAll] {
	return authed(s, func(token string) api.Result[api.RevokeAll] { return s.api.RevokeAllSessions(ctx, token) })
}

// authed runs fn with the current token and forgets the token when the server rejects it.
func authed[T any](s *Session, fn func(token string) api.Result[T]) api.Result[T] {
	token := s.token()
	if token == "" {
		return api.Fail[T](notSignedIn())
	}

	res := fn(token)
	if e := res.Err(); e != nil && e.Unauthenticated() {
		if err := s.forget(); err != nil {
			// still unauthenticated for the caller; the leftover file is reported alongside
			rejected := *e
			rejected.Details = fmt.Sprintf("failed to remove stored token: %v", err)
			return api.Fail[T](&rejected)
		}
	}
	return res
}

func (s *Session) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return ""
	}
	return s.creds.Token
}

func (s *Session) forget() error {
	s.mu.Lock()
	s.creds = nil
	s.mu.Unlock()
	return s.store.Clear()
}
