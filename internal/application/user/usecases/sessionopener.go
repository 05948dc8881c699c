package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orris-inc/deskhub/internal/domain/user"
	"github.com/orris-inc/deskhub/internal/infrastructure/auth"
	"github.com/orris-inc/deskhub/internal/infrastructure/metrics"
	"github.com/orris-inc/deskhub/internal/shared/biztime"
	"github.com/orris-inc/deskhub/internal/shared/logger"
)

const maxTokenAttempts = 3

// OpenedSession is a freshly persisted session together with the only copy of its token.
type OpenedSession struct {
	Session   *user.Session
	Token     string
	ExpiresAt time.Time
}

// SessionOpener issues a token and stores the session bound to it. Login, registration
// and OAuth sign-in all go through it, so each success creates exactly one session.
type SessionOpener struct {
	sessionRepo user.SessionRepository
	tokens      TokenIssuer
	ttl         time.Duration
	metrics     *metrics.Recorder
	clock       biztime.Clock
	logger      logger.Interface
}

func NewSessionOpener(
	sessionRepo user.SessionRepository,
	tokens TokenIssuer,
	ttl time.Duration,
	recorder *metrics.Recorder,
	logger logger.Interface,
) *SessionOpener {
	return &SessionOpener{
		sessionRepo: sessionRepo,
		tokens:      tokens,
		ttl:         ttl,
		metrics:     recorder,
		logger:      logger,
	}
}

// WithClock returns a copy of the opener that reads time from clock.
func (o *SessionOpener) WithClock(clock biztime.Clock) *SessionOpener {
	cp := *o
	cp.clock = clock
	return &cp
}

// Open issues a token for userID and persists its session. The unique index on the
// token hash is the only uniqueness check; a collision is retried with a new token.
func (o *SessionOpener) Open(ctx context.Context, userID uint, meta user.DeviceMetadata, authMethod string) (*OpenedSession, error) {
	for attempt := 1; ; attempt++ {
		token, expiresAt, err := o.tokens.Issue(userID, o.ttl)
		if err != nil {
			o.logger.Errorw("failed to issue token", "error", err, "user_id", userID)
			return nil, fmt.Errorf("failed to issue token: %w", err)
		}

		session, err := user.NewSession(userID, auth.HashToken(token), meta, authMethod, expiresAt, o.clock.Now())
		if err != nil {
			return nil, err
		}

		err = o.sessionRepo.Create(ctx, session)
		if err == nil {
			o.metrics.SessionCreated(authMethod)
			return &OpenedSession{Session: session, Token: token, ExpiresAt: expiresAt}, nil
		}

		if !errors.Is(err, user.ErrDuplicateSessionToken) || attempt >= maxTokenAttempts {
			o.logger.Errorw("failed to create session", "error", err, "user_id", userID, "attempt", attempt)
			return nil, fmt.Errorf("failed to create session: %w", err)
		}
		o.logger.Warnw("session token collided, issuing a new one", "user_id", userID, "attempt", attempt)
	}
}
