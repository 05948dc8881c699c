package middleware

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/deskhub/internal/domain/user"
	"github.com/orris-inc/deskhub/internal/infrastructure/auth"
	"github.com/orris-inc/deskhub/internal/infrastructure/cache"
	"github.com/orris-inc/deskhub/internal/infrastructure/metrics"
	"github.com/orris-inc/deskhub/internal/shared/biztime"
	"github.com/orris-inc/deskhub/internal/shared/constants"
	"github.com/orris-inc/deskhub/internal/shared/errors"
	"github.com/orris-inc/deskhub/internal/shared/goroutine"
	"github.com/orris-inc/deskhub/internal/shared/logger"
	"github.com/orris-inc/deskhub/internal/shared/utils"
)

const defaultTouchTimeout = 5 * time.Second

// TokenVerifier decodes a bearer token. Every failure is reported as a single error.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddlewareConfig struct {
	// PublicPaths bypass authentication. An entry ending in "/" matches every path
	// below it; any other entry matches only itself.
	PublicPaths []string
	// RequireDeviceHeader rejects requests without X-System like a missing token.
	RequireDeviceHeader bool
	TouchTimeout        time.Duration
}

// AuthMiddleware resolves the bearer token to a live session and an active user.
// Every rejection looks the same to the client; the failing stage is only logged
// and counted.
type AuthMiddleware struct {
	verifier TokenVerifier
	sessions user.SessionRepository
	users    user.Repository
	throttle cache.ActivityThrottle
	metrics  *metrics.Recorder
	cfg      AuthMiddlewareConfig
	clock    biztime.Clock
	logger   logger.Interface
}

func NewAuthMiddleware(
	verifier TokenVerifier,
	sessions user.SessionRepository,
	users user.Repository,
	throttle cache.ActivityThrottle,
	recorder *metrics.Recorder,
	cfg AuthMiddlewareConfig,
	logger logger.Interface,
) *AuthMiddleware {
	if cfg.TouchTimeout <= 0 {
		cfg.TouchTimeout = defaultTouchTimeout
	}
	return &AuthMiddleware{
		verifier: verifier,
		sessions: sessions,
		users:    users,
		throttle: throttle,
		metrics:  recorder,
		cfg:      cfg,
		logger:   logger,
	}
}

func (m *AuthMiddleware) WithClock(clock biztime.Clock) *AuthMiddleware {
	m.clock = clock
	return m
}

// Authenticate is installed on the whole engine and lets allowlisted paths through.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "OPTIONS" || m.IsPublic(c.Request.URL.Path) {
			m.metrics.AuthOutcome(metrics.OutcomePublic)
			c.Next()
			return
		}
		m.authenticate(c)
	}
}

// RequireAuth authenticates unconditionally, for groups mounted outside the global gate.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return m.authenticate
}

// IsPublic reports whether path is on the allowlist.
func (m *AuthMiddleware) IsPublic(path string) bool {
	for _, p := range m.cfg.PublicPaths {
		if strings.HasSuffix(p, "/") {
			if strings.HasPrefix(path, p) || path == strings.TrimSuffix(p, "/") {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}

func (m *AuthMiddleware) authenticate(c *gin.Context) {
	if _, done := c.Get(constants.ContextKeySession); done {
		c.Next()
		return
	}

	token := bearerToken(c.GetHeader(constants.HeaderAuthorization))
	if token == "" {
		m.reject(c, metrics.OutcomeMissingToken, nil)
		return
	}
	if m.cfg.RequireDeviceHeader && strings.TrimSpace(c.GetHeader(constants.HeaderSystem)) == "" {
		m.reject(c, metrics.OutcomeMissingDevice, nil)
		return
	}

	claims, err := m.verifier.Verify(token)
	if err != nil {
		m.reject(c, metrics.OutcomeInvalidToken, err)
		return
	}
	subjectID, err := claims.UserID()
	if err != nil {
		m.reject(c, metrics.OutcomeInvalidToken, err)
		return
	}

	ctx := c.Request.Context()
	now := m.clock.Now()

	session, err := m.sessions.GetByTokenHash(ctx, auth.HashToken(token))
	if err != nil {
		if stderrors.Is(err, user.ErrSessionNotFound) {
			m.reject(c, metrics.OutcomeUnknownSession, err)
			return
		}
		m.fail(c, "failed to resolve session", err)
		return
	}
	if session.UserID != subjectID || !session.IsActive || session.IsExpired(now) {
		m.reject(c, metrics.OutcomeUnknownSession, nil)
		return
	}

	account, err := m.users.GetByID(ctx, session.UserID)
	if err != nil {
		m.fail(c, "failed to resolve user", err)
		return
	}
	if account == nil {
		m.reject(c, metrics.OutcomeUnknownUser, nil)
		return
	}
	if err := account.EnsureCanAuthenticate(now); err != nil {
		m.reject(c, metrics.OutcomeUserUnavailable, err)
		return
	}

	c.Set(constants.ContextKeyUserID, account.ID())
	c.Set(constants.ContextKeySessionID, session.ID)
	c.Set(constants.ContextKeyUser, account)
	c.Set(constants.ContextKeySession, session)

	m.touch(session.ID, now)
	m.metrics.AuthOutcome(metrics.OutcomeAuthenticated)

	c.Next()
}

// touch records activity off the request path. It never fails the request.
func (m *AuthMiddleware) touch(sessionID uint, at time.Time) {
	goroutine.SafeGo(m.logger, "session-touch", func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.TouchTimeout)
		defer cancel()

		if m.throttle != nil {
			ok, err := m.throttle.ShouldTouch(ctx, sessionID)
			if err != nil {
				m.logger.Warnw("activity throttle unavailable", "error", err, "session_id", sessionID)
			} else if !ok {
				return
			}
		}

		if err := m.sessions.TouchLastUsed(ctx, sessionID, at); err != nil {
			m.logger.Warnw("failed to update session last used time", "error", err, "session_id", sessionID)
		}
	})
}

func (m *AuthMiddleware) reject(c *gin.Context, outcome string, cause error) {
	m.metrics.AuthOutcome(outcome)

	args := []any{"stage", outcome, "path", c.Request.URL.Path, "client_ip", c.ClientIP()}
	if requestID := c.GetString(constants.ContextKeyRequestID); requestID != "" {
		args = append(args, "request_id", requestID)
	}
	if cause != nil {
		args = append(args, "error", cause)
	}
	m.logger.Debugw("request rejected by auth middleware", args...)

	c.Header("WWW-Authenticate", `Bearer realm="deskhub"`)
	utils.AbortWithError(c, errors.NewAuthenticationRequiredError())
}

func (m *AuthMiddleware) fail(c *gin.Context, msg string, err error) {
	m.metrics.AuthOutcome(metrics.OutcomeError)
	m.logger.Errorw(msg, "error", err, "path", c.Request.URL.Path)
	utils.AbortWithError(c, errors.NewInternalError(constants.ErrMsgInternalServerError))
}

func bearerToken(header string) string {
	if len(header) <= len(constants.BearerPrefix) || !strings.EqualFold(header[:len(constants.BearerPrefix)], constants.BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(constants.BearerPrefix):])
}
