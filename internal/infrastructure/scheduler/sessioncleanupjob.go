package scheduler

import (
	"context"

	"github.com/orris-inc/deskhub/internal/domain/user"
	"github.com/orris-inc/deskhub/internal/infrastructure/metrics"
	"github.com/orris-inc/deskhub/internal/shared/biztime"
)

// SessionCleanupJob deletes sessions whose bearer token has already expired.
// Such sessions can no longer authenticate, so removing them does not change what
// any client observes except the length of the session list.
type SessionCleanupJob struct {
	sessions user.SessionRepository
	metrics  *metrics.Recorder
	clock    biztime.Clock
}

func NewSessionCleanupJob(sessions user.SessionRepository, recorder *metrics.Recorder) *SessionCleanupJob {
	return &SessionCleanupJob{sessions: sessions, metrics: recorder}
}

func (j *SessionCleanupJob) WithClock(clock biztime.Clock) *SessionCleanupJob {
	j.clock = clock
	return j
}

func (j *SessionCleanupJob) Execute(ctx context.Context) (int, error) {
	n, err := j.sessions.DeleteExpired(ctx, j.clock.Now())
	if err != nil {
		return 0, err
	}
	j.metrics.SessionsRevoked(metrics.RevokeExpired, n)
	return int(n), nil
}
