package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/trademate/portal-server-go/internal/config"
)

// SessionPurger removes session rows that expired before cutoff.
type SessionPurger interface {
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupJob periodically deletes portal sessions that have been expired for
// longer than the retention window. Validity is still decided at lookup
// time; this only bounds table growth. It is off unless SESSION_PURGE_ENABLED
// is set.
type CleanupJob struct {
	sessions  SessionPurger
	retention time.Duration
	interval  time.Duration
	timeout   time.Duration
	now       func() time.Time
	done      chan struct{}
}

func NewCleanupJob(sessions SessionPurger, retention, interval, timeout time.Duration) *CleanupJob {
	return &CleanupJob{
		sessions:  sessions,
		retention: retention,
		interval:  interval,
		timeout:   timeout,
		now:       time.Now,
		done:      make(chan struct{}),
	}
}

// StartSessionPurge starts the cleanup job when enabled and returns its stop
// func. Disabled, no session row is ever deleted.
func StartSessionPurge(enabled bool, sessions SessionPurger) (stop func()) {
	if !enabled {
		log.Info().Msg("expired session purge disabled")
		return func() {}
	}
	job := NewCleanupJob(sessions, config.ExpiredSessionRetention, config.CleanupJobInterval, config.CleanupJobTimeout)
	job.Start()
	return job.Stop
}

func (j *CleanupJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Dur("retention", j.retention).Msg("cleanup job started")
}

func (j *CleanupJob) Stop() {
	close(j.done)
	log.Info().Msg("cleanup job stopped")
}

func (j *CleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.cleanup()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.cleanup()
		}
	}
}

func (j *CleanupJob) cleanup() int64 {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	count, err := j.sessions.DeleteExpiredBefore(ctx, j.now().Add(-j.retention))
	if err != nil {
		log.Error().Err(err).Msg("failed to cleanup portal sessions")
		return 0
	}
	if count > 0 {
		log.Info().Int64("count", count).Msg("cleaned up portal sessions")
	}
	return count
}
