package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"habita/auth/internal/session"
)

// Scheduler runs the periodic session index sweep. Redis TTLs expire
// the session values themselves; the sweep only prunes dangling
// per-user index members left behind.
type Scheduler struct {
	cron     *cron.Cron
	sessions *session.RedisStore
	log      zerolog.Logger
}

func NewScheduler(sessions *session.RedisStore, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:     c,
		sessions: sessions,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if s.sessions == nil {
		return nil
	}

	if _, err := s.cron.AddFunc("0 0 */1 * * *", s.sweepSessions); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() context.CancelFunc {
	_, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	go func() {
		s.cron.Stop()
		cancel()
	}()
	return cancel
}

func (s *Scheduler) sweepSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pruned, err := s.sessions.Sweep(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("session sweep failed")
		return
	}
	if pruned > 0 {
		s.log.Info().Int("pruned", pruned).Msg("session index swept")
	}
}
