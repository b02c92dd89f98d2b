package cleanup

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper is implemented by *game.Manager.
type Sweeper interface {
	CleanupOldSessions(finishedTTL, staleTTL time.Duration) int
}

type Worker struct {
	Sessions    Sweeper
	Interval    time.Duration
	FinishedTTL time.Duration
	StaleTTL    time.Duration
}

func NewWorker(s Sweeper, interval, finishedTTL, staleTTL time.Duration) *Worker {
	return &Worker{Sessions: s, Interval: interval, FinishedTTL: finishedTTL, StaleTTL: staleTTL}
}

// Run sweeps once immediately, then every Interval until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	log.Info().Str("component", "cleanup").Dur("interval", w.Interval).Msg("background worker started")

	w.runCleanup()

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("component", "cleanup").Msg("background worker stopped")
			return nil
		case <-ticker.C:
			w.runCleanup()
		}
	}
}

func (w *Worker) runCleanup() {
	removed := w.Sessions.CleanupOldSessions(w.FinishedTTL, w.StaleTTL)
	log.Debug().Str("component", "cleanup").Int("removed", removed).Msg("cleanup pass done")
}
