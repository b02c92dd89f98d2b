package cleanup

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/puissance4/internal/domain"
	"github.com/iamasit07/puissance4/internal/service/game"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (c *countingSweeper) CleanupOldSessions(_, _ time.Duration) int {
	c.calls.Add(1)
	return 0
}

func TestRunSweepsUntilCancelled(t *testing.T) {
	s := &countingSweeper{}
	w := NewWorker(s, 5*time.Millisecond, time.Minute, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return s.calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestRunRemovesFinishedGames(t *testing.T) {
	m := game.NewManager(nil, nil, game.WithScheduler(game.Immediately))
	s, err := m.CreateSession(game.ModePvP, "A", "B", "")
	require.NoError(t, err)
	require.NoError(t, s.Abandon(domain.Player1))

	w := NewWorker(m, 5*time.Millisecond, 0, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)
	defer cancel()

	require.Eventually(t, func() bool {
		_, err := m.Get(s.ID)
		return err != nil
	}, time.Second, 5*time.Millisecond)
}
