package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/puissance4/internal/domain"
	"github.com/iamasit07/puissance4/internal/service/bot"
)

type fakeRepo struct {
	entries []Entry
	fail    error
	lists   int
}

func (f *fakeRepo) SaveEntry(_ context.Context, e Entry) (int64, error) {
	if f.fail != nil {
		return 0, f.fail
	}
	e.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, e)
	return e.ID, nil
}

func (f *fakeRepo) ListEntries(_ context.Context, limit int) ([]Entry, error) {
	f.lists++
	out := []Entry{}
	for i := len(f.entries) - 1; i >= 0; i-- {
		out = append(out, f.entries[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

var errMiss = errors.New("miss")

type fakeCache struct {
	values map[string]string
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.values[key] = value.(string)
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	v, ok := c.values[key]
	if !ok {
		return "", errMiss
	}
	return v, nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func TestEntryLine(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{
			name:  "pvp winner first",
			entry: Entry{Player1: "Alice", Player2: "Bob", WinnerSeat: domain.Player2},
			want:  "Bob contre Alice",
		},
		{
			name:  "human beats computer",
			entry: Entry{Player1: "Alice", Player2: "IA", WinnerSeat: domain.Player1, VsComputer: true, Difficulty: bot.DifficultyEasy},
			want:  "Alice (Joueur) a gagné contre IA - Difficulté: Facile",
		},
		{
			name:  "computer wins",
			entry: Entry{Player1: "Alice", Player2: "IA", WinnerSeat: domain.Player2, VsComputer: true, Difficulty: bot.DifficultyExpert},
			want:  "L'IA a gagné contre Alice - Difficulté: Hardcore",
		},
		{
			name:  "draw",
			entry: Entry{Player1: "Alice", Player2: "Bob"},
			want:  "Alice contre Bob - Match nul",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Line())
		})
	}
}

func TestRecordAndLog(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	svc := NewService(repo, nil)

	require.NoError(t, svc.Record(ctx, Entry{Player1: "Alice", Player2: "Bob", WinnerSeat: domain.Player1}))
	require.NoError(t, svc.Record(ctx, Entry{Player1: "Carol", Player2: "Dan", WinnerSeat: domain.Player2}))

	assert.False(t, repo.entries[0].FinishedAt.IsZero())

	text, err := svc.Log(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice contre Bob\nDan contre Carol\n", text)

	latest, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "Carol", latest[0].Player1)
}

func TestLogUsesCacheUntilNextRecord(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	cache := &fakeCache{values: map[string]string{}}
	svc := NewService(repo, cache)

	require.NoError(t, svc.Record(ctx, Entry{Player1: "Alice", Player2: "Bob", WinnerSeat: domain.Player1}))

	_, err := svc.Log(ctx)
	require.NoError(t, err)
	_, err = svc.Log(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lists)

	require.NoError(t, svc.Record(ctx, Entry{Player1: "Alice", Player2: "Bob"}))
	text, err := svc.Log(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.lists)
	assert.Contains(t, text, "Match nul")
}

func TestRecordPropagatesRepositoryErrors(t *testing.T) {
	boom := errors.New("disk full")
	svc := NewService(&fakeRepo{fail: boom}, nil)
	err := svc.Record(context.Background(), Entry{Player1: "A", Player2: "B"})
	assert.ErrorIs(t, err, boom)
}
