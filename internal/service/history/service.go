package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const (
	logCacheKey = "history:log"
	logCacheTTL = 10 * time.Minute
)

type Repository interface {
	SaveEntry(ctx context.Context, entry Entry) (int64, error)
	// ListEntries returns the newest entries first. limit <= 0 means all.
	ListEntries(ctx context.Context, limit int) ([]Entry, error)
}

type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Service keeps the history of finished games.
type Service struct {
	repo  Repository
	cache CacheRepository // Optional, can be nil
}

func NewService(repo Repository, cache CacheRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

func (s *Service) Record(ctx context.Context, entry Entry) error {
	if entry.FinishedAt.IsZero() {
		entry.FinishedAt = time.Now()
	}

	id, err := s.repo.SaveEntry(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, logCacheKey); err != nil {
			log.Warn().Err(err).Str("component", "history").Msg("could not invalidate cached log")
		}
	}

	log.Info().
		Str("component", "history").
		Int64("id", id).
		Str("gameId", entry.GameID).
		Str("line", entry.Line()).
		Msg("game recorded")
	return nil
}

func (s *Service) List(ctx context.Context, limit int) ([]Entry, error) {
	entries, err := s.repo.ListEntries(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return entries, nil
}

// Log returns the plain-text history, one line per game, oldest first.
func (s *Service) Log(ctx context.Context) (string, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, logCacheKey); err == nil {
			return cached, nil
		}
	}

	entries, err := s.repo.ListEntries(ctx, 0)
	if err != nil {
		return "", fmt.Errorf("failed to build history log: %w", err)
	}

	// entries come newest first, the log reads like it was appended to
	lines := lo.Map(entries, func(_ Entry, i int) string {
		return entries[len(entries)-1-i].Line() + "\n"
	})
	text := strings.Join(lines, "")

	if s.cache != nil {
		if err := s.cache.Set(ctx, logCacheKey, text, logCacheTTL); err != nil {
			log.Warn().Err(err).Str("component", "history").Msg("could not cache log")
		}
	}
	return text, nil
}
