package game

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/iamasit07/puissance4/internal/domain"
	"github.com/iamasit07/puissance4/internal/service/bot"
	"github.com/iamasit07/puissance4/pkg/uid"
)

type Mode string

const (
	ModePvP Mode = "pvp"
	ModeAI  Mode = "ai"
)

// ComputerName is the name the computer plays under.
const ComputerName = "IA"

const DefaultBotDelay = 500 * time.Millisecond

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSeatNotFound    = errors.New("seat not found in game")
	ErrComputerSeat    = errors.New("this seat is played by the computer")
	ErrUnknownMode     = errors.New("unknown game mode")
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModePvP, ModeAI:
		return m, nil
	}
	return "", ErrUnknownMode
}

// Notifier delivers game events to whoever follows a game.
type Notifier interface {
	Broadcast(gameID string, msg domain.ServerMessage)
}

// Scheduler runs fn after delay. The default runs it on its own goroutine.
type Scheduler func(delay time.Duration, fn func())

// Immediately is a Scheduler that runs fn inline, ignoring the delay.
func Immediately(_ time.Duration, fn func()) {
	fn()
}

func afterFunc(delay time.Duration, fn func()) {
	time.AfterFunc(delay, fn)
}

type nopNotifier struct{}

func (nopNotifier) Broadcast(string, domain.ServerMessage) {}

// Manager manages active game sessions
type Manager struct {
	sessions map[string]*Session // gameID → Session
	mu       sync.RWMutex

	notifier Notifier
	recorder HistoryRecorder
	botDelay time.Duration
	schedule Scheduler
}

type Option func(*Manager)

func WithBotDelay(d time.Duration) Option {
	return func(m *Manager) {
		m.botDelay = d
	}
}

// WithScheduler replaces how bot moves and history writes are deferred.
func WithScheduler(s Scheduler) Option {
	return func(m *Manager) {
		m.schedule = s
	}
}

// NewManager builds a manager. notifier and recorder may be nil.
func NewManager(notifier Notifier, recorder HistoryRecorder, opts ...Option) *Manager {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	m := &Manager{
		sessions: make(map[string]*Session),
		notifier: notifier,
		recorder: recorder,
		botDelay: DefaultBotDelay,
		schedule: afterFunc,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateSession starts a new game. In ModeAI player2 is ignored and the
// computer takes the second seat.
func (m *Manager) CreateSession(mode Mode, player1, player2 string, difficulty bot.Difficulty) (*Session, error) {
	if mode != ModePvP && mode != ModeAI {
		return nil, ErrUnknownMode
	}

	player1 = lo.CoalesceOrEmpty(strings.TrimSpace(player1), "Joueur 1")
	player2 = lo.CoalesceOrEmpty(strings.TrimSpace(player2), "Joueur 2")
	if mode == ModeAI {
		player2 = ComputerName
		difficulty = bot.ParseDifficulty(string(difficulty))
	} else {
		difficulty = ""
	}

	s := &Session{
		ID:         uid.GameID(),
		Mode:       mode,
		Player1:    player1,
		Player2:    player2,
		Difficulty: difficulty,
		CreatedAt:  time.Now(),
		game:       domain.NewGame(),
		manager:    m,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	log.Info().
		Str("component", "session").
		Str("gameId", s.ID).
		Str("mode", string(mode)).
		Str("player1", player1).
		Str("player2", player2).
		Str("difficulty", string(difficulty)).
		Msg("session created")

	m.notifier.Broadcast(s.ID, domain.ServerMessage{
		Type:        "game_start",
		GameID:      s.ID,
		Player1:     player1,
		Player2:     player2,
		CurrentTurn: int(domain.Player1),
		Board:       domain.NewBoard().Ints(),
	})
	return s, nil
}

func (m *Manager) Get(gameID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[gameID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// ActiveGames lists unfinished games, oldest first.
func (m *Manager) ActiveGames() []Snapshot {
	m.mu.RLock()
	sessions := lo.Values(m.sessions)
	m.mu.RUnlock()

	snaps := lo.FilterMap(sessions, func(s *Session, _ int) (Snapshot, bool) {
		snap := s.Snapshot()
		return snap, snap.Status == domain.StatusActive
	})
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].CreatedAt.Before(snaps[j].CreatedAt)
	})
	return snaps
}

func (m *Manager) Remove(gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[gameID]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, gameID)
	log.Debug().Str("component", "session").Str("gameId", gameID).Msg("session removed")
	return nil
}

// CleanupOldSessions drops finished games older than finishedTTL and games
// still running after staleTTL. It returns how many were removed.
func (m *Manager) CleanupOldSessions(finishedTTL, staleTTL time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	now := time.Now()

	for gameID, s := range m.sessions {
		s.mu.Lock()
		expired := (s.game.IsFinished() && now.Sub(s.FinishedAt) > finishedTTL) ||
			(!s.game.IsFinished() && now.Sub(s.CreatedAt) > staleTTL)
		s.mu.Unlock()

		if expired {
			delete(m.sessions, gameID)
			count++
		}
	}

	if count > 0 {
		log.Info().Str("component", "session").Int("removed", count).Msg("memory cleanup")
	}
	return count
}
