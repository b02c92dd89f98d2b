package game

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iamasit07/puissance4/internal/domain"
	"github.com/iamasit07/puissance4/internal/service/bot"
	"github.com/iamasit07/puissance4/internal/service/history"
)

const (
	ReasonConnectFour = "connect_four"
	ReasonDraw        = "draw"
	ReasonSurrender   = "surrender"
)

const recordTimeout = 10 * time.Second

// HistoryRecorder is satisfied by *history.Service.
type HistoryRecorder interface {
	Record(ctx context.Context, entry history.Entry) error
}

type Session struct {
	ID         string
	Mode       Mode
	Player1    string
	Player2    string
	Difficulty bot.Difficulty // empty in pvp games
	CreatedAt  time.Time
	FinishedAt time.Time
	Reason     string

	game    *domain.Game
	mu      sync.Mutex
	manager *Manager
}

// Snapshot is a copy of a session's state that is safe to hand out.
type Snapshot struct {
	GameID      string            `json:"gameId"`
	Mode        Mode              `json:"mode"`
	Player1     string            `json:"player1"`
	Player2     string            `json:"player2"`
	Difficulty  bot.Difficulty    `json:"difficulty,omitempty"`
	Board       [][]int           `json:"board"`
	CurrentTurn domain.PlayerID   `json:"currentTurn"`
	Status      domain.GameStatus `json:"status"`
	WinnerSeat  domain.PlayerID   `json:"winnerSeat"`
	Winner      string            `json:"winner,omitempty"`
	Reason      string            `json:"reason,omitempty"`
	MoveCount   int               `json:"moveCount"`
	Moves       []int             `json:"moves"`
	CreatedAt   time.Time         `json:"createdAt"`
	FinishedAt  *time.Time        `json:"finishedAt,omitempty"`
}

func (s *Session) VsComputer() bool {
	return s.Mode == ModeAI
}

func (s *Session) Name(seat domain.PlayerID) string {
	if seat == domain.Player1 {
		return s.Player1
	}
	return s.Player2
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		GameID:      s.ID,
		Mode:        s.Mode,
		Player1:     s.Player1,
		Player2:     s.Player2,
		Difficulty:  s.Difficulty,
		Board:       s.game.Board.Ints(),
		CurrentTurn: s.game.CurrentPlayer,
		Status:      s.game.Status,
		WinnerSeat:  s.game.Winner,
		Reason:      s.Reason,
		MoveCount:   s.game.MoveCount,
		Moves:       append([]int{}, s.game.Moves...),
		CreatedAt:   s.CreatedAt,
	}
	if s.game.Winner != domain.Empty {
		snap.Winner = s.Name(s.game.Winner)
	}
	if !s.FinishedAt.IsZero() {
		finished := s.FinishedAt
		snap.FinishedAt = &finished
	}
	return snap
}

func (s *Session) checkSeat(seat domain.PlayerID) error {
	if seat != domain.Player1 && seat != domain.Player2 {
		return ErrSeatNotFound
	}
	if s.VsComputer() && seat == domain.Player2 {
		return ErrComputerSeat
	}
	return nil
}

// HandleMove plays a human move. When the computer is next it is scheduled
// after the manager's bot delay.
func (s *Session) HandleMove(seat domain.PlayerID, column int) (int, error) {
	s.mu.Lock()

	if err := s.checkSeat(seat); err != nil {
		s.mu.Unlock()
		return -1, err
	}

	row, err := s.playLocked(seat, column)
	if err != nil {
		s.mu.Unlock()
		return -1, err
	}
	botTurn := s.VsComputer() && !s.game.IsFinished() && s.game.CurrentPlayer == domain.Player2
	s.mu.Unlock()

	// the bot takes the lock itself, so schedule only once it is released
	if botTurn {
		s.manager.schedule(s.manager.botDelay, func() {
			if err := s.HandleBotMove(); err != nil {
				log.Error().Err(err).Str("component", "bot").Str("gameId", s.ID).Msg("bot move failed")
			}
		})
	}
	return row, nil
}

// HandleBotMove lets the computer play if it is its turn, and does nothing
// otherwise.
func (s *Session) HandleBotMove() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Verify it's actually bot's turn (race condition check)
	if !s.VsComputer() || s.game.IsFinished() || s.game.CurrentPlayer != domain.Player2 {
		return nil
	}

	engine := bot.NewEngine(domain.Player2)
	result, err := engine.BestMove(s.game.Board, s.Difficulty.Depth())
	if err != nil {
		return err
	}

	_, err = s.playLocked(domain.Player2, result.Column)
	return err
}

// playLocked applies the move and emits the resulting events.
func (s *Session) playLocked(seat domain.PlayerID, column int) (int, error) {
	row, err := s.game.MakeMove(seat, column)
	if err != nil {
		return -1, err
	}

	s.manager.notifier.Broadcast(s.ID, domain.ServerMessage{
		Type:     "move_made",
		GameID:   s.ID,
		Column:   &column,
		Row:      &row,
		Player:   int(seat),
		Board:    s.game.Board.Ints(),
		NextTurn: int(s.game.CurrentPlayer),
	})

	switch s.game.Status {
	case domain.StatusWon:
		s.finishLocked(ReasonConnectFour)
	case domain.StatusDraw:
		s.finishLocked(ReasonDraw)
	}
	return row, nil
}

// Abandon ends the game in favour of the other seat.
func (s *Session) Abandon(seat domain.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkSeat(seat); err != nil {
		return err
	}
	if err := s.game.Resign(seat); err != nil {
		return err
	}

	log.Info().
		Str("component", "session").
		Str("gameId", s.ID).
		Str("player", s.Name(seat)).
		Msg("game abandoned")

	s.finishLocked(ReasonSurrender)
	return nil
}

func (s *Session) finishLocked(reason string) {
	s.FinishedAt = time.Now()
	s.Reason = reason

	winner := "draw"
	if s.game.Winner != domain.Empty {
		winner = s.Name(s.game.Winner)
	}

	log.Info().
		Str("component", "session").
		Str("gameId", s.ID).
		Str("winner", winner).
		Str("reason", reason).
		Int("moves", s.game.MoveCount).
		Msg("game over")

	s.manager.notifier.Broadcast(s.ID, domain.ServerMessage{
		Type:   "game_over",
		GameID: s.ID,
		Winner: winner,
		Reason: reason,
		Board:  s.game.Board.Ints(),
	})

	recorder := s.manager.recorder
	if recorder == nil {
		return
	}
	entry := history.Entry{
		GameID:     s.ID,
		Player1:    s.Player1,
		Player2:    s.Player2,
		WinnerSeat: s.game.Winner,
		VsComputer: s.VsComputer(),
		Difficulty: s.Difficulty,
		Reason:     reason,
		Moves:      s.game.MoveCount,
		Board:      s.game.Board.Ints(),
		FinishedAt: s.FinishedAt,
	}
	// saved in the background so game_over is never held up by storage
	s.manager.schedule(0, func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := recorder.Record(ctx, entry); err != nil {
			log.Error().Err(err).Str("component", "history").Str("gameId", entry.GameID).Msg("could not record game")
		}
	})
}
