package bot

import (
	"errors"
	"math"
	"time"

	"github.com/iamasit07/puissance4/internal/domain"
	"github.com/rs/zerolog/log"
)

// Scores are flat: a win is a win whatever its depth.
const (
	ScoreWin     = 1
	ScoreLoss    = -1
	ScoreNeutral = 0

	NoColumn = -1
)

var (
	ErrNoLegalMoves = errors.New("no legal moves")
	ErrGameOver     = errors.New("game is already decided")
	ErrInvalidDepth = errors.New("search depth must be at least 1")
)

// Result is the value of a searched node and, below terminal nodes, the
// column that produced it.
type Result struct {
	Score  int
	Column int
}

func (r Result) HasColumn() bool {
	return r.Column != NoColumn
}

// Engine searches on behalf of the computer player. It counts visited nodes,
// so a single Engine must not be shared between goroutines.
type Engine struct {
	computer domain.PlayerID
	opponent domain.PlayerID
	pruning  bool
	nodes    int
}

type Option func(*Engine)

// WithoutPruning turns the search into plain minimax.
func WithoutPruning() Option {
	return func(e *Engine) {
		e.pruning = false
	}
}

func NewEngine(computer domain.PlayerID, opts ...Option) *Engine {
	e := &Engine{
		computer: computer,
		opponent: domain.Opponent(computer),
		pruning:  true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Computer() domain.PlayerID {
	return e.computer
}

// Nodes returns how many positions were visited since the last BestMove.
func (e *Engine) Nodes() int {
	return e.nodes
}

// Search implements minimax with alpha-beta pruning. Columns are tried left
// to right and the best column only changes on strict improvement, so ties go
// to the leftmost column.
func (e *Engine) Search(board domain.Board, depth int, maximizing bool, alpha, beta int) Result {
	e.nodes++

	// Terminal conditions
	if outcome := domain.EvaluateOutcome(board); outcome.Decisive() {
		if outcome.Winner() == e.computer {
			return Result{Score: ScoreWin, Column: NoColumn}
		}
		return Result{Score: ScoreLoss, Column: NoColumn}
	}
	if depth <= 0 {
		return Result{Score: ScoreNeutral, Column: NoColumn}
	}

	mover := e.opponent
	bestScore := math.MaxInt
	if maximizing {
		mover = e.computer
		bestScore = math.MinInt
	}
	bestColumn := NoColumn

	for column := 0; column < domain.Columns; column++ {
		child, ok := board.ApplyMove(column, mover)
		if !ok {
			continue
		}

		score := e.Search(child, depth-1, !maximizing, alpha, beta).Score

		if maximizing {
			if score > bestScore {
				bestScore = score
				bestColumn = column
			}
			alpha = max(alpha, bestScore)
		} else {
			if score < bestScore {
				bestScore = score
				bestColumn = column
			}
			beta = min(beta, bestScore)
		}

		if e.pruning && beta <= alpha {
			break
		}
	}

	// full board: nothing was expanded
	if bestColumn == NoColumn {
		return Result{Score: ScoreNeutral, Column: NoColumn}
	}
	return Result{Score: bestScore, Column: bestColumn}
}

// BestMove is the root call made once per computer turn.
func (e *Engine) BestMove(board domain.Board, depth int) (Result, error) {
	if depth < 1 {
		return Result{Column: NoColumn}, ErrInvalidDepth
	}
	if domain.EvaluateOutcome(board).Decisive() {
		return Result{Column: NoColumn}, ErrGameOver
	}
	if board.IsFull() {
		return Result{Column: NoColumn}, ErrNoLegalMoves
	}

	e.nodes = 0
	start := time.Now()
	result := e.Search(board, depth, true, math.MinInt, math.MaxInt)

	log.Debug().
		Str("component", "bot").
		Int("player", int(e.computer)).
		Int("depth", depth).
		Int("column", result.Column).
		Int("score", result.Score).
		Int("nodes", e.nodes).
		Bool("pruning", e.pruning).
		Dur("elapsed", time.Since(start)).
		Msg("best move")

	return result, nil
}
