package domain

// Game is the authoritative state of one match. The board inside is only ever
// replaced with the result of ApplyMove.
type Game struct {
	Board         Board
	CurrentPlayer PlayerID
	Status        GameStatus
	Winner        PlayerID
	MoveCount     int
	Moves         []int
}

func NewGame() *Game {
	return &Game{
		Board:         NewBoard(),
		CurrentPlayer: Player1,
		Status:        StatusActive,
		Winner:        Empty,
	}
}

// MakeMove plays column for player and returns the row the piece landed on.
func (g *Game) MakeMove(player PlayerID, column int) (int, error) {
	if g.Status != StatusActive {
		return -1, ErrGameFinished
	}

	if player != g.CurrentPlayer {
		return -1, ErrNotYourTurn
	}

	if column < 0 || column >= Columns {
		return -1, ErrInvalidMove
	}

	row, ok := g.Board.PlayableRow(column)
	if !ok {
		return -1, ErrColumnFull
	}
	g.Board, _ = g.Board.ApplyMove(column, player)
	g.MoveCount++
	g.Moves = append(g.Moves, column)

	switch outcome := EvaluateOutcome(g.Board); outcome {
	case WinPlayerOne, WinPlayerTwo:
		g.Status = StatusWon
		g.Winner = outcome.Winner()
		return row, nil
	case Draw:
		g.Status = StatusDraw
		return row, nil
	}

	g.CurrentPlayer = Opponent(g.CurrentPlayer)
	return row, nil
}

// Resign ends an active game with the opponent of player as the winner.
func (g *Game) Resign(player PlayerID) error {
	if g.Status != StatusActive {
		return ErrGameFinished
	}
	g.Status = StatusWon
	g.Winner = Opponent(player)
	return nil
}

func (g *Game) IsFinished() bool {
	return g.Status == StatusWon || g.Status == StatusDraw
}
