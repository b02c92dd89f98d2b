package domain

type PlayerID int

const (
	Empty   PlayerID = 0
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// Opponent returns the other player. Empty has no opponent.
func Opponent(p PlayerID) PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return Empty
}

const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
)

// to represent the game status
type GameStatus string

const (
	StatusActive GameStatus = "active"
	StatusWon    GameStatus = "won"
	StatusDraw   GameStatus = "draw"
)

// Outcome is derived from a board by scanning it, it is never stored.
type Outcome int

const (
	Ongoing Outcome = iota
	WinPlayerOne
	WinPlayerTwo
	Draw
)

func (o Outcome) String() string {
	switch o {
	case WinPlayerOne:
		return "win_player_one"
	case WinPlayerTwo:
		return "win_player_two"
	case Draw:
		return "draw"
	default:
		return "ongoing"
	}
}

// Winner returns the winning player, or Empty when nobody has four in a row.
func (o Outcome) Winner() PlayerID {
	switch o {
	case WinPlayerOne:
		return Player1
	case WinPlayerTwo:
		return Player2
	}
	return Empty
}

// Decisive reports whether a player has won.
func (o Outcome) Decisive() bool {
	return o == WinPlayerOne || o == WinPlayerTwo
}

func outcomeFor(p PlayerID) Outcome {
	if p == Player1 {
		return WinPlayerOne
	}
	return WinPlayerTwo
}

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidMove  Error = "invalid move"
	ErrColumnFull   Error = "column is full"
	ErrNotYourTurn  Error = "not your turn"
	ErrGameFinished Error = "game already finished"
	ErrInvalidBoard Error = "invalid board"
)
