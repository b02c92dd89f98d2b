package domain

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Board is a value: assigning it copies every cell, so a hypothetical move
// never touches the board it was derived from.
// here board[0] represents the top row (0 -> top and 5 -> bottom)
type Board [Rows][Columns]PlayerID

func NewBoard() Board {
	return Board{}
}

func mustColumn(column int) {
	if column < 0 || column >= Columns {
		panic(fmt.Sprintf("domain: column %d out of range [0,%d)", column, Columns))
	}
}

// PlayableRow returns the lowest empty row of column, scanning from the
// bottom. ok is false when the column is full. An out-of-range column panics.
func (b Board) PlayableRow(column int) (row int, ok bool) {
	mustColumn(column)
	for row := Rows - 1; row >= 0; row-- {
		if b[row][column] == Empty {
			return row, true
		}
	}
	return -1, false
}

// ApplyMove drops player's piece into column and returns the resulting board.
// A full column is a no-op: the board comes back unchanged with ok == false.
func (b Board) ApplyMove(column int, player PlayerID) (Board, bool) {
	row, ok := b.PlayableRow(column)
	if !ok {
		return b, false
	}
	b[row][column] = player
	return b, true
}

// IsValidMove is the range-checked form of playability, for untrusted input.
func (b Board) IsValidMove(column int) bool {
	if column < 0 || column >= Columns {
		return false
	}
	return b[0][column] == Empty
}

// PlayableColumns lists the non-full columns from left to right.
func (b Board) PlayableColumns() []int {
	return lo.Filter(lo.Range(Columns), func(c int, _ int) bool {
		return b[0][c] == Empty
	})
}

func (b Board) IsFull() bool {
	for c := 0; c < Columns; c++ {
		if b[0][c] == Empty {
			return false
		}
	}
	return true
}

func (b Board) PieceCount() int {
	count := 0
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			if b[r][c] != Empty {
				count++
			}
		}
	}
	return count
}

// Mirror flips the board left to right.
func (b Board) Mirror() Board {
	var m Board
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			m[r][Columns-1-c] = b[r][c]
		}
	}
	return m
}

// String renders the board top row first, '.' for empty, 'X' for Player1
// and 'O' for Player2. ParseBoard reads the same format back.
func (b Board) String() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			sb.WriteByte(cellRune(b[r][c]))
		}
		if r < Rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func cellRune(p PlayerID) byte {
	switch p {
	case Player1:
		return 'X'
	case Player2:
		return 'O'
	}
	return '.'
}

// ParseBoard builds a board from Rows lines of Columns characters each.
// '.', 'X'/'1' and 'O'/'2' are accepted. The gravity invariant is checked.
func ParseBoard(lines ...string) (Board, error) {
	var b Board
	if len(lines) != Rows {
		return b, fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidBoard, Rows, len(lines))
	}
	for r, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) != Columns {
			return b, fmt.Errorf("%w: row %d has %d cells", ErrInvalidBoard, r, len(line))
		}
		for c := 0; c < Columns; c++ {
			switch line[c] {
			case '.', '0':
				b[r][c] = Empty
			case 'X', 'x', '1':
				b[r][c] = Player1
			case 'O', 'o', '2':
				b[r][c] = Player2
			default:
				return b, fmt.Errorf("%w: unexpected cell %q at row %d", ErrInvalidBoard, line[c], r)
			}
		}
	}
	if err := b.validateGravity(); err != nil {
		return Board{}, err
	}
	return b, nil
}

// Ints converts the board for JSON and database storage.
func (b Board) Ints() [][]int {
	out := make([][]int, Rows)
	for r := range out {
		out[r] = make([]int, Columns)
		for c := range out[r] {
			out[r][c] = int(b[r][c])
		}
	}
	return out
}

// BoardFromInts is the inverse of Ints and rejects malformed grids.
func BoardFromInts(grid [][]int) (Board, error) {
	var b Board
	if len(grid) != Rows {
		return b, fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidBoard, Rows, len(grid))
	}
	for r := range grid {
		if len(grid[r]) != Columns {
			return b, fmt.Errorf("%w: row %d has %d cells", ErrInvalidBoard, r, len(grid[r]))
		}
		for c, v := range grid[r] {
			p := PlayerID(v)
			if p != Empty && p != Player1 && p != Player2 {
				return b, fmt.Errorf("%w: cell value %d at (%d,%d)", ErrInvalidBoard, v, r, c)
			}
			b[r][c] = p
		}
	}
	if err := b.validateGravity(); err != nil {
		return Board{}, err
	}
	return b, nil
}

func (b Board) validateGravity() error {
	for c := 0; c < Columns; c++ {
		for r := 0; r < Rows-1; r++ {
			if b[r][c] != Empty && b[r+1][c] == Empty {
				return fmt.Errorf("%w: floating piece at (%d,%d)", ErrInvalidBoard, r, c)
			}
		}
	}
	return nil
}
