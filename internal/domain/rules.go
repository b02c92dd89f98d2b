package domain

// Only the four forward directions are walked. The opposite ones are covered
// when the scan reaches the other end of the same line.
var scanDirections = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal \
	{1, -1}, // diagonal /
}

// EvaluateOutcome scans every occupied cell for four in a row.
func EvaluateOutcome(board Board) Outcome {
	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			player := board[row][col]
			if player == Empty {
				continue
			}
			for _, dir := range scanDirections {
				if checkDirection(board, row, col, dir[0], dir[1], player) {
					return outcomeFor(player)
				}
			}
		}
	}

	if board.IsFull() {
		return Draw
	}
	return Ongoing
}

func (b Board) Outcome() Outcome {
	return EvaluateOutcome(b)
}

// checkDirection walks ToWin-1 extra steps from (row, col).
func checkDirection(board Board, row, col, dRow, dCol int, player PlayerID) bool {
	r, c := row, col
	for step := 1; step < ToWin; step++ {
		r += dRow
		c += dCol
		if r < 0 || r >= Rows || c < 0 || c >= Columns || board[r][c] != player {
			return false
		}
	}
	return true
}
