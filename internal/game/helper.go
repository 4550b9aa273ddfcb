package game

import "strconv"

const startLabel = "Go to game start"

// markForStep returns the mark placed by the move leaving the given step.
// X always moves on even steps.
func markForStep(step int) PlayerMark {
	if step%2 == 0 {
		return PlayerX
	}
	return PlayerO
}

func moveLabel(step int) string {
	if step == 0 {
		return startLabel
	}
	return "Go to move #" + strconv.Itoa(step)
}

// Rows converts the board to a slice of rows, which is how renderers draw it.
func (b Board) Rows() [][]PlayerMark {
	rows := make([][]PlayerMark, RowSize)
	for r := range RowSize {
		rows[r] = make([]PlayerMark, RowSize)
		copy(rows[r], b[r*RowSize:(r+1)*RowSize])
	}
	return rows
}
