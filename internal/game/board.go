package game

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

const (
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"
)

// Board boundaries
const (
	BoardSize = 9
	RowSize   = 3
	CellMin   = 0
	CellMax   = BoardSize - 1
)

// WinCombos lists the winning lines in the order they are checked:
// rows, then columns, then the two diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is a 3x3 grid stored row-major. It is a value type: copies never
// share cells, so a Board held by a Snapshot cannot be changed through another.
type Board [BoardSize]PlayerMark

// With returns a copy of the board with cell set to mark.
func (b Board) With(cell int, mark PlayerMark) Board {
	b[cell] = mark
	return b
}

// IsFull reports whether no empty cell is left.
func (b Board) IsFull() bool {
	for _, cell := range b {
		if cell == None {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no mark has been placed yet.
func (b Board) IsEmpty() bool {
	for _, cell := range b {
		if cell != None {
			return false
		}
	}
	return true
}

// CheckWinner returns the mark occupying the first complete line in
// WinCombos order, or None when no line is complete. A full board without a
// line also yields None.
func CheckWinner(b Board) PlayerMark {
	for _, combo := range WinCombos {
		a := b[combo[0]]
		if a != None && a == b[combo[1]] && a == b[combo[2]] {
			return a
		}
	}
	return None
}

func validCell(cell int) bool {
	return cell >= CellMin && cell <= CellMax
}
