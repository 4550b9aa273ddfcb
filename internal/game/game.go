package game

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrInvalidCell    = errors.New("invalid cell index")
	ErrCellOccupied   = errors.New("cell already occupied")
	ErrGameAlreadyWon = errors.New("game already won")
	ErrStepOutOfRange = errors.New("step out of range")
	errNilObserver    = errors.New("nil observer")
)

// Snapshot is a board together with the number of the move that produced it.
// Move 0 is the empty starting board.
type Snapshot struct {
	Board Board `json:"board"`
	Move  int   `json:"move"`
}

// MoveEntry is one selectable entry of the history list.
type MoveEntry struct {
	Step  int    `json:"step"`
	Label string `json:"label"`
}

// Game owns the history of a single match and the step currently shown.
//
// A Game is not safe for concurrent use. Callers that share one across
// goroutines must serialize access, as session.Session does.
type Game struct {
	history     []Snapshot
	currentStep int

	observers []subscription
	nextSubID int
}

type subscription struct {
	id       int
	observer Observer
}

// NewGame returns a game holding only the empty starting board.
func NewGame() *Game {
	return &Game{
		history: []Snapshot{{Board: Board{}, Move: 0}},
	}
}

// Move places the mark of the player to move on cell. When the current step
// is not the latest one, every snapshot after it is discarded first.
//
// A rejected move leaves the game untouched and notifies nobody.
func (g *Game) Move(cell int) error {
	if !validCell(cell) {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	board := g.CurrentBoard()
	if CheckWinner(board) != None {
		return ErrGameAlreadyWon
	}
	if board[cell] != None {
		return fmt.Errorf("%w: cell %d", ErrCellOccupied, cell)
	}

	// Clip forces append to allocate, so the discarded branch is never
	// overwritten in a backing array someone else may still hold.
	active := slices.Clip(g.history[:g.currentStep+1])
	next := Snapshot{
		Board: board.With(cell, markForStep(g.currentStep)),
		Move:  g.currentStep + 1,
	}

	g.history = append(active, next)
	g.currentStep = len(active)

	g.notify()
	return nil
}

// JumpTo makes step the current step. History is kept; only a later Move
// drops the snapshots after step.
func (g *Game) JumpTo(step int) error {
	if step < 0 || step >= len(g.history) {
		return fmt.Errorf("%w: step %d, history has %d entries", ErrStepOutOfRange, step, len(g.history))
	}

	g.currentStep = step

	g.notify()
	return nil
}

// CurrentStep returns the index of the snapshot being shown.
func (g *Game) CurrentStep() int {
	return g.currentStep
}

// Len returns the number of snapshots in history, including the start.
func (g *Game) Len() int {
	return len(g.history)
}

// History returns a copy of all snapshots in order.
func (g *Game) History() []Snapshot {
	return slices.Clone(g.history)
}

// CurrentBoard returns the board at the current step.
func (g *Game) CurrentBoard() Board {
	return g.history[g.currentStep].Board
}

// Winner returns the winner on the current board, or None.
func (g *Game) Winner() PlayerMark {
	return CheckWinner(g.CurrentBoard())
}

// NextPlayer returns whose turn it is at the current step.
func (g *Game) NextPlayer() PlayerMark {
	return markForStep(g.currentStep)
}

// IsDraw reports a full board with no winner.
func (g *Game) IsDraw() bool {
	board := g.CurrentBoard()
	return board.IsFull() && CheckWinner(board) == None
}

// StatusText returns the line shown above the board.
func (g *Game) StatusText() string {
	if winner := g.Winner(); winner != None {
		return "Winner: " + string(winner)
	}
	return "Next player: " + string(g.NextPlayer())
}

// MoveList returns one entry per snapshot in ascending history order.
func (g *Game) MoveList() []MoveEntry {
	moves := make([]MoveEntry, len(g.history))
	for i := range g.history {
		moves[i] = MoveEntry{Step: i, Label: moveLabel(i)}
	}
	return moves
}
