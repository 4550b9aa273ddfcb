package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"ctchen222/tictactoe-history/internal/game"

	"github.com/muesli/termenv"
)

// Renderer draws a game on a terminal each time its state changes.
type Renderer struct {
	w   io.Writer
	out *termenv.Output
}

// NewRenderer returns a renderer writing to w. Colours are used only when w
// is a terminal that supports them, unless opts say otherwise.
func NewRenderer(w io.Writer, opts ...termenv.OutputOption) *Renderer {
	return &Renderer{w: w, out: termenv.NewOutput(w, opts...)}
}

// StateChanged implements game.Observer.
func (r *Renderer) StateChanged(view game.View) {
	r.Render(view)
}

// Render draws the board, the status line and the move list.
func (r *Renderer) Render(view game.View) {
	var b strings.Builder
	b.WriteString("\n")
	r.writeBoard(&b, view.Board)
	b.WriteString("\n")
	r.writeStatus(&b, view)
	b.WriteString("\n")
	r.writeMoves(&b, view)
	io.WriteString(r.w, b.String())
}

// RenderMoves draws only the move list.
func (r *Renderer) RenderMoves(view game.View) {
	var b strings.Builder
	r.writeMoves(&b, view)
	io.WriteString(r.w, b.String())
}

func (r *Renderer) writeBoard(b *strings.Builder, board game.Board) {
	for row, marks := range board.Rows() {
		if row > 0 {
			b.WriteString("---+---+---\n")
		}
		cells := make([]string, len(marks))
		for col, mark := range marks {
			cells[col] = " " + r.cell(row*game.RowSize+col, mark) + " "
		}
		b.WriteString(strings.Join(cells, "|"))
		b.WriteString("\n")
	}
}

// cell shows a placed mark in its colour and an empty cell as its faint index,
// which is what the player types to play there.
func (r *Renderer) cell(index int, mark game.PlayerMark) string {
	switch mark {
	case game.PlayerX:
		return r.out.String(string(mark)).Foreground(termenv.ANSIBrightBlue).Bold().String()
	case game.PlayerO:
		return r.out.String(string(mark)).Foreground(termenv.ANSIBrightRed).Bold().String()
	default:
		return r.out.String(strconv.Itoa(index)).Faint().String()
	}
}

func (r *Renderer) writeStatus(b *strings.Builder, view game.View) {
	if view.Winner != game.None {
		b.WriteString(r.out.String(view.Status).Bold().Underline().String())
	} else {
		b.WriteString(view.Status)
	}
	b.WriteString("\n")
	if view.Draw {
		b.WriteString(r.out.String("Draw: the board is full").Italic().String())
		b.WriteString("\n")
	}
}

func (r *Renderer) writeMoves(b *strings.Builder, view game.View) {
	for _, m := range view.Moves {
		if m.Step == view.CurrentStep {
			fmt.Fprintf(b, "> %2d. %s\n", m.Step, r.out.String(m.Label).Bold().String())
			continue
		}
		fmt.Fprintf(b, "  %2d. %s\n", m.Step, m.Label)
	}
}
