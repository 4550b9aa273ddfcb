package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"ctchen222/tictactoe-history/internal/game"

	"github.com/muesli/termenv"
)

const helpText = `Commands:
  0-8        place the next mark on that cell
  jump N     go back (or forward) to step N, also "j N"
  history    show the move list, also "h"
  new        start a new game
  help       show this text
  quit       leave, also "q"
`

var errUnknownCommand = errors.New("unknown command")

// Run plays a hot-seat game on a terminal, reading one command per line from
// in until quit, end of input or ctx is done. Rejected commands are reported
// and the loop continues.
func Run(ctx context.Context, in io.Reader, out io.Writer, opts ...termenv.OutputOption) error {
	r := NewRenderer(out, opts...)
	g := game.NewGame()
	unsubscribe := g.Subscribe(r)
	defer func() { unsubscribe() }()

	lines, readErr := readLines(ctx, in)

	io.WriteString(out, helpText)
	r.Render(g.View())

	for {
		fmt.Fprint(out, "> ")

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			return <-readErr
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)

		switch strings.ToLower(cmd) {
		case "":
			continue
		case "quit", "q":
			return nil
		case "help":
			io.WriteString(out, helpText)
		case "history", "h":
			r.RenderMoves(g.View())
		case "new":
			unsubscribe()
			g = game.NewGame()
			unsubscribe = g.Subscribe(r)
			r.Render(g.View())
		case "jump", "j":
			step, err := strconv.Atoi(arg)
			if err != nil {
				report(out, fmt.Errorf("jump needs a step number, got %q", arg))
				continue
			}
			report(out, g.JumpTo(step))
		default:
			cell, err := strconv.Atoi(cmd)
			if err != nil {
				report(out, fmt.Errorf("%w %q, type help", errUnknownCommand, cmd))
				continue
			}
			report(out, g.Move(cell))
		}
	}
}

func report(out io.Writer, err error) {
	if err == nil {
		return
	}
	slog.Debug("command rejected", "error", err)
	fmt.Fprintf(out, "error: %v\n", err)
}

// readLines feeds lines from in until EOF or ctx is done. The error channel
// receives the scanner's error once lines is closed.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		errc <- scanner.Err()
	}()

	return lines, errc
}
