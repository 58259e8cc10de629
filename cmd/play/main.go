package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lk16/reversi/internal/config"
	"github.com/lk16/reversi/internal/game"
	"github.com/lk16/reversi/internal/models"
	"github.com/lk16/reversi/internal/othello"
)

const eventBufferSize = 64

type options struct {
	black      string
	white      string
	seed       int64
	start      string
	sideToMove string
}

func main() {
	config.SetLogLevel()
	cfg := config.LoadPlayConfig()

	var opts options
	flag.StringVar(&opts.black, "black", game.PlayerHuman, "black player: human, ai or first")
	flag.StringVar(&opts.white, "white", game.PlayerHeuristic, "white player: human, ai or first")
	flag.Int64Var(&opts.seed, "seed", time.Now().UnixNano(), "seed for automatic players")
	flag.StringVar(&opts.start, "start", othello.NewBoardStart().String(), "the start position")
	flag.StringVar(&opts.sideToMove, "side", "black", "the side to move on the start position")
	flag.Parse()

	if err := run(os.Stdin, os.Stdout, cfg, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer, cfg *config.PlayConfig, opts options) error {
	start, err := othello.NewBoardFromString(opts.start)
	if err != nil {
		return fmt.Errorf("invalid start position: %w", err)
	}

	side, err := othello.ParseSide(opts.sideToMove)
	if err != nil {
		return err
	}

	black, err := game.NewPlayer(opts.black, opts.seed)
	if err != nil {
		return err
	}

	white, err := game.NewPlayer(opts.white, opts.seed+1)
	if err != nil {
		return err
	}

	// Events are handled on this goroutine, the observer only forwards them.
	events := make(chan game.Event, eventBufferSize)

	controller := game.NewController(game.Options{
		Start:      &start,
		SideToMove: side,
		Black:      black,
		White:      white,
		MoveDelay:  cfg.MoveDelay,
		PassDelay:  cfg.PassDelay,
		Observer: game.EventFunc(func(event game.Event) {
			events <- event
		}),
	})
	defer controller.Close()

	lines := make(chan string)
	go readLines(in, lines)

	for {
		select {
		case event := <-events:
			if done := printEvent(out, controller, event); done {
				return nil
			}
		case line, ok := <-lines:
			if !ok || line == "quit" {
				return nil
			}
			handleInput(out, controller, line)
		}
	}
}

func readLines(in io.Reader, lines chan<- string) {
	defer close(lines)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		lines <- strings.TrimSpace(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		slog.Error("Failed to read input", "error", err)
	}
}

// printEvent writes an event to out and returns whether the game is over.
func printEvent(out io.Writer, controller *game.Controller, event game.Event) bool {
	switch event.Kind {
	case game.BoardChanged:
		fmt.Fprintln(out)
		for _, line := range event.Board.ASCIIArtLines(nil) {
			fmt.Fprintln(out, line)
		}
	case game.Passed:
		fmt.Fprintf(out, "%s has no moves and passes\n", event.Side)
	case game.TurnChanged:
		if controller.IsAutomatic(event.Side) {
			fmt.Fprintf(out, "%s is thinking...\n", event.Side)
		} else {
			printPrompt(out, controller.State())
		}
	case game.Over:
		fmt.Fprintf(out, "game over, black: %d white: %d, winner: %s\n",
			event.Score.Black, event.Score.White, models.WinnerName(event.Score))
		return true
	}

	return false
}

func printPrompt(out io.Writer, state game.State) {
	fields := make([]string, 0, len(state.LegalMoves))
	for _, move := range state.LegalMoves {
		fields = append(fields, move.Field())
	}

	fmt.Fprintf(out, "%s to move (%s): ", state.SideToMove, strings.Join(fields, " "))
}

func handleInput(out io.Writer, controller *game.Controller, line string) {
	if line == "" {
		return
	}

	pos, err := othello.ParseField(line)
	if err != nil {
		fmt.Fprintf(out, "%v\n", err)
		printPrompt(out, controller.State())
		return
	}

	if !controller.SubmitMove(pos) {
		fmt.Fprintf(out, "%s is not a legal move\n", pos.Field())
		printPrompt(out, controller.State())
	}
}
