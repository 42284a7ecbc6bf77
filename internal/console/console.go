// Package console plays rounds in a terminal: settings prompt, text board,
// and typed moves.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/entity"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/usecase"
)

const usage = "Commands: <row> <col> | reset | back | quit"

var errQuit = errors.New("quit")

type roundUseCase interface {
	StartRound(ctx context.Context, presenter usecase.Presenter, dimension, winStreak int) (*entity.Round, error)
	MakeTurn(ctx context.Context, presenter usecase.Presenter, id string, row, col int) (*entity.Round, error)
	ResetRound(ctx context.Context, id string) (*entity.Round, error)
	AbandonRound(ctx context.Context, id string) error
}

type Console struct {
	in     io.Reader
	out    io.Writer
	rounds roundUseCase

	lines chan string
	// set before lines is closed
	readErr error
}

func New(in io.Reader, out io.Writer, rounds roundUseCase) *Console {
	return &Console{
		in:     in,
		out:    out,
		rounds: rounds,
	}
}

func (that *Console) Notify(_ context.Context, reason entity.RejectionReason) {
	fmt.Fprintf(that.out, "! %s\n", reason.Message())
}

func (that *Console) Celebrate(_ context.Context, round *entity.Round) {
	fmt.Fprintf(that.out, "*** Player %s wins! ***\n", round.Winner)
}

// Run alternates between the settings prompt and a round until the user
// quits, the input ends or ctx is canceled. Cancellation is returned as
// ctx.Err().
func (that *Console) Run(ctx context.Context) error {
	fmt.Fprintln(that.out, "Ultimate Tic-Tac-Toe")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	that.lines = make(chan string)
	go that.scan(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		round, err := that.settingsStage(ctx)
		if err != nil {
			return ignoreQuit(err)
		}

		if err = that.roundStage(ctx, round); err != nil {
			return ignoreQuit(err)
		}
	}
}

func (that *Console) settingsStage(ctx context.Context) (*entity.Round, error) {
	for {
		dimension, err := that.readInt(ctx, "Grid size (n x n): ")
		if err != nil {
			return nil, err
		}

		winStreak, err := that.readInt(ctx, "Win streak (m): ")
		if err != nil {
			return nil, err
		}

		round, err := that.rounds.StartRound(ctx, that, dimension, winStreak)
		if err == nil {
			return round, nil
		}

		if _, ok := entity.RejectionReasonOf(err); !ok {
			return nil, fmt.Errorf("failed to start round: %w", err)
		}
	}
}

func (that *Console) roundStage(ctx context.Context, round *entity.Round) error {
	fmt.Fprintln(that.out, usage)

	for {
		if err := ctx.Err(); err != nil {
			_ = that.rounds.AbandonRound(context.WithoutCancel(ctx), round.ID)
			return err
		}

		that.render(round)

		line, err := that.readLine(ctx, "> ")
		if err != nil {
			_ = that.rounds.AbandonRound(context.WithoutCancel(ctx), round.ID)
			return err
		}

		switch line {
		case "reset":
			round, err = that.rounds.ResetRound(ctx, round.ID)
		case "back":
			return that.rounds.AbandonRound(ctx, round.ID)
		case "quit":
			_ = that.rounds.AbandonRound(ctx, round.ID)
			return errQuit
		default:
			row, col, ok := parseMove(line)
			if !ok {
				fmt.Fprintln(that.out, usage)
				continue
			}
			round, err = that.rounds.MakeTurn(ctx, that, round.ID, row, col)
		}

		if err != nil {
			return err
		}
	}
}

func (that *Console) render(round *entity.Round) {
	fmt.Fprint(that.out, round.Board.String())

	switch {
	case round.HasWinner():
		fmt.Fprintf(that.out, "Winner: %s\n", round.Winner)
	case round.IsDraw():
		fmt.Fprintln(that.out, "It's a Draw!")
	default:
		fmt.Fprintf(that.out, "It's your turn! %s\n", round.Turn)
	}
}

func (that *Console) readInt(ctx context.Context, prompt string) (int, error) {
	for {
		line, err := that.readLine(ctx, prompt)
		if err != nil {
			return 0, err
		}

		if line == "quit" {
			return 0, errQuit
		}

		n, err := strconv.Atoi(line)
		if err == nil {
			return n, nil
		}

		fmt.Fprintln(that.out, "Please enter a number.")
	}
}

// readLine waits for the next input line. It returns ctx.Err() as soon as ctx
// is canceled, even while the reader is blocked.
func (that *Console) readLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fmt.Fprint(that.out, prompt)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-that.lines:
		if !ok {
			if that.readErr != nil {
				return "", fmt.Errorf("failed to read input: %w", that.readErr)
			}
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

// scan feeds input lines to readLine until the input ends or ctx is canceled.
// A read blocked on the input outlives ctx, but never delivers another line.
func (that *Console) scan(ctx context.Context) {
	scanner := bufio.NewScanner(that.in)

	for scanner.Scan() {
		select {
		case that.lines <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}

	that.readErr = scanner.Err()
	close(that.lines)
}

func parseMove(line string) (int, int, bool) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	if len(fields) != 2 {
		return 0, 0, false
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, false
	}

	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, false
	}

	return row, col, true
}

func ignoreQuit(err error) error {
	if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
