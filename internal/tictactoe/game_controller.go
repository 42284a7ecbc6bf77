package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/entity"
)

// directions scanned from the last placed mark: horizontal, vertical and both diagonals.
var directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// MakeTurn - places the current player's mark at (row, col). When the move is
// not allowed the round is left untouched and the reason is returned.
func MakeTurn(round *entity.Round, row, col int) error {
	if round.IsFinished() {
		return apperror.ErrGameFinished
	}

	if err := validateMove(round, row, col); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	player := round.Turn

	round.Board.Set(row, col, player)
	round.Moves++
	round.LastMove = &entity.Move{Row: row, Col: col}

	updateRoundStatus(round, player, row, col)

	return nil
}

// Reset - clears the board and starts the round over with X to move.
func Reset(round *entity.Round) {
	round.Board.Clear()
	round.Turn = entity.PlayerX
	round.Status = entity.StatusOngoing
	round.Winner = entity.EmptyCell
	round.Moves = 0
	round.LastMove = nil
}

// validateMove - checks if the move is valid.
func validateMove(round *entity.Round, row, col int) error {
	if !round.Board.InBounds(row, col) {
		return fmt.Errorf("%w: row %d, col %d", apperror.ErrInvalidCell, row, col)
	}

	if round.Board.Cell(row, col) != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// updateRoundStatus - the win check runs before the draw check, so a last
// move that completes a line on a full board is a win.
func updateRoundStatus(round *entity.Round, player entity.Mark, row, col int) {
	switch {
	case IsWinningMove(round.Board, row, col, round.Settings.WinStreak):
		round.Winner = player
		round.Status = entity.StatusFinished
	case round.Board.IsFull():
		round.Winner = entity.PlayerTie
		round.Status = entity.StatusFinished
	default:
		round.Turn = player.Other()
	}
}

// IsWinningMove reports whether the mark at (row, col) is part of a line of at
// least streak equal marks. Only the four lines through the cell are scanned.
func IsWinningMove(board *entity.Board, row, col, streak int) bool {
	mark := board.Cell(row, col)
	if mark == entity.EmptyCell {
		return false
	}

	for _, d := range directions {
		total := 1 +
			countConsecutive(board, mark, row, col, d[0], d[1], streak-1) +
			countConsecutive(board, mark, row, col, -d[0], -d[1], streak-1)

		if total >= streak {
			return true
		}
	}

	return false
}

// countConsecutive walks from (row, col) in direction (dr, dc), not counting
// the start cell, and stops at the edge, a different mark, or after limit cells.
func countConsecutive(board *entity.Board, mark entity.Mark, row, col, dr, dc, limit int) int {
	count := 0

	r, c := row+dr, col+dc
	for count < limit && board.InBounds(r, c) && board.Cell(r, c) == mark {
		count++
		r += dr
		c += dc
	}

	return count
}
