package apperror

import "errors"

var (
	ErrGameFinished = errors.New("game is already finished")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrInvalidCell  = errors.New("invalid cell index")

	ErrRoundNotFound = errors.New("round not found")

	ErrSettingsTooSmall  = errors.New("grid size and win streak must be at least 3")
	ErrSettingsTooLarge  = errors.New("grid size and win streak must be at most 10")
	ErrStreakExceedsGrid = errors.New("win streak must not exceed grid size")
)
