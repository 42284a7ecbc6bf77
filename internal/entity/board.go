package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Mark is the content of a single cell.
type Mark string

const (
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
	PlayerTie Mark = "-"

	EmptyCell Mark = ""
)

var ErrMalformedBoard = errors.New("malformed board")

// Other - returns the opposing player's mark.
func (m Mark) Other() Mark {
	if m == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// Board is a square grid stored row-major in a single slice, so no two
// rows can share backing storage.
type Board struct {
	size  int
	cells []Mark
}

func NewBoard(size int) *Board {
	return &Board{
		size:  size,
		cells: make([]Mark, size*size),
	}
}

func (that *Board) Size() int {
	return that.size
}

// InBounds reports whether (row, col) addresses a cell of the board.
func (that *Board) InBounds(row, col int) bool {
	return row >= 0 && row < that.size && col >= 0 && col < that.size
}

// Cell returns the mark at (row, col). Out of bounds positions read as empty.
func (that *Board) Cell(row, col int) Mark {
	if !that.InBounds(row, col) {
		return EmptyCell
	}
	return that.cells[row*that.size+col]
}

func (that *Board) Set(row, col int, mark Mark) {
	that.cells[row*that.size+col] = mark
}

func (that *Board) IsFull() bool {
	for _, cell := range that.cells {
		if cell == EmptyCell {
			return false
		}
	}
	return true
}

func (that *Board) Clear() {
	for i := range that.cells {
		that.cells[i] = EmptyCell
	}
}

func (that *Board) Clone() *Board {
	cells := make([]Mark, len(that.cells))
	copy(cells, that.cells)

	return &Board{size: that.size, cells: cells}
}

// Rows returns a freshly allocated row matrix.
func (that *Board) Rows() [][]Mark {
	rows := make([][]Mark, that.size)
	for r := range rows {
		row := make([]Mark, that.size)
		copy(row, that.cells[r*that.size:(r+1)*that.size])
		rows[r] = row
	}
	return rows
}

// String renders the board as text with row and column indexes.
func (that *Board) String() string {
	var sb strings.Builder

	width := len(strconv.Itoa(that.size - 1))
	pad := strings.Repeat(" ", width)

	sb.WriteString(pad)
	for c := 0; c < that.size; c++ {
		fmt.Fprintf(&sb, " %*d", width, c)
	}
	sb.WriteByte('\n')

	for r := 0; r < that.size; r++ {
		fmt.Fprintf(&sb, "%*d", width, r)
		for c := 0; c < that.size; c++ {
			cell := that.Cell(r, c)
			if cell == EmptyCell {
				cell = "."
			}
			fmt.Fprintf(&sb, " %*s", width, cell)
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

func (that *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(that.Rows())
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var rows [][]Mark
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("failed to unmarshal board: %w", err)
	}

	size := len(rows)
	if size == 0 {
		return fmt.Errorf("%w: no rows", ErrMalformedBoard)
	}

	cells := make([]Mark, 0, size*size)
	for i, row := range rows {
		if len(row) != size {
			return fmt.Errorf("%w: row %d has %d cells, expected %d", ErrMalformedBoard, i, len(row), size)
		}
		for _, cell := range row {
			switch cell {
			case EmptyCell, PlayerX, PlayerO:
			default:
				return fmt.Errorf("%w: unknown mark %q", ErrMalformedBoard, cell)
			}
		}
		cells = append(cells, row...)
	}

	that.size = size
	that.cells = cells

	return nil
}
