package engine

// BoardSize is the number of rows and columns on the board.
const BoardSize = 8

// TotalCells is the number of cells on a full board.
const TotalCells = BoardSize * BoardSize

// Cell markers as they appear on the wire.
const (
	CellEmpty = " "
	CellWhite = "w"
	CellBlack = "b"
)

// Color identifies one of the two seats.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Opposite returns the other color.
func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

// Marker returns the cell marker written for this color.
func (c Color) Marker() string {
	if c == White {
		return CellWhite
	}
	return CellBlack
}

// Recognized reports whether c is one of the two playable colors.
func (c Color) Recognized() bool {
	return c == White || c == Black
}

// Board is the 8x8 grid of cell markers. The zero value is not a valid
// board; use NewBoard.
type Board [BoardSize][BoardSize]string

// NewBoard returns a board with every cell empty.
func NewBoard() Board {
	var b Board
	for row := range b {
		for col := range b[row] {
			b[row][col] = CellEmpty
		}
	}
	return b
}

// InBounds reports whether (row, col) addresses a cell on the board.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// Set writes the marker at (row, col). The caller is responsible for bounds.
func (b *Board) Set(row, col int, marker string) {
	b[row][col] = marker
}

// Occupied returns the number of non-empty cells.
func (b *Board) Occupied() int {
	count := 0
	for row := range b {
		for col := range b[row] {
			if b[row][col] != CellEmpty {
				count++
			}
		}
	}
	return count
}

// Full reports whether every cell is occupied.
func (b *Board) Full() bool {
	return b.Occupied() == TotalCells
}
