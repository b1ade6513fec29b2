package engine

import "fmt"

// PieceType identifies one of the seven tetrominoes.
type PieceType uint8

const (
	PieceI PieceType = iota
	PieceO
	PieceT
	PieceS
	PieceZ
	PieceJ
	PieceL
)

// PieceTypeCount is the number of distinct piece types, and the size of one bag.
const PieceTypeCount = 7

// AllPieceTypes lists every piece type in canonical order.
var AllPieceTypes = [PieceTypeCount]PieceType{PieceI, PieceO, PieceT, PieceS, PieceZ, PieceJ, PieceL}

var pieceNames = [PieceTypeCount]string{"I", "O", "T", "S", "Z", "J", "L"}

var pieceColors = [PieceTypeCount][3]uint8{
	{0x4F, 0xC3, 0xF7},
	{0xFF, 0xD5, 0x4F},
	{0xBA, 0x68, 0xC8},
	{0x81, 0xC7, 0x84},
	{0xFF, 0x8A, 0x65},
	{0x64, 0xB5, 0xF6},
	{0xFF, 0xB7, 0x4D},
}

func (t PieceType) String() string {
	if int(t) >= PieceTypeCount {
		return "?"
	}
	return pieceNames[t]
}

// Color returns the display color of the piece as a hex string.
func (t PieceType) Color() string {
	if int(t) >= PieceTypeCount {
		return ""
	}
	c := pieceColors[t]
	return fmt.Sprintf("#%02X%02X%02X", c[0], c[1], c[2])
}

// RGB returns the display color components of the piece.
func (t PieceType) RGB() (r, g, b uint8) {
	if int(t) >= PieceTypeCount {
		return 0, 0, 0
	}
	c := pieceColors[t]
	return c[0], c[1], c[2]
}

// Cell returns the grid value written when a piece of this type locks.
func (t PieceType) Cell() Cell {
	return Cell(t) + 1
}

// Cell is one grid square. The zero value is empty; any other value
// identifies the piece type that filled it.
type Cell uint8

// CellEmpty is an unoccupied grid square.
const CellEmpty Cell = 0

// Empty reports whether the cell holds nothing.
func (c Cell) Empty() bool {
	return c == CellEmpty
}

// PieceType returns the type that filled the cell, or false for an empty cell.
func (c Cell) PieceType() (PieceType, bool) {
	if c == CellEmpty || int(c) > PieceTypeCount {
		return 0, false
	}
	return PieceType(c - 1), true
}

// Color returns the hex color of the piece that filled the cell, or "" if empty.
func (c Cell) Color() string {
	t, ok := c.PieceType()
	if !ok {
		return ""
	}
	return t.Color()
}

// Shape is an occupancy matrix indexed [row][col]; non-zero entries are filled.
type Shape [][]uint8

// Width is the bounding-box width of the shape.
func (s Shape) Width() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Height is the bounding-box height of the shape.
func (s Shape) Height() int {
	return len(s)
}

// Cells returns the offsets of the filled entries relative to the bounding-box origin.
func (s Shape) Cells() []Point {
	cells := make([]Point, 0, 4)
	for row := range s {
		for col, v := range s[row] {
			if v != 0 {
				cells = append(cells, Point{X: col, Y: row})
			}
		}
	}
	return cells
}

// Point is a grid coordinate; Y grows downward.
type Point struct {
	X, Y int
}

var shapeTable = [PieceTypeCount][4]Shape{
	PieceI: {
		{{0, 0, 0, 0}, {1, 1, 1, 1}, {0, 0, 0, 0}, {0, 0, 0, 0}},
		{{0, 0, 1, 0}, {0, 0, 1, 0}, {0, 0, 1, 0}, {0, 0, 1, 0}},
		{{0, 0, 0, 0}, {0, 0, 0, 0}, {1, 1, 1, 1}, {0, 0, 0, 0}},
		{{0, 1, 0, 0}, {0, 1, 0, 0}, {0, 1, 0, 0}, {0, 1, 0, 0}},
	},
	PieceO: {
		{{1, 1}, {1, 1}},
		{{1, 1}, {1, 1}},
		{{1, 1}, {1, 1}},
		{{1, 1}, {1, 1}},
	},
	PieceT: {
		{{0, 1, 0}, {1, 1, 1}, {0, 0, 0}},
		{{0, 1, 0}, {0, 1, 1}, {0, 1, 0}},
		{{0, 0, 0}, {1, 1, 1}, {0, 1, 0}},
		{{0, 1, 0}, {1, 1, 0}, {0, 1, 0}},
	},
	PieceS: {
		{{0, 1, 1}, {1, 1, 0}, {0, 0, 0}},
		{{0, 1, 0}, {0, 1, 1}, {0, 0, 1}},
		{{0, 0, 0}, {0, 1, 1}, {1, 1, 0}},
		{{1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
	},
	PieceZ: {
		{{1, 1, 0}, {0, 1, 1}, {0, 0, 0}},
		{{0, 0, 1}, {0, 1, 1}, {0, 1, 0}},
		{{0, 0, 0}, {1, 1, 0}, {0, 1, 1}},
		{{0, 1, 0}, {1, 1, 0}, {1, 0, 0}},
	},
	PieceJ: {
		{{1, 0, 0}, {1, 1, 1}, {0, 0, 0}},
		{{0, 1, 1}, {0, 1, 0}, {0, 1, 0}},
		{{0, 0, 0}, {1, 1, 1}, {0, 0, 1}},
		{{0, 1, 0}, {0, 1, 0}, {1, 1, 0}},
	},
	PieceL: {
		{{0, 0, 1}, {1, 1, 1}, {0, 0, 0}},
		{{0, 1, 0}, {0, 1, 0}, {0, 1, 1}},
		{{0, 0, 0}, {1, 1, 1}, {1, 0, 0}},
		{{1, 1, 0}, {0, 1, 0}, {0, 1, 0}},
	},
}

// ShapeOf returns the shape of a piece type in the given rotation state.
// The returned matrix is shared and must not be modified.
func ShapeOf(t PieceType, rotation int) Shape {
	return shapeTable[t][normalizeRotation(rotation)]
}

func normalizeRotation(r int) int {
	return ((r % 4) + 4) % 4
}
