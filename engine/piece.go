package engine

// Piece is the active or queued tetromino. X and Y locate the shape's
// bounding-box origin on the field; Y may be negative while entering.
type Piece struct {
	Type     PieceType
	Rotation int
	X, Y     int
}

// SpawnPiece places a new piece of type t centered horizontally on a field of
// the given width. The I piece starts one row higher than the others.
func SpawnPiece(t PieceType, fieldWidth int) Piece {
	shape := ShapeOf(t, 0)
	p := Piece{
		Type: t,
		X:    (fieldWidth - shape.Width()) / 2,
	}
	if t == PieceI {
		p.Y = -1
	}
	return p
}

// Shape returns the occupancy matrix for the current rotation state.
func (p Piece) Shape() Shape {
	return ShapeOf(p.Type, p.Rotation)
}

func (p Piece) Width() int {
	return p.Shape().Width()
}

func (p Piece) Height() int {
	return p.Shape().Height()
}

// Cells returns the absolute field coordinates of every filled shape cell.
func (p Piece) Cells() []Point {
	cells := p.Shape().Cells()
	for i := range cells {
		cells[i].X += p.X
		cells[i].Y += p.Y
	}
	return cells
}

// Move translates the piece without any validation.
func (p *Piece) Move(dx, dy int) {
	p.X += dx
	p.Y += dy
}

// NextRotation returns the rotation state reached by one quarter turn.
func (p Piece) NextRotation(clockwise bool) int {
	if clockwise {
		return normalizeRotation(p.Rotation + 1)
	}
	return normalizeRotation(p.Rotation + 3)
}
