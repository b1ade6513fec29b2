package engine

// topOutRows is how many rows at the top of the field must stay clear after a lock.
const topOutRows = 2

// PlayField holds the locked cells of a session. Its dimensions are fixed at
// construction; only cell contents change.
type PlayField struct {
	width  int
	height int
	rows   [][]Cell
}

// NewPlayField creates an empty field of the given size.
func NewPlayField(width, height int) *PlayField {
	f := &PlayField{
		width:  width,
		height: height,
	}
	f.Reset()
	return f
}

// Reset empties every cell.
func (f *PlayField) Reset() {
	f.rows = make([][]Cell, f.height)
	for y := range f.rows {
		f.rows[y] = make([]Cell, f.width)
	}
}

func (f *PlayField) Width() int {
	return f.width
}

func (f *PlayField) Height() int {
	return f.height
}

// Cell returns the cell at (x, y) and whether the coordinate lies on the field.
func (f *PlayField) Cell(x, y int) (Cell, bool) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return CellEmpty, false
	}
	return f.rows[y][x], true
}

// SetCell writes a cell; coordinates off the field are ignored.
func (f *PlayField) SetCell(x, y int, c Cell) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	f.rows[y][x] = c
}

// IsValidPosition reports whether p, translated by (dx, dy), fits on the field.
// Cells above the top edge never collide but are still bounded horizontally.
func (f *PlayField) IsValidPosition(p Piece, dx, dy int) bool {
	shape := p.Shape()
	for row := range shape {
		for col, v := range shape[row] {
			if v == 0 {
				continue
			}
			x := p.X + col + dx
			y := p.Y + row + dy
			if x < 0 || x >= f.width {
				return false
			}
			if y >= f.height {
				return false
			}
			if y >= 0 && f.rows[y][x] != CellEmpty {
				return false
			}
		}
	}
	return true
}

// TryRotate turns p one quarter and applies the first kick from the rotation
// table that yields a valid position. Table offsets count DY upward, so the
// field is probed at (DX, -DY). On failure p is left unchanged.
func (f *PlayField) TryRotate(p *Piece, clockwise bool) (Kick, bool) {
	from := p.Rotation
	to := p.NextRotation(clockwise)

	p.Rotation = to
	for _, kick := range KicksFor(p.Type, from, to) {
		if f.IsValidPosition(*p, kick.DX, -kick.DY) {
			p.Move(kick.DX, -kick.DY)
			return kick, true
		}
	}

	p.Rotation = from
	return Kick{}, false
}

// LockPiece merges p into the field. It returns false when no cell of the
// piece landed inside the visible area.
func (f *PlayField) LockPiece(p Piece) bool {
	visible := false
	cell := p.Type.Cell()
	for _, pt := range p.Cells() {
		if pt.Y < 0 || pt.Y >= f.height || pt.X < 0 || pt.X >= f.width {
			continue
		}
		f.rows[pt.Y][pt.X] = cell
		visible = true
	}
	return visible
}

func (f *PlayField) rowFull(y int) bool {
	for _, c := range f.rows[y] {
		if c == CellEmpty {
			return false
		}
	}
	return true
}

// ClearFullLines removes every full row at once and inserts as many empty
// rows at the top. It returns the cleared row indices, bottom to top, as they
// were numbered before the clear.
func (f *PlayField) ClearFullLines() []int {
	var cleared []int
	for y := f.height - 1; y >= 0; y-- {
		if f.rowFull(y) {
			cleared = append(cleared, y)
		}
	}
	if len(cleared) == 0 {
		return nil
	}

	kept := make([][]Cell, 0, f.height)
	for range cleared {
		kept = append(kept, make([]Cell, f.width))
	}
	for y, row := range f.rows {
		if !f.rowFull(y) {
			kept = append(kept, row)
		}
	}
	f.rows = kept
	return cleared
}

// IsTopOccupied reports whether any of the top two rows holds a locked cell.
func (f *PlayField) IsTopOccupied() bool {
	for y := 0; y < topOutRows && y < f.height; y++ {
		for _, c := range f.rows[y] {
			if c != CellEmpty {
				return true
			}
		}
	}
	return false
}

// GhostY returns the lowest Y that p can reach by falling straight down.
func (f *PlayField) GhostY(p Piece) int {
	drop := 0
	for f.IsValidPosition(p, 0, drop+1) {
		drop++
	}
	return p.Y + drop
}

// Grid returns a deep copy of the cells, indexed [y][x].
func (f *PlayField) Grid() [][]Cell {
	grid := make([][]Cell, f.height)
	for y, row := range f.rows {
		grid[y] = append([]Cell(nil), row...)
	}
	return grid
}
