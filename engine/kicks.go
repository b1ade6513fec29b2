package engine

// Kick is a candidate translation tried when rotating. DY follows the
// table convention where positive is up; the field applies it as -DY.
type Kick struct {
	DX, DY int
}

type rotationTransition struct {
	from, to int
}

// Offsets for J, L, S, T, Z (and O, whose shape never changes).
var standardKicks = map[rotationTransition][]Kick{
	{0, 1}: {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	{1, 0}: {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
	{1, 2}: {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
	{2, 1}: {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	{2, 3}: {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
	{3, 2}: {{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	{3, 0}: {{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	{0, 3}: {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
}

var longKicks = map[rotationTransition][]Kick{
	{0, 1}: {{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
	{1, 0}: {{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
	{1, 2}: {{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
	{2, 1}: {{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
	{2, 3}: {{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
	{3, 2}: {{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
	{3, 0}: {{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
	{0, 3}: {{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
}

var inPlaceOnly = []Kick{{0, 0}}

// KicksFor returns the ordered kick candidates for rotating a piece of type t
// from one rotation state to another. The first entry is always (0,0).
// The returned slice is shared and must not be modified.
func KicksFor(t PieceType, from, to int) []Kick {
	table := standardKicks
	if t == PieceI {
		table = longKicks
	}
	kicks, ok := table[rotationTransition{normalizeRotation(from), normalizeRotation(to)}]
	if !ok {
		return inPlaceOnly
	}
	return kicks
}
