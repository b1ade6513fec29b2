package engine

import "math/rand/v2"

// PieceSequencer supplies the stream of pieces a session plays.
type PieceSequencer interface {
	// Next returns a fresh piece at its spawn position.
	Next() Piece
	// Reset discards any partially drawn batch.
	Reset()
}

// Bag is a 7-bag randomizer: every run of seven draws aligned to a bag
// boundary contains each piece type exactly once.
type Bag struct {
	rng        *rand.Rand
	fieldWidth int
	pending    []PieceType
}

// NewBag creates a bag randomizer seeded for reproducible sequences.
// fieldWidth is used to compute spawn positions.
func NewBag(seed uint64, fieldWidth int) *Bag {
	return &Bag{
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		fieldWidth: fieldWidth,
		pending:    make([]PieceType, 0, PieceTypeCount),
	}
}

func (b *Bag) refill() {
	b.pending = b.pending[:0]
	b.pending = append(b.pending, AllPieceTypes[:]...)
	b.rng.Shuffle(len(b.pending), func(i, j int) {
		b.pending[i], b.pending[j] = b.pending[j], b.pending[i]
	})
}

// Next pops the next type from the current bag, reshuffling a new bag when empty.
func (b *Bag) Next() Piece {
	if len(b.pending) == 0 {
		b.refill()
	}
	t := b.pending[0]
	b.pending = b.pending[1:]
	return SpawnPiece(t, b.fieldWidth)
}

// Remaining returns how many pieces are left in the current bag.
func (b *Bag) Remaining() int {
	return len(b.pending)
}

func (b *Bag) Reset() {
	b.pending = b.pending[:0]
}

// FixedSequence replays a fixed list of piece types in a loop. It is meant for
// scripted scenarios and tests.
type FixedSequence struct {
	Types      []PieceType
	FieldWidth int
	next       int
}

func (s *FixedSequence) Next() Piece {
	if len(s.Types) == 0 {
		return SpawnPiece(PieceO, s.FieldWidth)
	}
	t := s.Types[s.next%len(s.Types)]
	s.next++
	return SpawnPiece(t, s.FieldWidth)
}

func (s *FixedSequence) Reset() {
	s.next = 0
}
