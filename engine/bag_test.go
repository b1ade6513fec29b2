package engine_test

import (
	"testing"

	"github.com/plus3/blockfall/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBagContainsEveryTypeOncePerBag(t *testing.T) {
	bag := engine.NewBag(42, 10)

	for round := 0; round < 50; round++ {
		seen := make(map[engine.PieceType]int)
		for i := 0; i < engine.PieceTypeCount; i++ {
			p := bag.Next()
			seen[p.Type]++
			assert.Equal(t, engine.SpawnPiece(p.Type, 10), p)
		}
		require.Len(t, seen, engine.PieceTypeCount, "round %d", round)
		for typ, n := range seen {
			assert.Equal(t, 1, n, "round %d type %s", round, typ)
		}
	}
}

func TestBagSeedIsReproducible(t *testing.T) {
	a := engine.NewBag(7, 10)
	b := engine.NewBag(7, 10)
	for i := 0; i < 70; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestBagRemainingAndReset(t *testing.T) {
	bag := engine.NewBag(1, 10)
	assert.Equal(t, 0, bag.Remaining())

	bag.Next()
	assert.Equal(t, engine.PieceTypeCount-1, bag.Remaining())
	bag.Next()
	bag.Next()
	assert.Equal(t, engine.PieceTypeCount-3, bag.Remaining())

	bag.Reset()
	assert.Equal(t, 0, bag.Remaining())

	seen := make(map[engine.PieceType]bool)
	for i := 0; i < engine.PieceTypeCount; i++ {
		seen[bag.Next().Type] = true
	}
	assert.Len(t, seen, engine.PieceTypeCount)
}

func TestFixedSequence(t *testing.T) {
	seq := &engine.FixedSequence{Types: []engine.PieceType{engine.PieceI, engine.PieceT}, FieldWidth: 10}

	assert.Equal(t, engine.PieceI, seq.Next().Type)
	assert.Equal(t, engine.PieceT, seq.Next().Type)
	assert.Equal(t, engine.PieceI, seq.Next().Type)

	seq.Reset()
	assert.Equal(t, engine.PieceI, seq.Next().Type)

	empty := &engine.FixedSequence{FieldWidth: 10}
	assert.Equal(t, engine.PieceO, empty.Next().Type)
}

func TestSpawnPiece(t *testing.T) {
	tests := []struct {
		typ  engine.PieceType
		x, y int
	}{
		{engine.PieceI, 3, -1},
		{engine.PieceO, 4, 0},
		{engine.PieceT, 3, 0},
		{engine.PieceS, 3, 0},
		{engine.PieceZ, 3, 0},
		{engine.PieceJ, 3, 0},
		{engine.PieceL, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			p := engine.SpawnPiece(tt.typ, 10)
			assert.Equal(t, tt.x, p.X)
			assert.Equal(t, tt.y, p.Y)
			assert.Equal(t, 0, p.Rotation)
		})
	}
}

func TestCellEncoding(t *testing.T) {
	assert.True(t, engine.CellEmpty.Empty())
	_, ok := engine.CellEmpty.PieceType()
	assert.False(t, ok)

	for _, typ := range engine.AllPieceTypes {
		c := typ.Cell()
		assert.False(t, c.Empty())
		got, ok := c.PieceType()
		require.True(t, ok)
		assert.Equal(t, typ, got)
		assert.Equal(t, typ.Color(), c.Color())
	}
}

func TestPieceColors(t *testing.T) {
	assert.Equal(t, "#4FC3F7", engine.PieceI.Color())
	r, g, b := engine.PieceL.RGB()
	assert.Equal(t, [3]uint8{0xFF, 0xB7, 0x4D}, [3]uint8{r, g, b})
	assert.Equal(t, "", engine.CellEmpty.Color())
}
