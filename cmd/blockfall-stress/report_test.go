package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/plus3/blockfall/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFinalize(t *testing.T) {
	s := Stats{}
	for i := 1; i <= 100; i++ {
		s.Samples = append(s.Samples, time.Duration(101-i)*time.Millisecond)
	}
	s.Finalize()

	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 100*time.Millisecond, s.Max)
	assert.Equal(t, 50500*time.Microsecond, s.Avg)
	assert.Equal(t, 50*time.Millisecond, s.P50)
	assert.Equal(t, 99*time.Millisecond, s.P99)
	assert.Equal(t, 100*time.Millisecond, s.Samples[0], "samples keep their order")
}

func TestReportTracksGames(t *testing.T) {
	session, err := engine.NewSession(engine.WithSequencer(
		&engine.FixedSequence{Types: []engine.PieceType{engine.PieceO}, FieldWidth: engine.DefaultWidth},
	))
	require.NoError(t, err)

	r := &Report{}
	r.track(session)

	require.True(t, session.Start())
	session.Field().SetCell(0, 0, engine.PieceZ.Cell())
	session.HardDrop()

	assert.Equal(t, 1, r.GamesPlayed)
	assert.Equal(t, 36, r.BestScore)
	assert.Equal(t, 36.0, r.MeanScore())
	assert.Equal(t, map[string]int{"top_out": 1}, r.GameOvers)

	var buf bytes.Buffer
	require.NoError(t, r.Generate(&buf))
	assert.Contains(t, buf.String(), "Games Played:** 1")
	assert.Contains(t, buf.String(), "game over (top_out): 1")
}

func TestBotRestartsAfterGameOver(t *testing.T) {
	session, err := engine.NewSession(engine.WithSeed(3))
	require.NoError(t, err)
	require.True(t, session.Start())
	session.Field().SetCell(0, 0, engine.PieceZ.Cell())
	session.HardDrop()
	require.Equal(t, engine.StateGameOver, session.State())

	b := &bot{session: session, rate: 1}
	b.Execute(&engine.Frame{})
	assert.Equal(t, engine.StatePlaying, session.State())
}
