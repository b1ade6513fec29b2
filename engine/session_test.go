package engine_test

import (
	"math"
	"slices"
	"testing"
	"time"

	"github.com/plus3/blockfall/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSequence hands out exact pieces, positions included, in a loop.
type scriptedSequence struct {
	pieces []engine.Piece
	next   int
}

func (s *scriptedSequence) Next() engine.Piece {
	p := s.pieces[s.next%len(s.pieces)]
	s.next++
	return p
}

func (s *scriptedSequence) Reset() {
	s.next = 0
}

type recorder struct {
	events []engine.Event
}

func (r *recorder) record(ev engine.Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) ofType(t engine.EventType) []engine.Event {
	var out []engine.Event
	for _, ev := range r.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func (r *recorder) types() []engine.EventType {
	out := make([]engine.EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func newSession(t *testing.T, types []engine.PieceType, opts ...engine.Option) (*engine.Session, *recorder) {
	t.Helper()
	seq := &engine.FixedSequence{Types: types, FieldWidth: engine.DefaultWidth}
	s, err := engine.NewSession(append([]engine.Option{engine.WithSequencer(seq)}, opts...)...)
	require.NoError(t, err)
	rec := &recorder{}
	s.Events().SubscribeAll(rec.record)
	return s, rec
}

func current(t *testing.T, s *engine.Session) engine.Piece {
	t.Helper()
	snap := s.Snapshot()
	require.NotNil(t, snap.Current)
	return *snap.Current
}

// ground drops the piece to its ghost row and lets gravity fail once.
func ground(t *testing.T, s *engine.Session) {
	t.Helper()
	for s.SoftDrop() {
	}
	s.Tick(s.CurrentSpeed() - time.Millisecond)
	s.Tick(time.Millisecond)
	require.True(t, s.Snapshot().Grounded)
}

func TestNewSession(t *testing.T) {
	s, err := engine.NewSession()
	require.NoError(t, err)
	assert.Equal(t, engine.StateIdle, s.State())
	assert.Equal(t, 1, s.Level().Number)
	assert.Equal(t, engine.Normal, s.Difficulty())
	assert.Nil(t, s.Snapshot().Current)

	cfg := engine.DefaultConfig()
	cfg.Width = 2
	_, err = engine.NewSession(engine.WithConfig(cfg))
	assert.ErrorIs(t, err, engine.ErrInvalidConfig)
}

func TestSeededSessionsMatch(t *testing.T) {
	a, err := engine.NewSession(engine.WithSeed(99))
	require.NoError(t, err)
	b, err := engine.NewSession(engine.WithSeed(99))
	require.NoError(t, err)

	a.Start()
	b.Start()
	for i := 0; i < 20 && a.State() == engine.StatePlaying; i++ {
		assert.Equal(t, a.Snapshot().Current, b.Snapshot().Current)
		assert.Equal(t, a.Snapshot().Next, b.Snapshot().Next)
		a.HardDrop()
		b.HardDrop()
	}
	assert.Equal(t, a.Field().Grid(), b.Field().Grid())
}

func TestStateMachine(t *testing.T) {
	s, rec := newSession(t, []engine.PieceType{engine.PieceO})

	assert.False(t, s.Pause(), "cannot pause while idle")
	assert.False(t, s.Resume())
	assert.False(t, s.MoveLeft(), "commands are ignored while idle")

	require.True(t, s.Start())
	assert.Equal(t, engine.StatePlaying, s.State())
	assert.False(t, s.Start(), "cannot start while playing")

	require.True(t, s.Pause())
	assert.Equal(t, engine.StatePaused, s.State())
	assert.False(t, s.Pause())
	assert.False(t, s.Start(), "cannot start while paused")

	require.True(t, s.Resume())
	assert.Equal(t, engine.StatePlaying, s.State())

	s.Stop()
	assert.Equal(t, engine.StateIdle, s.State())
	assert.True(t, s.Start())

	assert.Equal(t, []engine.EventType{
		engine.EventPieceSpawn,
		engine.EventGameStart,
		engine.EventGamePause,
		engine.EventGameResume,
		engine.EventPieceSpawn,
		engine.EventGameStart,
	}, rec.types())
}

func TestGravity(t *testing.T) {
	s, _ := newSession(t, []engine.PieceType{engine.PieceT})
	require.True(t, s.Start())
	start := current(t, s)

	s.Tick(999 * time.Millisecond)
	assert.Equal(t, start.Y, current(t, s).Y)
	assert.Equal(t, 999*time.Millisecond, s.Snapshot().DropTimer)

	s.Tick(time.Millisecond)
	assert.Equal(t, start.Y+1, current(t, s).Y)
	assert.Equal(t, time.Duration(0), s.Snapshot().DropTimer)

	s.Tick(time.Second)
	assert.Equal(t, start.Y+2, current(t, s).Y)
}

func TestGravityFollowsDifficulty(t *testing.T) {
	s, _ := newSession(t, []engine.PieceType{engine.PieceT})
	require.True(t, s.Start())

	require.NoError(t, s.SetDifficulty(engine.Hard))
	assert.Equal(t, 600*time.Millisecond, s.CurrentSpeed())

	s.Tick(600 * time.Millisecond)
	assert.Equal(t, 1, current(t, s).Y)

	require.NoError(t, s.SetDifficulty(engine.Easy))
	assert.Equal(t, 1500*time.Millisecond, s.CurrentSpeed())

	require.NoError(t, s.SetDifficulty(engine.Difficulty{Name: "custom"}))
	assert.Equal(t, time.Second, s.CurrentSpeed(), "zero multipliers default to 1")
}

func TestSetDifficultyRejectsInvalidMultipliers(t *testing.T) {
	s, _ := newSession(t, []engine.PieceType{engine.PieceT})
	require.NoError(t, s.SetDifficulty(engine.Hard))

	tests := []struct {
		name string
		d    engine.Difficulty
	}{
		{"negative speed", engine.Difficulty{Name: "bad", SpeedMultiplier: -1}},
		{"nan speed", engine.Difficulty{Name: "bad", SpeedMultiplier: math.NaN()}},
		{"infinite speed", engine.Difficulty{Name: "bad", SpeedMultiplier: math.Inf(1)}},
		{"negative score", engine.Difficulty{Name: "bad", ScoreMultiplier: -0.5}},
		{"nan score", engine.Difficulty{Name: "bad", ScoreMultiplier: math.NaN()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, s.SetDifficulty(tt.d), engine.ErrInvalidConfig)
			assert.Equal(t, engine.Hard, s.Difficulty())
			assert.Equal(t, 600*time.Millisecond, s.CurrentSpeed())
		})
	}

	require.True(t, s.Start())
	s.Tick(599 * time.Millisecond)
	assert.Equal(t, 0, current(t, s).Y, "gravity keeps the valid interval")
}

func TestPauseFreezesTime(t *testing.T) {
	s, _ := newSession(t, []engine.PieceType{engine.PieceT})
	require.True(t, s.Start())
	s.Tick(500 * time.Millisecond)
	require.True(t, s.Pause())

	before := s.Snapshot()
	s.Tick(10 * time.Second)
	assert.False(t, s.MoveLeft())
	assert.False(t, s.RotateCW())
	assert.False(t, s.HardDrop())
	assert.Equal(t, before, s.Snapshot())

	require.True(t, s.Resume())
	s.Tick(500 * time.Millisecond)
	assert.Equal(t, before.Current.Y+1, current(t, s).Y)
}

func TestMovement(t *testing.T) {
	s, rec := newSession(t, []engine.PieceType{engine.PieceO})
	require.True(t, s.Start())

	for s.MoveLeft() {
	}
	assert.Equal(t, 0, current(t, s).X)
	for s.MoveRight() {
	}
	assert.Equal(t, 8, current(t, s).X)

	moves := rec.ofType(engine.EventPieceMove)
	require.Len(t, moves, 12)
	assert.Equal(t, engine.PieceMovePayload{DX: -1}, moves[0].Payload)
	assert.Equal(t, engine.PieceMovePayload{DX: 1}, moves[11].Payload)

	assert.True(t, s.SoftDrop())
	assert.Equal(t, 1, current(t, s).Y)
	assert.Equal(t, 0, s.Score(), "soft drop awards nothing")
	assert.Equal(t, 18, s.Snapshot().GhostY)
}

func TestHardDropScoring(t *testing.T) {
	s, rec := newSession(t, []engine.PieceType{engine.PieceO})
	require.True(t, s.Start())

	require.True(t, s.HardDrop())
	assert.Equal(t, 36, s.Score())

	drops := rec.ofType(engine.EventPieceHardDrop)
	require.Len(t, drops, 1)
	payload := drops[0].Payload.(engine.PieceHardDropPayload)
	assert.Equal(t, 18, payload.Distance)
	assert.Equal(t, 4, payload.X)
	assert.Equal(t, 18, payload.Y)

	updates := rec.ofType(engine.EventScoreUpdate)
	require.Len(t, updates, 1)
	assert.Equal(t, engine.ScoreUpdatePayload{Score: 36, Delta: 36}, updates[0].Payload)

	c, _ := s.Field().Cell(4, 19)
	assert.False(t, c.Empty())
	assert.Len(t, rec.ofType(engine.EventPieceLock), 1)
	assert.Len(t, rec.ofType(engine.EventPieceSpawn), 2)
	assert.Equal(t, 0, current(t, s).Y)

	require.True(t, s.HardDrop())
	assert.Equal(t, 36+32, s.Score())
}

func TestZeroDistanceHardDropReportsScore(t *testing.T) {
	s, rec := newSession(t, []engine.PieceType{engine.PieceO})
	require.True(t, s.Start())
	for s.SoftDrop() {
	}

	require.True(t, s.HardDrop())
	assert.Equal(t, 0, s.Score())
	updates := rec.ofType(engine.EventScoreUpdate)
	require.Len(t, updates, 1)
	assert.Equal(t, engine.ScoreUpdatePayload{Score: 0, Delta: 0}, updates[0].Payload)
	assert.Empty(t, rec.ofType(engine.EventHighScoreBeat))
	assert.False(t, s.IsNewHighScore())
}

func TestLineClearScoring(t *testing.T) {
	tests := []struct {
		name       string
		difficulty engine.Difficulty
		award      int
	}{
		{"normal", engine.Normal, 100},
		{"hard", engine.Hard, 150},
		{"easy", engine.Easy, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, rec := newSession(t, []engine.PieceType{engine.PieceI, engine.PieceO})
			require.NoError(t, s.SetDifficulty(tt.difficulty))
			require.True(t, s.Start())
			fillRow(s.Field(), 19, 5)

			require.True(t, s.RotateCW())
			require.Equal(t, engine.Piece{Type: engine.PieceI, Rotation: 1, X: 3, Y: -1}, current(t, s))
			require.True(t, s.HardDrop())

			clears := rec.ofType(engine.EventLinesClear)
			require.Len(t, clears, 1)
			assert.Equal(t, engine.LinesClearPayload{Lines: []int{19}, Count: 1, Score: tt.award}, clears[0].Payload)
			assert.Equal(t, 1, s.Lines())
			assert.Equal(t, 2*17+tt.award, s.Score())
			assert.Equal(t, engine.StatePlaying, s.State())
		})
	}
}

func TestLevelUp(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.Levels = []engine.Level{
		{Number: 1, Threshold: 0, Speed: time.Second},
		{Number: 2, Threshold: 20, Speed: 900 * time.Millisecond},
		{Number: 3, Threshold: 1000, Speed: 800 * time.Millisecond},
	}
	s, rec := newSession(t, []engine.PieceType{engine.PieceO}, engine.WithConfig(cfg))
	require.True(t, s.Start())

	// Hard-drop points alone never move the level.
	require.True(t, s.HardDrop())
	assert.Equal(t, 36, s.Score())
	assert.Equal(t, 1, s.Level().Number)
	assert.Empty(t, rec.ofType(engine.EventLevelUp))

	// The clear from this drop is scored at level 1, then the level rises.
	fillRow(s.Field(), 17, 4, 5)
	require.True(t, s.HardDrop())

	clears := rec.ofType(engine.EventLinesClear)
	require.Len(t, clears, 1)
	assert.Equal(t, engine.LinesClearPayload{Lines: []int{17}, Count: 1, Score: 100}, clears[0].Payload)
	assert.Equal(t, 36+32+100, s.Score())
	assert.Equal(t, 2, s.Level().Number)
	assert.Equal(t, 900*time.Millisecond, s.CurrentSpeed())

	ups := rec.ofType(engine.EventLevelUp)
	require.Len(t, ups, 1)
	payload := ups[0].Payload.(engine.LevelUpPayload)
	assert.Equal(t, 1, payload.OldLevel.Number)
	assert.Equal(t, 2, payload.NewLevel.Number)

	types := rec.types()
	clearAt := slices.Index(types, engine.EventLinesClear)
	upAt := slices.Index(types, engine.EventLevelUp)
	assert.Less(t, clearAt, upAt)

	require.True(t, s.HardDrop())
	assert.Len(t, rec.ofType(engine.EventLevelUp), 1)
}

func TestHardDropClearScoredAtStartingLevel(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.Levels = []engine.Level{
		{Number: 1, Threshold: 0, Speed: time.Second},
		{Number: 2, Threshold: 20, Speed: 900 * time.Millisecond},
	}
	s, rec := newSession(t, []engine.PieceType{engine.PieceO}, engine.WithConfig(cfg))
	require.True(t, s.Start())
	fillRow(s.Field(), 19, 4, 5)

	require.True(t, s.HardDrop())

	clears := rec.ofType(engine.EventLinesClear)
	require.Len(t, clears, 1)
	assert.Equal(t, 100, clears[0].Payload.(engine.LinesClearPayload).Score)
	assert.Equal(t, 36+100, s.Score())
	assert.Equal(t, 2, s.Level().Number)
}

func TestHighScore(t *testing.T) {
	s, rec := newSession(t, []engine.PieceType{engine.PieceO})
	s.Init(30)
	require.True(t, s.Start())
	assert.Equal(t, 30, s.HighScore())

	require.True(t, s.HardDrop())
	assert.True(t, s.IsNewHighScore())

	beats := rec.ofType(engine.EventHighScoreBeat)
	require.Len(t, beats, 1)
	assert.Equal(t, engine.HighScoreBeatPayload{NewScore: 36, OldScore: 30}, beats[0].Payload)

	require.True(t, s.HardDrop())
	assert.Len(t, rec.ofType(engine.EventHighScoreBeat), 1, "fires once per game")

	s.Field().SetCell(0, 1, engine.PieceZ.Cell())
	require.True(t, s.HardDrop())
	require.Equal(t, engine.StateGameOver, s.State())
	assert.Equal(t, s.Score(), s.HighScore())
}

func TestLockDelay(t *testing.T) {
	s, rec := newSession(t, []engine.PieceType{engine.PieceO})
	require.True(t, s.Start())
	ground(t, s)

	snap := s.Snapshot()
	assert.Equal(t, time.Millisecond, snap.LockTimer)

	s.Tick(498 * time.Millisecond)
	assert.Empty(t, rec.ofType(engine.EventPieceLock))
	assert.Equal(t, 499*time.Millisecond, s.Snapshot().LockTimer)

	s.Tick(time.Millisecond)
	assert.Len(t, rec.ofType(engine.EventPieceLock), 1)
	assert.Equal(t, 0, current(t, s).Y)
	assert.False(t, s.Snapshot().Grounded)
}

func TestLockResetOnMove(t *testing.T) {
	s, rec := newSession(t, []engine.PieceType{engine.PieceO})
	require.True(t, s.Start())
	ground(t, s)

	s.Tick(400 * time.Millisecond)
	require.True(t, s.MoveLeft())
	snap := s.Snapshot()
	assert.Equal(t, time.Duration(0), snap.LockTimer)
	assert.Equal(t, 1, snap.LockMoves)
	assert.True(t, snap.Grounded)

	s.Tick(400 * time.Millisecond)
	require.True(t, s.RotateCW())
	assert.Equal(t, 2, s.Snapshot().LockMoves)

	s.Tick(400 * time.Millisecond)
	assert.Empty(t, rec.ofType(engine.EventPieceLock))
}

func TestLockMoveCap(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.LockMoveCap = 3
	s, rec := newSession(t, []engine.PieceType{engine.PieceO}, engine.WithConfig(cfg))
	require.True(t, s.Start())
	ground(t, s)

	require.True(t, s.MoveLeft())
	require.True(t, s.MoveRight())
	require.True(t, s.MoveLeft())
	assert.Equal(t, 3, s.Snapshot().LockMoves)
	assert.Empty(t, rec.ofType(engine.EventPieceLock))

	s.Tick(time.Millisecond)
	assert.Len(t, rec.ofType(engine.EventPieceLock), 1)
}

func TestLeavingTheLedgeClearsGrounded(t *testing.T) {
	s, _ := newSession(t, []engine.PieceType{engine.PieceO})
	require.True(t, s.Start())
	s.Field().SetCell(4, 10, engine.PieceZ.Cell())
	s.Field().SetCell(5, 10, engine.PieceZ.Cell())

	ground(t, s)
	require.Equal(t, 8, current(t, s).Y)

	require.True(t, s.MoveLeft())
	assert.True(t, s.Snapshot().Grounded, "still resting on (4,10)")
	require.True(t, s.MoveLeft())
	snap := s.Snapshot()
	assert.False(t, snap.Grounded)
	assert.Equal(t, 2, snap.LockMoves)
	assert.Equal(t, 18, snap.GhostY)

	require.True(t, s.SoftDrop())
	assert.Equal(t, time.Duration(0), s.Snapshot().LockTimer)
}

func TestGameOverTopOut(t *testing.T) {
	s, rec := newSession(t, []engine.PieceType{engine.PieceO})
	require.True(t, s.Start())
	s.Field().SetCell(0, 0, engine.PieceZ.Cell())
	s.Field().SetCell(9, 1, engine.PieceZ.Cell())

	require.True(t, s.HardDrop())
	assert.Equal(t, engine.StateGameOver, s.State())

	overs := rec.ofType(engine.EventGameOver)
	require.Len(t, overs, 1)
	payload := overs[0].Payload.(engine.GameOverPayload)
	assert.Equal(t, engine.GameOverTopOut, payload.Reason)
	assert.Equal(t, 36, payload.Score)
	assert.Equal(t, 1, payload.Level)

	assert.False(t, s.MoveLeft())
	assert.True(t, s.Start(), "start is allowed after game over")
	assert.Equal(t, 0, s.Score())
	assert.False(t, s.Field().IsTopOccupied())
}

func TestGameOverLockedAboveField(t *testing.T) {
	seq := &scriptedSequence{pieces: []engine.Piece{{Type: engine.PieceO, X: 4, Y: -2}}}
	s, err := engine.NewSession(engine.WithSequencer(seq))
	require.NoError(t, err)
	rec := &recorder{}
	s.Events().SubscribeAll(rec.record)

	require.True(t, s.Start())
	s.Field().SetCell(4, 0, engine.PieceZ.Cell())

	require.True(t, s.HardDrop())
	overs := rec.ofType(engine.EventGameOver)
	require.Len(t, overs, 1)
	assert.Equal(t, engine.GameOverLockedAboveField, overs[0].Payload.(engine.GameOverPayload).Reason)
	assert.Equal(t, engine.StateGameOver, s.State())
}

func TestGameOverSpawnBlocked(t *testing.T) {
	seq := &scriptedSequence{pieces: []engine.Piece{{Type: engine.PieceO, X: 4, Y: 5}}}
	s, err := engine.NewSession(engine.WithSequencer(seq))
	require.NoError(t, err)
	rec := &recorder{}
	s.Events().SubscribeAll(rec.record)

	require.True(t, s.Start())
	s.Field().SetCell(4, 7, engine.PieceZ.Cell())

	require.True(t, s.HardDrop())
	overs := rec.ofType(engine.EventGameOver)
	require.Len(t, overs, 1)
	assert.Equal(t, engine.GameOverSpawnBlocked, overs[0].Payload.(engine.GameOverPayload).Reason)
	assert.False(t, s.Field().IsTopOccupied())
	assert.Len(t, rec.ofType(engine.EventPieceSpawn), 1, "the blocked piece is not announced")
}

func TestRestart(t *testing.T) {
	s, rec := newSession(t, []engine.PieceType{engine.PieceO})
	require.True(t, s.Start())
	require.True(t, s.HardDrop())
	require.True(t, s.Pause())

	s.Restart()
	assert.Equal(t, engine.StatePlaying, s.State())
	assert.Equal(t, 0, s.Score())
	c, _ := s.Field().Cell(4, 19)
	assert.True(t, c.Empty())

	types := rec.types()
	assert.Equal(t, []engine.EventType{engine.EventGameStart, engine.EventGameRestart}, types[len(types)-2:])
}

func TestSnapshotDoesNotAlias(t *testing.T) {
	s, _ := newSession(t, []engine.PieceType{engine.PieceT})
	require.True(t, s.Start())

	snap := s.Snapshot()
	snap.Current.X = 0
	snap.Board[19][0] = engine.PieceI.Cell()

	assert.Equal(t, 3, current(t, s).X)
	c, _ := s.Field().Cell(0, 19)
	assert.True(t, c.Empty())
}
