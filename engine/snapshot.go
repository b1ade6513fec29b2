package engine

import "time"

// Snapshot is a read-only copy of everything a renderer or inspector needs.
// Nothing in it aliases session state.
type Snapshot struct {
	Board          [][]Cell
	Current        *Piece
	Next           *Piece
	GhostY         int
	Score          int
	Level          Level
	LinesCleared   int
	HighScore      int
	IsNewHighScore bool
	State          SessionState

	DropTimer time.Duration
	LockTimer time.Duration
	LockMoves int
	Grounded  bool
	Speed     time.Duration
}

// Snapshot captures the current session state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Board:          s.field.Grid(),
		GhostY:         s.ghostY,
		Score:          s.score,
		Level:          s.Level(),
		LinesCleared:   s.lines,
		HighScore:      s.highScore,
		IsNewHighScore: s.isNewHighScore,
		State:          s.state,
		DropTimer:      s.dropTimer,
		LockTimer:      s.lockTimer,
		LockMoves:      s.lockMoves,
		Grounded:       s.grounded,
		Speed:          s.CurrentSpeed(),
	}
	if s.current != nil {
		p := *s.current
		snap.Current = &p
	}
	if s.next != nil {
		p := *s.next
		snap.Next = &p
	}
	return snap
}
