package engine

// EventType identifies a session event
type EventType int

const (
	// EventGameStart fires when a new game begins
	// Trigger: Start, Restart | Payload: nil
	EventGameStart EventType = iota

	// EventGamePause fires when play is suspended
	// Trigger: Pause | Payload: nil
	EventGamePause

	// EventGameResume fires when a paused game continues
	// Trigger: Resume | Payload: nil
	EventGameResume

	// EventGameRestart fires after a restart has started the new game
	// Trigger: Restart | Payload: nil
	EventGameRestart

	// EventPieceSpawn fires when the next piece enters the field
	// Trigger: Start, lock | Payload: PieceSpawnPayload
	EventPieceSpawn

	// EventPieceMove fires after any successful translation, including gravity
	// Payload: PieceMovePayload
	EventPieceMove

	// EventPieceRotate fires after a successful rotation
	// Payload: PieceRotatePayload
	EventPieceRotate

	// EventPieceLock fires when the active piece merges into the field
	// Payload: PieceLockPayload
	EventPieceLock

	// EventPieceHardDrop fires before the hard-dropped piece locks
	// Payload: PieceHardDropPayload
	EventPieceHardDrop

	// EventLinesClear fires when a lock completes one or more rows
	// Payload: LinesClearPayload
	EventLinesClear

	// EventScoreUpdate fires on every score award, including a zero-row hard drop
	// Payload: ScoreUpdatePayload
	EventScoreUpdate

	// EventLevelUp fires when the score crosses a level threshold
	// Payload: LevelUpPayload
	EventLevelUp

	// EventHighScoreBeat fires once per game, the first time the score passes
	// the known high score
	// Payload: HighScoreBeatPayload
	EventHighScoreBeat

	// EventGameOver fires when the session reaches GameOver by any path
	// Payload: GameOverPayload
	EventGameOver

	eventTypeCount
)

var eventNames = [eventTypeCount]string{
	EventGameStart:     "game:start",
	EventGamePause:     "game:pause",
	EventGameResume:    "game:resume",
	EventGameRestart:   "game:restart",
	EventPieceSpawn:    "piece:spawn",
	EventPieceMove:     "piece:move",
	EventPieceRotate:   "piece:rotate",
	EventPieceLock:     "piece:lock",
	EventPieceHardDrop: "piece:hardDrop",
	EventLinesClear:    "lines:clear",
	EventScoreUpdate:   "score:update",
	EventLevelUp:       "level:up",
	EventHighScoreBeat: "highscore:beat",
	EventGameOver:      "game:over",
}

func (t EventType) String() string {
	if t < 0 || t >= eventTypeCount {
		return "unknown"
	}
	return eventNames[t]
}

// EventTypes lists every event type in declaration order.
func EventTypes() []EventType {
	types := make([]EventType, 0, eventTypeCount)
	for t := EventType(0); t < eventTypeCount; t++ {
		types = append(types, t)
	}
	return types
}

// Event is a single session notification.
type Event struct {
	Type    EventType
	Payload any
}

type PieceSpawnPayload struct {
	Piece Piece
	Next  Piece
}

type PieceMovePayload struct {
	DX, DY int
}

type PieceRotatePayload struct {
	Clockwise bool
	Kick      Kick
}

type PieceLockPayload struct {
	Piece Piece
}

// PieceHardDropPayload carries the landing spot of a hard drop.
type PieceHardDropPayload struct {
	Distance int
	Piece    Piece
	X, Y     int
}

// LinesClearPayload lists the cleared rows as numbered before removal.
type LinesClearPayload struct {
	Lines []int
	Count int
	Score int
}

type ScoreUpdatePayload struct {
	Score int
	Delta int
}

type LevelUpPayload struct {
	OldLevel Level
	NewLevel Level
}

type HighScoreBeatPayload struct {
	NewScore int
	OldScore int
}

// GameOverReason records which check ended the game.
type GameOverReason int

const (
	// GameOverLockedAboveField: the locked piece had no cell inside the field.
	GameOverLockedAboveField GameOverReason = iota + 1
	// GameOverTopOut: one of the top two rows was occupied after a lock.
	GameOverTopOut
	// GameOverSpawnBlocked: the freshly spawned piece overlapped locked cells.
	GameOverSpawnBlocked
)

func (r GameOverReason) String() string {
	switch r {
	case GameOverLockedAboveField:
		return "locked_above_field"
	case GameOverTopOut:
		return "top_out"
	case GameOverSpawnBlocked:
		return "spawn_blocked"
	}
	return "none"
}

type GameOverPayload struct {
	Score          int
	Level          int
	Lines          int
	IsNewHighScore bool
	Reason         GameOverReason
}
