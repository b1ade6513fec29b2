package engine

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// SessionState is the lifecycle tag of a session.
type SessionState int

const (
	StateIdle SessionState = iota
	StatePlaying
	StatePaused
	StateGameOver
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "gameOver"
	}
	return "unknown"
}

// Session drives one player's game: gravity, lock timing, line clears,
// scoring and the state machine. It is not safe for concurrent use; the host
// must serialize Tick and every command.
type Session struct {
	cfg    Config
	field  *PlayField
	seq    PieceSequencer
	seed   *uint64
	bus    *EventBus
	logger *zap.Logger

	current *Piece
	next    *Piece
	ghostY  int

	state          SessionState
	score          int
	levelIndex     int
	lines          int
	highScore      int
	isNewHighScore bool
	difficulty     Difficulty

	dropTimer time.Duration
	lockTimer time.Duration
	lockMoves int
	grounded  bool
}

// Option configures a Session.
type Option func(*Session)

// WithConfig replaces the default rules.
func WithConfig(cfg Config) Option {
	return func(s *Session) {
		s.cfg = cfg
	}
}

// WithLogger sets the logger for session and event bus diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSequencer replaces the default bag randomizer.
func WithSequencer(seq PieceSequencer) Option {
	return func(s *Session) {
		s.seq = seq
	}
}

// WithSeed seeds the default bag randomizer.
func WithSeed(seed uint64) Option {
	return func(s *Session) {
		s.seed = &seed
	}
}

// NewSession creates an idle session. Without WithSequencer or WithSeed the
// bag is seeded from the current time.
func NewSession(opts ...Option) (*Session, error) {
	s := &Session{
		cfg:    DefaultConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	if s.seq == nil {
		seed := uint64(time.Now().UnixNano())
		if s.seed != nil {
			seed = *s.seed
		}
		s.seq = NewBag(seed, s.cfg.Width)
	}
	s.difficulty = s.cfg.Difficulty.withDefaults()
	s.field = NewPlayField(s.cfg.Width, s.cfg.Height)
	s.bus = NewEventBus(s.logger)
	return s, nil
}

// Events returns the bus the session emits on.
func (s *Session) Events() *EventBus {
	return s.bus
}

// Subscribe is shorthand for Events().Subscribe.
func (s *Session) Subscribe(t EventType, fn Handler) func() {
	return s.bus.Subscribe(t, fn)
}

// Field exposes the play field for inspection. Callers must not mutate it
// while a game is in progress.
func (s *Session) Field() *PlayField {
	return s.field
}

func (s *Session) Config() Config {
	return s.cfg
}

func (s *Session) State() SessionState {
	return s.state
}

func (s *Session) Score() int {
	return s.score
}

func (s *Session) Level() Level {
	return s.cfg.Levels[s.levelIndex]
}

func (s *Session) Lines() int {
	return s.lines
}

func (s *Session) HighScore() int {
	return s.highScore
}

func (s *Session) IsNewHighScore() bool {
	return s.isNewHighScore
}

func (s *Session) Difficulty() Difficulty {
	return s.difficulty
}

// Init seeds the known high score; persistence is the host's concern.
func (s *Session) Init(highScore int) {
	s.highScore = highScore
}

// SetDifficulty changes the gravity and score multipliers. Zero multipliers
// default to 1.0. It takes effect immediately; an invalid difficulty is
// rejected and the current one kept.
func (s *Session) SetDifficulty(d Difficulty) error {
	d = d.withDefaults()
	if err := d.Validate(); err != nil {
		return err
	}
	s.difficulty = d
	return nil
}

// CurrentSpeed is the gravity interval at the current level and difficulty.
func (s *Session) CurrentSpeed() time.Duration {
	return time.Duration(float64(s.Level().Speed) * s.difficulty.SpeedMultiplier)
}

func (s *Session) emit(t EventType, payload any) {
	s.bus.Emit(Event{Type: t, Payload: payload})
}

func (s *Session) resetTimers() {
	s.dropTimer = 0
	s.lockTimer = 0
	s.lockMoves = 0
	s.grounded = false
}

func (s *Session) reset() {
	s.field.Reset()
	s.seq.Reset()
	s.current = nil
	s.next = nil
	s.ghostY = 0
	s.score = 0
	s.levelIndex = 0
	s.lines = 0
	s.isNewHighScore = false
	s.resetTimers()
}

// Start begins a new game from Idle or GameOver.
func (s *Session) Start() bool {
	if s.state == StatePlaying || s.state == StatePaused {
		return false
	}
	s.reset()
	s.state = StatePlaying
	s.logger.Debug("game started",
		zap.Int("width", s.cfg.Width),
		zap.Int("height", s.cfg.Height),
		zap.String("difficulty", s.difficulty.Name),
	)
	s.spawnPiece()
	s.emit(EventGameStart, nil)
	return true
}

// Restart abandons the current game, if any, and starts a new one.
func (s *Session) Restart() {
	s.Stop()
	s.Start()
	s.emit(EventGameRestart, nil)
}

// Stop returns the session to Idle and discards all timers. The field is
// left as it was for display.
func (s *Session) Stop() {
	if s.state != StateIdle {
		s.logger.Debug("game stopped", zap.Stringer("from", s.state))
	}
	s.state = StateIdle
	s.resetTimers()
}

// Pause freezes a game in progress.
func (s *Session) Pause() bool {
	if s.state != StatePlaying {
		return false
	}
	s.state = StatePaused
	s.emit(EventGamePause, nil)
	return true
}

// Resume continues a paused game exactly where it stopped.
func (s *Session) Resume() bool {
	if s.state != StatePaused {
		return false
	}
	s.state = StatePlaying
	s.emit(EventGameResume, nil)
	return true
}

// Tick advances gravity and lock timing by dt. It does nothing unless playing.
func (s *Session) Tick(dt time.Duration) {
	if s.state != StatePlaying || s.current == nil {
		return
	}

	s.dropTimer += dt
	if s.dropTimer >= s.CurrentSpeed() {
		s.dropTimer = 0
		if !s.MoveDown() {
			s.grounded = true
		}
	}

	if !s.grounded {
		return
	}
	s.lockTimer += dt
	if s.lockTimer >= s.cfg.LockDelay || s.lockMoves >= s.cfg.LockMoveCap {
		s.lockPiece()
	}
}

// Execute lets a Runner drive the session.
func (s *Session) Execute(frame *Frame) {
	s.Tick(frame.DeltaTime)
}

func (s *Session) canAct() bool {
	return s.state == StatePlaying && s.current != nil
}

func (s *Session) MoveLeft() bool {
	return s.move(-1, 0)
}

func (s *Session) MoveRight() bool {
	return s.move(1, 0)
}

// MoveDown moves the piece one row down. Gravity uses the same path.
func (s *Session) MoveDown() bool {
	return s.move(0, 1)
}

// SoftDrop is the player-initiated MoveDown. It awards no points.
func (s *Session) SoftDrop() bool {
	return s.MoveDown()
}

func (s *Session) move(dx, dy int) bool {
	if !s.canAct() {
		return false
	}
	if !s.field.IsValidPosition(*s.current, dx, dy) {
		return false
	}
	s.current.Move(dx, dy)

	if dy > 0 {
		s.lockTimer = 0
		s.grounded = false
	} else if s.grounded {
		s.onLockReset()
	}

	s.updateGhost()
	s.emit(EventPieceMove, PieceMovePayload{DX: dx, DY: dy})
	return true
}

// onLockReset restarts the lock delay after a successful shift or rotation of
// a grounded piece, counting it against the move cap.
func (s *Session) onLockReset() {
	s.lockTimer = 0
	s.lockMoves++
	if s.field.IsValidPosition(*s.current, 0, 1) {
		s.grounded = false
	}
}

func (s *Session) RotateCW() bool {
	return s.Rotate(true)
}

func (s *Session) RotateCCW() bool {
	return s.Rotate(false)
}

// Rotate turns the piece a quarter, trying wall kicks in table order.
func (s *Session) Rotate(clockwise bool) bool {
	if !s.canAct() {
		return false
	}
	kick, ok := s.field.TryRotate(s.current, clockwise)
	if !ok {
		return false
	}
	if s.grounded {
		s.onLockReset()
	}
	s.updateGhost()
	s.emit(EventPieceRotate, PieceRotatePayload{Clockwise: clockwise, Kick: kick})
	return true
}

// HardDrop moves the piece to its ghost position, awards two points per row
// and locks immediately. The level is only re-evaluated after line clears, so
// a clear from the same drop is scored at the level it started on.
func (s *Session) HardDrop() bool {
	if !s.canAct() {
		return false
	}
	s.updateGhost()
	distance := s.ghostY - s.current.Y
	s.current.Y = s.ghostY
	landed := *s.current

	s.addScore(2 * distance)
	s.emit(EventPieceHardDrop, PieceHardDropPayload{
		Distance: distance,
		Piece:    landed,
		X:        landed.X,
		Y:        landed.Y,
	})
	s.lockPiece()
	return true
}

func (s *Session) updateGhost() {
	if s.current != nil {
		s.ghostY = s.field.GhostY(*s.current)
	}
}

func (s *Session) spawnPiece() {
	if s.next != nil {
		s.current = s.next
	} else {
		p := s.seq.Next()
		s.current = &p
	}
	n := s.seq.Next()
	s.next = &n

	s.lockTimer = 0
	s.lockMoves = 0
	s.grounded = false
	s.updateGhost()

	if !s.field.IsValidPosition(*s.current, 0, 0) {
		s.gameOver(GameOverSpawnBlocked)
		return
	}
	s.emit(EventPieceSpawn, PieceSpawnPayload{Piece: *s.current, Next: *s.next})
}

func (s *Session) lockPiece() {
	if s.current == nil {
		return
	}
	piece := *s.current
	visible := s.field.LockPiece(piece)
	s.emit(EventPieceLock, PieceLockPayload{Piece: piece})

	if !visible {
		s.gameOver(GameOverLockedAboveField)
		return
	}

	if cleared := s.field.ClearFullLines(); len(cleared) > 0 {
		s.onLinesCleared(cleared)
	}

	if s.field.IsTopOccupied() {
		s.gameOver(GameOverTopOut)
		return
	}
	s.spawnPiece()
}

func (s *Session) onLinesCleared(lines []int) {
	count := len(lines)
	s.lines += count

	base := LineClearScore(count)
	award := int(math.Floor(float64(base*s.Level().Number) * s.difficulty.ScoreMultiplier))
	s.addScore(award)

	s.logger.Debug("lines cleared",
		zap.Ints("rows", lines),
		zap.Int("award", award),
		zap.Int("total_lines", s.lines),
	)
	s.emit(EventLinesClear, LinesClearPayload{Lines: lines, Count: count, Score: award})
	s.updateLevel()
}

func (s *Session) addScore(points int) {
	points = max(points, 0)
	s.score += points
	s.emit(EventScoreUpdate, ScoreUpdatePayload{Score: s.score, Delta: points})

	if !s.isNewHighScore && s.score > s.highScore {
		s.isNewHighScore = true
		s.emit(EventHighScoreBeat, HighScoreBeatPayload{NewScore: s.score, OldScore: s.highScore})
	}
}

// updateLevel raises the level to match the score. It runs after line clears
// only. Levels never go down.
func (s *Session) updateLevel() {
	idx := LevelIndexForScore(s.cfg.Levels, s.score)
	if idx <= s.levelIndex {
		return
	}
	old := s.Level()
	s.levelIndex = idx
	s.emit(EventLevelUp, LevelUpPayload{OldLevel: old, NewLevel: s.Level()})
}

func (s *Session) gameOver(reason GameOverReason) {
	s.state = StateGameOver
	s.resetTimers()
	if s.score > s.highScore {
		s.highScore = s.score
		s.isNewHighScore = true
	}
	s.logger.Debug("game over",
		zap.Stringer("reason", reason),
		zap.Int("score", s.score),
		zap.Int("level", s.Level().Number),
		zap.Int("lines", s.lines),
	)
	s.emit(EventGameOver, GameOverPayload{
		Score:          s.score,
		Level:          s.Level().Number,
		Lines:          s.lines,
		IsNewHighScore: s.isNewHighScore,
		Reason:         reason,
	})
}
