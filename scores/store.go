// Package scores persists the high score, the most recent game records and
// player settings in SQLite. The engine never calls it; hosts wire it to a
// session with Track.
package scores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/plus3/blockfall/scores/migrations"
	"go.uber.org/zap"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// MaxRecords is how many recent game records are retained.
const MaxRecords = 5

// ErrInvalidRecord is returned for records with a negative score or line
// count, or a level below 1.
var ErrInvalidRecord = errors.New("invalid score record")

// Record is one finished game.
type Record struct {
	Score      int
	Level      int
	Lines      int
	Difficulty string
	PlayedAt   time.Time
}

func (r Record) validate() error {
	if r.Score < 0 {
		return fmt.Errorf("%w: score %d is negative", ErrInvalidRecord, r.Score)
	}
	if r.Level < 1 {
		return fmt.Errorf("%w: level %d is below 1", ErrInvalidRecord, r.Level)
	}
	if r.Lines < 0 {
		return fmt.Errorf("%w: lines %d is negative", ErrInvalidRecord, r.Lines)
	}
	return nil
}

// Store persists scores in SQLite.
type Store struct {
	sqlDB  *sql.DB
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for failures that cannot be returned, such
// as writes made from a game:over handler.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite score store and applies embedded migrations.
func Open(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := &Store{sqlDB: sqlDB, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// HighScore returns the best score recorded so far, or 0.
func (s *Store) HighScore(ctx context.Context) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	var score int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT score FROM high_score WHERE id = 1`).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get high score: %w", err)
	}
	return score, nil
}

// SetHighScore stores score if it beats the current high score and reports
// whether it did.
func (s *Store) SetHighScore(ctx context.Context, score int) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	if score < 0 {
		return false, fmt.Errorf("%w: score %d is negative", ErrInvalidRecord, score)
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO high_score (id, score, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET score = excluded.score, updated_at = excluded.updated_at
		 WHERE excluded.score > high_score.score`,
		score,
		toMillis(time.Now()),
	)
	if err != nil {
		return false, fmt.Errorf("set high score: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set high score: %w", err)
	}
	return n > 0, nil
}

// AddRecord stores a finished game and drops all but the MaxRecords most
// recent ones. A zero PlayedAt is stamped with the current time.
func (s *Store) AddRecord(ctx context.Context, record Record) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := record.validate(); err != nil {
		return err
	}
	if record.PlayedAt.IsZero() {
		record.PlayedAt = time.Now()
	}
	if strings.TrimSpace(record.Difficulty) == "" {
		record.Difficulty = "normal"
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin add record: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO score_records (score, level, lines, difficulty, played_at) VALUES (?, ?, ?, ?, ?)`,
		record.Score,
		record.Level,
		record.Lines,
		record.Difficulty,
		toMillis(record.PlayedAt),
	); err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		return fmt.Errorf("add record: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM score_records WHERE id NOT IN (
		   SELECT id FROM score_records ORDER BY played_at DESC, id DESC LIMIT ?
		 )`,
		MaxRecords,
	); err != nil {
		return fmt.Errorf("trim records: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit add record: %w", err)
	}
	return nil
}

// RecentRecords returns up to limit records, newest first. A limit outside
// 1..MaxRecords returns all retained records.
func (s *Store) RecentRecords(ctx context.Context, limit int) ([]Record, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > MaxRecords {
		limit = MaxRecords
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT score, level, lines, difficulty, played_at
		   FROM score_records
		  ORDER BY played_at DESC, id DESC
		  LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, limit)
	for rows.Next() {
		var (
			r        Record
			playedAt int64
		)
		if err := rows.Scan(&r.Score, &r.Level, &r.Lines, &r.Difficulty, &playedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.PlayedAt = fromMillis(playedAt)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// ClearRecords removes every game record. The high score is kept.
func (s *Store) ClearRecords(ctx context.Context) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM score_records`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	return nil
}

func isCheckViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_CHECK
	}
	return strings.Contains(strings.ToLower(err.Error()), "check constraint failed")
}
