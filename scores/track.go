package scores

import (
	"context"

	"github.com/plus3/blockfall/engine"
	"go.uber.org/zap"
)

// Track persists every finished game of session: the record is added and the
// high score raised when beaten. It returns a function that stops tracking.
// Writes happen inside the game:over handler, on the caller's frame goroutine.
func (s *Store) Track(ctx context.Context, session *engine.Session, difficulty string) func() {
	return session.Subscribe(engine.EventGameOver, func(ev engine.Event) {
		payload, ok := ev.Payload.(engine.GameOverPayload)
		if !ok {
			return
		}

		record := Record{
			Score:      payload.Score,
			Level:      payload.Level,
			Lines:      payload.Lines,
			Difficulty: difficulty,
		}
		if err := s.AddRecord(ctx, record); err != nil {
			s.logger.Error("failed to save score record", zap.Error(err), zap.Int("score", payload.Score))
		}

		raised, err := s.SetHighScore(ctx, payload.Score)
		if err != nil {
			s.logger.Error("failed to save high score", zap.Error(err), zap.Int("score", payload.Score))
			return
		}
		if raised {
			s.logger.Info("new high score", zap.Int("score", payload.Score), zap.String("reason", payload.Reason.String()))
		}
	})
}
