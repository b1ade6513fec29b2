package main

import (
	"context"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/scores"
	"go.uber.org/zap"
)

type terminal struct {
	screen   tcell.Screen
	session  *engine.Session
	commands *engine.CommandBuffer
	runner   *engine.Runner
	sounds   *sounds
}

// keyCommand maps a key event to a session command.
func keyCommand(ev *tcell.EventKey) (engine.Command, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return engine.CommandMoveLeft, true
	case tcell.KeyRight:
		return engine.CommandMoveRight, true
	case tcell.KeyDown:
		return engine.CommandSoftDrop, true
	case tcell.KeyUp:
		return engine.CommandRotateCW, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'x', 'X':
			return engine.CommandRotateCW, true
		case 'z', 'Z':
			return engine.CommandRotateCCW, true
		case ' ':
			return engine.CommandHardDrop, true
		case 'r', 'R':
			return engine.CommandRestart, true
		}
	}
	return 0, false
}

// pollInput forwards key events into the command buffer until the screen is
// finalized or the user quits.
func (t *terminal) pollInput(cancel context.CancelFunc) {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')) {
				cancel()
				return
			}
			switch {
			case ev.Key() == tcell.KeyEnter:
				t.commands.Push(engine.CommandStart)
			case ev.Key() == tcell.KeyRune && (ev.Rune() == 'p' || ev.Rune() == 'P'):
				t.commands.Push(engine.CommandTogglePause)
			case ev.Key() == tcell.KeyRune && (ev.Rune() == 'm' || ev.Rune() == 'M'):
				t.sounds.ToggleMute()
			default:
				if cmd, ok := keyCommand(ev); ok {
					t.commands.Push(cmd)
				}
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func (t *terminal) loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			t.runner.Once(now.Sub(last))
			last = now
			draw(t.screen, t.session.Snapshot(), t.sounds.Muted())
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// The terminal owns stdout, so logs go to a file.
	logCfg := zap.NewProductionConfig()
	if cfg.Debug {
		logCfg = zap.NewDevelopmentConfig()
	}
	logCfg.OutputPaths = []string{"blockfall-term.log"}
	logCfg.ErrorOutputPaths = []string{"blockfall-term.log"}
	logger, err := logCfg.Build()
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	engineCfg, err := cfg.Engine()
	if err != nil {
		logger.Fatal("invalid engine config", zap.Error(err))
	}
	seed, err := cfg.SessionSeed()
	if err != nil {
		logger.Fatal("failed to draw seed", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := scores.Open(cfg.ScoresPath, scores.WithLogger(logger))
	if err != nil {
		logger.Fatal("failed to open score store", zap.Error(err))
	}
	defer store.Close()

	session, err := engine.NewSession(
		engine.WithConfig(engineCfg),
		engine.WithSeed(seed),
		engine.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal("failed to create session", zap.Error(err))
	}
	highScore, err := store.HighScore(ctx)
	if err != nil {
		logger.Warn("failed to read high score", zap.Error(err))
	}
	session.Init(highScore)
	store.Track(ctx, session, engineCfg.Difficulty.Name)

	settings, err := store.Settings(ctx)
	if err != nil {
		logger.Warn("failed to read settings", zap.Error(err))
		settings = scores.DefaultSettings()
	}
	snd, err := newSounds(settings)
	if err != nil {
		// Non-fatal, the game runs without sound
		logger.Warn("audio initialization failed", zap.Error(err))
	}
	detach := snd.Attach(session)
	defer detach()

	screen, err := tcell.NewScreen()
	if err != nil {
		logger.Fatal("failed to create screen", zap.Error(err))
	}
	if err := screen.Init(); err != nil {
		logger.Fatal("failed to init screen", zap.Error(err))
	}

	t := &terminal{
		screen:  screen,
		session: session,
		sounds:  snd,
	}
	t.commands = engine.NewCommandBuffer(session)
	t.runner = engine.NewRunner(t.commands, session)

	go t.pollInput(cancel)
	t.loop(ctx, cfg.FrameInterval)

	screen.Fini()

	settings.SoundEnabled = !snd.Muted()
	if err := store.SaveSettings(context.Background(), settings); err != nil {
		logger.Warn("failed to save settings", zap.Error(err))
	}
	logger.Info("exiting", zap.Int("high_score", session.HighScore()))
}
