package main

import (
	"context"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/engine/debugui"
	debugui_ebiten "github.com/plus3/blockfall/engine/debugui/ebiten"
	"github.com/plus3/blockfall/scores"
	"go.uber.org/zap"
)

const (
	screenWidth  = 1280
	screenHeight = 720
)

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := newLogger(cfg.Debug)
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

	ctx := context.Background()
	store, err := scores.Open(cfg.ScoresPath, scores.WithLogger(logger))
	if err != nil {
		logger.Fatal("failed to open score store", zap.Error(err), zap.String("path", cfg.ScoresPath))
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

	recent, err := store.RecentRecords(ctx, scores.MaxRecords)
	if err != nil {
		logger.Warn("failed to read recent records", zap.Error(err))
	}

	eventLog := engine.NewEventLog(256)
	session.Events().SubscribeAll(eventLog.Record)

	commands := engine.NewCommandBuffer(session)
	runner := engine.NewRunner(commands, session)

	backend := debugui_ebiten.NewImguiBackend("blockfall", screenWidth, screenHeight)
	overlay := debugui.NewOverlay(session, runner, commands, eventLog)
	overlay.Visible = cfg.Debug
	runner.Register(overlay)

	logger.Info("starting",
		zap.Uint64("seed", seed),
		zap.String("difficulty", engineCfg.Difficulty.Name),
		zap.Int("high_score", highScore),
	)

	game := &Game{
		session:  session,
		commands: commands,
		runner:   runner,
		backend:  backend,
		overlay:  overlay,
		input:    newKeyboard(),
		recent:   recent,
		store:    store,
	}
	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("game loop failed", zap.Error(err))
	}
}
