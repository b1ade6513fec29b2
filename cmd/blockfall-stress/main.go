package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/engine"
)

// botCommands are the inputs a bot picks from each frame. Lifecycle commands
// are left out; the bot restarts its session itself after game over.
var botCommands = []engine.Command{
	engine.CommandMoveLeft,
	engine.CommandMoveRight,
	engine.CommandSoftDrop,
	engine.CommandHardDrop,
	engine.CommandRotateCW,
	engine.CommandRotateCCW,
}

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	sessionCount := flag.Int("sessions", 100, "The number of bot sessions to run side by side.")
	frameDelta := flag.Duration("dt", 16*time.Millisecond, "The simulated time advanced per frame.")
	inputRate := flag.Float64("input-rate", 0.3, "Probability that a bot issues a command on a given frame.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	engineCfg, err := cfg.Engine()
	if err != nil {
		log.Fatalf("Invalid engine config: %v", err)
	}
	baseSeed, err := cfg.SessionSeed()
	if err != nil {
		log.Fatalf("Failed to draw seed: %v", err)
	}

	log.Println("Starting blockfall stress test...")

	report := &Report{
		Duration:       *duration,
		Sessions:       *sessionCount,
		FrameDelta:     *frameDelta,
		Seed:           baseSeed,
		Difficulty:     engineCfg.Difficulty.Name,
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	// 1. Create one session per bot, all driven by a single runner
	log.Printf("Creating %d sessions (base seed %d)...\n", *sessionCount, baseSeed)
	runner := engine.NewRunner()
	for i := 0; i < *sessionCount; i++ {
		seed := baseSeed + uint64(i)
		session, err := engine.NewSession(engine.WithConfig(engineCfg), engine.WithSeed(seed))
		if err != nil {
			log.Fatalf("Failed to create session %d: %v", i, err)
		}
		report.track(session)

		b := &bot{
			session: session,
			rng:     rand.New(rand.NewPCG(seed, ^seed)),
			rate:    *inputRate,
		}
		runner.Register(b)
		runner.Register(session)
		session.Start()
	}
	log.Println("Sessions ready.")

	// 2. Run the simulation loop
	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			updateStart := time.Now()
			runner.Once(*frameDelta)
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.SimulatedTime = time.Duration(totalUpdates) * *frameDelta
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Simulation finished.")

	// 3. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}

// bot feeds random commands into one session and restarts it after game over.
type bot struct {
	session *engine.Session
	rng     *rand.Rand
	rate    float64
}

func (b *bot) Execute(frame *engine.Frame) {
	if b.session.State() == engine.StateGameOver {
		b.session.Start()
		return
	}
	if b.rng.Float64() >= b.rate {
		return
	}
	b.session.Apply(botCommands[b.rng.IntN(len(botCommands))])
}
