package engine

import (
	"context"
	"fmt"
	"reflect"
	"time"
)

// RunnerStats provides statistics about runner execution.
type RunnerStats struct {
	SystemCount int
	Frames      uint64
	Systems     []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Runner executes registered systems in order, once per frame. It is the
// only place simulation time enters the engine.
type Runner struct {
	systems     []System
	systemStats []*systemStatsInternal
	frames      uint64
}

// NewRunner creates a runner with no systems.
func NewRunner(systems ...System) *Runner {
	r := &Runner{
		systems: make([]System, 0, len(systems)),
	}
	for _, sys := range systems {
		r.Register(sys)
	}
	return r
}

// Register appends a system to the frame order.
func (r *Runner) Register(system System) {
	r.systems = append(r.systems, system)
	r.systemStats = append(r.systemStats, &systemStatsInternal{
		name:        systemName(system),
		minDuration: time.Duration(1<<63 - 1),
	})
}

func systemName(system System) string {
	if _, ok := system.(SystemFunc); ok {
		return fmt.Sprintf("SystemFunc#%p", system)
	}
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	return systemType.Name()
}

// Once executes all registered systems once with the given delta time.
func (r *Runner) Once(dt time.Duration) {
	r.frames++
	frame := newFrame(dt, r.frames)

	for i, system := range r.systems {
		start := time.Now()
		system.Execute(frame)
		duration := time.Since(start)

		stats := r.systemStats[i]
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}
}

// Run executes all systems at the given interval until the context is
// cancelled. Each frame receives the wall time elapsed since the previous one.
func (r *Runner) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime)
			lastTime = now
			r.Once(dt)
		}
	}
}

// Frames returns how many frames have been executed.
func (r *Runner) Frames() uint64 {
	return r.frames
}

// Stats returns statistics about system execution.
func (r *Runner) Stats() *RunnerStats {
	stats := &RunnerStats{
		SystemCount: len(r.systems),
		Frames:      r.frames,
		Systems:     make([]SystemStats, len(r.systemStats)),
	}

	for i, internal := range r.systemStats {
		avgDuration := time.Duration(0)
		minDuration := internal.minDuration
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		} else {
			minDuration = 0
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
	}

	return stats
}
