package main

import (
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/blockfall/engine"
)

type Report struct {
	// Configuration
	Duration   time.Duration
	Sessions   int
	FrameDelta time.Duration
	Seed       uint64
	Difficulty string

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	SimulatedTime  time.Duration
	UpdateTime     Stats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats

	// Gameplay
	GamesPlayed int
	LinesClear  int
	Tetrises    int
	TotalScore  int
	BestScore   int
	GameOvers   map[string]int
}

// track subscribes the report to the events of one session.
func (r *Report) track(session *engine.Session) {
	if r.GameOvers == nil {
		r.GameOvers = make(map[string]int)
	}
	session.Subscribe(engine.EventLinesClear, func(ev engine.Event) {
		p := ev.Payload.(engine.LinesClearPayload)
		r.LinesClear += p.Count
		if p.Count == 4 {
			r.Tetrises++
		}
	})
	session.Subscribe(engine.EventGameOver, func(ev engine.Event) {
		p := ev.Payload.(engine.GameOverPayload)
		r.GamesPlayed++
		r.TotalScore += p.Score
		r.BestScore = max(r.BestScore, p.Score)
		r.GameOvers[p.Reason.String()]++
	})
}

// MeanScore is the average final score of finished games.
func (r *Report) MeanScore() float64 {
	if r.GamesPlayed == 0 {
		return 0
	}
	return float64(r.TotalScore) / float64(r.GamesPlayed)
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P50     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))

	sorted := slices.Clone(s.Samples)
	slices.Sort(sorted)
	s.P50 = percentile(sorted, 0.50)
	s.P99 = percentile(sorted, 0.99)
}

// percentile expects sorted samples.
func percentile(sorted []time.Duration, p float64) time.Duration {
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Blockfall Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Sessions:** {{.Sessions}}
- **Frame Delta:** {{.FrameDelta}}
- **Base Seed:** {{.Seed}}
- **Difficulty:** {{.Difficulty}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Simulated Time (per session):** {{.SimulatedTime}}
- **Update Time (Frame, all sessions):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **P50:** {{.UpdateTime.P50}}
  - **P99:** {{.UpdateTime.P99}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Gameplay
- **Games Played:** {{.GamesPlayed}}
- **Lines Cleared:** {{.LinesClear}} ({{.Tetrises}} four-line clears)
- **Mean Score:** {{printf "%.1f" .MeanScore}}
- **Best Score:** {{.BestScore}}
{{range $reason, $n := .GameOvers}}- game over ({{$reason}}): {{$n}}
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
