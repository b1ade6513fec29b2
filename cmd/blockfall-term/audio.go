package main

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/scores"
)

const sampleRate = beep.SampleRate(44100)

type tone struct {
	freq     float64
	duration time.Duration
}

// Cue tones per event; a line clear plays one step per cleared row.
var (
	lineClearTones = []tone{{523.25, 60 * time.Millisecond}, {659.25, 60 * time.Millisecond}, {783.99, 60 * time.Millisecond}, {1046.5, 120 * time.Millisecond}}
	gameOverTones  = []tone{{392, 150 * time.Millisecond}, {311.13, 150 * time.Millisecond}, {196, 400 * time.Millisecond}}
	levelUpTones   = []tone{{659.25, 80 * time.Millisecond}, {987.77, 160 * time.Millisecond}}
	hardDropTone   = tone{110, 40 * time.Millisecond}
)

// sounds plays short sine cues for session events.
type sounds struct {
	ready  bool
	volume float64
	muted  atomic.Bool
}

// newSounds initializes the speaker. On error the returned sounds is silent
// but usable.
func newSounds(settings scores.Settings) (*sounds, error) {
	s := &sounds{volume: settings.SoundVolume}
	s.muted.Store(!settings.SoundEnabled)
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return s, err
	}
	s.ready = true
	return s, nil
}

func (s *sounds) Muted() bool { return s.muted.Load() }

func (s *sounds) ToggleMute() {
	for {
		old := s.muted.Load()
		if s.muted.CompareAndSwap(old, !old) {
			return
		}
	}
}

func (s *sounds) play(tones ...tone) {
	if !s.ready || s.muted.Load() || s.volume <= 0 {
		return
	}
	parts := make([]beep.Streamer, 0, len(tones))
	for _, t := range tones {
		sine, err := generators.SineTone(sampleRate, t.freq)
		if err != nil {
			continue
		}
		parts = append(parts, beep.Take(sampleRate.N(t.duration), sine))
	}
	if len(parts) == 0 {
		return
	}
	speaker.Play(&effects.Volume{
		Streamer: beep.Seq(parts...),
		Base:     2,
		Volume:   math.Log2(s.volume),
	})
}

// Attach subscribes the cues to session events and returns the unsubscribe.
func (s *sounds) Attach(session *engine.Session) func() {
	unsubs := []func(){
		session.Subscribe(engine.EventLinesClear, func(ev engine.Event) {
			p := ev.Payload.(engine.LinesClearPayload)
			n := min(p.Count, len(lineClearTones))
			s.play(lineClearTones[:n]...)
		}),
		session.Subscribe(engine.EventGameOver, func(engine.Event) { s.play(gameOverTones...) }),
		session.Subscribe(engine.EventLevelUp, func(engine.Event) { s.play(levelUpTones...) }),
		session.Subscribe(engine.EventPieceHardDrop, func(engine.Event) { s.play(hardDropTone) }),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
