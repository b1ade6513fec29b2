package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/blockfall/engine"
)

// Auto-repeat timing for held movement keys, in ticks.
const (
	repeatDelay    = 10
	repeatInterval = 3
)

type binding struct {
	keys   []ebiten.Key
	cmd    engine.Command
	repeat bool
}

// keyboard maps key presses to session commands.
type keyboard struct {
	bindings []binding
}

func newKeyboard() *keyboard {
	return &keyboard{
		bindings: []binding{
			{keys: []ebiten.Key{ebiten.KeyArrowLeft}, cmd: engine.CommandMoveLeft, repeat: true},
			{keys: []ebiten.Key{ebiten.KeyArrowRight}, cmd: engine.CommandMoveRight, repeat: true},
			{keys: []ebiten.Key{ebiten.KeyArrowDown}, cmd: engine.CommandSoftDrop, repeat: true},
			{keys: []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyX}, cmd: engine.CommandRotateCW},
			{keys: []ebiten.Key{ebiten.KeyZ}, cmd: engine.CommandRotateCCW},
			{keys: []ebiten.Key{ebiten.KeySpace}, cmd: engine.CommandHardDrop},
			{keys: []ebiten.Key{ebiten.KeyR}, cmd: engine.CommandRestart},
			{keys: []ebiten.Key{ebiten.KeyP}, cmd: engine.CommandTogglePause},
			{keys: []ebiten.Key{ebiten.KeyEnter}, cmd: engine.CommandStart},
		},
	}
}

func repeating(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	if d == 1 {
		return true
	}
	return d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0
}

// Read returns the commands triggered this tick.
func (k *keyboard) Read() []engine.Command {
	var out []engine.Command
	for _, b := range k.bindings {
		for _, key := range b.keys {
			pressed := inpututil.IsKeyJustPressed(key)
			if b.repeat {
				pressed = repeating(key)
			}
			if pressed {
				out = append(out, b.cmd)
				break
			}
		}
	}
	return out
}

// ToggleOverlay reports whether F1 was pressed this tick.
func (k *keyboard) ToggleOverlay() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyF1)
}
