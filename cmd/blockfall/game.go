package main

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/engine/debugui"
	debugui_ebiten "github.com/plus3/blockfall/engine/debugui/ebiten"
	"github.com/plus3/blockfall/scores"
)

const (
	cellSize = 28
	boardX   = 80
	boardY   = 40
)

var (
	backgroundColor = color.RGBA{0x12, 0x12, 0x18, 0xff}
	emptyCellColor  = color.RGBA{0x22, 0x22, 0x2a, 0xff}
)

// Game implements ebiten.Game. Input is queued into the command buffer and
// applied by the runner, so the session only changes inside runner frames.
type Game struct {
	session  *engine.Session
	commands *engine.CommandBuffer
	runner   *engine.Runner
	backend  *debugui_ebiten.ImguiBackend
	overlay  *debugui.Overlay
	input    *keyboard
	store    *scores.Store
	recent   []scores.Record
}

func (g *Game) Update() error {
	if g.input.ToggleOverlay() {
		g.overlay.Toggle()
	}
	if !g.overlay.Input.WantCaptureKeyboard {
		for _, cmd := range g.input.Read() {
			g.commands.Push(cmd)
		}
	}

	wasOver := g.session.State() == engine.StateGameOver
	g.backend.Frame(g.runner, time.Second/time.Duration(ebiten.TPS()))

	if !wasOver && g.session.State() == engine.StateGameOver {
		g.refreshRecent()
	}
	return nil
}

func (g *Game) refreshRecent() {
	recent, err := g.store.RecentRecords(context.Background(), scores.MaxRecords)
	if err == nil {
		g.recent = recent
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	snap := g.session.Snapshot()

	drawBoard(screen, snap)
	g.drawSidebar(screen, snap)

	g.backend.DrawOverlay(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.backend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func pieceColor(t engine.PieceType, alpha uint8) color.RGBA {
	r, gr, b := t.RGB()
	if alpha == 0xff {
		return color.RGBA{r, gr, b, alpha}
	}
	// color.RGBA is alpha-premultiplied.
	return color.RGBA{
		uint8(uint16(r) * uint16(alpha) / 0xff),
		uint8(uint16(gr) * uint16(alpha) / 0xff),
		uint8(uint16(b) * uint16(alpha) / 0xff),
		alpha,
	}
}

func drawCell(screen *ebiten.Image, originX, originY float32, x, y int, clr color.Color) {
	if y < 0 {
		return
	}
	vector.DrawFilledRect(screen,
		originX+float32(x*cellSize)+1, originY+float32(y*cellSize)+1,
		cellSize-2, cellSize-2,
		clr, false)
}

func drawBoard(screen *ebiten.Image, snap engine.Snapshot) {
	for y, row := range snap.Board {
		for x, c := range row {
			clr := color.Color(emptyCellColor)
			if t, ok := c.PieceType(); ok {
				clr = pieceColor(t, 0xff)
			}
			drawCell(screen, boardX, boardY, x, y, clr)
		}
	}

	if snap.Current == nil || snap.State == engine.StateIdle {
		return
	}
	ghost := *snap.Current
	ghost.Y = snap.GhostY
	for _, pt := range ghost.Cells() {
		drawCell(screen, boardX, boardY, pt.X, pt.Y, pieceColor(ghost.Type, 0x50))
	}
	for _, pt := range snap.Current.Cells() {
		drawCell(screen, boardX, boardY, pt.X, pt.Y, pieceColor(snap.Current.Type, 0xff))
	}
}

func (g *Game) drawSidebar(screen *ebiten.Image, snap engine.Snapshot) {
	x := boardX + len(snap.Board[0])*cellSize + 40
	y := boardY

	line := func(format string, args ...any) {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf(format, args...), x, y)
		y += 18
	}

	line("SCORE  %d", snap.Score)
	line("HIGH   %d", snap.HighScore)
	line("LEVEL  %d %s", snap.Level.Number, snap.Level.Name)
	line("LINES  %d", snap.LinesCleared)
	y += 18

	line("NEXT")
	if snap.Next != nil {
		preview := *snap.Next
		preview.X, preview.Y = 0, 0
		for _, pt := range preview.Cells() {
			drawCell(screen, float32(x), float32(y), pt.X, pt.Y, pieceColor(preview.Type, 0xff))
		}
	}
	y += 4*cellSize + 18

	switch snap.State {
	case engine.StateIdle:
		line("ENTER to start")
	case engine.StatePaused:
		line("PAUSED - P to resume")
	case engine.StateGameOver:
		line("GAME OVER")
		if snap.IsNewHighScore {
			line("New high score!")
		}
		line("ENTER or R to play again")
	}
	y += 18

	line("RECENT")
	for _, r := range g.recent {
		line("%6d  L%-2d %3d lines  %s", r.Score, r.Level, r.Lines, r.PlayedAt.Local().Format("Jan 2 15:04"))
	}
	y += 18

	line("Arrows move  Up/X/Z rotate  Space drop")
	line("P pause  R restart  F1 inspector")
}
