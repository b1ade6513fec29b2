package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/blockfall/engine"
)

// Each cell is two columns wide so blocks look square.
const (
	cellCols = 2
	originX  = 2
	originY  = 1
)

var (
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	dimStyle    = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
)

func pieceStyle(t engine.PieceType) tcell.Style {
	r, g, b := t.RGB()
	return tcell.StyleDefault.Background(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
}

func putStr(screen tcell.Screen, x, y int, style tcell.Style, s string) {
	for i, r := range []rune(s) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

func putCell(screen tcell.Screen, x, y int, mainc rune, style tcell.Style) {
	if y < 0 {
		return
	}
	sx := originX + 1 + x*cellCols
	sy := originY + 1 + y
	for i := 0; i < cellCols; i++ {
		screen.SetContent(sx+i, sy, mainc, nil, style)
	}
}

func drawBorder(screen tcell.Screen, width, height int) {
	right := originX + 1 + width*cellCols
	bottom := originY + 1 + height
	for y := originY; y <= bottom; y++ {
		screen.SetContent(originX, y, '│', nil, borderStyle)
		screen.SetContent(right, y, '│', nil, borderStyle)
	}
	for x := originX; x <= right; x++ {
		screen.SetContent(x, bottom, '─', nil, borderStyle)
	}
	screen.SetContent(originX, bottom, '└', nil, borderStyle)
	screen.SetContent(right, bottom, '┘', nil, borderStyle)
}

func draw(screen tcell.Screen, snap engine.Snapshot, muted bool) {
	screen.Clear()

	height := len(snap.Board)
	width := len(snap.Board[0])
	drawBorder(screen, width, height)

	for y, row := range snap.Board {
		for x, c := range row {
			if t, ok := c.PieceType(); ok {
				putCell(screen, x, y, ' ', pieceStyle(t))
			} else {
				putCell(screen, x, y, '·', dimStyle)
			}
		}
	}

	if snap.Current != nil && snap.State != engine.StateIdle {
		ghost := *snap.Current
		ghost.Y = snap.GhostY
		r, g, b := ghost.Type.RGB()
		ghostStyle := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
		for _, pt := range ghost.Cells() {
			putCell(screen, pt.X, pt.Y, '░', ghostStyle)
		}
		for _, pt := range snap.Current.Cells() {
			putCell(screen, pt.X, pt.Y, ' ', pieceStyle(snap.Current.Type))
		}
	}

	sx := originX + width*cellCols + 5
	y := originY + 1
	line := func(style tcell.Style, format string, args ...any) {
		putStr(screen, sx, y, style, fmt.Sprintf(format, args...))
		y++
	}

	line(textStyle, "SCORE %8d", snap.Score)
	line(textStyle, "HIGH  %8d", snap.HighScore)
	line(textStyle, "LEVEL %8d", snap.Level.Number)
	line(dimStyle, "      %8s", snap.Level.Name)
	line(textStyle, "LINES %8d", snap.LinesCleared)
	y++

	line(textStyle, "NEXT")
	if snap.Next != nil {
		preview := *snap.Next
		preview.X, preview.Y = 0, 0
		style := pieceStyle(preview.Type)
		for _, pt := range preview.Cells() {
			for i := 0; i < cellCols; i++ {
				screen.SetContent(sx+pt.X*cellCols+i, y+pt.Y, ' ', nil, style)
			}
		}
	}
	y += 5

	switch snap.State {
	case engine.StateIdle:
		line(textStyle, "ENTER to start")
	case engine.StatePaused:
		line(textStyle, "PAUSED")
	case engine.StateGameOver:
		line(textStyle, "GAME OVER")
		if snap.IsNewHighScore {
			line(textStyle, "New high score!")
		}
		line(textStyle, "ENTER or r to play again")
	}
	y++

	line(dimStyle, "←/→ move  ↓ soft drop")
	line(dimStyle, "↑/x/z rotate  space drop")
	line(dimStyle, "p pause  r restart  m mute")
	if muted {
		line(dimStyle, "(muted)")
	}
	line(dimStyle, "q/esc quit")

	screen.Show()
}
