package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/engine"
)

// BoardViewer draws the locked cells, the ghost and the active piece.
type BoardViewer struct {
	session  *engine.Session
	cellSize float32
}

func NewBoardViewer(session *engine.Session) *BoardViewer {
	return &BoardViewer{session: session, cellSize: 12}
}

func (bv *BoardViewer) Render(frame *engine.Frame) {
	if !imgui.BeginV("Board", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	snap := bv.session.Snapshot()
	drawList := imgui.WindowDrawList()
	origin := imgui.CursorScreenPos()
	size := bv.cellSize

	cell := func(x, y int, col imgui.Vec4) {
		if y < 0 {
			return
		}
		minPos := imgui.NewVec2(origin.X+float32(x)*size, origin.Y+float32(y)*size)
		maxPos := imgui.NewVec2(minPos.X+size-1, minPos.Y+size-1)
		drawList.AddRectFilled(minPos, maxPos, imgui.ColorU32Vec4(col))
	}

	empty := imgui.NewVec4(0.12, 0.12, 0.14, 1)
	for y, row := range snap.Board {
		for x, c := range row {
			if t, ok := c.PieceType(); ok {
				cell(x, y, pieceColor(t, 1))
			} else {
				cell(x, y, empty)
			}
		}
	}

	if snap.Current != nil {
		ghost := *snap.Current
		ghost.Y = snap.GhostY
		for _, pt := range ghost.Cells() {
			cell(pt.X, pt.Y, pieceColor(ghost.Type, 0.3))
		}
		for _, pt := range snap.Current.Cells() {
			cell(pt.X, pt.Y, pieceColor(snap.Current.Type, 1))
		}
	}

	width := float32(len(firstRow(snap.Board))) * size
	height := float32(len(snap.Board)) * size
	imgui.Dummy(imgui.NewVec2(width, height))

	imgui.End()
}

func firstRow(board [][]engine.Cell) []engine.Cell {
	if len(board) == 0 {
		return nil
	}
	return board[0]
}

func pieceColor(t engine.PieceType, alpha float32) imgui.Vec4 {
	r, g, b := t.RGB()
	return imgui.NewVec4(float32(r)/255, float32(g)/255, float32(b)/255, alpha)
}
