package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/engine"
)

// SessionInspector shows live session values and pushes lifecycle commands.
type SessionInspector struct {
	session   *engine.Session
	commands  *engine.CommandBuffer
	highScore int32
}

func NewSessionInspector(session *engine.Session, commands *engine.CommandBuffer) *SessionInspector {
	return &SessionInspector{
		session:   session,
		commands:  commands,
		highScore: int32(session.HighScore()),
	}
}

func (si *SessionInspector) Render(frame *engine.Frame) {
	if !imgui.BeginV("Session", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	snap := si.session.Snapshot()

	imgui.Text(fmt.Sprintf("State: %s", snap.State))
	imgui.Text(fmt.Sprintf("Frame: %d (dt %s)", frame.Index, frame.DeltaTime))
	imgui.Separator()

	if imgui.BeginTableV("SessionValues", 2, imgui.TableFlagsBorders|imgui.TableFlagsRowBg, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Field")
		imgui.TableSetupColumn("Value")
		imgui.TableHeadersRow()

		row := func(name, value string) {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(name)
			imgui.TableNextColumn()
			imgui.Text(value)
		}

		row("Score", fmt.Sprintf("%d", snap.Score))
		row("High Score", fmt.Sprintf("%d (new: %t)", snap.HighScore, snap.IsNewHighScore))
		row("Level", fmt.Sprintf("%d %s", snap.Level.Number, snap.Level.Name))
		row("Lines", fmt.Sprintf("%d", snap.LinesCleared))
		row("Speed", snap.Speed.String())
		row("Difficulty", si.session.Difficulty().Name)
		row("Drop Timer", snap.DropTimer.String())
		row("Lock Timer", snap.LockTimer.String())
		row("Lock Moves", fmt.Sprintf("%d / %d", snap.LockMoves, si.session.Config().LockMoveCap))
		row("Grounded", fmt.Sprintf("%t", snap.Grounded))
		if snap.Current != nil {
			row("Current", pieceLabel(*snap.Current))
			row("Ghost Y", fmt.Sprintf("%d", snap.GhostY))
		}
		if snap.Next != nil {
			row("Next", snap.Next.Type.String())
		}

		imgui.EndTable()
	}

	if imgui.TreeNodeStr("Controls") {
		for _, cmd := range []engine.Command{engine.CommandStart, engine.CommandPause, engine.CommandResume, engine.CommandRestart, engine.CommandStop} {
			if imgui.Button(cmd.String()) {
				si.commands.Push(cmd)
			}
			imgui.SameLine()
		}
		imgui.Text("")

		for _, d := range []engine.Difficulty{engine.Easy, engine.Normal, engine.Hard} {
			if imgui.Button(d.Name) {
				_ = si.session.SetDifficulty(d)
			}
			imgui.SameLine()
		}
		imgui.Text("")

		imgui.SetNextItemWidth(150)
		if imgui.InputInt("High Score##seed", &si.highScore) {
			si.session.Init(int(max(si.highScore, 0)))
		}
		imgui.TreePop()
	}

	imgui.End()
}

func pieceLabel(p engine.Piece) string {
	return fmt.Sprintf("%s rot %d at (%d, %d)", p.Type, p.Rotation, p.X, p.Y)
}
