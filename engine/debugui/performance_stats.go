package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/engine"
)

// PerformanceStats graphs frame times and lists per-system timings.
type PerformanceStats struct {
	runner        *engine.Runner
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

func NewPerformanceStats(runner *engine.Runner, historyFrames int) *PerformanceStats {
	return &PerformanceStats{
		runner:        runner,
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
	}
}

func (ps *PerformanceStats) Render(frame *engine.Frame) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ps.frameHistory[ps.frameIndex] = float32(frame.DeltaTime.Seconds() * 1000.0)
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames

	stats := ps.runner.Stats()

	imgui.Text(fmt.Sprintf("Frames: %d", stats.Frames))
	imgui.Text(fmt.Sprintf("Systems: %d", stats.SystemCount))

	var avgFrameTime float32
	for _, ft := range ps.frameHistory {
		avgFrameTime += ft
	}
	avgFrameTime /= float32(ps.historyFrames)
	if avgFrameTime > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	if imgui.TreeNodeStr("System Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemStatsTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Last")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, sys := range stats.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(sys.LastDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}
