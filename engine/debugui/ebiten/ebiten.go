// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	"time"

	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/blockfall/engine"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// Use this to integrate Dear ImGui rendering into Ebiten game loops.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// NewImguiBackend creates the backend and its window with imgui.ini disabled.
func NewImguiBackend(title string, width, height int) *ImguiBackend {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return &ImguiBackend{EbitenBackend: backend}
}

// Frame runs one runner frame inside an ImGui frame, so a debugui.Overlay
// registered on the runner can issue ImGui calls.
func (b *ImguiBackend) Frame(runner *engine.Runner, dt time.Duration) {
	b.BeginFrame()
	runner.Once(dt)
	b.EndFrame()
}

// DrawOverlay draws the ImGui output on top of screen.
func (b *ImguiBackend) DrawOverlay(screen *ebiten.Image) {
	b.Draw(screen)
}
