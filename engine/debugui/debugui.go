// Package debugui provides Dear ImGui inspector windows for a running
// session: its state, the board, the event stream and frame timings.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/engine"
)

// Window is one inspector window rendered every frame.
type Window interface {
	Render(frame *engine.Frame)
}

// WindowFunc adapts a plain render function to Window.
type WindowFunc func(frame *engine.Frame)

func (f WindowFunc) Render(frame *engine.Frame) { f(frame) }

// InputState tracks whether Dear ImGui is consuming mouse or keyboard input.
// Hosts consult it before forwarding key presses to the session.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Overlay renders its windows as a runner System. It must be registered
// after the session so windows show the state of the frame just simulated,
// and the host must call it between the backend's BeginFrame and EndFrame.
type Overlay struct {
	Windows []Window
	Input   InputState
	Visible bool
}

// Execute updates input state and renders every window while visible.
func (o *Overlay) Execute(frame *engine.Frame) {
	if !o.Visible {
		o.Input = InputState{}
		return
	}
	o.Input.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
	o.Input.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()

	for _, w := range o.Windows {
		w.Render(frame)
	}
}

// Toggle flips overlay visibility.
func (o *Overlay) Toggle() {
	o.Visible = !o.Visible
}
