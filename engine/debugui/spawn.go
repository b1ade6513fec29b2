package debugui

import "github.com/plus3/blockfall/engine"

// NewOverlay builds the standard inspector set for one session. The event log
// must already be subscribed to the session's bus.
func NewOverlay(session *engine.Session, runner *engine.Runner, commands *engine.CommandBuffer, log *engine.EventLog) *Overlay {
	inspector := NewSessionInspector(session, commands)
	board := NewBoardViewer(session)
	events := NewEventLogViewer(log, 50)
	perf := NewPerformanceStats(runner, 120)

	return &Overlay{
		Windows: []Window{
			WindowFunc(inspector.Render),
			WindowFunc(board.Render),
			WindowFunc(events.Render),
			WindowFunc(perf.Render),
		},
	}
}
