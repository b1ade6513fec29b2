package debugui

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/engine"
)

// EventLogViewer lists recent session events, newest first, with a text
// filter on the event name.
type EventLogViewer struct {
	log             *engine.EventLog
	filterText      string
	maxRowsPerPage  int
	currentPage     int
	selectedSeq     uint64
}

func NewEventLogViewer(log *engine.EventLog, maxRowsPerPage int) *EventLogViewer {
	return &EventLogViewer{log: log, maxRowsPerPage: maxRowsPerPage}
}

func (ev *EventLogViewer) Render(frame *engine.Frame) {
	if !imgui.BeginV("Event Log", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.InputTextWithHint("##search", "Filter events...", &ev.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		ev.filterText = ""
	}
	imgui.SameLine()
	if imgui.Button("Clear Log") {
		ev.log.Reset()
		ev.currentPage = 0
	}

	filtered := ev.filteredEvents()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EventTable", 3, tableFlags, imgui.NewVec2(0, 300), 0) {
		imgui.TableSetupColumn("Seq")
		imgui.TableSetupColumn("Event")
		imgui.TableSetupColumn("Payload")
		imgui.TableHeadersRow()

		startIdx := ev.currentPage * ev.maxRowsPerPage
		endIdx := min(startIdx+ev.maxRowsPerPage, len(filtered))

		for i := startIdx; i < endIdx; i++ {
			entry := filtered[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := ev.selectedSeq == entry.Seq
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entry.Seq), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				ev.selectedSeq = entry.Seq
			}

			imgui.TableNextColumn()
			imgui.Text(entry.Type.String())

			imgui.TableNextColumn()
			imgui.Text(payloadSummary(entry.Payload))
		}

		imgui.EndTable()
	}

	if len(filtered) > ev.maxRowsPerPage {
		totalPages := (len(filtered) + ev.maxRowsPerPage - 1) / ev.maxRowsPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d events)", ev.currentPage+1, totalPages, len(filtered)))
		imgui.SameLine()
		if imgui.Button("Prev") && ev.currentPage > 0 {
			ev.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && ev.currentPage < totalPages-1 {
			ev.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Showing %d of %d events", len(filtered), ev.log.Total()))
	}

	imgui.End()
}

func (ev *EventLogViewer) filteredEvents() []engine.LoggedEvent {
	events := ev.log.Events()
	filter := strings.ToLower(strings.TrimSpace(ev.filterText))

	out := make([]engine.LoggedEvent, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		if filter == "" || strings.Contains(events[i].Type.String(), filter) {
			out = append(out, events[i])
		}
	}
	if ev.currentPage*ev.maxRowsPerPage >= len(out) {
		ev.currentPage = 0
	}
	return out
}

func payloadSummary(payload any) string {
	if payload == nil {
		return "-"
	}
	return fmt.Sprintf("%+v", payload)
}
