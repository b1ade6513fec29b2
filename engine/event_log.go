package engine

// EventLog keeps the most recent events in a fixed-size ring.
type EventLog struct {
	entries []LoggedEvent
	next    int
	full    bool
	seq     uint64
}

// LoggedEvent is an event stamped with its position in the stream.
type LoggedEvent struct {
	Seq uint64
	Event
}

// NewEventLog creates a log that retains up to capacity events.
func NewEventLog(capacity int) *EventLog {
	if capacity < 1 {
		capacity = 1
	}
	return &EventLog{entries: make([]LoggedEvent, capacity)}
}

// Record appends ev, overwriting the oldest entry when full. Its signature
// matches Handler so it can be passed to SubscribeAll directly.
func (l *EventLog) Record(ev Event) {
	l.seq++
	l.entries[l.next] = LoggedEvent{Seq: l.seq, Event: ev}
	l.next = (l.next + 1) % len(l.entries)
	if l.next == 0 {
		l.full = true
	}
}

// Events returns the retained events, oldest first.
func (l *EventLog) Events() []LoggedEvent {
	if !l.full {
		return append([]LoggedEvent(nil), l.entries[:l.next]...)
	}
	out := make([]LoggedEvent, 0, len(l.entries))
	out = append(out, l.entries[l.next:]...)
	return append(out, l.entries[:l.next]...)
}

// Len returns the number of retained events.
func (l *EventLog) Len() int {
	if l.full {
		return len(l.entries)
	}
	return l.next
}

// Total returns how many events have ever been recorded.
func (l *EventLog) Total() uint64 {
	return l.seq
}

// Reset forgets every retained event.
func (l *EventLog) Reset() {
	clear(l.entries)
	l.next = 0
	l.full = false
	l.seq = 0
}
