package engine

import (
	"fmt"
	"strings"
	"sync"
)

// Command is a player or host action that can be queued and replayed.
type Command int

const (
	CommandMoveLeft Command = iota + 1
	CommandMoveRight
	CommandSoftDrop
	CommandHardDrop
	CommandRotateCW
	CommandRotateCCW
	CommandPause
	CommandResume
	CommandStart
	CommandRestart
	CommandStop
	CommandTogglePause
)

var commandNames = map[Command]string{
	CommandMoveLeft:    "moveLeft",
	CommandMoveRight:   "moveRight",
	CommandSoftDrop:    "softDrop",
	CommandHardDrop:    "hardDrop",
	CommandRotateCW:    "rotateCW",
	CommandRotateCCW:   "rotateCCW",
	CommandPause:       "pause",
	CommandResume:      "resume",
	CommandStart:       "start",
	CommandRestart:     "restart",
	CommandStop:        "stop",
	CommandTogglePause: "togglePause",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// ParseCommand maps a command name, as printed by String, back to its value.
func ParseCommand(name string) (Command, error) {
	for cmd, n := range commandNames {
		if strings.EqualFold(n, name) {
			return cmd, nil
		}
	}
	return 0, fmt.Errorf("unknown command %q", name)
}

// Apply dispatches cmd to the matching session method and reports whether it
// was accepted. Restart and Stop are always accepted.
func (s *Session) Apply(cmd Command) bool {
	switch cmd {
	case CommandMoveLeft:
		return s.MoveLeft()
	case CommandMoveRight:
		return s.MoveRight()
	case CommandSoftDrop:
		return s.SoftDrop()
	case CommandHardDrop:
		return s.HardDrop()
	case CommandRotateCW:
		return s.RotateCW()
	case CommandRotateCCW:
		return s.RotateCCW()
	case CommandPause:
		return s.Pause()
	case CommandResume:
		return s.Resume()
	case CommandStart:
		return s.Start()
	case CommandRestart:
		s.Restart()
		return true
	case CommandStop:
		s.Stop()
		return true
	case CommandTogglePause:
		return s.Pause() || s.Resume()
	}
	return false
}

// CommandBuffer queues commands from any goroutine and applies them to a
// session when executed as a System, so the session is only ever touched
// from the frame loop.
type CommandBuffer struct {
	mu      sync.Mutex
	session *Session
	pending []Command
	applied []Command
}

// NewCommandBuffer creates a buffer that feeds session.
func NewCommandBuffer(session *Session) *CommandBuffer {
	return &CommandBuffer{session: session}
}

// Push queues a command for the next frame.
func (b *CommandBuffer) Push(cmd Command) {
	b.mu.Lock()
	b.pending = append(b.pending, cmd)
	b.mu.Unlock()
}

// Len returns the number of queued commands.
func (b *CommandBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Flush applies every queued command in order and returns how many the
// session accepted.
func (b *CommandBuffer) Flush() int {
	b.mu.Lock()
	b.pending, b.applied = b.applied[:0], b.pending
	b.mu.Unlock()

	accepted := 0
	for _, cmd := range b.applied {
		if b.session.Apply(cmd) {
			accepted++
		}
	}
	return accepted
}

func (b *CommandBuffer) Execute(frame *Frame) {
	b.Flush()
}
