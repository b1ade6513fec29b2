package engine

// System is a unit of per-frame work driven by a Runner. Hosts register
// input handling, the Session itself and any observers in the order they
// should run.
type System interface {
	Execute(frame *Frame)
}

// SystemFunc adapts a plain function to the System interface.
type SystemFunc func(frame *Frame)

func (f SystemFunc) Execute(frame *Frame) {
	f(frame)
}
