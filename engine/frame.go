package engine

import "time"

// Frame carries the inputs of one Runner step.
type Frame struct {
	DeltaTime time.Duration
	Index     uint64
}

func newFrame(dt time.Duration, index uint64) *Frame {
	return &Frame{
		DeltaTime: dt,
		Index:     index,
	}
}
