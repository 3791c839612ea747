package cli

import (
	"context"
	"runtime/trace"
)

// phase tracks a run through Created, Capturing, Ready, Dispatching and
// Terminated, strictly in that order.
type phase int

const (
	phaseStart phase = iota
	phaseCreated
	phaseCapturing
	phaseReady
	phaseDispatching
	phaseTerminated
)

func (p phase) String() string {
	switch p {
	case phaseStart:
		return "start"
	case phaseCreated:
		return "created"
	case phaseCapturing:
		return "capturing"
	case phaseReady:
		return "ready"
	case phaseDispatching:
		return "dispatching"
	case phaseTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

func withTraceRegion[T any](ctx context.Context, name string, fn func() (T, error)) (T, error) {
	var value T
	var err error
	trace.WithRegion(ctx, name, func() {
		value, err = fn()
	})
	return value, err
}
