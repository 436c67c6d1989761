package scene

import (
	"context"
	"fmt"
)

// Names of handlers that run on every time step.
const (
	HandlerOnTime      = "on_time"
	HandlerTimeChanged = "time_changed"
)

// Handler is an event handler registered by the authoring layer.
// Body is opaque here; it is executed by a HandlerRunner.
type Handler struct {
	Name string
	Body string
}

// IsTimeHandler reports whether h runs on time steps.
func (h Handler) IsTimeHandler() bool {
	return h.Name == HandlerOnTime || h.Name == HandlerTimeChanged
}

// TimeVars are the variables visible to a time handler.
type TimeVars struct {
	Seconds float32
	Frame   uint32
}

// HandlerRunner executes handler bodies against a working copy of the
// flattened scene. Implementations may mutate elems in place.
type HandlerRunner interface {
	RunHandler(ctx context.Context, h Handler, vars TimeVars, elems []Element) error
}

// FuncRunner adapts a Go function to HandlerRunner.
type FuncRunner func(ctx context.Context, h Handler, vars TimeVars, elems []Element) error

// RunHandler calls f.
func (f FuncRunner) RunHandler(ctx context.Context, h Handler, vars TimeVars, elems []Element) error {
	return f(ctx, h, vars, elems)
}

// ApplyTimeHandlers runs every time handler against elems in order.
// A nil runner is a no-op. The first failing handler stops the run.
func ApplyTimeHandlers(ctx context.Context, runner HandlerRunner, handlers []Handler, vars TimeVars, elems []Element) error {
	if runner == nil {
		return nil
	}
	for _, h := range handlers {
		if !h.IsTimeHandler() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := runner.RunHandler(ctx, h, vars, elems); err != nil {
			return fmt.Errorf("scene: handler %q: %w", h.Name, err)
		}
	}
	return nil
}

// HasTimeHandlers reports whether any handler runs on time steps.
func HasTimeHandlers(handlers []Handler) bool {
	for _, h := range handlers {
		if h.IsTimeHandler() {
			return true
		}
	}
	return false
}
