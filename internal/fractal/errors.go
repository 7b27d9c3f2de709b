package fractal

import (
	"errors"
	"fmt"
)

// Domain errors for generation runs.
var (
	// ErrInvalidParameters indicates non-positive dimensions, iterations or zoom.
	ErrInvalidParameters = errors.New("fractal: invalid parameters")

	// ErrInternal indicates an unexpected fault while computing pixels.
	ErrInternal = errors.New("fractal: internal failure")
)

// RenderError wraps a failure with the band that was being computed.
type RenderError struct {
	Band    Band
	Wrapped error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rows %d-%d: %v", e.Band.StartRow, e.Band.EndRow(), e.Wrapped)
}

func (e *RenderError) Unwrap() error {
	return e.Wrapped
}
