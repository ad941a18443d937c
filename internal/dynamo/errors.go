package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidArgument indicates an unknown axis identifier or a malformed input.
	ErrInvalidArgument = errors.New("dynamo: invalid argument")

	// ErrConfiguration indicates a configured value outside its valid range.
	ErrConfiguration = errors.New("dynamo: configuration error")

	// ErrInvalidState indicates a spin direction with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// SimulationError wraps an error with the frame that failed.
type SimulationError struct {
	Frame   int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Frame, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
