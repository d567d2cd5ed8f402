package fvsim

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConstructionError wraps an invariant violation discovered by
// Netlist.Validate or Create, in the style of pkg/errors' annotated
// errors: Unwrap exposes the underlying errors.Errorf value produced by
// Validate so callers can still errors.Is/As through it.
type ConstructionError struct {
	err error
}

func (e *ConstructionError) Error() string { return e.err.Error() }
func (e *ConstructionError) Unwrap() error { return e.err }

func newConstructionError(err error) *ConstructionError {
	return &ConstructionError{err: errors.WithStack(err)}
}

// DeviceError reports a failure from the Dispatcher layer standing in
// for the accelerator boundary (allocation or dispatch failure). The
// goroutine-pool Dispatcher in this package cannot itself fail, so this
// is only surfaced by alternate Dispatcher implementations; the type
// exists so Simulator's contract matches section 7 regardless of which
// Dispatcher backs it.
type DeviceError struct {
	err error
}

func (e *DeviceError) Error() string { return "device: " + e.err.Error() }
func (e *DeviceError) Unwrap() error { return e.err }

func newDeviceError(err error) *DeviceError {
	return &DeviceError{err: errors.WithStack(err)}
}

// MaxIterationsError is returned by StepOutcome.Err for a
// MaxIterationsReached outcome, i.e. when the fixed-point loop exceeds
// its iteration cap without converging, most often because the netlist
// has a combinational cycle. Step itself has no error result.
type MaxIterationsError struct {
	Iterations int
}

func (e *MaxIterationsError) Error() string {
	return fmt.Sprintf("simulation did not converge within %d iterations", e.Iterations)
}

// ConflictError is the non-fatal outcome of Step when the most recent
// wire pass recorded one or more bus conflicts. It is returned as an
// error only by StepOutcome.Err; Step itself has no error result and
// reports a Conflict outcome, matching section 7's treatment of
// conflicts as a step outcome rather than a failure.
type ConflictError struct {
	// Wires lists the conflicting wire indices recorded this pass,
	// truncated to ConflictListCapacity even if more conflicts occurred.
	Wires []uint32
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %d wire(s)", len(e.Wires))
}
