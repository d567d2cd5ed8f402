package fvsim

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// StepOutcomeKind classifies how a Step call ended.
type StepOutcomeKind int

const (
	Converged StepOutcomeKind = iota
	MaxIterationsReached
	Conflict
)

func (k StepOutcomeKind) String() string {
	switch k {
	case Converged:
		return "Converged"
	case MaxIterationsReached:
		return "MaxIterationsReached"
	case Conflict:
		return "Conflict"
	default:
		return "Unknown"
	}
}

// StepOutcome is the result of running the fixed-point loop once.
type StepOutcome struct {
	Kind       StepOutcomeKind
	Iterations int
	// ConflictWires is populated only when Kind == Conflict.
	ConflictWires []uint32
}

// Err returns a typed error for MaxIterationsReached and Conflict
// outcomes, or nil for Converged, so callers that prefer the error
// idiom over inspecting Kind can use either.
func (o StepOutcome) Err() error {
	switch o.Kind {
	case MaxIterationsReached:
		return &MaxIterationsError{Iterations: o.Iterations}
	case Conflict:
		return &ConflictError{Wires: o.ConflictWires}
	default:
		return nil
	}
}

// DefaultMaxIterations is used by Step when the caller passes 0.
const DefaultMaxIterations = 1_000_000

// Simulator owns one netlist's buffers and dispatcher, and drives the
// fixed-point loop described by the component/wire/reset kernels. A
// Simulator is not safe for concurrent Step calls; concurrent Read*
// calls that don't race a Step are fine since they only read buffers
// the kernels aren't currently writing.
type Simulator struct {
	nl   *Netlist
	buf  *Buffers
	disp *Dispatcher

	// Log receives Debug-level per-iteration progress and Warn-level
	// notices for conflicts and non-convergence. Defaults to
	// logrus.StandardLogger() so a Simulator is usable without any
	// configuration, matching how the rest of this package's ambient
	// stack degrades gracefully.
	Log *logrus.Logger
}

// Create validates nl and allocates a Simulator's buffers and worker
// pool. workers is passed straight to NewDispatcher (0 or negative
// means GOMAXPROCS).
func Create(nl *Netlist, workers int) (*Simulator, error) {
	if err := nl.Validate(); err != nil {
		return nil, newConstructionError(err)
	}
	s := &Simulator{
		nl:   nl,
		buf:  newBuffers(nl),
		disp: NewDispatcher(workers),
		Log:  logrus.StandardLogger(),
	}
	return s, nil
}

// Close stops the Simulator's worker pool. A Simulator must not be used
// after Close.
func (s *Simulator) Close() { s.disp.Close() }

// SetDrive writes atoms into wire wireIndex's drive slice. It does not
// trigger stepping; the new drive is only observed by the next wire
// pass inside Step.
func (s *Simulator) SetDrive(wireIndex int, atoms []Atom) error {
	if wireIndex < 0 || wireIndex >= len(s.buf.Wires) {
		return newConstructionError(errors.Errorf("wire index %d out of range", wireIndex))
	}
	w := s.buf.Wires[wireIndex]
	n := int(w.AtomCount())
	if len(atoms) != n {
		return newConstructionError(errors.Errorf("wire %d expects %d drive atoms, got %d", wireIndex, n, len(atoms)))
	}
	copy(s.buf.WireDrives[w.DriveOffset:uint32(w.DriveOffset)+uint32(n)], atoms)
	return nil
}

// ReadWire copies out wire wireIndex's current state atoms.
func (s *Simulator) ReadWire(wireIndex int) ([]Atom, error) {
	if wireIndex < 0 || wireIndex >= len(s.buf.Wires) {
		return nil, newConstructionError(errors.Errorf("wire index %d out of range", wireIndex))
	}
	w := s.buf.Wires[wireIndex]
	n := w.AtomCount()
	out := make([]Atom, n)
	copy(out, s.buf.WireStates[w.StateOffset:w.StateOffset+n])
	return out, nil
}

// ReadOutput copies out componentIndex's primary output-state atoms.
// outputSlot is accepted for forward compatibility with multi-output
// kinds but every kind currently implemented has exactly one output, so
// any value other than 0 is rejected.
func (s *Simulator) ReadOutput(componentIndex, outputSlot int) ([]Atom, error) {
	if componentIndex < 0 || componentIndex >= len(s.buf.Components) {
		return nil, newConstructionError(errors.Errorf("component index %d out of range", componentIndex))
	}
	if outputSlot != 0 {
		return nil, newConstructionError(errors.Errorf("component %d has no output slot %d", componentIndex, outputSlot))
	}
	c := s.buf.Components[componentIndex]
	n := atomCount(c.OutputWidth)
	out := make([]Atom, n)
	copy(out, s.buf.OutputStates[c.OutputOffset:c.OutputOffset+n])
	return out, nil
}

// Reset zeroes wire states, output states and the control word, while
// preserving drives.
func (s *Simulator) Reset() {
	for i := range s.buf.WireStates {
		s.buf.WireStates[i] = HighZ
	}
	for i := range s.buf.OutputStates {
		s.buf.OutputStates[i] = HighZ
	}
	s.buf.Control = ControlWord{}
}

// Step first runs one wire pass so that the current drives (including
// any changed by SetDrive since the last Step) are applied, then runs
// the fixed-point loop: component pass, reset, convergence check, wire
// pass, reset, conflict/convergence check, repeating until one of the
// three outcomes is reached or maxIterations is exhausted. A conflict
// found by the initial wire pass is reported with Iterations == 0.
// maxIterations <= 0 uses DefaultMaxIterations.
func (s *Simulator) Step(maxIterations int) StepOutcome {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	b := s.buf
	b.Control.primeForStep()

	b.Control.MarkComponentsChanged()
	RunWirePass(s.disp, b)
	RunResetPass(b, ResetComponentsChanged)
	if b.Control.HasConflicts() {
		wires := s.conflictWires()
		s.Log.Warnf("fvsim: conflict on %d wire(s) before the first iteration", len(wires))
		return StepOutcome{Kind: Conflict, Iterations: 0, ConflictWires: wires}
	}

	for iter := 1; iter <= maxIterations; iter++ {
		RunComponentPass(s.disp, b)
		RunResetPass(b, ResetWiresChanged)

		if !b.Control.ComponentsChanged() {
			s.Log.Debugf("fvsim: converged after %d iteration(s)", iter)
			return StepOutcome{Kind: Converged, Iterations: iter}
		}

		RunWirePass(s.disp, b)
		RunResetPass(b, ResetComponentsChanged)

		if b.Control.HasConflicts() {
			wires := s.conflictWires()
			s.Log.Warnf("fvsim: conflict on %d wire(s) after %d iteration(s)", len(wires), iter)
			return StepOutcome{Kind: Conflict, Iterations: iter, ConflictWires: wires}
		}
		if !b.Control.WiresChanged() {
			s.Log.Debugf("fvsim: converged after %d iteration(s)", iter)
			return StepOutcome{Kind: Converged, Iterations: iter}
		}
		s.Log.Debugf("fvsim: iteration %d complete", iter)
	}

	s.Log.Warnf("fvsim: did not converge within %d iterations", maxIterations)
	return StepOutcome{Kind: MaxIterationsReached, Iterations: maxIterations}
}

func (s *Simulator) conflictWires() []uint32 {
	n := s.buf.Control.ConflictListLen()
	if n > ConflictListCapacity {
		n = ConflictListCapacity
	}
	out := make([]uint32, n)
	copy(out, s.buf.ConflictList[:n])
	return out
}
