package fvsim

import "sync/atomic"

// ConflictListCapacity bounds the conflict list buffer (binding 10). A
// wire pass that discovers more conflicts than this simply stops
// recording them; the length counter in the control word still
// increments past capacity so callers can tell overflow happened (I5).
const ConflictListCapacity = 256

// ResetMask is the reset kernel's push constant: which change flags to
// clear on this invocation.
type ResetMask uint32

const (
	ResetWiresChanged      ResetMask = 1 << 0
	ResetComponentsChanged ResetMask = 1 << 1
)

// ControlWord holds the four atomic counters/flags shared between
// dispatches (binding 9): wires_changed and components_changed are set
// by any contributing work-item and only ever read after a dispatch
// completes, so a relaxed atomic store/OR is sufficient (see spec
// section 5); conflict_list_len needs a real fetch-add since each
// appender must learn the index it reserved.
type ControlWord struct {
	wiresChanged      atomic.Uint32
	componentsChanged atomic.Uint32
	conflictListLen   atomic.Uint32
	hasConflicts      atomic.Uint32
}

// MarkWiresChanged flags that at least one wire's state differed this pass.
func (c *ControlWord) MarkWiresChanged() { c.wiresChanged.Store(1) }

// MarkComponentsChanged flags that at least one component's output differed this pass.
func (c *ControlWord) MarkComponentsChanged() { c.componentsChanged.Store(1) }

// WiresChanged reports whether any wire changed in the most recent wire pass.
func (c *ControlWord) WiresChanged() bool { return c.wiresChanged.Load() != 0 }

// ComponentsChanged reports whether any component output changed in the
// most recent component pass.
func (c *ControlWord) ComponentsChanged() bool { return c.componentsChanged.Load() != 0 }

// HasConflicts reports the flag most recently republished by the reset kernel.
func (c *ControlWord) HasConflicts() bool { return c.hasConflicts.Load() != 0 }

// ConflictListLen returns the number of conflicts recorded, which may
// exceed ConflictListCapacity if the wire pass overflowed the list (I5).
func (c *ControlWord) ConflictListLen() uint32 { return c.conflictListLen.Load() }

// reserveConflictSlot performs the fetch-add each conflicting work-item
// needs to learn the index it may write to.
func (c *ControlWord) reserveConflictSlot() uint32 { return c.conflictListLen.Add(1) - 1 }

// reset clears the flags named by mask and republishes has_conflicts
// from the (possibly stale, possibly overflowed) conflict counter. This
// is the reset kernel: a single, non-parallel invocation that is the
// synchronization point turning change flags into a one-phase-per-
// iteration protocol.
func (c *ControlWord) reset(mask ResetMask) {
	if mask&ResetWiresChanged != 0 {
		c.wiresChanged.Store(0)
	}
	if mask&ResetComponentsChanged != 0 {
		c.componentsChanged.Store(0)
	}
	if c.conflictListLen.Load() > 0 {
		c.hasConflicts.Store(1)
	} else {
		c.hasConflicts.Store(0)
	}
}

func (c *ControlWord) primeForStep() {
	c.wiresChanged.Store(1)
	c.componentsChanged.Store(0)
	c.conflictListLen.Store(0)
	c.hasConflicts.Store(0)
}

// Buffers is the flat, pointer-free storage schema shared by both
// kernels, one field per accelerator storage binding (spec section 6).
// Every slice is addressed by plain integer index; there is no
// per-object heap allocation once a Buffers is built by Create.
type Buffers struct {
	// binding 0
	WireStates []Atom
	// binding 1
	WireDrives []Atom
	// binding 2
	WireDrivers []WireDriver
	// binding 3
	Wires []Wire
	// binding 4
	OutputStates []Atom
	// binding 5
	Outputs []OutputDescriptor
	// binding 6
	Inputs []InputDescriptor
	// binding 7 (reserved; no kernel reads or writes it)
	Memory []Atom
	// binding 8
	Components []Component
	// binding 9
	Control ControlWord
	// binding 10
	ConflictList [ConflictListCapacity]uint32
}

func newBuffers(nl *Netlist) *Buffers {
	b := &Buffers{
		WireStates:   make([]Atom, nl.WireStateAtoms),
		WireDrives:   append([]Atom(nil), nl.InitialDrives...),
		WireDrivers:  append([]WireDriver(nil), nl.Drivers...),
		Wires:        append([]Wire(nil), nl.Wires...),
		OutputStates: make([]Atom, nl.OutputStateAtoms),
		Outputs:      append([]OutputDescriptor(nil), nl.Outputs...),
		Inputs:       append([]InputDescriptor(nil), nl.Inputs...),
		Memory:       make([]Atom, nl.MemoryAtoms),
		Components:   append([]Component(nil), nl.Components...),
	}
	for i := range b.WireStates {
		b.WireStates[i] = HighZ
	}
	for i := range b.OutputStates {
		b.OutputStates[i] = HighZ
	}
	return b
}

// packedComponent returns the on-device packed descriptor word for
// component i, matching PackComponentDescriptor. Conversions like this
// happen only at "buffer upload"; the in-host Component stays unpacked.
func (b *Buffers) packedComponent(i int) uint32 {
	c := b.Components[i]
	return PackComponentDescriptor(c.Kind, c.OutputCount, c.InputCount)
}
