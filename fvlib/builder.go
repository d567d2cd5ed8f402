// Package fvlib is a convenience layer over fvsim.Netlist, the way
// hwlib is a convenience layer over hwsim.Part: it lets callers describe
// wires and gates by name instead of hand-computing atom offsets, then
// emits the flat descriptor arrays fvsim.Create expects.
//
// fvlib is one possible external collaborator for netlist construction;
// fvsim itself has no dependency on it.
package fvlib

import (
	"github.com/pkg/errors"

	"github.com/db47h/fvsim"
)

// WireHandle names a wire allocated by a Builder.
type WireHandle int

type componentDef struct {
	kind   fvsim.ComponentKind
	out    WireHandle
	inputs []WireHandle
}

// Builder accumulates wires and components, then produces a validated
// fvsim.Netlist via Build. It is single-use.
type Builder struct {
	widths     []uint32
	drives     map[WireHandle][]fvsim.Atom
	components []componentDef
	err        error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{drives: make(map[WireHandle][]fvsim.Atom)}
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Wire allocates a new wire of the given width and returns its handle.
func (b *Builder) Wire(width uint32) WireHandle {
	b.widths = append(b.widths, width)
	return WireHandle(len(b.widths) - 1)
}

func (b *Builder) width(h WireHandle) uint32 {
	if int(h) < 0 || int(h) >= len(b.widths) {
		b.fail(errors.Errorf("fvlib: invalid wire handle %d", h))
		return 0
	}
	return b.widths[h]
}

func atomCount(width uint32) uint32 { return (width + fvsim.AtomBits - 1) / fvsim.AtomBits }

func (b *Builder) addComponent(kind fvsim.ComponentKind, out WireHandle, ins ...WireHandle) *Builder {
	b.width(out)
	for _, in := range ins {
		b.width(in)
	}
	b.components = append(b.components, componentDef{kind: kind, out: out, inputs: ins})
	return b
}

// Gate adds a binary gate (AND/OR/XOR/NAND/NOR/XNOR) with two or more
// inputs (inputs beyond the first two are folded the same way the
// component kernel folds them) driving out.
func (b *Builder) Gate(kind fvsim.ComponentKind, out WireHandle, ins ...WireHandle) *Builder {
	switch kind {
	case fvsim.KindAnd, fvsim.KindOr, fvsim.KindXor, fvsim.KindNand, fvsim.KindNor, fvsim.KindXnor:
	default:
		b.fail(errors.Errorf("fvlib: Gate called with non-gate kind %s", kind))
		return b
	}
	if len(ins) < 2 {
		b.fail(errors.New("fvlib: Gate needs at least two inputs"))
		return b
	}
	return b.addComponent(kind, out, ins...)
}

// Not adds a NOT gate driving out from in.
func (b *Builder) Not(out, in WireHandle) *Builder {
	return b.addComponent(fvsim.KindNot, out, in)
}

// Buffer adds a tri-state buffer driving out from data, gated by enable
// (only bit 0 of enable is consulted, per the component kernel).
func (b *Builder) Buffer(out, data, enable WireHandle) *Builder {
	return b.addComponent(fvsim.KindBuffer, out, data, enable)
}

// Adder adds an N-bit ADD (or, if sub is true, SUB) driving sum from a and bIn.
func (b *Builder) Adder(sum, a, bIn WireHandle, sub bool) *Builder {
	kind := fvsim.KindAdd
	if sub {
		kind = fvsim.KindSub
	}
	return b.addComponent(kind, sum, a, bIn)
}

// Negate adds a NEG (two's-complement negation) driving out from in.
func (b *Builder) Negate(out, in WireHandle) *Builder {
	return b.addComponent(fvsim.KindNeg, out, in)
}

// Shift adds a shift component (kind must be one of the Lsh/LRsh/ARsh
// kinds) driving out from data, shifted by the amount on amt.
func (b *Builder) Shift(kind fvsim.ComponentKind, out, data, amt WireHandle) *Builder {
	switch kind {
	case fvsim.KindLsh, fvsim.KindLRsh, fvsim.KindARsh:
	default:
		b.fail(errors.Errorf("fvlib: Shift called with non-shift kind %s", kind))
		return b
	}
	return b.addComponent(kind, out, data, amt)
}

// Reduce adds a horizontal reduction gate (kind must be one of the H*
// kinds) driving a 1-bit out from in.
func (b *Builder) Reduce(kind fvsim.ComponentKind, out, in WireHandle) *Builder {
	switch kind {
	case fvsim.KindHAnd, fvsim.KindHOr, fvsim.KindHXor, fvsim.KindHNand, fvsim.KindHNor, fvsim.KindHXnor:
	default:
		b.fail(errors.Errorf("fvlib: Reduce called with non-reduction kind %s", kind))
		return b
	}
	return b.addComponent(kind, out, in)
}

// Compare adds a comparator of the given kind producing a 1-bit result on out.
func (b *Builder) Compare(kind fvsim.ComponentKind, out, a, bIn WireHandle) *Builder {
	return b.addComponent(kind, out, a, bIn)
}

// Drive records atoms as the constant external drive for wire h. Wires
// with no explicit Drive call default to all-HighZ.
func (b *Builder) Drive(h WireHandle, atoms []fvsim.Atom) *Builder {
	w := b.width(h)
	if uint32(len(atoms)) != atomCount(w) {
		b.fail(errors.Errorf("fvlib: wire %d expects %d drive atoms, got %d", h, atomCount(w), len(atoms)))
		return b
	}
	b.drives[h] = atoms
	return b
}

// Build lays out every wire, component and driver into flat atom
// offsets and returns the resulting fvsim.Netlist, or the first error
// recorded by an earlier Wire/Gate/.../Drive call.
func (b *Builder) Build() (*fvsim.Netlist, error) {
	if b.err != nil {
		return nil, b.err
	}

	// Wire state/drive buffer: identical offsets in both arrays, one
	// arena sized to the sum of per-wire atom counts.
	stateOffset := make([]uint32, len(b.widths))
	var wireStateAtoms uint32
	for i, w := range b.widths {
		stateOffset[i] = wireStateAtoms
		wireStateAtoms += atomCount(w)
	}

	nl := &fvsim.Netlist{
		WireStateAtoms: wireStateAtoms,
		InitialDrives:  make([]fvsim.Atom, wireStateAtoms),
	}
	for i := range nl.InitialDrives {
		nl.InitialDrives[i] = fvsim.HighZ
	}
	for h, atoms := range b.drives {
		copy(nl.InitialDrives[stateOffset[h]:], atoms)
	}

	nl.Wires = make([]fvsim.Wire, len(b.widths))
	for i, w := range b.widths {
		nl.Wires[i] = fvsim.Wire{
			Width:             w,
			StateOffset:       stateOffset[i],
			DriveOffset:       stateOffset[i],
			FirstDriverOffset: fvsim.InvalidIndex,
			DriverList:        fvsim.InvalidIndex,
		}
	}

	// Component output buffer: one arena, offsets assigned in
	// declaration order.
	outOffset := make([]uint32, len(b.components))
	var outputStateAtoms uint32
	for i, cd := range b.components {
		outOffset[i] = outputStateAtoms
		outputStateAtoms += atomCount(b.widths[cd.out])
	}
	nl.Components = make([]fvsim.Component, len(b.components))

	for ci, cd := range b.components {
		firstInput := uint32(len(nl.Inputs))
		for _, in := range cd.inputs {
			nl.Inputs = append(nl.Inputs, fvsim.InputDescriptor{
				Width:  b.widths[in],
				Offset: stateOffset[in],
			})
		}
		outWidth := b.widths[cd.out]
		nl.Components[ci] = fvsim.Component{
			Kind:         cd.kind,
			OutputCount:  1,
			InputCount:   uint8(len(cd.inputs)),
			OutputWidth:  outWidth,
			OutputOffset: outOffset[ci],
			FirstInput:   firstInput,
			MemoryOffset: fvsim.InvalidIndex,
		}

		w := &nl.Wires[cd.out]
		if w.FirstDriverOffset == fvsim.InvalidIndex {
			w.FirstDriverWidth = outWidth
			w.FirstDriverOffset = outOffset[ci]
			continue
		}
		next := w.DriverList
		w.DriverList = uint32(len(nl.Drivers))
		nl.Drivers = append(nl.Drivers, fvsim.WireDriver{
			Width:             outWidth,
			OutputStateOffset: outOffset[ci],
			Next:              next,
		})
	}

	nl.OutputStateAtoms = outputStateAtoms

	if err := nl.Validate(); err != nil {
		return nil, err
	}
	return nl, nil
}
