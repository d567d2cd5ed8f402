package fvsim

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
)

// InvalidIndex is the sentinel terminating driver linked lists and
// marking "no first driver" on a Wire.
const InvalidIndex = ^uint32(0)

// MinWireWidth and MaxWireWidth bound the width of any wire or
// component input/output, matching the packed atom layout (up to eight
// 32-bit atoms per net).
const (
	MinWireWidth = 1
	MaxWireWidth = 256
)

// ComponentKind tags the combinational primitive a Component evaluates.
// The gate family, NOT, BUFFER, ADD and SUB are the kinds specified
// normatively; the remainder extend the enumeration the way
// original_source's ComponentKind does, and are evaluated per
// DESIGN.md's resolution of the "reserved kinds" open question.
type ComponentKind uint16

const (
	KindAnd ComponentKind = iota
	KindOr
	KindXor
	KindNand
	KindNor
	KindXnor
	KindNot
	KindBuffer
	KindAdd
	KindSub
	KindNeg
	KindLsh
	KindLRsh
	KindARsh
	KindHAnd
	KindHOr
	KindHXor
	KindHNand
	KindHNor
	KindHXnor
	KindCmpEq
	KindCmpNe
	KindCmpUlt
	KindCmpUgt
	KindCmpUle
	KindCmpUge
	KindCmpSlt
	KindCmpSgt
	KindCmpSle
	KindCmpSge
)

func (k ComponentKind) String() string {
	switch k {
	case KindAnd:
		return "AND"
	case KindOr:
		return "OR"
	case KindXor:
		return "XOR"
	case KindNand:
		return "NAND"
	case KindNor:
		return "NOR"
	case KindXnor:
		return "XNOR"
	case KindNot:
		return "NOT"
	case KindBuffer:
		return "BUFFER"
	case KindAdd:
		return "ADD"
	case KindSub:
		return "SUB"
	case KindNeg:
		return "NEG"
	case KindLsh:
		return "LSH"
	case KindLRsh:
		return "LRSH"
	case KindARsh:
		return "ARSH"
	case KindHAnd:
		return "HAND"
	case KindHOr:
		return "HOR"
	case KindHXor:
		return "HXOR"
	case KindHNand:
		return "HNAND"
	case KindHNor:
		return "HNOR"
	case KindHXnor:
		return "HXNOR"
	case KindCmpEq:
		return "CMPEQ"
	case KindCmpNe:
		return "CMPNE"
	case KindCmpUlt:
		return "CMPULT"
	case KindCmpUgt:
		return "CMPUGT"
	case KindCmpUle:
		return "CMPULE"
	case KindCmpUge:
		return "CMPUGE"
	case KindCmpSlt:
		return "CMPSLT"
	case KindCmpSgt:
		return "CMPSGT"
	case KindCmpSle:
		return "CMPSLE"
	case KindCmpSge:
		return "CMPSGE"
	default:
		return "UNKNOWN"
	}
}

// PackComponentDescriptor packs (kind, output_count, input_count) into a
// single 32-bit word the way the accelerator-side layout does: kind in
// the low 16 bits, output_count in bits 16-23, input_count in bits
// 24-31. The in-host Component type below keeps these unpacked; packing
// only happens at buffer upload (see Buffers.packedComponent).
func PackComponentDescriptor(kind ComponentKind, outputCount, inputCount uint8) uint32 {
	return uint32(kind) | uint32(outputCount)<<16 | uint32(inputCount)<<24
}

// UnpackComponentDescriptor reverses PackComponentDescriptor.
func UnpackComponentDescriptor(word uint32) (kind ComponentKind, outputCount, inputCount uint8) {
	return ComponentKind(word & 0xFFFF), uint8(word >> 16), uint8(word >> 24)
}

// Wire is a stable-indexed, addressable multi-bit net. Its topology
// (width, offsets, driver list) is immutable after Create; only its
// state atoms, owned exclusively by the wire kernel, change over the
// life of a Simulator.
type Wire struct {
	// Width is the bit width of the wire, 1..MaxWireWidth.
	Width uint32
	// StateOffset indexes the wire-state atom array.
	StateOffset uint32
	// DriveOffset indexes the wire-drive atom array (the externally
	// imposed baseline for this wire).
	DriveOffset uint32
	// FirstDriverWidth/FirstDriverOffset describe the inline fast-path
	// first driver, pointing into the output-state array. FirstDriverOffset
	// is InvalidIndex if the wire has no drivers at all.
	FirstDriverWidth  uint32
	FirstDriverOffset uint32
	// DriverList is the head index into the driver linked-list array,
	// or InvalidIndex if there is at most the inline first driver.
	DriverList uint32
}

func (w Wire) hasFirstDriver() bool { return w.FirstDriverOffset != InvalidIndex }

// AtomCount returns the number of atoms needed to store a value of this
// wire's width.
func (w Wire) AtomCount() uint32 { return atomCount(w.Width) }

func atomCount(width uint32) uint32 { return (width + AtomBits - 1) / AtomBits }

// WireDriver is one node of a wire's intrusive driver linked list,
// naming an additional component output beyond the inline first driver.
type WireDriver struct {
	Width             uint32
	OutputStateOffset uint32
	Next              uint32 // InvalidIndex terminates the list
}

// Component is a stable-indexed combinational primitive. Only its
// output-state atoms (owned exclusively by this component) are mutated
// by the component kernel; its topology is immutable after Create.
type Component struct {
	Kind ComponentKind
	// InputCount counts the consecutive Inputs entries starting at
	// FirstInput. OutputCount is the number of logical outputs; today
	// every kind has exactly one, addressed by OutputWidth/OutputOffset
	// rather than through Outputs, and the field exists for the packed
	// on-device descriptor's shape.
	OutputCount uint8
	InputCount  uint8
	// OutputWidth is the width of the primary output.
	OutputWidth uint32
	// OutputOffset indexes this component's output-state atoms.
	OutputOffset uint32
	// FirstInput indexes the input-descriptor array; InputCount
	// consecutive entries starting here belong to this component.
	FirstInput uint32
	// MemoryOffset/MemorySize are reserved for future sequential
	// components; no kernel in this package reads or writes them.
	MemoryOffset uint32
	MemorySize   uint32
}

// InputDescriptor references a slice of wire-state atoms consumed by a
// component input.
type InputDescriptor struct {
	Width  uint32
	Offset uint32
}

// OutputDescriptor references a slice of output-state atoms owned by a
// component output.
type OutputDescriptor struct {
	Width  uint32
	Offset uint32
}

// Netlist is the plain-data contract produced by an external
// constructor (netlist import, an HDL front-end, or fvlib.Builder) and
// consumed by Create. It carries no behavior; Create validates and
// uploads it into a Simulator's buffers.
type Netlist struct {
	Wires      []Wire
	Components []Component
	Inputs     []InputDescriptor
	Outputs    []OutputDescriptor
	Drivers    []WireDriver

	// WireStateAtoms/OutputStateAtoms/MemoryAtoms size the corresponding
	// buffers; every offset in Wires/Components/Inputs/Outputs must fall
	// within these bounds.
	WireStateAtoms   uint32
	OutputStateAtoms uint32
	MemoryAtoms      uint32

	// InitialDrives seeds the wire-drive buffer, indexed the same way as
	// WireStateAtoms. A wire with no explicit external drive should still
	// reserve HighZ atoms here (Wire.DriveOffset must always be valid).
	InitialDrives []Atom
}

// Validate checks invariants I1-I4 from the data model: offsets and
// widths stay in bounds (I1), no output-state atom is claimed by more
// than one component (I2), driver lists terminate at InvalidIndex
// without cycles (I4), and widths fall within [MinWireWidth,
// MaxWireWidth].
func (nl *Netlist) Validate() error {
	if len(nl.InitialDrives) != int(nl.WireStateAtoms) {
		return errors.Errorf("construction: initial drive buffer has %d atoms, want %d", len(nl.InitialDrives), nl.WireStateAtoms)
	}

	checkAtomRange := func(what string, offset, width uint32, cap uint32) error {
		if width < MinWireWidth || width > MaxWireWidth {
			return errors.Errorf("construction: %s width %d out of range [%d,%d]", what, width, MinWireWidth, MaxWireWidth)
		}
		n := atomCount(width)
		if offset > cap || n > cap-offset {
			return errors.Errorf("construction: %s at offset %d width %d exceeds buffer of %d atoms", what, offset, width, cap)
		}
		return nil
	}

	for i, w := range nl.Wires {
		if err := checkAtomRange(fmt.Sprintf("wire %d state", i), w.StateOffset, w.Width, nl.WireStateAtoms); err != nil {
			return err
		}
		if err := checkAtomRange(fmt.Sprintf("wire %d drive", i), w.DriveOffset, w.Width, nl.WireStateAtoms); err != nil {
			return err
		}
		if w.hasFirstDriver() {
			if err := checkAtomRange(fmt.Sprintf("wire %d first driver", i), w.FirstDriverOffset, w.FirstDriverWidth, nl.OutputStateAtoms); err != nil {
				return err
			}
		}
		if w.DriverList != InvalidIndex && int(w.DriverList) >= len(nl.Drivers) {
			return errors.Errorf("construction: wire %d driver list head %d out of range", i, w.DriverList)
		}
	}

	seen := mapset.NewThreadUnsafeSet[uint32]()
	for i, d := range nl.Drivers {
		if err := checkAtomRange(fmt.Sprintf("driver %d", i), d.OutputStateOffset, d.Width, nl.OutputStateAtoms); err != nil {
			return err
		}
		if d.Next != InvalidIndex && int(d.Next) >= len(nl.Drivers) {
			return errors.Errorf("construction: driver %d next index %d out of range", i, d.Next)
		}
	}
	for wi, w := range nl.Wires {
		if w.DriverList == InvalidIndex {
			continue
		}
		seen.Clear()
		idx := w.DriverList
		for idx != InvalidIndex {
			if seen.Contains(idx) {
				return errors.Errorf("construction: wire %d has a cyclic driver list", wi)
			}
			seen.Add(idx)
			if seen.Cardinality() > len(nl.Drivers) {
				return errors.Errorf("construction: wire %d driver list longer than the driver arena", wi)
			}
			idx = nl.Drivers[idx].Next
		}
	}

	claimed := make([]bool, nl.OutputStateAtoms)
	for ci, c := range nl.Components {
		if err := checkAtomRange(fmt.Sprintf("component %d output", ci), c.OutputOffset, c.OutputWidth, nl.OutputStateAtoms); err != nil {
			return err
		}
		n := atomCount(c.OutputWidth)
		for a := uint32(0); a < n; a++ {
			off := c.OutputOffset + a
			if claimed[off] {
				return errors.Errorf("construction: output atom %d claimed by more than one component", off)
			}
			claimed[off] = true
		}
		if c.FirstInput != InvalidIndex {
			end := uint64(c.FirstInput) + uint64(c.InputCount)
			if end > uint64(len(nl.Inputs)) {
				return errors.Errorf("construction: component %d inputs [%d,%d) exceed input array of %d", ci, c.FirstInput, end, len(nl.Inputs))
			}
		} else if c.InputCount != 0 {
			return errors.Errorf("construction: component %d declares %d inputs but FirstInput is invalid", ci, c.InputCount)
		}
		if c.MemoryOffset != InvalidIndex {
			if c.MemoryOffset > nl.MemoryAtoms || c.MemorySize > nl.MemoryAtoms-c.MemoryOffset {
				return errors.Errorf("construction: component %d memory range [%d,%d) exceeds memory buffer of %d atoms", ci, c.MemoryOffset, c.MemoryOffset+c.MemorySize, nl.MemoryAtoms)
			}
		}
	}

	for i, in := range nl.Inputs {
		if err := checkAtomRange(fmt.Sprintf("input %d", i), in.Offset, in.Width, nl.WireStateAtoms); err != nil {
			return err
		}
	}
	for i, out := range nl.Outputs {
		if err := checkAtomRange(fmt.Sprintf("output %d", i), out.Offset, out.Width, nl.OutputStateAtoms); err != nil {
			return err
		}
	}

	return nil
}
