package fvsim

import "math/big"

// RunComponentPass dispatches the component kernel over every component
// in b, one work-item per index, via d. It is a no-op (leaves
// components_changed untouched) if wires_changed is clear or a conflict
// is already flagged; that guard makes the two-phase loop converge.
func RunComponentPass(d *Dispatcher, b *Buffers) {
	if !b.Control.WiresChanged() || b.Control.HasConflicts() {
		return
	}
	d.Dispatch(len(b.Components), func(i int) {
		if b.evalComponent(i) {
			b.Control.MarkComponentsChanged()
		}
	})
}

// inputAtom returns atom index i of an input descriptor's referenced
// wire-state slice, extending with HighZ beyond the descriptor's own
// width (per the gate-family and unary rules in the component kernel).
func (b *Buffers) inputAtom(in InputDescriptor, i uint32) Atom {
	if i >= atomCount(in.Width) {
		return HighZ
	}
	return b.WireStates[in.Offset+i]
}

func (b *Buffers) inputAtoms(in InputDescriptor) []Atom {
	n := atomCount(in.Width)
	out := make([]Atom, n)
	copy(out, b.WireStates[in.Offset:in.Offset+n])
	return out
}

// evalComponent evaluates component ci, writing any differing output
// atoms in place, and reports whether any output atom changed. Every
// component owns a disjoint output-state slice, so concurrent calls for
// distinct indices never race.
func (b *Buffers) evalComponent(ci int) bool {
	c := b.Components[ci]
	outN := atomCount(c.OutputWidth)
	out := b.OutputStates[c.OutputOffset : c.OutputOffset+outN]
	inputs := b.Inputs[c.FirstInput : uint32(c.FirstInput)+uint32(c.InputCount)]

	changed := false
	write := func(i uint32, a Atom) {
		if out[i] != a {
			out[i] = a
			changed = true
		}
	}

	switch c.Kind {
	case KindAnd, KindOr, KindXor, KindNand, KindNor, KindXnor:
		op, invert := gateBaseOp(c.Kind)
		for i := uint32(0); i < outN; i++ {
			acc := HighZ
			for ii, in := range inputs {
				a := b.inputAtom(in, i)
				if ii == 0 {
					acc = a
				} else {
					acc = op(acc, a)
				}
			}
			if invert {
				acc = Not(acc)
			}
			write(i, acc)
		}

	case KindNot:
		in := inputs[0]
		for i := uint32(0); i < outN; i++ {
			write(i, Not(b.inputAtom(in, i)))
		}

	case KindBuffer:
		data, enable := inputs[0], inputs[1]
		eBit := b.inputAtom(enable, 0).Bit(0)
		dataN := atomCount(data.Width)
		for i := uint32(0); i < outN; i++ {
			var a Atom
			switch eBit {
			case BitHighZ, BitUndefined:
				a = Undefined
			case BitLogic1:
				if i < dataN {
					a = HighZToUndefined(b.inputAtom(data, i))
				} else {
					a = HighZ
				}
			default: // BitLogic0
				a = HighZ
			}
			write(i, a)
		}

	case KindAdd, KindSub:
		aIn, bIn := inputs[0], inputs[1]
		carry := Bit{State: c.Kind == KindSub, Valid: true}
		for i := uint32(0); i < outN; i++ {
			a := b.inputAtom(aIn, i)
			bAtom := b.inputAtom(bIn, i)
			var sum Atom
			if c.Kind == KindAdd {
				sum, carry = Add(a, bAtom, carry)
			} else {
				sum, carry = Sub(a, bAtom, carry)
			}
			write(i, sum)
		}

	case KindNeg:
		in := inputs[0]
		carry := Bit{State: true, Valid: true}
		zero := AtomFromUint32(0)
		for i := uint32(0); i < outN; i++ {
			a := Not(b.inputAtom(in, i))
			var sum Atom
			sum, carry = Add(a, zero, carry)
			write(i, sum)
		}

	case KindLsh, KindLRsh, KindARsh:
		b.evalShift(c, inputs, out, write)

	case KindHAnd, KindHOr, KindHXor, KindHNand, KindHNor, KindHXnor:
		write(0, b.evalReduce(c.Kind, inputs[0]))
		for i := uint32(1); i < outN; i++ {
			write(i, HighZ)
		}

	case KindCmpEq, KindCmpNe, KindCmpUlt, KindCmpUgt, KindCmpUle, KindCmpUge,
		KindCmpSlt, KindCmpSgt, KindCmpSle, KindCmpSge:
		write(0, b.evalCompare(c.Kind, inputs[0], inputs[1]))
		for i := uint32(1); i < outN; i++ {
			write(i, HighZ)
		}

	default:
		// Unknown kind: Validate does not reject unknown kinds; such a
		// component leaves its output untouched and reports no change.
	}

	return changed
}

func gateBaseOp(k ComponentKind) (op func(a, b Atom) Atom, invert bool) {
	switch k {
	case KindAnd:
		return And, false
	case KindNand:
		return And, true
	case KindOr:
		return Or, false
	case KindNor:
		return Or, true
	case KindXor:
		return Xor, false
	default: // KindXnor
		return Xor, true
	}
}

// bitsOfAtoms unpacks the low width bits of atoms (LSB first) into
// individual four-valued bit states, reusing Atom.Bit the same way
// AtomFromBits reuses Atom.WithBit for the reverse direction.
func bitsOfAtoms(atoms []Atom, width uint32) []BitState {
	out := make([]BitState, width)
	for i := uint32(0); i < width; i++ {
		out[i] = atoms[i/AtomBits].Bit(uint(i % AtomBits))
	}
	return out
}

func atomsFromBitStates(bits []BitState) []Atom {
	out := make([]Atom, atomCount(uint32(len(bits))))
	for i, s := range bits {
		idx := uint32(i) / AtomBits
		out[idx] = out[idx].WithBit(uint(uint32(i)%AtomBits), s)
	}
	return out
}

// evalShift implements LSH/LRSH/ARSH: the shift amount is the second
// input, read as an ordinary unsigned integer; if any of its bits are
// not cleanly Logic0/Logic1 the whole result is Undefined, mirroring
// the "invalid shift amount poisons the result" rule used for the
// carry chain in Add.
func (b *Buffers) evalShift(c Component, inputs []InputDescriptor, out []Atom, write func(uint32, Atom)) {
	dataIn, amtIn := inputs[0], inputs[1]
	amtBits := bitsOfAtoms(b.inputAtoms(amtIn), amtIn.Width)
	amount, ok := 0, true
	for i, s := range amtBits {
		switch s {
		case BitLogic0:
		case BitLogic1:
			amount |= 1 << uint(i)
		default:
			ok = false
		}
		if !ok {
			break
		}
	}
	width := int(c.OutputWidth)
	if !ok {
		und := make([]BitState, width)
		for i := range und {
			und[i] = BitUndefined
		}
		for i, a := range atomsFromBitStates(und) {
			write(uint32(i), a)
		}
		return
	}
	dataBits := bitsOfAtoms(b.inputAtoms(dataIn), dataIn.Width)
	if len(dataBits) < width {
		padded := make([]BitState, width)
		copy(padded, dataBits)
		for i := len(dataBits); i < width; i++ {
			padded[i] = BitHighZ
		}
		dataBits = padded
	}
	result := make([]BitState, width)
	switch c.Kind {
	case KindLsh:
		for i := 0; i < width; i++ {
			if i-amount >= 0 {
				result[i] = dataBits[i-amount]
			} else {
				result[i] = BitLogic0
			}
		}
	case KindLRsh:
		for i := 0; i < width; i++ {
			if i+amount < width {
				result[i] = dataBits[i+amount]
			} else {
				result[i] = BitLogic0
			}
		}
	default: // KindARsh
		sign := dataBits[width-1]
		for i := 0; i < width; i++ {
			if i+amount < width {
				result[i] = dataBits[i+amount]
			} else {
				result[i] = sign
			}
		}
	}
	for i, a := range atomsFromBitStates(result) {
		if uint32(i) < uint32(len(out)) {
			write(uint32(i), a)
		}
	}
}

// evalReduce implements the horizontal reduction gates (HAND/HOR/HXOR
// and their inverted forms), folding every bit of the single input
// through the corresponding binary op via the ordinary four-valued
// algebra, so that an invalid input bit still poisons the result the
// way the truth tables intend rather than being silently skipped.
func (b *Buffers) evalReduce(kind ComponentKind, in InputDescriptor) Atom {
	bits := bitsOfAtoms(b.inputAtoms(in), in.Width)
	var acc Atom
	var op func(a, b Atom) Atom
	invert := false
	switch kind {
	case KindHAnd, KindHNand:
		acc = HighZ.WithBit(0, BitLogic1)
		op = And
		invert = kind == KindHNand
	case KindHOr, KindHNor:
		acc = HighZ.WithBit(0, BitLogic0)
		op = Or
		invert = kind == KindHNor
	default: // KindHXor, KindHXnor
		acc = HighZ.WithBit(0, BitLogic0)
		op = Xor
		invert = kind == KindHXnor
	}
	for _, s := range bits {
		acc = op(acc, HighZ.WithBit(0, s))
	}
	if invert {
		acc = Not(acc)
	}
	return HighZ.WithBit(0, acc.Bit(0))
}

// evalCompare implements the comparator kinds: if both operands are
// fully Logic0/Logic1 across their width the comparison is evaluated
// numerically (unsigned or two's-complement signed per kind), otherwise
// the single-bit result is Undefined.
func (b *Buffers) evalCompare(kind ComponentKind, aIn, bIn InputDescriptor) Atom {
	aBits := bitsOfAtoms(b.inputAtoms(aIn), aIn.Width)
	bBits := bitsOfAtoms(b.inputAtoms(bIn), bIn.Width)
	if !allDefined(aBits) || !allDefined(bBits) {
		return HighZ.WithBit(0, BitUndefined)
	}
	au := bigFromBits(aBits)
	bu := bigFromBits(bBits)

	var result bool
	switch kind {
	case KindCmpEq:
		result = au.Cmp(bu) == 0
	case KindCmpNe:
		result = au.Cmp(bu) != 0
	case KindCmpUlt:
		result = au.Cmp(bu) < 0
	case KindCmpUgt:
		result = au.Cmp(bu) > 0
	case KindCmpUle:
		result = au.Cmp(bu) <= 0
	case KindCmpUge:
		result = au.Cmp(bu) >= 0
	default:
		as := signedFromUnsigned(au, len(aBits))
		bs := signedFromUnsigned(bu, len(bBits))
		switch kind {
		case KindCmpSlt:
			result = as.Cmp(bs) < 0
		case KindCmpSgt:
			result = as.Cmp(bs) > 0
		case KindCmpSle:
			result = as.Cmp(bs) <= 0
		case KindCmpSge:
			result = as.Cmp(bs) >= 0
		}
	}
	return HighZ.WithBit(0, boolToBit(result))
}

func allDefined(bits []BitState) bool {
	for _, s := range bits {
		if s != BitLogic0 && s != BitLogic1 {
			return false
		}
	}
	return true
}

func bigFromBits(bits []BitState) *big.Int {
	n := new(big.Int)
	for i := len(bits) - 1; i >= 0; i-- {
		n.Lsh(n, 1)
		if bits[i] == BitLogic1 {
			n.SetBit(n, 0, 1)
		}
	}
	return n
}

func signedFromUnsigned(u *big.Int, width int) *big.Int {
	if width == 0 || u.Bit(width-1) == 0 {
		return new(big.Int).Set(u)
	}
	pow := new(big.Int).Lsh(big.NewInt(1), uint(width))
	return new(big.Int).Sub(u, pow)
}

func boolToBit(v bool) BitState {
	if v {
		return BitLogic1
	}
	return BitLogic0
}
