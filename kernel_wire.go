package fvsim

// RunWirePass dispatches the wire kernel over every wire in b, one
// work-item per index, via d. It is a no-op if components_changed is
// clear or a conflict is already flagged.
func RunWirePass(d *Dispatcher, b *Buffers) {
	if !b.Control.ComponentsChanged() || b.Control.HasConflicts() {
		return
	}
	d.Dispatch(len(b.Wires), func(i int) {
		if b.evalWire(i) {
			b.Control.MarkWiresChanged()
		}
	})
}

// evalWire recomputes wire wi as the combine-reduction over its drive
// atoms, optional inline first driver, and driver linked list, writes
// differing atoms in place, and appends the wire index to the conflict
// list (capped, saturating) if any bit conflicted. It reports whether
// any wire-state atom changed.
func (b *Buffers) evalWire(wi int) bool {
	w := b.Wires[wi]
	n := w.AtomCount()
	state := b.WireStates[w.StateOffset : w.StateOffset+n]

	acc := make([]Atom, n)
	var conflict uint32

	// external drive is always present, even if all-HighZ.
	for i := uint32(0); i < n; i++ {
		acc[i] = b.WireDrives[w.DriveOffset+i]
	}

	if w.hasFirstDriver() {
		fn := atomCount(min32(w.Width, w.FirstDriverWidth))
		for i := uint32(0); i < fn; i++ {
			var c uint32
			acc[i], c = Combine(acc[i], b.OutputStates[w.FirstDriverOffset+i])
			conflict |= c
		}
	}

	idx := w.DriverList
	for idx != InvalidIndex {
		d := b.WireDrivers[idx]
		dn := atomCount(min32(w.Width, d.Width))
		for i := uint32(0); i < dn; i++ {
			var c uint32
			acc[i], c = Combine(acc[i], b.OutputStates[d.OutputStateOffset+i])
			conflict |= c
		}
		idx = d.Next
	}

	changed := false
	for i := uint32(0); i < n; i++ {
		if state[i] != acc[i] {
			state[i] = acc[i]
			changed = true
		}
	}

	if conflict != 0 {
		if slot := b.Control.reserveConflictSlot(); slot < ConflictListCapacity {
			b.ConflictList[slot] = uint32(wi)
		}
	}

	return changed
}

func min32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
