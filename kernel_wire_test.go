package fvsim

import "testing"

func TestEvalWireCombinesDriveAndFirstDriver(t *testing.T) {
	b := &Buffers{
		WireStates:   []Atom{HighZ},
		WireDrives:   []Atom{HighZ},
		OutputStates: []Atom{Logic1},
		Wires: []Wire{{
			Width: 1, StateOffset: 0, DriveOffset: 0,
			FirstDriverWidth: 1, FirstDriverOffset: 0, DriverList: InvalidIndex,
		}},
	}
	changed := b.evalWire(0)
	if !changed {
		t.Fatal("expected change from HighZ to Logic1")
	}
	if b.WireStates[0] != Logic1 {
		t.Fatalf("wire state = %v, want Logic1", b.WireStates[0])
	}
	if b.Control.ConflictListLen() != 0 {
		t.Fatalf("unexpected conflicts: %d", b.Control.ConflictListLen())
	}
}

func TestEvalWireDetectsConflict(t *testing.T) {
	b := &Buffers{
		WireStates:   []Atom{HighZ},
		WireDrives:   []Atom{HighZ},
		OutputStates: []Atom{Logic1, Logic0},
		WireDrivers:  []WireDriver{{Width: 1, OutputStateOffset: 1, Next: InvalidIndex}},
		Wires: []Wire{{
			Width: 1, StateOffset: 0, DriveOffset: 0,
			FirstDriverWidth: 1, FirstDriverOffset: 0, DriverList: 0,
		}},
	}
	b.evalWire(0)
	if b.Control.ConflictListLen() != 1 {
		t.Fatalf("ConflictListLen() = %d, want 1", b.Control.ConflictListLen())
	}
	if b.ConflictList[0] != 0 {
		t.Fatalf("ConflictList[0] = %d, want wire index 0", b.ConflictList[0])
	}
}

func TestEvalWireNoFirstDriverUsesOnlyDrive(t *testing.T) {
	b := &Buffers{
		WireStates: []Atom{HighZ},
		WireDrives: []Atom{Logic0},
		Wires: []Wire{{
			Width: 1, StateOffset: 0, DriveOffset: 0,
			FirstDriverOffset: InvalidIndex, DriverList: InvalidIndex,
		}},
	}
	b.evalWire(0)
	if b.WireStates[0] != Logic0 {
		t.Fatalf("wire state = %v, want Logic0 (drive only, no driver)", b.WireStates[0])
	}
}

func TestEvalWireConflictListSaturates(t *testing.T) {
	b := &Buffers{
		WireStates:   make([]Atom, 1),
		WireDrives:   make([]Atom, 1),
		OutputStates: []Atom{Logic1, Logic0},
		WireDrivers:  []WireDriver{{Width: 1, OutputStateOffset: 1, Next: InvalidIndex}},
		Wires: []Wire{{
			Width: 1, StateOffset: 0, DriveOffset: 0,
			FirstDriverWidth: 1, FirstDriverOffset: 0, DriverList: 0,
		}},
	}
	b.Control.conflictListLen.Store(ConflictListCapacity)
	b.evalWire(0)
	if got := b.Control.ConflictListLen(); got != ConflictListCapacity+1 {
		t.Fatalf("ConflictListLen() = %d, want %d (counter still increments past capacity)", got, ConflictListCapacity+1)
	}
}
