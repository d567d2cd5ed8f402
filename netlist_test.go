package fvsim

import "testing"

func trivialNetlist() *Netlist {
	// One 1-bit wire, one 1-bit wire driven by a NOT gate reading the
	// first wire, no drivers on the first wire.
	return &Netlist{
		Wires: []Wire{
			{Width: 1, StateOffset: 0, DriveOffset: 0, FirstDriverOffset: InvalidIndex, DriverList: InvalidIndex},
			{Width: 1, StateOffset: 1, DriveOffset: 1, FirstDriverWidth: 1, FirstDriverOffset: 0, DriverList: InvalidIndex},
		},
		Components: []Component{
			{Kind: KindNot, OutputCount: 1, InputCount: 1, OutputWidth: 1, OutputOffset: 0, FirstInput: 0, MemoryOffset: InvalidIndex},
		},
		Inputs:           []InputDescriptor{{Width: 1, Offset: 0}},
		Outputs:          nil,
		Drivers:          nil,
		WireStateAtoms:   2,
		OutputStateAtoms: 1,
		MemoryAtoms:      0,
		InitialDrives:    []Atom{HighZ, HighZ},
	}
}

func TestValidateAcceptsWellFormedNetlist(t *testing.T) {
	if err := trivialNetlist().Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsWidthOutOfRange(t *testing.T) {
	nl := trivialNetlist()
	nl.Wires[0].Width = 0
	if err := nl.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for zero-width wire")
	}
	nl = trivialNetlist()
	nl.Wires[0].Width = MaxWireWidth + 1
	if err := nl.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for over-wide wire")
	}
}

func TestValidateRejectsOffsetOutOfRange(t *testing.T) {
	nl := trivialNetlist()
	nl.Wires[1].StateOffset = 100
	if err := nl.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for out-of-range state offset")
	}
}

func TestValidateRejectsDoublyOwnedOutput(t *testing.T) {
	nl := trivialNetlist()
	nl.Components = append(nl.Components, Component{
		Kind: KindNot, OutputCount: 1, InputCount: 1,
		OutputWidth: 1, OutputOffset: 0, FirstInput: 0, MemoryOffset: InvalidIndex,
	})
	if err := nl.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for two components owning the same output atom")
	}
}

func TestValidateRejectsCyclicDriverList(t *testing.T) {
	nl := trivialNetlist()
	nl.Drivers = []WireDriver{
		{Width: 1, OutputStateOffset: 0, Next: 1},
		{Width: 1, OutputStateOffset: 0, Next: 0},
	}
	nl.Wires[1].DriverList = 0
	if err := nl.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for cyclic driver list")
	}
}

func TestValidateRejectsDanglingDriverListHead(t *testing.T) {
	nl := trivialNetlist()
	nl.Wires[1].DriverList = 5
	if err := nl.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for dangling driver list head")
	}
}

func TestValidateRejectsBadInitialDriveLength(t *testing.T) {
	nl := trivialNetlist()
	nl.InitialDrives = nl.InitialDrives[:1]
	if err := nl.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for short initial-drive buffer")
	}
}

func TestValidateRejectsInputsOutOfRange(t *testing.T) {
	nl := trivialNetlist()
	nl.Components[0].InputCount = 3
	if err := nl.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for component inputs exceeding the input array")
	}
}

func TestPackUnpackComponentDescriptor(t *testing.T) {
	word := PackComponentDescriptor(KindAdd, 1, 2)
	kind, oc, ic := UnpackComponentDescriptor(word)
	if kind != KindAdd || oc != 1 || ic != 2 {
		t.Fatalf("round-trip = (%v,%d,%d), want (%v,1,2)", kind, oc, ic, KindAdd)
	}
}

func TestComponentKindStringCoversEveryKind(t *testing.T) {
	for k := KindAnd; k <= KindCmpSge; k++ {
		if s := k.String(); s == "UNKNOWN" {
			t.Fatalf("ComponentKind(%d).String() = UNKNOWN", k)
		}
	}
}
