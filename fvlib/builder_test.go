package fvlib_test

import (
	"testing"

	"github.com/db47h/fvsim"
	"github.com/db47h/fvsim/fvlib"
)

func TestBuildSimpleAndGate(t *testing.T) {
	b := fvlib.NewBuilder()
	w0, w1, w2 := b.Wire(1), b.Wire(1), b.Wire(1)
	b.Gate(fvsim.KindAnd, w2, w0, w1)
	b.Drive(w0, []fvsim.Atom{fvsim.Logic1})
	b.Drive(w1, []fvsim.Atom{fvsim.Logic1})

	nl, err := b.Build()
	if err != nil {
		t.Fatalf("Build(): %v", err)
	}
	if len(nl.Wires) != 3 {
		t.Fatalf("len(Wires) = %d, want 3", len(nl.Wires))
	}
	if len(nl.Components) != 1 {
		t.Fatalf("len(Components) = %d, want 1", len(nl.Components))
	}
	if nl.Wires[w2].FirstDriverOffset == fvsim.InvalidIndex {
		t.Fatal("w2 should have a first driver after Gate()")
	}
}

func TestBuildRejectsWidthMismatchOnDrive(t *testing.T) {
	b := fvlib.NewBuilder()
	w0 := b.Wire(1)
	b.Drive(w0, []fvsim.Atom{fvsim.Logic1, fvsim.Logic0})
	if _, err := b.Build(); err == nil {
		t.Fatal("Build() = nil error, want error for wrong drive atom count")
	}
}

func TestBuildRejectsInvalidWireHandle(t *testing.T) {
	b := fvlib.NewBuilder()
	w0 := b.Wire(1)
	bogus := fvlib.WireHandle(int(w0) + 100)
	b.Not(w0, bogus)
	if _, err := b.Build(); err == nil {
		t.Fatal("Build() = nil error, want error for invalid wire handle")
	}
}

func TestBuildMultipleDriversFormsList(t *testing.T) {
	b := fvlib.NewBuilder()
	d0, e0, d1, e1, w2 := b.Wire(1), b.Wire(1), b.Wire(1), b.Wire(1), b.Wire(1)
	b.Buffer(w2, d0, e0)
	b.Buffer(w2, d1, e1)

	nl, err := b.Build()
	if err != nil {
		t.Fatalf("Build(): %v", err)
	}
	w := nl.Wires[w2]
	if w.FirstDriverOffset == fvsim.InvalidIndex {
		t.Fatal("expected inline first driver")
	}
	if w.DriverList == fvsim.InvalidIndex {
		t.Fatal("expected a second driver in the linked list")
	}
	if len(nl.Drivers) != 1 {
		t.Fatalf("len(Drivers) = %d, want 1", len(nl.Drivers))
	}
}
