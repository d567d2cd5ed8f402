// Package fvtest provides comparison and property-testing helpers for
// fvsim, the way hwtest does for hwsim: exhaustive truth-table checks
// for the pure algebra, and randomized comparison for anything with too
// large a state space to enumerate.
package fvtest

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/db47h/fvsim"
)

// AllBitStates enumerates the four single-bit logic values, in the same
// order fvsim.BitState assigns them.
var AllBitStates = []fvsim.BitState{
	fvsim.BitHighZ, fvsim.BitUndefined, fvsim.BitLogic0, fvsim.BitLogic1,
}

// singleBitTruthTable is the reference semantics CheckBinaryOp verifies
// packed operations against; ports the four-valued truth tables from
// the algebra's own doc comments into an independent, exhaustively
// enumerable form so a bug in the packed bit-twiddling can't also be
// present in the check.
func singleBitTruthTable(op string, a, b fvsim.BitState) fvsim.BitState {
	valid := func(s fvsim.BitState) (bool, bool) {
		switch s {
		case fvsim.BitLogic0:
			return true, false
		case fvsim.BitLogic1:
			return true, true
		default:
			return false, false
		}
	}
	av, as := valid(a)
	bv, bs := valid(b)
	switch op {
	case "and":
		if av && !as || bv && !bs {
			return fvsim.BitLogic0
		}
		if av && as && bv && bs {
			return fvsim.BitLogic1
		}
		return fvsim.BitUndefined
	case "or":
		if av && as || bv && bs {
			return fvsim.BitLogic1
		}
		if av && !as && bv && !bs {
			return fvsim.BitLogic0
		}
		return fvsim.BitUndefined
	case "xor":
		if av && bv {
			if as != bs {
				return fvsim.BitLogic1
			}
			return fvsim.BitLogic0
		}
		return fvsim.BitUndefined
	case "nand":
		return notBit(singleBitTruthTable("and", a, b))
	case "nor":
		return notBit(singleBitTruthTable("or", a, b))
	case "xnor":
		return notBit(singleBitTruthTable("xor", a, b))
	default:
		panic("fvtest: unknown op " + op)
	}
}

func notBit(s fvsim.BitState) fvsim.BitState {
	switch s {
	case fvsim.BitLogic0:
		return fvsim.BitLogic1
	case fvsim.BitLogic1:
		return fvsim.BitLogic0
	default:
		return fvsim.BitUndefined
	}
}

// CheckBinaryOp verifies that op agrees with the named truth table
// ("and", "or", "xor", "nand", "nor", "xnor") on every one of the 4x4
// single-bit input combinations. Every bit index of a packed op is
// specified to behave independently of every other, so it is enough to
// place each combination at a handful of representative bit positions
// (0, mid-word, and the top bit) rather than all 32.
func CheckBinaryOp(t *testing.T, name string, op func(a, b fvsim.Atom) fvsim.Atom) {
	t.Helper()
	for _, a0 := range AllBitStates {
		for _, b0 := range AllBitStates {
			want := singleBitTruthTable(name, a0, b0)
			for _, bit := range []uint{0, 15, 31} {
				a := fvsim.HighZ.WithBit(bit, a0)
				b := fvsim.HighZ.WithBit(bit, b0)
				got := op(a, b).Bit(bit)
				if got != want {
					t.Errorf("%s(%s,%s) at bit %d = %s, want %s", name, a0, b0, bit, got, want)
				}
			}
		}
	}
}

// RandomAtom returns a pseudo-random atom, useful for property tests
// that don't need exhaustive coverage (combine associativity, add/sub
// round-tripping) but benefit from varied bit patterns including
// partially-valid atoms.
func RandomAtom(r *rand.Rand) fvsim.Atom {
	return fvsim.Atom{State: r.Uint32(), Valid: r.Uint32()}
}

// AtomsString renders a slice of atoms as a dot-joined ordered list,
// low atom first, for use in test failure messages.
func AtomsString(atoms []fvsim.Atom) string {
	parts := make([]string, len(atoms))
	for i, a := range atoms {
		parts[i] = a.String()
	}
	return strings.Join(parts, ".")
}

// RequireStep runs one Step on s and fails the test if the outcome's
// kind doesn't match want.
func RequireStep(t *testing.T, s *fvsim.Simulator, maxIterations int, want fvsim.StepOutcomeKind) fvsim.StepOutcome {
	t.Helper()
	out := s.Step(maxIterations)
	if out.Kind != want {
		t.Fatalf("Step() = %s (iterations=%d), want %s: %v", out.Kind, out.Iterations, want, out.Err())
	}
	return out
}

// RequireWire fails the test unless wire wireIndex's current state
// atoms equal want exactly.
func RequireWire(t *testing.T, s *fvsim.Simulator, wireIndex int, want ...fvsim.Atom) {
	t.Helper()
	got, err := s.ReadWire(wireIndex)
	if err != nil {
		t.Fatalf("ReadWire(%d): %v", wireIndex, err)
	}
	if len(got) != len(want) {
		t.Fatalf("wire %d has %d atoms, want %d", wireIndex, len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("wire %d atom %d = %s, want %s (full: %s, want %s)",
				wireIndex, i, got[i], want[i], AtomsString(got), AtomsString(want))
		}
	}
}

// FuzzConverge runs n random-drive Step sequences against s, failing
// the test if any run neither converges nor reports a conflict within
// maxIterations. It is the randomized counterpart to CheckBinaryOp,
// following hwtest.ComparePart's practice of covering a large input
// space with pseudo-random samples rather than full enumeration.
func FuzzConverge(t *testing.T, s *fvsim.Simulator, wireCount int, r *rand.Rand, n, maxIterations int) {
	t.Helper()
	for i := 0; i < n; i++ {
		for w := 0; w < wireCount; w++ {
			atoms, err := s.ReadWire(w)
			if err != nil {
				t.Fatalf("ReadWire(%d): %v", w, err)
			}
			drive := make([]fvsim.Atom, len(atoms))
			for j := range drive {
				drive[j] = RandomAtom(r)
			}
			if err := s.SetDrive(w, drive); err != nil {
				t.Fatalf("SetDrive(%d): %v", w, err)
			}
		}
		out := s.Step(maxIterations)
		if out.Kind == fvsim.MaxIterationsReached {
			t.Fatalf("run %d: %s", i, fmt.Sprintf("did not converge within %d iterations", maxIterations))
		}
	}
}
