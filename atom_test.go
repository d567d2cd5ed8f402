package fvsim_test

import (
	"math/rand"
	"testing"

	"github.com/db47h/fvsim"
	"github.com/db47h/fvsim/fvtest"
)

func TestAlgebraAgreement(t *testing.T) {
	fvtest.CheckBinaryOp(t, "and", fvsim.And)
	fvtest.CheckBinaryOp(t, "or", fvsim.Or)
	fvtest.CheckBinaryOp(t, "xor", fvsim.Xor)
	fvtest.CheckBinaryOp(t, "nand", fvsim.Nand)
	fvtest.CheckBinaryOp(t, "nor", fvsim.Nor)
	fvtest.CheckBinaryOp(t, "xnor", fvsim.Xnor)
}

func TestNotInvolution(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		a := fvtest.RandomAtom(r)
		if got := fvsim.Not(fvsim.Not(a)); got != a {
			t.Fatalf("Not(Not(%v)) = %v, want %v", a, got, a)
		}
	}
}

func TestDistinguishedConstants(t *testing.T) {
	cases := []struct {
		name string
		atom fvsim.Atom
		bit  fvsim.BitState
	}{
		{"HighZ", fvsim.HighZ, fvsim.BitHighZ},
		{"Undefined", fvsim.Undefined, fvsim.BitUndefined},
		{"Logic0", fvsim.Logic0, fvsim.BitLogic0},
		{"Logic1", fvsim.Logic1, fvsim.BitLogic1},
	}
	for _, c := range cases {
		for i := uint(0); i < fvsim.AtomBits; i++ {
			if got := c.atom.Bit(i); got != c.bit {
				t.Fatalf("%s.Bit(%d) = %s, want %s", c.name, i, got, c.bit)
			}
		}
	}
}

func TestCombineCommutativeAssociative(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 1000; i++ {
		a, b, c := fvtest.RandomAtom(r), fvtest.RandomAtom(r), fvtest.RandomAtom(r)

		ab, cab := fvsim.Combine(a, b)
		ba, cba := fvsim.Combine(b, a)
		if ab != ba || cab != cba {
			t.Fatalf("combine not commutative: combine(a,b)=%v/%x combine(b,a)=%v/%x", ab, cab, ba, cba)
		}

		abc1, c1 := fvsim.Combine(ab, c)
		bc, cbc := fvsim.Combine(b, c)
		abc2, c2 := fvsim.Combine(a, bc)
		if abc1 != abc2 {
			t.Fatalf("combine not associative: (a.b).c=%v a.(b.c)=%v", abc1, abc2)
		}
		if leftConflict, rightConflict := cab|c1, cbc|c2; leftConflict != rightConflict {
			t.Fatalf("combine conflict bits not associative: (a.b).c=%x a.(b.c)=%x", leftConflict, rightConflict)
		}
	}
}

func TestCombineNeutral(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		a := fvtest.RandomAtom(r)
		got, conflict := fvsim.Combine(a, fvsim.HighZ)
		if got != a || conflict != 0 {
			t.Fatalf("combine(%v, HighZ) = %v/%x, want %v/0", a, got, conflict, a)
		}
	}
}

func TestConflictIffMultiDrive(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for i := 0; i < 1000; i++ {
		a, b := fvtest.RandomAtom(r), fvtest.RandomAtom(r)
		_, conflict := fvsim.Combine(a, b)
		for bit := uint(0); bit < fvsim.AtomBits; bit++ {
			aNonZ := a.Bit(bit) != fvsim.BitHighZ
			bNonZ := b.Bit(bit) != fvsim.BitHighZ
			want := aNonZ && bNonZ
			got := (conflict>>bit)&1 == 1
			if got != want {
				t.Fatalf("conflict bit %d = %v, want %v (a=%s b=%s)", bit, got, want, a.Bit(bit), b.Bit(bit))
			}
		}
	}
}

func TestAddRippleCarry(t *testing.T) {
	a := fvsim.AtomFromUint32(1)
	b := fvsim.AtomFromUint32(0xFFFFFFFF)
	sum, carry := fvsim.Add(a, b, fvsim.BitFromBool(false))
	if sum != fvsim.AtomFromUint32(0) {
		t.Fatalf("sum = %v, want 0", sum)
	}
	if carry != fvsim.BitFromBool(true) {
		t.Fatalf("carry = %v, want 1", carry)
	}
}

func TestAddInvalidityHaltsCarry(t *testing.T) {
	a := fvsim.AtomFromUint32(0).WithBit(4, fvsim.BitHighZ)
	b := fvsim.AtomFromUint32(0)
	sum, carry := fvsim.Add(a, b, fvsim.BitFromBool(false))
	for i := uint(0); i < 4; i++ {
		if s := sum.Bit(i); s != fvsim.BitLogic0 {
			t.Fatalf("sum bit %d = %s, want 0", i, s)
		}
	}
	for i := uint(4); i < fvsim.AtomBits; i++ {
		if s := sum.Bit(i); s != fvsim.BitUndefined {
			t.Fatalf("sum bit %d = %s, want Undefined", i, s)
		}
	}
	if carry.Valid {
		t.Fatalf("carry should be Undefined, got %v", carry)
	}
}

func TestSubIsAddOfComplement(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	for i := 0; i < 1000; i++ {
		a, b := fvtest.RandomAtom(r), fvtest.RandomAtom(r)
		diff, _ := fvsim.Sub(a, b, fvsim.BitFromBool(true))
		want, _ := fvsim.Add(a, fvsim.Atom{State: ^b.State, Valid: b.Valid}, fvsim.BitFromBool(true))
		if diff != want {
			t.Fatalf("Sub(%v,%v) = %v, want %v", a, b, diff, want)
		}
	}
}

func TestParseBitStateRoundTrip(t *testing.T) {
	for _, want := range fvtest.AllBitStates {
		c := want.String()[0]
		got, ok := fvsim.ParseBitState(c)
		if !ok || got != want {
			t.Fatalf("ParseBitState(%q) = %v,%v want %v,true", c, got, ok, want)
		}
	}
}

func TestAtomFromBits(t *testing.T) {
	bits := []fvsim.BitState{fvsim.BitLogic1, fvsim.BitLogic0, fvsim.BitHighZ, fvsim.BitUndefined}
	a := fvsim.AtomFromBits(bits)
	for i, want := range bits {
		if got := a.Bit(uint(i)); got != want {
			t.Fatalf("bit %d = %s, want %s", i, got, want)
		}
	}
	for i := len(bits); i < fvsim.AtomBits; i++ {
		if got := a.Bit(uint(i)); got != fvsim.BitHighZ {
			t.Fatalf("bit %d = %s, want HighZ (default)", i, got)
		}
	}
}
