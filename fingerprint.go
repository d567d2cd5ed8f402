package fvsim

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// StateDigest returns a stable 64-bit digest of a Simulator's current wire
// and output states, letting callers compare two runs (or a run against a
// golden fixture) without diffing every atom individually.
func (s *Simulator) StateDigest() uint64 {
	h := xxhash.New()
	var buf [8]byte
	write := func(atoms []Atom) {
		for _, a := range atoms {
			binary.LittleEndian.PutUint64(buf[:], a.Fingerprint())
			h.Write(buf[:])
		}
	}
	write(s.buf.WireStates)
	write(s.buf.OutputStates)
	return h.Sum64()
}
