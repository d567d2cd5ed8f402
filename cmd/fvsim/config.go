package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/db47h/fvsim"
	"github.com/db47h/fvsim/fvlib"
)

// WireConfig describes one wire in a YAML netlist file.
type WireConfig struct {
	Width uint32 `yaml:"width"`
}

// ComponentConfig describes one component. Output and Inputs are
// indices into the file's wires list, in declaration order.
type ComponentConfig struct {
	Kind   string `yaml:"kind"`
	Output int    `yaml:"output"`
	Inputs []int  `yaml:"inputs"`
}

// NetlistConfig is the YAML schema accepted by run/bench/dump. Drive
// values are rendered the same way Atom.String does: one character per
// bit, most significant first, from {0,1,X,Z}; nets wider than 32 bits
// are not representable in this convenience format.
type NetlistConfig struct {
	Wires      []WireConfig      `yaml:"wires"`
	Components []ComponentConfig `yaml:"components"`
	Drives     map[int]string    `yaml:"drives"`
}

func loadNetlistConfig(path string) (*NetlistConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	var cfg NetlistConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return &cfg, nil
}

var kindByName = func() map[string]fvsim.ComponentKind {
	m := make(map[string]fvsim.ComponentKind)
	for k := fvsim.KindAnd; k <= fvsim.KindCmpSge; k++ {
		m[k.String()] = k
	}
	return m
}()

func parseDriveString(s string, width uint32) ([]fvsim.Atom, error) {
	if width > fvsim.AtomBits {
		return nil, errors.Errorf("drive strings wider than %d bits are not supported by this CLI", fvsim.AtomBits)
	}
	if uint32(len(s)) != width {
		return nil, errors.Errorf("drive string %q has %d characters, want %d", s, len(s), width)
	}
	bits := make([]fvsim.BitState, width)
	for i := 0; i < len(s); i++ {
		b, ok := fvsim.ParseBitState(s[len(s)-1-i])
		if !ok {
			return nil, errors.Errorf("drive string %q: invalid character %q", s, s[len(s)-1-i])
		}
		bits[i] = b
	}
	return []fvsim.Atom{fvsim.AtomFromBits(bits)}, nil
}

// buildNetlist translates a NetlistConfig into a validated fvsim.Netlist
// via fvlib.Builder.
func buildNetlist(cfg *NetlistConfig) (*fvsim.Netlist, error) {
	b := fvlib.NewBuilder()
	handles := make([]fvlib.WireHandle, len(cfg.Wires))
	for i, w := range cfg.Wires {
		handles[i] = b.Wire(w.Width)
	}

	wire := func(i int) (fvlib.WireHandle, error) {
		if i < 0 || i >= len(handles) {
			return 0, errors.Errorf("wire index %d out of range", i)
		}
		return handles[i], nil
	}

	for ci, c := range cfg.Components {
		kind, ok := kindByName[c.Kind]
		if !ok {
			return nil, errors.Errorf("component %d: unknown kind %q", ci, c.Kind)
		}
		out, err := wire(c.Output)
		if err != nil {
			return nil, errors.Wrapf(err, "component %d output", ci)
		}
		ins := make([]fvlib.WireHandle, len(c.Inputs))
		for i, wi := range c.Inputs {
			h, err := wire(wi)
			if err != nil {
				return nil, errors.Wrapf(err, "component %d input %d", ci, i)
			}
			ins[i] = h
		}

		switch kind {
		case fvsim.KindAnd, fvsim.KindOr, fvsim.KindXor, fvsim.KindNand, fvsim.KindNor, fvsim.KindXnor:
			b.Gate(kind, out, ins...)
		case fvsim.KindNot:
			b.Not(out, ins[0])
		case fvsim.KindBuffer:
			b.Buffer(out, ins[0], ins[1])
		case fvsim.KindAdd, fvsim.KindSub:
			b.Adder(out, ins[0], ins[1], kind == fvsim.KindSub)
		case fvsim.KindNeg:
			b.Negate(out, ins[0])
		case fvsim.KindLsh, fvsim.KindLRsh, fvsim.KindARsh:
			b.Shift(kind, out, ins[0], ins[1])
		case fvsim.KindHAnd, fvsim.KindHOr, fvsim.KindHXor, fvsim.KindHNand, fvsim.KindHNor, fvsim.KindHXnor:
			b.Reduce(kind, out, ins[0])
		default: // comparators
			b.Compare(kind, out, ins[0], ins[1])
		}
	}

	for wi, s := range cfg.Drives {
		h, err := wire(wi)
		if err != nil {
			return nil, errors.Wrapf(err, "drive for wire %d", wi)
		}
		atoms, err := parseDriveString(s, cfg.Wires[h].Width)
		if err != nil {
			return nil, errors.Wrapf(err, "drive for wire %d", wi)
		}
		b.Drive(h, atoms)
	}

	return b.Build()
}
