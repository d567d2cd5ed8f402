package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/db47h/fvsim"
)

var runConfigPath string
var runMaxIterations int

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Load a netlist and run it to a fixed point",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "path to a netlist YAML file")
	runCmd.Flags().IntVar(&runMaxIterations, "max-iterations", 0, "iteration cap (0 = fvsim.DefaultMaxIterations)")
	_ = runCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadNetlistConfig(runConfigPath)
	if err != nil {
		return err
	}
	nl, err := buildNetlist(cfg)
	if err != nil {
		return errors.Wrap(err, "building netlist")
	}
	sim, err := fvsim.Create(nl, 0)
	if err != nil {
		return errors.Wrap(err, "creating simulator")
	}
	defer sim.Close()
	sim.Log = logger

	outcome := sim.Step(runMaxIterations)

	tbl := table.NewWriter()
	tbl.SetOutputMirror(os.Stdout)
	tbl.SetTitle("fvsim run")
	tbl.AppendHeader(table.Row{"wire", "width", "state"})
	for i, w := range nl.Wires {
		atoms, err := sim.ReadWire(i)
		if err != nil {
			return err
		}
		tbl.AppendRow(table.Row{i, w.Width, atomsToString(atoms)})
	}
	tbl.Render()

	fmt.Printf("outcome: %s (iterations=%d)\n", outcome.Kind, outcome.Iterations)
	if outcome.Kind == fvsim.Conflict {
		fmt.Printf("conflicting wires: %v\n", outcome.ConflictWires)
	}
	return outcome.Err()
}

func atomsToString(atoms []fvsim.Atom) string {
	s := ""
	for _, a := range atoms {
		s = a.String() + s
	}
	return s
}
