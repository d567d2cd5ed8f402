package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/db47h/fvsim"
	"github.com/db47h/fvsim/fvlib"
)

var (
	benchConfigPath string
	benchIterations int
	benchChainDepth int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Repeatedly step a netlist and report timing percentiles",
	RunE:  runBench,
}

func init() {
	benchCmd.Flags().StringVar(&benchConfigPath, "config", "", "path to a netlist YAML file (default: a built-in NOT-gate chain)")
	benchCmd.Flags().IntVar(&benchIterations, "iters", 1000, "number of Step() calls to time")
	benchCmd.Flags().IntVar(&benchChainDepth, "chain-depth", 64, "length of the built-in NOT chain when --config is not given")
	rootCmd.AddCommand(benchCmd)
}

func builtinChainNetlist(depth int) (*fvsim.Netlist, error) {
	b := fvlib.NewBuilder()
	wires := make([]fvlib.WireHandle, depth+1)
	for i := range wires {
		wires[i] = b.Wire(1)
	}
	for i := 0; i < depth; i++ {
		b.Not(wires[i+1], wires[i])
	}
	b.Drive(wires[0], []fvsim.Atom{fvsim.Logic0})
	return b.Build()
}

func runBench(cmd *cobra.Command, args []string) error {
	var nl *fvsim.Netlist
	var err error
	if benchConfigPath != "" {
		cfg, err2 := loadNetlistConfig(benchConfigPath)
		if err2 != nil {
			return err2
		}
		nl, err = buildNetlist(cfg)
	} else {
		nl, err = builtinChainNetlist(benchChainDepth)
	}
	if err != nil {
		return errors.Wrap(err, "building netlist")
	}

	sim, err := fvsim.Create(nl, 0)
	if err != nil {
		return errors.Wrap(err, "creating simulator")
	}
	defer sim.Close()

	tach := tachymeter.New(&tachymeter.Config{Size: benchIterations})
	for i := 0; i < benchIterations; i++ {
		sim.Reset()
		start := time.Now()
		outcome := sim.Step(0)
		tach.AddTime(time.Since(start))
		if outcome.Kind == fvsim.MaxIterationsReached {
			return fmt.Errorf("bench run %d did not converge", i)
		}
	}

	calc := tach.Calc()
	tbl := table.NewWriter()
	tbl.SetOutputMirror(os.Stdout)
	tbl.SetTitle(fmt.Sprintf("fvsim bench: %s wires, %s components", humanize.Comma(int64(len(nl.Wires))), humanize.Comma(int64(len(nl.Components)))))
	tbl.AppendHeader(table.Row{"avg", "min", "p75", "p99", "max"})
	tbl.AppendRow(table.Row{calc.Time.Avg, calc.Time.Min, calc.Time.P75, calc.Time.P99, calc.Time.Max})
	tbl.Render()
	return nil
}
