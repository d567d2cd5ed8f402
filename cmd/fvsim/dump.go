package main

import (
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/db47h/fvsim"
)

var dumpConfigPath string

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Load a netlist and print its raw atom buffers without stepping",
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().StringVar(&dumpConfigPath, "config", "", "path to a netlist YAML file")
	_ = dumpCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadNetlistConfig(dumpConfigPath)
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

	tbl := tablewriter.NewWriter(os.Stdout)
	tbl.SetHeader([]string{"wire", "width", "state offset", "atoms"})
	for i, w := range nl.Wires {
		atoms, err := sim.ReadWire(i)
		if err != nil {
			return err
		}
		tbl.Append([]string{itoa(i), itoa(int(w.Width)), itoa(int(w.StateOffset)), atomsToString(atoms)})
	}
	tbl.Render()

	tbl2 := tablewriter.NewWriter(os.Stdout)
	tbl2.SetHeader([]string{"component", "kind", "output width", "output atoms"})
	for i, c := range nl.Components {
		out, err := sim.ReadOutput(i, 0)
		if err != nil {
			return err
		}
		tbl2.Append([]string{itoa(i), c.Kind.String(), itoa(int(c.OutputWidth)), atomsToString(out)})
	}
	tbl2.Render()

	return nil
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
