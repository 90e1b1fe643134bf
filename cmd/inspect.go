package cmd

import (
	"fmt"

	"github.com/jsphweid/quantdex/constants"
	"github.com/jsphweid/quantdex/eventlog"
	"github.com/jsphweid/quantdex/model"
	"github.com/jsphweid/quantdex/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <snapshot.dat>",
	Short: "Inspects a snapshot",
	Long: `Prints the event log of a snapshot, newest first. Events inside
the learning window are marked with *.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(args[0])
	},
}

func inspect(path string) error {
	snap, err := util.ReadBinary[model.Snapshot](path)
	if err != nil {
		return err
	}
	log := eventlog.Restore(constants.LogCapacity, snap.Events, snap.Head, snap.Full)
	p := snap.Params

	fmt.Printf("fill: %v of %v, window=%v offset=%v\n", log.Len(), log.Cap(), p.Window, p.Offset)
	fmt.Printf("%-5s %-3s %-4s %-6s %-8s %s\n", "age", "", "pc", "octave", "interval", "duration")
	cur := log.Window(log.Cap(), 0)
	for cur.Next() {
		e := cur.Event()
		mark := ""
		if age := cur.Index(); age >= p.Offset && age < p.Offset+p.Window {
			mark = "*"
		}
		fmt.Printf("%-5d %-3s %-4s %-6d %-8d %.3f\n", cur.Index(), mark, pitchNames[e.PitchClass], e.Octave, e.Interval, e.Duration)
	}
	return nil
}
