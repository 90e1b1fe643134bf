package cmd

import (
	"fmt"
	"os"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/jsphweid/quantdex/chart"
	"github.com/jsphweid/quantdex/quantizer"
	"github.com/jsphweid/quantdex/store"
	"github.com/spf13/cobra"
)

var reportPNG string

func init() {
	reportCmd.Flags().StringVar(&reportPNG, "png", "", "with a session id, also draw its weights to this PNG")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report [session-id]",
	Short: "Reports on stored sessions",
	Long: `Without arguments, lists every stored session with its fill and
targets. With a session id, prints that session's full state.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.FromEnv()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			return reportSession(st, args[0])
		}
		return report(st)
	},
}

func reportSession(st store.Store, id string) error {
	snap, err := st.Load(id)
	if err != nil {
		return err
	}
	q := quantizer.Restore(snap)
	fmt.Printf("session: %v\n", id)
	printState(os.Stdout, q)
	if reportPNG == "" {
		return nil
	}

	return writeChart(reportPNG, q)
}

func writeChart(path string, q *quantizer.Quantizer) error {
	f, err := os.Create(path)
	if err != nil {
		return fault.Wrap(err, fmsg.With("couldn't open file: "+path))
	}
	if err := chart.Draw(f, q.Weights(), q.Ages(), q.TargetMask()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fault.Wrap(err, fmsg.With("couldn't close file: "+path))
	}
	return nil
}

func report(st store.Store) error {
	ids, err := st.List()
	if err != nil {
		return fault.Wrap(err, fmsg.With("could not list sessions"))
	}
	fmt.Printf("sessions: %v\n", len(ids))
	for _, id := range ids {
		snap, err := st.Load(id)
		if err != nil {
			return err
		}
		q := quantizer.Restore(snap)
		fmt.Printf("%v fill=%-3d targets=[%v]\n", id, q.Fill(), targetNames(q))
	}
	return nil
}
