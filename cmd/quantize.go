package cmd

import (
	"fmt"
	"strconv"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/spf13/cobra"
)

var quantizeFlags paramFlags

func init() {
	addParamFlags(quantizeCmd, &quantizeFlags)
	rootCmd.AddCommand(quantizeCmd)
}

var quantizeCmd = &cobra.Command{
	Use:   "quantize <reference.mid> <volts>...",
	Short: "Quantizes voltages against a reference file",
	Long: `Learns from the notes of a reference MIDI file and prints each
voltage (1V/octave, 0V = middle C) next to its quantized value.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		volts := make([]float64, 0, len(args)-1)
		for _, arg := range args[1:] {
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return fault.Wrap(err, fmsg.With("invalid voltage "+arg))
			}
			volts = append(volts, v)
		}

		q, err := learnFromFile(args[0], quantizeFlags)
		if err != nil {
			return err
		}
		fmt.Printf("targets: %v\n", targetNames(q))
		for _, v := range volts {
			fmt.Printf("%.4f -> %.4f\n", v, q.Quantize(v))
		}
		return nil
	},
}
