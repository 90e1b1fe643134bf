package cmd

import (
	"fmt"
	"os"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/jsphweid/quantdex/midi"
	"github.com/jsphweid/quantdex/render"
	"github.com/spf13/cobra"
)

var renderFlags paramFlags

func init() {
	addParamFlags(renderCmd, &renderFlags)
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render <reference.mid> <input.mid> <output.mid>",
	Short: "Quantizes a MIDI file against a reference file",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRender(args[0], args[1], args[2])
	},
}

func runRender(referencePath, inputPath, outputPath string) error {
	q, err := learnFromFile(referencePath, renderFlags)
	if err != nil {
		return err
	}
	fmt.Printf("targets: %v\n", targetNames(q))

	in, err := midi.ReadMidiFile(inputPath)
	if err != nil {
		return err
	}
	out, stats := render.Quantize(in, q)

	f, err := os.Create(outputPath)
	if err != nil {
		return fault.Wrap(err, fmsg.With("couldn't open file: "+outputPath))
	}
	if _, err := out.WriteTo(f); err != nil {
		f.Close()
		return fault.Wrap(err, fmsg.With("write failed for file: "+outputPath))
	}
	if err := f.Close(); err != nil {
		return fault.Wrap(err, fmsg.With("couldn't close file: "+outputPath))
	}

	fmt.Printf("moved %v of %v notes\n", stats.Moved, stats.Notes)
	return nil
}
