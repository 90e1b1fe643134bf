package cmd

import (
	"fmt"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/ftag"
	"github.com/jsphweid/quantdex/constants"
	"github.com/jsphweid/quantdex/midi"
	"github.com/jsphweid/quantdex/model"
	"github.com/jsphweid/quantdex/quantizer"
	"github.com/spf13/cobra"
)

type paramFlags struct {
	pitches         int
	window          int
	offset          int
	octaveBias      float64
	durationBias    float64
	intervalMode    string
	suppressRepeats bool
	channel         int
}

func addParamFlags(cmd *cobra.Command, f *paramFlags) {
	cmd.Flags().IntVar(&f.pitches, "pitches", constants.DefaultPitchCount, "number of target pitches (1-12)")
	cmd.Flags().IntVar(&f.window, "window", constants.DefaultWindow, fmt.Sprintf("notes of history to learn from (%d-%d)", constants.MinWindow, constants.MaxWindow))
	cmd.Flags().IntVar(&f.offset, "offset", 0, "skip this many of the newest notes")
	cmd.Flags().Float64Var(&f.octaveBias, "octave-bias", 0, "favor high (+) or low (-) reference octaves (-1..1)")
	cmd.Flags().Float64Var(&f.durationBias, "duration-bias", 0, "favor long (+) or short (-) reference notes (-1..1)")
	cmd.Flags().StringVar(&f.intervalMode, "interval-mode", "none", "interval override: none|last|most")
	cmd.Flags().BoolVar(&f.suppressRepeats, "suppress-repeats", false, "ignore a reference note equal to the previous one")
	cmd.Flags().IntVar(&f.channel, "channel", midi.AllChannels, "only learn from this MIDI channel (0-15, -1 for all)")
}

func (f paramFlags) params() (model.Params, error) {
	mode := strings.ToLower(strings.TrimSpace(f.intervalMode))
	if mode != "none" && mode != "last" && mode != "most" {
		return model.Params{}, fault.Wrap(fault.New(fmt.Sprintf("invalid --interval-mode %q (expected none|last|most)", f.intervalMode)), ftag.With(ftag.InvalidArgument))
	}
	return quantizer.ClampParams(model.Params{
		PitchCount:      f.pitches,
		Window:          f.window,
		Offset:          f.offset,
		OctaveBias:      f.octaveBias,
		DurationBias:    f.durationBias,
		IntervalMode:    model.ParseIntervalMode(mode),
		SuppressRepeats: f.suppressRepeats,
	}), nil
}

// learnFromFile builds a quantizer from the notes of a reference file.
func learnFromFile(path string, f paramFlags) (*quantizer.Quantizer, error) {
	p, err := f.params()
	if err != nil {
		return nil, err
	}
	mf, err := midi.ReadMidiFile(path)
	if err != nil {
		return nil, err
	}
	q := quantizer.New(p)
	for _, n := range midi.ReferenceNotes(mf, f.channel) {
		q.Append(midi.KeyToVolts(n.Key), n.Duration)
	}
	return q, nil
}
