package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jsphweid/quantdex/quantizer"
)

var pitchNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func printState(w io.Writer, q *quantizer.Quantizer) {
	p := q.Params()
	fmt.Fprintf(w, "params: pitches=%v window=%v offset=%v octave-bias=%v duration-bias=%v interval-mode=%v suppress-repeats=%v\n",
		p.PitchCount, p.Window, p.Offset, p.OctaveBias, p.DurationBias, p.IntervalMode, p.SuppressRepeats)
	fmt.Fprintf(w, "fill: %v of %v\n", q.Fill(), q.Capacity())

	weights, ages, dists, mask := q.Weights(), q.Ages(), q.Distances(), q.TargetMask()
	fmt.Fprintf(w, "%-4s %-7s %-4s %-6s %s\n", "pc", "weight", "age", "target", "dist")
	for pc := 0; pc < 12; pc++ {
		target := ""
		if mask.Has(pc) {
			target = "*"
		}
		fmt.Fprintf(w, "%-4s %-7.3f %-4d %-6s %+d\n", pitchNames[pc], weights[pc], ages[pc], target, dists[pc])
	}
	fmt.Fprintf(w, "by weight: %v\n", rankedNames(q))

	if !q.HasTargets() {
		fmt.Fprintln(w, "warning: no usable targets, input is only rounded to semitones")
	}
	if q.OffsetExceedsHistory() {
		fmt.Fprintln(w, "warning: offset exceeds recorded history")
	}
}

// rankedNames lists the pitch classes that were heard, heaviest first.
func rankedNames(q *quantizer.Quantizer) string {
	weights := q.Weights()
	var names []string
	for _, pc := range q.SortedByWeight() {
		if weights[pc] <= 0 {
			break
		}
		names = append(names, pitchNames[pc])
	}
	return strings.Join(names, " ")
}

func targetNames(q *quantizer.Quantizer) string {
	var names []string
	for _, pc := range q.TargetMask().PitchClasses() {
		names = append(names, pitchNames[pc])
	}
	return strings.Join(names, " ")
}
