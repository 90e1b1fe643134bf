// Package distance builds the per-degree quantization table: for every
// chromatic degree, the signed semitone step to the target it snaps to.
package distance

import (
	"github.com/jsphweid/quantdex/eventlog"
	"github.com/jsphweid/quantdex/model"
	"github.com/jsphweid/quantdex/target"
	"github.com/jsphweid/quantdex/util"
)

// Table holds steps in [-6, 5]. -6 is the equidistant tritone case and
// is resolved by the caller from the unrounded input.
type Table [12]int

// Histogram counts interval classes 1..11 seen in a window. Index 0 is
// unused.
type Histogram [12]int

type Input struct {
	Mask    target.Mask
	Weights [12]float64
	Ages    [12]int
	Mode    model.IntervalMode
	// HasHistory is false while the log is empty, which disables the
	// interval override.
	HasHistory   bool
	LastInterval int
	Intervals    Histogram
}

// Normalize maps any interval into [-6, 5] modulo 12.
func Normalize(interval int) int {
	return util.FloorMod(interval+6, 12) - 6
}

func IntervalHistogram(c *eventlog.Cursor) Histogram {
	var h Histogram
	c.Reset()
	for c.Next() {
		ic := util.FloorMod(c.Event().Interval, 12)
		if ic != 0 {
			h[ic]++
		}
	}
	return h
}

type Pick int

const (
	PickNone Pick = iota
	PickLower
	PickUpper
)

// PickEligibleCandidate decides between the two targets found at the same
// distance below and above a degree. The heavier one wins, then the more
// recently seen one, then the lower one.
func PickEligibleCandidate(lowerEligible, upperEligible bool, weightLower, weightUpper float64, ageLower, ageUpper int) Pick {
	switch {
	case lowerEligible && !upperEligible:
		return PickLower
	case upperEligible && !lowerEligible:
		return PickUpper
	case !lowerEligible && !upperEligible:
		return PickNone
	}
	if weightUpper > weightLower || (weightUpper == weightLower && ageUpper < ageLower) {
		return PickUpper
	}
	return PickLower
}

func Compute(in Input) Table {
	var t Table
	for qdi := 0; qdi < 12; qdi++ {
		t[qdi] = degree(in, qdi)
	}
	return t
}

func degree(in Input, qdi int) int {
	if in.Mask == 0 || in.Mask.Has(qdi) {
		return 0
	}
	if in.Mode != model.IntervalNone && in.HasHistory {
		if interval, ok := override(in, qdi); ok {
			return Normalize(interval)
		}
	}
	dist, _ := nearest(in, qdi)
	return dist
}

func override(in Input, qdi int) (int, bool) {
	switch in.Mode {
	case model.IntervalLast:
		if util.FloorMod(in.LastInterval, 12) == 0 {
			return 0, false
		}
		if in.Mask.Has(qdi + in.LastInterval) {
			return in.LastInterval, true
		}
		return 0, false
	case model.IntervalMost:
		return mostInterval(in, qdi)
	}
	return 0, false
}

// mostInterval picks the most frequent interval class that lands on a
// target. Ties between i and 12-i go to the heavier landing pitch, then
// to i. Smaller interval classes are checked first.
func mostInterval(in Input, qdi int) (int, bool) {
	var filtered Histogram
	var max int
	for ic := 1; ic < 12; ic++ {
		if in.Intervals[ic] > 0 && in.Mask.Has(qdi+ic) {
			filtered[ic] = in.Intervals[ic]
			if filtered[ic] > max {
				max = filtered[ic]
			}
		}
	}
	if max == 0 {
		return 0, false
	}
	for i := 1; i <= 6; i++ {
		up, down := i, 12-i
		upMax := filtered[up] == max
		downMax := filtered[down] == max
		switch {
		case upMax && downMax:
			if in.Weights[(qdi+down)%12] > in.Weights[(qdi+up)%12] {
				return down, true
			}
			return up, true
		case upMax:
			return up, true
		case downMax:
			return down, true
		}
	}
	return 0, false
}

// nearest scans outward for the closest target. It reports exhausted when
// nothing was found within five semitones, which only happens when the
// tritone above qdi is the sole target.
func nearest(in Input, qdi int) (dist int, exhausted bool) {
	for d := 1; d <= 5; d++ {
		lower := util.FloorMod(qdi-d, 12)
		upper := (qdi + d) % 12
		pick := PickEligibleCandidate(
			in.Mask.Has(lower), in.Mask.Has(upper),
			in.Weights[lower], in.Weights[upper],
			in.Ages[lower], in.Ages[upper],
		)
		switch pick {
		case PickLower:
			return -d, false
		case PickUpper:
			return d, false
		}
	}
	return -6, true
}
