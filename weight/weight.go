// Package weight learns how strongly each pitch class is in use from a
// window of the event log.
package weight

import (
	"math"

	"github.com/jsphweid/quantdex/eventlog"
	"github.com/jsphweid/quantdex/util"
)

// Cubic y(x) = d + x*(c + x*(b + x*a)) with a=128/45, b=32/15, c=-8/45,
// d=1/5, written around x=0.5 so that y(0.5) is exactly 1.
const (
	curveT3 = 128.0 / 45.0
	curveT2 = 32.0 / 5.0
	curveT1 = 184.0 / 45.0
)

func curve(x float64) float64 {
	t := x - 0.5
	return 1 + t*(curveT1+t*(curveT2+t*curveT3))
}

func lerp(a, b, f float64) float64 {
	return a + (b-a)*f
}

// BiasRatio scales a count by how far normalized sits from the middle.
// A positive control favors normalized near 1, a negative one near 0,
// and zero control always gives 1.
func BiasRatio(normalized, control float64) float64 {
	if control < 0 {
		normalized = 1 - normalized
		control = -control
	}
	return lerp(1, curve(normalized), control)
}

type Params struct {
	Window       int
	Offset       int
	OctaveBias   float64
	DurationBias float64
}

// State is the learned weighting. Weights are in [0, 1] with 0 meaning
// absent. Ages are 1 for the newest pitch class in the window, larger
// for older ones and 0 when unseen.
type State struct {
	Weights [12]float64
	Ages    [12]int
}

// duration treats anything that is not a finite, positive length as 0.
func duration(d float64) float64 {
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return 0
	}
	return d
}

func Compute(log *eventlog.Log, p Params) State {
	var s State
	window := util.Clamp(p.Window, 4, log.Cap())
	offset := util.Clamp(p.Offset, 0, log.Cap())
	octaveBias := util.Clamp(p.OctaveBias, -1, 1)
	durationBias := util.Clamp(p.DurationBias, -1, 1)

	c := log.Window(window, offset)
	if c.Len() == 0 {
		return s
	}

	// running mean keeps durations near MaxFloat64 finite
	var maxDuration, meanDuration float64
	for c.Next() {
		e := c.Event()
		if s.Ages[e.PitchClass] == 0 {
			s.Ages[e.PitchClass] = c.Index() + 1
		}
		d := duration(e.Duration)
		if d > maxDuration {
			maxDuration = d
		}
		meanDuration += (d - meanDuration) / float64(c.Index()+1)
	}
	spread := meanDuration
	if maxDuration-meanDuration > spread {
		spread = maxDuration - meanDuration
	}

	var acc [12]float64
	c.Reset()
	for c.Next() {
		e := c.Event()
		acc[e.PitchClass] += 1
		if maxDuration != 0 && durationBias != 0 {
			norm := 0.5 + (duration(e.Duration)-meanDuration)/spread/2
			if math.IsNaN(norm) {
				norm = 0.5
			}
			acc[e.PitchClass] *= BiasRatio(util.Clamp(norm, 0, 1), durationBias)
		}
		if octaveBias != 0 {
			norm := util.Clamp(float64(e.Octave+3)/6, 0, 1)
			acc[e.PitchClass] *= BiasRatio(norm, octaveBias)
		}
	}

	var max float64
	for _, v := range acc {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		return s
	}
	for pc, v := range acc {
		s.Weights[pc] = v / max
	}
	return s
}
