// Package quantizer is the adaptive pitch quantizer: it learns which pitch
// classes are in use from reference notes and snaps incoming voltages
// (1V/octave, 0V = pitch class 0) to them.
//
// A Quantizer is not safe for concurrent use. Quantize never recomputes
// anything; every setter recomputes exactly the cached state its
// parameter feeds.
package quantizer

import (
	"math"

	"github.com/jsphweid/quantdex/constants"
	"github.com/jsphweid/quantdex/distance"
	"github.com/jsphweid/quantdex/eventlog"
	"github.com/jsphweid/quantdex/model"
	"github.com/jsphweid/quantdex/target"
	"github.com/jsphweid/quantdex/util"
	"github.com/jsphweid/quantdex/weight"
)

type Quantizer struct {
	log     *eventlog.Log
	params  model.Params
	weights weight.State
	targets target.State
	table   distance.Table

	gate      bool
	capturing bool
	captured  float64
	elapsed   float64

	counts recomputeCounts
}

type recomputeCounts struct {
	weights   int
	targets   int
	distances int
}

func DefaultParams() model.Params {
	return model.Params{
		PitchCount: constants.DefaultPitchCount,
		Window:     constants.DefaultWindow,
	}
}

// ClampParams forces every control into its valid range.
func ClampParams(p model.Params) model.Params {
	p.PitchCount = util.Clamp(p.PitchCount, constants.MinPitchCount, constants.MaxPitchCount)
	p.Window = util.Clamp(p.Window, constants.MinWindow, constants.MaxWindow)
	p.Offset = util.Clamp(p.Offset, constants.MinOffset, constants.MaxOffset)
	p.OctaveBias = clampBias(p.OctaveBias)
	p.DurationBias = clampBias(p.DurationBias)
	if p.IntervalMode < model.IntervalNone || p.IntervalMode > model.IntervalMost {
		p.IntervalMode = model.IntervalNone
	}
	return p
}

func clampBias(b float64) float64 {
	if math.IsNaN(b) {
		return 0
	}
	return util.Clamp(b, constants.MinBias, constants.MaxBias)
}

func New(p model.Params) *Quantizer {
	q := &Quantizer{
		log:    eventlog.New(constants.LogCapacity),
		params: ClampParams(p),
	}
	q.recomputeWeights()
	return q
}

// Restore rebuilds a quantizer from a snapshot.
func Restore(s model.Snapshot) *Quantizer {
	q := &Quantizer{
		log:    eventlog.Restore(constants.LogCapacity, s.Events, s.Head, s.Full),
		params: ClampParams(s.Params),
	}
	q.recomputeWeights()
	return q
}

func (q *Quantizer) Snapshot() model.Snapshot {
	return model.Snapshot{
		Events: q.log.Events(),
		Head:   q.log.Head(),
		Full:   q.log.Full(),
		Params: q.params,
	}
}

func (q *Quantizer) recomputeWeights() {
	q.counts.weights++
	q.weights = weight.Compute(q.log, weight.Params{
		Window:       q.params.Window,
		Offset:       q.params.Offset,
		OctaveBias:   q.params.OctaveBias,
		DurationBias: q.params.DurationBias,
	})
	q.recomputeTargets()
}

func (q *Quantizer) recomputeTargets() {
	q.counts.targets++
	q.targets = target.Select(q.weights.Weights, q.params.PitchCount)
	q.recomputeDistances()
}

func (q *Quantizer) recomputeDistances() {
	q.counts.distances++
	in := distance.Input{
		Mask:       q.targets.Mask,
		Weights:    q.weights.Weights,
		Ages:       q.weights.Ages,
		Mode:       q.params.IntervalMode,
		HasHistory: q.log.Len() > 0,
	}
	if last, ok := q.log.Last(); ok {
		in.LastInterval = last.Interval
	}
	if in.Mode == model.IntervalMost {
		in.Intervals = distance.IntervalHistogram(q.log.Window(q.params.Window, q.params.Offset))
	}
	q.table = distance.Compute(in)
}

// Quantize snaps a voltage to the nearest acceptable target.
func (q *Quantizer) Quantize(volts float64) float64 {
	if math.IsNaN(volts) || math.IsInf(volts, 0) {
		return volts
	}
	noteFloat := volts * 12
	noteInt := math.Round(noteFloat)
	dist := q.table[util.FloorMod(int(noteInt), 12)]
	// Equidistant case: resolve by which side of the semitone we came from
	// so a rising input crosses the ambiguity once.
	if dist == -6 && noteFloat > noteInt {
		dist = 6
	}
	return (noteInt + float64(dist)) / 12
}

// NoteOf splits a voltage into pitch class and octave around 0V.
func NoteOf(volts float64) (pitchClass, octave int) {
	n := int(math.Round(volts * 12))
	return util.FloorMod(n, 12), util.FloorDiv(n, 12)
}

// AppendNote logs a reference note and relearns. It reports false when
// the note was dropped as a repeat or its duration is not finite.
// Negative durations are logged as 0.
func (q *Quantizer) AppendNote(pitchClass, octave int, duration float64) bool {
	if math.IsNaN(duration) || math.IsInf(duration, 0) {
		return false
	}
	if duration < 0 {
		duration = 0
	}
	if !q.log.Append(util.FloorMod(pitchClass, 12), octave, duration, q.params.SuppressRepeats) {
		return false
	}
	q.recomputeWeights()
	return true
}

// Append logs a reference voltage. Non-finite voltages are dropped.
func (q *Quantizer) Append(refVolts, duration float64) bool {
	if math.IsNaN(refVolts) || math.IsInf(refVolts, 0) {
		return false
	}
	pc, oct := NoteOf(refVolts)
	return q.AppendNote(pc, oct, duration)
}

func (q *Quantizer) Clear() {
	q.log.Clear()
	q.recomputeWeights()
}

// ClearWithPriming clears the log but keeps the newest k notes.
func (q *Quantizer) ClearWithPriming(k int) {
	if k <= 0 {
		q.Clear()
		return
	}
	q.log.ClearWithPriming(k)
	q.recomputeWeights()
}

// BeginCapture latches the reference pitch at a gate's rising edge.
func (q *Quantizer) BeginCapture(refVolts float64) {
	q.capturing = true
	q.captured = refVolts
	q.elapsed = 0
}

// EndCapture commits the latched pitch with the time the gate was held.
func (q *Quantizer) EndCapture(duration float64) bool {
	if !q.capturing {
		return false
	}
	q.capturing = false
	return q.Append(q.captured, duration)
}

// Step feeds one host sample of gate and reference pitch, dt seconds long.
// It reports whether a note was committed on this sample.
func (q *Quantizer) Step(gate bool, refVolts, dt float64) bool {
	committed := false
	switch {
	case gate && !q.gate:
		q.BeginCapture(refVolts)
		q.elapsed += dt
	case gate:
		q.elapsed += dt
	case q.gate:
		committed = q.EndCapture(q.elapsed)
	}
	q.gate = gate
	return committed
}

func (q *Quantizer) SetPitchCount(n int) {
	n = util.Clamp(n, constants.MinPitchCount, constants.MaxPitchCount)
	if n == q.params.PitchCount {
		return
	}
	q.params.PitchCount = n
	q.recomputeTargets()
}

func (q *Quantizer) SetWindow(n int) {
	n = util.Clamp(n, constants.MinWindow, constants.MaxWindow)
	if n == q.params.Window {
		return
	}
	q.params.Window = n
	q.recomputeWeights()
}

func (q *Quantizer) SetOffset(n int) {
	n = util.Clamp(n, constants.MinOffset, constants.MaxOffset)
	if n == q.params.Offset {
		return
	}
	q.params.Offset = n
	q.recomputeWeights()
}

func (q *Quantizer) SetOctaveBias(b float64) {
	b = clampBias(b)
	if b == q.params.OctaveBias {
		return
	}
	q.params.OctaveBias = b
	q.recomputeWeights()
}

func (q *Quantizer) SetDurationBias(b float64) {
	b = clampBias(b)
	if b == q.params.DurationBias {
		return
	}
	q.params.DurationBias = b
	q.recomputeWeights()
}

func (q *Quantizer) SetIntervalMode(m model.IntervalMode) {
	if m < model.IntervalNone || m > model.IntervalMost {
		m = model.IntervalNone
	}
	if m == q.params.IntervalMode {
		return
	}
	q.params.IntervalMode = m
	q.recomputeDistances()
}

func (q *Quantizer) SetSuppressRepeats(on bool) {
	q.params.SuppressRepeats = on
}

// SetParams applies p one control at a time so only the affected caches
// are recomputed.
func (q *Quantizer) SetParams(p model.Params) {
	q.SetSuppressRepeats(p.SuppressRepeats)
	q.SetWindow(p.Window)
	q.SetOffset(p.Offset)
	q.SetOctaveBias(p.OctaveBias)
	q.SetDurationBias(p.DurationBias)
	q.SetPitchCount(p.PitchCount)
	q.SetIntervalMode(p.IntervalMode)
}

func (q *Quantizer) Params() model.Params      { return q.params }
func (q *Quantizer) Weights() [12]float64      { return q.weights.Weights }
func (q *Quantizer) Ages() [12]int             { return q.weights.Ages }
func (q *Quantizer) TargetMask() target.Mask   { return q.targets.Mask }
func (q *Quantizer) SortedByWeight() [12]int   { return q.targets.Sorted }
func (q *Quantizer) Distances() distance.Table { return q.table }
func (q *Quantizer) Fill() int                 { return q.log.Len() }
func (q *Quantizer) Capacity() int             { return q.log.Cap() }

// HasTargets is false while the quantizer passes input through untouched.
func (q *Quantizer) HasTargets() bool { return q.targets.Mask != 0 }

// OffsetExceedsHistory reports an offset that reaches past every logged note.
func (q *Quantizer) OffsetExceedsHistory() bool {
	return q.params.Offset > 0 && q.params.Offset >= q.log.Len()
}
