package model

// NoteEvent is one captured reference note.
type NoteEvent struct {
	PitchClass int
	Octave     int
	// Interval is the melodic step in semitones from the event logged
	// just before this one. It is fixed at write time.
	Interval int
	Duration float64
}

// ReferenceNote is a note pulled from a MIDI file before it is turned
// into a NoteEvent. Start and Duration are in seconds.
type ReferenceNote struct {
	Key      uint8
	Start    float64
	Duration float64
}

type IntervalMode int

const (
	IntervalNone IntervalMode = iota
	IntervalLast
	IntervalMost
)

func (m IntervalMode) String() string {
	switch m {
	case IntervalLast:
		return "last"
	case IntervalMost:
		return "most"
	default:
		return "none"
	}
}

// ParseIntervalMode falls back to IntervalNone for anything it doesn't know.
func ParseIntervalMode(s string) IntervalMode {
	switch s {
	case "last", "LAST":
		return IntervalLast
	case "most", "MOST":
		return IntervalMost
	default:
		return IntervalNone
	}
}

// Params are the control inputs of a quantizer.
type Params struct {
	PitchCount      int
	Window          int
	Offset          int
	OctaveBias      float64
	DurationBias    float64
	IntervalMode    IntervalMode
	SuppressRepeats bool
}

// Snapshot is everything needed to rebuild a quantizer that behaves
// identically to the one it was taken from.
type Snapshot struct {
	Events []NoteEvent
	Head   int
	Full   bool
	Params Params
}
