package constants

import "os"

func GetStateDir() string {
	path := os.Getenv("QUANTDEX_STATE_DIR")
	if path != "" {
		return path
	}
	return "./state"
}

// GetDynamoEndpoint returns "" when snapshots should stay on disk.
func GetDynamoEndpoint() string {
	return os.Getenv("QUANTDEX_DYNAMO_ENDPOINT")
}

func GetDynamoTable() string {
	table := os.Getenv("QUANTDEX_DYNAMO_TABLE")
	if table != "" {
		return table
	}
	return "quantdex-sessions"
}

func GetDynamoRegion() string {
	region := os.Getenv("QUANTDEX_DYNAMO_REGION")
	if region != "" {
		return region
	}
	return "localhost"
}

func GetAddr() string {
	addr := os.Getenv("QUANTDEX_ADDR")
	if addr != "" {
		return addr
	}
	return ":8080"
}

// LogCapacity is the number of reference notes the event log holds.
// It has to stay divisible by DisplayGranularity.
const LogCapacity = 240

const DisplayGranularity = 8

const NumPitchClasses = 12

// Parameter ranges. Every control is clamped into these at the boundary.
const (
	MinPitchCount = 1
	MaxPitchCount = NumPitchClasses
	MinWindow     = 4
	MaxWindow     = LogCapacity
	MinOffset     = 0
	MaxOffset     = LogCapacity
	MinBias       = -1.0
	MaxBias       = 1.0
)

// Defaults for a fresh quantizer.
const (
	DefaultPitchCount = 7
	DefaultWindow     = 32
	DefaultPrime      = 4
)

// MIDI key that maps to 0V, pitch class 0, octave 0.
const ZeroVoltKey = 60

// Debounce applied to snapshot autosaves after parameter bursts.
const SaveDebounceMillis = 250
