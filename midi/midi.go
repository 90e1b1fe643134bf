package midi

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/jsphweid/quantdex/constants"
	"github.com/jsphweid/quantdex/util"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = fault.Wrap(fault.New(fmt.Sprintf("midi parser panicked: %v", r)), ftag.With(ftag.InvalidArgument))
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fault.Wrap(err, fmsg.With("error reading midi file"), ftag.With(ftag.NotFound))
		}
		return nil, fault.Wrap(err, fmsg.With("error reading midi file"))
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("error parsing midi file"), ftag.With(ftag.InvalidArgument))
	}

	return res, nil
}

// KeyToVolts maps a MIDI key to 1V/octave with middle C at 0V.
func KeyToVolts(key uint8) float64 {
	return float64(int(key)-constants.ZeroVoltKey) / 12
}

// VoltsToKey is the inverse of KeyToVolts, clamped to the MIDI range.
func VoltsToKey(volts float64) uint8 {
	k := math.Round(volts*12) + constants.ZeroVoltKey
	return uint8(util.Clamp(k, 0, 127))
}
