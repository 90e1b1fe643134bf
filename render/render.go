package render

import (
	"github.com/jsphweid/quantdex/midi"
	"github.com/jsphweid/quantdex/quantizer"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type Stats struct {
	Notes int
	Moved int
}

type heldKey struct {
	channel uint8
	key     uint8
}

// Quantize copies mf with every note passed through q. Note-offs follow
// the key their note-on was moved to.
func Quantize(mf *smf.SMF, q *quantizer.Quantizer) (*smf.SMF, Stats) {
	var stats Stats
	res := smf.New()
	res.TimeFormat = mf.TimeFormat

	for _, track := range mf.Tracks {
		var newTrack smf.Track
		held := make(map[heldKey][]uint8)
		for _, evt := range track {
			var ch, key, vel uint8
			switch {
			case evt.Message.GetNoteOn(&ch, &key, &vel) && vel > 0:
				moved := midi.VoltsToKey(q.Quantize(midi.KeyToVolts(key)))
				k := heldKey{ch, key}
				held[k] = append(held[k], moved)
				stats.Notes++
				if moved != key {
					stats.Moved++
				}
				newTrack = append(newTrack, smf.Event{Delta: evt.Delta, Message: smf.Message(gomidi.NoteOn(ch, moved, vel))})
			case evt.Message.GetNoteOn(&ch, &key, &vel), evt.Message.GetNoteOff(&ch, &key, &vel):
				k := heldKey{ch, key}
				moved := midi.VoltsToKey(q.Quantize(midi.KeyToVolts(key)))
				if stack := held[k]; len(stack) > 0 {
					moved = stack[0]
					held[k] = stack[1:]
				}
				newTrack = append(newTrack, smf.Event{Delta: evt.Delta, Message: smf.Message(gomidi.NoteOff(ch, moved))})
			default:
				newTrack = append(newTrack, evt)
			}
		}
		res.Tracks = append(res.Tracks, newTrack)
	}

	return res, stats
}
