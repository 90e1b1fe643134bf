package render

import (
	"testing"

	"github.com/jsphweid/quantdex/midi"
	"github.com/jsphweid/quantdex/model"
	"github.com/jsphweid/quantdex/quantizer"
	"github.com/stretchr/testify/assert"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type note struct {
	on  bool
	key uint8
}

func notesOf(tr smf.Track) []note {
	var res []note
	for _, evt := range tr {
		var ch, key, vel uint8
		switch {
		case evt.Message.GetNoteOn(&ch, &key, &vel) && vel > 0:
			res = append(res, note{true, key})
		case evt.Message.GetNoteOn(&ch, &key, &vel), evt.Message.GetNoteOff(&ch, &key, &vel):
			res = append(res, note{false, key})
		}
	}
	return res
}

func triad() *quantizer.Quantizer {
	q := quantizer.New(model.Params{PitchCount: 3, Window: 32})
	for _, key := range []uint8{60, 64, 67} {
		q.Append(midi.KeyToVolts(key), 0.5)
	}
	return q
}

func TestQuantizeMovesNotes(t *testing.T) {
	var tr smf.Track
	tr.Add(0, gomidi.NoteOn(0, 61, 100))
	tr.Add(480, gomidi.NoteOff(0, 61))
	tr.Add(0, gomidi.NoteOn(0, 74, 100))
	tr.Add(480, gomidi.NoteOn(0, 74, 0))
	tr.Add(0, gomidi.NoteOn(0, 55, 100))
	tr.Add(480, gomidi.NoteOff(0, 55))
	tr.Close(0)
	in := smf.New()
	in.Tracks = append(in.Tracks, tr)

	out, stats := Quantize(in, triad())

	assert := assert.New(t)
	assert.Equal(Stats{Notes: 3, Moved: 2}, stats)
	assert.Len(out.Tracks, 1)
	assert.Equal([]note{{true, 60}, {false, 60}, {true, 76}, {false, 76}, {true, 55}, {false, 55}}, notesOf(out.Tracks[0]))
	assert.Equal(len(tr), len(out.Tracks[0]))
	for i := range tr {
		assert.Equal(tr[i].Delta, out.Tracks[0][i].Delta)
	}
}

func TestOverlappingNotesReleaseWhereTheySounded(t *testing.T) {
	var tr smf.Track
	tr.Add(0, gomidi.NoteOn(0, 62, 100))
	tr.Add(10, gomidi.NoteOn(0, 62, 90))
	tr.Add(10, gomidi.NoteOff(0, 62))
	tr.Add(10, gomidi.NoteOff(0, 62))
	tr.Close(0)
	in := smf.New()
	in.Tracks = append(in.Tracks, tr)

	out, stats := Quantize(in, triad())
	assert.Equal(t, Stats{Notes: 2, Moved: 2}, stats)
	assert.Equal(t, []note{{true, 64}, {true, 64}, {false, 64}, {false, 64}}, notesOf(out.Tracks[0]))
}

func TestPassThroughWithoutReference(t *testing.T) {
	var tr smf.Track
	tr.Add(0, gomidi.NoteOn(3, 61, 100))
	tr.Add(480, gomidi.NoteOff(3, 61))
	tr.Close(0)
	in := smf.New()
	in.Tracks = append(in.Tracks, tr)

	out, stats := Quantize(in, quantizer.New(quantizer.DefaultParams()))
	assert.Equal(t, Stats{Notes: 1}, stats)
	assert.Equal(t, []note{{true, 61}, {false, 61}}, notesOf(out.Tracks[0]))
}
