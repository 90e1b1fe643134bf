package midi

import (
	"sync"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/jsphweid/quantdex/model"
	"gitlab.com/gomidi/midi/v2"
)

// Tracker turns live note start/end messages into reference notes.
// Timestamps are milliseconds since the listener started.
type Tracker struct {
	mu      sync.Mutex
	pressed map[uint8]int32
}

func NewTracker() *Tracker {
	return &Tracker{pressed: make(map[uint8]int32)}
}

func (t *Tracker) NoteStart(key uint8, timestampms int32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pressed[key] = timestampms
}

// NoteEnd reports the finished note, or false for a key that was never
// started.
func (t *Tracker) NoteEnd(key uint8, timestampms int32) (model.ReferenceNote, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	start, ok := t.pressed[key]
	if !ok {
		return model.ReferenceNote{}, false
	}
	delete(t.pressed, key)
	return model.ReferenceNote{
		Key:      key,
		Start:    float64(start) / 1000,
		Duration: float64(timestampms-start) / 1000,
	}, true
}

// Listen opens an input port of the registered MIDI driver and calls
// onNote for every completed note. The caller must call stop and then
// midi.CloseDriver.
func Listen(port int, onNote func(model.ReferenceNote)) (stop func(), err error) {
	in, err := midi.InPort(port)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("can't find midi input port"), ftag.With(ftag.NotFound))
	}

	tracker := NewTracker()
	stop, err = midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			tracker.NoteStart(key, timestampms)
		case msg.GetNoteEnd(&ch, &key):
			if n, ok := tracker.NoteEnd(key, timestampms); ok {
				onNote(n)
			}
		default:
			// ignore
		}
	})
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("could not listen to midi input"))
	}
	return stop, nil
}
