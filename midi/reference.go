package midi

import (
	"sort"

	"github.com/jsphweid/quantdex/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

// AllChannels disables channel filtering in ReferenceNotes.
const AllChannels = -1

type reducedEvent struct {
	offset    int64
	isNoteOff bool
	channel   uint8
	key       uint8
}

type pressKey struct {
	channel uint8
	key     uint8
}

// ReferenceNotes pairs note-ons with their note-offs across all tracks and
// returns the notes ordered by start time. Notes that never end are
// dropped; a retriggered key ends the previous note.
func ReferenceNotes(s *smf.SMF, channel int) []model.ReferenceNote {
	var reducedEvents []reducedEvent
	for _, events := range s.Tracks {
		var absTicks int64
		for _, event := range events {
			absTicks += int64(event.Delta)
			var ch, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&ch, &key, &velocity):
				reducedEvents = append(reducedEvents, reducedEvent{
					offset:    s.TimeAt(absTicks),
					isNoteOff: velocity == 0,
					channel:   ch,
					key:       key,
				})
			case event.Message.GetNoteOff(&ch, &key, &velocity):
				reducedEvents = append(reducedEvents, reducedEvent{
					offset:    s.TimeAt(absTicks),
					isNoteOff: true,
					channel:   ch,
					key:       key,
				})
			}
		}
	}

	// prioritize smaller offset values then note off
	sort.SliceStable(reducedEvents, func(i, j int) bool {
		if reducedEvents[i].offset != reducedEvents[j].offset {
			return reducedEvents[i].offset < reducedEvents[j].offset
		}
		return reducedEvents[i].isNoteOff && !reducedEvents[j].isNoteOff
	})

	var notes []model.ReferenceNote
	pressed := make(map[pressKey]int64)
	release := func(k pressKey, at int64) {
		start, ok := pressed[k]
		if !ok {
			return
		}
		delete(pressed, k)
		notes = append(notes, model.ReferenceNote{
			Key:      k.key,
			Start:    float64(start) / 1e6,
			Duration: float64(at-start) / 1e6,
		})
	}
	for _, evt := range reducedEvents {
		if channel != AllChannels && int(evt.channel) != channel {
			continue
		}
		k := pressKey{evt.channel, evt.key}
		release(k, evt.offset)
		if !evt.isNoteOff {
			pressed[k] = evt.offset
		}
	}

	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Start != notes[j].Start {
			return notes[i].Start < notes[j].Start
		}
		return notes[i].Key < notes[j].Key
	})
	return notes
}
