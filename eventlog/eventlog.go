// Package eventlog is a fixed-capacity ring of captured reference notes.
// All wrap-around arithmetic for the quantizer lives here.
package eventlog

import (
	"github.com/jsphweid/quantdex/model"
	"github.com/jsphweid/quantdex/util"
)

type Log struct {
	events []model.NoteEvent
	head   int
	full   bool
}

func New(capacity int) *Log {
	if capacity < 1 {
		capacity = 1
	}
	return &Log{events: make([]model.NoteEvent, capacity)}
}

func (l *Log) Cap() int { return len(l.events) }

// Len is the number of valid events.
func (l *Log) Len() int {
	if l.full {
		return len(l.events)
	}
	return l.head
}

func (l *Log) Head() int  { return l.head }
func (l *Log) Full() bool { return l.full }

func (l *Log) wrap(i int) int {
	return util.FloorMod(i, len(l.events))
}

// Last returns the most recently written event.
func (l *Log) Last() (model.NoteEvent, bool) {
	if l.Len() == 0 {
		return model.NoteEvent{}, false
	}
	return l.events[l.wrap(l.head-1)], true
}

// Append writes a new event at head. With suppressRepeats set, a note
// with the same pitch class and octave as the last one is dropped and
// Append reports false.
func (l *Log) Append(pitchClass, octave int, duration float64, suppressRepeats bool) bool {
	var interval int
	if last, ok := l.Last(); ok {
		if suppressRepeats && last.PitchClass == pitchClass && last.Octave == octave {
			return false
		}
		interval = pitchClass - last.PitchClass
	}
	l.events[l.head] = model.NoteEvent{
		PitchClass: pitchClass,
		Octave:     octave,
		Interval:   interval,
		Duration:   duration,
	}
	l.head++
	if l.head >= len(l.events) {
		l.head = 0
		l.full = true
	}
	return true
}

func (l *Log) Clear() {
	for i := range l.events {
		l.events[i] = model.NoteEvent{}
	}
	l.head = 0
	l.full = false
}

// ClearWithPriming keeps the newest k events, moved in order to the start
// of the ring. The first kept event loses its interval since nothing
// precedes it anymore. At most Cap()-1 events survive so the log
// always comes out not full.
func (l *Log) ClearWithPriming(k int) {
	keep := util.Clamp(k, 0, util.Min(l.Len(), l.Cap()-1))
	kept := make([]model.NoteEvent, keep)
	for i := 0; i < keep; i++ {
		kept[i] = l.events[l.wrap(l.head-keep+i)]
	}
	l.Clear()
	copy(l.events, kept)
	if keep > 0 {
		l.events[0].Interval = 0
	}
	l.head = keep
}

// Events returns a copy of every slot in storage order.
func (l *Log) Events() []model.NoteEvent {
	res := make([]model.NoteEvent, len(l.events))
	copy(res, l.events)
	return res
}

// Restore replaces the log contents. Slots beyond capacity are ignored
// and head is wrapped into range.
func Restore(capacity int, events []model.NoteEvent, head int, full bool) *Log {
	l := New(capacity)
	copy(l.events, events)
	l.head = l.wrap(head)
	l.full = full
	for i := range l.events {
		l.events[i].PitchClass = util.FloorMod(l.events[i].PitchClass, 12)
	}
	return l
}

// Window walks backwards from the event offset positions before the most
// recent one, yielding at most size events. Until the log is full the
// walk stops at the oldest written slot; a full log always yields size
// events, wrapping through the ring.
func (l *Log) Window(size, offset int) *Cursor {
	offset = util.Clamp(offset, 0, l.Cap())
	avail := l.Cap()
	if !l.full {
		avail = l.head - offset
	}
	n := util.Clamp(size, 0, util.Max(avail, 0))
	return &Cursor{log: l, start: l.head - 1 - offset, n: n, i: -1}
}

// Cursor is a restartable backward walk over a Window. Index 0 is the
// newest event in the window.
type Cursor struct {
	log   *Log
	start int
	n     int
	i     int
}

func (c *Cursor) Len() int { return c.n }

func (c *Cursor) Next() bool {
	if c.i+1 >= c.n {
		c.i = c.n
		return false
	}
	c.i++
	return true
}

func (c *Cursor) Index() int { return c.i }

func (c *Cursor) Event() model.NoteEvent {
	return c.log.events[c.log.wrap(c.start-c.i)]
}

func (c *Cursor) Reset() { c.i = -1 }
