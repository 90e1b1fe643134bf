package eventlog

import (
	"testing"

	"github.com/jsphweid/quantdex/model"
	"github.com/stretchr/testify/assert"
)

func collect(c *Cursor) []model.NoteEvent {
	var res []model.NoteEvent
	for c.Next() {
		res = append(res, c.Event())
	}
	return res
}

func TestAppendComputesIntervals(t *testing.T) {
	l := New(8)
	l.Append(0, 0, 1, false)
	l.Append(7, 0, 1, false)
	l.Append(2, 1, 1, false)

	assert := assert.New(t)
	events := l.Events()
	assert.Equal(0, events[0].Interval)
	assert.Equal(7, events[1].Interval)
	assert.Equal(-5, events[2].Interval)
	assert.Equal(3, l.Len())
	assert.False(l.Full())
}

func TestAppendWrapsAndSetsFull(t *testing.T) {
	l := New(4)
	for i := 0; i < 5; i++ {
		l.Append(i, 0, 1, false)
	}

	assert := assert.New(t)
	assert.True(l.Full())
	assert.Equal(1, l.Head())
	assert.Equal(4, l.Len())
	last, ok := l.Last()
	assert.True(ok)
	assert.Equal(4, last.PitchClass)
	assert.Equal(1, last.Interval)
}

func TestRepeatSuppression(t *testing.T) {
	l := New(8)
	assert := assert.New(t)
	assert.True(l.Append(5, 0, 1, true))
	assert.False(l.Append(5, 0, 2, true))
	assert.True(l.Append(5, 1, 1, true))
	assert.True(l.Append(5, 1, 1, false))
	assert.Equal(3, l.Len())
}

func TestClear(t *testing.T) {
	l := New(4)
	for i := 0; i < 6; i++ {
		l.Append(i, 0, 1, false)
	}
	l.Clear()

	assert := assert.New(t)
	assert.Equal(0, l.Len())
	assert.False(l.Full())
	_, ok := l.Last()
	assert.False(ok)
	assert.Equal(0, l.Window(4, 0).Len())
}

func TestClearWithPrimingOnFullLog(t *testing.T) {
	l := New(240)
	for i := 0; i < 250; i++ {
		l.Append(i%12, i/12, float64(i), false)
	}
	before := collect(l.Window(4, 0))
	l.ClearWithPriming(4)

	assert := assert.New(t)
	assert.False(l.Full())
	assert.Equal(4, l.Len())
	assert.Equal(4, l.Head())
	events := l.Events()
	for i := 0; i < 4; i++ {
		assert.Equal(before[3-i].PitchClass, events[i].PitchClass)
		assert.Equal(before[3-i].Octave, events[i].Octave)
		assert.Equal(before[3-i].Duration, events[i].Duration)
	}
	assert.Equal(0, events[0].Interval)
	assert.Equal(1, events[1].Interval)
	assert.Equal(model.NoteEvent{}, events[4])
}

func TestClearWithPrimingShortLog(t *testing.T) {
	l := New(16)
	l.Append(3, 0, 1, false)
	l.Append(4, 0, 1, false)
	l.ClearWithPriming(4)

	assert := assert.New(t)
	assert.Equal(2, l.Len())
	events := l.Events()
	assert.Equal(3, events[0].PitchClass)
	assert.Equal(0, events[0].Interval)
	assert.Equal(4, events[1].PitchClass)

	l.Append(6, 0, 1, false)
	assert.Equal(2, l.Events()[2].Interval)
}

func TestClearWithPrimingNeverLeavesFull(t *testing.T) {
	l := New(4)
	for i := 0; i < 4; i++ {
		l.Append(i, 0, 1, false)
	}
	l.ClearWithPriming(10)

	assert := assert.New(t)
	assert.False(l.Full())
	assert.Equal(3, l.Len())
	assert.Equal(1, l.Events()[0].PitchClass)
}

func TestWindowWalksBackwards(t *testing.T) {
	l := New(8)
	for i := 0; i < 5; i++ {
		l.Append(i, 0, 1, false)
	}

	assert := assert.New(t)
	got := collect(l.Window(3, 0))
	assert.Len(got, 3)
	assert.Equal([]int{4, 3, 2}, []int{got[0].PitchClass, got[1].PitchClass, got[2].PitchClass})

	got = collect(l.Window(10, 1))
	assert.Len(got, 4)
	assert.Equal(3, got[0].PitchClass)
	assert.Equal(0, got[3].PitchClass)

	assert.Equal(0, l.Window(4, 5).Len())
	assert.Equal(0, l.Window(4, 99).Len())
}

func TestWindowWrapsWhenFull(t *testing.T) {
	l := New(4)
	for i := 0; i < 6; i++ {
		l.Append(i, 0, 1, false)
	}
	got := collect(l.Window(4, 0))

	assert := assert.New(t)
	assert.Len(got, 4)
	assert.Equal([]int{5, 4, 3, 2}, []int{got[0].PitchClass, got[1].PitchClass, got[2].PitchClass, got[3].PitchClass})

	got = collect(l.Window(4, 2))
	assert.Len(got, 4)
	assert.Equal([]int{3, 2, 5, 4}, []int{got[0].PitchClass, got[1].PitchClass, got[2].PitchClass, got[3].PitchClass})
}

func TestFullWindowWithOffsetKeepsSize(t *testing.T) {
	l := New(240)
	for i := 0; i < 240; i++ {
		l.Append(i%12, 0, 1, false)
	}
	assert := assert.New(t)
	assert.True(l.Full())
	assert.Equal(240, l.Window(240, 10).Len())
	assert.Equal(240, l.Window(240, 240).Len())
	assert.Equal(32, l.Window(32, 230).Len())
}

func TestCursorIsRestartable(t *testing.T) {
	l := New(8)
	l.Append(1, 0, 1, false)
	l.Append(2, 0, 1, false)
	c := l.Window(8, 0)
	first := collect(c)
	assert.False(t, c.Next())
	c.Reset()
	assert.Equal(t, first, collect(c))
}

func TestRestore(t *testing.T) {
	l := New(4)
	for i := 0; i < 6; i++ {
		l.Append(i, 0, float64(i), false)
	}
	r := Restore(4, l.Events(), l.Head(), l.Full())

	assert := assert.New(t)
	assert.Equal(l.Events(), r.Events())
	assert.Equal(l.Head(), r.Head())
	assert.Equal(l.Full(), r.Full())
	assert.Equal(collect(l.Window(4, 0)), collect(r.Window(4, 0)))
}
