package chart

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/jsphweid/quantdex/target"
	"github.com/stretchr/testify/assert"
)

func assertColorAt(t *testing.T, buf []byte, pc int, want Color) {
	img, err := png.Decode(bytes.NewReader(buf))
	if err != nil {
		t.Fatal(err)
	}
	x, y := BarCenter(pc)
	r, g, b, _ := img.At(x, y).RGBA()
	assert.InDelta(t, want.R*0xffff, float64(r), 0x300, "red at %v", pc)
	assert.InDelta(t, want.G*0xffff, float64(g), 0x300, "green at %v", pc)
	assert.InDelta(t, want.B*0xffff, float64(b), 0x300, "blue at %v", pc)
}

func TestDraw(t *testing.T) {
	var weights [12]float64
	var ages [12]int
	weights[0], ages[0] = 1, 3
	weights[4], ages[4] = 0.5, 2
	weights[7], ages[7] = 0.25, 1

	var buf bytes.Buffer
	err := Draw(&buf, weights, ages, target.Mask(1<<0|1<<4))
	if err != nil {
		t.Fatal(err)
	}

	img, err := png.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, Width, img.Bounds().Dx())
	assert.Equal(t, Height, img.Bounds().Dy())

	assertColorAt(t, buf.Bytes(), 0, TargetBar)
	assertColorAt(t, buf.Bytes(), 4, TargetBar)
	assertColorAt(t, buf.Bytes(), 7, OtherBar)
	assertColorAt(t, buf.Bytes(), 2, Background)
}
