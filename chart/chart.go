// Package chart draws the pitch class weights of a quantizer as a PNG.
package chart

import (
	"fmt"
	"io"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/jsphweid/quantdex/target"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	Width  = 600
	Height = 300

	margin = 20.0
	labelH = 30.0
	barW   = (Width - 2*margin) / 12
	barGap = 4.0
)

type Color struct {
	R, G, B float64
}

var (
	Background = Color{0.17, 0.17, 0.17}
	TargetBar  = Color{0.3, 0.7, 0.4}
	OtherBar   = Color{0.5, 0.5, 0.5}
)

var pitchNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func setRGBColor(dc *gg.Context, c Color) {
	dc.SetRGB(c.R, c.G, c.B)
}

// BarCenter is the pixel in the middle of pitch class pc's column, just
// above the label band.
func BarCenter(pc int) (x, y int) {
	return int(margin + float64(pc)*barW + barW/2), int(Height - labelH - 2)
}

func drawBars(dc *gg.Context, weights [12]float64, mask target.Mask) {
	top, bottom := margin, Height-labelH
	for pc, w := range weights {
		if w <= 0 {
			continue
		}
		h := w * (bottom - top)
		x := margin + float64(pc)*barW + barGap/2
		dc.DrawRectangle(x, bottom-h, barW-barGap, h)
		if mask.Has(pc) {
			setRGBColor(dc, TargetBar)
		} else {
			setRGBColor(dc, OtherBar)
		}
		dc.Fill()
	}
}

func drawLabels(dc *gg.Context, ages [12]int) error {
	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fault.Wrap(err, fmsg.With("could not parse font"))
	}
	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: 11}))

	dc.SetRGBA(1, 1, 1, 0.8)
	for pc, name := range pitchNames {
		x := margin + float64(pc)*barW + barW/2
		dc.DrawStringAnchored(name, x, Height-labelH/2-4, 0.5, 0.5)
		if ages[pc] > 0 {
			dc.DrawStringAnchored(fmt.Sprintf("%d", ages[pc]), x, Height-6, 0.5, 0.5)
		}
	}
	return nil
}

// Draw writes a bar per pitch class, highlighting targets. Labels carry
// each pitch class's age; absent classes (age 0) get none.
func Draw(w io.Writer, weights [12]float64, ages [12]int, mask target.Mask) error {
	dc := gg.NewContext(Width, Height)
	setRGBColor(dc, Background)
	dc.DrawRectangle(0, 0, Width, Height)
	dc.Fill()

	drawBars(dc, weights, mask)
	if err := drawLabels(dc, ages); err != nil {
		return err
	}
	if err := dc.EncodePNG(w); err != nil {
		return fault.Wrap(err, fmsg.With("could not encode chart"))
	}
	return nil
}
