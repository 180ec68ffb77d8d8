package ui

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/font/basicfont"
)

// Measurer reports the size of a single line of text at a font size.
type Measurer interface {
	Measure(text string, size float32) Vec2
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(text string, size float32) Vec2

func (f MeasureFunc) Measure(text string, size float32) Vec2 { return f(text, size) }

// BasicMeasurer measures with the metrics of the 7x13 bitmap face scaled to the
// requested size. Used when no real font is loaded and in tests.
type BasicMeasurer struct{}

func (BasicMeasurer) Measure(text string, size float32) Vec2 {
	face := basicfont.Face7x13
	h := float32(face.Height)
	if size <= 0 {
		size = h
	}
	scale := size / h
	n := 0
	for range text {
		n++
	}
	return Vec2{
		X: math32.Ceil(float32(n*face.Advance) * scale),
		Y: size,
	}
}
