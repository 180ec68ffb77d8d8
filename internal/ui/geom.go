package ui

import "github.com/chewxy/math32"

// Vec2 is a point or size in layout units (pixels before zoom).
type Vec2 struct {
	X, Y float32
}

// Rect is an axis-aligned box.
type Rect struct {
	X, Y, Width, Height float32
}

// Contains reports whether p lies inside r. The right and bottom edges are exclusive.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Intersect returns the overlap of r and o. Disjoint boxes give an empty Rect.
func (r Rect) Intersect(o Rect) Rect {
	x0 := math32.Max(r.X, o.X)
	y0 := math32.Max(r.Y, o.Y)
	x1 := math32.Min(r.X+r.Width, o.X+o.Width)
	y1 := math32.Min(r.Y+r.Height, o.Y+o.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

func clamp(v, lo, hi float32) float32 {
	if hi > 0 && v > hi {
		v = hi
	}
	return math32.Max(v, lo)
}
