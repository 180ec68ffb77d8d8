package ui

import "image/color"

// SizingType selects how an element is sized along one axis.
type SizingType uint8

const (
	// SizingFit wraps the element's content.
	SizingFit SizingType = iota
	// SizingGrow fits the content, then takes a share of the parent's free space.
	SizingGrow
	// SizingFixed uses Value as an exact size.
	SizingFixed
	// SizingPercent takes Value (0..1) of the parent's inner size.
	SizingPercent
)

// Sizing is the size rule for one axis. Max 0 means unbounded.
type Sizing struct {
	Type  SizingType
	Value float32
	Min   float32
	Max   float32
}

// Fit sizes to content. Optional arguments are min and max.
func Fit(minMax ...float32) Sizing { return withMinMax(Sizing{Type: SizingFit}, minMax) }

// Grow sizes to content and then expands. Optional arguments are min and max.
func Grow(minMax ...float32) Sizing { return withMinMax(Sizing{Type: SizingGrow}, minMax) }

// Fixed sizes to exactly v.
func Fixed(v float32) Sizing { return Sizing{Type: SizingFixed, Value: v, Min: v, Max: v} }

// Percent sizes to p (0..1) of the parent's inner size.
func Percent(p float32) Sizing { return Sizing{Type: SizingPercent, Value: p} }

func withMinMax(s Sizing, minMax []float32) Sizing {
	if len(minMax) > 0 {
		s.Min = minMax[0]
	}
	if len(minMax) > 1 {
		s.Max = minMax[1]
	}
	return s
}

// Padding is inner spacing per side.
type Padding struct {
	Left, Right, Top, Bottom float32
}

// PaddingAll returns the same padding on every side.
func PaddingAll(v float32) Padding { return Padding{v, v, v, v} }

// Direction is the main axis children are laid out along.
type Direction uint8

const (
	LeftToRight Direction = iota
	TopToBottom
)

// Align positions children inside the free space of an axis.
type Align uint8

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

// Layout groups the sizing and child placement rules of an element.
type Layout struct {
	Width, Height Sizing
	Padding       Padding
	ChildGap      float32
	Direction     Direction
	AlignX        Align
	AlignY        Align
}

// Border is drawn inside the element bounds after its children.
type Border struct {
	Width float32
	Color color.RGBA
}

// AttachPoint is the corner or edge center used to attach a floating element.
type AttachPoint uint8

const (
	AttachLeftTop AttachPoint = iota
	AttachCenterTop
	AttachRightTop
	AttachLeftCenter
	AttachCenter
	AttachRightCenter
	AttachLeftBottom
	AttachCenterBottom
	AttachRightBottom
)

// Floating takes an element out of its parent's flow and places it over the
// target with Point of the element matched to Point of the target.
type Floating struct {
	Enabled bool
	// ToRoot attaches to the layout root instead of the parent.
	ToRoot bool
	Point  AttachPoint
	Offset Vec2
	ZIndex int
}

// TextureID refers to an image owned by the renderer. Zero means none.
type TextureID uint32

// Decl describes one element. Zero fields fall back to the stylesheet rules
// matching Class and ID.
type Decl struct {
	// ID must be unique within a frame. Empty IDs are derived from the
	// element's position in the tree.
	ID    string
	Class string

	Layout          Layout
	Background      color.RGBA
	HoverBackground color.RGBA
	CornerRadius    float32
	Border          Border
	// Scroll clips children and lets the wheel scroll them vertically.
	Scroll   bool
	Image    TextureID
	Floating Floating
}

// TextStyle controls how a text element is drawn.
type TextStyle struct {
	Class string
	Size  float32
	Color color.RGBA
}
