package ui

import (
	"image/color"
	"strconv"
	"strings"
)

// Rule is a single CSS rule: one selector and a set of property values (raw strings).
type Rule struct {
	Selector string            // e.g. ".sidebar" or "#tooltip"
	Props    map[string]string // e.g. "background" -> "#a8421c"
}

// Stylesheet is a list of rules (order matters: later overrides earlier).
type Stylesheet struct {
	Rules []Rule
}

// ComputedStyle holds resolved values for one class/id pair. Zero colors and
// negative lengths mean the property was not set.
type ComputedStyle struct {
	Background      color.RGBA
	HoverBackground color.RGBA
	Color           color.RGBA
	Border          color.RGBA
	HasBorder       bool
	BorderWidth     float32
	Radius          float32
	Padding         float32
	Gap             float32
	FontSize        float32
	Width           Sizing
	Height          Sizing
	HasWidth        bool
	HasHeight       bool
}

// DefaultComputedStyle returns a style with nothing set.
func DefaultComputedStyle() ComputedStyle {
	return ComputedStyle{
		Padding:  -1,
		Gap:      -1,
		FontSize: -1,
		Radius:   -1,
	}
}

// ParseHexColor parses #RGB, #RRGGBB or #RRGGBBAA. Returns black and false on parse error.
func ParseHexColor(s string) (color.RGBA, bool) {
	black := color.RGBA{A: 255}
	s = strings.TrimSpace(s)
	if len(s) < 4 || s[0] != '#' {
		return black, false
	}
	hex := s[1:]
	for i := 0; i < len(hex); i++ {
		if _, ok := hexByte(hex[i]); !ok {
			return black, false
		}
	}
	nib := func(i int) uint8 { v, _ := hexByte(hex[i]); return v }
	switch len(hex) {
	case 3:
		// #RGB -> RR GG BB
		return color.RGBA{nib(0) * 17, nib(1) * 17, nib(2) * 17, 255}, true
	case 6:
		return color.RGBA{nib(0)<<4 + nib(1), nib(2)<<4 + nib(3), nib(4)<<4 + nib(5), 255}, true
	case 8:
		return color.RGBA{nib(0)<<4 + nib(1), nib(2)<<4 + nib(3), nib(4)<<4 + nib(5), nib(6)<<4 + nib(7)}, true
	}
	return black, false
}

func hexByte(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// ParsePx parses a number, with optional "px" suffix. Unitless is treated as pixels.
func ParsePx(s string) (float32, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	s = strings.TrimSpace(s)
	n, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, false
	}
	return float32(n), true
}

// ParsePct parses "N%" to a 0..1 fraction.
func ParsePct(s string) (float32, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[len(s)-1] != '%' {
		return 0, false
	}
	n, err := strconv.ParseFloat(s[:len(s)-1], 32)
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return float32(n) / 100, true
}

// parseSizing accepts "fit", "grow", "N%" or a pixel length.
func parseSizing(v string) (Sizing, bool) {
	switch v {
	case "fit", "auto":
		return Fit(), true
	case "grow":
		return Grow(), true
	}
	if p, ok := ParsePct(v); ok {
		return Percent(p), true
	}
	if n, ok := ParsePx(v); ok && n >= 0 {
		return Fixed(n), true
	}
	return Sizing{}, false
}

// ResolveProps builds a ComputedStyle from a merged property map (e.g. from matching rules).
func ResolveProps(props map[string]string) ComputedStyle {
	out := DefaultComputedStyle()
	for k, v := range props {
		v = strings.TrimSpace(v)
		switch k {
		case "background":
			if c, ok := ParseHexColor(v); ok {
				out.Background = c
			}
		case "hover-background":
			if c, ok := ParseHexColor(v); ok {
				out.HoverBackground = c
			}
		case "color":
			if c, ok := ParseHexColor(v); ok {
				out.Color = c
			}
		case "border":
			if c, ok := ParseHexColor(v); ok {
				out.Border = c
				out.HasBorder = true
				if out.BorderWidth == 0 {
					out.BorderWidth = 1
				}
			}
		case "border-width":
			if n, ok := ParsePx(v); ok && n >= 0 {
				out.BorderWidth = n
			}
		case "radius", "border-radius":
			if n, ok := ParsePx(v); ok && n >= 0 {
				out.Radius = n
			}
		case "padding":
			if n, ok := ParsePx(v); ok && n >= 0 {
				out.Padding = n
			}
		case "gap":
			if n, ok := ParsePx(v); ok && n >= 0 {
				out.Gap = n
			}
		case "font-size":
			if n, ok := ParsePx(v); ok && n > 0 {
				out.FontSize = n
			}
		case "width":
			if s, ok := parseSizing(v); ok {
				out.Width, out.HasWidth = s, true
			}
		case "height":
			if s, ok := parseSizing(v); ok {
				out.Height, out.HasHeight = s, true
			}
		}
	}
	return out
}

// Match merges the properties of every rule whose selector names class or id.
// Later rules win.
func (s *Stylesheet) Match(class, id string) map[string]string {
	merged := make(map[string]string)
	if s == nil {
		return merged
	}
	for _, rule := range s.Rules {
		sel := rule.Selector
		matches := false
		switch {
		case len(sel) > 1 && sel[0] == '.':
			matches = class != "" && hasClass(class, sel[1:])
		case len(sel) > 1 && sel[0] == '#':
			matches = id != "" && id == sel[1:]
		}
		if matches {
			for k, v := range rule.Props {
				merged[k] = v
			}
		}
	}
	return merged
}

// hasClass reports whether the space separated list contains name.
func hasClass(list, name string) bool {
	for _, c := range strings.Fields(list) {
		if c == name {
			return true
		}
	}
	return false
}

// apply fills the zero fields of d from the style.
func (cs ComputedStyle) apply(d *Decl) {
	var zero color.RGBA
	if d.Background == zero {
		d.Background = cs.Background
	}
	if d.HoverBackground == zero {
		d.HoverBackground = cs.HoverBackground
	}
	if d.Border.Width == 0 && cs.HasBorder {
		d.Border = Border{Width: cs.BorderWidth, Color: cs.Border}
	}
	if d.CornerRadius == 0 && cs.Radius > 0 {
		d.CornerRadius = cs.Radius
	}
	if d.Layout.Padding == (Padding{}) && cs.Padding > 0 {
		d.Layout.Padding = PaddingAll(cs.Padding)
	}
	if d.Layout.ChildGap == 0 && cs.Gap > 0 {
		d.Layout.ChildGap = cs.Gap
	}
	if d.Layout.Width == (Sizing{}) && cs.HasWidth {
		d.Layout.Width = cs.Width
	}
	if d.Layout.Height == (Sizing{}) && cs.HasHeight {
		d.Layout.Height = cs.Height
	}
}

func (cs ComputedStyle) applyText(t *TextStyle) {
	if t.Size == 0 && cs.FontSize > 0 {
		t.Size = cs.FontSize
	}
	if t.Color == (color.RGBA{}) {
		t.Color = cs.Color
	}
}
