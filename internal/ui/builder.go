package ui

import (
	"cmp"
	"image/color"
	"slices"
	"strconv"

	"github.com/chewxy/math32"
)

const (
	defaultFontSize = 16
	rootID          = "root"
)

var defaultTextColor = color.RGBA{255, 255, 255, 255}

// PointerState is the primary button state as seen by one frame.
type PointerState uint8

const (
	PointerReleased PointerState = iota
	PointerPressedThisFrame
	PointerPressed
	PointerReleasedThisFrame
)

func (s PointerState) String() string {
	switch s {
	case PointerPressedThisFrame:
		return "pressed-this-frame"
	case PointerPressed:
		return "pressed"
	case PointerReleasedThisFrame:
		return "released-this-frame"
	}
	return "released"
}

// Pointer is the input for one frame. Pressed and Released report button edges
// since the previous frame; a press and release in between is a click.
type Pointer struct {
	Pos      Vec2
	Down     bool
	Pressed  bool
	Released bool
	// Wheel is the scroll amount in pixels. Positive Y scrolls content down.
	Wheel Vec2
}

// PointerEvent is passed to hover callbacks. State collapses the frame's
// edges; Pressed and Released report each edge, so a press and release that
// both happened since the previous frame still show up as a press.
type PointerEvent struct {
	ID       string
	Pos      Vec2
	State    PointerState
	Pressed  bool
	Released bool
}

type axis uint8

const (
	axisX axis = iota
	axisY
)

type element struct {
	id     string
	decl   Decl
	isText bool
	text   string
	textSt TextStyle

	parent, first, last, next int
	nchild                    int

	x, y, w, h float32
	contentH   float32
}

func (e *element) sizing(a axis) Sizing {
	if a == axisX {
		return e.decl.Layout.Width
	}
	return e.decl.Layout.Height
}

func (e *element) size(a axis) *float32 {
	if a == axisX {
		return &e.w
	}
	return &e.h
}

func (e *element) pad(a axis) float32 {
	p := e.decl.Layout.Padding
	if a == axisX {
		return p.Left + p.Right
	}
	return p.Top + p.Bottom
}

func (e *element) along(a axis) bool {
	return (e.decl.Layout.Direction == LeftToRight) == (a == axisX)
}

func (e *element) floating() bool { return e.decl.Floating.Enabled }

// scrolls reports whether children overflow along a is handled by scrolling.
func (e *element) scrolls(a axis) bool { return a == axisY && e.decl.Scroll }

func (e *element) bounds() Rect { return Rect{e.x, e.y, e.w, e.h} }

type hitBox struct {
	rect  Rect
	layer int
}

// Builder collects one frame of elements between Begin and End and turns them
// into draw commands. Hover state is answered from the previous frame's layout,
// so callbacks can run while the tree is being declared.
// A Builder is not safe for concurrent use.
type Builder struct {
	measure Measurer
	sheet   *Stylesheet
	styles  map[string]ComputedStyle

	viewport Vec2
	pointer  Pointer
	state    PointerState
	topLayer int
	building bool

	els  []element
	open []int
	tmp  []int

	prev, next             map[string]hitBox
	prevLayers, nextLayers []Rect
	scroll, scrollNext     map[string]float32

	cmds   []Command
	floats []int
}

// NewBuilder returns a builder measuring text with m and styling elements
// from sheet. A nil m uses BasicMeasurer; a nil sheet disables class styling.
func NewBuilder(m Measurer, sheet *Stylesheet) *Builder {
	if m == nil {
		m = BasicMeasurer{}
	}
	return &Builder{
		measure:    m,
		sheet:      sheet,
		styles:     make(map[string]ComputedStyle),
		prev:       make(map[string]hitBox),
		next:       make(map[string]hitBox),
		scroll:     make(map[string]float32),
		scrollNext: make(map[string]float32),
	}
}

// SetMeasurer replaces the text measurer.
func (b *Builder) SetMeasurer(m Measurer) {
	if m != nil {
		b.measure = m
	}
}

// Begin starts a frame laid out inside viewport.
func (b *Builder) Begin(viewport Vec2, p Pointer) {
	b.els = b.els[:0]
	b.open = b.open[:0]
	b.cmds = b.cmds[:0]
	b.viewport = viewport
	b.pointer = p
	b.state = pointerState(p)

	b.topLayer = 0
	for l := len(b.prevLayers) - 1; l > 0; l-- {
		if b.prevLayers[l].Contains(p.Pos) {
			b.topLayer = l
			break
		}
	}

	b.els = append(b.els, element{
		id:     rootID,
		decl:   Decl{ID: rootID, Layout: Layout{Width: Fixed(viewport.X), Height: Fixed(viewport.Y)}},
		parent: -1, first: -1, last: -1, next: -1,
	})
	b.open = append(b.open, 0)
	b.building = true
}

func pointerState(p Pointer) PointerState {
	switch {
	case p.Released:
		return PointerReleasedThisFrame
	case p.Pressed:
		return PointerPressedThisFrame
	case p.Down:
		return PointerPressed
	}
	return PointerReleased
}

func (b *Builder) style(class, id string) ComputedStyle {
	key := class + "\x00" + id
	if cs, ok := b.styles[key]; ok {
		return cs
	}
	cs := ResolveProps(b.sheet.Match(class, id))
	b.styles[key] = cs
	return cs
}

func (b *Builder) link(idx int) {
	p := &b.els[b.els[idx].parent]
	if p.last == -1 {
		p.first = idx
	} else {
		b.els[p.last].next = idx
	}
	p.last = idx
	p.nchild++
}

func (b *Builder) childID(parent int) string {
	p := &b.els[parent]
	return p.id + "." + strconv.Itoa(p.nchild)
}

// Open starts an element; children are declared until the matching Close.
func (b *Builder) Open(d Decl) {
	if !b.building {
		panic("ui: Open called outside Begin/End")
	}
	parent := b.open[len(b.open)-1]
	if b.sheet != nil && (d.Class != "" || d.ID != "") {
		b.style(d.Class, d.ID).apply(&d)
	}
	id := d.ID
	if id == "" {
		id = b.childID(parent)
	}
	idx := len(b.els)
	b.els = append(b.els, element{id: id, decl: d, parent: parent, first: -1, last: -1, next: -1})
	b.link(idx)
	b.open = append(b.open, idx)
}

// Close ends the element opened last.
func (b *Builder) Close() {
	if len(b.open) <= 1 {
		panic("ui: Close without matching Open")
	}
	b.open = b.open[:len(b.open)-1]
}

// Element opens d, runs children and closes it.
func (b *Builder) Element(d Decl, children func()) {
	b.Open(d)
	if children != nil {
		children()
	}
	b.Close()
}

// Text adds a single line of text to the open element.
func (b *Builder) Text(s string, st TextStyle) {
	if !b.building {
		panic("ui: Text called outside Begin/End")
	}
	parent := b.open[len(b.open)-1]
	if b.sheet != nil && st.Class != "" {
		b.style(st.Class, "").applyText(&st)
	}
	if st.Size <= 0 {
		st.Size = defaultFontSize
	}
	if st.Color == (color.RGBA{}) {
		st.Color = defaultTextColor
	}
	sz := b.measure.Measure(s, st.Size)
	idx := len(b.els)
	b.els = append(b.els, element{
		id: b.childID(parent), isText: true, text: s, textSt: st,
		parent: parent, first: -1, last: -1, next: -1,
		w: sz.X, h: sz.Y,
	})
	b.link(idx)
}

func (b *Builder) hovered(id string) bool {
	hb, ok := b.prev[id]
	return ok && hb.layer >= b.topLayer && hb.rect.Contains(b.pointer.Pos)
}

// Hovered reports whether the pointer is over the open element.
func (b *Builder) Hovered() bool {
	if len(b.open) <= 1 {
		return false
	}
	return b.hovered(b.els[b.open[len(b.open)-1]].id)
}

// PointerOver reports whether the pointer is over the element with id.
func (b *Builder) PointerOver(id string) bool { return b.hovered(id) }

// OnHover calls fn right away when the open element is hovered.
func (b *Builder) OnHover(fn func(PointerEvent)) {
	if fn == nil || !b.Hovered() {
		return
	}
	fn(PointerEvent{
		ID:       b.els[b.open[len(b.open)-1]].id,
		Pos:      b.pointer.Pos,
		State:    b.state,
		Pressed:  b.pointer.Pressed,
		Released: b.pointer.Released,
	})
}

// PointerState returns the button state for the frame being built.
func (b *Builder) PointerState() PointerState { return b.state }

// Bounds returns the last laid out bounds of id, clipped by scroll containers.
func (b *Builder) Bounds(id string) (Rect, bool) {
	hb, ok := b.prev[id]
	return hb.rect, ok
}

// ScrollOffset returns how far the scroll container id is scrolled down.
func (b *Builder) ScrollOffset(id string) float32 { return b.scroll[id] }

// ElementCount returns the number of elements in the last finished frame,
// the root included.
func (b *Builder) ElementCount() int { return len(b.prev) }

// End lays out the frame and returns its draw commands. The slice is reused by
// the next End.
func (b *Builder) End() []Command {
	if !b.building {
		panic("ui: End without Begin")
	}
	if len(b.open) != 1 {
		panic("ui: unbalanced Open/Close at End")
	}
	b.building = false

	b.fitSize(0, axisX)
	b.growSize(0, axisX)
	b.fitSize(0, axisY)
	b.growSize(0, axisY)
	b.updateScroll()
	b.place(0)
	b.emitAll()

	b.prev, b.next = b.next, b.prev
	clear(b.next)
	b.prevLayers, b.nextLayers = b.nextLayers, b.prevLayers
	b.scroll, b.scrollNext = b.scrollNext, b.scroll
	return b.cmds
}

// fitSize computes content-based sizes bottom-up.
func (b *Builder) fitSize(i int, a axis) {
	e := &b.els[i]
	if e.isText {
		return
	}
	var content float32
	n := 0
	for c := e.first; c != -1; c = b.els[c].next {
		b.fitSize(c, a)
		ce := &b.els[c]
		if ce.floating() {
			continue
		}
		cs := *ce.size(a)
		if ce.sizing(a).Type == SizingPercent {
			cs = 0
		}
		if e.along(a) {
			content += cs
			n++
		} else if cs > content {
			content = cs
		}
	}
	if n > 1 {
		content += e.decl.Layout.ChildGap * float32(n-1)
	}
	content += e.pad(a)
	if a == axisY {
		e.contentH = content
	}
	switch s := e.sizing(a); s.Type {
	case SizingFixed:
		*e.size(a) = s.Value
	case SizingPercent:
		*e.size(a) = 0
	default:
		*e.size(a) = clamp(content, s.Min, s.Max)
	}
}

func shrinkable(e *element, a axis) bool {
	if e.isText {
		return false
	}
	t := e.sizing(a).Type
	return t == SizingFit || t == SizingGrow
}

// growSize resolves percent, grow and overflow top-down.
func (b *Builder) growSize(i int, a axis) {
	e := &b.els[i]
	if e.isText || e.first == -1 {
		return
	}
	avail := *e.size(a) - e.pad(a)

	if e.along(a) {
		var used float32
		n := 0
		for c := e.first; c != -1; c = b.els[c].next {
			ce := &b.els[c]
			if ce.floating() {
				continue
			}
			if s := ce.sizing(a); s.Type == SizingPercent {
				*ce.size(a) = clamp(avail*s.Value, s.Min, s.Max)
			}
			used += *ce.size(a)
			n++
		}
		if n > 1 {
			used += e.decl.Layout.ChildGap * float32(n-1)
		}
		rem := avail - used
		b.tmp = b.tmp[:0]
		for c := e.first; c != -1; c = b.els[c].next {
			ce := &b.els[c]
			if ce.floating() {
				continue
			}
			if (rem > 0 && ce.sizing(a).Type == SizingGrow) || (rem < 0 && !e.scrolls(a) && shrinkable(ce, a)) {
				b.tmp = append(b.tmp, c)
			}
		}
		b.resize(b.tmp, a, rem)
	} else {
		for c := e.first; c != -1; c = b.els[c].next {
			ce := &b.els[c]
			if ce.floating() {
				continue
			}
			s := ce.sizing(a)
			sz := ce.size(a)
			switch s.Type {
			case SizingPercent:
				*sz = clamp(avail*s.Value, s.Min, s.Max)
			case SizingGrow:
				*sz = clamp(avail, s.Min, s.Max)
			case SizingFit:
				if *sz > avail && !e.scrolls(a) && shrinkable(ce, a) {
					*sz = clamp(avail, s.Min, s.Max)
				}
			}
		}
	}

	for c := e.first; c != -1; c = b.els[c].next {
		ce := &b.els[c]
		if ce.floating() && ce.sizing(a).Type == SizingPercent {
			target := e
			if ce.decl.Floating.ToRoot {
				target = &b.els[0]
			}
			s := ce.sizing(a)
			*ce.size(a) = clamp(*target.size(a)*s.Value, s.Min, s.Max)
		}
		b.growSize(c, a)
	}
}

// resize spreads delta over the elements in idx along a, growing when delta is
// positive and shrinking when negative, within each element's min and max.
// The smallest elements grow first (the largest shrink first) so sizes even out.
func (b *Builder) resize(idx []int, a axis, delta float32) {
	grow := delta > 0
	for iter := 0; len(idx) > 0 && (delta > 0.01 || delta < -0.01) && iter < 4*len(b.els); iter++ {
		edge := *b.els[idx[0]].size(a)
		for _, c := range idx {
			sz := *b.els[c].size(a)
			if (grow && sz < edge) || (!grow && sz > edge) {
				edge = sz
			}
		}
		n := 0
		var target float32
		hasTarget := false
		for _, c := range idx {
			sz := *b.els[c].size(a)
			if sz == edge {
				n++
				continue
			}
			if !hasTarget || (grow && sz < target) || (!grow && sz > target) {
				target, hasTarget = sz, true
			}
		}
		step := delta / float32(n)
		if hasTarget && math32.Abs(target-edge) < math32.Abs(step) {
			step = target - edge
		}
		kept := idx[:0]
		for _, c := range idx {
			ce := &b.els[c]
			sz := ce.size(a)
			if *sz == edge {
				s := ce.sizing(a)
				want := *sz + step
				got := clamp(want, s.Min, s.Max)
				delta -= got - *sz
				*sz = got
				if got != want {
					continue
				}
			}
			kept = append(kept, c)
		}
		idx = kept
	}
}

func (b *Builder) updateScroll() {
	clear(b.scrollNext)
	target := -1
	for i := range b.els {
		e := &b.els[i]
		if !e.decl.Scroll {
			continue
		}
		b.scrollNext[e.id] = b.scroll[e.id]
		if b.hovered(e.id) {
			target = i
		}
	}
	if target >= 0 && b.pointer.Wheel.Y != 0 {
		b.scrollNext[b.els[target].id] -= b.pointer.Wheel.Y
	}
	for i := range b.els {
		e := &b.els[i]
		if !e.decl.Scroll {
			continue
		}
		limit := e.contentH - e.h
		if limit < 0 {
			limit = 0
		}
		v := b.scrollNext[e.id]
		switch {
		case v < 0:
			v = 0
		case v > limit:
			v = limit
		}
		b.scrollNext[e.id] = v
	}
}

func alignOffset(a Align, free float32, noOverflow bool) float32 {
	if noOverflow && free < 0 {
		free = 0
	}
	switch a {
	case AlignCenter:
		return free / 2
	case AlignEnd:
		return free
	}
	return 0
}

// place assigns positions top-down.
func (b *Builder) place(i int) {
	e := &b.els[i]
	if e.isText {
		return
	}
	l := e.decl.Layout
	availW := e.w - l.Padding.Left - l.Padding.Right
	availH := e.h - l.Padding.Top - l.Padding.Bottom

	var total float32
	n := 0
	for c := e.first; c != -1; c = b.els[c].next {
		ce := &b.els[c]
		if ce.floating() {
			continue
		}
		if l.Direction == LeftToRight {
			total += ce.w
		} else {
			total += ce.h
		}
		n++
	}
	if n > 1 {
		total += l.ChildGap * float32(n-1)
	}

	x := e.x + l.Padding.Left
	y := e.y + l.Padding.Top
	if e.decl.Scroll {
		y -= b.scrollNext[e.id]
	}
	if l.Direction == LeftToRight {
		x += alignOffset(l.AlignX, availW-total, e.decl.Scroll)
	} else {
		y += alignOffset(l.AlignY, availH-total, e.decl.Scroll)
	}

	for c := e.first; c != -1; c = b.els[c].next {
		ce := &b.els[c]
		if ce.floating() {
			b.placeFloating(c, i)
			continue
		}
		if l.Direction == LeftToRight {
			ce.x = x
			ce.y = y + alignOffset(l.AlignY, availH-ce.h, false)
			x += ce.w + l.ChildGap
		} else {
			ce.y = y
			ce.x = x + alignOffset(l.AlignX, availW-ce.w, false)
			y += ce.h + l.ChildGap
		}
		b.place(c)
	}
}

func (b *Builder) placeFloating(c, parent int) {
	ce := &b.els[c]
	f := ce.decl.Floating
	t := b.els[parent].bounds()
	if f.ToRoot {
		t = b.els[0].bounds()
	}
	fx := float32(f.Point%3) * 0.5
	fy := float32(f.Point/3) * 0.5
	ce.x = t.X + t.Width*fx - ce.w*fx + f.Offset.X
	ce.y = t.Y + t.Height*fy - ce.h*fy + f.Offset.Y
	b.place(c)
}

func (b *Builder) emitAll() {
	b.floats = b.floats[:0]
	b.nextLayers = append(b.nextLayers[:0], Rect{0, 0, b.viewport.X, b.viewport.Y})
	b.emit(0, Rect{}, false, 0)

	for len(b.floats) > 0 {
		pending := slices.Clone(b.floats)
		b.floats = b.floats[:0]
		slices.SortStableFunc(pending, func(x, y int) int {
			return cmp.Compare(b.els[x].decl.Floating.ZIndex, b.els[y].decl.Floating.ZIndex)
		})
		for _, f := range pending {
			layer := len(b.nextLayers)
			b.nextLayers = append(b.nextLayers, b.els[f].bounds())
			b.emit(f, Rect{}, false, layer)
		}
	}
}

func (b *Builder) emit(i int, clip Rect, clipped bool, layer int) {
	e := &b.els[i]
	bounds := e.bounds()
	visible := bounds
	if clipped {
		visible = bounds.Intersect(clip)
	}
	b.next[e.id] = hitBox{rect: visible, layer: layer}
	draw := i != 0 && !(clipped && visible.Empty())

	if e.isText {
		if draw {
			b.cmds = append(b.cmds, Command{
				Kind: CmdText, ID: e.id, Bounds: bounds,
				Color: e.textSt.Color, Text: e.text, FontSize: e.textSt.Size,
			})
		}
		return
	}

	d := &e.decl
	if draw {
		bg := d.Background
		if d.HoverBackground.A > 0 && b.hovered(e.id) {
			bg = d.HoverBackground
		}
		if bg.A > 0 {
			b.cmds = append(b.cmds, Command{Kind: CmdRectangle, ID: e.id, Bounds: bounds, Color: bg, Radius: d.CornerRadius})
		}
		if d.Image != 0 {
			b.cmds = append(b.cmds, Command{Kind: CmdImage, ID: e.id, Bounds: bounds, Texture: d.Image, Color: defaultTextColor, Radius: d.CornerRadius})
		}
	}

	childClip, childClipped := clip, clipped
	if d.Scroll {
		childClip, childClipped = visible, true
		if draw {
			b.cmds = append(b.cmds, Command{Kind: CmdScissorStart, ID: e.id, Bounds: visible})
		}
	}
	for c := e.first; c != -1; c = b.els[c].next {
		if b.els[c].floating() {
			b.floats = append(b.floats, c)
			continue
		}
		b.emit(c, childClip, childClipped, layer)
	}
	if d.Scroll && draw {
		b.cmds = append(b.cmds, Command{Kind: CmdScissorEnd, ID: e.id})
	}
	if draw && d.Border.Width > 0 && d.Border.Color.A > 0 {
		b.cmds = append(b.cmds, Command{Kind: CmdBorder, ID: e.id, Bounds: bounds, Color: d.Border.Color, Width: d.Border.Width, Radius: d.CornerRadius})
	}
}
