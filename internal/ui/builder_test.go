package ui

import (
	"image/color"
	"strings"
	"testing"
)

// halfWidth measures every glyph as half the font size wide.
var halfWidth = MeasureFunc(func(s string, size float32) Vec2 {
	return Vec2{X: float32(len(s)) * size / 2, Y: size}
})

var (
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
	black = color.RGBA{0, 0, 0, 255}
)

func frame(b *Builder, p Pointer, fn func()) []Command {
	b.Begin(Vec2{800, 600}, p)
	fn()
	return b.End()
}

func mustBounds(t *testing.T, b *Builder, id string) Rect {
	t.Helper()
	r, ok := b.Bounds(id)
	if !ok {
		t.Fatalf("no bounds for %q", id)
	}
	return r
}

func TestLayoutFixedPaddingGap(t *testing.T) {
	b := NewBuilder(halfWidth, nil)
	frame(b, Pointer{}, func() {
		b.Element(Decl{ID: "c", Layout: Layout{Padding: PaddingAll(10), ChildGap: 5}}, func() {
			b.Element(Decl{ID: "a", Layout: Layout{Width: Fixed(100), Height: Fixed(50)}}, nil)
			b.Element(Decl{ID: "b", Layout: Layout{Width: Fixed(60), Height: Fixed(40)}}, nil)
		})
	})

	tests := []struct {
		id   string
		want Rect
	}{
		{"c", Rect{0, 0, 185, 70}},
		{"a", Rect{10, 10, 100, 50}},
		{"b", Rect{115, 10, 60, 40}},
	}
	for _, tt := range tests {
		if got := mustBounds(t, b, tt.id); got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.id, got, tt.want)
		}
	}
}

func TestLayoutGrow(t *testing.T) {
	tests := []struct {
		name   string
		kids   []Sizing
		widths []float32
	}{
		{"single grow", []Sizing{Grow(), Fixed(100)}, []float32{300, 100}},
		{"even split", []Sizing{Grow(), Grow()}, []float32{200, 200}},
		{"max caps share", []Sizing{Grow(0, 100), Grow()}, []float32{100, 300}},
		{"min respected", []Sizing{Grow(250), Grow()}, []float32{250, 150}},
		{"percent", []Sizing{Percent(0.25), Grow()}, []float32{100, 300}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(halfWidth, nil)
			frame(b, Pointer{}, func() {
				b.Element(Decl{ID: "row", Layout: Layout{Width: Fixed(400), Height: Fixed(20)}}, func() {
					for i, s := range tt.kids {
						b.Element(Decl{ID: string(rune('a' + i)), Layout: Layout{Width: s, Height: Grow()}}, nil)
					}
				})
			})
			for i, w := range tt.widths {
				r := mustBounds(t, b, string(rune('a'+i)))
				if r.Width != w {
					t.Errorf("child %d width = %v, want %v", i, r.Width, w)
				}
				if r.Height != 20 {
					t.Errorf("child %d height = %v, want 20 from cross-axis grow", i, r.Height)
				}
			}
		})
	}
}

func TestLayoutAlignment(t *testing.T) {
	b := NewBuilder(halfWidth, nil)
	frame(b, Pointer{}, func() {
		b.Element(Decl{ID: "box", Layout: Layout{
			Width: Fixed(200), Height: Fixed(100),
			AlignX: AlignCenter, AlignY: AlignCenter,
		}}, func() {
			b.Element(Decl{ID: "kid", Layout: Layout{Width: Fixed(50), Height: Fixed(20)}}, nil)
		})
		b.Element(Decl{ID: "col", Layout: Layout{
			Width: Fixed(100), Height: Fixed(100),
			Direction: TopToBottom, AlignX: AlignEnd, AlignY: AlignEnd,
		}}, func() {
			b.Element(Decl{ID: "k2", Layout: Layout{Width: Fixed(10), Height: Fixed(10)}}, nil)
		})
	})
	if got := mustBounds(t, b, "kid"); got != (Rect{75, 40, 50, 20}) {
		t.Errorf("centered child = %+v", got)
	}
	if got := mustBounds(t, b, "k2"); got != (Rect{290, 90, 10, 10}) {
		t.Errorf("end aligned child = %+v", got)
	}
}

func TestTextSizing(t *testing.T) {
	b := NewBuilder(halfWidth, nil)
	cmds := frame(b, Pointer{}, func() {
		b.Element(Decl{ID: "label", Layout: Layout{Padding: PaddingAll(4)}}, func() {
			b.Text("hello", TextStyle{Size: 20, Color: red})
		})
	})
	if got := mustBounds(t, b, "label"); got != (Rect{0, 0, 58, 28}) {
		t.Errorf("label = %+v", got)
	}
	if len(cmds) != 1 || cmds[0].Kind != CmdText || cmds[0].Text != "hello" || cmds[0].Color != red {
		t.Fatalf("commands = %+v", cmds)
	}
	if cmds[0].Bounds != (Rect{4, 4, 50, 20}) {
		t.Errorf("text bounds = %+v", cmds[0].Bounds)
	}
}

func TestFloatingAttachToRoot(t *testing.T) {
	b := NewBuilder(halfWidth, nil)
	frame(b, Pointer{}, func() {
		b.Element(Decl{ID: "parent", Layout: Layout{Width: Fixed(100), Height: Fixed(100)}}, func() {
			b.Element(Decl{ID: "tip", Layout: Layout{Width: Fixed(100), Height: Fixed(30)},
				Floating: Floating{Enabled: true, ToRoot: true, Point: AttachRightTop}}, nil)
			b.Element(Decl{ID: "badge", Layout: Layout{Width: Fixed(10), Height: Fixed(10)},
				Floating: Floating{Enabled: true, Point: AttachRightBottom, Offset: Vec2{2, 2}}}, nil)
		})
	})
	if got := mustBounds(t, b, "tip"); got != (Rect{700, 0, 100, 30}) {
		t.Errorf("tip = %+v", got)
	}
	if got := mustBounds(t, b, "badge"); got != (Rect{92, 92, 10, 10}) {
		t.Errorf("badge = %+v", got)
	}
	if got := mustBounds(t, b, "parent"); got.Width != 100 {
		t.Errorf("floating children must not size the parent: %+v", got)
	}
}

func TestCommandOrder(t *testing.T) {
	b := NewBuilder(halfWidth, nil)
	cmds := frame(b, Pointer{}, func() {
		b.Element(Decl{
			ID:         "box",
			Layout:     Layout{Width: Fixed(100), Height: Fixed(100)},
			Background: red,
			Border:     Border{Width: 2, Color: black},
			Scroll:     true,
			Image:      7,
		}, func() {
			b.Text("hi", TextStyle{})
		})
		b.Element(Decl{ID: "over", Floating: Floating{Enabled: true, ToRoot: true}, Background: green,
			Layout: Layout{Width: Fixed(5), Height: Fixed(5)}}, nil)
	})
	var kinds []string
	for _, c := range cmds {
		kinds = append(kinds, c.Kind.String())
	}
	want := "rectangle image scissor-start text scissor-end border rectangle"
	if got := strings.Join(kinds, " "); got != want {
		t.Fatalf("order = %s\nwant    %s", got, want)
	}
	if cmds[len(cmds)-1].ID != "over" {
		t.Errorf("floating element should be drawn last, got %s", cmds[len(cmds)-1].ID)
	}
	if cmds[3].Color != defaultTextColor || cmds[3].FontSize != defaultFontSize {
		t.Errorf("text defaults not applied: %+v", cmds[3])
	}
}

func TestOverflowShrinksToViewport(t *testing.T) {
	b := NewBuilder(halfWidth, nil)
	frame(b, Pointer{}, func() {
		b.Element(Decl{ID: "outer", Layout: Layout{Padding: PaddingAll(16)}}, func() {
			b.Element(Decl{ID: "side", Scroll: true, Layout: Layout{
				Direction: TopToBottom, Width: Grow(300), Height: Grow(), ChildGap: 10,
			}}, func() {
				for i := 0; i < 20; i++ {
					b.Element(Decl{Layout: Layout{Width: Grow(), Height: Fit(50)}}, nil)
				}
			})
		})
	})
	if got := mustBounds(t, b, "outer"); got.Height != 600 {
		t.Errorf("outer height = %v, want viewport height", got.Height)
	}
	side := mustBounds(t, b, "side")
	if side.Height != 568 || side.Width != 300 {
		t.Errorf("side = %+v", side)
	}
	// Items in the scroll container keep their size.
	if item := mustBounds(t, b, "side.0"); item.Height != 50 || item.Width != 300 {
		t.Errorf("item = %+v", item)
	}
}

func TestScrollClamping(t *testing.T) {
	b := NewBuilder(halfWidth, nil)
	build := func() {
		b.Element(Decl{ID: "list", Scroll: true, Layout: Layout{
			Direction: TopToBottom, Width: Fixed(100), Height: Fixed(100),
		}}, func() {
			for i := 0; i < 5; i++ {
				b.Element(Decl{Layout: Layout{Width: Grow(), Height: Fixed(50)}}, nil)
			}
		})
	}
	inside := Vec2{50, 50}

	frame(b, Pointer{Pos: inside, Wheel: Vec2{0, -1000}}, build)
	if got := b.ScrollOffset("list"); got != 0 {
		t.Fatalf("first frame has no hover information, offset = %v", got)
	}

	frame(b, Pointer{Pos: inside, Wheel: Vec2{0, -1000}}, build)
	if got := b.ScrollOffset("list"); got != 150 {
		t.Fatalf("offset = %v, want clamp to 150", got)
	}
	// The last item is now flush with the bottom edge.
	if r := mustBounds(t, b, "list.4"); r.Y != 50 || r.Height != 50 {
		t.Errorf("last item = %+v", r)
	}
	// The first item scrolled out and is clipped away.
	if r := mustBounds(t, b, "list.0"); !r.Empty() {
		t.Errorf("first item should be clipped, got %+v", r)
	}

	frame(b, Pointer{Pos: Vec2{500, 500}, Wheel: Vec2{0, 1000}}, build)
	if got := b.ScrollOffset("list"); got != 150 {
		t.Fatalf("wheel outside the container scrolled it to %v", got)
	}

	frame(b, Pointer{Pos: inside, Wheel: Vec2{0, 30}}, build)
	if got := b.ScrollOffset("list"); got != 120 {
		t.Fatalf("offset = %v, want 120", got)
	}
}

func TestHoverUsesPreviousFrame(t *testing.T) {
	b := NewBuilder(halfWidth, nil)
	var events []PointerEvent
	build := func() {
		b.Element(Decl{ID: "btn", Layout: Layout{Width: Fixed(100), Height: Fixed(40)},
			Background: red, HoverBackground: green}, func() {
			b.OnHover(func(ev PointerEvent) { events = append(events, ev) })
		})
	}
	in := Vec2{10, 10}

	frame(b, Pointer{Pos: in}, build)
	if len(events) != 0 {
		t.Fatal("hover fired before any layout existed")
	}

	cmds := frame(b, Pointer{Pos: in, Pressed: true, Down: true}, build)
	if len(events) != 1 || events[0].ID != "btn" || events[0].State != PointerPressedThisFrame {
		t.Fatalf("events = %+v", events)
	}
	if cmds[0].Color != green {
		t.Errorf("hovered background = %v, want hover color", cmds[0].Color)
	}

	frame(b, Pointer{Pos: in, Released: true}, build)
	if events[1].State != PointerReleasedThisFrame {
		t.Errorf("state = %v", events[1].State)
	}

	cmds = frame(b, Pointer{Pos: Vec2{300, 300}}, build)
	if len(events) != 2 {
		t.Errorf("hover fired outside the element")
	}
	if cmds[0].Color != red {
		t.Errorf("background = %v, want base color", cmds[0].Color)
	}
}

func TestFloatingBlocksHoverBelow(t *testing.T) {
	b := NewBuilder(halfWidth, nil)
	var under, over bool
	build := func() {
		b.Element(Decl{ID: "under", Layout: Layout{Width: Fixed(200), Height: Fixed(200)}}, func() {
			under = b.Hovered()
		})
		b.Element(Decl{ID: "over", Layout: Layout{Width: Fixed(50), Height: Fixed(50)},
			Floating: Floating{Enabled: true, ToRoot: true}}, func() {
			over = b.Hovered()
		})
	}
	frame(b, Pointer{}, build)

	frame(b, Pointer{Pos: Vec2{10, 10}}, build)
	if under || !over {
		t.Errorf("at floating element: under=%v over=%v", under, over)
	}
	frame(b, Pointer{Pos: Vec2{100, 100}}, build)
	if !under || over {
		t.Errorf("beside floating element: under=%v over=%v", under, over)
	}
}

func TestClassStyling(t *testing.T) {
	sheet, err := ParseCSS(`.card { background: #ff0000; padding: 4px; gap: 2px } .label { font-size: 10px; color: #00ff00 }`)
	if err != nil {
		t.Fatal(err)
	}
	b := NewBuilder(halfWidth, sheet)
	cmds := frame(b, Pointer{}, func() {
		b.Element(Decl{ID: "a", Class: "card"}, func() {
			b.Text("ab", TextStyle{Class: "label"})
			b.Text("cd", TextStyle{Class: "label"})
		})
		b.Element(Decl{ID: "b", Class: "card", Background: black}, nil)
	})
	if got := mustBounds(t, b, "a"); got != (Rect{0, 0, 30, 18}) {
		t.Errorf("styled card = %+v", got)
	}
	if cmds[0].Color != red || cmds[1].Color != green || cmds[1].FontSize != 10 {
		t.Errorf("commands = %+v", cmds[:2])
	}
	if cmds[3].ID != "b" || cmds[3].Color != black {
		t.Errorf("explicit background should win: %+v", cmds[3])
	}
}

func TestAutoIDsStableAcrossFrames(t *testing.T) {
	b := NewBuilder(halfWidth, nil)
	build := func() {
		b.Element(Decl{ID: "list"}, func() {
			b.Element(Decl{}, func() { b.Element(Decl{}, nil) })
			b.Element(Decl{}, nil)
		})
	}
	frame(b, Pointer{}, build)
	for _, id := range []string{"list.0", "list.0.0", "list.1"} {
		if _, ok := b.Bounds(id); !ok {
			t.Errorf("missing %s", id)
		}
	}
	if b.ElementCount() != 5 {
		t.Errorf("ElementCount = %d, want 5", b.ElementCount())
	}
}

func TestUnbalancedPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func(b *Builder)
	}{
		{"open without begin", func(b *Builder) { b.Open(Decl{}) }},
		{"close root", func(b *Builder) { b.Begin(Vec2{1, 1}, Pointer{}); b.Close() }},
		{"unclosed", func(b *Builder) { b.Begin(Vec2{1, 1}, Pointer{}); b.Open(Decl{}); b.End() }},
		{"end without begin", func(b *Builder) { b.End() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			tt.fn(NewBuilder(nil, nil))
		})
	}
}

func TestHoverReportsBothEdgesOfCollapsedClick(t *testing.T) {
	b := NewBuilder(halfWidth, nil)
	var events []PointerEvent
	build := func() {
		b.Element(Decl{ID: "btn", Layout: Layout{Width: Fixed(100), Height: Fixed(40)}}, func() {
			b.OnHover(func(ev PointerEvent) { events = append(events, ev) })
		})
	}
	in := Vec2{10, 10}
	frame(b, Pointer{Pos: in}, build)
	frame(b, Pointer{Pos: in, Pressed: true, Released: true}, build)

	if len(events) != 1 {
		t.Fatalf("events = %+v", events)
	}
	ev := events[0]
	if ev.State != PointerReleasedThisFrame || !ev.Pressed || !ev.Released {
		t.Errorf("event = %+v, want released state with both edges", ev)
	}
}
