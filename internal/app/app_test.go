package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"screenapp/internal/screen"
	"screenapp/internal/ui"
)

type fakeTextures struct {
	next     ui.TextureID
	unloaded []ui.TextureID
	fail     map[string]bool
}

func (f *fakeTextures) Load(path string, w, h int) (ui.TextureID, error) {
	if f.fail[path] {
		return 0, errors.New("no such image")
	}
	f.next++
	return f.next, nil
}

func (f *fakeTextures) Unload(id ui.TextureID) { f.unloaded = append(f.unloaded, id) }

var (
	t0     = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	window = ui.Vec2{X: 1280, Y: 720}
)

func newApp(t *testing.T) (*App, *fakeTextures) {
	t.Helper()
	tex := &fakeTextures{}
	return New(Options{FrameArena: 256}, nil, tex), tex
}

type trace struct{ events []string }

func (tr *trace) add(s string)   { tr.events = append(tr.events, s) }
func (tr *trace) String() string { return strings.Join(tr.events, " ") }

func traced(tr *trace, name string, rate time.Duration, update func(*Context)) *screen.Screen[*Context] {
	s := screen.New[*Context](0, rate, screen.Funcs[*Context]{
		OnInit: func(*Context) { tr.add("init(" + name + ")") },
		OnUpdate: func(ctx *Context) {
			tr.add("update(" + name + ")")
			if update != nil {
				update(ctx)
			}
		},
		OnDestroy: func(*Context) { tr.add("destroy(" + name + ")") },
	})
	s.Name = name
	return s
}

func TestFrameArenaResetOnlyOnReadyTicks(t *testing.T) {
	a, _ := newApp(t)
	tr := &trace{}
	a.Screens().SetNext(traced(tr, "A", 100*time.Millisecond, func(ctx *Context) {
		if _, ok := ctx.Frame.Alloc(16); !ok {
			t.Error("alloc failed")
		}
	}))

	a.Update(t0, Input{Window: window})
	first := a.Context().Frame.Stats()
	a.Update(t0.Add(10*time.Millisecond), Input{Window: window})
	if got := a.Context().Frame.Stats(); got != first {
		t.Fatalf("skipped tick touched the frame arena: %+v -> %+v", first, got)
	}
	a.Update(t0.Add(100*time.Millisecond), Input{Window: window})

	st := a.Context().Frame.Stats()
	if st.Resets != 2 || st.Used != 16 || st.Allocs != 2 {
		t.Errorf("frame stats = %+v", st)
	}
	if s := a.Stats(); s.Ticks != 3 || s.Updates != 2 {
		t.Errorf("app stats = %+v", s)
	}
	if got, want := tr.String(), "init(A) update(A) update(A)"; got != want {
		t.Errorf("trace = %q, want %q", got, want)
	}
}

func TestSkippedTickReturnsPreviousCommands(t *testing.T) {
	a, _ := newApp(t)
	a.Screens().SetNext(traced(&trace{}, "A", time.Second, func(ctx *Context) {
		ctx.UI.Element(ui.Decl{ID: "box", Layout: ui.Layout{Width: ui.Fixed(10), Height: ui.Fixed(10)}, Background: ui.ColorRed}, nil)
	}))
	first := a.Update(t0, Input{Window: window})
	if len(first) != 1 {
		t.Fatalf("commands = %v", first)
	}
	again := a.Update(t0.Add(time.Millisecond), Input{Window: window})
	if len(again) != 1 || again[0].ID != "box" {
		t.Errorf("skipped tick commands = %v", again)
	}
}

func TestSwitchHappensAfterPresent(t *testing.T) {
	a, _ := newApp(t)
	tr := &trace{}
	var b *screen.Screen[*Context]
	b = traced(tr, "B", 0, nil)
	a.Screens().SetNext(traced(tr, "A", 0, func(ctx *Context) {
		ctx.Screens.SetNext(b)
	}))

	a.Update(t0, Input{Window: window})
	if got := tr.String(); got != "init(A) update(A)" {
		t.Fatalf("after update: %q", got)
	}
	a.Settle()
	if got := tr.String(); got != "init(A) update(A) destroy(A)" {
		t.Fatalf("after settle: %q", got)
	}
	if a.Screens().Current() != b || b.Initialized() {
		t.Fatal("B should be current and not yet initialized")
	}
	a.Update(t0.Add(time.Millisecond), Input{Window: window})
	a.Settle()
	if got, want := tr.String(), "init(A) update(A) destroy(A) init(B) update(B)"; got != want {
		t.Errorf("trace = %q, want %q", got, want)
	}
	if a.Stats().Transitions != 1 {
		t.Errorf("transitions = %d", a.Stats().Transitions)
	}
}

func TestSettleWaitsForReadyTick(t *testing.T) {
	a, _ := newApp(t)
	tr := &trace{}
	a.Screens().SetNext(traced(tr, "A", 100*time.Millisecond, nil))
	a.Update(t0, Input{Window: window})
	a.Settle()

	a.Screens().SetNext(traced(tr, "B", 0, nil))
	a.Update(t0.Add(10*time.Millisecond), Input{Window: window})
	a.Settle()
	if a.Screens().Current().Name != "A" {
		t.Fatal("switched on a skipped tick")
	}
	a.Update(t0.Add(100*time.Millisecond), Input{Window: window})
	a.Settle()
	if a.Screens().Current().Name != "B" {
		t.Fatal("switch not applied on the ready tick")
	}
}

func TestPointerEdgesAccumulate(t *testing.T) {
	a, _ := newApp(t)
	var states []ui.PointerState
	a.Screens().SetNext(traced(&trace{}, "A", 100*time.Millisecond, func(ctx *Context) {
		states = append(states, ctx.UI.PointerState())
	}))

	a.Update(t0, Input{Window: window})
	a.Update(t0.Add(10*time.Millisecond), Input{Window: window, Down: true})
	a.Update(t0.Add(20*time.Millisecond), Input{Window: window})
	a.Update(t0.Add(100*time.Millisecond), Input{Window: window})
	a.Update(t0.Add(200*time.Millisecond), Input{Window: window, Down: true})
	a.Update(t0.Add(300*time.Millisecond), Input{Window: window, Down: true})

	want := []ui.PointerState{
		ui.PointerReleased,
		ui.PointerReleasedThisFrame,
		ui.PointerPressedThisFrame,
		ui.PointerPressed,
	}
	if len(states) != len(want) {
		t.Fatalf("states = %v", states)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("update %d: state = %v, want %v", i, states[i], want[i])
		}
	}
}

func TestZoom(t *testing.T) {
	a := New(Options{Zoom: 2}, nil, &fakeTextures{})
	var viewport ui.Vec2
	a.Screens().SetNext(traced(&trace{}, "A", 0, func(ctx *Context) { viewport = ctx.Viewport }))
	a.Update(t0, Input{Window: window})
	if viewport != (ui.Vec2{X: 640, Y: 360}) {
		t.Errorf("viewport = %v", viewport)
	}

	for i := 0; i < 20; i++ {
		a.Update(t0, Input{Window: window, ZoomDelta: ZoomStep})
	}
	if a.Zoom() != MaxZoom {
		t.Errorf("zoom = %v, want clamped to %v", a.Zoom(), MaxZoom)
	}
	a.Update(t0, Input{Window: window, ZoomDelta: -10})
	if a.Zoom() != MinZoom {
		t.Errorf("zoom = %v, want clamped to %v", a.Zoom(), MinZoom)
	}
}

func TestOverlayDrawsAfterScreen(t *testing.T) {
	a, _ := newApp(t)
	tr := &trace{}
	a.Screens().SetNext(traced(tr, "A", 0, nil))
	a.AddOverlay(OverlayFunc(func(*Context) { tr.add("overlay") }))
	a.Update(t0, Input{Window: window})
	if got := tr.String(); got != "init(A) update(A) overlay" {
		t.Errorf("trace = %q", got)
	}
}

func TestShutdownReportsLeaks(t *testing.T) {
	tests := []struct {
		name    string
		release bool
		leaks   int
	}{
		{"released", true, 0},
		{"leaked", false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, tex := newApp(t)
			var id ui.TextureID
			s := screen.New[*Context](0, 0, screen.Funcs[*Context]{
				OnInit: func(ctx *Context) { id, _ = ctx.Textures.Load("avatar.jpg", 60, 60) },
				OnDestroy: func(ctx *Context) {
					if tt.release {
						ctx.Textures.Unload(id)
					}
				},
			})
			a.Screens().SetNext(s)
			a.Update(t0, Input{Window: window})
			if got := a.Shutdown(); got != tt.leaks {
				t.Errorf("leaks = %d, want %d", got, tt.leaks)
			}
			if !s.Destroyed() {
				t.Error("shutdown did not destroy the screen")
			}
			if tt.release && len(tex.unloaded) != 1 {
				t.Errorf("unloaded = %v", tex.unloaded)
			}
		})
	}
}

func TestTextureTracker(t *testing.T) {
	inner := &fakeTextures{fail: map[string]bool{"missing.png": true}}
	tr := NewTextureTracker(inner, nil)

	if id, err := tr.Load("missing.png", 0, 0); err == nil || id != 0 {
		t.Fatalf("failed load = %d, %v", id, err)
	}
	id, err := tr.Load("avatar.jpg", 60, 60)
	if err != nil {
		t.Fatal(err)
	}
	if got := tr.Leaks(); len(got) != 1 || got[0] != "avatar.jpg@60x60" {
		t.Errorf("leaks = %v", got)
	}

	tr.Unload(0)
	tr.Unload(id + 100)
	tr.Unload(id)
	tr.Unload(id)
	if len(inner.unloaded) != 1 {
		t.Errorf("inner unloads = %v, want exactly one", inner.unloaded)
	}
	if loads, unloads := tr.Counts(); loads != 1 || unloads != 1 || tr.Live() != 0 {
		t.Errorf("counts = %d/%d live %d", loads, unloads, tr.Live())
	}
}
