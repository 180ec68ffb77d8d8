// Package app runs one application tick: throttle check, frame arena reset,
// screen init and update, layout, and the destroy pass after presentation.
// It has no window dependency; internal/graphics feeds it input and draws
// the commands it returns.
package app

import (
	"log/slog"
	"time"

	"screenapp/internal/arena"
	"screenapp/internal/screen"
	"screenapp/internal/ui"
)

// Zoom limits and step for the keypad zoom keys.
const (
	MinZoom  = 0.5
	MaxZoom  = 3
	ZoomStep = 0.1
)

// wheelPixels converts one wheel notch at scroll speed 1 to pixels.
const wheelPixels = 10

// Context is handed to every screen lifecycle call.
type Context struct {
	UI *ui.Builder
	// Frame is reset at the start of every ready tick. Anything allocated from it
	// is valid until the next ready tick.
	Frame    *arena.Arena
	Textures Textures
	Screens  *screen.Manager[*Context]
	Log      *slog.Logger

	// Now is the time of the current tick; Delta is the time since the previous update.
	Now   time.Time
	Delta time.Duration
	// Viewport is the layout size in layout units (window size divided by zoom).
	Viewport ui.Vec2
	FPS      int
}

// Input is what the window reported for one tick.
type Input struct {
	// Window is the window size in pixels.
	Window ui.Vec2
	// Pointer is the mouse position in window pixels.
	Pointer ui.Vec2
	Down    bool
	// Wheel is the wheel movement in notches.
	Wheel     ui.Vec2
	ZoomDelta float32
	FPS       int
}

// Overlay draws on top of the current screen, after its update.
type Overlay interface {
	Draw(ctx *Context)
}

// OverlayFunc adapts a function to Overlay.
type OverlayFunc func(ctx *Context)

func (f OverlayFunc) Draw(ctx *Context) { f(ctx) }

// Options configures New. Zero values use the defaults noted on each field.
type Options struct {
	// FrameArena is the frame arena capacity in bytes (default 1 MiB).
	FrameArena int
	// ScrollSpeed scales the wheel (default 1).
	ScrollSpeed float32
	// Zoom is the initial zoom factor (default 1).
	Zoom float32
	Log  *slog.Logger
}

// Stats counts ticks since the app was created.
type Stats struct {
	Ticks       uint64
	Updates     uint64
	Transitions uint64
}

// App owns the per-tick state. It is not safe for concurrent use.
type App struct {
	ctx      Context
	screens  *screen.Manager[*Context]
	ui       *ui.Builder
	frame    *arena.Arena
	textures *TextureTracker
	log      *slog.Logger
	overlays []Overlay

	zoom        float32
	scrollSpeed float32

	// Pointer edges and wheel are accumulated across ticks the screen skips.
	pointer  ui.Pointer
	lastDown bool

	cmds       []ui.Command
	updated    bool
	lastUpdate time.Time
	stats      Stats
}

// New creates an app laying out with b and loading textures through tex.
func New(opts Options, b *ui.Builder, tex Textures) *App {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if opts.FrameArena <= 0 {
		opts.FrameArena = 1 << 20
	}
	if opts.ScrollSpeed <= 0 {
		opts.ScrollSpeed = 1
	}
	if opts.Zoom <= 0 {
		opts.Zoom = 1
	}
	if b == nil {
		b = ui.NewBuilder(nil, ui.DefaultStylesheet())
	}
	a := &App{
		screens:     screen.NewManager[*Context](log.With("component", "screens")),
		ui:          b,
		frame:       arena.New(opts.FrameArena),
		textures:    NewTextureTracker(tex, log.With("component", "textures")),
		log:         log,
		zoom:        clampZoom(opts.Zoom),
		scrollSpeed: opts.ScrollSpeed,
	}
	a.ctx = Context{
		UI:       a.ui,
		Frame:    a.frame,
		Textures: a.textures,
		Screens:  a.screens,
		Log:      log,
	}
	return a
}

// Screens returns the screen manager.
func (a *App) Screens() *screen.Manager[*Context] { return a.screens }

// Context returns the context passed to screens.
func (a *App) Context() *Context { return &a.ctx }

// Textures returns the tracking texture store.
func (a *App) Textures() *TextureTracker { return a.textures }

// Zoom returns the current zoom factor.
func (a *App) Zoom() float32 { return a.zoom }

// Stats returns the tick counters.
func (a *App) Stats() Stats { return a.stats }

// AddOverlay registers o to draw after the screen on every update.
func (a *App) AddOverlay(o Overlay) {
	if o != nil {
		a.overlays = append(a.overlays, o)
	}
}

// Update runs one tick and returns the commands to present. When the current
// screen is not due for an update the previous frame's commands are returned.
func (a *App) Update(now time.Time, in Input) []ui.Command {
	a.stats.Ticks++
	if in.ZoomDelta != 0 {
		a.zoom = clampZoom(a.zoom + in.ZoomDelta)
	}
	a.accumulate(in)

	a.updated = a.screens.ReadyToUpdate(now)
	if !a.updated {
		return a.cmds
	}
	a.stats.Updates++

	ctx := &a.ctx
	ctx.Now = now
	ctx.Delta = 0
	if !a.lastUpdate.IsZero() {
		ctx.Delta = now.Sub(a.lastUpdate)
	}
	a.lastUpdate = now
	ctx.FPS = in.FPS
	ctx.Viewport = ui.Vec2{X: in.Window.X / a.zoom, Y: in.Window.Y / a.zoom}

	a.frame.Reset()
	a.ui.Begin(ctx.Viewport, a.takePointer())
	a.screens.RunInit(ctx)
	a.screens.RunUpdate(ctx)
	for _, o := range a.overlays {
		o.Draw(ctx)
	}
	a.cmds = a.ui.End()
	return a.cmds
}

// Settle runs the destroy pass. Call it after presenting the commands from Update.
// It does nothing after a tick that skipped the update.
func (a *App) Settle() {
	if !a.updated {
		return
	}
	if a.screens.RunDestroy(&a.ctx, false) {
		a.stats.Transitions++
		if s := a.screens.Current(); s != nil {
			a.log.Info("screen switched", "screen", s.Name, "id", s.ID.String())
		}
	}
}

// Shutdown destroys the current screen and reports textures that were never
// unloaded. It returns the number of leaked textures.
func (a *App) Shutdown() int {
	a.screens.Shutdown(&a.ctx)
	st := a.frame.Stats()
	a.log.Debug("frame arena", "capacity", st.Capacity, "high_water", st.HighWater,
		"allocs", st.Allocs, "failed", st.Failed)
	return a.textures.Report()
}

func (a *App) accumulate(in Input) {
	p := &a.pointer
	p.Pos = ui.Vec2{X: in.Pointer.X / a.zoom, Y: in.Pointer.Y / a.zoom}
	p.Down = in.Down
	if in.Down && !a.lastDown {
		p.Pressed = true
	}
	if !in.Down && a.lastDown {
		p.Released = true
	}
	a.lastDown = in.Down
	scale := a.scrollSpeed * wheelPixels
	p.Wheel.X += in.Wheel.X * scale
	p.Wheel.Y += in.Wheel.Y * scale
}

func (a *App) takePointer() ui.Pointer {
	p := a.pointer
	a.pointer.Pressed = false
	a.pointer.Released = false
	a.pointer.Wheel = ui.Vec2{}
	return p
}

func clampZoom(z float32) float32 {
	switch {
	case z < MinZoom:
		return MinZoom
	case z > MaxZoom:
		return MaxZoom
	}
	return z
}
