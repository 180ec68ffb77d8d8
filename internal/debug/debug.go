// Package debug draws the DEBUG button and the runtime stats panel on top of
// the current screen.
package debug

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/atotto/clipboard"

	"screenapp/internal/app"
	"screenapp/internal/ui"
)

const (
	// updateInterval: only refresh heap and goroutine counts every N updates.
	updateInterval = 30
	logLines       = 5
	panelOffsetY   = 40
)

// Element IDs.
const (
	ButtonID   = "tooltip"
	PanelID    = "debug-panel"
	ScreenIDID = "debug-screen-id"
)

// Options configures New.
type Options struct {
	// Visible shows the panel from the start.
	Visible bool
	// Lines returns recent log lines. Nil hides the log section.
	Lines func() []string
	// Copy writes to the system clipboard. Nil uses atotto/clipboard.
	Copy func(string) error
	Log  *slog.Logger
}

// Overlay is the debug overlay. It implements app.Overlay.
type Overlay struct {
	Visible bool

	lines func() []string
	copy  func(string) error
	log   *slog.Logger

	frameCount   uint32
	lastMemStats runtime.MemStats
	goroutines   int
}

// New returns an overlay with the panel hidden unless opts.Visible is set.
func New(opts Options) *Overlay {
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	if opts.Log == nil {
		opts.Log = slog.New(slog.DiscardHandler)
	}
	return &Overlay{Visible: opts.Visible, lines: opts.Lines, copy: opts.Copy, log: opts.Log}
}

// Toggle shows or hides the panel.
func (d *Overlay) Toggle() {
	d.Visible = !d.Visible
	d.log.Debug("debug panel toggled", "visible", d.Visible)
}

// Draw adds the overlay elements to the frame being built.
func (d *Overlay) Draw(ctx *app.Context) {
	if d.frameCount%updateInterval == 0 {
		runtime.ReadMemStats(&d.lastMemStats)
		d.goroutines = runtime.NumGoroutine()
	}
	d.frameCount++

	d.button(ctx)
	if d.Visible {
		d.panel(ctx)
	}
}

func (d *Overlay) button(ctx *app.Context) {
	u := ctx.UI
	bg := ui.AlphaOver(ui.ColorRed, 0.5)
	if u.PointerOver(ButtonID) {
		bg = ui.ColorRed
	}
	u.Open(ui.Decl{
		ID:         ButtonID,
		Background: bg,
		Floating: ui.Floating{
			Enabled: true,
			ToRoot:  true,
			Point:   ui.AttachRightTop,
			Offset:  ui.Vec2{X: -8, Y: 8},
			ZIndex:  2,
		},
	})
	u.OnHover(func(ev ui.PointerEvent) {
		if ev.Pressed {
			d.Toggle()
		}
	})
	u.Text("DEBUG", ui.TextStyle{Class: "debug-label"})
	u.Close()
}

func (d *Overlay) panel(ctx *app.Context) {
	u := ctx.UI
	u.Open(ui.Decl{
		ID:    PanelID,
		Class: "debug-panel",
		Layout: ui.Layout{
			Direction: ui.TopToBottom,
			Width:     ui.Fit(260),
		},
		Floating: ui.Floating{
			Enabled: true,
			ToRoot:  true,
			Point:   ui.AttachRightTop,
			Offset:  ui.Vec2{X: -8, Y: panelOffsetY},
			ZIndex:  1,
		},
	})
	defer u.Close()

	line := func(s string) { u.Text(s, ui.TextStyle{Class: "debug-text"}) }

	line(text(ctx, "FPS %d  frame %s", ctx.FPS, ctx.Delta))
	line(text(ctx, "heap %.2f MiB  goroutines %d",
		float64(d.lastMemStats.HeapAlloc)/(1024*1024), d.goroutines))

	if s := ctx.Screens.Current(); s != nil {
		line(text(ctx, "screen %s  kind %d  rate %s", s.Name, s.Kind, s.UpdateRate))
		id := s.ID.String()
		u.Open(ui.Decl{ID: ScreenIDID, HoverBackground: ui.AlphaOver(ui.ColorOrange, 0.4)})
		u.OnHover(func(ev ui.PointerEvent) {
			if !ev.Pressed {
				return
			}
			if err := d.copy(id); err != nil {
				d.log.Warn("copy screen id failed", "err", err)
				return
			}
			d.log.Info("screen id copied", "id", id)
		})
		line(text(ctx, "id %s", id))
		u.Close()
	} else {
		line("screen none")
	}
	line(text(ctx, "state %s", ctx.Screens.State()))

	fs := ctx.Frame.Stats()
	line(text(ctx, "frame arena %d/%d  peak %d", fs.Used, fs.Capacity, fs.HighWater))
	line(text(ctx, "elements %d", u.ElementCount()))
	if t, ok := ctx.Textures.(interface{ Live() int }); ok {
		line(text(ctx, "textures %d", t.Live()))
	}

	if d.lines == nil {
		return
	}
	recent := d.lines()
	if len(recent) > logLines {
		recent = recent[len(recent)-logLines:]
	}
	for _, l := range recent {
		line(l)
	}
}

// text formats into the frame arena, falling back to the heap when it is full.
func text(ctx *app.Context, format string, args ...any) string {
	if s, ok := ctx.Frame.Sprintf(format, args...); ok {
		return s
	}
	return fmt.Sprintf(format, args...)
}
