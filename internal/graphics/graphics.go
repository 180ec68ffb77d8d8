// Package graphics owns the raylib window and main loop.
package graphics

import (
	"image/color"
	"runtime"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"screenapp/internal/app"
	"screenapp/internal/ui"
)

func init() {
	// raylib and OpenGL calls must stay on the main thread.
	runtime.LockOSThread()
}

// Options configures the window.
type Options struct {
	Title      string
	Width      int
	Height     int
	TargetFPS  int
	ClearColor color.RGBA
}

// Hooks are the callbacks Run makes. Nil hooks are skipped.
type Hooks struct {
	// Setup runs once after the window and GL context exist.
	Setup func() error
	// Update runs every frame with the input gathered for it.
	Update func(now time.Time, in app.Input)
	// Draw runs between BeginDrawing and EndDrawing, after the clear.
	Draw func()
	// Present runs after EndDrawing.
	Present func()
	// Close runs before the window is destroyed.
	Close func()
}

// Run opens a resizable window and runs the loop until the window is closed.
// Each frame it reads input, calls Update, clears the screen, calls Draw and then Present.
func Run(opts Options, h Hooks) error {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint | rl.FlagVsyncHint)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	defer rl.CloseWindow()

	rl.SetExitKey(rl.KeyNull) // close via window button
	rl.SetTargetFPS(int32(opts.TargetFPS))

	if h.Setup != nil {
		if err := h.Setup(); err != nil {
			return err
		}
	}
	if h.Close != nil {
		defer h.Close()
	}

	for !rl.WindowShouldClose() {
		if h.Update != nil {
			h.Update(time.Now(), ReadInput())
		}

		rl.BeginDrawing()
		rl.ClearBackground(opts.ClearColor)
		if h.Draw != nil {
			h.Draw()
		}
		rl.EndDrawing()

		if h.Present != nil {
			h.Present()
		}
	}
	return nil
}

// ReadInput gathers this frame's window size, pointer, wheel and zoom keys.
func ReadInput() app.Input {
	in := app.Input{
		Window: ui.Vec2{X: float32(rl.GetScreenWidth()), Y: float32(rl.GetScreenHeight())},
		Down:   rl.IsMouseButtonDown(rl.MouseButtonLeft),
		FPS:    int(rl.GetFPS()),
	}
	p := rl.GetMousePosition()
	in.Pointer = ui.Vec2{X: p.X, Y: p.Y}
	w := rl.GetMouseWheelMoveV()
	in.Wheel = ui.Vec2{X: w.X, Y: w.Y}

	if rl.IsKeyPressed(rl.KeyKpAdd) {
		in.ZoomDelta += app.ZoomStep
	}
	if rl.IsKeyPressed(rl.KeyKpSubtract) {
		in.ZoomDelta -= app.ZoomStep
	}
	return in
}
