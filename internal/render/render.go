// Package render draws layout commands with raylib and owns the GPU textures
// they reference. Everything here must run on the thread that owns the window.
package render

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"screenapp/internal/ui"
)

const (
	textSpacing     = 1
	cornerSegments  = 8
	defaultFontSize = 16
)

// Renderer draws commands with an optional TTF font. With no font loaded
// raylib's default font is used.
type Renderer struct {
	font     rl.Font
	textures *TextureStore
}

// New creates a renderer drawing images from textures.
func New(textures *TextureStore) *Renderer {
	return &Renderer{textures: textures}
}

// LoadFont loads a TTF font from path at the given base size. If loading fails,
// the renderer keeps using the default font.
func (r *Renderer) LoadFont(path string, size int32) error {
	f := rl.LoadFontEx(path, size, nil)
	if f.Texture.ID == 0 {
		return ErrFontLoad
	}
	rl.SetTextureFilter(f.Texture, rl.FilterBilinear)
	if r.font.Texture.ID != 0 {
		rl.UnloadFont(r.font)
	}
	r.font = f
	return nil
}

// Close releases the font.
func (r *Renderer) Close() {
	if r.font.Texture.ID != 0 {
		rl.UnloadFont(r.font)
		r.font = rl.Font{}
	}
}

func (r *Renderer) activeFont() rl.Font {
	if r.font.Texture.ID != 0 {
		return r.font
	}
	return rl.GetFontDefault()
}

// Measurer returns a ui.Measurer backed by the active font.
func (r *Renderer) Measurer() ui.Measurer {
	return ui.MeasureFunc(func(text string, size float32) ui.Vec2 {
		if size <= 0 {
			size = defaultFontSize
		}
		v := rl.MeasureTextEx(r.activeFont(), text, size, textSpacing)
		return ui.Vec2{X: v.X, Y: v.Y}
	})
}

// Draw presents cmds scaled by zoom. Call between BeginDrawing and EndDrawing.
func (r *Renderer) Draw(cmds []ui.Command, zoom float32) {
	for i := range cmds {
		c := &cmds[i]
		b := scale(c.Bounds, zoom)
		switch c.Kind {
		case ui.CmdRectangle:
			if c.Radius > 0 {
				rl.DrawRectangleRounded(b, roundness(c.Radius*zoom, b), cornerSegments, c.Color)
			} else {
				rl.DrawRectangleRec(b, c.Color)
			}
		case ui.CmdBorder:
			w := c.Width * zoom
			if c.Radius > 0 {
				rl.DrawRectangleRoundedLinesEx(b, roundness(c.Radius*zoom, b), cornerSegments, w, c.Color)
			} else {
				rl.DrawRectangleLinesEx(b, w, c.Color)
			}
		case ui.CmdText:
			rl.DrawTextEx(r.activeFont(), c.Text, rl.NewVector2(b.X, b.Y), c.FontSize*zoom, textSpacing, c.Color)
		case ui.CmdImage:
			tex, ok := r.textures.Texture(c.Texture)
			if !ok {
				continue
			}
			src := rl.NewRectangle(0, 0, float32(tex.Width), float32(tex.Height))
			rl.DrawTexturePro(tex, src, b, rl.NewVector2(0, 0), 0, c.Color)
		case ui.CmdScissorStart:
			rl.BeginScissorMode(int32(b.X), int32(b.Y), int32(math32.Ceil(b.Width)), int32(math32.Ceil(b.Height)))
		case ui.CmdScissorEnd:
			rl.EndScissorMode()
		}
	}
}

func scale(r ui.Rect, zoom float32) rl.Rectangle {
	return rl.NewRectangle(r.X*zoom, r.Y*zoom, r.Width*zoom, r.Height*zoom)
}

// roundness converts a corner radius to raylib's 0..1 roundness.
func roundness(radius float32, b rl.Rectangle) float32 {
	short := min(b.Width, b.Height)
	if short <= 0 {
		return 0
	}
	return min(radius*2/short, 1)
}
