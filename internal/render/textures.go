package render

import (
	"errors"
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"screenapp/internal/assets"
	"screenapp/internal/ui"
)

var (
	ErrFontLoad    = errors.New("render: font could not be loaded")
	ErrTextureLoad = errors.New("render: texture upload failed")
)

// TextureStore uploads images decoded by an assets.Loader and hands out
// ui.TextureIDs for them. It implements app.Textures.
type TextureStore struct {
	loader   *assets.Loader
	log      *slog.Logger
	textures map[ui.TextureID]rl.Texture2D
	next     ui.TextureID
}

// NewTextureStore returns an empty store decoding through loader.
func NewTextureStore(loader *assets.Loader, log *slog.Logger) *TextureStore {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &TextureStore{loader: loader, log: log, textures: make(map[ui.TextureID]rl.Texture2D)}
}

// Load decodes path at w x h and uploads it to the GPU.
func (s *TextureStore) Load(path string, w, h int) (ui.TextureID, error) {
	img, err := s.loader.Load(assets.Request{Path: path, Width: w, Height: h})
	if err != nil {
		return 0, err
	}
	cpu := rl.NewImageFromImage(img)
	tex := rl.LoadTextureFromImage(cpu)
	rl.UnloadImage(cpu)
	if !rl.IsTextureValid(tex) {
		return 0, fmt.Errorf("%w: %s", ErrTextureLoad, path)
	}
	rl.SetTextureFilter(tex, rl.FilterBilinear)
	s.next++
	s.textures[s.next] = tex
	s.log.Debug("texture uploaded", "id", s.next, "path", path, "width", tex.Width, "height", tex.Height)
	return s.next, nil
}

// Unload frees the GPU texture behind id. Unknown ids are ignored.
func (s *TextureStore) Unload(id ui.TextureID) {
	tex, ok := s.textures[id]
	if !ok {
		return
	}
	rl.UnloadTexture(tex)
	delete(s.textures, id)
}

// Texture returns the GPU texture for id.
func (s *TextureStore) Texture(id ui.TextureID) (rl.Texture2D, bool) {
	tex, ok := s.textures[id]
	return tex, ok
}

// Len returns the number of textures held.
func (s *TextureStore) Len() int { return len(s.textures) }
