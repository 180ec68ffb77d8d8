package app

import (
	"fmt"
	"log/slog"
	"slices"

	"screenapp/internal/ui"
)

// Textures loads images into renderer-owned textures.
type Textures interface {
	// Load returns a texture for the image at path scaled to w x h. Zero sizes keep
	// the image size.
	Load(path string, w, h int) (ui.TextureID, error)
	Unload(id ui.TextureID)
}

// TextureTracker wraps Textures and remembers what is still loaded so leaks can be
// reported at shutdown.
type TextureTracker struct {
	inner Textures
	log   *slog.Logger
	live  map[ui.TextureID]string

	loads   int
	unloads int
}

// NewTextureTracker wraps inner. A nil logger discards output.
func NewTextureTracker(inner Textures, log *slog.Logger) *TextureTracker {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &TextureTracker{inner: inner, log: log, live: make(map[ui.TextureID]string)}
}

// Load forwards to the wrapped store and records the texture. Failures are logged
// and return texture 0 so the caller can draw without the image.
func (t *TextureTracker) Load(path string, w, h int) (ui.TextureID, error) {
	id, err := t.inner.Load(path, w, h)
	if err != nil {
		t.log.Warn("texture load failed", "path", path, "err", err)
		return 0, err
	}
	t.loads++
	t.live[id] = fmt.Sprintf("%s@%dx%d", path, w, h)
	return id, nil
}

// Unload releases id. Unloading 0 is a no-op; unloading an unknown id is logged.
func (t *TextureTracker) Unload(id ui.TextureID) {
	if id == 0 {
		return
	}
	if _, ok := t.live[id]; !ok {
		t.log.Warn("unload of unknown texture", "id", id)
		return
	}
	delete(t.live, id)
	t.unloads++
	t.inner.Unload(id)
}

// Live returns the number of textures currently loaded.
func (t *TextureTracker) Live() int { return len(t.live) }

// Counts returns the total loads and unloads.
func (t *TextureTracker) Counts() (loads, unloads int) { return t.loads, t.unloads }

// Leaks returns the textures still loaded, sorted.
func (t *TextureTracker) Leaks() []string {
	out := make([]string, 0, len(t.live))
	for _, name := range t.live {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Report logs every texture still loaded and returns how many there were.
func (t *TextureTracker) Report() int {
	leaks := t.Leaks()
	for _, name := range leaks {
		t.log.Warn("texture leaked", "texture", name)
	}
	if len(leaks) == 0 {
		t.log.Debug("no texture leaks", "loads", t.loads, "unloads", t.unloads)
	}
	return len(leaks)
}
