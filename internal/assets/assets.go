// Package assets decodes and caches images read from the asset tree.
// Decoding happens off the render thread; GPU upload is left to the renderer.
package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"path"
	"sync/atomic"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Defaults used when the caller passes zero.
const (
	DefaultCacheSize = 32
	DefaultWorkers   = 4
)

// ErrBadSize is returned for a negative target size.
var ErrBadSize = errors.New("assets: invalid size")

// Request names an image and the size it should be delivered at.
// A zero Width or Height keeps the decoded size on that axis.
type Request struct {
	Path   string
	Width  int
	Height int
}

// Key is the cache key for the request.
func (r Request) Key() string {
	return fmt.Sprintf("%s@%dx%d", r.Path, r.Width, r.Height)
}

// Loader reads images relative to a root directory and keeps the most recently used
// decoded results. It is safe for concurrent use.
type Loader struct {
	fs      afero.Fs
	root    string
	workers int
	cache   *lru.Cache[string, *image.RGBA]
	log     *slog.Logger

	decoded atomic.Int64
	evicted atomic.Int64
}

// Stats counts decodes and cache evictions since the loader was created.
type Stats struct {
	Cached  int
	Decoded int64
	Evicted int64
}

// NewLoader returns a loader over fsys rooted at root. cacheSize and workers fall back to
// the package defaults when not positive.
func NewLoader(fsys afero.Fs, root string, cacheSize, workers int, log *slog.Logger) (*Loader, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	l := &Loader{fs: fsys, root: root, workers: workers, log: log}
	cache, err := lru.NewWithEvict(cacheSize, func(key string, _ *image.RGBA) {
		l.evicted.Add(1)
		l.log.Debug("image evicted", "key", key)
	})
	if err != nil {
		return nil, fmt.Errorf("assets: cache: %w", err)
	}
	l.cache = cache
	return l, nil
}

// Load returns the image for req, decoding and resizing it on a cache miss.
func (l *Loader) Load(req Request) (*image.RGBA, error) {
	if req.Width < 0 || req.Height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadSize, req.Width, req.Height)
	}
	key := req.Key()
	if img, ok := l.cache.Get(key); ok {
		return img, nil
	}
	img, err := l.decode(req.Path)
	if err != nil {
		return nil, err
	}
	img = fit(img, req.Width, req.Height)
	l.cache.Add(key, img)
	return img, nil
}

// Preload decodes all requests in parallel with at most the configured number of workers.
// The first error cancels the remaining work and is returned.
func (l *Loader) Preload(ctx context.Context, reqs []Request) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for _, req := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := l.Load(req)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	l.log.Debug("preloaded images", "count", len(reqs))
	return nil
}

// Cached reports whether req is currently in the cache without touching its recency.
func (l *Loader) Cached(req Request) bool {
	return l.cache.Contains(req.Key())
}

// Purge drops every cached image.
func (l *Loader) Purge() { l.cache.Purge() }

// Stats returns a snapshot of the loader counters.
func (l *Loader) Stats() Stats {
	return Stats{Cached: l.cache.Len(), Decoded: l.decoded.Load(), Evicted: l.evicted.Load()}
}

func (l *Loader) decode(name string) (*image.RGBA, error) {
	p := path.Join(l.root, name)
	f, err := l.fs.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", p, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", p, err)
	}
	l.decoded.Add(1)
	l.log.Debug("image decoded", "path", p, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return clone.AsRGBA(img), nil
}

// fit resizes img to w x h. A zero axis keeps the source size on that axis.
func fit(img *image.RGBA, w, h int) *image.RGBA {
	b := img.Bounds()
	if w == 0 {
		w = b.Dx()
	}
	if h == 0 {
		h = b.Dy()
	}
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	return transform.Resize(img, w, h, transform.Linear)
}
