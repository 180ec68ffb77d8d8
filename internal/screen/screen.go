// Package screen defines the screen lifecycle and the manager that drives
// transitions between screens. C is the per-tick context handed to every
// lifecycle call; the application decides what it carries.
package screen

import (
	"time"

	"screenapp/internal/uid"
)

// Kind tags a screen with its concrete type. Values are assigned by the package
// that defines the screens.
type Kind int

// Lifecycle is implemented by every concrete screen. The value implementing it
// owns the screen's private state.
type Lifecycle[C any] interface {
	Init(ctx C)
	Update(ctx C)
	Destroy(ctx C)
}

// Funcs adapts plain functions to Lifecycle. Nil fields are no-ops.
type Funcs[C any] struct {
	OnInit    func(C)
	OnUpdate  func(C)
	OnDestroy func(C)
}

func (f Funcs[C]) Init(ctx C) {
	if f.OnInit != nil {
		f.OnInit(ctx)
	}
}

func (f Funcs[C]) Update(ctx C) {
	if f.OnUpdate != nil {
		f.OnUpdate(ctx)
	}
}

func (f Funcs[C]) Destroy(ctx C) {
	if f.OnDestroy != nil {
		f.OnDestroy(ctx)
	}
}

// Screen is one instance of a view. A Screen is initialized at most once and
// destroyed at most once; create a new instance to show the same view again.
type Screen[C any] struct {
	ID   uid.UID
	Kind Kind
	// Name is used in logs and the debug overlay.
	Name string
	// UpdateRate is the minimum time between two updates. Zero or negative
	// means every tick.
	UpdateRate time.Duration

	lifecycle   Lifecycle[C]
	initDone    bool
	destroyDone bool
	lastUpdate  time.Time
}

// New creates a screen with a fresh ID. A nil lifecycle gives a screen that
// does nothing.
func New[C any](kind Kind, rate time.Duration, l Lifecycle[C]) *Screen[C] {
	if l == nil {
		l = Funcs[C]{}
	}
	return &Screen[C]{
		ID:         uid.New(),
		Kind:       kind,
		UpdateRate: rate,
		lifecycle:  l,
	}
}

// RateFromFPS converts a target update frequency to an UpdateRate.
func RateFromFPS(fps int) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Second / time.Duration(fps)
}

// Initialized reports whether Init has run.
func (s *Screen[C]) Initialized() bool { return s.initDone }

// Destroyed reports whether Destroy has run.
func (s *Screen[C]) Destroyed() bool { return s.destroyDone }

// LastUpdate is the time of the last accepted throttle tick.
func (s *Screen[C]) LastUpdate() time.Time { return s.lastUpdate }

func (s *Screen[C]) label() string {
	if s.Name != "" {
		return s.Name
	}
	return "unnamed"
}
