package screen

import (
	"log/slog"
	"time"
)

// State summarizes where the manager is in the transition protocol.
type State int

const (
	// StateEmpty has no current screen and nothing pending.
	StateEmpty State = iota
	// StateActive has a current screen and nothing pending.
	StateActive
	// StateTransitioning has a pending screen waiting for the next destroy pass.
	StateTransitioning
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateActive:
		return "active"
	case StateTransitioning:
		return "transitioning"
	default:
		return "unknown"
	}
}

// Manager holds the current screen and at most one pending screen.
//
// A driver calls, on every tick where ReadyToUpdate reports true:
//
//	RunInit, RunUpdate, present, RunDestroy(false)
//
// and Shutdown once when the application exits. Switching screens from inside
// an update takes effect at the following RunDestroy, so an update never sees
// a screen that is being torn down.
//
// When nothing is current, RunInit promotes a pending screen and initializes it
// in the same tick. Otherwise promotion happens in RunDestroy and the promoted
// screen is initialized on the next ready tick.
//
// A Manager is not safe for concurrent use.
type Manager[C any] struct {
	current   *Screen[C]
	next      *Screen[C]
	nextReady bool
	// tickAt is the time passed to the last ReadyToUpdate call.
	tickAt time.Time
	log    *slog.Logger
}

// NewManager returns an empty manager. A nil logger discards output.
func NewManager[C any](log *slog.Logger) *Manager[C] {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Manager[C]{log: log}
}

// Current returns the active screen or nil.
func (m *Manager[C]) Current() *Screen[C] { return m.current }

// Pending returns the screen waiting to be promoted or nil.
func (m *Manager[C]) Pending() *Screen[C] {
	if !m.nextReady {
		return nil
	}
	return m.next
}

// State reports the manager state.
func (m *Manager[C]) State() State {
	switch {
	case m.nextReady:
		return StateTransitioning
	case m.current != nil:
		return StateActive
	default:
		return StateEmpty
	}
}

// SetNext schedules s to replace the current screen. A screen scheduled
// earlier and not yet promoted is dropped; it was never initialized.
func (m *Manager[C]) SetNext(s *Screen[C]) {
	if s == nil {
		return
	}
	if m.nextReady && m.next != nil && m.next != s {
		m.log.Debug("pending screen replaced",
			"dropped", m.next.label(), "dropped_id", m.next.ID.String(),
			"screen", s.label())
	}
	m.next = s
	m.nextReady = true
	m.log.Debug("screen scheduled", "screen", s.label(), "id", s.ID.String())
}

// RunInit initializes the current screen once.
func (m *Manager[C]) RunInit(ctx C) {
	if m.current == nil && m.nextReady {
		m.promote()
		// This tick counts as the new screen's first throttle tick.
		m.current.lastUpdate = m.tickAt
	}
	s := m.current
	if s == nil || s.initDone {
		return
	}
	s.lifecycle.Init(ctx)
	s.initDone = true
	m.log.Debug("screen initialized", "screen", s.label(), "id", s.ID.String())
}

// ReadyToUpdate reports whether the current screen is due for an update at now.
// A positive answer starts the throttle interval over, so call it once per tick.
// With no current screen it always reports true so a pending screen can be
// promoted.
func (m *Manager[C]) ReadyToUpdate(now time.Time) bool {
	m.tickAt = now
	s := m.current
	if s == nil || s.UpdateRate <= 0 {
		return true
	}
	if s.lastUpdate.IsZero() || now.Sub(s.lastUpdate) >= s.UpdateRate {
		s.lastUpdate = now
		return true
	}
	return false
}

// RunUpdate runs the current screen's update if it has been initialized.
func (m *Manager[C]) RunUpdate(ctx C) {
	s := m.current
	if s == nil || !s.initDone || s.destroyDone {
		return
	}
	s.lifecycle.Update(ctx)
}

// RunDestroy destroys the current screen and promotes the pending one when a
// switch was requested or force is set. It reports whether the current screen
// changed. Forcing with nothing pending leaves the manager empty.
func (m *Manager[C]) RunDestroy(ctx C, force bool) bool {
	if !m.nextReady && !force {
		return false
	}
	s := m.current
	if s == nil {
		if force {
			return false
		}
		m.promote()
		return true
	}
	if s.destroyDone {
		return false
	}
	s.destroyDone = true
	// A screen that never ran Init has nothing to release.
	if s.initDone {
		s.lifecycle.Destroy(ctx)
	}
	m.log.Debug("screen destroyed", "screen", s.label(), "id", s.ID.String())
	m.current = nil
	if m.nextReady {
		m.promote()
	}
	return true
}

// Shutdown destroys the current screen regardless of throttle state and drops
// anything pending.
func (m *Manager[C]) Shutdown(ctx C) {
	m.RunDestroy(ctx, true)
	if s := m.current; s != nil && !s.destroyDone {
		// Promoted by the forced pass above; it was never initialized.
		s.destroyDone = true
	}
	m.current = nil
	m.next = nil
	m.nextReady = false
}

func (m *Manager[C]) promote() {
	m.current = m.next
	m.next = nil
	m.nextReady = false
	if m.current != nil {
		m.log.Debug("screen promoted", "screen", m.current.label(), "id", m.current.ID.String())
	}
}
