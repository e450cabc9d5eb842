package gesture

import "time"

// Session models one press-drag-release lifecycle on a grid cell. It is
// created on press-down and discarded after End; no drag state outlives it.
//
// A session only arms once the press has been held for HoldDelay before the
// first movement. Movement before that is a tap (open details), matching the
// touch semantics where both interactions start with the same press-down.
type Session struct {
	cfg Config
	now func() time.Time

	BookingID int64
	SourceCol int // vehicle column the drag started on
	SourceDay int // day row the drag started on
	pressedAt time.Time
	armed     bool
	moved     bool
	dx, dy    float64
}

// NewSession starts a session at press-down time. now is injectable for tests;
// nil uses time.Now.
func NewSession(cfg Config, bookingID int64, sourceCol, sourceDay int, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{
		cfg:       cfg.withDefaults(),
		now:       now,
		BookingID: bookingID,
		SourceCol: sourceCol,
		SourceDay: sourceDay,
		pressedAt: now(),
	}
}

// Move accumulates pointer displacement. The first movement decides whether
// the session arms: held long enough means drag, otherwise tap.
func (s *Session) Move(dx, dy float64) {
	if !s.moved {
		s.moved = true
		s.armed = s.now().Sub(s.pressedAt) >= s.cfg.HoldDelay
	}
	if !s.armed {
		return
	}
	s.dx += dx
	s.dy += dy
}

// Armed reports whether the session is an active drag.
func (s *Session) Armed() bool {
	return s.armed
}

// Displacement returns the accumulated drag displacement.
func (s *Session) Displacement() (dx, dy float64) {
	return s.dx, s.dy
}

// End interprets the session's final displacement. A session that never
// armed, or an armed drag that ends where it started, is a tap.
func (s *Session) End() Action {
	if !s.armed {
		return Action{Kind: KindNone}
	}
	return Interpret(s.dx, s.dy, s.cfg)
}
