// Package schedule builds the read model for a visible scheduling window:
// an indexed run of day slots plus per-vehicle occupancy derived from the
// bookings fetched for that window.
package schedule

import (
	"errors"
	"time"

	"github.com/mgallego/fleetboard/internal/dateutil"
)

// ErrInvalidWindow is returned when the window end precedes its start.
var ErrInvalidWindow = errors.New("window end must be on or after window start")

// DaySlot is one calendar day within the window. Index is 0-based and
// contiguous; all grid math runs on these indices.
type DaySlot struct {
	Date  time.Time
	Index int
}

// Window is a contiguous inclusive date range with O(1) date-to-slot lookup.
type Window struct {
	Start time.Time
	End   time.Time

	slots []DaySlot
	index map[string]int
}

// NewWindow builds the ordered, gap-free slot sequence for [start, end].
func NewWindow(start, end time.Time) (*Window, error) {
	start = dateutil.TruncateToDay(start)
	end = dateutil.TruncateToDay(end)
	if end.Before(start) {
		return nil, ErrInvalidWindow
	}

	n := dateutil.DaysBetween(start, end) + 1
	w := &Window{
		Start: start,
		End:   end,
		slots: make([]DaySlot, 0, n),
		index: make(map[string]int, n),
	}
	for i := 0; i < n; i++ {
		d := dateutil.AddDays(start, i)
		w.slots = append(w.slots, DaySlot{Date: d, Index: i})
		w.index[dateutil.DayKey(d)] = i
	}
	return w, nil
}

// MonthWindow returns the window covering the calendar month containing t.
func MonthWindow(t time.Time) *Window {
	first, last := dateutil.MonthBounds(t)
	w, _ := NewWindow(first, last)
	return w
}

// Slots returns the ordered day slots.
func (w *Window) Slots() []DaySlot {
	return w.slots
}

// Len returns the number of day slots.
func (w *Window) Len() int {
	return len(w.slots)
}

// Date returns the calendar date of a slot index. Panics on out-of-range
// indices; callers index only through values obtained from this window.
func (w *Window) Date(idx int) time.Time {
	return w.slots[idx].Date
}

// Index returns the slot index of a date, or false when the date falls
// outside the window. It never aliases out-of-window dates to slot 0.
func (w *Window) Index(date time.Time) (int, bool) {
	i, ok := w.index[dateutil.DayKey(date)]
	return i, ok
}

// Contains reports whether the date falls within the window.
func (w *Window) Contains(date time.Time) bool {
	_, ok := w.Index(date)
	return ok
}

// ClampRange clamps an inclusive range to the window and resolves both
// endpoints to slot indices. ok is false when the clamped range inverts,
// meaning the range lies entirely outside the window.
func (w *Window) ClampRange(from, to time.Time) (startIdx, endIdx int, ok bool) {
	from = dateutil.TruncateToDay(from)
	to = dateutil.TruncateToDay(to)
	if to.Before(from) || to.Before(w.Start) || from.After(w.End) {
		return 0, 0, false
	}
	from = dateutil.Clamp(from, w.Start, w.End)
	to = dateutil.Clamp(to, w.Start, w.End)
	startIdx, _ = w.Index(from)
	endIdx, _ = w.Index(to)
	return startIdx, endIdx, true
}
