package schedule

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/mgallego/fleetboard/internal/fleet"
)

// Segment is one booking's presence on one vehicle, clamped to the window.
// StartSlot and EndSlot are inclusive slot indices.
type Segment struct {
	Booking   fleet.Booking
	StartSlot int
	EndSlot   int
}

type cell struct {
	vehicleID int64
	day       int
}

// Snapshot is the in-memory read model for one window: vehicles, bookings,
// per-vehicle segments and cell occupancy. It is rebuilt wholesale from a
// fresh fetch after every load and every mutation; nothing is patched
// incrementally, so there is no reconciliation state to get wrong.
type Snapshot struct {
	Window   *Window
	Vehicles []fleet.Vehicle
	Bookings []fleet.Booking

	// Skipped counts bookings dropped during the build (bad range or
	// entirely outside the window). Informational only.
	Skipped int

	segments  map[int64][]Segment
	occupancy map[cell]*Segment
	byID      map[int64]*fleet.Booking
	vehicleIx map[int64]int
}

// BuildSnapshot derives the read model from fetched window data. Inputs are
// copied, never mutated; the build is deterministic for identical inputs.
// Bookings that cannot be placed are logged and skipped, never fatal.
func BuildSnapshot(win *Window, vehicles []fleet.Vehicle, bookings []fleet.Booking, log zerolog.Logger) *Snapshot {
	s := &Snapshot{
		Window:    win,
		Vehicles:  append([]fleet.Vehicle(nil), vehicles...),
		segments:  make(map[int64][]Segment),
		occupancy: make(map[cell]*Segment),
		byID:      make(map[int64]*fleet.Booking),
		vehicleIx: make(map[int64]int, len(vehicles)),
	}
	for i, v := range s.Vehicles {
		s.vehicleIx[v.ID] = i
	}

	for _, b := range bookings {
		if b.Cancelled {
			continue
		}
		if b.ToDate.Before(b.FromDate) {
			log.Warn().
				Int64("booking_id", b.ID).
				Str("customer", b.Customer).
				Time("from", b.FromDate).
				Time("to", b.ToDate).
				Msg("skipping booking with inverted date range")
			s.Skipped++
			continue
		}
		startIdx, endIdx, ok := win.ClampRange(b.FromDate, b.ToDate)
		if !ok {
			s.Skipped++
			continue
		}

		s.Bookings = append(s.Bookings, b)

		for _, vid := range b.VehicleIDs {
			s.segments[vid] = append(s.segments[vid], Segment{
				Booking:   b,
				StartSlot: startIdx,
				EndSlot:   endIdx,
			})
		}
	}

	// Index by ID only after the render set stops growing; the slice's
	// backing array must not move under the pointers.
	for i := range s.Bookings {
		s.byID[s.Bookings[i].ID] = &s.Bookings[i]
	}

	for vid, segs := range s.segments {
		sort.Slice(segs, func(i, j int) bool {
			if segs[i].StartSlot != segs[j].StartSlot {
				return segs[i].StartSlot < segs[j].StartSlot
			}
			return segs[i].Booking.ID < segs[j].Booking.ID
		})
		s.segments[vid] = segs
		for i := range segs {
			seg := &segs[i]
			for d := seg.StartSlot; d <= seg.EndSlot; d++ {
				s.occupancy[cell{vehicleID: vid, day: d}] = seg
			}
		}
	}

	return s
}

// SegmentsFor returns the vehicle's segments ordered by start slot.
func (s *Snapshot) SegmentsFor(vehicleID int64) []Segment {
	return s.segments[vehicleID]
}

// Occupied reports whether the cell (vehicle, day index) holds a booking.
func (s *Snapshot) Occupied(vehicleID int64, day int) bool {
	_, ok := s.occupancy[cell{vehicleID: vehicleID, day: day}]
	return ok
}

// SegmentAt returns the segment occupying a cell, if any.
func (s *Snapshot) SegmentAt(vehicleID int64, day int) (*Segment, bool) {
	seg, ok := s.occupancy[cell{vehicleID: vehicleID, day: day}]
	return seg, ok
}

// Booking returns a booking from the window's render set by ID.
func (s *Snapshot) Booking(id int64) (*fleet.Booking, bool) {
	b, ok := s.byID[id]
	return b, ok
}

// VehicleIndex returns the column index of a vehicle in the snapshot's
// vehicle ordering.
func (s *Snapshot) VehicleIndex(vehicleID int64) (int, bool) {
	i, ok := s.vehicleIx[vehicleID]
	return i, ok
}

// VehicleAt returns the vehicle at a column index.
func (s *Snapshot) VehicleAt(idx int) (fleet.Vehicle, bool) {
	if idx < 0 || idx >= len(s.Vehicles) {
		return fleet.Vehicle{}, false
	}
	return s.Vehicles[idx], true
}

// FreeFor reports whether the vehicle has no booking overlapping [from, to].
// Advisory only; the backend remains authoritative.
func (s *Snapshot) FreeFor(vehicleID int64, from, to time.Time) bool {
	return len(s.ConflictsWith(vehicleID, from, to, 0)) == 0
}

// ConflictsWith lists the vehicle's bookings overlapping [from, to],
// excluding excludeBookingID (pass 0 to exclude nothing). Used for the
// advisory pre-check and for friendlier conflict messaging; the binding
// check still happens server-side.
func (s *Snapshot) ConflictsWith(vehicleID int64, from, to time.Time, excludeBookingID int64) []fleet.Conflict {
	var label string
	if i, ok := s.vehicleIx[vehicleID]; ok {
		label = s.Vehicles[i].Label()
	}

	var out []fleet.Conflict
	for _, seg := range s.segments[vehicleID] {
		b := seg.Booking
		if b.ID == excludeBookingID {
			continue
		}
		if fleet.Overlaps(b.FromDate, b.ToDate, from, to) {
			out = append(out, fleet.Conflict{
				VehicleID:    vehicleID,
				VehicleLabel: label,
				BookingID:    b.ID,
				Customer:     b.Customer,
				From:         b.FromDate,
				To:           b.ToDate,
			})
		}
	}
	return out
}

// Candidates lists bookings that could be assigned to the given empty cell:
// they cover that day, are not complete, and are not already on the vehicle.
func (s *Snapshot) Candidates(vehicleID int64, day int) []fleet.Booking {
	if day < 0 || day >= s.Window.Len() {
		return nil
	}
	date := s.Window.Date(day)

	var out []fleet.Booking
	for _, b := range s.Bookings {
		if b.Status() == fleet.StatusComplete {
			continue
		}
		if b.HasVehicle(vehicleID) {
			continue
		}
		if b.CoversDay(date) {
			out = append(out, b)
		}
	}
	return out
}
