package schedule

import (
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mgallego/fleetboard/internal/fleet"
)

var nopLog = zerolog.Nop()

func marchWindow(t *testing.T) *Window {
	t.Helper()
	w, err := NewWindow(day(2026, time.March, 1), day(2026, time.March, 31))
	if err != nil {
		t.Fatalf("building window: %v", err)
	}
	return w
}

func testVehicles() []fleet.Vehicle {
	return []fleet.Vehicle{
		{ID: 1, Registration: "1234-BCD", Active: true},
		{ID: 2, Registration: "5678-FGH", Name: "Blue Volvo", Active: true},
	}
}

func TestBuildSnapshot(t *testing.T) {
	w := marchWindow(t)
	bookings := []fleet.Booking{
		{ID: 10, Customer: "Viajes Aurora", FromDate: day(2026, time.March, 10), ToDate: day(2026, time.March, 15), RequiredVehicles: 1, VehicleIDs: []int64{1}},
		{ID: 11, Customer: "Colegio San Blas", FromDate: day(2026, time.March, 20), ToDate: day(2026, time.March, 22), RequiredVehicles: 2, VehicleIDs: []int64{1, 2}},
		{ID: 12, Customer: "Coro Municipal", FromDate: day(2026, time.March, 5), ToDate: day(2026, time.March, 6), RequiredVehicles: 1},
	}

	s := BuildSnapshot(w, testVehicles(), bookings, nopLog)

	t.Run("segments per vehicle", func(t *testing.T) {
		segs := s.SegmentsFor(1)
		if len(segs) != 2 {
			t.Fatalf("expected 2 segments on vehicle 1, got %d", len(segs))
		}
		if segs[0].Booking.ID != 10 || segs[0].StartSlot != 9 || segs[0].EndSlot != 14 {
			t.Errorf("unexpected first segment: %+v", segs[0])
		}
		if segs[1].Booking.ID != 11 || segs[1].StartSlot != 19 || segs[1].EndSlot != 21 {
			t.Errorf("unexpected second segment: %+v", segs[1])
		}
	})

	t.Run("occupancy", func(t *testing.T) {
		if !s.Occupied(1, 9) || !s.Occupied(1, 14) {
			t.Error("expected vehicle 1 occupied on slots 9 and 14")
		}
		if s.Occupied(1, 8) || s.Occupied(1, 15) {
			t.Error("expected vehicle 1 free just outside the booking")
		}
		if s.Occupied(2, 9) {
			t.Error("vehicle 2 should be free on slot 9")
		}
		seg, ok := s.SegmentAt(2, 20)
		if !ok || seg.Booking.ID != 11 {
			t.Errorf("SegmentAt(2, 20) = %+v, %v", seg, ok)
		}
	})

	t.Run("unassigned booking is in the render set", func(t *testing.T) {
		b, ok := s.Booking(12)
		if !ok {
			t.Fatal("booking 12 missing from snapshot")
		}
		if b.Status() != fleet.StatusUnassigned {
			t.Errorf("expected unassigned, got %v", b.Status())
		}
	})

	t.Run("no shared-vehicle overlap in valid data", func(t *testing.T) {
		for _, v := range s.Vehicles {
			segs := s.SegmentsFor(v.ID)
			for i := 0; i < len(segs); i++ {
				for j := i + 1; j < len(segs); j++ {
					a, b := segs[i].Booking, segs[j].Booking
					if fleet.Overlaps(a.FromDate, a.ToDate, b.FromDate, b.ToDate) {
						t.Errorf("vehicle %d: bookings %d and %d overlap", v.ID, a.ID, b.ID)
					}
				}
			}
		}
	})
}

func TestBuildSnapshotSkips(t *testing.T) {
	w := marchWindow(t)

	t.Run("cancelled booking excluded", func(t *testing.T) {
		s := BuildSnapshot(w, testVehicles(), []fleet.Booking{
			{ID: 10, Customer: "x", FromDate: day(2026, time.March, 10), ToDate: day(2026, time.March, 12), VehicleIDs: []int64{1}, Cancelled: true},
		}, nopLog)
		if s.Occupied(1, 9) {
			t.Error("cancelled booking must not occupy cells")
		}
		if _, ok := s.Booking(10); ok {
			t.Error("cancelled booking must not be in the render set")
		}
	})

	t.Run("inverted range skipped without aborting build", func(t *testing.T) {
		s := BuildSnapshot(w, testVehicles(), []fleet.Booking{
			{ID: 10, Customer: "bad", FromDate: day(2026, time.March, 15), ToDate: day(2026, time.March, 10), VehicleIDs: []int64{1}},
			{ID: 11, Customer: "good", FromDate: day(2026, time.March, 20), ToDate: day(2026, time.March, 21), VehicleIDs: []int64{1}},
		}, nopLog)
		if s.Skipped != 1 {
			t.Errorf("expected 1 skipped booking, got %d", s.Skipped)
		}
		if _, ok := s.Booking(11); !ok {
			t.Error("valid booking should survive a neighbour's bad range")
		}
	})

	t.Run("booking outside window excluded", func(t *testing.T) {
		s := BuildSnapshot(w, testVehicles(), []fleet.Booking{
			{ID: 10, Customer: "april", FromDate: day(2026, time.April, 2), ToDate: day(2026, time.April, 4), VehicleIDs: []int64{1}},
		}, nopLog)
		if _, ok := s.Booking(10); ok {
			t.Error("out-of-window booking must be excluded from the render set")
		}
		if s.Skipped != 1 {
			t.Errorf("expected 1 skipped booking, got %d", s.Skipped)
		}
	})

	t.Run("partially outside window is clamped", func(t *testing.T) {
		s := BuildSnapshot(w, testVehicles(), []fleet.Booking{
			{ID: 10, Customer: "spans", FromDate: day(2026, time.February, 25), ToDate: day(2026, time.March, 3), VehicleIDs: []int64{1}},
		}, nopLog)
		segs := s.SegmentsFor(1)
		if len(segs) != 1 {
			t.Fatalf("expected 1 segment, got %d", len(segs))
		}
		if segs[0].StartSlot != 0 || segs[0].EndSlot != 2 {
			t.Errorf("expected clamped slots 0..2, got %d..%d", segs[0].StartSlot, segs[0].EndSlot)
		}
	})
}

func TestSnapshotDeterminism(t *testing.T) {
	w := marchWindow(t)
	bookings := []fleet.Booking{
		{ID: 10, Customer: "a", FromDate: day(2026, time.March, 10), ToDate: day(2026, time.March, 15), VehicleIDs: []int64{1}},
		{ID: 11, Customer: "b", FromDate: day(2026, time.March, 1), ToDate: day(2026, time.March, 4), VehicleIDs: []int64{2}},
	}

	a := BuildSnapshot(w, testVehicles(), bookings, nopLog)
	b := BuildSnapshot(w, testVehicles(), bookings, nopLog)

	for _, v := range testVehicles() {
		for d := 0; d < w.Len(); d++ {
			if a.Occupied(v.ID, d) != b.Occupied(v.ID, d) {
				t.Fatalf("occupancy differs at vehicle %d day %d", v.ID, d)
			}
		}
		if !reflect.DeepEqual(a.SegmentsFor(v.ID), b.SegmentsFor(v.ID)) {
			t.Fatalf("segments differ for vehicle %d", v.ID)
		}
	}
}

func TestSnapshotConflictsWith(t *testing.T) {
	w := marchWindow(t)
	s := BuildSnapshot(w, testVehicles(), []fleet.Booking{
		{ID: 10, Customer: "Viajes Aurora", FromDate: day(2026, time.March, 10), ToDate: day(2026, time.March, 15), VehicleIDs: []int64{1}},
	}, nopLog)

	t.Run("overlapping range reports the existing booking", func(t *testing.T) {
		got := s.ConflictsWith(1, day(2026, time.March, 12), day(2026, time.March, 14), 0)
		if len(got) != 1 {
			t.Fatalf("expected 1 conflict, got %d", len(got))
		}
		c := got[0]
		if c.BookingID != 10 || c.Customer != "Viajes Aurora" || c.VehicleLabel != "1234-BCD" {
			t.Errorf("unexpected conflict: %+v", c)
		}
	})

	t.Run("free range", func(t *testing.T) {
		if !s.FreeFor(1, day(2026, time.March, 16), day(2026, time.March, 20)) {
			t.Error("expected vehicle 1 free after the booking")
		}
		if s.FreeFor(1, day(2026, time.March, 15), day(2026, time.March, 20)) {
			t.Error("inclusive end date must still conflict")
		}
	})

	t.Run("exclusion for self-moves", func(t *testing.T) {
		got := s.ConflictsWith(1, day(2026, time.March, 12), day(2026, time.March, 14), 10)
		if len(got) != 0 {
			t.Errorf("expected no conflicts when excluding the booking itself, got %d", len(got))
		}
	})
}

func TestSnapshotCandidates(t *testing.T) {
	w := marchWindow(t)
	s := BuildSnapshot(w, testVehicles(), []fleet.Booking{
		{ID: 10, Customer: "complete", FromDate: day(2026, time.March, 10), ToDate: day(2026, time.March, 12), RequiredVehicles: 1, VehicleIDs: []int64{1}},
		{ID: 11, Customer: "needs one", FromDate: day(2026, time.March, 10), ToDate: day(2026, time.March, 12), RequiredVehicles: 1},
		{ID: 12, Customer: "needs two", FromDate: day(2026, time.March, 11), ToDate: day(2026, time.March, 13), RequiredVehicles: 2, VehicleIDs: []int64{2}},
		{ID: 13, Customer: "other days", FromDate: day(2026, time.March, 20), ToDate: day(2026, time.March, 21), RequiredVehicles: 1},
	}, nopLog)

	// Day index 10 = March 11th.
	got := s.Candidates(2, 10)
	ids := make([]int64, 0, len(got))
	for _, b := range got {
		ids = append(ids, b.ID)
	}
	// Booking 10 is complete, 12 is already on vehicle 2, 13 misses the day.
	if !reflect.DeepEqual(ids, []int64{11}) {
		t.Errorf("Candidates() = %v, want [11]", ids)
	}

	// Same day on vehicle 1: booking 12 becomes eligible.
	got = s.Candidates(1, 10)
	ids = ids[:0]
	for _, b := range got {
		ids = append(ids, b.ID)
	}
	if !reflect.DeepEqual(ids, []int64{11, 12}) {
		t.Errorf("Candidates() = %v, want [11 12]", ids)
	}
}
