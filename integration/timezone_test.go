package integration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mgallego/fleetboard/internal/dateutil"
	"github.com/mgallego/fleetboard/internal/fleet"
	"github.com/mgallego/fleetboard/internal/schedule"
	"github.com/mgallego/fleetboard/internal/store"
)

// TestLocalTimezoneRoundTrip checks that a booking created with dates in a
// local timezone lands on the same day slots after a store round trip. All
// range math runs on day-truncated UTC times, so the wall-clock offset of
// the machine that entered the booking must not leak into the board.
func TestLocalTimezoneRoundTrip(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	s, err := store.Open(filepath.Join(t.TempDir(), "fleetboard.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	v, err := s.CreateVehicle(ctx, "1234-BCD", "")
	if err != nil {
		t.Fatalf("creating vehicle: %v", err)
	}

	// Entered late at night in Madrid; still March 10, whatever the offset.
	b := &fleet.Booking{
		Customer:         "Viajes Aurora",
		FromDate:         dateutil.TruncateToDay(time.Date(2026, time.March, 10, 23, 30, 0, 0, madrid)),
		ToDate:           dateutil.TruncateToDay(time.Date(2026, time.March, 12, 0, 15, 0, 0, madrid)),
		RequiredVehicles: 1,
	}
	if err := s.CreateBooking(ctx, b); err != nil {
		t.Fatalf("creating booking: %v", err)
	}
	if _, err := s.AssignVehicle(ctx, b.ID, v.ID); err != nil {
		t.Fatalf("assigning: %v", err)
	}

	got, err := s.FetchBooking(ctx, b.ID)
	if err != nil {
		t.Fatalf("fetching: %v", err)
	}
	if dateutil.DayKey(got.FromDate) != "2026-03-10" || dateutil.DayKey(got.ToDate) != "2026-03-12" {
		t.Errorf("round trip moved the dates: %s to %s",
			dateutil.DayKey(got.FromDate), dateutil.DayKey(got.ToDate))
	}

	sched, err := s.FetchSchedule(ctx, day(1), day(31))
	if err != nil {
		t.Fatalf("fetching schedule: %v", err)
	}
	snap := schedule.BuildSnapshot(schedule.MonthWindow(day(1)), sched.Vehicles, sched.Bookings, zerolog.Nop())

	seg, ok := snap.SegmentAt(v.ID, 9)
	if !ok {
		t.Fatal("March 10 slot should be occupied")
	}
	if seg.StartSlot != 9 || seg.EndSlot != 11 {
		t.Errorf("segment spans slots %d-%d, want 9-11", seg.StartSlot, seg.EndSlot)
	}
}
