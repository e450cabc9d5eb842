package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mgallego/fleetboard/internal/fleet"
)

var nopLog = zerolog.Nop()

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, "test-token", 5*time.Second, nopLog)
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	return c
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New("", "", 0, nopLog); err == nil {
		t.Fatal("expected an error for empty base URL")
	}
}

func TestFetchSchedule(t *testing.T) {
	var gotPath, gotAuth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{
			"vehicles": [
				{"id": 1, "registration": "1234-BCD", "active": true},
				{"id": 2, "registration": "5678-FGH", "name": "Blue Volvo", "active": true}
			],
			"bookings": [
				{"id": 10, "customerName": "Viajes Aurora", "fromDate": "2026-03-10", "toDate": "2026-03-15",
				 "requiredVehicleCount": 1, "assignedVehicleIds": [1]},
				{"id": 11, "customerName": "Broken", "fromDate": "not-a-date", "toDate": "2026-03-20"}
			]
		}`))
	}))

	sched, err := c.FetchSchedule(context.Background(), day(2026, time.March, 1), day(2026, time.March, 31))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/schedule?from=2026-03-01&to=2026-03-31" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if len(sched.Vehicles) != 2 {
		t.Errorf("expected 2 vehicles, got %d", len(sched.Vehicles))
	}
	// The undecodable booking is skipped, not fatal.
	if len(sched.Bookings) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(sched.Bookings))
	}
	b := sched.Bookings[0]
	if b.ID != 10 || b.Customer != "Viajes Aurora" || !b.FromDate.Equal(day(2026, time.March, 10)) {
		t.Errorf("unexpected booking: %+v", b)
	}
}

func TestAssignVehicleConflict(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/bookings/20/vehicles/1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{
			"message": "vehicle is already booked in that period",
			"conflicts": [{
				"vehicleId": 1, "vehicleLabel": "1234-BCD",
				"conflictingBookingId": 10, "conflictingCustomerName": "Viajes Aurora",
				"conflictingFrom": "2026-03-10", "conflictingTo": "2026-03-15"
			}]
		}`))
	}))

	_, err := c.AssignVehicle(context.Background(), 20, 1)
	var ce *fleet.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *fleet.ConflictError", err)
	}
	if len(ce.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(ce.Conflicts))
	}
	got := ce.Conflicts[0]
	if got.BookingID != 10 || got.Customer != "Viajes Aurora" || got.VehicleLabel != "1234-BCD" {
		t.Errorf("conflict does not name the existing booking: %+v", got)
	}
	if !got.From.Equal(day(2026, time.March, 10)) || !got.To.Equal(day(2026, time.March, 15)) {
		t.Errorf("conflict range = %v..%v", got.From, got.To)
	}
}

func TestConflictWithMalformedBodyStillTagged(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`not json`))
	}))

	_, err := c.AssignVehicle(context.Background(), 20, 1)
	var ce *fleet.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *fleet.ConflictError even without details", err)
	}
}

func TestUnassignVehicle(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/bookings/10/vehicles/1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id": 10, "customerName": "Viajes Aurora", "fromDate": "2026-03-10",
			"toDate": "2026-03-15", "requiredVehicleCount": 1, "assignedVehicleIds": []}`))
	}))

	b, err := c.UnassignVehicle(context.Background(), 10, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.AssignedCount() != 0 {
		t.Errorf("expected no assigned vehicles, got %d", b.AssignedCount())
	}
}

func TestUpdateBookingRoundTrip(t *testing.T) {
	var submitted bookingPayload
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/bookings/10" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&submitted); err != nil {
			t.Errorf("decoding submitted booking: %v", err)
		}
		_ = json.NewEncoder(w).Encode(submitted)
	}))

	in := &fleet.Booking{
		ID:               10,
		Customer:         "Viajes Aurora",
		FromDate:         day(2026, time.March, 13),
		ToDate:           day(2026, time.March, 18),
		RequiredVehicles: 2,
		VehicleIDs:       []int64{1, 2},
		PriceCents:       125000,
		Notes:            "pickup at terminal 4",
	}
	out, err := c.UpdateBooking(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if submitted.FromDate != "2026-03-13" || submitted.ToDate != "2026-03-18" {
		t.Errorf("submitted dates %q..%q", submitted.FromDate, submitted.ToDate)
	}
	if submitted.Notes != in.Notes || submitted.PriceCents != in.PriceCents || submitted.RequiredVehicleCount != 2 {
		t.Errorf("full record not preserved on submission: %+v", submitted)
	}
	if out.Customer != in.Customer || !out.FromDate.Equal(in.FromDate) {
		t.Errorf("unexpected response booking: %+v", out)
	}
}

func TestServerErrorMessageSurfaces(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message": "database unavailable"}`))
	}))

	_, err := c.FetchBooking(context.Background(), 10)
	if err == nil {
		t.Fatal("expected an error")
	}
	var ce *fleet.ConflictError
	if errors.As(err, &ce) {
		t.Fatal("a 500 must not decode as a conflict")
	}
	if got := err.Error(); !strings.Contains(got, "database unavailable") {
		t.Errorf("error %q does not carry the server message", got)
	}
}

func TestVehicles(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/vehicles" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			_ = json.NewEncoder(w).Encode(vehiclePayload{
				ID: 7, Registration: body["registration"], Name: body["name"], Active: true,
			})
		}))

		v, err := c.CreateVehicle(context.Background(), "9012-JKL", "White Scania")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.ID != 7 || v.Registration != "9012-JKL" || v.Name != "White Scania" {
			t.Errorf("unexpected vehicle: %+v", v)
		}
	})

	t.Run("create requires registration", func(t *testing.T) {
		c, _ := New("http://localhost:1", "", 0, nopLog)
		if _, err := c.CreateVehicle(context.Background(), "  ", ""); !errors.Is(err, fleet.ErrEmptyRegistration) {
			t.Errorf("err = %v, want ErrEmptyRegistration", err)
		}
	})

	t.Run("list including inactive", func(t *testing.T) {
		var gotQuery string
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			_, _ = w.Write([]byte(`[{"id": 1, "registration": "1234-BCD", "active": false}]`))
		}))

		vs, err := c.ListVehicles(context.Background(), true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotQuery != "includeInactive=true" {
			t.Errorf("unexpected query %q", gotQuery)
		}
		if len(vs) != 1 || vs[0].Active {
			t.Errorf("unexpected vehicles: %+v", vs)
		}
	})
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
