package fleet

import (
	"context"
	"time"
)

// Schedule is the raw window payload fetched from the backend: the vehicles
// and the bookings whose range intersects the requested window.
type Schedule struct {
	Vehicles []Vehicle
	Bookings []Booking
}

// Service is the assignment backend boundary. The remote HTTP API and the
// local SQLite store both implement it; everything above this interface is
// transport-agnostic.
//
// Assignment mutations return the updated booking on success and a
// *ConflictError when the requested change would double-book a vehicle.
type Service interface {
	// FetchSchedule returns vehicles plus bookings intersecting [from, to].
	FetchSchedule(ctx context.Context, from, to time.Time) (*Schedule, error)

	// FetchBooking retrieves the full current booking record.
	FetchBooking(ctx context.Context, id int64) (*Booking, error)

	// UpdateBooking resubmits a full booking record. The backend performs
	// the authoritative conflict check against the record's assigned vehicles.
	UpdateBooking(ctx context.Context, b *Booking) (*Booking, error)

	// AssignVehicle adds a vehicle to the booking's assigned set.
	AssignVehicle(ctx context.Context, bookingID, vehicleID int64) (*Booking, error)

	// UnassignVehicle removes a vehicle from the booking's assigned set.
	UnassignVehicle(ctx context.Context, bookingID, vehicleID int64) (*Booking, error)

	// CreateVehicle registers a new vehicle. Name is optional.
	CreateVehicle(ctx context.Context, registration, name string) (*Vehicle, error)

	// ListVehicles returns the fleet, optionally including inactive vehicles.
	ListVehicles(ctx context.Context, includeInactive bool) ([]Vehicle, error)

	// Close releases any resources held by the service.
	Close() error
}
