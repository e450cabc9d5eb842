// Package fleet defines the core domain types for fleetboard.
package fleet

import (
	"errors"
	"fmt"
	"time"

	"github.com/mgallego/fleetboard/internal/dateutil"
)

// Validation errors.
var (
	ErrEmptyRegistration = errors.New("vehicle registration cannot be empty")
	ErrEmptyCustomer     = errors.New("customer name cannot be empty")
	ErrInvalidDateRange  = errors.New("booking end date must be on or after start date")
)

// Domain errors.
var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrVehicleNotFound  = errors.New("vehicle not found")
	ErrAlreadyAssigned  = errors.New("vehicle is already assigned to this booking")
	ErrNotAssigned      = errors.New("vehicle is not assigned to this booking")
	ErrBookingCancelled = errors.New("booking is cancelled")
)

// Status represents the assignment completeness of a booking.
type Status string

const (
	StatusUnassigned Status = "unassigned"
	StatusPartial    Status = "partial"
	StatusComplete   Status = "complete"
)

// Vehicle is a bus in the operator's fleet. Owned by the fleet registry;
// immutable here except for the active flag.
type Vehicle struct {
	ID           int64
	Registration string
	Name         string
	Active       bool
}

// Label returns the display label: registration plus optional name.
func (v Vehicle) Label() string {
	if v.Name == "" {
		return v.Registration
	}
	return fmt.Sprintf("%s (%s)", v.Registration, v.Name)
}

// Booking is a customer's contracted trip over an inclusive date range.
// VehicleIDs is the set of vehicles currently assigned to it; membership is
// what matters, order carries no meaning.
type Booking struct {
	ID               int64
	Customer         string
	FromDate         time.Time
	ToDate           time.Time
	RequiredVehicles int
	VehicleIDs       []int64
	PriceCents       int64
	Notes            string
	Cancelled        bool
	CreatedAt        time.Time
}

// Required returns the number of vehicles this booking needs.
// A zero or unset count is treated as 1; the backend stores zero for legacy
// records and every consumer expects at least one vehicle per trip.
func (b *Booking) Required() int {
	if b.RequiredVehicles < 1 {
		return 1
	}
	return b.RequiredVehicles
}

// AssignedCount returns the number of vehicles currently assigned.
func (b *Booking) AssignedCount() int {
	return len(b.VehicleIDs)
}

// Pending returns how many vehicles are still missing. Never negative, even
// for over-assigned records coming from stale or externally edited data.
func (b *Booking) Pending() int {
	p := b.Required() - b.AssignedCount()
	if p < 0 {
		return 0
	}
	return p
}

// Status derives the tri-state assignment completeness.
func (b *Booking) Status() Status {
	switch n := b.AssignedCount(); {
	case n == 0:
		return StatusUnassigned
	case n < b.Required():
		return StatusPartial
	default:
		return StatusComplete
	}
}

// HasVehicle reports whether the vehicle is in the booking's assigned set.
func (b *Booking) HasVehicle(vehicleID int64) bool {
	for _, id := range b.VehicleIDs {
		if id == vehicleID {
			return true
		}
	}
	return false
}

// Validate checks the booking's own fields before submission.
func (b *Booking) Validate() error {
	if b.Customer == "" {
		return ErrEmptyCustomer
	}
	if b.ToDate.Before(b.FromDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// Overlaps reports whether two inclusive date ranges intersect. This is the
// single overlap predicate used everywhere conflicts are determined.
func Overlaps(aFrom, aTo, bFrom, bTo time.Time) bool {
	aFrom = dateutil.TruncateToDay(aFrom)
	aTo = dateutil.TruncateToDay(aTo)
	bFrom = dateutil.TruncateToDay(bFrom)
	bTo = dateutil.TruncateToDay(bTo)
	return !aFrom.After(bTo) && !bFrom.After(aTo)
}

// OverlapsBooking reports whether the booking's range intersects [from, to].
func (b *Booking) OverlapsBooking(from, to time.Time) bool {
	return Overlaps(b.FromDate, b.ToDate, from, to)
}

// CoversDay reports whether day falls within the booking's range.
func (b *Booking) CoversDay(day time.Time) bool {
	return Overlaps(b.FromDate, b.ToDate, day, day)
}
