// Package mutation executes scheduling mutations against the assignment
// backend: single assigns/unassigns, date shifts, and the two-step
// vehicle-to-vehicle move with best-effort compensation.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/mgallego/fleetboard/internal/dateutil"
	"github.com/mgallego/fleetboard/internal/fleet"
)

// Coordinator errors.
var (
	ErrBusy = errors.New("another mutation is already in flight")
	ErrNoOp = errors.New("no change requested")
)

// Coordinator runs one mutation at a time against the backend. Calls within a
// single operation are strictly sequential, and an operation always runs to
// completion, compensation included; there is no mid-flight cancellation.
type Coordinator struct {
	svc  fleet.Service
	log  zerolog.Logger
	busy atomic.Bool
}

// New creates a coordinator over the given backend.
func New(svc fleet.Service, log zerolog.Logger) *Coordinator {
	return &Coordinator{svc: svc, log: log}
}

// Busy reports whether a mutation is currently in flight.
func (c *Coordinator) Busy() bool {
	return c.busy.Load()
}

func (c *Coordinator) begin() error {
	if !c.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

func (c *Coordinator) end() {
	c.busy.Store(false)
}

// Assign adds a vehicle to a booking. The backend performs the authoritative
// conflict check and may return a *fleet.ConflictError.
func (c *Coordinator) Assign(ctx context.Context, bookingID, vehicleID int64) (*fleet.Booking, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	b, err := c.svc.AssignVehicle(ctx, bookingID, vehicleID)
	c.log.Info().
		Int64("booking_id", bookingID).
		Int64("vehicle_id", vehicleID).
		Err(err).
		Msg("assign vehicle")
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Unassign removes a vehicle from a booking.
func (c *Coordinator) Unassign(ctx context.Context, bookingID, vehicleID int64) (*fleet.Booking, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	b, err := c.svc.UnassignVehicle(ctx, bookingID, vehicleID)
	c.log.Info().
		Int64("booking_id", bookingID).
		Int64("vehicle_id", vehicleID).
		Err(err).
		Msg("unassign vehicle")
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ShiftDates moves both endpoints of a booking by days calendar days. It
// fetches the full current record and resubmits it unchanged except for the
// two dates, so a partial-field submission can never drop other fields. The
// backend performs the authoritative conflict check against the new range.
func (c *Coordinator) ShiftDates(ctx context.Context, bookingID int64, days int) (*fleet.Booking, error) {
	if days == 0 {
		return nil, ErrNoOp
	}
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	current, err := c.svc.FetchBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("fetching booking %d: %w", bookingID, err)
	}

	shifted := *current
	shifted.FromDate = dateutil.AddDays(current.FromDate, days)
	shifted.ToDate = dateutil.AddDays(current.ToDate, days)

	updated, err := c.svc.UpdateBooking(ctx, &shifted)
	c.log.Info().
		Int64("booking_id", bookingID).
		Int("days", days).
		Err(err).
		Msg("shift booking dates")
	if err != nil {
		return nil, err
	}
	return updated, nil
}
