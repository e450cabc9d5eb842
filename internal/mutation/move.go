package mutation

import (
	"context"
	"errors"

	"github.com/mgallego/fleetboard/internal/fleet"
)

// MoveState tracks the reassign saga. The backend exposes only single-vehicle
// assign/unassign, so a move is two sequential calls with no atomicity; the
// partial-failure states are first-class results, not hidden errors.
type MoveState int

const (
	// MoveStarted: nothing happened yet, or the unassign itself failed.
	MoveStarted MoveState = iota
	// MoveUnassigned: the booking left the source vehicle.
	MoveUnassigned
	// MoveAssigned: the booking landed on the target vehicle. Terminal success.
	MoveAssigned
	// MoveCompensated: the assign failed and the booking was restored to the
	// source vehicle.
	MoveCompensated
	// MoveCompensationFailed: the assign failed and so did the restore; the
	// booking is assigned to neither vehicle.
	MoveCompensationFailed
)

func (s MoveState) String() string {
	switch s {
	case MoveStarted:
		return "started"
	case MoveUnassigned:
		return "unassigned"
	case MoveAssigned:
		return "assigned"
	case MoveCompensated:
		return "compensated"
	case MoveCompensationFailed:
		return "compensation-failed"
	default:
		return "unknown"
	}
}

// MoveResult reports the outcome of a reassign, including the compensation
// outcome after a partial failure.
type MoveResult struct {
	BookingID     int64
	FromVehicleID int64
	ToVehicleID   int64
	State         MoveState

	// Booking is the updated record after a successful move.
	Booking *fleet.Booking

	// AssignErr is the error from the failing step, when there was one.
	AssignErr error
	// CompensateErr is set when the restore attempt itself failed.
	CompensateErr error
}

// Succeeded reports whether the booking ended up on the target vehicle.
func (r *MoveResult) Succeeded() bool {
	return r.State == MoveAssigned
}

// Conflict extracts a conflict payload from the failing step, if the failure
// was a scheduling conflict.
func (r *MoveResult) Conflict() (*fleet.ConflictError, bool) {
	var ce *fleet.ConflictError
	if errors.As(r.AssignErr, &ce) {
		return ce, true
	}
	return nil, false
}

// Reassign moves a booking from one vehicle to another: unassign from the
// source, then assign to the target. If the assign fails, a single
// best-effort compensating assign restores the source; the compensation is
// not retried and its own failure is reported, not papered over. The caller
// reloads the schedule afterwards regardless of outcome.
func (c *Coordinator) Reassign(ctx context.Context, bookingID, fromVehicleID, toVehicleID int64) (*MoveResult, error) {
	if fromVehicleID == toVehicleID {
		return nil, ErrNoOp
	}
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	res := &MoveResult{
		BookingID:     bookingID,
		FromVehicleID: fromVehicleID,
		ToVehicleID:   toVehicleID,
		State:         MoveStarted,
	}
	log := c.log.With().
		Int64("booking_id", bookingID).
		Int64("from_vehicle", fromVehicleID).
		Int64("to_vehicle", toVehicleID).
		Logger()

	if _, err := c.svc.UnassignVehicle(ctx, bookingID, fromVehicleID); err != nil {
		log.Warn().Err(err).Msg("move aborted: unassign failed")
		return res, err
	}
	res.State = MoveUnassigned

	b, err := c.svc.AssignVehicle(ctx, bookingID, toVehicleID)
	if err == nil {
		res.State = MoveAssigned
		res.Booking = b
		log.Info().Msg("move completed")
		return res, nil
	}
	res.AssignErr = err
	log.Warn().Err(err).Msg("assign failed, attempting to restore source vehicle")

	if _, cerr := c.svc.AssignVehicle(ctx, bookingID, fromVehicleID); cerr != nil {
		res.State = MoveCompensationFailed
		res.CompensateErr = cerr
		log.Error().Err(cerr).Msg("restore failed: booking is on neither vehicle")
	} else {
		res.State = MoveCompensated
		log.Info().Msg("restored booking to source vehicle")
	}
	return res, err
}
