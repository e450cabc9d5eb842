// Package commands provides board command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mgallego/fleetboard/internal/dateutil"
	"github.com/mgallego/fleetboard/internal/fleet"
	"github.com/mgallego/fleetboard/internal/mutation"
)

// ScheduleLoadedMsg is sent when a month of schedule data is loaded.
type ScheduleLoadedMsg struct {
	Anchor   time.Time // first day of the loaded month
	Schedule *fleet.Schedule
}

// MutationDoneMsg is sent when a mutation committed. The board reloads the
// whole month in response; it never patches its own copy.
type MutationDoneMsg struct {
	Verb    string // "assigned", "unassigned", "moved", "shifted"
	Booking *fleet.Booking
	Move    *mutation.MoveResult // set for reassigns only
}

// ErrMsg is sent when an operation fails. Err may be a *fleet.ConflictError.
// Mutation marks failures of state-changing operations; the board reloads the
// month on those, so it renders what the backend holds rather than its own
// guess. Move carries the reassign outcome, including the compensation state.
type ErrMsg struct {
	Err      error
	Mutation bool
	Move     *mutation.MoveResult
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadMonth loads the schedule for the month containing anchor.
func LoadMonth(svc fleet.Service, anchor time.Time) tea.Cmd {
	return func() tea.Msg {
		from, to := dateutil.MonthBounds(anchor)
		sched, err := svc.FetchSchedule(context.Background(), from, to)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return ScheduleLoadedMsg{Anchor: from, Schedule: sched}
	}
}

// Assign assigns a vehicle to a booking.
func Assign(coord *mutation.Coordinator, bookingID, vehicleID int64) tea.Cmd {
	return func() tea.Msg {
		b, err := coord.Assign(context.Background(), bookingID, vehicleID)
		if err != nil {
			return ErrMsg{Err: err, Mutation: true}
		}
		return MutationDoneMsg{Verb: "assigned", Booking: b}
	}
}

// Unassign removes a vehicle from a booking.
func Unassign(coord *mutation.Coordinator, bookingID, vehicleID int64) tea.Cmd {
	return func() tea.Msg {
		b, err := coord.Unassign(context.Background(), bookingID, vehicleID)
		if err != nil {
			return ErrMsg{Err: err, Mutation: true}
		}
		return MutationDoneMsg{Verb: "unassigned", Booking: b}
	}
}

// Reassign moves a booking from one vehicle to another. On failure the
// MoveResult travels with the error so the compensation outcome is shown,
// not just the failing step.
func Reassign(coord *mutation.Coordinator, bookingID, fromVehicleID, toVehicleID int64) tea.Cmd {
	return func() tea.Msg {
		res, err := coord.Reassign(context.Background(), bookingID, fromVehicleID, toVehicleID)
		if err != nil {
			return ErrMsg{Err: err, Mutation: true, Move: res}
		}
		return MutationDoneMsg{Verb: "moved", Booking: res.Booking, Move: res}
	}
}

// ShiftBooking shifts a booking's whole date range by the given day count.
func ShiftBooking(coord *mutation.Coordinator, bookingID int64, days int) tea.Cmd {
	return func() tea.Msg {
		b, err := coord.ShiftDates(context.Background(), bookingID, days)
		if err != nil {
			return ErrMsg{Err: err, Mutation: true}
		}
		return MutationDoneMsg{Verb: "shifted", Booking: b}
	}
}

// Status creates a command that emits a temporary status message.
func Status(format string, args ...any) tea.Cmd {
	return func() tea.Msg {
		return StatusMsgCmd{Msg: fmt.Sprintf(format, args...)}
	}
}
