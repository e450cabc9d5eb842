package api

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mgallego/fleetboard/internal/dateutil"
	"github.com/mgallego/fleetboard/internal/fleet"
)

// Wire representations. Dates travel as YYYY-MM-DD strings.

type vehiclePayload struct {
	ID           int64  `json:"id"`
	Registration string `json:"registration"`
	Name         string `json:"name,omitempty"`
	Active       bool   `json:"active"`
}

func (p vehiclePayload) toVehicle() fleet.Vehicle {
	return fleet.Vehicle{
		ID:           p.ID,
		Registration: p.Registration,
		Name:         p.Name,
		Active:       p.Active,
	}
}

type bookingPayload struct {
	ID                   int64   `json:"id"`
	CustomerName         string  `json:"customerName"`
	FromDate             string  `json:"fromDate"`
	ToDate               string  `json:"toDate"`
	RequiredVehicleCount int     `json:"requiredVehicleCount"`
	AssignedVehicleIDs   []int64 `json:"assignedVehicleIds"`
	PriceCents           int64   `json:"priceCents"`
	Notes                string  `json:"notes,omitempty"`
	Cancelled            bool    `json:"cancelled"`
	CreatedAt            string  `json:"createdAt,omitempty"`
}

func (p bookingPayload) toBooking() (fleet.Booking, error) {
	from, err := dateutil.ParseDay(p.FromDate)
	if err != nil {
		return fleet.Booking{}, fmt.Errorf("fromDate %q: %w", p.FromDate, err)
	}
	to, err := dateutil.ParseDay(p.ToDate)
	if err != nil {
		return fleet.Booking{}, fmt.Errorf("toDate %q: %w", p.ToDate, err)
	}
	var createdAt time.Time
	if p.CreatedAt != "" {
		createdAt, _ = time.Parse(time.RFC3339, p.CreatedAt)
	}
	return fleet.Booking{
		ID:               p.ID,
		Customer:         p.CustomerName,
		FromDate:         from,
		ToDate:           to,
		RequiredVehicles: p.RequiredVehicleCount,
		VehicleIDs:       p.AssignedVehicleIDs,
		PriceCents:       p.PriceCents,
		Notes:            p.Notes,
		Cancelled:        p.Cancelled,
		CreatedAt:        createdAt,
	}, nil
}

func fromBooking(b *fleet.Booking) bookingPayload {
	p := bookingPayload{
		ID:                   b.ID,
		CustomerName:         b.Customer,
		FromDate:             dateutil.DayKey(b.FromDate),
		ToDate:               dateutil.DayKey(b.ToDate),
		RequiredVehicleCount: b.RequiredVehicles,
		AssignedVehicleIDs:   b.VehicleIDs,
		PriceCents:           b.PriceCents,
		Notes:                b.Notes,
		Cancelled:            b.Cancelled,
	}
	if !b.CreatedAt.IsZero() {
		p.CreatedAt = b.CreatedAt.Format(time.RFC3339)
	}
	return p
}

type schedulePayload struct {
	Vehicles []vehiclePayload `json:"vehicles"`
	Bookings []bookingPayload `json:"bookings"`
}

type conflictPayload struct {
	Message   string `json:"message"`
	Conflicts []struct {
		VehicleID               int64  `json:"vehicleId"`
		VehicleLabel            string `json:"vehicleLabel"`
		ConflictingBookingID    int64  `json:"conflictingBookingId"`
		ConflictingCustomerName string `json:"conflictingCustomerName"`
		ConflictingFrom         string `json:"conflictingFrom"`
		ConflictingTo           string `json:"conflictingTo"`
	} `json:"conflicts"`
}

// decodeConflict turns a 409 body into the tagged conflict result. A body
// that does not parse still yields a ConflictError; the status code is the
// contract, the details are best-effort.
func decodeConflict(r io.Reader) error {
	var payload conflictPayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return &fleet.ConflictError{Message: "scheduling conflict"}
	}

	ce := &fleet.ConflictError{Message: payload.Message}
	for _, c := range payload.Conflicts {
		from, errFrom := dateutil.ParseDay(c.ConflictingFrom)
		to, errTo := dateutil.ParseDay(c.ConflictingTo)
		if errFrom != nil || errTo != nil {
			continue
		}
		ce.Conflicts = append(ce.Conflicts, fleet.Conflict{
			VehicleID:    c.VehicleID,
			VehicleLabel: c.VehicleLabel,
			BookingID:    c.ConflictingBookingID,
			Customer:     c.ConflictingCustomerName,
			From:         from,
			To:           to,
		})
	}
	return ce
}
