package fleet

import (
	"fmt"
	"strings"
	"time"
)

// Conflict names one existing assignment that collides with a requested one.
type Conflict struct {
	VehicleID    int64
	VehicleLabel string
	BookingID    int64
	Customer     string
	From         time.Time
	To           time.Time
}

// ConflictError is the tagged result for a rejected assignment or date change.
// It is produced exactly once, at the service boundary (HTTP 409 decoding or
// the local store's own check), so callers branch with errors.As instead of
// sniffing payload shapes.
type ConflictError struct {
	Message   string
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	if len(e.Conflicts) == 0 {
		if e.Message != "" {
			return e.Message
		}
		return "scheduling conflict"
	}
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("%s booked for %q %s to %s",
			c.VehicleLabel, c.Customer,
			c.From.Format("2006-01-02"), c.To.Format("2006-01-02")))
	}
	return fmt.Sprintf("scheduling conflict: %s", strings.Join(parts, "; "))
}
