package ui

import (
	"fmt"
	"strings"

	"github.com/mgallego/fleetboard/internal/dateutil"
	"github.com/mgallego/fleetboard/internal/fleet"
)

// FleetStats holds aggregated statistics for a set of bookings.
type FleetStats struct {
	Complete     int
	Partial      int
	Unassigned   int
	BookedDays   int // vehicle-days covered by assignments
	PendingSeats int // vehicles still missing across all bookings
}

// Total returns the number of bookings counted.
func (s FleetStats) Total() int {
	return s.Complete + s.Partial + s.Unassigned
}

// CoveredPercent returns the percentage of bookings fully covered.
func (s FleetStats) CoveredPercent() int {
	if s.Total() == 0 {
		return 0
	}
	return (s.Complete * 100) / s.Total()
}

// PrintOpts configures booking printing behavior.
type PrintOpts struct {
	Verbose      bool // Show notes and price
	MaxNameWidth int  // Maximum customer name width (0 = auto)
}

// CalcMaxNameWidth calculates the customer column width based on options.
func (o PrintOpts) CalcMaxNameWidth(defaultWidth int) int {
	if o.MaxNameWidth > 0 {
		return o.MaxNameWidth
	}
	if !o.Verbose {
		return defaultWidth
	}
	// Base: "  ● #123  2026-03-10 → 2026-03-15  [2/3]  " = ~44 chars
	available := termWidth() - 44
	if available > defaultWidth {
		return available
	}
	return defaultWidth
}

// statusSymbol returns the one-glyph status marker for a booking.
func statusSymbol(s fleet.Status) string {
	switch s {
	case fleet.StatusComplete:
		return formatComplete("●")
	case fleet.StatusPartial:
		return formatPartial("◐")
	case fleet.StatusUnassigned:
		return formatUnassigned("○")
	default:
		return "?"
	}
}

// PrintBookingRow prints a single booking row with consistent formatting.
func PrintBookingRow(b *fleet.Booking, opts PrintOpts, maxNameWidth int) {
	name := b.Customer
	if len(name) > maxNameWidth {
		name = name[:maxNameWidth-3] + "..."
	}

	coverage := fmt.Sprintf("[%d/%d]", b.AssignedCount(), b.Required())
	dates := fmt.Sprintf("%s → %s",
		b.FromDate.Format(dateutil.DayFormat),
		b.ToDate.Format(dateutil.DayFormat))

	fmt.Printf("  %s #%-4d %s  %s  %-*s\n",
		statusSymbol(b.Status()), b.ID, dates, coverage, maxNameWidth, name)

	if opts.Verbose {
		if b.PriceCents > 0 {
			fmt.Printf("         %s\n", formatMuted(fmt.Sprintf("%.2f EUR", float64(b.PriceCents)/100)))
		}
		if b.Notes != "" {
			fmt.Printf("         %s\n", formatMuted(b.Notes))
		}
	}
}

// AccumulateFleetStats updates stats based on a booking.
func AccumulateFleetStats(stats *FleetStats, b *fleet.Booking) {
	days := dateutil.DaysBetween(b.FromDate, b.ToDate) + 1
	stats.BookedDays += days * b.AssignedCount()
	stats.PendingSeats += b.Pending()

	switch b.Status() {
	case fleet.StatusComplete:
		stats.Complete++
	case fleet.StatusPartial:
		stats.Partial++
	default:
		stats.Unassigned++
	}
}

// PrintFleetStats prints the stats summary line.
func PrintFleetStats(stats FleetStats) {
	complete := formatComplete(fmt.Sprintf("Complete: %d", stats.Complete))
	partial := formatPartial(fmt.Sprintf("Partial: %d", stats.Partial))
	unassigned := formatUnassigned(fmt.Sprintf("Unassigned: %d", stats.Unassigned))
	fmt.Printf("%s | %s | %s | Total: %d bookings\n", complete, partial, unassigned, stats.Total())

	if stats.PendingSeats > 0 {
		fmt.Printf("%s\n", formatMuted(fmt.Sprintf("Vehicles still needed: %d", stats.PendingSeats)))
	}
}

// CoverageBar renders a fixed-width bar showing the share of fully
// covered bookings.
func CoverageBar(complete, total, width int) string {
	if total == 0 || width <= 0 {
		return ""
	}
	filled := (complete * width) / total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %d%%", bar, (complete*100)/total)
}
