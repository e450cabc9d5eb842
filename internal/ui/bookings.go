package ui

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgallego/fleetboard/internal/dateutil"
	"github.com/mgallego/fleetboard/internal/fleet"
)

func (a *App) bookingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "Inspect tour bookings",
	}
	cmd.AddCommand(a.bookingsListCmd())
	return cmd
}

func (a *App) bookingsListCmd() *cobra.Command {
	var (
		month   string
		filter  string
		verbose bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookings for a month",
		Long: `List the bookings of a month with their assignment coverage.

The coverage column shows assigned versus required vehicles, so [1/3]
means two buses are still missing. Filters:

  pending   only unassigned and partially covered bookings
  complete  only fully covered bookings
  all       everything (default)`,
		Example: `  fleetboard bookings list
  fleetboard bookings list --month 2026-03 --filter pending`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureService(); err != nil {
				return err
			}

			anchor := time.Now()
			if month != "" {
				var err error
				anchor, err = dateutil.ParseMonth(month, time.Now())
				if err != nil {
					return err
				}
			}
			from, to := dateutil.MonthBounds(anchor)

			sched, err := a.svc.FetchSchedule(context.Background(), from, to)
			if err != nil {
				return fmt.Errorf("fetching schedule: %w", err)
			}

			bookings := filterBookings(sched.Bookings, filter)
			if len(bookings) == 0 {
				fmt.Printf("No bookings in %s.\n", anchor.Format("January 2006"))
				return nil
			}
			sort.Slice(bookings, func(i, j int) bool {
				if !bookings[i].FromDate.Equal(bookings[j].FromDate) {
					return bookings[i].FromDate.Before(bookings[j].FromDate)
				}
				return bookings[i].ID < bookings[j].ID
			})

			fmt.Printf("%s\n\n", formatHeader(fmt.Sprintf("=== %s ===", anchor.Format("January 2006"))))

			opts := PrintOpts{Verbose: verbose}
			maxNameWidth := opts.CalcMaxNameWidth(30)

			var stats FleetStats
			for i := range bookings {
				PrintBookingRow(&bookings[i], opts, maxNameWidth)
				AccumulateFleetStats(&stats, &bookings[i])
			}

			fmt.Println()
			PrintFleetStats(stats)
			if stats.Total() > 0 {
				fmt.Printf("Coverage: %s\n", CoverageBar(stats.Complete, stats.Total(), 20))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month to list (YYYY-MM, default: current)")
	cmd.Flags().StringVar(&filter, "filter", "all", "Filter: pending, complete, or all")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show notes and price")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func filterBookings(bookings []fleet.Booking, filter string) []fleet.Booking {
	var keep func(fleet.Status) bool
	switch filter {
	case "pending":
		keep = func(s fleet.Status) bool { return s != fleet.StatusComplete }
	case "complete":
		keep = func(s fleet.Status) bool { return s == fleet.StatusComplete }
	default:
		keep = func(fleet.Status) bool { return true }
	}

	out := make([]fleet.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Cancelled {
			continue
		}
		if keep(b.Status()) {
			out = append(out, b)
		}
	}
	return out
}
