package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgallego/fleetboard/internal/config"
	"github.com/mgallego/fleetboard/internal/dateutil"
	"github.com/mgallego/fleetboard/internal/fleet"
	"github.com/mgallego/fleetboard/internal/store"
)

func (a *App) demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Seed the local database with sample data",
		Long: `Fill the local database with a small sample fleet and a month of
bookings, so the board has something to show on a fresh install.

Only works in local storage mode.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if a.config.Storage.Mode != config.ModeLocal {
				return fmt.Errorf("demo data requires local storage mode")
			}

			st, err := store.Open(a.config.Storage.DBPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer func() { _ = st.Close() }()

			n, err := seedDemo(context.Background(), st)
			if err != nil {
				return err
			}
			fmt.Printf("Seeded %d bookings. Run 'fleetboard' to open the board.\n", n)
			return nil
		},
	}
}

func seedDemo(ctx context.Context, st *store.Store) (int, error) {
	fleet1, err := st.CreateVehicle(ctx, "1234-BCD", "White Scania")
	if err != nil {
		return 0, fmt.Errorf("creating vehicle: %w", err)
	}
	fleet2, err := st.CreateVehicle(ctx, "5678-FGH", "Blue Volvo")
	if err != nil {
		return 0, fmt.Errorf("creating vehicle: %w", err)
	}
	if _, err := st.CreateVehicle(ctx, "9012-JKL", "Minibus"); err != nil {
		return 0, fmt.Errorf("creating vehicle: %w", err)
	}

	first, _ := dateutil.MonthBounds(time.Now())
	day := func(n int) time.Time { return dateutil.AddDays(first, n-1) }

	bookings := []struct {
		customer string
		from, to time.Time
		required int
		price    int64
		vehicles []int64
	}{
		{"Viajes Aurora", day(3), day(7), 1, 185000, []int64{fleet1.ID}},
		{"Rutas del Norte", day(5), day(6), 2, 92000, []int64{fleet2.ID}},
		{"Colegio San Blas", day(10), day(10), 1, 40000, nil},
		{"Coral Ciudad Lineal", day(12), day(16), 1, 150000, nil},
		{"Peregrinos de Mayo", day(18), day(24), 3, 310000, []int64{fleet1.ID, fleet2.ID}},
		{"Club Senderista", day(26), day(27), 1, 58000, nil},
	}

	for _, d := range bookings {
		b := &fleet.Booking{
			Customer:         d.customer,
			FromDate:         d.from,
			ToDate:           d.to,
			RequiredVehicles: d.required,
			PriceCents:       d.price,
			CreatedAt:        time.Now(),
		}
		if err := st.CreateBooking(ctx, b); err != nil {
			return 0, fmt.Errorf("creating booking for %s: %w", d.customer, err)
		}
		for _, vid := range d.vehicles {
			if _, err := st.AssignVehicle(ctx, b.ID, vid); err != nil {
				return 0, fmt.Errorf("assigning vehicle to %s: %w", d.customer, err)
			}
		}
	}

	return len(bookings), nil
}
