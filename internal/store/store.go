// Package store provides a SQLite-backed implementation of fleet.Service for
// local and offline use. It enforces the same conflict contract as the remote
// backend: assignment mutations that would double-book a vehicle fail with a
// *fleet.ConflictError naming the colliding bookings.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mgallego/fleetboard/internal/dateutil"
	"github.com/mgallego/fleetboard/internal/fleet"
)

// Store implements fleet.Service using SQLite.
type Store struct {
	db *sql.DB
}

// Open creates a store at the given path and runs migrations.
// Use ":memory:" for an ephemeral database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// FetchSchedule returns all active vehicles plus non-cancelled bookings whose
// range intersects [from, to].
func (s *Store) FetchSchedule(ctx context.Context, from, to time.Time) (*fleet.Schedule, error) {
	vehicles, err := s.ListVehicles(ctx, false)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, customer, from_date, to_date, required_vehicles, price_cents, notes, cancelled, created_at
		FROM bookings
		WHERE cancelled = 0 AND from_date <= ? AND to_date >= ?
		ORDER BY from_date, id
	`
	rows, err := s.db.QueryContext(ctx, query, dateutil.DayKey(to), dateutil.DayKey(from))
	if err != nil {
		return nil, fmt.Errorf("querying bookings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var bookings []fleet.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bookings: %w", err)
	}

	if err := s.attachVehicleIDs(ctx, bookings); err != nil {
		return nil, err
	}

	return &fleet.Schedule{Vehicles: vehicles, Bookings: bookings}, nil
}

// FetchBooking retrieves a booking with its assigned vehicles.
func (s *Store) FetchBooking(ctx context.Context, id int64) (*fleet.Booking, error) {
	query := `
		SELECT id, customer, from_date, to_date, required_vehicles, price_cents, notes, cancelled, created_at
		FROM bookings
		WHERE id = ?
	`
	row := s.db.QueryRowContext(ctx, query, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fleet.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}

	bs := []fleet.Booking{*b}
	if err := s.attachVehicleIDs(ctx, bs); err != nil {
		return nil, err
	}
	return &bs[0], nil
}

// UpdateBooking rewrites a booking's own fields. The assigned-vehicle set is
// deliberately left untouched: assignments change only through AssignVehicle
// and UnassignVehicle, never as a side effect of a record edit. The new date
// range is checked against every other booking on the booking's vehicles.
func (s *Store) UpdateBooking(ctx context.Context, b *fleet.Booking) (*fleet.Booking, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := s.FetchBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	for _, vid := range current.VehicleIDs {
		conflicts, err := vehicleConflictsTx(ctx, tx, vid, b.FromDate, b.ToDate, b.ID)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, &fleet.ConflictError{
				Message:   "new date range collides with an existing assignment",
				Conflicts: conflicts,
			}
		}
	}

	query := `
		UPDATE bookings
		SET customer = ?, from_date = ?, to_date = ?, required_vehicles = ?, price_cents = ?, notes = ?, cancelled = ?
		WHERE id = ?
	`
	res, err := tx.ExecContext(ctx, query,
		b.Customer,
		dateutil.DayKey(b.FromDate),
		dateutil.DayKey(b.ToDate),
		b.RequiredVehicles,
		b.PriceCents,
		b.Notes,
		boolToInt(b.Cancelled),
		b.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating booking: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fleet.ErrBookingNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing update: %w", err)
	}
	return s.FetchBooking(ctx, b.ID)
}

// AssignVehicle adds a vehicle to a booking after checking every other
// booking on that vehicle for an overlap.
func (s *Store) AssignVehicle(ctx context.Context, bookingID, vehicleID int64) (*fleet.Booking, error) {
	b, err := s.FetchBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Cancelled {
		return nil, fleet.ErrBookingCancelled
	}
	if b.HasVehicle(vehicleID) {
		return nil, fleet.ErrAlreadyAssigned
	}
	if err := s.vehicleExists(ctx, vehicleID); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	conflicts, err := vehicleConflictsTx(ctx, tx, vehicleID, b.FromDate, b.ToDate, bookingID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &fleet.ConflictError{
			Message:   "vehicle is already booked in that period",
			Conflicts: conflicts,
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO assignments (booking_id, vehicle_id) VALUES (?, ?)`,
		bookingID, vehicleID,
	); err != nil {
		return nil, fmt.Errorf("inserting assignment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing assignment: %w", err)
	}
	return s.FetchBooking(ctx, bookingID)
}

// UnassignVehicle removes a vehicle from a booking.
func (s *Store) UnassignVehicle(ctx context.Context, bookingID, vehicleID int64) (*fleet.Booking, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM assignments WHERE booking_id = ? AND vehicle_id = ?`,
		bookingID, vehicleID,
	)
	if err != nil {
		return nil, fmt.Errorf("deleting assignment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fleet.ErrNotAssigned
	}
	return s.FetchBooking(ctx, bookingID)
}

// CreateVehicle registers a new vehicle.
func (s *Store) CreateVehicle(ctx context.Context, registration, name string) (*fleet.Vehicle, error) {
	if registration == "" {
		return nil, fleet.ErrEmptyRegistration
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO vehicles (registration, name, active) VALUES (?, ?, 1)`,
		registration, name,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting vehicle: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting last insert id: %w", err)
	}
	return &fleet.Vehicle{ID: id, Registration: registration, Name: name, Active: true}, nil
}

// ListVehicles returns the fleet ordered by registration.
func (s *Store) ListVehicles(ctx context.Context, includeInactive bool) ([]fleet.Vehicle, error) {
	query := `SELECT id, registration, name, active FROM vehicles`
	if !includeInactive {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY registration`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying vehicles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []fleet.Vehicle
	for rows.Next() {
		var v fleet.Vehicle
		var active int
		if err := rows.Scan(&v.ID, &v.Registration, &v.Name, &active); err != nil {
			return nil, fmt.Errorf("scanning vehicle: %w", err)
		}
		v.Active = active != 0
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vehicles: %w", err)
	}
	return out, nil
}

// CreateBooking inserts a booking record. Booking data entry is owned by the
// back office; this exists for local mode and test seeding only.
func (s *Store) CreateBooking(ctx context.Context, b *fleet.Booking) error {
	if err := b.Validate(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO bookings (customer, from_date, to_date, required_vehicles, price_cents, notes, cancelled, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Customer,
		dateutil.DayKey(b.FromDate),
		dateutil.DayKey(b.ToDate),
		b.RequiredVehicles,
		b.PriceCents,
		b.Notes,
		boolToInt(b.Cancelled),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting booking: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	b.ID = id
	return nil
}

// vehicleConflictsTx lists bookings on the vehicle whose range overlaps
// [from, to], excluding excludeBookingID. Runs inside the mutation's
// transaction so the check and the write see the same state.
func vehicleConflictsTx(ctx context.Context, tx *sql.Tx, vehicleID int64, from, to time.Time, excludeBookingID int64) ([]fleet.Conflict, error) {
	query := `
		SELECT b.id, b.customer, b.from_date, b.to_date, v.registration, v.name
		FROM assignments a
		JOIN bookings b ON b.id = a.booking_id
		JOIN vehicles v ON v.id = a.vehicle_id
		WHERE a.vehicle_id = ?
		  AND b.id != ?
		  AND b.cancelled = 0
		  AND b.from_date <= ?
		  AND b.to_date >= ?
		ORDER BY b.from_date
	`
	rows, err := tx.QueryContext(ctx, query, vehicleID, excludeBookingID, dateutil.DayKey(to), dateutil.DayKey(from))
	if err != nil {
		return nil, fmt.Errorf("checking conflicts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []fleet.Conflict
	for rows.Next() {
		var (
			c          fleet.Conflict
			fromS, toS string
			reg, name  string
		)
		if err := rows.Scan(&c.BookingID, &c.Customer, &fromS, &toS, &reg, &name); err != nil {
			return nil, fmt.Errorf("scanning conflict: %w", err)
		}
		c.VehicleID = vehicleID
		c.VehicleLabel = fleet.Vehicle{Registration: reg, Name: name}.Label()
		if c.From, err = dateutil.ParseDay(fromS); err != nil {
			return nil, fmt.Errorf("parsing conflict dates: %w", err)
		}
		if c.To, err = dateutil.ParseDay(toS); err != nil {
			return nil, fmt.Errorf("parsing conflict dates: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) vehicleExists(ctx context.Context, id int64) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM vehicles WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fleet.ErrVehicleNotFound
	}
	return err
}

// attachVehicleIDs loads each booking's assigned-vehicle set in one query.
func (s *Store) attachVehicleIDs(ctx context.Context, bookings []fleet.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	byID := make(map[int64]*fleet.Booking, len(bookings))
	for i := range bookings {
		byID[bookings[i].ID] = &bookings[i]
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT booking_id, vehicle_id FROM assignments ORDER BY booking_id, vehicle_id`)
	if err != nil {
		return fmt.Errorf("querying assignments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var bookingID, vehicleID int64
		if err := rows.Scan(&bookingID, &vehicleID); err != nil {
			return fmt.Errorf("scanning assignment: %w", err)
		}
		if b, ok := byID[bookingID]; ok {
			b.VehicleIDs = append(b.VehicleIDs, vehicleID)
		}
	}
	return rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(row scanner) (*fleet.Booking, error) {
	var (
		b          fleet.Booking
		fromS, toS string
		cancelled  int
		createdAtS sql.NullString
	)
	if err := row.Scan(&b.ID, &b.Customer, &fromS, &toS, &b.RequiredVehicles, &b.PriceCents, &b.Notes, &cancelled, &createdAtS); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning booking: %w", err)
	}

	var err error
	if b.FromDate, err = dateutil.ParseDay(fromS); err != nil {
		return nil, fmt.Errorf("parsing booking %d from_date: %w", b.ID, err)
	}
	if b.ToDate, err = dateutil.ParseDay(toS); err != nil {
		return nil, fmt.Errorf("parsing booking %d to_date: %w", b.ID, err)
	}
	b.Cancelled = cancelled != 0
	if createdAtS.Valid {
		b.CreatedAt, _ = time.Parse(time.RFC3339, createdAtS.String)
	}
	return &b, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
