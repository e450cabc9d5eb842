package store

import "fmt"

// migrate runs database migrations.
func (s *Store) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS vehicles (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			registration TEXT NOT NULL UNIQUE,
			name         TEXT NOT NULL DEFAULT '',
			active       INTEGER NOT NULL DEFAULT 1
		);

		-- Dates are day keys (YYYY-MM-DD) declared TEXT, not DATE: range
		-- comparisons stay lexicographic and the driver hands back the
		-- stored string instead of a converted time.Time.
		CREATE TABLE IF NOT EXISTS bookings (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			customer          TEXT NOT NULL,
			from_date         TEXT NOT NULL,
			to_date           TEXT NOT NULL,
			required_vehicles INTEGER NOT NULL DEFAULT 1,
			price_cents       INTEGER NOT NULL DEFAULT 0,
			notes             TEXT NOT NULL DEFAULT '',
			cancelled         INTEGER NOT NULL DEFAULT 0,
			created_at        TEXT DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS assignments (
			booking_id INTEGER NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
			vehicle_id INTEGER NOT NULL REFERENCES vehicles(id),
			PRIMARY KEY (booking_id, vehicle_id)
		);

		CREATE INDEX IF NOT EXISTS idx_bookings_dates ON bookings(from_date, to_date);
		CREATE INDEX IF NOT EXISTS idx_assignments_vehicle ON assignments(vehicle_id);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	return nil
}
