package dateutil

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDay(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		got, err := ParseDay("2026-03-15")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Equal(date(2026, time.March, 15)) {
			t.Errorf("expected 2026-03-15, got %v", got)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		cases := []string{"", "15/03/2026", "2026-3-15", "not-a-date"}
		for _, c := range cases {
			if _, err := ParseDay(c); !errors.Is(err, ErrInvalidDateFormat) {
				t.Errorf("ParseDay(%q): expected ErrInvalidDateFormat, got %v", c, err)
			}
		}
	})
}

func TestParseMonth(t *testing.T) {
	now := time.Date(2026, time.August, 29, 13, 45, 0, 0, time.UTC)

	t.Run("empty defaults to current month", func(t *testing.T) {
		got, err := ParseMonth("", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Equal(date(2026, time.August, 1)) {
			t.Errorf("expected 2026-08-01, got %v", got)
		}
	})

	t.Run("explicit month", func(t *testing.T) {
		got, err := ParseMonth("2026-03", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Equal(date(2026, time.March, 1)) {
			t.Errorf("expected 2026-03-01, got %v", got)
		}
	})

	t.Run("bad month", func(t *testing.T) {
		if _, err := ParseMonth("03-2026", now); !errors.Is(err, ErrInvalidMonthFormat) {
			t.Errorf("expected ErrInvalidMonthFormat, got %v", err)
		}
	})
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same day", date(2026, time.March, 10), date(2026, time.March, 10), 0},
		{"forward", date(2026, time.March, 10), date(2026, time.March, 15), 5},
		{"backward", date(2026, time.March, 15), date(2026, time.March, 10), -5},
		{"month boundary", date(2026, time.February, 27), date(2026, time.March, 2), 3},
		{"ignores time of day", time.Date(2026, time.March, 10, 23, 0, 0, 0, time.UTC), date(2026, time.March, 11), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("DaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAddDays(t *testing.T) {
	got := AddDays(date(2026, time.March, 30), 3)
	if !got.Equal(date(2026, time.April, 2)) {
		t.Errorf("expected 2026-04-02, got %v", got)
	}
	got = AddDays(date(2026, time.March, 2), -3)
	if !got.Equal(date(2026, time.February, 27)) {
		t.Errorf("expected 2026-02-27, got %v", got)
	}
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(date(2026, time.February, 14))
	if !first.Equal(date(2026, time.February, 1)) {
		t.Errorf("expected first 2026-02-01, got %v", first)
	}
	if !last.Equal(date(2026, time.February, 28)) {
		t.Errorf("expected last 2026-02-28, got %v", last)
	}

	// Leap year
	first, last = MonthBounds(date(2028, time.February, 1))
	if !last.Equal(date(2028, time.February, 29)) {
		t.Errorf("expected leap-year last 2028-02-29, got %v", last)
	}
}

func TestNewDayRange(t *testing.T) {
	t.Run("valid range", func(t *testing.T) {
		r, err := NewDayRange("2026-03-10", "2026-03-15")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Days() != 6 {
			t.Errorf("expected 6 days inclusive, got %d", r.Days())
		}
	})

	t.Run("single day", func(t *testing.T) {
		r, err := NewDayRange("2026-03-10", "2026-03-10")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Days() != 1 {
			t.Errorf("expected 1 day, got %d", r.Days())
		}
	})

	t.Run("inverted range", func(t *testing.T) {
		if _, err := NewDayRange("2026-03-15", "2026-03-10"); !errors.Is(err, ErrEndDateBeforeStart) {
			t.Errorf("expected ErrEndDateBeforeStart, got %v", err)
		}
	})
}

func TestClamp(t *testing.T) {
	from := date(2026, time.March, 1)
	to := date(2026, time.March, 31)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"before window", date(2026, time.February, 20), from},
		{"inside window", date(2026, time.March, 15), date(2026, time.March, 15)},
		{"after window", date(2026, time.April, 2), to},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.in, from, to); !got.Equal(tt.want) {
				t.Errorf("Clamp() = %v, want %v", got, tt.want)
			}
		})
	}
}
