package period

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestPrevious(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want Period
	}{
		{"mid year", date(2025, time.July, 9), Period{Week: 27, Year: 2025}},
		{"monday", date(2025, time.July, 7), Period{Week: 27, Year: 2025}},
		{"first week of year", date(2025, time.January, 2), Period{Week: 52, Year: 2024}},
		{"53-week year", date(2021, time.January, 5), Period{Week: 53, Year: 2020}},
		{"ISO year differs from calendar year", date(2025, time.January, 6), Period{Week: 1, Year: 2025}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Previous(tt.now); got != tt.want {
				t.Errorf("Previous() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	if _, err := New(53, 2020); err != nil {
		t.Errorf("New(53, 2020) error = %v", err)
	}
	for _, tc := range []struct{ week, year int }{{53, 2025}, {0, 2025}, {-1, 2025}, {10, 0}} {
		if _, err := New(tc.week, tc.year); !errors.Is(err, ErrInvalidWeek) {
			t.Errorf("New(%d, %d) error = %v, want ErrInvalidWeek", tc.week, tc.year, err)
		}
	}
}

func TestResolve(t *testing.T) {
	now := date(2025, time.July, 9)

	got, err := Resolve(0, 0, now)
	if err != nil || got != (Period{Week: 27, Year: 2025}) {
		t.Errorf("Resolve(0, 0) = %v, %v", got, err)
	}
	got, err = Resolve(12, 0, now)
	if err != nil || got != (Period{Week: 12, Year: 2025}) {
		t.Errorf("Resolve(12, 0) = %v, %v", got, err)
	}
	got, err = Resolve(12, 2024, now)
	if err != nil || got != (Period{Week: 12, Year: 2024}) {
		t.Errorf("Resolve(12, 2024) = %v, %v", got, err)
	}
	if _, err := Resolve(0, 2024, now); !errors.Is(err, ErrInvalidWeek) {
		t.Errorf("Resolve(0, 2024) error = %v", err)
	}
}

func TestWeeksIn(t *testing.T) {
	for year, want := range map[int]int{2020: 53, 2024: 52, 2025: 52, 2026: 53} {
		if got := WeeksIn(year); got != want {
			t.Errorf("WeeksIn(%d) = %d, want %d", year, got, want)
		}
	}
}

func TestMonday(t *testing.T) {
	tests := []struct {
		p    Period
		want time.Time
	}{
		{Period{Week: 27, Year: 2025}, time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)},
		{Period{Week: 1, Year: 2025}, time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC)},
		{Period{Week: 53, Year: 2020}, time.Date(2020, time.December, 28, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := tt.p.Monday(); !got.Equal(tt.want) {
			t.Errorf("%v.Monday() = %v, want %v", tt.p, got, tt.want)
		}
		if y, w := tt.p.Monday().ISOWeek(); y != tt.p.Year || w != tt.p.Week {
			t.Errorf("%v.Monday() is in %d-W%02d", tt.p, y, w)
		}
	}
}

func TestString(t *testing.T) {
	if got := (Period{Week: 7, Year: 2025}).String(); got != "2025-W07" {
		t.Errorf("String() = %q", got)
	}
}
