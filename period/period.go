// Package period resolves the reporting week of a run.
package period

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidWeek is returned for week numbers the year does not have.
var ErrInvalidWeek = errors.New("invalid ISO week")

// Period is an ISO week of an ISO week-numbering year.
type Period struct {
	Week int
	Year int
}

// Previous returns the ISO week containing now minus seven days: the week
// before the one now falls in.
func Previous(now time.Time) Period {
	year, week := now.AddDate(0, 0, -7).ISOWeek()
	return Period{Week: week, Year: year}
}

// New validates an explicit week and year.
func New(week, year int) (Period, error) {
	if year < 1 || year > 9999 {
		return Period{}, fmt.Errorf("%w: year %d", ErrInvalidWeek, year)
	}
	if week < 1 || week > WeeksIn(year) {
		return Period{}, fmt.Errorf("%w: week %d of %d", ErrInvalidWeek, week, year)
	}
	return Period{Week: week, Year: year}, nil
}

// Resolve returns the explicit period when week is set, otherwise the
// previous week relative to now. A zero year with an explicit week means
// the year of the previous week.
func Resolve(week, year int, now time.Time) (Period, error) {
	if week == 0 && year == 0 {
		return Previous(now), nil
	}
	if year == 0 {
		year = Previous(now).Year
	}
	if week == 0 {
		return Period{}, fmt.Errorf("%w: year %d given without a week", ErrInvalidWeek, year)
	}
	return New(week, year)
}

// WeeksIn returns the number of ISO weeks in year (52 or 53).
func WeeksIn(year int) int {
	// 28 December always lies in the last ISO week of its year.
	_, week := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}

// Monday returns the first day of the week.
func (p Period) Monday() time.Time {
	// 4 January always lies in week 1.
	jan4 := time.Date(p.Year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	return jan4.AddDate(0, 0, -offset+(p.Week-1)*7)
}

func (p Period) String() string {
	return fmt.Sprintf("%d-W%02d", p.Year, p.Week)
}
