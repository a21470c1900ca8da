package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NumericLayout is the layout numeric shift dates are written in (dd-mm-yyyy).
const NumericLayout = "02-01-2006"

// numericParseLayout also accepts days and months typed without a leading
// zero, such as 4-7-2025.
const numericParseLayout = "2-1-2006"

// MinDate is the sort sentinel for dates that do not parse. It is never
// rendered.
var MinDate = time.Time{}

// Format selects how date strings are interpreted.
type Format int

const (
	// Numeric accepts only dd-mm-yyyy.
	Numeric Format = iota
	// Worded accepts "<weekday> <day> <month name> <year>" in Dutch.
	Worded
	// Auto tries Numeric first, then Worded.
	Auto
)

// String returns the configuration name of the format.
func (f Format) String() string {
	switch f {
	case Numeric:
		return "numeric"
	case Worded:
		return "worded"
	case Auto:
		return "auto"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat maps a configuration name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "numeric", "":
		return Numeric, nil
	case "worded":
		return Worded, nil
	case "auto":
		return Auto, nil
	default:
		return Numeric, fmt.Errorf("unknown date format %q", name)
	}
}

var months = map[string]time.Month{
	"januari":   time.January,
	"februari":  time.February,
	"maart":     time.March,
	"april":     time.April,
	"mei":       time.May,
	"juni":      time.June,
	"juli":      time.July,
	"augustus":  time.August,
	"september": time.September,
	"oktober":   time.October,
	"november":  time.November,
	"december":  time.December,
}

var weekdays = [7]string{
	time.Sunday:    "Zondag",
	time.Monday:    "Maandag",
	time.Tuesday:   "Dinsdag",
	time.Wednesday: "Woensdag",
	time.Thursday:  "Donderdag",
	time.Friday:    "Vrijdag",
	time.Saturday:  "Zaterdag",
}

// lower lower-cases s with Dutch casing rules. A Caser is stateful, so one is
// created per call.
func lower(s string) string {
	return cases.Lower(language.Dutch).String(s)
}

// Month maps a Dutch month name (any case) to its month.
func Month(name string) (time.Month, bool) {
	m, ok := months[lower(strings.TrimSpace(name))]
	return m, ok
}

// Weekday returns the Dutch name of the weekday of t, capitalized.
func Weekday(t time.Time) string {
	return weekdays[t.Weekday()]
}

// ParseNumeric parses a d-m-yyyy date; day and month take one or two digits.
func ParseNumeric(s string) (time.Time, bool) {
	t, err := time.Parse(numericParseLayout, s)
	if err != nil {
		return MinDate, false
	}
	return t, true
}

// ParseWorded parses a Dutch worded date. Only the last three whitespace
// separated tokens are used (day, month name, year); a leading weekday name
// is ignored.
func ParseWorded(s string) (time.Time, bool) {
	parts := strings.Fields(lower(strings.TrimSpace(s)))
	if len(parts) < 3 {
		return MinDate, false
	}
	parts = parts[len(parts)-3:]

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return MinDate, false
	}
	month, ok := months[parts[1]]
	if !ok {
		return MinDate, false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil || year < 1 || year > 9999 {
		return MinDate, false
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (31 februari); reject instead.
	if t.Day() != day || t.Month() != month {
		return MinDate, false
	}
	return t, true
}

// Parse parses s according to f.
func Parse(s string, f Format) (time.Time, bool) {
	switch f {
	case Worded:
		return ParseWorded(s)
	case Auto:
		if t, ok := ParseNumeric(s); ok {
			return t, true
		}
		return ParseWorded(s)
	default:
		return ParseNumeric(s)
	}
}

// SortKey returns the parsed date or MinDate when s does not parse.
func SortKey(s string, f Format) time.Time {
	t, _ := Parse(s, f)
	return t
}
