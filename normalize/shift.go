package normalize

import "strings"

// ShiftUnknown is the order key of shifts without a recognized part of day.
const ShiftUnknown = 99

// shiftParts lists the recognized parts of day in priority order.
var shiftParts = []struct {
	substr string
	key    int
}{
	{"ochtend", 0},
	{"tussen", 1},
	{"avond", 2},
}

// ShiftKey returns the order key of a shift name: 0 for ochtend, 1 for
// tussen, 2 for avond and ShiftUnknown otherwise. The first matching part in
// that order wins.
func ShiftKey(shift string) int {
	s := lower(shift)
	for _, p := range shiftParts {
		if strings.Contains(s, p.substr) {
			return p.key
		}
	}
	return ShiftUnknown
}
