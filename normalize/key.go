package normalize

import "time"

// Key is the (date, shift) ordering key of an observation.
type Key struct {
	Date  time.Time
	Shift int
}

// NewKey builds the ordering key for a date and shift string.
func NewKey(date, shift string, f Format) Key {
	return Key{Date: SortKey(date, f), Shift: ShiftKey(shift)}
}

// Less reports whether k orders strictly before o.
func (k Key) Less(o Key) bool {
	if !k.Date.Equal(o.Date) {
		return k.Date.Before(o.Date)
	}
	return k.Shift < o.Shift
}
