// Package variant holds the report-variant presets: which categories are
// searched for, which labels carry the header fields, and how the summary
// documents are grouped and styled.
package variant

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tsawler/debrief/normalize"
)

// ErrUnknownVariant is returned by Lookup for names without a preset.
var ErrUnknownVariant = errors.New("unknown report variant")

// ErrUnknownLayout is returned when a layout tag is not defined by a variant.
var ErrUnknownLayout = errors.New("unknown layout")

// Level is one grouping level of a summary document.
type Level int

const (
	LevelCategory Level = iota
	LevelArea
	LevelDate
)

func (l Level) String() string {
	switch l {
	case LevelCategory:
		return "category"
	case LevelArea:
		return "area"
	case LevelDate:
		return "date"
	default:
		return "Level(" + strconv.Itoa(int(l)) + ")"
	}
}

// Entry selects the line emitted above each observation's bullets.
type Entry int

const (
	// EntryNone emits only the bullets.
	EntryNone Entry = iota
	// EntryDateShift emits a level 3 heading "<date> (<shift>)".
	EntryDateShift
	// EntryShift emits a bold black paragraph holding the shift.
	EntryShift
)

// Labels lists the case-sensitive label substrings of each header field.
type Labels struct {
	Date  []string
	Shift []string
	Area  []string
}

// Layout describes one summary document produced from the aggregated
// observations.
type Layout struct {
	// Tag identifies the layout within its variant.
	Tag string
	// Title is the document title; {week} and {year} are substituted.
	Title string
	// FileName is the output file name pattern; {week} and {year} are
	// substituted.
	FileName string
	// Levels lists the grouping levels from outer to inner. It holds
	// LevelCategory exactly once.
	Levels []Level
	// Emphasis renders category headings bold red.
	Emphasis bool
	// AreaShift appends the area's representative shift to area headings.
	AreaShift bool
	// AreaPrefix and DatePrefix are prepended to the respective headings.
	AreaPrefix string
	DatePrefix string
	// Entry selects the per-observation line.
	Entry Entry
	// Weekday prefixes EntryDateShift headings with the Dutch weekday name
	// when the date parses.
	Weekday bool
}

// Variant is a complete report configuration.
type Variant struct {
	Name        string
	Description string
	Categories  []string
	Labels      Labels
	// Canonical codes collapse any area value containing them (compared
	// upper-case) to the code itself.
	Canonical []string
	// DatePicker takes the initial date from date-picker content controls.
	DatePicker bool
	DateFormat normalize.Format
	Layouts    []Layout
}

// Layout returns the layout with the given tag.
func (v *Variant) Layout(tag string) (Layout, bool) {
	for _, l := range v.Layouts {
		if l.Tag == tag {
			return l, true
		}
	}
	return Layout{}, false
}

// Validate checks that the variant can drive a pipeline run.
func (v *Variant) Validate() error {
	if v.Name == "" {
		return errors.New("variant: name is required")
	}
	if len(v.Categories) == 0 {
		return fmt.Errorf("variant %s: no categories", v.Name)
	}
	seen := make(map[string]bool)
	for _, c := range v.Categories {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("variant %s: empty category", v.Name)
		}
		if seen[c] {
			return fmt.Errorf("variant %s: duplicate category %q", v.Name, c)
		}
		seen[c] = true
	}
	if len(v.Layouts) == 0 {
		return fmt.Errorf("variant %s: no layouts", v.Name)
	}
	tags := make(map[string]bool)
	for _, l := range v.Layouts {
		if tags[l.Tag] {
			return fmt.Errorf("variant %s: duplicate layout tag %q", v.Name, l.Tag)
		}
		tags[l.Tag] = true
		if err := l.validate(); err != nil {
			return fmt.Errorf("variant %s: layout %q: %w", v.Name, l.Tag, err)
		}
	}
	return nil
}

func (l Layout) validate() error {
	if l.FileName == "" {
		return errors.New("file name is required")
	}
	counts := make(map[Level]int)
	for _, lv := range l.Levels {
		if lv < LevelCategory || lv > LevelDate {
			return fmt.Errorf("invalid level %d", lv)
		}
		counts[lv]++
		if counts[lv] > 1 {
			return fmt.Errorf("level %s repeated", lv)
		}
	}
	if counts[LevelCategory] != 1 {
		return errors.New("category level is required")
	}
	return nil
}

// Names returns the preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a copy of the named preset.
func Lookup(name string) (*Variant, error) {
	build, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return build(), nil
}

// Expand substitutes {week} and {year} in pattern.
func Expand(pattern string, week, year int) string {
	return strings.NewReplacer(
		"{week}", strconv.Itoa(week),
		"{year}", strconv.Itoa(year),
	).Replace(pattern)
}
