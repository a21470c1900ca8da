// Package render turns an aggregated tree into the block sequence of a
// summary document, and renders blocks as HTML or terminal previews.
package render

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tsawler/debrief/aggregate"
	"github.com/tsawler/debrief/model"
	"github.com/tsawler/debrief/normalize"
	"github.com/tsawler/debrief/period"
	"github.com/tsawler/debrief/variant"
)

const (
	// UngroupedLabel heads the bucket of observations without an area.
	UngroupedLabel = "Overig"
	// UnknownDateLabel stands in for a missing date in entry headings.
	UnknownDateLabel = "Datum onbekend"
)

// entryLevel is the heading level of EntryDateShift lines.
const entryLevel = 3

// Render walks tree according to layout. Groups without observations are
// skipped. The output only depends on the inputs.
func Render(tree *aggregate.Tree, layout variant.Layout, p period.Period, f normalize.Format) []model.Block {
	r := &renderer{
		layout: layout,
		format: f,
		upper:  cases.Upper(language.Dutch),
	}
	r.blocks = append(r.blocks, model.Title(variant.Expand(layout.Title, p.Week, p.Year)))
	r.walk(tree.Children, 1)
	return r.blocks
}

type renderer struct {
	layout variant.Layout
	format normalize.Format
	upper  cases.Caser
	blocks []model.Block
}

func (r *renderer) walk(nodes []*aggregate.Node, level int) {
	for _, n := range nodes {
		if n.Count() == 0 {
			continue
		}
		r.blocks = append(r.blocks, r.heading(n, level))
		if n.IsLeaf() {
			for _, o := range n.Observations {
				r.entry(o)
			}
			continue
		}
		r.walk(n.Children, level+1)
	}
}

func (r *renderer) heading(n *aggregate.Node, level int) model.Block {
	switch n.Level {
	case variant.LevelCategory:
		b := model.Heading(level, r.upper.String(n.Key))
		if r.layout.Emphasis {
			b = b.Emphasize(model.ColorRed)
		}
		return b
	case variant.LevelArea:
		label := n.Key
		if n.Ungrouped {
			label = UngroupedLabel
		}
		text := r.layout.AreaPrefix + label
		if r.layout.AreaShift && n.Shift != "" {
			text += " (" + n.Shift + ")"
		}
		return model.Heading(level, text)
	default:
		return model.Heading(level, r.layout.DatePrefix+n.Key)
	}
}

func (r *renderer) entry(o model.Observation) {
	switch r.layout.Entry {
	case variant.EntryDateShift:
		r.blocks = append(r.blocks, model.Heading(entryLevel, r.dateShift(o)))
	case variant.EntryShift:
		if o.Shift != "" {
			r.blocks = append(r.blocks, model.Paragraph(o.Shift).Emphasize(model.ColorBlack))
		}
	}
	for _, line := range Lines(o.Text) {
		r.blocks = append(r.blocks, model.Bullet(line))
	}
}

// dateShift formats "<date> (<shift>)", optionally weekday-prefixed.
func (r *renderer) dateShift(o model.Observation) string {
	date := o.Date
	if date == "" {
		date = UnknownDateLabel
	} else if r.layout.Weekday {
		if t, ok := normalize.Parse(date, r.format); ok {
			day := normalize.Weekday(t)
			if !strings.HasPrefix(strings.ToLower(date), strings.ToLower(day)) {
				date = day + " " + date
			}
		}
	}
	if o.Shift == "" {
		return date
	}
	return date + " (" + o.Shift + ")"
}

// Lines splits text on newlines and returns the trimmed, non-empty lines.
func Lines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
