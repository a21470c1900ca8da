package extract

import (
	"strings"

	"github.com/tsawler/debrief/model"
	"github.com/tsawler/debrief/variant"
)

type fieldKind int

const (
	fieldNone fieldKind = iota
	fieldDate
	fieldShift
	fieldArea
)

// LocateFields scans every row of every table for the variant's labels and
// reads each field's value from the cell right after the label.
//
// The first non-empty value found for a field wins. A cell is claimed by the
// first field whose label it contains, tested as date, shift, area. When the
// variant reads date pickers, the first non-empty picker value is the
// initial date and a table label match replaces it.
func LocateFields(doc *model.SourceDocument, v *variant.Variant) model.HeaderFields {
	var h model.HeaderFields
	if doc == nil {
		return h
	}

	provisional := false
	if v.DatePicker {
		for _, dp := range doc.DatePickers {
			if s := strings.TrimSpace(dp); s != "" {
				h.Date = s
				provisional = true
				break
			}
		}
	}

	for _, table := range doc.Tables {
		for _, row := range table.Rows {
			for i, cell := range row.Cells {
				kind := classify(cell, v.Labels)
				if kind == fieldNone {
					continue
				}
				next, ok := row.Cell(i + 1)
				if !ok {
					continue
				}
				value := strings.TrimSpace(next)
				if value == "" {
					continue
				}

				switch kind {
				case fieldDate:
					if h.Date == "" || provisional {
						h.Date = value
						provisional = false
					}
				case fieldShift:
					if h.Shift == "" {
						h.Shift = value
					}
				case fieldArea:
					if h.Area == "" {
						h.Area = Canonicalize(value, v.Canonical)
					}
				}
			}
		}
	}
	return h
}

// classify returns the first field whose label occurs in the cell text.
func classify(cell string, labels variant.Labels) fieldKind {
	switch {
	case containsAny(cell, labels.Date):
		return fieldDate
	case containsAny(cell, labels.Shift):
		return fieldShift
	case containsAny(cell, labels.Area):
		return fieldArea
	}
	return fieldNone
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Canonicalize collapses an area value to the first code it contains,
// compared upper-case. Values without a code are returned unchanged.
func Canonicalize(area string, codes []string) string {
	upper := strings.ToUpper(area)
	for _, code := range codes {
		if code != "" && strings.Contains(upper, strings.ToUpper(code)) {
			return code
		}
	}
	return area
}
