// Package extract locates header fields and category observations in the
// tables of a shift report.
//
// Both operations are pure and never fail: missing labels, short rows and
// empty answers degrade to empty fields or to no observation at all.
//
//	h := extract.LocateFields(doc, v)
//	m := extract.NewMatcher(v.Categories)
//	obs := m.Observations(doc, h)
package extract
