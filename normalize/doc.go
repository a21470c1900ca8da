// Package normalize turns the free-form date and shift values found in shift
// reports into sortable values.
//
// Dates come in two shapes: numeric "dd-mm-yyyy" and Dutch worded dates such
// as "Vrijdag 4 juli 2025". A date that cannot be parsed sorts as [MinDate];
// it is never rejected. Shifts are ordered by the part of day their name
// contains: ochtend, tussen, avond, and everything else last.
package normalize
