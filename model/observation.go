package model

// HeaderFields holds the label/value fields located once per document.
// An empty string means the field was not found.
type HeaderFields struct {
	Date  string
	Shift string
	Area  string
}

// IsEmpty reports whether no field was located.
func (h HeaderFields) IsEmpty() bool {
	return h.Date == "" && h.Shift == "" && h.Area == ""
}

// Observation is one unit of extracted free text under a category.
type Observation struct {
	Date     string
	Shift    string
	Area     string
	Category string
	Text     string

	// Source is the name of the document the observation came from.
	Source string
	// Seq is the position of the observation in the merged input order.
	Seq int
}

// NewObservation combines header fields with a matched category and text.
func NewObservation(h HeaderFields, category, text string) Observation {
	return Observation{
		Date:     h.Date,
		Shift:    h.Shift,
		Area:     h.Area,
		Category: category,
		Text:     text,
	}
}
