package model

// SourceDocument is the table view of a single uploaded shift report.
type SourceDocument struct {
	Name        string
	Metadata    Metadata
	Tables      []*Table
	DatePickers []string
}

// Metadata contains document-level information read from docProps.
type Metadata struct {
	Title   string
	Author  string
	Creator string
}

// NewSourceDocument creates an empty document with the given name.
func NewSourceDocument(name string) *SourceDocument {
	return &SourceDocument{
		Name:   name,
		Tables: make([]*Table, 0),
	}
}

// AddTable appends a table to the document.
func (d *SourceDocument) AddTable(t *Table) {
	d.Tables = append(d.Tables, t)
}

// TableCount returns the number of tables.
func (d *SourceDocument) TableCount() int {
	return len(d.Tables)
}

// RowCount returns the total number of rows over all tables.
func (d *SourceDocument) RowCount() int {
	n := 0
	for _, t := range d.Tables {
		n += t.RowCount()
	}
	return n
}
