package model

import "strings"

// Table is an ordered sequence of rows.
type Table struct {
	Rows []Row
}

// Row is an ordered sequence of cell texts.
type Row struct {
	Cells []string
}

// NewTable creates a table from the given rows.
func NewTable(rows ...Row) *Table {
	return &Table{Rows: rows}
}

// NewRow creates a row from the given cell texts.
func NewRow(cells ...string) Row {
	return Row{Cells: cells}
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// Row returns the row at index i and whether it exists.
func (t *Table) Row(i int) (Row, bool) {
	if i < 0 || i >= len(t.Rows) {
		return Row{}, false
	}
	return t.Rows[i], true
}

// GetText returns the table as tab-separated lines.
func (t *Table) GetText() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row.Cells {
			sb.WriteString(strings.ReplaceAll(cell, "\n", " "))
			if j < len(row.Cells)-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Cell returns the text of cell i and whether it exists.
func (r Row) Cell(i int) (string, bool) {
	if i < 0 || i >= len(r.Cells) {
		return "", false
	}
	return r.Cells[i], true
}

// Len returns the number of cells.
func (r Row) Len() int {
	return len(r.Cells)
}

// Text joins the trimmed cell texts with single spaces.
func (r Row) Text() string {
	parts := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		parts[i] = strings.TrimSpace(c)
	}
	return strings.Join(parts, " ")
}
