package docx

import (
	"strconv"
	"strings"

	"github.com/tsawler/debrief/model"
)

// ParsedTable represents a parsed table with resolved structure.
type ParsedTable struct {
	Rows    []ParsedTableRow
	StyleID string
}

// ToText returns a plain text representation of the table.
func (pt *ParsedTable) ToText() string {
	var sb strings.Builder
	for i, row := range pt.Rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		for j, cell := range row.Cells {
			if j > 0 {
				sb.WriteString("\t")
			}
			// Replace newlines within cells with spaces
			sb.WriteString(strings.ReplaceAll(cell.Text, "\n", " "))
		}
	}
	return sb.String()
}

// ColCount returns the number of grid columns covered by the first row.
func (pt *ParsedTable) ColCount() int {
	if len(pt.Rows) == 0 {
		return 0
	}
	count := 0
	for _, cell := range pt.Rows[0].Cells {
		count += cell.ColSpan
	}
	return count
}

// ParsedTableRow represents a parsed table row.
type ParsedTableRow struct {
	Cells    []ParsedTableCell
	IsHeader bool
}

// ParsedTableCell represents a parsed table cell.
type ParsedTableCell struct {
	// Content
	Paragraphs []parsedParagraph
	Text       string // Combined text from all non-empty paragraphs

	// Structure
	ColSpan              int  // Number of columns spanned (gridSpan)
	IsMergedContinuation bool // True if this is a continuation of a vertical merge

	// Nested tables
	NestedTables []ParsedTable
}

// TableParser handles parsing of DOCX tables.
type TableParser struct{}

// NewTableParser creates a new table parser.
func NewTableParser() *TableParser {
	return &TableParser{}
}

// ParseTable parses a table XML element into a ParsedTable.
func (tp *TableParser) ParseTable(tbl tableXML) ParsedTable {
	parsed := ParsedTable{
		StyleID: tbl.Properties.Style.Val,
	}
	for _, row := range tbl.Rows {
		parsed.Rows = append(parsed.Rows, tp.parseRow(row))
	}
	return parsed
}

// parseRow parses a table row.
func (tp *TableParser) parseRow(row tableRowXML) ParsedTableRow {
	parsed := ParsedTableRow{
		IsHeader: row.Properties.Header.IsSet(),
	}
	for _, cell := range row.Cells {
		parsed.Cells = append(parsed.Cells, tp.parseCell(cell))
	}
	return parsed
}

// parseCell parses a table cell.
func (tp *TableParser) parseCell(cell tableCellXML) ParsedTableCell {
	parsed := ParsedTableCell{
		ColSpan: 1,
	}

	props := cell.Properties

	// Parse column span (gridSpan)
	if props.GridSpan.Val != "" {
		if span, err := strconv.Atoi(props.GridSpan.Val); err == nil && span > 0 {
			parsed.ColSpan = span
		}
	}

	// An empty val means the cell continues the merge above it.
	if props.VMerge.XMLName.Local == "vMerge" && props.VMerge.Val != "restart" {
		parsed.IsMergedContinuation = true
	}

	var textParts []string
	for _, para := range cell.Paragraphs {
		parsedPara := processParagraph(para, nil)
		parsed.Paragraphs = append(parsed.Paragraphs, parsedPara)
		if parsedPara.Text != "" {
			textParts = append(textParts, parsedPara.Text)
		}
	}
	parsed.Text = strings.Join(textParts, "\n")

	for _, nested := range cell.NestedTables {
		parsed.NestedTables = append(parsed.NestedTables, tp.ParseTable(nested))
	}

	return parsed
}

// ToModelTable converts a ParsedTable to a model.Table with one cell per
// <w:tc> element. Spans are not expanded, so the cell after a label is the
// next cell the author typed into.
func (pt *ParsedTable) ToModelTable() *model.Table {
	table := model.NewTable()
	for _, row := range pt.Rows {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			cells[i] = cell.Text
		}
		table.Rows = append(table.Rows, model.NewRow(cells...))
	}
	return table
}
