// Package docx provides DOCX (Office Open XML) document reading and writing.
//
// The reader exposes the parts of a document that shift-report extraction
// needs: top-level tables as rows of cell texts, date-picker content
// controls, body paragraphs and document metadata. The writer produces a
// summary document from rendered blocks.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tsawler/debrief/model"
)

// ErrNotDOCX is returned when the input is not a DOCX package.
var ErrNotDOCX = errors.New("not a DOCX document")

// Reader provides access to DOCX document content.
type Reader struct {
	zipReader   *zip.Reader
	closer      io.Closer // set when the reader owns an open file
	document    *documentXML
	styles      *stylesXML
	coreProps   *corePropertiesXML
	appProps    *appPropertiesXML
	paragraphs  []parsedParagraph
	tables      []ParsedTable
	datePickers []DatePicker
}

// parsedParagraph holds a parsed paragraph with resolved styles.
type parsedParagraph struct {
	Text      string
	StyleID   string
	StyleName string
	IsHeading bool
	Level     int // heading level (1-9) or 0 for non-headings
	Runs      []parsedRun
}

// parsedRun holds a parsed text run.
type parsedRun struct {
	Text   string
	Bold   bool
	Italic bool
	Color  string
}

// Paragraph is a body paragraph as returned by Paragraphs.
type Paragraph struct {
	Text      string
	StyleID   string
	StyleName string
	IsHeading bool
	Level     int
	Bold      bool   // every run is bold
	Color     string // color of the first colored run
}

// Open opens a DOCX file for reading.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w: %v", ErrNotDOCX, err)
	}
	r, err := newReader(&zr.Reader)
	if err != nil {
		zr.Close()
		return nil, err
	}
	r.closer = zr
	return r, nil
}

// OpenBytes parses a DOCX document held in memory.
func OpenBytes(data []byte) (*Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w: %v", ErrNotDOCX, err)
	}
	return newReader(zr)
}

func newReader(zr *zip.Reader) (*Reader, error) {
	r := &Reader{
		zipReader: zr,
	}

	// Validate required files exist
	if err := r.validate(); err != nil {
		return nil, err
	}

	// Styles are optional; they only refine heading detection.
	_ = r.parseStyles()

	// Parse document.xml
	if err := r.parseDocument(); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	// Parse metadata (optional)
	r.parseCoreProperties()
	r.parseAppProperties()

	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.closer != nil {
		err := r.closer.Close()
		r.closer = nil
		return err
	}
	return nil
}

// validate checks that required DOCX files exist.
func (r *Reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		"word/document.xml",
	}

	fileMap := make(map[string]bool)
	for _, f := range r.zipReader.File {
		fileMap[f.Name] = true
	}

	for _, name := range required {
		if !fileMap[name] {
			return fmt.Errorf("%w: missing required file: %s", ErrNotDOCX, name)
		}
	}

	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	for _, f := range r.zipReader.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

// Text returns the body paragraphs joined by newlines.
func (r *Reader) Text() (string, error) {
	if r.document == nil {
		return "", fmt.Errorf("document not parsed")
	}

	var result strings.Builder
	for i, para := range r.paragraphs {
		if i > 0 {
			result.WriteString("\n")
		}
		result.WriteString(para.Text)
	}
	return result.String(), nil
}

// Paragraphs returns the top-level body paragraphs in document order.
func (r *Reader) Paragraphs() []Paragraph {
	out := make([]Paragraph, 0, len(r.paragraphs))
	for _, p := range r.paragraphs {
		para := Paragraph{
			Text:      p.Text,
			StyleID:   p.StyleID,
			StyleName: p.StyleName,
			IsHeading: p.IsHeading,
			Level:     p.Level,
			Bold:      len(p.Runs) > 0,
		}
		for _, run := range p.Runs {
			if !run.Bold {
				para.Bold = false
			}
			if para.Color == "" && run.Color != "" && run.Color != "auto" {
				para.Color = run.Color
			}
		}
		out = append(out, para)
	}
	return out
}

// Tables returns the top-level tables in document order.
func (r *Reader) Tables() []ParsedTable {
	return r.tables
}

// DatePickers returns the date-picker content controls in document order.
func (r *Reader) DatePickers() []DatePicker {
	return r.datePickers
}

// Metadata returns document metadata.
func (r *Reader) Metadata() model.Metadata {
	meta := model.Metadata{}
	if r.coreProps != nil {
		meta.Title = r.coreProps.Title
		meta.Author = r.coreProps.Creator
	}
	if r.appProps != nil {
		meta.Creator = r.appProps.Application
	}
	return meta
}

// SourceDocument returns the table view of the document used by extraction.
func (r *Reader) SourceDocument(name string) *model.SourceDocument {
	doc := model.NewSourceDocument(name)
	doc.Metadata = r.Metadata()
	for i := range r.tables {
		doc.AddTable(r.tables[i].ToModelTable())
	}
	for _, dp := range r.datePickers {
		if v := dp.Value(); v != "" {
			doc.DatePickers = append(doc.DatePickers, v)
		}
	}
	return doc
}

// parseDocument parses the main document content.
func (r *Reader) parseDocument() error {
	data, err := r.getFileContent("word/document.xml")
	if err != nil {
		return err
	}

	r.document = &documentXML{}
	if err := xml.Unmarshal(data, r.document); err != nil {
		return fmt.Errorf("unmarshaling document.xml: %w", err)
	}

	r.processBody()

	r.datePickers, err = scanDatePickers(data)
	if err != nil {
		return fmt.Errorf("scanning content controls: %w", err)
	}

	return nil
}

// parseStyles parses the styles definition file.
func (r *Reader) parseStyles() error {
	data, err := r.getFileContent("word/styles.xml")
	if err != nil {
		return err
	}

	styles := &stylesXML{}
	if err := xml.Unmarshal(data, styles); err != nil {
		return err
	}
	r.styles = styles
	return nil
}

// parseCoreProperties parses Dublin Core metadata.
func (r *Reader) parseCoreProperties() {
	data, err := r.getFileContent("docProps/core.xml")
	if err != nil {
		return
	}

	props := &corePropertiesXML{}
	if xml.Unmarshal(data, props) == nil {
		r.coreProps = props
	}
}

// parseAppProperties parses application metadata.
func (r *Reader) parseAppProperties() {
	data, err := r.getFileContent("docProps/app.xml")
	if err != nil {
		return
	}

	props := &appPropertiesXML{}
	if xml.Unmarshal(data, props) == nil {
		r.appProps = props
	}
}

// processBody splits the body into paragraphs and tables.
func (r *Reader) processBody() {
	if r.document == nil || r.document.Body == nil {
		return
	}

	tp := NewTableParser()
	for _, el := range r.document.Body.Elements {
		switch {
		case el.Paragraph != nil:
			r.paragraphs = append(r.paragraphs, processParagraph(*el.Paragraph, r.styles))
		case el.Table != nil:
			r.tables = append(r.tables, tp.ParseTable(*el.Table))
		}
	}
}

// processParagraph processes a single paragraph. styles may be nil.
func processParagraph(p paragraphXML, styles *stylesXML) parsedParagraph {
	parsed := parsedParagraph{
		StyleID: p.Properties.Style.Val,
	}

	var textParts []string
	for _, run := range p.Runs {
		if run.Text == "" {
			continue
		}
		textParts = append(textParts, run.Text)
		parsed.Runs = append(parsed.Runs, parsedRun{
			Text:   run.Text,
			Bold:   run.Properties.Bold.IsSet(),
			Italic: run.Properties.Italic.IsSet(),
			Color:  run.Properties.Color.Val,
		})
	}
	parsed.Text = strings.Join(textParts, "")

	// Detect heading from style
	if parsed.StyleID != "" {
		parsed.IsHeading, parsed.Level = isHeadingStyle(parsed.StyleID, styles)
		if styles != nil {
			for _, style := range styles.Styles {
				if style.StyleID == parsed.StyleID {
					parsed.StyleName = style.Name.Val
					break
				}
			}
		}
	}

	return parsed
}

// isHeadingStyle determines if a style ID represents a heading.
func isHeadingStyle(styleID string, styles *stylesXML) (bool, int) {
	styleID = strings.ToLower(styleID)

	// Standard Word heading style IDs
	headingMap := map[string]int{
		"heading1": 1, "heading2": 2, "heading3": 3,
		"heading4": 4, "heading5": 5, "heading6": 6,
		"heading7": 7, "heading8": 8, "heading9": 9,
		"title": 1, // Title is typically H1 equivalent
	}

	if level, ok := headingMap[styleID]; ok {
		return true, level
	}

	// Check style definitions for outline level
	if styles != nil {
		for _, style := range styles.Styles {
			if strings.EqualFold(style.StyleID, styleID) {
				if style.PPr.OutlineLvl.Val != "" {
					// OutlineLvl is 0-based in OOXML
					if level := parseOutlineLevel(style.PPr.OutlineLvl.Val); level >= 0 {
						return true, level + 1
					}
				}
				if strings.Contains(strings.ToLower(style.Name.Val), "heading") {
					return true, 1
				}
			}
		}
	}

	return false, 0
}

// parseOutlineLevel parses an outline level string to an integer.
func parseOutlineLevel(s string) int {
	level := 0
	for _, c := range s {
		if c >= '0' && c <= '9' {
			level = level*10 + int(c-'0')
		}
	}
	if level >= 0 && level <= 8 {
		return level
	}
	return -1
}
