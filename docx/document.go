package docx

import "encoding/xml"

// XML namespaces used in DOCX files
const (
	nsW  = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsDC = "http://purl.org/dc/elements/1.1/"
	nsCP = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
)

// documentXML represents the structure of word/document.xml
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    *bodyXML `xml:"body"`
}

// bodyXML represents the document body. Paragraphs and tables are kept in
// document order; content controls wrapping either are flattened.
type bodyXML struct {
	Elements []bodyElement
}

// bodyElement represents an element in the document body (paragraph or table).
type bodyElement struct {
	Paragraph *paragraphXML
	Table     *tableXML
}

// UnmarshalXML implements xml.Unmarshaler.
func (b *bodyXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return walkContent(d, func(t xml.StartElement) error {
		switch t.Name.Local {
		case "p":
			p := &paragraphXML{}
			if err := d.DecodeElement(p, &t); err != nil {
				return err
			}
			b.Elements = append(b.Elements, bodyElement{Paragraph: p})
		case "tbl":
			tbl := &tableXML{}
			if err := d.DecodeElement(tbl, &t); err != nil {
				return err
			}
			b.Elements = append(b.Elements, bodyElement{Table: tbl})
		default:
			return d.Skip()
		}
		return nil
	})
}

// paragraphXML represents a paragraph element (<w:p>). Runs holds every run
// in reading order, including runs nested in hyperlinks, insertions and
// content controls.
type paragraphXML struct {
	Properties paragraphPropsXML
	Runs       []runXML
}

// UnmarshalXML implements xml.Unmarshaler.
func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return walkContent(d, func(t xml.StartElement) error {
		switch t.Name.Local {
		case "pPr":
			return d.DecodeElement(&p.Properties, &t)
		case "r":
			var r runXML
			if err := d.DecodeElement(&r, &t); err != nil {
				return err
			}
			p.Runs = append(p.Runs, r)
			return nil
		default:
			return d.Skip()
		}
	})
}

// paragraphPropsXML represents paragraph properties (<w:pPr>).
type paragraphPropsXML struct {
	Style      styleRefXML   `xml:"pStyle"`
	OutlineLvl outlineLvlXML `xml:"outlineLvl"`
}

// styleRefXML represents a style reference.
type styleRefXML struct {
	Val string `xml:"val,attr"`
}

// outlineLvlXML represents outline level.
type outlineLvlXML struct {
	Val string `xml:"val,attr"`
}

// runXML represents a text run (<w:r>). Text is assembled in element order
// so that line breaks land between the text they separate.
type runXML struct {
	Properties runPropsXML
	Text       string
}

// UnmarshalXML implements xml.Unmarshaler.
func (r *runXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var text []byte
	err := walkChildren(d, func(t xml.StartElement) error {
		switch t.Name.Local {
		case "rPr":
			return d.DecodeElement(&r.Properties, &t)
		case "t":
			var tx textXML
			if err := d.DecodeElement(&tx, &t); err != nil {
				return err
			}
			text = append(text, tx.Value...)
			return nil
		case "tab":
			text = append(text, '\t')
		case "br", "cr":
			text = append(text, '\n')
		}
		return d.Skip()
	})
	r.Text = string(text)
	return err
}

// runPropsXML represents run properties (<w:rPr>).
type runPropsXML struct {
	Bold   boolXML  `xml:"b"`
	Italic boolXML  `xml:"i"`
	Color  colorXML `xml:"color"`
}

// boolXML represents a boolean attribute.
type boolXML struct {
	XMLName xml.Name
	Val     string `xml:"val,attr"`
}

// IsSet reports whether the toggle is present and not switched off.
func (b boolXML) IsSet() bool {
	return b.XMLName.Local != "" && b.Val != "false" && b.Val != "0"
}

// colorXML represents text color.
type colorXML struct {
	Val string `xml:"val,attr"` // Hex color or "auto"
}

// textXML represents text content (<w:t>).
type textXML struct {
	XMLName xml.Name `xml:"t"`
	Space   string   `xml:"space,attr"` // preserve
	Value   string   `xml:",chardata"`
}

// tableXML represents a table (<w:tbl>).
type tableXML struct {
	Properties tablePropsXML
	Rows       []tableRowXML
}

// UnmarshalXML implements xml.Unmarshaler.
func (tbl *tableXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return walkContent(d, func(t xml.StartElement) error {
		switch t.Name.Local {
		case "tblPr":
			return d.DecodeElement(&tbl.Properties, &t)
		case "tr":
			var row tableRowXML
			if err := d.DecodeElement(&row, &t); err != nil {
				return err
			}
			tbl.Rows = append(tbl.Rows, row)
			return nil
		default:
			return d.Skip()
		}
	})
}

// tablePropsXML represents table properties.
type tablePropsXML struct {
	Style styleRefXML `xml:"tblStyle"`
}

// tableRowXML represents a table row (<w:tr>).
type tableRowXML struct {
	Properties rowPropsXML
	Cells      []tableCellXML
}

// UnmarshalXML implements xml.Unmarshaler.
func (row *tableRowXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return walkContent(d, func(t xml.StartElement) error {
		switch t.Name.Local {
		case "trPr":
			return d.DecodeElement(&row.Properties, &t)
		case "tc":
			var cell tableCellXML
			if err := d.DecodeElement(&cell, &t); err != nil {
				return err
			}
			row.Cells = append(row.Cells, cell)
			return nil
		default:
			return d.Skip()
		}
	})
}

// rowPropsXML represents row properties.
type rowPropsXML struct {
	Header boolXML `xml:"tblHeader"` // Is this a header row?
}

// tableCellXML represents a table cell (<w:tc>).
type tableCellXML struct {
	Properties   cellPropsXML
	Paragraphs   []paragraphXML
	NestedTables []tableXML
}

// UnmarshalXML implements xml.Unmarshaler.
func (cell *tableCellXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return walkContent(d, func(t xml.StartElement) error {
		switch t.Name.Local {
		case "tcPr":
			return d.DecodeElement(&cell.Properties, &t)
		case "p":
			var p paragraphXML
			if err := d.DecodeElement(&p, &t); err != nil {
				return err
			}
			cell.Paragraphs = append(cell.Paragraphs, p)
			return nil
		case "tbl":
			var tbl tableXML
			if err := d.DecodeElement(&tbl, &t); err != nil {
				return err
			}
			cell.NestedTables = append(cell.NestedTables, tbl)
			return nil
		default:
			return d.Skip()
		}
	})
}

// cellPropsXML represents cell properties.
type cellPropsXML struct {
	GridSpan gridSpanXML `xml:"gridSpan"`
	VMerge   vMergeXML   `xml:"vMerge"`
}

// gridSpanXML represents column span.
type gridSpanXML struct {
	Val string `xml:"val,attr"` // Number of columns spanned
}

// vMergeXML represents vertical merge.
type vMergeXML struct {
	XMLName xml.Name `xml:"vMerge"`
	Val     string   `xml:"val,attr"` // "restart" or empty (continue)
}

// sdtPrXML represents content control properties (<w:sdtPr>).
type sdtPrXML struct {
	Alias       styleRefXML `xml:"alias"`
	Tag         styleRefXML `xml:"tag"`
	Date        *sdtDateXML `xml:"date"`
	Placeholder *struct{}   `xml:"showingPlcHdr"`
}

// sdtDateXML represents the date-picker kind of a content control.
type sdtDateXML struct {
	FullDate   string      `xml:"fullDate,attr"` // ISO 8601 timestamp
	DateFormat styleRefXML `xml:"dateFormat"`
}

// walkChildren decodes the children of the element whose start token was
// just consumed, calling visit for every child start element. visit must
// consume the element it is handed (DecodeElement or Skip).
func walkChildren(d *xml.Decoder, visit func(xml.StartElement) error) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := visit(t); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// walkContent is walkChildren with transparent wrappers flattened: the
// children of hyperlinks, insertions, smart tags, custom XML and content
// controls are visited as if they were direct children. Content controls
// still showing their placeholder text contribute nothing.
func walkContent(d *xml.Decoder, visit func(xml.StartElement) error) error {
	return walkChildren(d, func(t xml.StartElement) error {
		switch t.Name.Local {
		case "hyperlink", "ins", "smartTag", "customXml", "fldSimple":
			return walkContent(d, visit)
		case "sdt":
			return walkSDT(d, visit)
		default:
			return visit(t)
		}
	})
}

// walkSDT flattens a content control (<w:sdt>).
func walkSDT(d *xml.Decoder, visit func(xml.StartElement) error) error {
	var pr sdtPrXML
	return walkChildren(d, func(t xml.StartElement) error {
		switch t.Name.Local {
		case "sdtPr":
			return d.DecodeElement(&pr, &t)
		case "sdtContent":
			if pr.Placeholder != nil {
				return d.Skip()
			}
			return walkContent(d, visit)
		default:
			return d.Skip()
		}
	})
}
