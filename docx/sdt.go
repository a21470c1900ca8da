package docx

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"time"

	"github.com/tsawler/debrief/normalize"
)

// DatePicker is a date-picker content control (<w:sdt> with <w:date>).
type DatePicker struct {
	Alias    string
	Tag      string
	Text     string // displayed text, empty while the placeholder shows
	FullDate string // ISO 8601 value stored by Word, may be empty
}

// Value returns the displayed text, or the stored date as dd-mm-yyyy when
// nothing is displayed.
func (dp DatePicker) Value() string {
	if dp.Text != "" {
		return dp.Text
	}
	if len(dp.FullDate) >= 10 {
		if t, err := time.Parse("2006-01-02", dp.FullDate[:10]); err == nil {
			return t.Format(normalize.NumericLayout)
		}
	}
	return ""
}

// sdtFrame tracks one open content control during scanning.
type sdtFrame struct {
	picker      DatePicker
	isDate      bool
	placeholder bool
	inPr        bool
	inContent   bool
	text        strings.Builder
}

// scanDatePickers finds every date-picker content control in a document
// part, in document order. Nested controls are reported after the controls
// they are nested in are closed.
func scanDatePickers(data []byte) ([]DatePicker, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var stack []*sdtFrame
	var pickers []DatePicker
	inText := false

	top := func() *sdtFrame {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return pickers, nil
		}
		if err != nil {
			return pickers, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			f := top()
			switch t.Name.Local {
			case "sdt":
				stack = append(stack, &sdtFrame{})
			case "sdtPr":
				if f != nil {
					f.inPr = true
				}
			case "sdtContent":
				if f != nil {
					f.inContent = true
				}
			case "date":
				if f != nil && f.inPr {
					f.isDate = true
					f.picker.FullDate = attrVal(t, "fullDate")
				}
			case "alias":
				if f != nil && f.inPr {
					f.picker.Alias = attrVal(t, "val")
				}
			case "tag":
				if f != nil && f.inPr {
					f.picker.Tag = attrVal(t, "val")
				}
			case "showingPlcHdr":
				if f != nil && f.inPr {
					f.placeholder = true
				}
			case "t":
				inText = true
			}

		case xml.EndElement:
			f := top()
			switch t.Name.Local {
			case "sdtPr":
				if f != nil {
					f.inPr = false
				}
			case "sdtContent":
				if f != nil {
					f.inContent = false
				}
			case "t":
				inText = false
			case "sdt":
				if f == nil {
					continue
				}
				stack = stack[:len(stack)-1]
				if !f.isDate {
					continue
				}
				if !f.placeholder {
					f.picker.Text = strings.TrimSpace(f.text.String())
				}
				pickers = append(pickers, f.picker)
			}

		case xml.CharData:
			if !inText {
				continue
			}
			for _, f := range stack {
				if f.inContent {
					f.text.Write(t)
				}
			}
		}
	}
}

// attrVal returns the value of the attribute with the given local name.
func attrVal(t xml.StartElement, local string) string {
	for _, attr := range t.Attr {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}
