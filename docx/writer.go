package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/tsawler/debrief/model"
)

// ContentType is the MIME type of a DOCX document.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// maxHeadingLevel is the deepest heading style defined in styles.xml.
const maxHeadingLevel = 4

// WriteOptions holds document-level properties of a written document.
type WriteOptions struct {
	Title   string
	Author  string
	Created time.Time // zero omits the creation date
}

// Write writes blocks as a DOCX package to w.
func Write(w io.Writer, blocks []model.Block, opts WriteOptions) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name string
		body func() ([]byte, error)
	}{
		{"[Content_Types].xml", static(contentTypesXML)},
		{"_rels/.rels", static(packageRelsXML)},
		{"word/_rels/document.xml.rels", static(documentRelsXML)},
		{"word/document.xml", func() ([]byte, error) { return marshalPart(buildDocument(blocks)) }},
		{"word/styles.xml", static(stylesPartXML)},
		{"word/numbering.xml", static(numberingPartXML)},
		{"docProps/core.xml", func() ([]byte, error) { return marshalPart(buildCoreProps(opts)) }},
		{"docProps/app.xml", static(appPropsXML)},
	}

	for _, part := range parts {
		data, err := part.body()
		if err != nil {
			return fmt.Errorf("encoding %s: %w", part.name, err)
		}
		fw, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("creating %s: %w", part.name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("writing %s: %w", part.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing ZIP archive: %w", err)
	}
	return nil
}

func static(s string) func() ([]byte, error) {
	return func() ([]byte, error) { return []byte(s), nil }
}

// marshalPart encodes v with the standard XML declaration.
func marshalPart(v any) ([]byte, error) {
	data, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xmlHeader), data...), nil
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Output element types. Tag names carry the w: prefix literally; the
// namespace is declared once on the root element.

type wDocument struct {
	XMLName xml.Name `xml:"w:document"`
	XmlnsW  string   `xml:"xmlns:w,attr"`
	XmlnsR  string   `xml:"xmlns:r,attr"`
	Body    wBody    `xml:"w:body"`
}

type wBody struct {
	Paragraphs []wParagraph `xml:"w:p"`
	SectPr     wSectPr      `xml:"w:sectPr"`
}

type wSectPr struct {
	PageSize   wPageSize   `xml:"w:pgSz"`
	PageMargin wPageMargin `xml:"w:pgMar"`
}

type wPageSize struct {
	W string `xml:"w:w,attr"`
	H string `xml:"w:h,attr"`
}

type wPageMargin struct {
	Top    string `xml:"w:top,attr"`
	Right  string `xml:"w:right,attr"`
	Bottom string `xml:"w:bottom,attr"`
	Left   string `xml:"w:left,attr"`
}

type wParagraph struct {
	Props *wParaProps `xml:"w:pPr,omitempty"`
	Runs  []wRun      `xml:"w:r"`
}

type wParaProps struct {
	Style   *wVal     `xml:"w:pStyle,omitempty"`
	Spacing *wSpacing `xml:"w:spacing,omitempty"`
}

type wVal struct {
	Val string `xml:"w:val,attr"`
}

type wSpacing struct {
	After string `xml:"w:after,attr"`
}

type wRun struct {
	Props *wRunProps `xml:"w:rPr,omitempty"`
	Text  wText      `xml:"w:t"`
}

type wRunProps struct {
	Bold  *struct{} `xml:"w:b,omitempty"`
	Color *wVal     `xml:"w:color,omitempty"`
}

type wText struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

// buildDocument maps blocks onto paragraphs.
func buildDocument(blocks []model.Block) wDocument {
	doc := wDocument{
		XmlnsW: nsW,
		XmlnsR: nsR,
		Body: wBody{
			Paragraphs: make([]wParagraph, 0, len(blocks)),
			SectPr: wSectPr{
				// A4 portrait, 2.5 cm margins
				PageSize:   wPageSize{W: "11906", H: "16838"},
				PageMargin: wPageMargin{Top: "1417", Right: "1417", Bottom: "1417", Left: "1417"},
			},
		},
	}
	for _, b := range blocks {
		doc.Body.Paragraphs = append(doc.Body.Paragraphs, buildParagraph(b))
	}
	return doc
}

func buildParagraph(b model.Block) wParagraph {
	p := wParagraph{}

	switch b.Kind {
	case model.BlockTitle:
		p.Props = &wParaProps{Style: &wVal{Val: "Title"}}
	case model.BlockHeading:
		level := b.Level
		if level < 1 {
			level = 1
		}
		if level > maxHeadingLevel {
			level = maxHeadingLevel
		}
		p.Props = &wParaProps{Style: &wVal{Val: fmt.Sprintf("Heading%d", level)}}
	case model.BlockBullet:
		p.Props = &wParaProps{Style: &wVal{Val: "ListBullet"}}
	case model.BlockParagraph:
		p.Props = &wParaProps{Spacing: &wSpacing{After: "0"}}
	}

	run := wRun{Text: wText{Value: b.Text, Space: "preserve"}}
	if b.Bold || b.Color != "" {
		run.Props = &wRunProps{}
		if b.Bold {
			run.Props.Bold = &struct{}{}
		}
		if b.Color != "" {
			run.Props.Color = &wVal{Val: b.Color}
		}
	}
	p.Runs = []wRun{run}
	return p
}

type coreProps struct {
	XMLName      xml.Name `xml:"cp:coreProperties"`
	XmlnsCP      string   `xml:"xmlns:cp,attr"`
	XmlnsDC      string   `xml:"xmlns:dc,attr"`
	XmlnsDCTerms string   `xml:"xmlns:dcterms,attr"`
	XmlnsXSI     string   `xml:"xmlns:xsi,attr"`
	Title        string   `xml:"dc:title,omitempty"`
	Creator      string   `xml:"dc:creator,omitempty"`
	Created      *w3cDate `xml:"dcterms:created,omitempty"`
}

type w3cDate struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

func buildCoreProps(opts WriteOptions) coreProps {
	cp := coreProps{
		XmlnsCP:      nsCP,
		XmlnsDC:      nsDC,
		XmlnsDCTerms: "http://purl.org/dc/terms/",
		XmlnsXSI:     "http://www.w3.org/2001/XMLSchema-instance",
		Title:        opts.Title,
		Creator:      opts.Author,
	}
	if !opts.Created.IsZero() {
		cp.Created = &w3cDate{
			Type:  "dcterms:W3CDTF",
			Value: opts.Created.UTC().Format(time.RFC3339),
		}
	}
	return cp
}

const contentTypesXML = xmlHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
  <Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
  <Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>
  <Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
  <Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>
</Types>`

const packageRelsXML = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
  <Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties" Target="docProps/app.xml"/>
</Relationships>`

const documentRelsXML = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering" Target="numbering.xml"/>
</Relationships>`

const appPropsXML = xmlHeader + `<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">
  <Application>debrief</Application>
</Properties>`

const stylesPartXML = xmlHeader + `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:docDefaults>
    <w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:cs="Calibri"/><w:sz w:val="22"/><w:lang w:val="nl-NL"/></w:rPr></w:rPrDefault>
    <w:pPrDefault><w:pPr><w:spacing w:after="120"/></w:pPr></w:pPrDefault>
  </w:docDefaults>
  <w:style w:type="paragraph" w:default="1" w:styleId="Normal">
    <w:name w:val="Normal"/>
  </w:style>
  <w:style w:type="paragraph" w:styleId="Title">
    <w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/>
    <w:pPr><w:spacing w:after="240"/><w:outlineLvl w:val="0"/></w:pPr>
    <w:rPr><w:color w:val="17365D"/><w:sz w:val="52"/></w:rPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="Heading1">
    <w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/>
    <w:pPr><w:keepNext/><w:spacing w:before="480" w:after="120"/><w:outlineLvl w:val="0"/></w:pPr>
    <w:rPr><w:b/><w:color w:val="365F91"/><w:sz w:val="32"/></w:rPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="Heading2">
    <w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/>
    <w:pPr><w:keepNext/><w:spacing w:before="240" w:after="80"/><w:outlineLvl w:val="1"/></w:pPr>
    <w:rPr><w:b/><w:color w:val="4F81BD"/><w:sz w:val="28"/></w:rPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="Heading3">
    <w:name w:val="heading 3"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/>
    <w:pPr><w:keepNext/><w:spacing w:before="200" w:after="60"/><w:outlineLvl w:val="2"/></w:pPr>
    <w:rPr><w:b/><w:color w:val="4F81BD"/><w:sz w:val="24"/></w:rPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="Heading4">
    <w:name w:val="heading 4"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/>
    <w:pPr><w:keepNext/><w:spacing w:before="200" w:after="40"/><w:outlineLvl w:val="3"/></w:pPr>
    <w:rPr><w:b/><w:i/><w:color w:val="4F81BD"/></w:rPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="ListBullet">
    <w:name w:val="List Bullet"/><w:basedOn w:val="Normal"/>
    <w:pPr><w:numPr><w:numId w:val="1"/></w:numPr><w:spacing w:after="0"/><w:ind w:left="360" w:hanging="360"/></w:pPr>
  </w:style>
</w:styles>`

const numberingPartXML = xmlHeader + `<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:abstractNum w:abstractNumId="0">
    <w:multiLevelType w:val="singleLevel"/>
    <w:lvl w:ilvl="0">
      <w:start w:val="1"/>
      <w:numFmt w:val="bullet"/>
      <w:lvlText w:val="` + "•" + `"/>
      <w:lvlJc w:val="left"/>
      <w:pPr><w:ind w:left="360" w:hanging="360"/></w:pPr>
      <w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri"/></w:rPr>
    </w:lvl>
  </w:abstractNum>
  <w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>
</w:numbering>`
