package format

import (
	"archive/zip"
	"bytes"
	"testing"
)

func zipWith(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(body))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{DOCX, "DOCX"},
		{DOC, "DOC"},
		{PDF, "PDF"},
		{ODT, "ODT"},
		{ZIP, "ZIP"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"maandag.docx", DOCX},
		{"MAANDAG.DOCX", DOCX},
		{"/uploads/week27/dinsdag.Docx", DOCX},
		{"oud.doc", DOC},
		{"scan.pdf", PDF},
		{"notities.odt", ODT},
		{"bundel.zip", ZIP},
		{"notities.txt", Unknown},
		{"docx", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
		if tt.want != Unknown && Detect("x"+tt.want.Extension()) != tt.want {
			t.Errorf("Extension() of %v does not round-trip", tt.want)
		}
	}
}

func TestIsLockFile(t *testing.T) {
	if !IsLockFile("/data/in/~$andag.docx") {
		t.Error("owner file not recognized")
	}
	if IsLockFile("/data/~$in/maandag.docx") {
		t.Error("directory prefix should not count")
	}
}

func TestDetectBytes(t *testing.T) {
	docx := zipWith(t, map[string]string{
		"[Content_Types].xml": "<Types/>",
		"word/document.xml":   "<w:document/>",
	})
	odt := zipWith(t, map[string]string{
		"mimetype":    "application/vnd.oasis.opendocument.text",
		"content.xml": "<office:document-content/>",
	})
	xlsx := zipWith(t, map[string]string{
		"[Content_Types].xml": "<Types/>",
		"xl/workbook.xml":     "<workbook/>",
	})

	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"docx", docx, DOCX},
		{"odt", odt, ODT},
		{"other zip", xlsx, ZIP},
		{"pdf", []byte("%PDF-1.7\n%%EOF"), PDF},
		{"legacy word", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0x00}, DOC},
		{"truncated zip", []byte{0x50, 0x4B, 0x03, 0x04, 0x00, 0x00}, Unknown},
		{"text", []byte("Datum dienst: 04-07-2025"), Unknown},
		{"empty", nil, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectBytes(tt.data); got != tt.want {
				t.Errorf("DetectBytes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFromReader_TruncatedZIP(t *testing.T) {
	data := []byte{0x50, 0x4B, 0x03, 0x04, 0x00, 0x00}
	if _, err := DetectFromReader(bytes.NewReader(data), int64(len(data))); err == nil {
		t.Error("expected an error for a truncated archive")
	}
}
