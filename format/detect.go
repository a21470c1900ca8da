// Package format identifies uploaded shift reports before they are parsed.
//
// Only DOCX input is processed. The other formats are recognized so that the
// warning attached to a rejected upload names what was actually received.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a recognized input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// DOCX indicates a Word (.docx) document.
	DOCX
	// DOC indicates a legacy binary Word (.doc) document.
	DOC
	// PDF indicates a PDF document.
	PDF
	// ODT indicates an OpenDocument Text (.odt) document.
	ODT
	// ZIP indicates a ZIP archive that is not an office document.
	ZIP
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case DOCX:
		return "DOCX"
	case DOC:
		return "DOC"
	case PDF:
		return "PDF"
	case ODT:
		return "ODT"
	case ZIP:
		return "ZIP"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case DOCX:
		return ".docx"
	case DOC:
		return ".doc"
	case PDF:
		return ".pdf"
	case ODT:
		return ".odt"
	case ZIP:
		return ".zip"
	default:
		return ""
	}
}

// Detect determines the format from the filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx":
		return DOCX
	case ".doc":
		return DOC
	case ".pdf":
		return PDF
	case ".odt":
		return ODT
	case ".zip":
		return ZIP
	default:
		return Unknown
	}
}

// IsLockFile reports whether name is an owner file Word leaves next to an
// open document ("~$" prefix). Such files are never shift reports.
func IsLockFile(name string) bool {
	return strings.HasPrefix(filepath.Base(name), "~$")
}

var (
	magicZIP = []byte{0x50, 0x4B, 0x03, 0x04}
	magicOLE = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	magicPDF = []byte("%PDF")
)

// DetectBytes inspects content to determine the format. ZIP archives are
// opened to tell DOCX from other ZIP-based formats.
func DetectBytes(data []byte) Format {
	f, _ := DetectFromReader(bytes.NewReader(data), int64(len(data)))
	return f
}

// DetectFromReader inspects content to determine the format.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 8)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	switch {
	case bytes.HasPrefix(magic, magicPDF):
		return PDF, nil
	case bytes.HasPrefix(magic, magicOLE):
		return DOC, nil
	case bytes.HasPrefix(magic, magicZIP):
		return detectZIPFormat(r, size)
	}
	return Unknown, nil
}

// detectZIPFormat inspects a ZIP archive to determine if it's DOCX or ODT.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	for _, f := range zr.File {
		if f.Name != "mimetype" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			break
		}
		data := make([]byte, 256)
		n, _ := io.ReadFull(rc, data)
		rc.Close()
		if strings.Contains(string(data[:n]), "application/vnd.oasis.opendocument.text") {
			return ODT, nil
		}
	}

	hasContentTypes := false
	hasWord := false
	for _, f := range zr.File {
		switch {
		case f.Name == "[Content_Types].xml":
			hasContentTypes = true
		case strings.HasPrefix(f.Name, "word/"):
			hasWord = true
		}
	}
	if hasContentTypes && hasWord {
		return DOCX, nil
	}
	return ZIP, nil
}
