// Package format provides presentation container detection for slidetext.
package format

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned by Check for inputs that are not an OOXML
// presentation package.
var ErrUnsupported = errors.New("format: unsupported presentation format")

// Format represents a detected container format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PPTX indicates a PowerPoint presentation (.pptx).
	PPTX
	// PPTM indicates a macro-enabled presentation (.pptm).
	PPTM
	// PPSX indicates a PowerPoint show (.ppsx).
	PPSX
	// POTX indicates a PowerPoint template (.potx).
	POTX
	// Legacy indicates an OLE compound file such as a binary .ppt, which
	// cannot be read as a zip package.
	Legacy
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PPTX:
		return "PPTX"
	case PPTM:
		return "PPTM"
	case PPSX:
		return "PPSX"
	case POTX:
		return "POTX"
	case Legacy:
		return "Legacy"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PPTX:
		return ".pptx"
	case PPTM:
		return ".pptm"
	case PPSX:
		return ".ppsx"
	case POTX:
		return ".potx"
	case Legacy:
		return ".ppt"
	default:
		return ""
	}
}

// IsPresentation reports whether f is an OOXML presentation package the
// pptx reader can open.
func (f Format) IsPresentation() bool {
	switch f {
	case PPTX, PPTM, PPSX, POTX:
		return true
	}
	return false
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pptx":
		return PPTX
	case ".pptm":
		return PPTM
	case ".ppsx":
		return PPSX
	case ".potx":
		return POTX
	case ".ppt", ".pps", ".pot":
		return Legacy
	default:
		return Unknown
	}
}

var (
	zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Main part content types of the presentation package variants.
var mainContentTypes = []struct {
	contentType string
	format      Format
}{
	{"application/vnd.ms-powerpoint.presentation.macroEnabled.main+xml", PPTM},
	{"application/vnd.openxmlformats-officedocument.presentationml.slideshow.main+xml", PPSX},
	{"application/vnd.openxmlformats-officedocument.presentationml.template.main+xml", POTX},
	{"application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml", PPTX},
}

// DetectFromReader inspects the content to determine format. This is more
// reliable than extension-based detection: object storage keys and upload
// names frequently lack a meaningful extension.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 8)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if bytes.HasPrefix(magic, oleMagic) {
		return Legacy, nil
	}
	if bytes.HasPrefix(magic, zipMagic) {
		return detectZIPFormat(r, size)
	}
	return Unknown, nil
}

// Check returns ErrUnsupported unless the content is a presentation package.
func Check(r io.ReaderAt, size int64) (Format, error) {
	f, err := DetectFromReader(r, size)
	if err != nil {
		return Unknown, err
	}
	if !f.IsPresentation() {
		return f, ErrUnsupported
	}
	return f, nil
}

// detectZIPFormat inspects a ZIP archive for the presentation main part.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	hasPPT := false
	for _, f := range zr.File {
		switch {
		case f.Name == "[Content_Types].xml":
			rc, err := f.Open()
			if err != nil {
				continue
			}
			data, err := io.ReadAll(io.LimitReader(rc, 1<<20))
			rc.Close()
			if err != nil {
				continue
			}
			for _, ct := range mainContentTypes {
				if bytes.Contains(data, []byte(ct.contentType)) {
					return ct.format, nil
				}
			}
		case strings.HasPrefix(f.Name, "ppt/"):
			hasPPT = true
		}
	}

	if hasPPT {
		return PPTX, nil
	}
	return Unknown, nil
}
