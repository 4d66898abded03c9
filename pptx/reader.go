package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/unicode/norm"
)

// ErrNoSlides is returned when a presentation contains no slide parts.
var ErrNoSlides = errors.New("pptx: no slides found in presentation")

// Reader provides access to PPTX document content. Slides are parsed on
// demand by Slide; opening a Reader only reads the package structure.
type Reader struct {
	zipReader    *zip.Reader
	closer       io.Closer
	files        map[string]*zip.File
	presentation *presentationXML
	slidePaths   []string
	coreProps    *corePropertiesXML
	appProps     *appPropertiesXML
}

// Metadata holds document properties from docProps.
type Metadata struct {
	Title       string
	Author      string
	Subject     string
	Keywords    []string
	Application string
	Slides      int // Slide count recorded by the authoring application
}

// Open opens a PPTX file for reading.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	r, err := newReader(&zr.Reader)
	if err != nil {
		zr.Close()
		return nil, err
	}
	r.closer = zr
	return r, nil
}

// New creates a Reader over an in-memory or otherwise random-access PPTX.
func New(ra io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	return newReader(zr)
}

func newReader(zr *zip.Reader) (*Reader, error) {
	r := &Reader{
		zipReader: zr,
		files:     make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		r.files[f.Name] = f
	}

	// Validate required files exist
	if err := r.validate(); err != nil {
		return nil, err
	}

	// Parse presentation to get slide order
	if err := r.parsePresentation(); err != nil {
		return nil, fmt.Errorf("parsing presentation: %w", err)
	}

	r.slidePaths = r.orderedSlidePaths()
	if len(r.slidePaths) == 0 {
		return nil, ErrNoSlides
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

// validate checks that required PPTX files exist.
func (r *Reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		"ppt/presentation.xml",
	}

	for _, name := range required {
		if _, ok := r.files[name]; !ok {
			return fmt.Errorf("missing required file: %s", name)
		}
	}
	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	f, ok := r.files[name]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// decodeXML unmarshals a package part, honouring non-UTF-8 encodings
// declared in the XML prolog.
func decodeXML(data []byte, v any) error {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.CharsetReader = charset.NewReaderLabel
	return d.Decode(v)
}

// parsePresentation parses the main presentation file.
func (r *Reader) parsePresentation() error {
	data, err := r.getFileContent("ppt/presentation.xml")
	if err != nil {
		return err
	}

	r.presentation = &presentationXML{}
	return decodeXML(data, r.presentation)
}

// parseRels parses the relationships part belonging to partPath.
func (r *Reader) parseRels(partPath string) (map[string]relationshipXML, error) {
	relsPath := path.Join(path.Dir(partPath), "_rels", path.Base(partPath)+".rels")

	data, err := r.getFileContent(relsPath)
	if err != nil {
		return nil, err
	}

	var rels relationshipsXML
	if err := decodeXML(data, &rels); err != nil {
		return nil, err
	}

	m := make(map[string]relationshipXML, len(rels.Relationship))
	for _, rel := range rels.Relationship {
		m[rel.ID] = rel
	}
	return m, nil
}

// orderedSlidePaths returns the slide part names in presentation order. The
// slide ID list is authoritative; when it is absent or unresolvable the
// slide parts are ordered by their file number.
func (r *Reader) orderedSlidePaths() []string {
	if r.presentation.SlideIdList != nil && len(r.presentation.SlideIdList.SlideId) > 0 {
		rels, err := r.parseRels("ppt/presentation.xml")
		if err == nil {
			paths := make([]string, 0, len(r.presentation.SlideIdList.SlideId))
			for _, id := range r.presentation.SlideIdList.SlideId {
				rel, ok := rels[id.RID]
				if !ok || !strings.HasSuffix(rel.Type, relTypeSlide) {
					continue
				}
				paths = append(paths, resolveTarget("ppt/presentation.xml", rel.Target))
			}
			if len(paths) > 0 {
				return paths
			}
		}
	}

	slideFiles := make([]string, 0)
	for name := range r.files {
		if strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml") {
			slideFiles = append(slideFiles, name)
		}
	}

	// Sort slides by number
	sort.Slice(slideFiles, func(i, j int) bool {
		return extractSlideNumber(slideFiles[i]) < extractSlideNumber(slideFiles[j])
	})
	return slideFiles
}

// extractSlideNumber extracts the slide number from a path like "ppt/slides/slide1.xml"
func extractSlideNumber(path string) int {
	name := strings.TrimPrefix(path, "ppt/slides/slide")
	name = strings.TrimSuffix(name, ".xml")
	var num int
	fmt.Sscanf(name, "%d", &num)
	return num
}

// resolveTarget resolves a relationship target relative to the part that
// owns the relationship.
func resolveTarget(partPath, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Join(path.Dir(partPath), target)
}

// SlideCount returns the number of slides without parsing any slide.
func (r *Reader) SlideCount() int {
	return len(r.slidePaths)
}

// Slide parses and returns the slide at the given index (0-indexed).
func (r *Reader) Slide(index int) (*Slide, error) {
	if index < 0 || index >= len(r.slidePaths) {
		return nil, fmt.Errorf("slide index %d out of range (0-%d)", index, len(r.slidePaths)-1)
	}
	slidePath := r.slidePaths[index]

	data, err := r.getFileContent(slidePath)
	if err != nil {
		return nil, fmt.Errorf("reading slide %d: %w", index+1, err)
	}

	var sx slideXML
	if err := decodeXML(data, &sx); err != nil {
		return nil, fmt.Errorf("parsing slide %d: %w", index+1, err)
	}

	slide := &Slide{
		Number: index + 1,
		Shapes: make([]Shape, 0, len(sx.CSld.SpTree.Shapes)),
		path:   slidePath,
		files:  r.files,
	}
	for _, s := range sx.CSld.SpTree.Shapes {
		slide.Shapes = append(slide.Shapes, newShape(s))
	}

	// Relationships are optional; a slide without them has no pictures or notes.
	rels, err := r.parseRels(slidePath)
	if err != nil {
		rels = map[string]relationshipXML{}
	}
	slide.rels = rels

	r.parseSlideNotes(slide)

	return slide, nil
}

// parseSlideNotes parses speaker notes for a slide. The notes text is the
// text of the notes body placeholder; other shapes on the notes page
// (slide image, slide number, header, footer) are not notes.
func (r *Reader) parseSlideNotes(slide *Slide) {
	var notesPath string
	for _, rel := range slide.rels {
		if strings.HasSuffix(rel.Type, relTypeNotesSlide) {
			notesPath = resolveTarget(slide.path, rel.Target)
			break
		}
	}
	if notesPath == "" {
		return
	}

	data, err := r.getFileContent(notesPath)
	if err != nil {
		return
	}

	var notes notesSlideXML
	if err := decodeXML(data, &notes); err != nil {
		return
	}
	slide.HasNotes = true

	for _, s := range notes.CSld.SpTree.Shapes {
		if s.Sp == nil || s.Sp.NvSpPr.NvPr.Ph == nil || s.Sp.NvSpPr.NvPr.Ph.Type != "body" {
			continue
		}
		slide.Notes = normalizeText(s.Sp.TxBody.text())
		return
	}
}

// normalizeText puts native text into Unicode normalization form C so that
// composed and decomposed spellings of the same word compare equal.
func normalizeText(s string) string {
	return norm.NFC.String(s)
}

// parseCoreProperties parses Dublin Core metadata.
func (r *Reader) parseCoreProperties() {
	data, err := r.getFileContent("docProps/core.xml")
	if err != nil {
		return
	}

	props := &corePropertiesXML{}
	if decodeXML(data, props) == nil {
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
	if decodeXML(data, props) == nil {
		r.appProps = props
	}
}

// Metadata returns document metadata.
func (r *Reader) Metadata() Metadata {
	meta := Metadata{}
	if r.coreProps != nil {
		meta.Title = r.coreProps.Title
		meta.Author = r.coreProps.Creator
		meta.Subject = r.coreProps.Subject
		if r.coreProps.Keywords != "" {
			meta.Keywords = strings.Split(r.coreProps.Keywords, ",")
			for i, kw := range meta.Keywords {
				meta.Keywords[i] = strings.TrimSpace(kw)
			}
		}
	}
	if r.appProps != nil {
		meta.Application = r.appProps.Application
		meta.Slides = r.appProps.Slides
	}
	return meta
}
