package pptx

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
)

// ErrNoImage is returned by Slide.Image for shapes that carry no embedded
// picture blob.
var ErrNoImage = errors.New("pptx: shape has no embedded image")

// ErrLinkedImage is returned by Slide.Image for pictures that reference an
// external file instead of embedding it.
var ErrLinkedImage = errors.New("pptx: image is linked, not embedded")

// ShapeKind identifies the element type of a shape in the slide shape tree.
type ShapeKind int

const (
	// KindAutoShape is a p:sp element: text boxes, placeholders, geometric shapes.
	KindAutoShape ShapeKind = iota
	// KindPicture is a p:pic element.
	KindPicture
	// KindGroup is a p:grpSp element. Its members are not flattened.
	KindGroup
	// KindGraphicFrame is a p:graphicFrame element: tables, charts, SmartArt.
	KindGraphicFrame
	// KindConnector is a p:cxnSp element (lines and connectors).
	KindConnector
	// KindContentPart is a p:contentPart element (ink).
	KindContentPart
)

// String returns the string representation of the shape kind.
func (k ShapeKind) String() string {
	switch k {
	case KindAutoShape:
		return "autoShape"
	case KindPicture:
		return "picture"
	case KindGroup:
		return "group"
	case KindGraphicFrame:
		return "graphicFrame"
	case KindConnector:
		return "connector"
	case KindContentPart:
		return "contentPart"
	default:
		return "unknown"
	}
}

// Shape is a read-only view of one element of a slide's shape tree.
type Shape struct {
	ID           int
	Name         string
	Kind         ShapeKind
	Placeholder  string // Placeholder type (title, body, pic, etc.), empty if none
	HasTextFrame bool   // Shape carries a p:txBody
	Text         string // Paragraphs joined with "\n"; line breaks are "\v"

	embed string // r:embed relationship ID for pictures
	link  string // r:link relationship ID for linked pictures
}

// Slide represents a parsed slide.
type Slide struct {
	Number   int     // 1-based position in presentation order
	Shapes   []Shape // Shape tree in document order
	HasNotes bool    // A notes slide is attached
	Notes    string  // Text of the notes body placeholder

	path  string
	rels  map[string]relationshipXML
	files map[string]*zip.File
}

// Image returns the raw bytes of the picture embedded by a picture shape.
// The bytes are read from the archive on each call so that callers can
// release them before moving to the next shape.
func (s *Slide) Image(sh Shape) ([]byte, error) {
	f, err := s.imagePart(sh)
	if err != nil {
		return nil, err
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// ImageSize returns the uncompressed size of the picture embedded by a
// picture shape without reading it.
func (s *Slide) ImageSize(sh Shape) (int64, error) {
	f, err := s.imagePart(sh)
	if err != nil {
		return 0, err
	}
	return int64(f.UncompressedSize64), nil
}

// imagePart resolves a picture shape's blip relationship to its archive entry.
func (s *Slide) imagePart(sh Shape) (*zip.File, error) {
	if sh.Kind != KindPicture {
		return nil, ErrNoImage
	}
	if sh.embed == "" {
		if sh.link == "" {
			return nil, ErrNoImage
		}
		target := sh.link
		if rel, ok := s.rels[sh.link]; ok {
			target = rel.Target
		}
		return nil, fmt.Errorf("%w: %s", ErrLinkedImage, target)
	}

	rel, ok := s.rels[sh.embed]
	if !ok {
		return nil, fmt.Errorf("image relationship %s not found for %s", sh.embed, s.path)
	}
	if rel.TargetMode == "External" {
		return nil, fmt.Errorf("%w: %s", ErrLinkedImage, rel.Target)
	}

	name := resolveTarget(s.path, rel.Target)
	f, ok := s.files[name]
	if !ok {
		return nil, fmt.Errorf("image part not found: %s", name)
	}
	return f, nil
}

// newShape converts a decoded shape element into its public form.
func newShape(s shapeXML) Shape {
	var sh Shape
	sh.Kind = s.Kind

	switch {
	case s.Sp != nil:
		sh.ID = s.Sp.NvSpPr.CNvPr.ID
		sh.Name = s.Sp.NvSpPr.CNvPr.Name
		if s.Sp.NvSpPr.NvPr.Ph != nil {
			sh.Placeholder = placeholderType(s.Sp.NvSpPr.NvPr.Ph)
		}
		if s.Sp.TxBody != nil {
			sh.HasTextFrame = true
			sh.Text = normalizeText(s.Sp.TxBody.text())
		}
	case s.Pic != nil:
		sh.ID = s.Pic.NvPicPr.CNvPr.ID
		sh.Name = s.Pic.NvPicPr.CNvPr.Name
		if s.Pic.NvPicPr.NvPr.Ph != nil {
			sh.Placeholder = placeholderType(s.Pic.NvPicPr.NvPr.Ph)
		}
		sh.embed = s.Pic.BlipFill.Blip.Embed
		sh.link = s.Pic.BlipFill.Blip.Link
	case s.GraphicFrame != nil:
		sh.ID = s.GraphicFrame.NvGraphicFramePr.CNvPr.ID
		sh.Name = s.GraphicFrame.NvGraphicFramePr.CNvPr.Name
	case s.GrpSp != nil:
		sh.ID = s.GrpSp.NvGrpSpPr.CNvPr.ID
		sh.Name = s.GrpSp.NvGrpSpPr.CNvPr.Name
	case s.CxnSp != nil:
		sh.ID = s.CxnSp.NvCxnSpPr.CNvPr.ID
		sh.Name = s.CxnSp.NvCxnSpPr.CNvPr.Name
	}

	return sh
}

// placeholderType returns the placeholder type, defaulting to "obj" as the
// schema does when the type attribute is omitted.
func placeholderType(ph *phXML) string {
	if ph.Type == "" {
		return "obj"
	}
	return ph.Type
}
