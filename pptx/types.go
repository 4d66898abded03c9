// Package pptx provides PPTX (Office Open XML Presentation) document parsing.
package pptx

import (
	"encoding/xml"
	"strings"
)

// Relationship type suffixes. Transitional and Strict OOXML use different
// namespace prefixes for the same relationship names.
const (
	relTypeSlide      = "/slide"
	relTypeNotesSlide = "/notesSlide"
)

// presentationXML represents the ppt/presentation.xml file structure.
type presentationXML struct {
	XMLName     xml.Name        `xml:"presentation"`
	SlideIdList *slideIdListXML `xml:"sldIdLst"`
}

type slideIdListXML struct {
	SlideId []slideIdXML `xml:"sldId"`
}

type slideIdXML struct {
	ID  string `xml:"id,attr"`
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"` // r:id attribute for relationship
}

// slideXML represents a ppt/slides/slide*.xml file structure.
type slideXML struct {
	XMLName xml.Name `xml:"sld"`
	CSld    cSldXML  `xml:"cSld"`
}

type cSldXML struct {
	SpTree spTreeXML `xml:"spTree"`
}

// spTreeXML represents the shape tree of a slide. Unlike a field-per-kind
// mapping, it records the child shapes in the order they appear so that
// traversal matches the z-order PowerPoint uses.
type spTreeXML struct {
	Shapes []shapeXML
}

// shapeXML holds exactly one decoded shape element.
type shapeXML struct {
	Kind         ShapeKind
	Sp           *spXML
	Pic          *picXML
	GraphicFrame *graphicFrameXML
	GrpSp        *grpSpXML
	CxnSp        *cxnSpXML
}

// UnmarshalXML decodes the shape tree children in document order.
func (t *spTreeXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch el := tok.(type) {
		case xml.EndElement:
			return nil
		case xml.StartElement:
			var s shapeXML
			switch el.Name.Local {
			case "sp":
				s.Kind = KindAutoShape
				s.Sp = &spXML{}
				err = d.DecodeElement(s.Sp, &el)
			case "pic":
				s.Kind = KindPicture
				s.Pic = &picXML{}
				err = d.DecodeElement(s.Pic, &el)
			case "graphicFrame":
				s.Kind = KindGraphicFrame
				s.GraphicFrame = &graphicFrameXML{}
				err = d.DecodeElement(s.GraphicFrame, &el)
			case "grpSp":
				s.Kind = KindGroup
				s.GrpSp = &grpSpXML{}
				err = d.DecodeElement(s.GrpSp, &el)
			case "cxnSp":
				s.Kind = KindConnector
				s.CxnSp = &cxnSpXML{}
				err = d.DecodeElement(s.CxnSp, &el)
			case "contentPart":
				s.Kind = KindContentPart
				err = d.Skip()
			default:
				// nvGrpSpPr, grpSpPr, extLst, mc:AlternateContent
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			if err != nil {
				return err
			}
			t.Shapes = append(t.Shapes, s)
		}
	}
}

type nvGrpSpPrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
}

type cNvPrXML struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

// spXML represents a shape element.
type spXML struct {
	NvSpPr nvSpPrXML  `xml:"nvSpPr"`
	TxBody *txBodyXML `xml:"txBody"`
}

type nvSpPrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
	NvPr  nvPrXML  `xml:"nvPr"`
}

type nvPrXML struct {
	Ph *phXML `xml:"ph"` // Placeholder info
}

type phXML struct {
	Type string `xml:"type,attr"` // title, body, subTitle, ctrTitle, etc.
}

// txBodyXML represents text body content.
type txBodyXML struct {
	P []pXML `xml:"p"` // Paragraphs
}

// text joins the paragraphs of a text body with newlines.
func (b *txBodyXML) text() string {
	if b == nil {
		return ""
	}
	parts := make([]string, len(b.P))
	for i, p := range b.P {
		parts[i] = p.Text
	}
	return strings.Join(parts, "\n")
}

// pXML represents a paragraph. Runs, fields and line breaks are flattened
// into Text in document order; a line break becomes a vertical tab.
type pXML struct {
	Text string
}

// UnmarshalXML collects the paragraph text in document order.
func (p *pXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var sb strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch el := tok.(type) {
		case xml.EndElement:
			p.Text = sb.String()
			return nil
		case xml.StartElement:
			switch el.Name.Local {
			case "r", "fld":
				var run rXML
				if err := d.DecodeElement(&run, &el); err != nil {
					return err
				}
				sb.WriteString(run.T)
			case "br":
				sb.WriteString("\v")
				if err := d.Skip(); err != nil {
					return err
				}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		}
	}
}

// rXML represents a text run or a field; both carry their text in a:t.
type rXML struct {
	T string `xml:"t"`
}

// picXML represents a picture element.
type picXML struct {
	NvPicPr  nvPicPrXML  `xml:"nvPicPr"`
	BlipFill blipFillXML `xml:"blipFill"`
}

type nvPicPrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
	NvPr  nvPrXML  `xml:"nvPr"`
}

type blipFillXML struct {
	Blip blipXML `xml:"blip"`
}

type blipXML struct {
	Embed string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships embed,attr"` // r:embed relationship ID
	Link  string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships link,attr"`  // r:link relationship ID
}

// graphicFrameXML represents a graphic frame (tables, charts, diagrams).
type graphicFrameXML struct {
	NvGraphicFramePr nvGrpSpPrXML `xml:"nvGraphicFramePr"`
}

// grpSpXML represents a group of shapes. Group members are not traversed.
type grpSpXML struct {
	NvGrpSpPr nvGrpSpPrXML `xml:"nvGrpSpPr"`
}

// cxnSpXML represents a connector (line) shape.
type cxnSpXML struct {
	NvCxnSpPr nvGrpSpPrXML `xml:"nvCxnSpPr"`
}

// notesSlideXML represents a ppt/notesSlides/notesSlide*.xml file.
type notesSlideXML struct {
	XMLName xml.Name `xml:"notes"`
	CSld    cSldXML  `xml:"cSld"`
}

// relationshipsXML represents .rels files.
type relationshipsXML struct {
	XMLName      xml.Name          `xml:"Relationships"`
	Relationship []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// corePropertiesXML represents docProps/core.xml.
type corePropertiesXML struct {
	XMLName  xml.Name `xml:"coreProperties"`
	Title    string   `xml:"title"`
	Subject  string   `xml:"subject"`
	Creator  string   `xml:"creator"`
	Keywords string   `xml:"keywords"`
}

// appPropertiesXML represents docProps/app.xml.
type appPropertiesXML struct {
	XMLName     xml.Name `xml:"Properties"`
	Application string   `xml:"Application"`
	Slides      int      `xml:"Slides"`
}
