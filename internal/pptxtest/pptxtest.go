// Package pptxtest builds small PPTX packages in memory for tests.
package pptxtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
)

const (
	nsP = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsA = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	relSlide      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relNotesSlide = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
	relImage      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// Shape is one element of a slide shape tree.
type Shape struct {
	xml   string
	media []byte // picture blob, nil for non-pictures
	ext   string
	link  string // external picture target
}

// Text returns a text box whose paragraphs are the given strings.
func Text(name string, paragraphs ...string) Shape {
	var ps strings.Builder
	for _, p := range paragraphs {
		ps.WriteString(`<a:p><a:r><a:t>` + verbEscape(p) + `</a:t></a:r></a:p>`)
	}
	return Shape{xml: `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="` + verbEscape(name) + `"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/>` +
		`<p:txBody><a:bodyPr/>` + ps.String() + `</p:txBody></p:sp>`}
}

// Placeholder returns a placeholder shape of the given type with text.
func Placeholder(phType, text string) Shape {
	return Shape{xml: `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="` + verbEscape(phType) + `"/><p:cNvSpPr/><p:nvPr><p:ph type="` + phType + `"/></p:nvPr></p:nvSpPr><p:spPr/>` +
		`<p:txBody><a:bodyPr/><a:p><a:r><a:t>` + verbEscape(text) + `</a:t></a:r></a:p></p:txBody></p:sp>`}
}

// Raw returns a shape from literal XML. A "%d" verb is replaced by the shape ID.
func Raw(xml string) Shape {
	return Shape{xml: xml}
}

// Picture returns a picture shape embedding data as media with extension ext.
func Picture(name string, data []byte, ext string) Shape {
	return Shape{
		xml: `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="` + verbEscape(name) + `"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>` +
			`<p:blipFill><a:blip r:embed="%s"/></p:blipFill><p:spPr/></p:pic>`,
		media: data,
		ext:   ext,
	}
}

// PlaceholderPicture returns a picture that fills a placeholder of type
// "pic", as the "Picture with Caption" layout produces.
func PlaceholderPicture(name string, data []byte, ext string) Shape {
	return Shape{
		xml: `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="` + verbEscape(name) + `"/><p:cNvPicPr/><p:nvPr><p:ph type="pic" idx="1"/></p:nvPr></p:nvPicPr>` +
			`<p:blipFill><a:blip r:embed="%s"/></p:blipFill><p:spPr/></p:pic>`,
		media: data,
		ext:   ext,
	}
}

// LinkedPicture returns a picture whose blip links to an external file
// instead of embedding it.
func LinkedPicture(name, target string) Shape {
	return Shape{
		xml: `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="` + verbEscape(name) + `"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>` +
			`<p:blipFill><a:blip r:link="%s"/></p:blipFill><p:spPr/></p:pic>`,
		link: target,
	}
}

// BrokenPicture returns a picture shape whose relationship does not exist.
func BrokenPicture(name string) Shape {
	return Shape{
		xml: `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="` + verbEscape(name) + `"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>` +
			`<p:blipFill><a:blip r:embed="rIdMissing"/></p:blipFill><p:spPr/></p:pic>`,
	}
}

// Line returns a connector shape.
func Line(name string) Shape {
	return Shape{xml: `<p:cxnSp><p:nvCxnSpPr><p:cNvPr id="%d" name="` + verbEscape(name) + `"/><p:cNvCxnSpPr/><p:nvPr/></p:nvCxnSpPr><p:spPr/></p:cxnSp>`}
}

// Table returns a graphic frame holding a one-cell table.
func Table(name, cell string) Shape {
	return Shape{xml: `<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="` + verbEscape(name) + `"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>` +
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table"><a:tbl><a:tblGrid><a:gridCol w="100"/></a:tblGrid>` +
		`<a:tr h="10"><a:tc><a:txBody><a:bodyPr/><a:p><a:r><a:t>` + verbEscape(cell) + `</a:t></a:r></a:p></a:txBody></a:tc></a:tr></a:tbl></a:graphicData></a:graphic></p:graphicFrame>`}
}

// Group returns a group shape containing a text box.
func Group(name, innerText string) Shape {
	return Shape{xml: `<p:grpSp><p:nvGrpSpPr><p:cNvPr id="%d" name="` + verbEscape(name) + `"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		`<p:sp><p:nvSpPr><p:cNvPr id="900" name="inner"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:p><a:r><a:t>` + verbEscape(innerText) + `</a:t></a:r></a:p></p:txBody></p:sp></p:grpSp>`}
}

// Slide describes one slide of a deck.
type Slide struct {
	Shapes  []Shape
	Notes   string // Notes body text; empty means no notes slide
	Corrupt bool   // Write malformed slide XML
}

// Deck describes a presentation.
type Deck struct {
	Slides []Slide
	Title  string
}

// Build writes the deck as a PPTX package and returns its bytes.
func (d Deck) Build() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	write := func(name, content string) error {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		_, err = w.Write([]byte(content))
		return err
	}
	writeBytes := func(name string, content []byte) error {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		_, err = w.Write(content)
		return err
	}

	var overrides, presRels, sldIDs strings.Builder
	for i := range d.Slides {
		n := i + 1
		fmt.Fprintf(&overrides, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, n)
		fmt.Fprintf(&presRels, `<Relationship Id="rId%d" Type="%s" Target="slides/slide%d.xml"/>`, n, relSlide, n)
		fmt.Fprintf(&sldIDs, `<p:sldId id="%d" r:id="rId%d"/>`, 255+n, n)
	}

	files := []struct{ name, content string }{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Default Extension="png" ContentType="image/png"/><Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>` + overrides.String() + `</Types>`},
		{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/></Relationships>`},
		{"ppt/_rels/presentation.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` + presRels.String() + `</Relationships>`},
		{"ppt/presentation.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:p="` + nsP + `" xmlns:r="` + nsR + `"><p:sldIdLst>` + sldIDs.String() + `</p:sldIdLst><p:sldSz cx="9144000" cy="6858000"/></p:presentation>`},
	}
	if d.Title != "" {
		files = append(files, struct{ name, content string }{"docProps/core.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>` + escape(d.Title) + `</dc:title><dc:creator>pptxtest</dc:creator></cp:coreProperties>`})
	}
	for _, f := range files {
		if err := write(f.name, f.content); err != nil {
			return nil, err
		}
	}

	media := 0
	for i, s := range d.Slides {
		n := i + 1
		var tree, rels strings.Builder
		for j, sh := range s.Shapes {
			id := j + 2
			switch {
			case sh.media != nil:
				media++
				rid := fmt.Sprintf("rId%d", 100+j)
				fmt.Fprintf(&tree, sh.xml, id, rid)
				fmt.Fprintf(&rels, `<Relationship Id="%s" Type="%s" Target="../media/image%d.%s"/>`, rid, relImage, media, sh.ext)
				if err := writeBytes(fmt.Sprintf("ppt/media/image%d.%s", media, sh.ext), sh.media); err != nil {
					return nil, err
				}
			case sh.link != "":
				rid := fmt.Sprintf("rId%d", 100+j)
				fmt.Fprintf(&tree, sh.xml, id, rid)
				fmt.Fprintf(&rels, `<Relationship Id="%s" Type="%s" Target="%s" TargetMode="External"/>`, rid, relImage, escape(sh.link))
			case strings.Contains(sh.xml, "%d"):
				fmt.Fprintf(&tree, sh.xml, id)
			default:
				tree.WriteString(sh.xml)
			}
		}

		body := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:p="` + nsP + `" xmlns:a="` + nsA + `" xmlns:r="` + nsR + `"><p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
			tree.String() + `</p:spTree></p:cSld></p:sld>`
		if s.Corrupt {
			body = `<?xml version="1.0"?><p:sld xmlns:p="` + nsP + `"><p:cSld><p:spTree><p:sp>`
		}
		if err := write(fmt.Sprintf("ppt/slides/slide%d.xml", n), body); err != nil {
			return nil, err
		}

		if s.Notes != "" {
			fmt.Fprintf(&rels, `<Relationship Id="rIdNotes" Type="%s" Target="../notesSlides/notesSlide%d.xml"/>`, relNotesSlide, n)
			notes := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:notes xmlns:p="` + nsP + `" xmlns:a="` + nsA + `" xmlns:r="` + nsR + `"><p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
				`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Slide Image"/><p:cNvSpPr/><p:nvPr><p:ph type="sldImg"/></p:nvPr></p:nvSpPr><p:spPr/></p:sp>` +
				`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Notes"/><p:cNvSpPr/><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:p><a:r><a:t>` + escape(s.Notes) + `</a:t></a:r></a:p></p:txBody></p:sp>` +
				`<p:sp><p:nvSpPr><p:cNvPr id="4" name="Slide Number"/><p:cNvSpPr/><p:nvPr><p:ph type="sldNum" idx="5"/></p:nvPr></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:p><a:r><a:t>` + fmt.Sprint(n) + `</a:t></a:r></a:p></p:txBody></p:sp>` +
				`</p:spTree></p:cSld></p:notes>`
			if err := write(fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", n), notes); err != nil {
				return nil, err
			}
		}

		if rels.Len() > 0 {
			if err := write(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`+rels.String()+`</Relationships>`); err != nil {
				return nil, err
			}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MustBuild is like Build but panics on error.
func (d Deck) MustBuild() []byte {
	data, err := d.Build()
	if err != nil {
		panic(err)
	}
	return data
}

// PNG returns an encoded white PNG of the given size with an optional
// transparent region in its left half when alpha is true.
func PNG(width, height int, alpha bool) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			if alpha && x < width/2 {
				c = color.NRGBA{A: 0}
			}
			img.SetNRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string {
	return xmlEscaper.Replace(s)
}

// verbEscape escapes s for shape templates that later pass through fmt.
func verbEscape(s string) string {
	return strings.ReplaceAll(escape(s), "%", "%%")
}
