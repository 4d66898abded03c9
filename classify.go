package slidetext

import (
	"strings"

	"github.com/tsawler/slidetext/pptx"
)

// ShapeClass is the role a shape plays in slide text assembly.
type ShapeClass int

const (
	// ClassIgnore marks shapes that contribute nothing: lines, tables,
	// groups, and empty placeholders.
	ClassIgnore ShapeClass = iota
	// ClassText marks shapes whose text frame has non-whitespace content.
	ClassText
	// ClassPicture marks free-standing picture shapes, which are routed to
	// OCR. Pictures filling a placeholder are ignored.
	ClassPicture
)

// String returns the class name.
func (c ShapeClass) String() string {
	switch c {
	case ClassText:
		return "text"
	case ClassPicture:
		return "picture"
	default:
		return "ignore"
	}
}

// Classification is the result of classifying one shape. Text is set only
// for ClassText and is already trimmed.
type Classification struct {
	Class ShapeClass
	Text  string
}

// classRule maps a shape predicate to a class.
type classRule struct {
	class ShapeClass
	match func(pptx.Shape) bool
}

// classRules are evaluated in order and the first match wins. Text content
// is checked before picture type, so a picture carrying a non-empty text
// frame contributes its text and is not sent to OCR.
var classRules = []classRule{
	{ClassText, hasTextContent},
	{ClassPicture, isPicture},
}

// Classify decides how a shape contributes to its slide record. Group and
// table shapes are ignored; their nested text is not extracted.
func Classify(sh pptx.Shape) Classification {
	for _, rule := range classRules {
		if !rule.match(sh) {
			continue
		}
		if rule.class == ClassText {
			return Classification{Class: ClassText, Text: strings.TrimSpace(sh.Text)}
		}
		return Classification{Class: rule.class}
	}
	return Classification{Class: ClassIgnore}
}

func hasTextContent(sh pptx.Shape) bool {
	return sh.HasTextFrame && strings.TrimSpace(sh.Text) != ""
}

func isPicture(sh pptx.Shape) bool {
	return sh.Kind == pptx.KindPicture && sh.Placeholder == ""
}
