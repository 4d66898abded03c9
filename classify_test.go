package slidetext

import (
	"testing"

	"github.com/tsawler/slidetext/pptx"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		shape pptx.Shape
		want  Classification
	}{
		{"text box", pptx.Shape{Kind: pptx.KindAutoShape, HasTextFrame: true, Text: "  Hello \n"}, Classification{ClassText, "Hello"}},
		{"empty text box", pptx.Shape{Kind: pptx.KindAutoShape, HasTextFrame: true, Text: " \v\n "}, Classification{Class: ClassIgnore}},
		{"empty title placeholder", pptx.Shape{Kind: pptx.KindAutoShape, Placeholder: "title", HasTextFrame: true}, Classification{Class: ClassIgnore}},
		{"picture", pptx.Shape{Kind: pptx.KindPicture}, Classification{Class: ClassPicture}},
		{"picture with empty text frame", pptx.Shape{Kind: pptx.KindPicture, HasTextFrame: true, Text: "  "}, Classification{Class: ClassPicture}},
		{"picture placeholder", pptx.Shape{Kind: pptx.KindPicture, Placeholder: "pic"}, Classification{Class: ClassIgnore}},
		{"picture in content placeholder", pptx.Shape{Kind: pptx.KindPicture, Placeholder: "obj"}, Classification{Class: ClassIgnore}},
		{"picture with text", pptx.Shape{Kind: pptx.KindPicture, HasTextFrame: true, Text: "Logo"}, Classification{ClassText, "Logo"}},
		{"text without frame", pptx.Shape{Kind: pptx.KindAutoShape, Text: "stray"}, Classification{Class: ClassIgnore}},
		{"connector", pptx.Shape{Kind: pptx.KindConnector}, Classification{Class: ClassIgnore}},
		{"table", pptx.Shape{Kind: pptx.KindGraphicFrame}, Classification{Class: ClassIgnore}},
		{"group", pptx.Shape{Kind: pptx.KindGroup}, Classification{Class: ClassIgnore}},
		{"content part", pptx.Shape{Kind: pptx.KindContentPart}, Classification{Class: ClassIgnore}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.shape); got != tt.want {
				t.Errorf("Classify() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestShapeClassString(t *testing.T) {
	tests := []struct {
		class ShapeClass
		want  string
	}{
		{ClassIgnore, "ignore"},
		{ClassText, "text"},
		{ClassPicture, "picture"},
		{ShapeClass(42), "ignore"},
	}
	for _, tt := range tests {
		if got := tt.class.String(); got != tt.want {
			t.Errorf("ShapeClass(%d).String() = %q, want %q", tt.class, got, tt.want)
		}
	}
}
