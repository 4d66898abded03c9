package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	// Formats PowerPoint embeds besides PNG and JPEG.
	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode decodes an embedded picture in any registered format.
func Decode(data []byte) (image.Image, string, error) {
	img, kind, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}
	return img, kind, nil
}

// Normalize prepares an image for recognition. Transparent images are first
// flattened onto an opaque white background so that transparent regions read
// as paper rather than ink; the result is converted to 8-bit grayscale.
func Normalize(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(b)

	if isOpaque(img) {
		draw.Draw(gray, b, img, b.Min, draw.Src)
		return gray
	}

	flat := image.NewRGBA(b)
	draw.Draw(flat, b, image.White, image.Point{}, draw.Src)
	draw.Draw(flat, b, img, b.Min, draw.Over)
	draw.Draw(gray, b, flat, b.Min, draw.Src)
	return gray
}

// isOpaque reports whether img has no alpha channel or is fully opaque.
func isOpaque(img image.Image) bool {
	switch img.(type) {
	case *image.Gray, *image.Gray16, *image.YCbCr, *image.CMYK:
		return true
	}
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

// EncodePNG encodes a normalized image for handing to an Engine.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
