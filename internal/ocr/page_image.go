package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	// decoders for page images handed to preparePage
	_ "image/jpeg"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// preparePage re-encodes a page as PNG when tesseract would struggle with
// it as is: TIFF/WebP input, or a page wider than maxWidth pixels, which is
// scaled down keeping its aspect ratio. PNG and JPEG within bounds pass
// through untouched.
func preparePage(data []byte, maxWidth int) ([]byte, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode page image: %w", err)
	}
	tooWide := maxWidth > 0 && cfg.Width > maxWidth
	if !tooWide && (format == "png" || format == "jpeg") {
		return data, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode page image: %w", err)
	}
	var dst image.Image = src
	if tooWide {
		b := src.Bounds()
		h := b.Dy() * maxWidth / b.Dx()
		scaled := image.NewRGBA(image.Rect(0, 0, maxWidth, max(h, 1)))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, b, draw.Over, nil)
		dst = scaled
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode page image: %w", err)
	}
	return buf.Bytes(), nil
}
