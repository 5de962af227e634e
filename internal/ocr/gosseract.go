//go:build gosseract

package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// gosseractEngine runs tesseract in-process through libtesseract.
// Build with -tags gosseract; requires the tesseract development headers.
type gosseractEngine struct {
	cfg Config
}

func newGosseractEngine(cfg Config) recognizer {
	return &gosseractEngine{cfg: cfg}
}

func (g *gosseractEngine) recognize(ctx context.Context, img []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// a client is not safe for concurrent use; pages may be recognized in parallel
	c := gosseract.NewClient()
	defer c.Close()

	if g.cfg.TessdataDir != "" {
		if err := c.SetTessdataPrefix(g.cfg.TessdataDir); err != nil {
			return "", fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := c.SetLanguage(g.cfg.TesseractLang); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if g.cfg.PSM > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(g.cfg.PSM)); err != nil {
			return "", fmt.Errorf("set page seg mode: %w", err)
		}
	}
	if g.cfg.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(g.cfg.DPI)); err != nil {
			return "", fmt.Errorf("set dpi: %w", err)
		}
	}
	if err := c.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}
