package extract

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/soilreport/internal/ocr"
)

// OCRAdapter exposes an ocr.Extractor as a PageRenderer and Transcriber.
type OCRAdapter struct {
	e      *ocr.Extractor
	logger *slog.Logger
}

func NewOCRAdapter(e *ocr.Extractor, logger *slog.Logger) *OCRAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRAdapter{e: e, logger: logger}
}

func (a *OCRAdapter) RenderPages(ctx context.Context, doc []byte) ([]PageImage, error) {
	pages, err := a.e.RenderPages(ctx, doc)
	if err != nil {
		return nil, err
	}
	out := make([]PageImage, len(pages))
	for i, p := range pages {
		out[i] = PageImage{Index: p.Index, Data: p.Data}
	}
	return out, nil
}

func (a *OCRAdapter) Transcribe(ctx context.Context, page PageImage) (string, error) {
	return a.e.Transcribe(ctx, ocr.Page{Index: page.Index, Data: page.Data})
}
