package processor

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/soilreport/internal/common"
	"github.com/joseph-ayodele/soilreport/internal/extract"
	"github.com/joseph-ayodele/soilreport/internal/nutrient"
)

// OCROutcome is what the OCR stage found.
type OCROutcome struct {
	Records []nutrient.Record
	Pages   int
	Lines   int
}

// OCRStage renders pages, transcribes them and scans the lines.
type OCRStage struct {
	Renderer    extract.PageRenderer
	Transcriber extract.Transcriber
	Lines       *nutrient.LineExtractor
	Workers     int // concurrent page transcriptions; <= 1 is sequential
	Logger      *slog.Logger
}

func NewOCRStage(r extract.PageRenderer, t extract.Transcriber, lines *nutrient.LineExtractor, workers int, logger *slog.Logger) *OCRStage {
	if logger == nil {
		logger = slog.Default()
	}
	if lines == nil {
		lines = nutrient.NewLineExtractor(nutrient.DefaultCatalogue(), logger)
	}
	return &OCRStage{Renderer: r, Transcriber: t, Lines: lines, Workers: workers, Logger: logger}
}

// Run transcribes every page of doc and extracts catalogue entries from the
// concatenated lines. A format the renderer cannot rasterize yields no lines.
func (s *OCRStage) Run(ctx context.Context, doc []byte) (OCROutcome, error) {
	log := common.LoggerFrom(ctx, s.Logger)

	pages, err := s.Renderer.RenderPages(ctx, doc)
	if errors.Is(err, common.ErrUnsupportedFormat) {
		log.Warn("document cannot be rendered for OCR", "error", err)
		return OCROutcome{}, nil
	}
	if err != nil {
		return OCROutcome{}, stageError(ctx, "page rendering failed", err)
	}

	texts := make([]string, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.Workers, 1))
	for i, p := range pages {
		g.Go(func() error {
			txt, err := s.Transcriber.Transcribe(gctx, p)
			if err != nil {
				return err
			}
			texts[i] = txt
			log.Debug("page ocr text", "page", i+1, "preview", preview(txt, 200))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return OCROutcome{}, stageError(ctx, "transcription failed", err)
	}

	var lines []string
	for _, txt := range texts {
		lines = append(lines, splitLines(txt)...)
	}
	recs := s.Lines.Extract(lines)
	return OCROutcome{Records: recs, Pages: len(pages), Lines: len(lines)}, nil
}

// splitLines breaks text on newlines and drops blank lines.
func splitLines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
