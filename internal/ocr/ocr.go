package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/soilreport/constants"
	"github.com/joseph-ayodele/soilreport/internal/common"
)

// Engine names accepted in Config.Engine.
const (
	EngineCLI       = "tesseract"
	EngineGosseract = "gosseract"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Engine    string // EngineCLI (default) or EngineGosseract

	TesseractLang string // default "eng"
	TessdataDir   string
	DPI           int // rasterization DPI for scanned PDFs, default 300
	MaxPages      int // 0 = no limit
	MaxPageWidth  int // pages wider than this are downscaled before OCR; 0 = keep

	PSM int // 6 suits the uniform rows of a lab sheet
	OEM int // 1 = LSTM; leave 0 to use default

	HeicConverter string // "heif-convert" | "magick" | "sips"
}

// Page is one rendered page ready for recognition.
type Page struct {
	Index int    // 0-based page number
	Data  []byte // encoded image (png, jpeg, tiff, webp)
}

// recognizer turns one encoded page image into raw text.
type recognizer interface {
	recognize(ctx context.Context, img []byte) (string, error)
}

type Extractor struct {
	cfg    Config
	runner Runner
	engine recognizer
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.Engine == "" {
		cfg.Engine = EngineCLI
	}
	e := &Extractor{cfg: cfg, runner: newExecRunner(logger), logger: logger}
	e.engine = e.newEngine()
	return e
}

// WithRunner swaps the command runner; tests use it to fake pdftoppm and tesseract.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	e.runner = r
	e.engine = e.newEngine()
	return e
}

func (e *Extractor) newEngine() recognizer {
	if e.cfg.Engine == EngineGosseract {
		return newGosseractEngine(e.cfg)
	}
	return &cliEngine{cfg: e.cfg, runner: e.runner, logger: e.logger}
}

// RenderPages rasterizes a PDF into page images, or passes an image
// document through as a single page. Other formats are unsupported.
func (e *Extractor) RenderPages(ctx context.Context, doc []byte) ([]Page, error) {
	start := time.Now()
	format := constants.DetectFormat(doc)
	e.logger.Debug("rendering pages", "format", format, "bytes", len(doc))

	var (
		pages []Page
		err   error
	)
	switch format {
	case constants.PDF:
		pages, err = e.renderPDF(ctx, doc)
	case constants.IMAGE:
		img := doc
		if constants.IsHEIC(doc) {
			img, err = convertHEICtoPNG(ctx, e.runner, e.logger, e.cfg.HeicConverter, doc)
		}
		if err == nil {
			pages = []Page{{Index: 0, Data: img}}
		}
	default:
		return nil, fmt.Errorf("render pages: %w", common.ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}
	e.logger.Debug("pages rendered", "format", format, "pages", len(pages), "duration_ms", time.Since(start).Milliseconds())
	return pages, nil
}

// Transcribe recognizes one page and returns normalized text.
func (e *Extractor) Transcribe(ctx context.Context, p Page) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	img, err := preparePage(p.Data, e.cfg.MaxPageWidth)
	if err != nil {
		return "", fmt.Errorf("page %d: %w", p.Index+1, err)
	}
	txt, err := e.engine.recognize(ctx, img)
	if err != nil {
		return "", fmt.Errorf("page %d: %w", p.Index+1, err)
	}
	txt = Normalize(txt)
	e.logger.Debug("page transcribed", "page", p.Index+1, "chars", len(txt), "preview", clip(txt, 300))
	return txt, nil
}
