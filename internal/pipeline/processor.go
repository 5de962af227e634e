package processor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/soilreport/constants"
	"github.com/joseph-ayodele/soilreport/internal/common"
	"github.com/joseph-ayodele/soilreport/internal/nutrient"
)

// Result is the outcome of one successful extraction.
type Result struct {
	Records  []nutrient.Record
	Method   constants.ExtractionMethod
	Pages    int // pages transcribed; 0 on the table path
	Tables   int // grids the loader returned
	Duration time.Duration
}

// Processor coordinates the table stage, then OCR when tables yield nothing.
// It keeps no per-call state and is safe for concurrent use.
type Processor struct {
	Logger *slog.Logger
	Tables *TableStage
	OCR    *OCRStage
}

func NewProcessor(logger *slog.Logger, tables *TableStage, ocr *OCRStage) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Tables: tables, OCR: ocr}
}

// Process extracts nutrient records from doc. Tables win whenever they
// produce at least one record; OCR runs at most once otherwise.
func (p *Processor) Process(ctx context.Context, doc []byte) (Result, error) {
	start := time.Now()
	log := common.LoggerFrom(ctx, p.Logger)

	if len(doc) == 0 {
		return Result{}, common.InputMissing("document is empty")
	}

	// 1) tables from the text layer
	tbl, err := p.Tables.Run(ctx, doc)
	if err != nil {
		log.Error("processor.tables.failed", "err", err)
		return Result{}, err
	}
	log.Info("processor.tables.ok", "tables", tbl.Tables, "records", len(tbl.Records))
	if len(tbl.Records) > 0 {
		return Result{
			Records:  tbl.Records,
			Method:   constants.MethodTable,
			Tables:   tbl.Tables,
			Duration: time.Since(start),
		}, nil
	}

	// 2) OCR fallback
	o, err := p.OCR.Run(ctx, doc)
	if err != nil {
		log.Error("processor.ocr.failed", "err", err)
		return Result{}, err
	}
	log.Info("processor.ocr.ok", "pages", o.Pages, "lines", o.Lines, "records", len(o.Records))
	if len(o.Records) == 0 {
		return Result{}, common.ExtractionFailed("no nutrients found in tables or OCR text", nil)
	}
	return Result{
		Records:  o.Records,
		Method:   constants.MethodOCR,
		Pages:    o.Pages,
		Tables:   tbl.Tables,
		Duration: time.Since(start),
	}, nil
}

// stageError classifies a collaborator error. Running out of time is an
// extraction failure rather than a broken collaborator.
func stageError(ctx context.Context, msg string, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return common.ExtractionFailed(msg, err)
	}
	return common.CollaboratorFailure(msg, err)
}
