package processor

import (
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/soilreport/internal/common"
	"github.com/joseph-ayodele/soilreport/internal/extract"
	"github.com/joseph-ayodele/soilreport/internal/nutrient"
	"github.com/joseph-ayodele/soilreport/internal/ocr"
	"github.com/joseph-ayodele/soilreport/internal/tables"
)

// FromConfig wires the production collaborators: the text-layer table
// loader, the pdftoppm/tesseract OCR extractor and the configured catalogue.
func FromConfig(cfg *common.Config, logger *slog.Logger) (*Processor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cat, err := nutrient.LoadCatalogue(cfg.Extract.CataloguePath)
	if err != nil {
		return nil, fmt.Errorf("load catalogue: %w", err)
	}
	if cfg.Extract.StartMarker != "" {
		cat.StartMarker = cfg.Extract.StartMarker
	}

	extractor := ocr.NewExtractor(ocr.Config{
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		Engine:        cfg.OCR.Engine,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
		MaxPageWidth:  cfg.OCR.MaxPageWidth,
		PSM:           cfg.OCR.PSM,
		HeicConverter: cfg.OCR.HeicConverter,
	}, logger)
	ocrAdapter := extract.NewOCRAdapter(extractor, logger)

	tableStage := NewTableStage(tables.NewLoader(logger), nutrient.NewInterpreter(logger), logger)
	ocrStage := NewOCRStage(ocrAdapter, ocrAdapter, nutrient.NewLineExtractor(cat, logger), cfg.OCR.PageWorkers, logger)

	logger.Info("pipeline configured",
		"ocr_engine", cfg.OCR.Engine,
		"catalogue_entries", len(cat.Entries),
		"start_marker", cat.StartMarker,
		"page_workers", cfg.OCR.PageWorkers)
	return NewProcessor(logger, tableStage, ocrStage), nil
}
