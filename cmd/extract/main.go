package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/soilreport/internal/common"
	processor "github.com/joseph-ayodele/soilreport/internal/pipeline"
	"github.com/joseph-ayodele/soilreport/internal/report"
)

// Exit codes: 0 ok, 1 collaborator/internal failure, 2 usage or missing
// input, 3 nothing extracted.
func main() {
	cfg := common.LoadConfig()
	flag.StringVar(&cfg.Extract.CataloguePath, "catalogue", cfg.Extract.CataloguePath, "JSON nutrient catalogue (default: built-in)")
	flag.StringVar(&cfg.OCR.Engine, "engine", cfg.OCR.Engine, "OCR engine: tesseract | gosseract")
	flag.IntVar(&cfg.OCR.PageWorkers, "page-workers", cfg.OCR.PageWorkers, "pages transcribed concurrently")
	flag.DurationVar(&cfg.Extract.Timeout, "timeout", cfg.Extract.Timeout, "per-document extraction timeout")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug | info | warn | error")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: extract [flags] <report.pdf|image|xlsx>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := common.NewLogger(os.Stderr, cfg.LogLevel, true)
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	path := flag.Arg(0)

	proc, err := processor.FromConfig(cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	doc, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read document", "path", path, "error", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Extract.Timeout)
	defer cancel()
	ctx = common.WithRequestID(ctx, uuid.NewString())
	ctx = common.WithDocumentName(ctx, filepath.Base(path))

	res, err := proc.Process(ctx, doc)
	if err != nil {
		_ = report.Encode(os.Stdout, report.NewErrorBody(err))
		switch common.KindOf(err) {
		case common.KindInputMissing:
			os.Exit(2)
		case common.KindExtractionFailed:
			os.Exit(3)
		}
		os.Exit(1)
	}
	logger.Info("extraction finished", "method", res.Method, "nutrients", len(res.Records), "duration_ms", res.Duration.Milliseconds())
	if err := report.Encode(os.Stdout, report.NewResponse(res)); err != nil {
		logger.Error("encode response", "error", err)
		os.Exit(1)
	}
}
