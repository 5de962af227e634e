// Package server exposes the extraction pipeline over gRPC and HTTP.
package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/soilreport/internal/common"
	processor "github.com/joseph-ayodele/soilreport/internal/pipeline"
	"github.com/joseph-ayodele/soilreport/internal/report"
)

// Processor is satisfied by *processor.Processor.
type Processor interface {
	Process(ctx context.Context, doc []byte) (processor.Result, error)
}

// extractor is the transport-independent request path shared by the gRPC
// and HTTP front ends.
type extractor struct {
	proc    Processor
	timeout time.Duration
	logger  *slog.Logger
}

func newExtractor(proc Processor, timeout time.Duration, logger *slog.Logger) extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return extractor{proc: proc, timeout: timeout, logger: logger}
}

// extract runs one document and returns a validated response body.
func (x extractor) extract(ctx context.Context, name string, doc []byte) (report.Response, error) {
	if x.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = common.WithTimeout(ctx, x.timeout)
		defer cancel()
	}
	ctx = common.WithRequestID(ctx, uuid.NewString())
	if name != "" {
		ctx = common.WithDocumentName(ctx, name)
	}
	log := common.LoggerFrom(ctx, x.logger)

	log.Info("extraction started", "bytes", len(doc))
	res, err := x.proc.Process(ctx, doc)
	if err != nil {
		log.Error("extraction failed", "kind", common.KindOf(err), "error", err)
		return report.Response{}, err
	}
	resp := report.NewResponse(res)
	if err := report.Validate(resp); err != nil {
		log.Error("response failed schema validation", "error", err)
		return report.Response{}, common.NewAppError(common.KindInternal, "invalid response", err)
	}
	log.Info("extraction finished", "method", res.Method, "nutrients", len(res.Records),
		"pages", res.Pages, "tables", res.Tables, "duration_ms", res.Duration.Milliseconds())
	return resp, nil
}
