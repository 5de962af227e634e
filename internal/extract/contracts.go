package extract

import (
	"context"

	"github.com/joseph-ayodele/soilreport/internal/nutrient"
)

// TableLoader is Stage 1: document -> table grids found in its text layer.
// A document without tables yields (nil, nil).
type TableLoader interface {
	ExtractTables(ctx context.Context, doc []byte) ([]nutrient.Grid, error)
}

// PageRenderer is the first half of Stage 2: document -> page images.
type PageRenderer interface {
	RenderPages(ctx context.Context, doc []byte) ([]PageImage, error)
}

// Transcriber is the second half of Stage 2: page image -> text.
type Transcriber interface {
	Transcribe(ctx context.Context, page PageImage) (string, error)
}

// PageImage is one rendered page of a document.
type PageImage struct {
	Index int    // 0-based page order
	Data  []byte // encoded image
}
