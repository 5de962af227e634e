package processor

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/soilreport/internal/extract"
	"github.com/joseph-ayodele/soilreport/internal/nutrient"
)

// TableOutcome is what the table stage found.
type TableOutcome struct {
	Records []nutrient.Record
	Tables  int
}

// TableStage reads nutrient rows out of the document's own tables.
type TableStage struct {
	Loader      extract.TableLoader
	Interpreter *nutrient.Interpreter
	Logger      *slog.Logger
}

func NewTableStage(loader extract.TableLoader, in *nutrient.Interpreter, logger *slog.Logger) *TableStage {
	if logger == nil {
		logger = slog.Default()
	}
	if in == nil {
		in = nutrient.NewInterpreter(logger)
	}
	return &TableStage{Loader: loader, Interpreter: in, Logger: logger}
}

// Run loads every table in doc and interprets them. A loader error is a
// collaborator failure; no tables at all is an empty outcome.
func (s *TableStage) Run(ctx context.Context, doc []byte) (TableOutcome, error) {
	grids, err := s.Loader.ExtractTables(ctx, doc)
	if err != nil {
		return TableOutcome{}, stageError(ctx, "table extraction failed", err)
	}
	recs := s.Interpreter.Interpret(grids)
	return TableOutcome{Records: recs, Tables: len(grids)}, nil
}
