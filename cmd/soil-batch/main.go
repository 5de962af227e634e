package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joseph-ayodele/soilreport/internal/async"
	"github.com/joseph-ayodele/soilreport/internal/common"
	"github.com/joseph-ayodele/soilreport/internal/ingest"
	processor "github.com/joseph-ayodele/soilreport/internal/pipeline"
	"github.com/joseph-ayodele/soilreport/internal/report"
)

// line is one JSONL output record.
type line struct {
	Path   string            `json:"path"`
	JobID  string            `json:"job_id"`
	Method string            `json:"method,omitempty"`
	Result *report.Response  `json:"result,omitempty"`
	Error  *report.ErrorBody `json:"error,omitempty"`
}

func main() {
	cfg := common.LoadConfig()
	var (
		root       = flag.String("dir", "", "directory of reports to extract (required)")
		exts       = flag.String("ext", "", "comma-separated extensions to include (default: every supported)")
		skipHidden = flag.Bool("skip-hidden", true, "skip dot files and directories")
		watch      = flag.Bool("watch", false, "keep running and extract reports as they appear")
		outPath    = flag.String("out", "", "write JSONL here instead of stdout")
	)
	flag.IntVar(&cfg.Batch.Workers, "workers", cfg.Batch.Workers, "concurrent documents")
	flag.DurationVar(&cfg.Extract.Timeout, "timeout", cfg.Extract.Timeout, "per-document extraction timeout")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug | info | warn | error")
	flag.Parse()

	logger := common.NewLogger(os.Stderr, cfg.LogLevel, true)
	slog.SetDefault(logger)
	if *root == "" {
		logger.Error("usage", "cmd", "soil-batch -dir <reports> [-watch] [-out results.jsonl]")
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			logger.Error("create output", "path", *outPath, "error", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	proc, err := processor.FromConfig(cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		mu     sync.Mutex
		enc    = json.NewEncoder(out)
		failed int
	)
	q := async.NewProcessorQueue(proc, logger,
		async.WithWorkers(cfg.Batch.Workers),
		async.WithQueueSize(cfg.Batch.QueueSize),
		async.WithProcessTimeout(cfg.Extract.Timeout),
		async.WithOutcome(func(o async.Outcome) {
			l := line{Path: o.Job.Path, JobID: o.Job.ID.String()}
			if o.Err != nil {
				body := report.NewErrorBody(o.Err)
				l.Error = &body
			} else {
				resp := report.NewResponse(o.Result)
				l.Method = string(o.Result.Method)
				l.Result = &resp
			}
			mu.Lock()
			defer mu.Unlock()
			if o.Err != nil {
				failed++
			}
			if err := enc.Encode(l); err != nil {
				logger.Error("write result", "path", o.Job.Path, "error", err)
			}
		}),
	)

	includeExts := splitExts(*exts)
	if *watch {
		events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:       []string{*root},
			IncludeExts: includeExts,
			InitialScan: true,
			Debounce:    500 * time.Millisecond,
		}, logger)
		if err != nil {
			logger.Error("start watcher", "error", err)
			os.Exit(1)
		}
		logger.Info("watching for reports", "dir", *root)
	loop:
		for {
			select {
			case p, ok := <-events:
				if !ok {
					break loop
				}
				if err := q.Enqueue(ctx, async.NewJob(p)); err != nil {
					logger.Warn("enqueue failed", "path", p, "error", err)
				}
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				logger.Warn("watch error", "error", err)
			case <-ctx.Done():
				break loop
			}
		}
	} else {
		files, stats, err := ingest.ScanDirectory(ctx, *root, includeExts, *skipHidden)
		if err != nil {
			logger.Error("scan directory", "dir", *root, "error", err)
			os.Exit(1)
		}
		logger.Info("directory scanned", "dir", *root, "scanned", stats.Scanned, "matched", stats.Matched, "failed", stats.Failed)
		for _, f := range files {
			if f.Err != "" {
				logger.Warn("skipping unreadable entry", "path", f.Path, "error", f.Err)
				continue
			}
			if err := q.Enqueue(ctx, async.NewJob(f.Path)); err != nil {
				logger.Warn("enqueue failed", "path", f.Path, "error", err)
			}
		}
	}

	q.Shutdown(context.Background())
	mu.Lock()
	defer mu.Unlock()
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d document(s) failed\n", failed)
		os.Exit(1)
	}
}

func splitExts(s string) []string {
	var out []string
	for _, e := range strings.Split(s, ",") {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}
