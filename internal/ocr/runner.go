package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"
)

// Runner executes one external tool (pdftoppm, tesseract, a HEIC converter)
// and hands back what it wrote.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// stderrLogCap bounds how much of a failing tool's stderr reaches the log.
const stderrLogCap = 8 << 10

// stderrErrCap bounds the stderr tail folded into returned errors.
const stderrErrCap = 512

type execRunner struct {
	logger *slog.Logger
}

func newExecRunner(logger *slog.Logger) execRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return execRunner{logger: logger}
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr strings.Builder
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	began := time.Now()
	err := cmd.Run()
	// a killed process reports "signal: killed"; surface the deadline instead
	if err != nil && ctx.Err() != nil {
		err = ctx.Err()
	}

	attrs := []any{
		"tool", name,
		"argc", len(args),
		"elapsed_ms", time.Since(began).Milliseconds(),
		"stdout_bytes", stdout.Len(),
	}
	if err != nil {
		r.logger.Warn("ocr.tool.failed", append(attrs, "err", err, "stderr", clip(stderr.String(), stderrLogCap))...)
	} else {
		r.logger.Debug("ocr.tool.ok", append(attrs, "stderr_bytes", stderr.Len())...)
	}
	return []byte(stdout.String()), []byte(stderr.String()), err
}

// toolError wraps a tool failure with the tail of what it printed, so the
// error says why pdftoppm or tesseract gave up.
func toolError(tool string, err error, stderr []byte) error {
	msg := strings.TrimSpace(string(stderr))
	if msg == "" {
		return fmt.Errorf("%s: %w", tool, err)
	}
	return fmt.Errorf("%s: %w: %s", tool, err, clip(msg, stderrErrCap))
}

// clip shortens s to at most max bytes without splitting a rune.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "...(truncated)"
}
