package ocr

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

// cliEngine shells out to the tesseract binary.
type cliEngine struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func (c *cliEngine) recognize(ctx context.Context, img []byte) (string, error) {
	tmpDir, err := os.MkdirTemp("", "soil-ocr-*")
	if err != nil {
		return "", err
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	path := filepath.Join(tmpDir, "page.png")
	if err := os.WriteFile(path, img, 0o600); err != nil {
		return "", err
	}

	// tesseract <file> stdout -l <lang> [--psm N] [--oem N] [--tessdata-dir d]
	args := []string{path, "stdout", "-l", c.cfg.TesseractLang}
	if c.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(c.cfg.PSM))
	}
	if c.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(c.cfg.OEM))
	}
	if c.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", c.cfg.TessdataDir)
	}

	out, errb, err := c.runner.Run(ctx, c.cfg.Tesseract, args...)
	if err != nil {
		return "", toolError("tesseract", err, errb)
	}

	// minor cleanup of obvious line noise
	return reBoxNoise.ReplaceAllString(string(out), ""), nil
}
