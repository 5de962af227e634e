package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// convertHEICtoPNG converts a HEIC/HEIF phone photo of a report to PNG.
// converter: "heif-convert" | "magick" | "sips"
func convertHEICtoPNG(ctx context.Context, r Runner, logger *slog.Logger, converter string, img []byte) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "soil-heic-*")
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	in := filepath.Join(tmpDir, "page.heic")
	out := filepath.Join(tmpDir, "page.png")
	if err := os.WriteFile(in, img, 0o600); err != nil {
		return nil, err
	}

	logger.Debug("converting heic page", "converter", converter, "bytes", len(img))
	switch converter {
	case "heif-convert":
		if _, errb, err2 := r.Run(ctx, "heif-convert", in, out); err2 != nil {
			return nil, toolError("heif-convert", err2, errb)
		}
	case "magick":
		if _, errb, err2 := r.Run(ctx, "magick", in, out); err2 != nil {
			return nil, toolError("magick", err2, errb)
		}
	case "sips":
		if _, errb, err2 := r.Run(ctx, "sips", "-s", "format", "png", in, "--out", out); err2 != nil {
			return nil, toolError("sips", err2, errb)
		}
	default:
		return nil, fmt.Errorf("HEIC not supported: set ocr.Config.HeicConverter to one of: heif-convert | magick | sips")
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("HEIC conversion produced no output: %w", err)
	}
	return data, nil
}
