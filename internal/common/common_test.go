package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"input missing", InputMissing("empty"), KindInputMissing},
		{"extraction failed", ExtractionFailed("nothing", nil), KindExtractionFailed},
		{"extraction failed with cause", ExtractionFailed("ocr", context.Canceled), KindExtractionFailed},
		{"wrapped deadline", fmt.Errorf("page 2: %w", context.DeadlineExceeded), KindExtractionFailed},
		{"collaborator", CollaboratorFailure("loader", errors.New("bad xref")), KindCollaboratorFailure},
		{"wrapped collaborator", fmt.Errorf("stage: %w", CollaboratorFailure("ocr", errors.New("x"))), KindCollaboratorFailure},
		{"config", NewAppError(KindConfig, "bad", ErrInvalidInput), KindConfig},
		{"plain", errors.New("boom"), KindInternal},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Errorf("%s: KindOf = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestGRPCStatus(t *testing.T) {
	t.Parallel()

	if GRPCStatus(nil) != nil {
		t.Fatal("nil error must map to nil")
	}
	cases := map[error]codes.Code{
		InputMissing("empty"):                               codes.InvalidArgument,
		ExtractionFailed("nothing", nil):                    codes.FailedPrecondition,
		CollaboratorFailure("ocr", errors.New("no binary")): codes.Internal,
		errors.New("boom"):                                  codes.Internal,
	}
	for err, want := range cases {
		if got := status.Code(GRPCStatus(err)); got != want {
			t.Errorf("GRPCStatus(%v) = %v, want %v", err, got, want)
		}
	}
}

func TestCollaboratorFailureKeepsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("tesseract: exit status 1")
	err := CollaboratorFailure("transcription failed", cause)
	if !errors.Is(err, cause) || !errors.Is(err, ErrCollaborator) {
		t.Fatalf("cause chain lost: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("GRPC_ADDR", ":9090")
	t.Setenv("PORT", "7000")
	t.Setenv("OCR_DPI", "200")
	t.Setenv("OCR_PAGE_WORKERS", "not-a-number")
	t.Setenv("EXTRACT_TIMEOUT", "45s")
	t.Setenv("DEV_MODE", "true")

	cfg := LoadConfig()
	if cfg.Server.GRPCAddr != ":9090" || cfg.Server.HTTPAddr != ":7000" || !cfg.Server.DevMode {
		t.Errorf("server config = %+v", cfg.Server)
	}
	if cfg.OCR.DPI != 200 || cfg.OCR.PageWorkers != 1 {
		t.Errorf("ocr config = %+v", cfg.OCR)
	}
	if cfg.Extract.Timeout != 45*time.Second {
		t.Errorf("timeout = %v", cfg.Extract.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Setenv("OCR_ENGINE", "paddle")
	t.Setenv("OCR_DPI", "10")
	t.Setenv("EXTRACT_TIMEOUT", "-1s")

	err := LoadConfig().Validate()
	if KindOf(err) != KindConfig {
		t.Fatalf("err = %v, want config error", err)
	}
	var ae *AppError
	if !errors.As(err, &ae) {
		t.Fatal("want AppError")
	}
	for _, field := range []string{"OCR_ENGINE", "OCR_DPI", "EXTRACT_TIMEOUT"} {
		if !strings.Contains(ae.Message, field) {
			t.Errorf("message %q does not mention %s", ae.Message, field)
		}
	}
}

func TestValidatorRules(t *testing.T) {
	t.Parallel()

	v := NewValidator().
		Field("name", "  ", Required).
		Field("engine", "x", OneOf("a", "b")).
		Field("dpi", 5, Between(72, 1200)).
		Field("labels", []string{"Zinc", "zinc "}, Unique).
		Field("ok", "a", Required, OneOf("a"))
	if got := len(v.Errors()); got != 4 {
		t.Fatalf("errors = %d (%s), want 4", got, v.ErrorMessage())
	}
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	ctx := WithDocumentName(WithRequestID(context.Background(), "req-1"), "lab.pdf")
	if RequestIDFromContext(ctx) != "req-1" || DocumentNameFromContext(ctx) != "lab.pdf" {
		t.Fatal("context values lost")
	}
	if RequestIDFromContext(context.Background()) != "" {
		t.Fatal("want empty request id")
	}
	if LoggerFrom(ctx, nil) == nil {
		t.Fatal("LoggerFrom returned nil")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"debug": slog.LevelDebug, "WARN": slog.LevelWarn, "error": slog.LevelError, "": slog.LevelInfo, "loud": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
