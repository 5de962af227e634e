package server

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/soilreport/internal/common"
	"github.com/joseph-ayodele/soilreport/internal/report"
)

// DefaultMaxUpload caps the multipart file read into memory.
const DefaultMaxUpload = 32 << 20

type HTTPConfig struct {
	Timeout   time.Duration
	MaxUpload int64
	DevMode   bool
}

// NewRouter serves POST /extract-soil-report (multipart field "file") and
// GET /healthz.
func NewRouter(proc Processor, cfg HTTPConfig, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.MaxUpload <= 0 {
		cfg.MaxUpload = DefaultMaxUpload
	}
	h := &httpHandler{x: newExtractor(proc, cfg.Timeout, logger), maxUpload: cfg.MaxUpload, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery(), requestLog(logger), cors())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/extract-soil-report", h.extract)
	return r
}

type httpHandler struct {
	x         extractor
	maxUpload int64
	logger    *slog.Logger
}

func (h *httpHandler) extract(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		h.fail(c, common.InputMissing("no file uploaded"))
		return
	}
	if fh.Size > h.maxUpload {
		h.fail(c, common.NewAppError(common.KindInputMissing, fmt.Sprintf("file exceeds %d bytes", h.maxUpload), common.ErrInvalidInput))
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.fail(c, common.CollaboratorFailure("open upload", err))
		return
	}
	defer func() { _ = f.Close() }()
	doc, err := io.ReadAll(io.LimitReader(f, h.maxUpload))
	if err != nil {
		h.fail(c, common.CollaboratorFailure("read upload", err))
		return
	}

	resp, err := h.x.extract(c.Request.Context(), fh.Filename, doc)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *httpHandler) fail(c *gin.Context, err error) {
	c.JSON(HTTPStatus(err), report.NewErrorBody(err))
}

// HTTPStatus maps an error kind onto a response status.
func HTTPStatus(err error) int {
	switch common.KindOf(err) {
	case common.KindInputMissing:
		return http.StatusBadRequest
	case common.KindExtractionFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func requestLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
