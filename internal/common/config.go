package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	OCR      OCRConfig
	Extract  ExtractConfig
	Batch    BatchConfig
	LogLevel string
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr string
	HTTPAddr string
	DevMode  bool
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Engine        string // "tesseract" (CLI) or "gosseract"
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	TessdataDir   string
	HeicConverter string
	DPI           int
	PSM           int
	MaxPages      int
	MaxPageWidth  int
	PageWorkers   int
}

// ExtractConfig holds pipeline configuration
type ExtractConfig struct {
	Timeout       time.Duration
	CataloguePath string
	StartMarker   string
}

// BatchConfig holds worker pool configuration for batch runs
type BatchConfig struct {
	Workers   int
	QueueSize int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			GRPCAddr: getEnv("GRPC_ADDR", ":8080"),
			HTTPAddr: getEnv("HTTP_ADDR", ":"+getEnv("PORT", "5000")),
			DevMode:  getEnvAsBool("DEV_MODE", false),
		},
		OCR: OCRConfig{
			Engine:        getEnv("OCR_ENGINE", "tesseract"),
			Pdftoppm:      getEnv("PDFTOPPM", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			HeicConverter: getEnv("HEIC_CONVERTER", "magick"),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			PSM:           getEnvAsInt("OCR_PSM", 6),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
			MaxPageWidth:  getEnvAsInt("OCR_MAX_PAGE_WIDTH", 4000),
			PageWorkers:   getEnvAsInt("OCR_PAGE_WORKERS", 1),
		},
		Extract: ExtractConfig{
			Timeout:       getEnvAsDuration("EXTRACT_TIMEOUT", 2*time.Minute),
			CataloguePath: getEnv("CATALOGUE_PATH", ""),
			StartMarker:   getEnv("START_MARKER", ""),
		},
		Batch: BatchConfig{
			Workers:   getEnvAsInt("BATCH_WORKERS", 4),
			QueueSize: getEnvAsInt("BATCH_QUEUE_SIZE", 64),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("OCR_ENGINE", c.OCR.Engine, Required, OneOf("tesseract", "gosseract")).
		Field("TESSERACT_LANG", c.OCR.TesseractLang, Required).
		Field("OCR_DPI", c.OCR.DPI, Between(72, 1200)).
		Field("OCR_PAGE_WORKERS", c.OCR.PageWorkers, Between(1, 64)).
		Field("BATCH_WORKERS", c.Batch.Workers, Between(1, 256)).
		Field("HEIC_CONVERTER", c.OCR.HeicConverter, OneOf("", "heif-convert", "magick", "sips"))
	if c.Extract.Timeout <= 0 {
		v.errors = append(v.errors, ValidationError{Field: "EXTRACT_TIMEOUT", Value: c.Extract.Timeout, Message: "must be positive"})
	}
	if v.HasErrors() {
		return NewAppError(KindConfig, v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
