package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Fetch     FetchConfig
	Raster    RasterConfig
	Extractor ExtractorConfig
	Vision    VisionConfig
	OCR       OCRConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Addr string
}

// FetchConfig holds document download configuration
type FetchConfig struct {
	Timeout time.Duration
}

// RasterConfig holds PDF rasterization configuration
type RasterConfig struct {
	Scale float64 // render scale factor, 1.0 to 2.0
}

// ExtractorConfig selects and tunes the extraction strategy
type ExtractorConfig struct {
	Strategy string // "vision" | "ocr"
	Workers  int    // 1 = sequential page loop
}

// VisionConfig holds hosted-model configuration
type VisionConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	JPEGQuality int
	Timeout     time.Duration
}

// OCRConfig holds tesseract configuration
type OCRConfig struct {
	Tesseract   string // binary name or absolute path
	Lang        string
	PSM         int
	OEM         int
	TessdataDir string
	Contrast    float64 // preprocess contrast boost factor
}

// Strategy names accepted by ExtractorConfig.Strategy.
const (
	StrategyVision = "vision"
	StrategyOCR    = "ocr"
)

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: getEnv("HTTP_ADDR", ":8000"),
		},
		Fetch: FetchConfig{
			Timeout: getEnvAsDuration("FETCH_TIMEOUT", 30*time.Second),
		},
		Raster: RasterConfig{
			Scale: getEnvAsFloat64("RASTER_SCALE", 1.5),
		},
		Extractor: ExtractorConfig{
			Strategy: getEnv("EXTRACTOR_STRATEGY", StrategyVision),
			Workers:  getEnvAsInt("EXTRACTOR_WORKERS", 1),
		},
		Vision: VisionConfig{
			APIKey:      getEnv("XAI_API_KEY", ""),
			BaseURL:     getEnv("XAI_BASE_URL", "https://api.x.ai/v1"),
			Model:       getEnv("XAI_MODEL", "grok-4"),
			Temperature: getEnvAsFloat32("XAI_TEMPERATURE", 0.0),
			MaxTokens:   getEnvAsInt("XAI_MAX_TOKENS", 1000),
			JPEGQuality: getEnvAsInt("VISION_JPEG_QUALITY", 70),
			Timeout:     getEnvAsDuration("XAI_TIMEOUT", 45*time.Second),
		},
		OCR: OCRConfig{
			Tesseract:   getEnv("TESSERACT_BIN", "tesseract"),
			Lang:        getEnv("TESSERACT_LANG", "eng"),
			PSM:         getEnvAsInt("TESSERACT_PSM", 6),
			OEM:         getEnvAsInt("TESSERACT_OEM", 3),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
			Contrast:    getEnvAsFloat64("OCR_CONTRAST", 2.0),
		},
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

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
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

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	switch c.Extractor.Strategy {
	case StrategyVision:
		if c.Vision.APIKey == "" {
			return NewAppError("CONFIG_ERROR", "XAI_API_KEY is required for the vision strategy", ErrInvalidInput)
		}
	case StrategyOCR:
		// tesseract binary is resolved at exec time
	default:
		return NewAppError("CONFIG_ERROR", "EXTRACTOR_STRATEGY must be vision or ocr", ErrInvalidInput)
	}
	if c.Raster.Scale < 1.0 || c.Raster.Scale > 2.0 {
		return NewAppError("CONFIG_ERROR", "RASTER_SCALE must be between 1.0 and 2.0", ErrInvalidInput)
	}
	return nil
}
