// Package config loads runtime settings from the environment.
//
// Values come from process environment variables, optionally seeded from a
// .env file. Variables already set in the environment win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/ironsheep/docscan-mcp/internal/ocr"
	"github.com/ironsheep/docscan-mcp/internal/scanner"
)

// Environment variable names.
const (
	EnvLogLevel      = "DOCSCAN_LOG_LEVEL"
	EnvLogFile       = "DOCSCAN_LOG_FILE"
	EnvOCRLanguage   = "DOCSCAN_OCR_LANGUAGE"
	EnvCannyLow      = "DOCSCAN_CANNY_LOW"
	EnvCannyHigh     = "DOCSCAN_CANNY_HIGH"
	EnvBlurRadius    = "DOCSCAN_BLUR_RADIUS"
	EnvApproxEpsilon = "DOCSCAN_APPROX_EPSILON"
)

// Config holds every tunable of the server and CLI.
type Config struct {
	// LogLevel is a logrus level name.
	LogLevel string `validate:"oneof=trace debug info warn warning error fatal panic"`

	// LogFile, when set, receives a rotated copy of the log.
	LogFile string

	// OCRLanguage is the Tesseract language code.
	OCRLanguage string `validate:"required"`

	// CannyLow and CannyHigh are the scanner's edge thresholds.
	CannyLow  int `validate:"min=0,max=1020,ltefield=CannyHigh"`
	CannyHigh int `validate:"min=0,max=1020"`

	// BlurRadius is the scanner's Gaussian radius; the kernel is
	// 2*radius+1 pixels wide.
	BlurRadius int `validate:"min=0,max=50"`

	// ApproxEpsilon is the polygon approximation tolerance as a fraction of
	// the contour perimeter.
	ApproxEpsilon float64 `validate:"gt=0,lt=1"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:      "info",
		OCRLanguage:   ocr.DefaultLanguage,
		CannyLow:      75,
		CannyHigh:     200,
		BlurRadius:    2,
		ApproxEpsilon: 0.02,
	}
}

// Load reads the configuration.
//
// envFiles are loaded with godotenv before the environment is read; with no
// arguments ".env" in the working directory is tried. A missing file is not
// an error, a malformed one is. Unparseable or out-of-range values are
// reported as errors rather than silently replaced by defaults.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := Default()
	cfg.LogLevel = getString(EnvLogLevel, cfg.LogLevel)
	cfg.LogFile = getString(EnvLogFile, cfg.LogFile)
	cfg.OCRLanguage = getString(EnvOCRLanguage, cfg.OCRLanguage)

	var err error
	if cfg.CannyLow, err = getInt(EnvCannyLow, cfg.CannyLow); err != nil {
		return nil, err
	}
	if cfg.CannyHigh, err = getInt(EnvCannyHigh, cfg.CannyHigh); err != nil {
		return nil, err
	}
	if cfg.BlurRadius, err = getInt(EnvBlurRadius, cfg.BlurRadius); err != nil {
		return nil, err
	}
	if cfg.ApproxEpsilon, err = getFloat(EnvApproxEpsilon, cfg.ApproxEpsilon); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ScanOptions returns scanner options with this configuration applied.
func (c *Config) ScanOptions() scanner.Options {
	opts := scanner.DefaultOptions()
	opts.BlurKernel = 2*c.BlurRadius + 1
	opts.CannyLow = c.CannyLow
	opts.CannyHigh = c.CannyHigh
	opts.ApproxEpsilon = c.ApproxEpsilon
	return opts
}

func getString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}
