package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/markdoc/internal/document"
	"github.com/goccy/go-yaml"
)

// ErrInvalid reports a configuration value out of range.
var ErrInvalid = errors.New("invalid config")

// maxFileSize bounds the YAML config file.
const maxFileSize = 1 << 20

type Config struct {
	Port string `yaml:"port"`

	// Auth
	APIKey string `yaml:"api_key"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Preview images. An empty AssetDir means the OS temp directory.
	FinalOutput    bool          `yaml:"final_output"`
	AssetDir       string        `yaml:"asset_dir"`
	AssetRetention time.Duration `yaml:"asset_retention"`

	// Conversion defaults
	Heading2Color       string  `yaml:"heading2_color"`
	ListItemColor       string  `yaml:"list_item_color"`
	DefaultTableWidthCm float64 `yaml:"default_table_width_cm"`
	ImageMaxWidthPx     float64 `yaml:"image_max_width_px"`
	PixelScale          float64 `yaml:"pixel_scale"`

	// Latency stats window
	StatsWindow time.Duration `yaml:"stats_window"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:                "8090",
		MaxUploadBytes:      52428800, // 50MB
		AssetRetention:      15 * time.Minute,
		Heading2Color:       "black",
		ListItemColor:       "black",
		DefaultTableWidthCm: 16,
		ImageMaxWidthPx:     600,
		PixelScale:          0.75,
		StatsWindow:         time.Hour,
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (or $MARKDOC_CONFIG when path is empty), then environment variables.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		path = os.Getenv("MARKDOC_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("MARKDOC_API_KEY", cfg.APIKey)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.FinalOutput = envBool("MARKDOC_FINAL", cfg.FinalOutput)
	cfg.AssetDir = envOr("ASSET_DIR", cfg.AssetDir)
	cfg.AssetRetention = envDuration("ASSET_RETENTION", cfg.AssetRetention)
	cfg.Heading2Color = envOr("HEADING2_COLOR", cfg.Heading2Color)
	cfg.ListItemColor = envOr("LIST_ITEM_COLOR", cfg.ListItemColor)
	cfg.DefaultTableWidthCm = envFloat("DEFAULT_TABLE_WIDTH_CM", cfg.DefaultTableWidthCm)
	cfg.ImageMaxWidthPx = envFloat("IMAGE_MAX_WIDTH_PX", cfg.ImageMaxWidthPx)
	cfg.PixelScale = envFloat("PIXEL_SCALE", cfg.PixelScale)
	cfg.StatsWindow = envDuration("STATS_WINDOW", cfg.StatsWindow)

	def := Defaults()
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = def.MaxUploadBytes
	}
	if cfg.AssetRetention <= 0 {
		cfg.AssetRetention = def.AssetRetention
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = def.StatsWindow
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if len(data) > maxFileSize {
		return fmt.Errorf("%w: %s exceeds %d bytes", ErrInvalid, path, maxFileSize)
	}
	if err := yaml.UnmarshalWithOptions(data, c, yaml.Strict()); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks value ranges and colors. The API key is only needed by
// the server and is checked there.
func (c Config) Validate() error {
	if c.DefaultTableWidthCm <= 0 {
		return fmt.Errorf("%w: default_table_width_cm must be positive", ErrInvalid)
	}
	if c.ImageMaxWidthPx <= 0 {
		return fmt.Errorf("%w: image_max_width_px must be positive", ErrInvalid)
	}
	if c.PixelScale <= 0 {
		return fmt.Errorf("%w: pixel_scale must be positive", ErrInvalid)
	}
	if _, _, err := c.Colors(); err != nil {
		return err
	}
	return nil
}

// Colors parses the heading 2 and list item colors.
func (c Config) Colors() (heading2, listItem document.Color, err error) {
	if heading2, err = document.ParseColor(c.Heading2Color); err != nil {
		return heading2, listItem, fmt.Errorf("%w: heading2_color: %v", ErrInvalid, err)
	}
	if listItem, err = document.ParseColor(c.ListItemColor); err != nil {
		return heading2, listItem, fmt.Errorf("%w: list_item_color: %v", ErrInvalid, err)
	}
	return heading2, listItem, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
