package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store drivers.
const (
	DriverSupabase = "supabase"
	DriverSQLite   = "sqlite"
)

// Config is the service configuration, read from the environment.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`

	SupabaseURL        string        `env:"SUPABASE_URL"`
	SupabaseServiceKey string        `env:"SUPABASE_SERVICE_KEY"`
	SupabaseJWTSecret  string        `env:"SUPABASE_JWT_SECRET"`
	BackgroundBucket   string        `env:"BACKGROUND_BUCKET" envDefault:"backgrounds"`
	SignedURLTTL       time.Duration `env:"SIGNED_URL_TTL" envDefault:"1h"`

	SQLitePath string `env:"SQLITE_PATH" envDefault:"data/vibraframe.db"`
	AssetDir   string `env:"ASSET_DIR" envDefault:"data/assets"`
	FontDir    string `env:"FONT_DIR"`

	FaceServiceURL string `env:"FACE_SERVICE_URL"`

	RenderWorkers  int    `env:"RENDER_WORKERS" envDefault:"4"`
	RenderQueue    int    `env:"RENDER_QUEUE" envDefault:"64"`
	UppercaseNames bool   `env:"UPPERCASE_NAMES" envDefault:"false"`
	WatermarkText  string `env:"WATERMARK_TEXT" envDefault:"Made with VibraFrame"`
	JPEGQuality    int    `env:"JPEG_QUALITY" envDefault:"95"`
	MaxUploadMB    int    `env:"MAX_UPLOAD_MB" envDefault:"20"`
}

// Load parses the environment and checks the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverSupabase:
		if c.SupabaseURL == "" || c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY must be set for the supabase store")
		}
	case DriverSQLite:
		if c.SQLitePath == "" || c.AssetDir == "" {
			return fmt.Errorf("SQLITE_PATH and ASSET_DIR must be set for the sqlite store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.RenderWorkers < 1 {
		return fmt.Errorf("RENDER_WORKERS must be at least 1")
	}
	if c.RenderQueue < 0 {
		return fmt.Errorf("RENDER_QUEUE must not be negative")
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("JPEG_QUALITY must be between 1 and 100")
	}
	if c.MaxUploadMB < 1 {
		return fmt.Errorf("MAX_UPLOAD_MB must be at least 1")
	}
	return nil
}

// MaxUploadBytes is the request and image size limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}
