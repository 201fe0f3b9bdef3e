// Package config loads the daemon configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	RasterizerPdftoppm = "pdftoppm"
	RasterizerPdfcpu   = "pdfcpu"

	appDirName    = "PageVault"
	unixDirName   = ".pagevault"
	bytesPerMB    = 1024 * 1024
	defaultListen = "127.0.0.1:8420"
)

// Config holds the full daemon configuration.
type Config struct {
	BaseDir          string          `yaml:"base_dir"`
	Listen           string          `yaml:"listen"`
	MaxImportMB      int             `yaml:"max_import_mb"`
	CacheLimitMB     int             `yaml:"cache_limit_mb"`
	Thumbnail        ThumbnailConfig `yaml:"thumbnail"`
	Render           RenderConfig    `yaml:"render"`
	OperationTimeout time.Duration   `yaml:"operation_timeout"`
	Debug            bool            `yaml:"debug"`
	JSONLogs         bool            `yaml:"json_logs"`
}

// ThumbnailConfig sizes the preview requested for each imported source.
type ThumbnailConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// RenderConfig configures the render worker pool.
type RenderConfig struct {
	Workers    int           `yaml:"workers"`
	Queue      int           `yaml:"queue"`
	Timeout    time.Duration `yaml:"timeout"`
	Rasterizer string        `yaml:"rasterizer"` // pdftoppm | pdfcpu
	Binary     string        `yaml:"binary"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BaseDir:      DefaultBaseDir(),
		Listen:       defaultListen,
		MaxImportMB:  200,
		CacheLimitMB: 1024,
		Thumbnail: ThumbnailConfig{
			Width:  200,
			Height: 280,
		},
		Render: RenderConfig{
			Workers:    2,
			Queue:      64,
			Timeout:    30 * time.Second,
			Rasterizer: RasterizerPdftoppm,
		},
		OperationTimeout: 2 * time.Minute,
	}
}

// Load reads a YAML file over Default. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	//nolint:gosec // config path is given by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	var errs []error
	if c.BaseDir == "" {
		errs = append(errs, errors.New("base_dir is required"))
	}
	if c.Listen == "" {
		errs = append(errs, errors.New("listen is required"))
	}
	if c.MaxImportMB <= 0 {
		errs = append(errs, errors.New("max_import_mb must be > 0"))
	}
	if c.CacheLimitMB <= 0 {
		errs = append(errs, errors.New("cache_limit_mb must be > 0"))
	}
	if c.Thumbnail.Width <= 0 || c.Thumbnail.Height <= 0 {
		errs = append(errs, errors.New("thumbnail width and height must be > 0"))
	}
	if c.Render.Workers <= 0 {
		errs = append(errs, errors.New("render.workers must be > 0"))
	}
	if c.Render.Queue <= 0 {
		errs = append(errs, errors.New("render.queue must be > 0"))
	}
	if c.Render.Timeout <= 0 {
		errs = append(errs, errors.New("render.timeout must be > 0"))
	}
	switch c.Render.Rasterizer {
	case RasterizerPdftoppm, RasterizerPdfcpu:
	default:
		errs = append(errs, fmt.Errorf("unsupported render.rasterizer %q (use pdftoppm or pdfcpu)", c.Render.Rasterizer))
	}
	if c.OperationTimeout <= 0 {
		errs = append(errs, errors.New("operation_timeout must be > 0"))
	}
	return errors.Join(errs...)
}

// MaxImportBytes returns the per-file import ceiling in bytes.
func (c *Config) MaxImportBytes() int64 { return int64(c.MaxImportMB) * bytesPerMB }

// CacheLimitBytes returns the derived asset cache cap in bytes.
func (c *Config) CacheLimitBytes() int64 { return int64(c.CacheLimitMB) * bytesPerMB }

// DefaultBaseDir picks the per-user data directory for the current OS.
func DefaultBaseDir() string {
	return baseDirFor(runtime.GOOS, os.Getenv("APPDATA"), homeDir())
}

func baseDirFor(goos, appData, home string) string {
	switch goos {
	case "windows":
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(appData, appDirName)
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appDirName)
	default:
		return filepath.Join(home, unixDirName)
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
