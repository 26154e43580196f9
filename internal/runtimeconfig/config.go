package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrContentDirRequired         = errors.New("site config: content directory is required when markdown is enabled")
	ErrMarkdownFeatureRequired    = errors.New("site config: markdown feature must be enabled to configure markdown")
	ErrGeneratorOutputDirRequired = errors.New("site config: generator output directory is required when generator is enabled")
	ErrGeneratorRequiresMarkdown  = errors.New("site config: generator requires markdown to be enabled")
	ErrWatchRequiresMarkdown      = errors.New("site config: watch requires markdown to be enabled")
	ErrStorageDriverUnknown       = errors.New("site config: storage driver is invalid")
	ErrLoggingProviderRequired    = errors.New("site config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown     = errors.New("site config: logging provider is invalid")
	ErrLoggingLevelInvalid        = errors.New("site config: logging level is invalid")
	ErrLoggingFormatInvalid       = errors.New("site config: logging format is invalid")
)

// Config aggregates feature flags and adapter bindings for the site module.
// Fields intentionally use simple types so host applications can extend them
// later.
type Config struct {
	Enabled   bool            `toml:"enabled"`
	Site      SiteConfig      `toml:"site"`
	Content   ContentConfig   `toml:"content"`
	Index     IndexConfig     `toml:"index"`
	Storage   StorageConfig   `toml:"storage"`
	Cache     CacheConfig     `toml:"cache"`
	Generator GeneratorConfig `toml:"generator"`
	Watch     WatchConfig     `toml:"watch"`
	Logging   LoggingConfig   `toml:"logging"`
	Features  Features        `toml:"features"`
}

// SiteConfig carries the site-wide metadata emitted into feeds and sitemaps.
type SiteConfig struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	BaseURL     string `toml:"base_url"`
	Author      string `toml:"author"`
}

// ContentConfig captures filesystem and parser behaviour for Markdown posts.
type ContentConfig struct {
	Dir       string       `toml:"dir"`
	Pattern   string       `toml:"pattern"`
	Recursive bool         `toml:"recursive"`
	Parser    ParserConfig `toml:"parser"`
}

// ParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type ParserConfig struct {
	Extensions []string `toml:"extensions"`
	Sanitize   bool     `toml:"sanitize"`
	HardWraps  bool     `toml:"hard_wraps"`
	SafeMode   bool     `toml:"safe_mode"`
}

// IndexConfig locates the authored repository index file.
type IndexConfig struct {
	Path string `toml:"path"`
}

// StorageConfig selects the backing database.
type StorageConfig struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

// CacheConfig captures repository cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool          `toml:"enabled"`
	DefaultTTL time.Duration `toml:"default_ttl"`
}

// GeneratorConfig captures behaviour for the artifact generator.
type GeneratorConfig struct {
	Enabled         bool   `toml:"enabled"`
	OutputDir       string `toml:"output_dir"`
	CleanBuild      bool   `toml:"clean_build"`
	GenerateSitemap bool   `toml:"generate_sitemap"`
	GenerateRobots  bool   `toml:"generate_robots"`
	GenerateFeeds   bool   `toml:"generate_feeds"`
}

// WatchConfig controls the content change watcher.
type WatchConfig struct {
	Enabled  bool          `toml:"enabled"`
	Debounce time.Duration `toml:"debounce"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `toml:"provider"`
	Level     string   `toml:"level"`
	Format    string   `toml:"format"`
	AddSource bool     `toml:"add_source"`
	Focus     []string `toml:"focus"`
}

// Features toggles module functionality.
type Features struct {
	Markdown  bool `toml:"markdown"`
	Generator bool `toml:"generator"`
	Watch     bool `toml:"watch"`
	Logger    bool `toml:"logger"`
}

// DefaultConfig returns opinionated defaults for a single-author site.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Site: SiteConfig{
			Title: "Personal site",
		},
		Content: ContentConfig{
			Dir:       "content",
			Pattern:   "*.md",
			Recursive: true,
		},
		Index: IndexConfig{
			Path: "index.yml",
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    "file::memory:?cache=shared",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Generator: GeneratorConfig{
			OutputDir:       "dist",
			CleanBuild:      true,
			GenerateSitemap: true,
			GenerateRobots:  false,
			GenerateFeeds:   true,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
		Features: Features{},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if cfg.Features.Markdown && strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	if cfg.Features.Generator {
		if !cfg.Features.Markdown {
			return ErrGeneratorRequiresMarkdown
		}
		if cfg.Generator.Enabled && strings.TrimSpace(cfg.Generator.OutputDir) == "" {
			return ErrGeneratorOutputDirRequired
		}
	}
	if cfg.Features.Watch && !cfg.Features.Markdown {
		return ErrWatchRequiresMarkdown
	}
	if driver := normalizeDriver(cfg.Storage.Driver); driver != "" && !isSupportedDriver(driver) {
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeDriver(driver string) string {
	return strings.ToLower(strings.TrimSpace(driver))
}

func isSupportedDriver(driver string) bool {
	switch driver {
	case "sqlite", "sqlite3", "postgres":
		return true
	default:
		return false
	}
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
