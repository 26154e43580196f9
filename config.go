package site

import "github.com/goliatone/go-site/internal/runtimeconfig"

// Config aggregates feature flags and adapter bindings for the site module.
type Config = runtimeconfig.Config

// SiteConfig carries the site-wide metadata emitted into feeds and sitemaps.
type SiteConfig = runtimeconfig.SiteConfig

// ContentConfig captures filesystem and parser behaviour for Markdown posts.
type ContentConfig = runtimeconfig.ContentConfig

// ParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type ParserConfig = runtimeconfig.ParserConfig

// IndexConfig locates the authored repository index file.
type IndexConfig = runtimeconfig.IndexConfig

// StorageConfig selects the backing database.
type StorageConfig = runtimeconfig.StorageConfig

// CacheConfig captures repository cache behaviour toggles.
type CacheConfig = runtimeconfig.CacheConfig

// GeneratorConfig captures behaviour for the artifact generator.
type GeneratorConfig = runtimeconfig.GeneratorConfig

// WatchConfig controls the content change watcher.
type WatchConfig = runtimeconfig.WatchConfig

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig = runtimeconfig.LoggingConfig

// Features toggles module functionality.
type Features = runtimeconfig.Features

// DefaultConfig returns opinionated defaults for a single-author site.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfigFile reads a TOML site configuration and overlays it on
// DefaultConfig.
func LoadConfigFile(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}
