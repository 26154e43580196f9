package runtimeconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors Config for TOML decoding. Durations are authored as
// strings ("500ms", "1m") and parsed explicitly because TOML has no native
// duration type.
type fileConfig struct {
	Site    SiteConfig `toml:"site"`
	Content struct {
		Dir       string       `toml:"dir"`
		Pattern   string       `toml:"pattern"`
		Recursive *bool        `toml:"recursive"`
		Parser    ParserConfig `toml:"parser"`
	} `toml:"content"`
	Index   IndexConfig   `toml:"index"`
	Storage StorageConfig `toml:"storage"`
	Cache   struct {
		Enabled    *bool  `toml:"enabled"`
		DefaultTTL string `toml:"default_ttl"`
	} `toml:"cache"`
	Generator struct {
		Enabled         *bool  `toml:"enabled"`
		OutputDir       string `toml:"output_dir"`
		CleanBuild      *bool  `toml:"clean_build"`
		GenerateSitemap *bool  `toml:"generate_sitemap"`
		GenerateRobots  *bool  `toml:"generate_robots"`
		GenerateFeeds   *bool  `toml:"generate_feeds"`
	} `toml:"generator"`
	Watch struct {
		Enabled  *bool  `toml:"enabled"`
		Debounce string `toml:"debounce"`
	} `toml:"watch"`
	Logging  LoggingConfig `toml:"logging"`
	Features Features      `toml:"features"`
}

// LoadFile reads a TOML site configuration and overlays it on DefaultConfig.
// Absent keys keep their defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	var file fileConfig
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return Config{}, fmt.Errorf("site config: decode %s: %w", path, err)
	}

	overlaySite(&cfg.Site, file.Site)

	if strings.TrimSpace(file.Content.Dir) != "" {
		cfg.Content.Dir = file.Content.Dir
	}
	if strings.TrimSpace(file.Content.Pattern) != "" {
		cfg.Content.Pattern = file.Content.Pattern
	}
	if file.Content.Recursive != nil {
		cfg.Content.Recursive = *file.Content.Recursive
	}
	if len(file.Content.Parser.Extensions) > 0 {
		cfg.Content.Parser.Extensions = append([]string(nil), file.Content.Parser.Extensions...)
	}
	cfg.Content.Parser.Sanitize = cfg.Content.Parser.Sanitize || file.Content.Parser.Sanitize
	cfg.Content.Parser.HardWraps = cfg.Content.Parser.HardWraps || file.Content.Parser.HardWraps
	cfg.Content.Parser.SafeMode = cfg.Content.Parser.SafeMode || file.Content.Parser.SafeMode

	if strings.TrimSpace(file.Index.Path) != "" {
		cfg.Index.Path = file.Index.Path
	}
	if strings.TrimSpace(file.Storage.Driver) != "" {
		cfg.Storage.Driver = file.Storage.Driver
	}
	if strings.TrimSpace(file.Storage.DSN) != "" {
		cfg.Storage.DSN = file.Storage.DSN
	}

	if file.Cache.Enabled != nil {
		cfg.Cache.Enabled = *file.Cache.Enabled
	}
	if ttl, err := parseDuration(file.Cache.DefaultTTL); err != nil {
		return Config{}, err
	} else if ttl > 0 {
		cfg.Cache.DefaultTTL = ttl
	}

	if file.Generator.Enabled != nil {
		cfg.Generator.Enabled = *file.Generator.Enabled
	}
	if strings.TrimSpace(file.Generator.OutputDir) != "" {
		cfg.Generator.OutputDir = file.Generator.OutputDir
	}
	if file.Generator.CleanBuild != nil {
		cfg.Generator.CleanBuild = *file.Generator.CleanBuild
	}
	if file.Generator.GenerateSitemap != nil {
		cfg.Generator.GenerateSitemap = *file.Generator.GenerateSitemap
	}
	if file.Generator.GenerateRobots != nil {
		cfg.Generator.GenerateRobots = *file.Generator.GenerateRobots
	}
	if file.Generator.GenerateFeeds != nil {
		cfg.Generator.GenerateFeeds = *file.Generator.GenerateFeeds
	}

	if file.Watch.Enabled != nil {
		cfg.Watch.Enabled = *file.Watch.Enabled
	}
	if debounce, err := parseDuration(file.Watch.Debounce); err != nil {
		return Config{}, err
	} else if debounce > 0 {
		cfg.Watch.Debounce = debounce
	}

	overlayLogging(&cfg.Logging, file.Logging)
	cfg.Features = file.Features

	return cfg, nil
}

func overlaySite(dst *SiteConfig, src SiteConfig) {
	if strings.TrimSpace(src.Title) != "" {
		dst.Title = src.Title
	}
	if strings.TrimSpace(src.Description) != "" {
		dst.Description = src.Description
	}
	if strings.TrimSpace(src.BaseURL) != "" {
		dst.BaseURL = src.BaseURL
	}
	if strings.TrimSpace(src.Author) != "" {
		dst.Author = src.Author
	}
}

func overlayLogging(dst *LoggingConfig, src LoggingConfig) {
	if strings.TrimSpace(src.Provider) != "" {
		dst.Provider = src.Provider
	}
	if strings.TrimSpace(src.Level) != "" {
		dst.Level = src.Level
	}
	if strings.TrimSpace(src.Format) != "" {
		dst.Format = src.Format
	}
	if src.AddSource {
		dst.AddSource = true
	}
	if len(src.Focus) > 0 {
		dst.Focus = append([]string(nil), src.Focus...)
	}
}

func parseDuration(value string) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, nil
	}
	parsed, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("site config: parse duration %q: %w", value, err)
	}
	return parsed, nil
}
