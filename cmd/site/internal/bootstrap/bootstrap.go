// Package bootstrap builds site modules for the CLI entrypoints, overlaying
// command line flags on the optional TOML configuration file.
package bootstrap

import (
	"fmt"
	"strings"

	site "github.com/goliatone/go-site"
	"github.com/goliatone/go-site/pkg/interfaces"
)

// Options captures configuration for the site CLI bootstraps.
type Options struct {
	ConfigPath      string
	ContentDir      string
	Pattern         string
	Recursive       bool
	StorageDriver   string
	StorageDSN      string
	OutputDir       string
	IndexPath       string
	EnableGenerator bool
	LoggerProvider  interfaces.LoggerProvider
}

// Module wraps the site module and the services CLI commands dispatch to.
type Module struct {
	Module    *site.Module
	Markdown  interfaces.MarkdownService
	Lint      interfaces.LintService
	IndexPath string
	Logger    interfaces.Logger
}

// BuildModule constructs a site module configured for content operations.
func BuildModule(opts Options) (*Module, error) {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	cfg.Features.Markdown = true
	cfg.Features.Logger = true
	if opts.EnableGenerator {
		cfg.Features.Generator = true
		cfg.Generator.Enabled = true
	}

	if dir := strings.TrimSpace(opts.ContentDir); dir != "" {
		cfg.Content.Dir = dir
	}
	if pattern := strings.TrimSpace(opts.Pattern); pattern != "" {
		cfg.Content.Pattern = pattern
	}
	cfg.Content.Recursive = opts.Recursive

	if driver := strings.TrimSpace(opts.StorageDriver); driver != "" {
		cfg.Storage.Driver = driver
	}
	if dsn := strings.TrimSpace(opts.StorageDSN); dsn != "" {
		cfg.Storage.DSN = dsn
	}
	if out := strings.TrimSpace(opts.OutputDir); out != "" {
		cfg.Generator.OutputDir = out
	}
	if index := strings.TrimSpace(opts.IndexPath); index != "" {
		cfg.Index.Path = index
	}

	moduleOpts := []site.Option{}
	if opts.LoggerProvider != nil {
		moduleOpts = append(moduleOpts, site.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := site.New(cfg, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise site module: %w", err)
	}

	markdown := module.Markdown()
	if markdown == nil {
		return nil, fmt.Errorf("markdown service not configured; ensure markdown feature is enabled")
	}

	return &Module{
		Module:    module,
		Markdown:  markdown,
		Lint:      module.Lint(),
		IndexPath: cfg.Index.Path,
		Logger:    module.Logger("site.cli"),
	}, nil
}

func loadConfig(path string) (site.Config, error) {
	if strings.TrimSpace(path) == "" {
		return site.DefaultConfig(), nil
	}
	cfg, err := site.LoadConfigFile(path)
	if err != nil {
		return site.Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
