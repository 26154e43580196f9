// Package site assembles the personal site toolkit: Markdown posts backed by
// a relational store, the repository index, hygiene checks, and the artifact
// generator the external HTML renderer consumes.
package site

import (
	"context"
	"fmt"
	"strings"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-site/internal/generator"
	"github.com/goliatone/go-site/internal/lint"
	"github.com/goliatone/go-site/internal/logging"
	"github.com/goliatone/go-site/internal/logging/console"
	"github.com/goliatone/go-site/internal/logging/gologger"
	"github.com/goliatone/go-site/internal/markdown"
	"github.com/goliatone/go-site/internal/storage"
	"github.com/goliatone/go-site/internal/watch"
	"github.com/goliatone/go-site/pkg/interfaces"
	"github.com/goliatone/go-site/posts"
	"github.com/goliatone/go-site/repoindex"
)

// PostService exports the post service contract for consumers of the site package.
type PostService = posts.Service

// IndexService exports the repository index service contract.
type IndexService = repoindex.Service

// MarkdownService exports the Markdown workflow contract.
type MarkdownService = interfaces.MarkdownService

// LintService exports the hygiene check contract.
type LintService = interfaces.LintService

// GeneratorService exports the artifact generator contract.
type GeneratorService = generator.Service

// Module is the top level site runtime façade. Construct one with New and
// pull the services your host needs from its accessors.
type Module struct {
	cfg       Config
	db        *bun.DB
	ownsDB    bool
	provider  interfaces.LoggerProvider
	posts     *posts.Service
	index     *repoindex.Service
	markdown  *markdown.Service
	lint      *lint.Service
	generator *generator.Service
}

// Option overrides a dependency the module would otherwise construct itself.
type Option func(*Module)

// WithDB reuses an existing bun database handle instead of opening one from
// the storage configuration. The caller stays responsible for closing it.
func WithDB(db *bun.DB) Option {
	return func(m *Module) {
		m.db = db
	}
}

// WithLoggerProvider overrides the logger provider derived from the logging
// configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(m *Module) {
		m.provider = provider
	}
}

// New constructs a site module from the supplied configuration. The backing
// database is opened and bootstrapped unless WithDB supplies one.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Module{cfg: cfg}
	for _, opt := range opts {
		opt(m)
	}

	if m.provider == nil && cfg.Features.Logger {
		provider, err := newLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		m.provider = provider
	}

	if m.db == nil {
		db, err := storage.Open(cfg.Storage.Driver, cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		if err := storage.Bootstrap(context.Background(), db); err != nil {
			_ = db.Close()
			return nil, err
		}
		m.db = db
		m.ownsDB = true
	}

	cacheService, serializer := newCacheServices(cfg.Cache)

	postRepo := posts.NewBunPostRepositoryWithCache(m.db, cacheService, serializer)
	m.posts = posts.NewServiceWithRepository(postRepo,
		posts.WithLogger(logging.PostsLogger(m.provider)),
	)

	entryRepo := repoindex.NewBunEntryRepositoryWithCache(m.db, cacheService, serializer)
	m.index = repoindex.NewServiceWithRepository(entryRepo,
		repoindex.WithLogger(logging.IndexLogger(m.provider)),
	)

	if cfg.Features.Markdown {
		importer := markdown.NewImporter(markdown.ImporterConfig{
			Posts:  m.posts,
			Logger: logging.MarkdownLogger(m.provider),
		})
		mdSvc, err := markdown.NewService(markdown.Config{
			BasePath:  cfg.Content.Dir,
			Pattern:   cfg.Content.Pattern,
			Recursive: cfg.Content.Recursive,
			Parser:    parseOptions(cfg.Content.Parser),
		}, nil, markdown.WithImporter(importer))
		if err != nil {
			return nil, fmt.Errorf("site: markdown service: %w", err)
		}
		m.markdown = mdSvc

		lintSvc, err := lint.NewService(lint.Config{
			BasePath:  cfg.Content.Dir,
			Pattern:   cfg.Content.Pattern,
			Recursive: cfg.Content.Recursive,
		}, lint.WithLogger(logging.LintLogger(m.provider)))
		if err != nil {
			return nil, fmt.Errorf("site: lint service: %w", err)
		}
		m.lint = lintSvc
	}

	if cfg.Features.Generator {
		m.generator = generator.NewService(generator.Config{
			Site: generator.SiteMetadata{
				Title:       cfg.Site.Title,
				Description: cfg.Site.Description,
				BaseURL:     cfg.Site.BaseURL,
				Author:      cfg.Site.Author,
			},
			OutputDir:       cfg.Generator.OutputDir,
			CleanBuild:      cfg.Generator.CleanBuild,
			GenerateSitemap: cfg.Generator.GenerateSitemap,
			GenerateRobots:  cfg.Generator.GenerateRobots,
			GenerateFeeds:   cfg.Generator.GenerateFeeds,
		}, m.posts,
			generator.WithIndexSource(m.index),
			generator.WithLogger(logging.GeneratorLogger(m.provider)),
		)
	}

	return m, nil
}

// Posts returns the post service.
func (m *Module) Posts() *PostService {
	return m.posts
}

// Index returns the repository index service.
func (m *Module) Index() *IndexService {
	return m.index
}

// Markdown returns the Markdown workflow service, or nil when the markdown
// feature is disabled.
func (m *Module) Markdown() MarkdownService {
	if m == nil || m.markdown == nil {
		return nil
	}
	return m.markdown
}

// Lint returns the hygiene check service, or nil when the markdown feature is
// disabled.
func (m *Module) Lint() LintService {
	if m == nil || m.lint == nil {
		return nil
	}
	return m.lint
}

// Generator returns the artifact generator, or nil when the generator feature
// is disabled.
func (m *Module) Generator() *GeneratorService {
	if m == nil {
		return nil
	}
	return m.generator
}

// DB exposes the underlying database handle for advanced integrations.
func (m *Module) DB() *bun.DB {
	return m.db
}

// Logger returns a module-scoped logger from the configured provider.
func (m *Module) Logger(name string) interfaces.Logger {
	return logging.ModuleLogger(m.provider, name)
}

// Watcher builds a content watcher over the configured content directory. The
// handler receives debounced batches of changed file paths.
func (m *Module) Watcher(handler watch.Handler) (*watch.Watcher, error) {
	return watch.New(watch.Config{
		Dirs:     []string{m.cfg.Content.Dir},
		Debounce: m.cfg.Watch.Debounce,
	}, handler, watch.WithLogger(logging.WatchLogger(m.provider)))
}

// Close releases the database when the module opened it.
func (m *Module) Close() error {
	if m == nil || m.db == nil || !m.ownsDB {
		return nil
	}
	return m.db.Close()
}

func newLoggerProvider(cfg LoggingConfig) (interfaces.LoggerProvider, error) {
	switch normalizeName(cfg.Provider) {
	case "", "console":
		level := consoleLevel(cfg.Level)
		return console.NewProvider(console.Options{MinLevel: &level}), nil
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
	default:
		return nil, fmt.Errorf("site: unknown logging provider %q", cfg.Provider)
	}
}

func consoleLevel(level string) console.Level {
	switch normalizeName(level) {
	case "trace":
		return console.LevelTrace
	case "debug":
		return console.LevelDebug
	case "warn", "warning":
		return console.LevelWarn
	case "error":
		return console.LevelError
	case "fatal":
		return console.LevelFatal
	default:
		return console.LevelInfo
	}
}

func normalizeName(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func newCacheServices(cfg CacheConfig) (repocache.CacheService, repocache.KeySerializer) {
	if !cfg.Enabled {
		return nil, nil
	}
	cacheCfg := repocache.DefaultConfig()
	if cfg.DefaultTTL > 0 {
		cacheCfg.TTL = cfg.DefaultTTL
	}
	service, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		// Cache is an optimization; repositories run uncached when the
		// service cannot start.
		return nil, nil
	}
	return service, repocache.NewDefaultKeySerializer()
}

func parseOptions(cfg ParserConfig) interfaces.ParseOptions {
	return interfaces.ParseOptions{
		Extensions: cfg.Extensions,
		Sanitize:   cfg.Sanitize,
		HardWraps:  cfg.HardWraps,
		SafeMode:   cfg.SafeMode,
	}
}
