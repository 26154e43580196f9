// Package generator emits the machine-readable site artifacts: syndication
// feeds, sitemap, robots directives, and the JSON exports the external HTML
// renderer consumes.
package generator

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-site/domain"
	"github.com/goliatone/go-site/internal/logging"
	"github.com/goliatone/go-site/pkg/interfaces"
	"github.com/goliatone/go-site/posts"
	"github.com/goliatone/go-site/repoindex"
)

// SiteMetadata identifies the site in generated artifacts.
type SiteMetadata struct {
	Title       string
	Description string
	BaseURL     string
	Author      string
}

// Config controls which artifacts a build emits and where they land.
type Config struct {
	Site            SiteMetadata
	OutputDir       string
	CleanBuild      bool
	GenerateSitemap bool
	GenerateRobots  bool
	GenerateFeeds   bool
}

// PostSource yields the posts a build publishes.
type PostSource interface {
	List(ctx context.Context, opts posts.ListOptions) ([]*posts.Post, error)
}

// IndexSource yields the repository index entries.
type IndexSource interface {
	List(ctx context.Context) ([]*repoindex.IndexEntry, error)
}

// BuildResult summarizes one generator run.
type BuildResult struct {
	GeneratedAt time.Time
	Posts       int
	Artifacts   []string
}

// Service runs site builds.
type Service struct {
	cfg    Config
	posts  PostSource
	index  IndexSource
	writer artifactWriter
	logger interfaces.Logger
	now    func() time.Time
}

// ServiceOption customizes service construction.
type ServiceOption func(*Service)

// WithLogger attaches a module logger to the service.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIndexSource wires the repository index into builds so index.json is
// emitted alongside the post exports.
func WithIndexSource(index IndexSource) ServiceOption {
	return func(s *Service) {
		s.index = index
	}
}

// withWriter replaces the artifact writer, for tests.
func withWriter(writer artifactWriter) ServiceOption {
	return func(s *Service) {
		s.writer = writer
	}
}

// NewService builds a generator writing below cfg.OutputDir.
func NewService(cfg Config, postSource PostSource, opts ...ServiceOption) *Service {
	svc := &Service{
		cfg:    cfg,
		posts:  postSource,
		writer: newFSWriter(cfg.OutputDir),
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Build produces every configured artifact from the current published posts.
// Drafts never appear in generated output.
func (s *Service) Build(ctx context.Context) (*BuildResult, error) {
	if s.posts == nil {
		return nil, fmt.Errorf("generator: post source is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	generatedAt := s.now().UTC()

	if s.cfg.CleanBuild {
		if err := s.cleanOutput(); err != nil {
			return nil, err
		}
	}
	if err := s.writer.EnsureDir(ctx, "."); err != nil {
		return nil, err
	}

	published, err := s.posts.List(ctx, posts.ListOptions{Status: domain.StatusPublished})
	if err != nil {
		return nil, fmt.Errorf("generator: list posts: %w", err)
	}

	result := &BuildResult{GeneratedAt: generatedAt, Posts: len(published)}
	manifest := buildManifest{
		GeneratedAt: generatedAt,
		BaseURL:     baseURLWithFallback(s.cfg.Site.BaseURL),
		Posts:       len(published),
	}

	write := func(path string, content string, category writeCategory, contentType string) error {
		checksum := computeHashFromString(content)
		if err := s.writer.WriteFile(ctx, writeFileRequest{
			Path:        path,
			Content:     strings.NewReader(content),
			Size:        int64(len(content)),
			Category:    category,
			ContentType: contentType,
			Checksum:    checksum,
		}); err != nil {
			return fmt.Errorf("generator: write %s: %w", path, err)
		}
		result.Artifacts = append(result.Artifacts, path)
		manifest.Artifacts = append(manifest.Artifacts, manifestArtifact{
			Path:        path,
			Category:    string(category),
			ContentType: contentType,
			Checksum:    checksum,
			Size:        int64(len(content)),
		})
		return nil
	}

	postsJSON, err := buildPostsJSON(published)
	if err != nil {
		return nil, fmt.Errorf("generator: encode posts: %w", err)
	}
	if err := write("posts.json", string(postsJSON), categoryData, "application/json"); err != nil {
		return nil, err
	}

	if s.index != nil {
		entries, err := s.index.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("generator: list index entries: %w", err)
		}
		indexJSON, err := buildIndexJSON(entries)
		if err != nil {
			return nil, fmt.Errorf("generator: encode index: %w", err)
		}
		if err := write("index.json", string(indexJSON), categoryData, "application/json"); err != nil {
			return nil, err
		}
	}

	if s.cfg.GenerateFeeds {
		items := buildFeedItems(s.cfg.Site.BaseURL, published, generatedAt)
		if err := write("feed.xml", buildRSSFeed(s.cfg.Site, items, generatedAt), categoryFeed, "application/rss+xml"); err != nil {
			return nil, err
		}
		if err := write("feed.atom.xml", buildAtomFeed(s.cfg.Site, items, generatedAt), categoryFeed, "application/atom+xml"); err != nil {
			return nil, err
		}
	}

	if s.cfg.GenerateSitemap {
		if err := write("sitemap.xml", buildSitemap(s.cfg.Site.BaseURL, published, generatedAt), categorySitemap, "application/xml"); err != nil {
			return nil, err
		}
	}

	if s.cfg.GenerateRobots {
		if err := write("robots.txt", buildRobots(s.cfg.Site.BaseURL, s.cfg.GenerateSitemap), categoryRobots, "text/plain"); err != nil {
			return nil, err
		}
	}

	manifestJSON, err := buildManifestJSON(manifest)
	if err != nil {
		return nil, fmt.Errorf("generator: encode manifest: %w", err)
	}
	if err := write("manifest.json", string(manifestJSON), categoryManifest, "application/json"); err != nil {
		return nil, err
	}

	s.logger.Info("site build complete",
		"posts", result.Posts,
		"artifacts", len(result.Artifacts),
		"output", s.cfg.OutputDir,
	)
	return result, nil
}

func (s *Service) cleanOutput() error {
	dir := strings.TrimSpace(s.cfg.OutputDir)
	if dir == "" || dir == "." || dir == "/" {
		return fmt.Errorf("generator: refusing to clean output dir %q", dir)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("generator: clean output: %w", err)
	}
	return nil
}
