// Package lint checks authored Markdown against the site hygiene rules:
// required frontmatter fields, schema conformance, and resolvable internal
// references.
package lint

import (
	"context"
	"io/fs"
	"os"
	"sort"

	"github.com/goliatone/go-site/internal/logging"
	"github.com/goliatone/go-site/internal/markdown"
	"github.com/goliatone/go-site/pkg/interfaces"
)

// Config controls how documents are discovered for linting.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
}

// Service implements interfaces.LintService.
type Service struct {
	cfg    Config
	fsys   fs.FS
	loader *markdown.Loader
	rules  []Rule
	logger interfaces.Logger
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

// WithRules replaces the default rule set.
func WithRules(rules []Rule) ServiceOption {
	return func(s *Service) {
		if len(rules) > 0 {
			s.rules = rules
		}
	}
}

// NewService builds a lint service rooted at cfg.BasePath.
func NewService(cfg Config, opts ...ServiceOption) (*Service, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, err
	}
	return NewServiceWithFS(os.DirFS(basePath), cfg, opts...)
}

// NewServiceWithFS builds a lint service over an explicit filesystem, mainly
// for tests using fstest.MapFS.
func NewServiceWithFS(fsys fs.FS, cfg Config, opts ...ServiceOption) (*Service, error) {
	validator, err := NewSchemaValidator()
	if err != nil {
		return nil, err
	}

	svc := &Service{
		cfg:  cfg,
		fsys: fsys,
		loader: markdown.NewLoader(fsys, markdown.LoaderConfig{
			BasePath:  cfg.BasePath,
			Pattern:   cfg.Pattern,
			Recursive: cfg.Recursive,
		}),
		rules:  DefaultRules(validator),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// LintDirectory loads every document under dir and checks it.
func (s *Service) LintDirectory(ctx context.Context, dir string) (*interfaces.Report, error) {
	results, err := s.loader.LoadDirectory(ctx, dir, markdown.LoadParams{})
	if err != nil {
		return nil, err
	}

	docs := make([]*interfaces.Document, 0, len(results))
	for _, result := range results {
		docs = append(docs, result.Document)
	}
	return s.LintDocuments(ctx, docs)
}

// LintDocuments checks an already loaded set of documents. Cross-document
// rules (internal links) resolve against the whole set.
func (s *Service) LintDocuments(ctx context.Context, docs []*interfaces.Document) (*interfaces.Report, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	site := newSiteIndex(docs, s.fsys)
	report := &interfaces.Report{
		Findings: []interfaces.Finding{},
		ByRule:   map[string]int{},
	}

	for _, doc := range docs {
		if doc == nil {
			continue
		}
		for _, rule := range s.rules {
			for _, finding := range rule.Check(doc, site) {
				report.Findings = append(report.Findings, finding)
				report.ByRule[finding.Rule]++
				switch finding.Severity {
				case interfaces.SeverityWarning:
					report.Warnings++
				default:
					report.Errors++
				}
			}
		}
	}

	sort.SliceStable(report.Findings, func(i, j int) bool {
		if report.Findings[i].Path != report.Findings[j].Path {
			return report.Findings[i].Path < report.Findings[j].Path
		}
		return report.Findings[i].Rule < report.Findings[j].Rule
	})

	s.logger.Info("lint run complete",
		"documents", len(docs),
		"errors", report.Errors,
		"warnings", report.Warnings,
	)
	return report, nil
}
