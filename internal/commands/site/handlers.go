package sitecmd

import (
	"context"
	"errors"
	"io/fs"
	"os"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-site/internal/commands"
	"github.com/goliatone/go-site/internal/generator"
	"github.com/goliatone/go-site/internal/logging"
	"github.com/goliatone/go-site/pkg/interfaces"
	"github.com/goliatone/go-site/repoindex"
)

const (
	importOperation    = "markdown.import_directory"
	syncOperation      = "markdown.sync_directory"
	lintOperation      = "lint.lint_directory"
	buildOperation     = "generator.build"
	syncIndexOperation = "index.sync"
)

var (
	// ErrLintFailed is returned when a lint run reports error findings.
	ErrLintFailed = errors.New("site command: lint failed")
	// ErrLintWarnings is returned in strict mode when warnings remain.
	ErrLintWarnings = errors.New("site command: lint produced warnings")
)

var (
	_ command.Commander[ImportDirectoryCommand] = (*ImportDirectoryHandler)(nil)
	_ command.Commander[SyncDirectoryCommand]   = (*SyncDirectoryHandler)(nil)
	_ command.Commander[LintDirectoryCommand]   = (*LintDirectoryHandler)(nil)
	_ command.Commander[BuildSiteCommand]       = (*BuildSiteHandler)(nil)
	_ command.Commander[SyncIndexCommand]       = (*SyncIndexHandler)(nil)
)

// ImportDirectoryHandler imports Markdown documents into the post store.
type ImportDirectoryHandler struct {
	inner *commands.Handler[ImportDirectoryCommand]
}

// NewImportDirectoryHandler binds the handler to the supplied Markdown service.
func NewImportDirectoryHandler(service interfaces.MarkdownService, logger interfaces.Logger, opts ...commands.HandlerOption[ImportDirectoryCommand]) *ImportDirectoryHandler {
	baseLogger := ensureLogger(logger)

	exec := func(ctx context.Context, msg ImportDirectoryCommand) error {
		result, err := service.ImportDirectory(ctx, msg.Directory, interfaces.ImportOptions{DryRun: msg.DryRun})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"created_count": len(result.CreatedPostIDs),
				"updated_count": len(result.UpdatedPostIDs),
				"skipped_count": len(result.SkippedPostIDs),
				"error_count":   len(result.Errors),
				"dry_run":       msg.DryRun,
			}).Info("site.command.import_directory.completed")
		}
		return nil
	}

	handlerOpts := append([]commands.HandlerOption[ImportDirectoryCommand]{
		commands.WithLogger[ImportDirectoryCommand](baseLogger),
		commands.WithOperation[ImportDirectoryCommand](importOperation),
	}, opts...)

	return &ImportDirectoryHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ImportDirectoryCommand].
func (h *ImportDirectoryHandler) Execute(ctx context.Context, msg ImportDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SyncDirectoryHandler reconciles the post store with the content directory.
type SyncDirectoryHandler struct {
	inner *commands.Handler[SyncDirectoryCommand]
}

// NewSyncDirectoryHandler binds the handler to the supplied Markdown service.
func NewSyncDirectoryHandler(service interfaces.MarkdownService, logger interfaces.Logger, opts ...commands.HandlerOption[SyncDirectoryCommand]) *SyncDirectoryHandler {
	baseLogger := ensureLogger(logger)

	exec := func(ctx context.Context, msg SyncDirectoryCommand) error {
		result, err := service.Sync(ctx, msg.Directory, interfaces.SyncOptions{
			ImportOptions:  interfaces.ImportOptions{DryRun: msg.DryRun},
			DeleteOrphaned: msg.DeleteOrphaned,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"created_count":  result.Created,
				"updated_count":  result.Updated,
				"deleted_count":  result.Deleted,
				"skipped_count":  result.Skipped,
				"error_count":    len(result.Errors),
				"dry_run":        msg.DryRun,
				"delete_orphans": msg.DeleteOrphaned,
			}).Info("site.command.sync_directory.completed")
		}
		return nil
	}

	handlerOpts := append([]commands.HandlerOption[SyncDirectoryCommand]{
		commands.WithLogger[SyncDirectoryCommand](baseLogger),
		commands.WithOperation[SyncDirectoryCommand](syncOperation),
	}, opts...)

	return &SyncDirectoryHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[SyncDirectoryCommand].
func (h *SyncDirectoryHandler) Execute(ctx context.Context, msg SyncDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// LintDirectoryHandler runs the hygiene rules over a content directory.
type LintDirectoryHandler struct {
	inner *commands.Handler[LintDirectoryCommand]
	// Report keeps the last run's findings for callers that render them.
	report *interfaces.Report
}

// NewLintDirectoryHandler binds the handler to the supplied lint service.
func NewLintDirectoryHandler(service interfaces.LintService, logger interfaces.Logger, opts ...commands.HandlerOption[LintDirectoryCommand]) *LintDirectoryHandler {
	baseLogger := ensureLogger(logger)
	handler := &LintDirectoryHandler{}

	exec := func(ctx context.Context, msg LintDirectoryCommand) error {
		report, err := service.LintDirectory(ctx, msg.Directory)
		if err != nil {
			return err
		}
		handler.report = report

		logging.WithFields(baseLogger, map[string]any{
			"errors":   report.Errors,
			"warnings": report.Warnings,
			"strict":   msg.Strict,
		}).Info("site.command.lint_directory.completed")

		if !report.Ok() {
			return ErrLintFailed
		}
		if msg.Strict && report.Warnings > 0 {
			return ErrLintWarnings
		}
		return nil
	}

	handlerOpts := append([]commands.HandlerOption[LintDirectoryCommand]{
		commands.WithLogger[LintDirectoryCommand](baseLogger),
		commands.WithOperation[LintDirectoryCommand](lintOperation),
	}, opts...)

	handler.inner = commands.NewHandler(exec, handlerOpts...)
	return handler
}

// Execute satisfies command.Commander[LintDirectoryCommand].
func (h *LintDirectoryHandler) Execute(ctx context.Context, msg LintDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// Report returns the findings from the most recent run.
func (h *LintDirectoryHandler) Report() *interfaces.Report {
	return h.report
}

// BuildSiteHandler runs a generator build.
type BuildSiteHandler struct {
	inner *commands.Handler[BuildSiteCommand]
}

// NewBuildSiteHandler binds the handler to the supplied generator service.
func NewBuildSiteHandler(service *generator.Service, logger interfaces.Logger, opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	baseLogger := ensureLogger(logger)

	exec := func(ctx context.Context, _ BuildSiteCommand) error {
		result, err := service.Build(ctx)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"posts":     result.Posts,
			"artifacts": len(result.Artifacts),
		}).Info("site.command.build.completed")
		return nil
	}

	handlerOpts := append([]commands.HandlerOption[BuildSiteCommand]{
		commands.WithLogger[BuildSiteCommand](baseLogger),
		commands.WithOperation[BuildSiteCommand](buildOperation),
	}, opts...)

	return &BuildSiteHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[BuildSiteCommand].
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SyncIndexHandler reconciles the repository index against index.yml.
type SyncIndexHandler struct {
	inner *commands.Handler[SyncIndexCommand]
}

// NewSyncIndexHandler binds the handler to the supplied index service. The
// filesystem defaults to the process working directory.
func NewSyncIndexHandler(service *repoindex.Service, fsys fs.FS, logger interfaces.Logger, opts ...commands.HandlerOption[SyncIndexCommand]) *SyncIndexHandler {
	baseLogger := ensureLogger(logger)
	if fsys == nil {
		fsys = os.DirFS(".")
	}

	exec := func(ctx context.Context, msg SyncIndexCommand) error {
		result, err := service.Sync(ctx, fsys, msg.Path)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"created_count": result.Created,
			"updated_count": result.Updated,
			"deleted_count": result.Deleted,
			"error_count":   len(result.Errors),
		}).Info("site.command.sync_index.completed")
		return nil
	}

	handlerOpts := append([]commands.HandlerOption[SyncIndexCommand]{
		commands.WithLogger[SyncIndexCommand](baseLogger),
		commands.WithOperation[SyncIndexCommand](syncIndexOperation),
	}, opts...)

	return &SyncIndexHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[SyncIndexCommand].
func (h *SyncIndexHandler) Execute(ctx context.Context, msg SyncIndexCommand) error {
	return h.inner.Execute(ctx, msg)
}

func ensureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
