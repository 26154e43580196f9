// Package sitecmd exposes the site workflows as go-command messages so hosts
// can dispatch them from CLIs, schedulers, or watch loops.
package sitecmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	importDirectoryMessageType = "site.markdown.import_directory"
	syncDirectoryMessageType   = "site.markdown.sync_directory"
	lintDirectoryMessageType   = "site.lint.lint_directory"
	buildSiteMessageType       = "site.generator.build"
	syncIndexMessageType       = "site.index.sync"
)

// ImportDirectoryCommand triggers a filesystem walk for Markdown documents
// under Directory and persists them as posts.
type ImportDirectoryCommand struct {
	// Directory selects the filesystem path to load Markdown files from.
	Directory string `json:"directory"`
	// DryRun collects import diffs without persisting changes.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (ImportDirectoryCommand) Type() string { return importDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd ImportDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(requireNonBlank("site.markdown.import_directory.directory_required"))),
	)
}

// SyncDirectoryCommand reconciles the post store against the Markdown files
// under Directory.
type SyncDirectoryCommand struct {
	// Directory selects the filesystem path to load Markdown files from.
	Directory string `json:"directory"`
	// DryRun collects sync diffs without persisting changes.
	DryRun bool `json:"dry_run,omitempty"`
	// DeleteOrphaned removes posts whose source files disappeared.
	DeleteOrphaned bool `json:"delete_orphaned,omitempty"`
}

// Type implements command.Message.
func (SyncDirectoryCommand) Type() string { return syncDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd SyncDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(requireNonBlank("site.markdown.sync_directory.directory_required"))),
	)
}

// LintDirectoryCommand checks the Markdown files under Directory against the
// site hygiene rules. Strict escalates warnings to failures.
type LintDirectoryCommand struct {
	Directory string `json:"directory"`
	Strict    bool   `json:"strict,omitempty"`
}

// Type implements command.Message.
func (LintDirectoryCommand) Type() string { return lintDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd LintDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(requireNonBlank("site.lint.lint_directory.directory_required"))),
	)
}

// BuildSiteCommand runs a full generator build.
type BuildSiteCommand struct{}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// SyncIndexCommand reconciles the repository index against the authored
// index file at Path.
type SyncIndexCommand struct {
	Path string `json:"path"`
}

// Type implements command.Message.
func (SyncIndexCommand) Type() string { return syncIndexMessageType }

// Validate ensures the index path is present before handlers execute.
func (cmd SyncIndexCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.Required, validation.By(requireNonBlank("site.index.sync.path_required"))),
	)
}

func requireNonBlank(code string) func(value any) error {
	return func(value any) error {
		if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
			return validation.NewError(code, "value is required")
		}
		return nil
	}
}
