package sitecmd

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-site/pkg/interfaces"
)

type fakeMarkdownService struct {
	interfaces.MarkdownService

	importDirs []string
	syncDirs   []string
	syncOpts   interfaces.SyncOptions
	err        error
}

func (f *fakeMarkdownService) ImportDirectory(_ context.Context, dir string, _ interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	f.importDirs = append(f.importDirs, dir)
	if f.err != nil {
		return nil, f.err
	}
	return &interfaces.ImportResult{}, nil
}

func (f *fakeMarkdownService) Sync(_ context.Context, dir string, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	f.syncDirs = append(f.syncDirs, dir)
	f.syncOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return &interfaces.SyncResult{}, nil
}

type fakeLintService struct {
	report *interfaces.Report
	err    error
}

func (f *fakeLintService) LintDirectory(context.Context, string) (*interfaces.Report, error) {
	return f.report, f.err
}

func (f *fakeLintService) LintDocuments(context.Context, []*interfaces.Document) (*interfaces.Report, error) {
	return f.report, f.err
}

func TestImportDirectoryHandlerValidatesMessage(t *testing.T) {
	svc := &fakeMarkdownService{}
	handler := NewImportDirectoryHandler(svc, nil)

	err := handler.Execute(context.Background(), ImportDirectoryCommand{})
	if err == nil {
		t.Fatal("expected validation error for empty directory")
	}
	if len(svc.importDirs) != 0 {
		t.Fatal("expected service untouched on validation failure")
	}
}

func TestImportDirectoryHandlerDelegates(t *testing.T) {
	svc := &fakeMarkdownService{}
	handler := NewImportDirectoryHandler(svc, nil)

	if err := handler.Execute(context.Background(), ImportDirectoryCommand{Directory: "content"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(svc.importDirs) != 1 || svc.importDirs[0] != "content" {
		t.Fatalf("expected delegation to service, got %v", svc.importDirs)
	}
}

func TestSyncDirectoryHandlerCarriesOptions(t *testing.T) {
	svc := &fakeMarkdownService{}
	handler := NewSyncDirectoryHandler(svc, nil)

	err := handler.Execute(context.Background(), SyncDirectoryCommand{
		Directory:      "content",
		DryRun:         true,
		DeleteOrphaned: true,
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !svc.syncOpts.DryRun || !svc.syncOpts.DeleteOrphaned {
		t.Fatalf("expected options forwarded, got %+v", svc.syncOpts)
	}
}

func TestLintDirectoryHandlerFailsOnErrors(t *testing.T) {
	svc := &fakeLintService{report: &interfaces.Report{Errors: 2}}
	handler := NewLintDirectoryHandler(svc, nil)

	err := handler.Execute(context.Background(), LintDirectoryCommand{Directory: "content"})
	if !errors.Is(err, ErrLintFailed) {
		t.Fatalf("expected ErrLintFailed, got %v", err)
	}
	if handler.Report() == nil || handler.Report().Errors != 2 {
		t.Fatalf("expected report retained, got %+v", handler.Report())
	}
}

func TestLintDirectoryHandlerStrictWarnings(t *testing.T) {
	svc := &fakeLintService{report: &interfaces.Report{Warnings: 1}}
	handler := NewLintDirectoryHandler(svc, nil)

	if err := handler.Execute(context.Background(), LintDirectoryCommand{Directory: "content"}); err != nil {
		t.Fatalf("expected warnings tolerated by default, got %v", err)
	}

	err := handler.Execute(context.Background(), LintDirectoryCommand{Directory: "content", Strict: true})
	if !errors.Is(err, ErrLintWarnings) {
		t.Fatalf("expected ErrLintWarnings in strict mode, got %v", err)
	}
}

func TestHandlerWrapsExecutionErrors(t *testing.T) {
	boom := errors.New("boom")
	svc := &fakeMarkdownService{err: boom}
	handler := NewImportDirectoryHandler(svc, nil)

	err := handler.Execute(context.Background(), ImportDirectoryCommand{Directory: "content"})
	if err == nil {
		t.Fatal("expected execution error surfaced")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}
