package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-site/cmd/site/internal/bootstrap"
	sitecmd "github.com/goliatone/go-site/internal/commands/site"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runSync(os.Args[1:]); err != nil {
		log.Fatalf("site sync: %v", err)
	}
}

func runSync(args []string) error {
	fs := flag.NewFlagSet("site-sync", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a site configuration file (TOML)")
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering markdown files")
	directory := fs.String("directory", ".", "Directory to sync, relative to the content root")
	driver := fs.String("db-driver", "", "Database driver override (sqlite, postgres)")
	dsn := fs.String("db-dsn", "", "Database DSN override")
	indexPath := fs.String("index", "", "Path to the repository index file to sync (skipped when empty)")
	dryRun := fs.Bool("dry-run", false, "Preview changes without persisting posts")
	deleteOrphaned := fs.Bool("delete-orphaned", false, "Delete posts whose source files disappeared")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ConfigPath:    *configPath,
		ContentDir:    *contentDir,
		Pattern:       *pattern,
		Recursive:     true,
		StorageDriver: *driver,
		StorageDSN:    *dsn,
		IndexPath:     *indexPath,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Module.Close()

	ctx := context.Background()

	handler := sitecmd.NewSyncDirectoryHandler(module.Markdown, module.Logger)
	cmd := sitecmd.SyncDirectoryCommand{
		Directory:      *directory,
		DryRun:         *dryRun,
		DeleteOrphaned: *deleteOrphaned,
	}
	if err := handler.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute sync command: %w", err)
	}

	if *indexPath != "" {
		indexHandler := sitecmd.NewSyncIndexHandler(module.Module.Index(), nil, module.Logger)
		if err := indexHandler.Execute(ctx, sitecmd.SyncIndexCommand{Path: *indexPath}); err != nil {
			return fmt.Errorf("execute index sync command: %w", err)
		}
	}

	fmt.Fprintln(os.Stdout, "site sync command executed successfully")

	return nil
}
