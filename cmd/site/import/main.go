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
	if err := runImport(os.Args[1:]); err != nil {
		log.Fatalf("site import: %v", err)
	}
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("site-import", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a site configuration file (TOML)")
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering markdown files")
	directory := fs.String("directory", ".", "Directory to import, relative to the content root")
	driver := fs.String("db-driver", "", "Database driver override (sqlite, postgres)")
	dsn := fs.String("db-dsn", "", "Database DSN override")
	dryRun := fs.Bool("dry-run", false, "Preview changes without persisting posts")

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
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Module.Close()

	handler := sitecmd.NewImportDirectoryHandler(module.Markdown, module.Logger)
	cmd := sitecmd.ImportDirectoryCommand{
		Directory: *directory,
		DryRun:    *dryRun,
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute import command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "site import command executed successfully")

	return nil
}
