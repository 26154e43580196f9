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
	if err := runBuild(os.Args[1:]); err != nil {
		log.Fatalf("site build: %v", err)
	}
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("site-build", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a site configuration file (TOML)")
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering markdown files")
	outputDir := fs.String("output-dir", "", "Directory the generated artifacts are written to")
	driver := fs.String("db-driver", "", "Database driver override (sqlite, postgres)")
	dsn := fs.String("db-dsn", "", "Database DSN override")
	syncFirst := fs.Bool("sync", false, "Sync the content directory into the post store before building")
	indexPath := fs.String("index", "", "Path to the repository index file to sync before building")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ConfigPath:      *configPath,
		ContentDir:      *contentDir,
		Pattern:         *pattern,
		Recursive:       true,
		StorageDriver:   *driver,
		StorageDSN:      *dsn,
		OutputDir:       *outputDir,
		IndexPath:       *indexPath,
		EnableGenerator: true,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Module.Close()

	ctx := context.Background()

	if *syncFirst {
		syncHandler := sitecmd.NewSyncDirectoryHandler(module.Markdown, module.Logger)
		if err := syncHandler.Execute(ctx, sitecmd.SyncDirectoryCommand{Directory: "."}); err != nil {
			return fmt.Errorf("execute sync command: %w", err)
		}
	}
	if *indexPath != "" {
		indexHandler := sitecmd.NewSyncIndexHandler(module.Module.Index(), nil, module.Logger)
		if err := indexHandler.Execute(ctx, sitecmd.SyncIndexCommand{Path: *indexPath}); err != nil {
			return fmt.Errorf("execute index sync command: %w", err)
		}
	}

	generatorSvc := module.Module.Generator()
	if generatorSvc == nil {
		return fmt.Errorf("generator service not configured; ensure generator feature is enabled")
	}

	handler := sitecmd.NewBuildSiteHandler(generatorSvc, module.Logger)
	if err := handler.Execute(ctx, sitecmd.BuildSiteCommand{}); err != nil {
		return fmt.Errorf("execute build command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "site build command executed successfully")

	return nil
}
