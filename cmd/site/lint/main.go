package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-site/cmd/site/internal/bootstrap"
	sitecmd "github.com/goliatone/go-site/internal/commands/site"
	"github.com/goliatone/go-site/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runLint(os.Args[1:]); err != nil {
		log.Fatalf("site lint: %v", err)
	}
}

func runLint(args []string) error {
	fs := flag.NewFlagSet("site-lint", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a site configuration file (TOML)")
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering markdown files")
	directory := fs.String("directory", ".", "Directory to lint, relative to the content root")
	strict := fs.Bool("strict", false, "Treat warnings as failures")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ConfigPath: *configPath,
		ContentDir: *contentDir,
		Pattern:    *pattern,
		Recursive:  true,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Module.Close()

	handler := sitecmd.NewLintDirectoryHandler(module.Lint, module.Logger)
	cmd := sitecmd.LintDirectoryCommand{
		Directory: *directory,
		Strict:    *strict,
	}

	execErr := handler.Execute(context.Background(), cmd)
	printReport(os.Stdout, handler.Report())

	if execErr != nil {
		if errors.Is(execErr, sitecmd.ErrLintFailed) || errors.Is(execErr, sitecmd.ErrLintWarnings) {
			return execErr
		}
		return fmt.Errorf("execute lint command: %w", execErr)
	}

	fmt.Fprintln(os.Stdout, "site lint command executed successfully")
	return nil
}

func printReport(out *os.File, report *interfaces.Report) {
	if report == nil {
		return
	}
	for _, finding := range report.Findings {
		fmt.Fprintf(out, "%s: %s [%s] %s\n", finding.Severity, finding.Path, finding.Rule, finding.Message)
	}
	fmt.Fprintf(out, "%d errors, %d warnings\n", report.Errors, report.Warnings)
}
