package markdown

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-site/pkg/interfaces"
)

func testFS() fstest.MapFS {
	now := time.Date(2026, time.February, 1, 10, 0, 0, 0, time.UTC)
	return fstest.MapFS{
		"hello.md": {
			Data: []byte(`---
title: Hello
slug: hello
---
# Hello

first post
`),
			ModTime: now,
		},
		"nested/deep.md": {
			Data: []byte(`---
title: Deep
slug: deep
---
deep body
`),
			ModTime: now,
		},
		"notes.txt": {
			Data:    []byte("not markdown"),
			ModTime: now,
		},
	}
}

func TestServiceLoadRendersHTML(t *testing.T) {
	svc, err := NewServiceWithFS(testFS(), Config{Pattern: "*.md"}, nil)
	if err != nil {
		t.Fatalf("NewServiceWithFS returned error: %v", err)
	}

	doc, err := svc.Load(context.Background(), "hello.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if doc.FrontMatter.Slug != "hello" {
		t.Fatalf("expected slug hello, got %q", doc.FrontMatter.Slug)
	}
	if !strings.Contains(string(doc.BodyHTML), "<h1") {
		t.Fatalf("expected rendered heading, got %q", string(doc.BodyHTML))
	}
	if len(doc.Checksum) == 0 {
		t.Fatal("expected checksum on loaded document")
	}
}

func TestServiceLoadDirectoryRespectsRecursion(t *testing.T) {
	svc, err := NewServiceWithFS(testFS(), Config{Pattern: "*.md"}, nil)
	if err != nil {
		t.Fatalf("NewServiceWithFS returned error: %v", err)
	}
	ctx := context.Background()

	flat, err := svc.LoadDirectory(ctx, ".", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDirectory returned error: %v", err)
	}
	if len(flat) != 1 {
		t.Fatalf("expected 1 top-level document, got %d", len(flat))
	}

	recurse := true
	all, err := svc.LoadDirectory(ctx, ".", interfaces.LoadOptions{Recursive: &recurse})
	if err != nil {
		t.Fatalf("recursive LoadDirectory returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(all))
	}
	if all[0].FilePath > all[1].FilePath {
		t.Fatal("expected documents sorted by path")
	}
}

func TestServiceRenderHonorsSafeMode(t *testing.T) {
	svc, err := NewServiceWithFS(testFS(), Config{}, nil)
	if err != nil {
		t.Fatalf("NewServiceWithFS returned error: %v", err)
	}
	ctx := context.Background()

	raw := []byte("<span>inline</span>\n")

	unsafe, err := svc.Render(ctx, raw, interfaces.ParseOptions{})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(string(unsafe), "<span>") {
		t.Fatalf("expected raw HTML preserved by default, got %q", string(unsafe))
	}

	safe, err := svc.Render(ctx, raw, interfaces.ParseOptions{SafeMode: true})
	if err != nil {
		t.Fatalf("safe Render returned error: %v", err)
	}
	if strings.Contains(string(safe), "<span>") {
		t.Fatalf("expected raw HTML suppressed in safe mode, got %q", string(safe))
	}
}

func TestServiceImportWithoutImporter(t *testing.T) {
	svc, err := NewServiceWithFS(testFS(), Config{}, nil)
	if err != nil {
		t.Fatalf("NewServiceWithFS returned error: %v", err)
	}

	if _, err := svc.ImportDirectory(context.Background(), ".", interfaces.ImportOptions{}); err == nil {
		t.Fatal("expected error when importer is not wired")
	}
}
