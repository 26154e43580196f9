package markdown

import (
	"testing"
	"time"
)

func TestParseFrontMatterExtractsNamedFields(t *testing.T) {
	source := []byte(`---
layout: post
title: Concurrency Notes
slug: concurrency-notes
description: Notes on channels
keywords:
  - go
  - channels
date: 2026-01-12T00:00:00Z
series: runtime
---
# Body

content here
`)

	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("ParseFrontMatter returned error: %v", err)
	}

	if meta.Layout != "post" {
		t.Fatalf("expected layout post, got %q", meta.Layout)
	}
	if meta.Title != "Concurrency Notes" {
		t.Fatalf("expected title, got %q", meta.Title)
	}
	if meta.Slug != "concurrency-notes" {
		t.Fatalf("expected slug, got %q", meta.Slug)
	}
	if meta.Description != "Notes on channels" {
		t.Fatalf("expected description, got %q", meta.Description)
	}
	if len(meta.Keywords) != 2 || meta.Keywords[0] != "go" {
		t.Fatalf("expected keywords [go channels], got %v", meta.Keywords)
	}
	want := time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC)
	if !meta.Date.Equal(want) {
		t.Fatalf("expected date %v, got %v", want, meta.Date)
	}
	if meta.Draft {
		t.Fatal("expected draft false by default")
	}
	if meta.Custom["series"] != "runtime" {
		t.Fatalf("expected custom series field, got %v", meta.Custom)
	}
	if meta.Raw["slug"] != "concurrency-notes" {
		t.Fatalf("expected raw map to carry slug, got %v", meta.Raw)
	}

	if string(body[:6]) != "# Body" {
		t.Fatalf("expected body without delimiters, got %q", string(body))
	}
}

func TestParseFrontMatterWithoutBlock(t *testing.T) {
	source := []byte("plain markdown, no metadata\n")

	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("ParseFrontMatter returned error: %v", err)
	}
	if meta.Title != "" || meta.Slug != "" {
		t.Fatalf("expected empty metadata, got %+v", meta)
	}
	if string(body) != string(source) {
		t.Fatalf("expected body passthrough, got %q", string(body))
	}
}

func TestBuildDocumentLeavesHTMLEmpty(t *testing.T) {
	modified := time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)
	doc, err := BuildDocument("posts/hello.md", []byte("---\ntitle: Hello\n---\nhi\n"), modified)
	if err != nil {
		t.Fatalf("BuildDocument returned error: %v", err)
	}
	if doc.FilePath != "posts/hello.md" {
		t.Fatalf("expected file path preserved, got %q", doc.FilePath)
	}
	if !doc.LastModified.Equal(modified) {
		t.Fatalf("expected modified time preserved, got %v", doc.LastModified)
	}
	if len(doc.BodyHTML) != 0 {
		t.Fatalf("expected empty BodyHTML, got %q", string(doc.BodyHTML))
	}
}
