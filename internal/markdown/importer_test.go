package markdown

import (
	"context"
	"crypto/sha256"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-site/domain"
	"github.com/goliatone/go-site/pkg/interfaces"
	"github.com/goliatone/go-site/posts"
)

type memoryPostStore struct {
	bySlug map[string]*posts.Post
}

func newMemoryPostStore() *memoryPostStore {
	return &memoryPostStore{bySlug: map[string]*posts.Post{}}
}

func (m *memoryPostStore) Create(_ context.Context, req posts.CreatePostRequest) (*posts.Post, error) {
	record := &posts.Post{
		ID:          uuid.New(),
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
		Layout:      req.Layout,
		Keywords:    req.Keywords,
		Status:      req.Status,
		Body:        req.Body,
		BodyHTML:    req.BodyHTML,
		SourcePath:  req.SourcePath,
		Checksum:    req.Checksum,
		PublishedAt: req.PublishedAt,
	}
	m.bySlug[record.Slug] = record
	return record, nil
}

func (m *memoryPostStore) Update(_ context.Context, req posts.UpdatePostRequest) (*posts.Post, error) {
	for _, record := range m.bySlug {
		if record.ID == req.ID {
			record.Title = req.Title
			record.Description = req.Description
			record.Status = req.Status
			record.Body = req.Body
			record.BodyHTML = req.BodyHTML
			record.SourcePath = req.SourcePath
			record.Checksum = req.Checksum
			return record, nil
		}
	}
	return nil, &posts.NotFoundError{Resource: "post", Key: req.ID.String()}
}

func (m *memoryPostStore) GetBySlug(_ context.Context, slug string) (*posts.Post, error) {
	record, ok := m.bySlug[slug]
	if !ok {
		return nil, &posts.NotFoundError{Resource: "post", Key: slug}
	}
	return record, nil
}

func (m *memoryPostStore) List(_ context.Context, _ posts.ListOptions) ([]*posts.Post, error) {
	var out []*posts.Post
	for _, record := range m.bySlug {
		out = append(out, record)
	}
	return out, nil
}

func (m *memoryPostStore) Delete(_ context.Context, req posts.DeletePostRequest) error {
	for slug, record := range m.bySlug {
		if record.ID == req.ID {
			delete(m.bySlug, slug)
			return nil
		}
	}
	return &posts.NotFoundError{Resource: "post", Key: req.ID.String()}
}

func testDocument(t *testing.T, path, source string) *interfaces.Document {
	t.Helper()
	doc, err := BuildDocument(path, []byte(source), time.Now())
	if err != nil {
		t.Fatalf("BuildDocument(%s) returned error: %v", path, err)
	}
	sum := sha256.Sum256([]byte(source))
	doc.Checksum = sum[:]
	return doc
}

func TestImporterCreatesPost(t *testing.T) {
	store := newMemoryPostStore()
	importer := NewImporter(ImporterConfig{Posts: store})
	ctx := context.Background()

	doc := testDocument(t, "posts/channels.md", `---
title: Channels
slug: channels
description: Buffered and unbuffered
date: 2026-01-10T00:00:00Z
---
body
`)

	result, err := importer.ImportDocument(ctx, doc, interfaces.ImportOptions{})
	if err != nil {
		t.Fatalf("ImportDocument returned error: %v", err)
	}
	if len(result.CreatedPostIDs) != 1 {
		t.Fatalf("expected 1 created post, got %+v", result)
	}

	record := store.bySlug["channels"]
	if record == nil {
		t.Fatal("expected post stored under slug channels")
	}
	if record.Status != domain.StatusPublished {
		t.Fatalf("expected dated non-draft doc published, got %q", record.Status)
	}
	if record.PublishedAt == nil {
		t.Fatal("expected PublishedAt from frontmatter date")
	}
	if record.SourcePath == nil || *record.SourcePath != "posts/channels.md" {
		t.Fatalf("expected source path recorded, got %v", record.SourcePath)
	}
}

func TestImporterSkipsUnchangedChecksum(t *testing.T) {
	store := newMemoryPostStore()
	importer := NewImporter(ImporterConfig{Posts: store})
	ctx := context.Background()

	source := "---\ntitle: Stable\nslug: stable\n---\nbody\n"
	doc := testDocument(t, "stable.md", source)

	if _, err := importer.ImportDocument(ctx, doc, interfaces.ImportOptions{}); err != nil {
		t.Fatalf("first import returned error: %v", err)
	}

	again := testDocument(t, "stable.md", source)
	result, err := importer.ImportDocument(ctx, again, interfaces.ImportOptions{})
	if err != nil {
		t.Fatalf("second import returned error: %v", err)
	}
	if len(result.SkippedPostIDs) != 1 || len(result.UpdatedPostIDs) != 0 {
		t.Fatalf("expected unchanged doc skipped, got %+v", result)
	}

	changed := testDocument(t, "stable.md", "---\ntitle: Stable v2\nslug: stable\n---\nnew body\n")
	result, err = importer.ImportDocument(ctx, changed, interfaces.ImportOptions{})
	if err != nil {
		t.Fatalf("third import returned error: %v", err)
	}
	if len(result.UpdatedPostIDs) != 1 {
		t.Fatalf("expected changed doc updated, got %+v", result)
	}
	if store.bySlug["stable"].Title != "Stable v2" {
		t.Fatalf("expected refreshed title, got %q", store.bySlug["stable"].Title)
	}
}

func TestImporterDryRunTouchesNothing(t *testing.T) {
	store := newMemoryPostStore()
	importer := NewImporter(ImporterConfig{Posts: store})
	ctx := context.Background()

	doc := testDocument(t, "preview.md", "---\ntitle: Preview\nslug: preview\n---\nbody\n")
	result, err := importer.ImportDocument(ctx, doc, interfaces.ImportOptions{DryRun: true})
	if err != nil {
		t.Fatalf("dry-run import returned error: %v", err)
	}
	if len(result.CreatedPostIDs) != 0 {
		t.Fatalf("expected no creations in dry run, got %+v", result)
	}
	if len(store.bySlug) != 0 {
		t.Fatalf("expected empty store after dry run, got %d records", len(store.bySlug))
	}
}

func TestImporterSlugFallsBackToFilename(t *testing.T) {
	store := newMemoryPostStore()
	importer := NewImporter(ImporterConfig{Posts: store})
	ctx := context.Background()

	doc := testDocument(t, "notes/My Daily Notes.md", "---\ntitle: Daily\n---\nbody\n")
	if _, err := importer.ImportDocument(ctx, doc, interfaces.ImportOptions{}); err != nil {
		t.Fatalf("ImportDocument returned error: %v", err)
	}
	if _, ok := store.bySlug["my-daily-notes"]; !ok {
		t.Fatalf("expected filename-derived slug, got %v", keys(store.bySlug))
	}
}

func TestSyncDeletesOrphanedPosts(t *testing.T) {
	store := newMemoryPostStore()
	importer := NewImporter(ImporterConfig{Posts: store})
	ctx := context.Background()

	stale := testDocument(t, "old.md", "---\ntitle: Old\nslug: old\n---\nbody\n")
	if _, err := importer.ImportDocument(ctx, stale, interfaces.ImportOptions{}); err != nil {
		t.Fatalf("seed import returned error: %v", err)
	}

	fresh := testDocument(t, "new.md", "---\ntitle: New\nslug: new\n---\nbody\n")
	result, err := importer.SyncDocuments(ctx, []*interfaces.Document{fresh}, interfaces.SyncOptions{DeleteOrphaned: true})
	if err != nil {
		t.Fatalf("SyncDocuments returned error: %v", err)
	}
	if result.Created != 1 || result.Deleted != 1 {
		t.Fatalf("expected 1 created and 1 deleted, got %+v", result)
	}
	if _, ok := store.bySlug["old"]; ok {
		t.Fatal("expected orphaned post removed")
	}
}

func TestImporterDraftFrontmatterKeepsDraftStatus(t *testing.T) {
	store := newMemoryPostStore()
	importer := NewImporter(ImporterConfig{Posts: store})
	ctx := context.Background()

	doc := testDocument(t, "wip.md", "---\ntitle: WIP\nslug: wip\ndraft: true\n---\nbody\n")
	if _, err := importer.ImportDocument(ctx, doc, interfaces.ImportOptions{}); err != nil {
		t.Fatalf("ImportDocument returned error: %v", err)
	}

	record := store.bySlug["wip"]
	if record.Status != domain.StatusDraft {
		t.Fatalf("expected draft status, got %q", record.Status)
	}
	if record.PublishedAt != nil {
		t.Fatal("expected drafts to have no publish timestamp")
	}
}

func keys(m map[string]*posts.Post) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestImportDocumentsRejectsDuplicateSlugs(t *testing.T) {
	store := newMemoryPostStore()
	importer := NewImporter(ImporterConfig{Posts: store})
	ctx := context.Background()

	first := testDocument(t, "posts/a.md", `---
title: First
slug: shared
---
first body
`)
	second := testDocument(t, "posts/b.md", `---
title: Second
slug: shared
---
second body
`)

	result, err := importer.ImportDocuments(ctx, []*interfaces.Document{first, second}, interfaces.ImportOptions{})
	if err == nil {
		t.Fatal("expected duplicate slug error")
	}
	if len(result.CreatedPostIDs) != 1 {
		t.Fatalf("expected first claimant imported, got %+v", result)
	}
	if record := store.bySlug["shared"]; record == nil || record.Title != "First" {
		t.Fatalf("expected first claimant stored, got %+v", record)
	}
}
