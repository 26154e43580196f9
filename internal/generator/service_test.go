package generator

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-site/domain"
	"github.com/goliatone/go-site/posts"
	"github.com/goliatone/go-site/repoindex"
)

type memoryWriter struct {
	files map[string]string
}

func newMemoryWriter() *memoryWriter {
	return &memoryWriter{files: map[string]string{}}
}

func (w *memoryWriter) EnsureDir(context.Context, string) error { return nil }

func (w *memoryWriter) WriteFile(_ context.Context, req writeFileRequest) error {
	data, err := io.ReadAll(req.Content)
	if err != nil {
		return err
	}
	w.files[req.Path] = string(data)
	return nil
}

type staticPostSource struct {
	records []*posts.Post
}

func (s staticPostSource) List(_ context.Context, opts posts.ListOptions) ([]*posts.Post, error) {
	if opts.Status == "" {
		return s.records, nil
	}
	var out []*posts.Post
	for _, record := range s.records {
		if record.Status == opts.Status {
			out = append(out, record)
		}
	}
	return out, nil
}

type staticIndexSource struct {
	entries []*repoindex.IndexEntry
}

func (s staticIndexSource) List(context.Context) ([]*repoindex.IndexEntry, error) {
	return s.entries, nil
}

func fixedClock() func() time.Time {
	ts := time.Date(2026, time.April, 2, 15, 30, 0, 0, time.UTC)
	return func() time.Time { return ts }
}

func testPosts() []*posts.Post {
	older := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)
	desc := "About channels"
	return []*posts.Post{
		{
			ID:          uuid.New(),
			Slug:        "channels",
			Title:       "Channels",
			Description: &desc,
			Status:      domain.StatusPublished,
			BodyHTML:    "<h1>Channels</h1>",
			PublishedAt: &older,
			UpdatedAt:   older,
		},
		{
			ID:          uuid.New(),
			Slug:        "generics",
			Title:       "Generics",
			Status:      domain.StatusPublished,
			BodyHTML:    "<h1>Generics</h1>",
			PublishedAt: &newer,
			UpdatedAt:   newer,
		},
		{
			ID:     uuid.New(),
			Slug:   "wip",
			Title:  "WIP <draft>",
			Status: domain.StatusDraft,
		},
	}
}

func testConfig() Config {
	return Config{
		Site: SiteMetadata{
			Title:       "Notes",
			Description: "Personal notes",
			BaseURL:     "https://example.com/",
			Author:      "A. Writer",
		},
		OutputDir:       "dist",
		GenerateSitemap: true,
		GenerateRobots:  true,
		GenerateFeeds:   true,
	}
}

func TestBuildEmitsAllArtifacts(t *testing.T) {
	writer := newMemoryWriter()
	svc := NewService(testConfig(), staticPostSource{records: testPosts()},
		withWriter(writer), WithClock(fixedClock()))

	result, err := svc.Build(context.Background())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if result.Posts != 2 {
		t.Fatalf("expected 2 published posts, got %d", result.Posts)
	}

	for _, name := range []string{"posts.json", "feed.xml", "feed.atom.xml", "sitemap.xml", "robots.txt", "manifest.json"} {
		if _, ok := writer.files[name]; !ok {
			t.Fatalf("expected artifact %s, got %v", name, result.Artifacts)
		}
	}
}

func TestBuildExcludesDrafts(t *testing.T) {
	writer := newMemoryWriter()
	svc := NewService(testConfig(), staticPostSource{records: testPosts()},
		withWriter(writer), WithClock(fixedClock()))

	if _, err := svc.Build(context.Background()); err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	for name, content := range writer.files {
		if strings.Contains(content, "wip") || strings.Contains(content, "WIP") {
			t.Fatalf("draft leaked into %s", name)
		}
	}
}

func TestBuildFeedOrderAndEscaping(t *testing.T) {
	writer := newMemoryWriter()
	records := testPosts()
	records[0].Title = "Channels & Select"
	svc := NewService(testConfig(), staticPostSource{records: records},
		withWriter(writer), WithClock(fixedClock()))

	if _, err := svc.Build(context.Background()); err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	rss := writer.files["feed.xml"]
	if !strings.Contains(rss, "Channels &amp; Select") {
		t.Fatalf("expected escaped title in RSS, got %q", rss)
	}
	generics := strings.Index(rss, "Generics")
	channels := strings.Index(rss, "Channels")
	if generics < 0 || channels < 0 || generics > channels {
		t.Fatal("expected newest post first in feed")
	}

	atom := writer.files["feed.atom.xml"]
	if !strings.Contains(atom, `<feed xmlns="http://www.w3.org/2005/Atom">`) {
		t.Fatalf("expected atom envelope, got %q", atom)
	}
	if !strings.Contains(atom, "A. Writer") {
		t.Fatal("expected author in atom feed")
	}
}

func TestBuildSitemapAndRobots(t *testing.T) {
	writer := newMemoryWriter()
	svc := NewService(testConfig(), staticPostSource{records: testPosts()},
		withWriter(writer), WithClock(fixedClock()))

	if _, err := svc.Build(context.Background()); err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	sitemap := writer.files["sitemap.xml"]
	if !strings.Contains(sitemap, "https://example.com/posts/channels") {
		t.Fatalf("expected post url in sitemap, got %q", sitemap)
	}
	if !strings.Contains(sitemap, "<loc>https://example.com/</loc>") {
		t.Fatal("expected index page in sitemap")
	}

	robots := writer.files["robots.txt"]
	if !strings.Contains(robots, "Sitemap: https://example.com/sitemap.xml") {
		t.Fatalf("expected sitemap directive, got %q", robots)
	}
}

func TestBuildIncludesIndexWhenWired(t *testing.T) {
	writer := newMemoryWriter()
	svc := NewService(testConfig(), staticPostSource{records: testPosts()},
		withWriter(writer), WithClock(fixedClock()),
		WithIndexSource(staticIndexSource{entries: []*repoindex.IndexEntry{
			{Name: "go-site", URL: "https://github.com/goliatone/go-site", Topics: []string{"go"}},
		}}))

	if _, err := svc.Build(context.Background()); err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	var entries []map[string]any
	if err := json.Unmarshal([]byte(writer.files["index.json"]), &entries); err != nil {
		t.Fatalf("index.json invalid: %v", err)
	}
	if len(entries) != 1 || entries[0]["name"] != "go-site" {
		t.Fatalf("unexpected index export: %v", entries)
	}
}

func TestBuildManifestTracksArtifacts(t *testing.T) {
	writer := newMemoryWriter()
	svc := NewService(testConfig(), staticPostSource{records: testPosts()},
		withWriter(writer), WithClock(fixedClock()))

	if _, err := svc.Build(context.Background()); err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	var manifest struct {
		GeneratedAt time.Time          `json:"generated_at"`
		Posts       int                `json:"posts"`
		Artifacts   []manifestArtifact `json:"artifacts"`
	}
	if err := json.Unmarshal([]byte(writer.files["manifest.json"]), &manifest); err != nil {
		t.Fatalf("manifest.json invalid: %v", err)
	}
	if manifest.Posts != 2 {
		t.Fatalf("expected 2 posts in manifest, got %d", manifest.Posts)
	}
	// The manifest lists everything but itself.
	if len(manifest.Artifacts) != len(writer.files)-1 {
		t.Fatalf("expected %d artifacts, got %d", len(writer.files)-1, len(manifest.Artifacts))
	}
	for _, artifact := range manifest.Artifacts {
		if artifact.Checksum == "" || artifact.Size == 0 {
			t.Fatalf("expected checksum and size for %s", artifact.Path)
		}
	}
}
