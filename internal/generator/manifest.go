package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"

	"github.com/goliatone/go-site/posts"
	"github.com/goliatone/go-site/repoindex"
)

// postExport is the JSON shape the external renderer consumes per post.
type postExport struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Layout      string     `json:"layout,omitempty"`
	Keywords    []string   `json:"keywords,omitempty"`
	Route       string     `json:"route"`
	BodyHTML    string     `json:"body_html"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// indexExport mirrors one repository entry on the index page.
type indexExport struct {
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	Topics      []string `json:"topics,omitempty"`
}

// manifestArtifact records one generated file for the build manifest.
type manifestArtifact struct {
	Path        string `json:"path"`
	Category    string `json:"category"`
	ContentType string `json:"content_type"`
	Checksum    string `json:"checksum"`
	Size        int64  `json:"size"`
}

type buildManifest struct {
	GeneratedAt time.Time          `json:"generated_at"`
	BaseURL     string             `json:"base_url"`
	Posts       int                `json:"posts"`
	Artifacts   []manifestArtifact `json:"artifacts"`
}

func buildPostsJSON(records []*posts.Post) ([]byte, error) {
	exports := make([]postExport, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		exports = append(exports, postExport{
			ID:          record.ID.String(),
			Slug:        record.Slug,
			Title:       record.Title,
			Description: stringValue(record.Description),
			Layout:      stringValue(record.Layout),
			Keywords:    record.Keywords,
			Route:       postRoute(record),
			BodyHTML:    record.BodyHTML,
			PublishedAt: record.PublishedAt,
			UpdatedAt:   record.UpdatedAt,
		})
	}
	sort.Slice(exports, func(i, j int) bool {
		return exports[i].Slug < exports[j].Slug
	})
	return json.MarshalIndent(exports, "", "  ")
}

func buildIndexJSON(entries []*repoindex.IndexEntry) ([]byte, error) {
	exports := make([]indexExport, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		exports = append(exports, indexExport{
			Name:        entry.Name,
			URL:         entry.URL,
			Description: entry.Description,
			Topics:      entry.Topics,
		})
	}
	return json.MarshalIndent(exports, "", "  ")
}

func buildManifestJSON(manifest buildManifest) ([]byte, error) {
	sort.Slice(manifest.Artifacts, func(i, j int) bool {
		return manifest.Artifacts[i].Path < manifest.Artifacts[j].Path
	})
	return json.MarshalIndent(manifest, "", "  ")
}

func computeHashFromString(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func stringValue(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
