package markdown

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-site/domain"
	"github.com/goliatone/go-site/pkg/interfaces"
	"github.com/goliatone/go-site/posts"
)

var (
	ErrPostServiceRequired = errors.New("markdown importer: post service is required")
	ErrSlugUnresolvable    = errors.New("markdown importer: slug could not be derived")
)

// PostStore is the slice of the posts service the importer needs.
type PostStore interface {
	Create(ctx context.Context, req posts.CreatePostRequest) (*posts.Post, error)
	Update(ctx context.Context, req posts.UpdatePostRequest) (*posts.Post, error)
	GetBySlug(ctx context.Context, slug string) (*posts.Post, error)
	List(ctx context.Context, opts posts.ListOptions) ([]*posts.Post, error)
	Delete(ctx context.Context, req posts.DeletePostRequest) error
}

// ImporterConfig encapsulates dependencies required to persist documents.
type ImporterConfig struct {
	Posts  PostStore
	Logger interfaces.Logger
}

// Importer converts Markdown documents into post records. Documents are
// keyed by slug; a missing frontmatter slug falls back to the normalized
// filename stem so every authored file lands somewhere addressable.
type Importer struct {
	posts  PostStore
	logger interfaces.Logger
}

// NewImporter builds an Importer from the supplied configuration.
func NewImporter(cfg ImporterConfig) *Importer {
	return &Importer{
		posts:  cfg.Posts,
		logger: cfg.Logger,
	}
}

// ImportDocument imports a single Markdown document.
func (i *Importer) ImportDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if i.posts == nil {
		return nil, ErrPostServiceRequired
	}
	acc := newImportAccumulator()
	if err := i.applyDocument(ctx, doc, opts, acc); err != nil {
		acc.addError(err)
	}
	return acc.result(), firstError(acc.errors)
}

// ImportDocuments imports a slice of documents. Two documents resolving to
// the same slug is an import error; the first claimant wins.
func (i *Importer) ImportDocuments(ctx context.Context, docs []*interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if i.posts == nil {
		return nil, ErrPostServiceRequired
	}

	acc := newImportAccumulator()
	claimed := make(map[string]string, len(docs))
	for _, doc := range docs {
		if err := claimSlug(doc, claimed); err != nil {
			acc.addError(err)
			continue
		}
		if err := i.applyDocument(ctx, doc, opts, acc); err != nil {
			acc.addError(err)
		}
	}
	return acc.result(), firstError(acc.errors)
}

// SyncDocuments imports all provided documents and optionally deletes
// markdown-sourced posts whose files disappeared.
func (i *Importer) SyncDocuments(ctx context.Context, docs []*interfaces.Document, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	if i.posts == nil {
		return nil, ErrPostServiceRequired
	}

	acc := newSyncAccumulator()
	seen := make(map[string]struct{}, len(docs))
	claimed := make(map[string]string, len(docs))

	for _, doc := range docs {
		res := newImportAccumulator()
		if err := claimSlug(doc, claimed); err != nil {
			res.addError(err)
		} else if err := i.applyDocument(ctx, doc, opts.ImportOptions, res); err != nil {
			res.addError(err)
		} else if key, err := documentSlug(doc); err == nil {
			seen[key] = struct{}{}
		}
		acc.merge(res.result())
	}

	if opts.DeleteOrphaned {
		if err := i.deleteOrphaned(ctx, seen, opts, acc); err != nil {
			acc.addError(err)
		}
	}

	return acc.result(), firstError(acc.errors)
}

func (i *Importer) applyDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions, acc *importAccumulator) error {
	if doc == nil {
		return errors.New("markdown importer: nil document")
	}

	postSlug, err := documentSlug(doc)
	if err != nil {
		return err
	}

	title := strings.TrimSpace(doc.FrontMatter.Title)
	if title == "" {
		title = fallbackTitle(postSlug)
	}

	checksum := hex.EncodeToString(doc.Checksum)
	sourcePath := doc.FilePath
	status := documentStatus(doc)

	existing, err := i.posts.GetBySlug(ctx, postSlug)
	if err != nil && !posts.IsNotFound(err) {
		return fmt.Errorf("markdown importer: post lookup %s: %w", postSlug, err)
	}

	if existing == nil {
		if opts.DryRun {
			acc.skip(uuid.Nil)
			return nil
		}
		record, createErr := i.posts.Create(ctx, posts.CreatePostRequest{
			Slug:        postSlug,
			Title:       title,
			Description: optionalString(doc.FrontMatter.Description),
			Layout:      optionalString(doc.FrontMatter.Layout),
			Keywords:    doc.FrontMatter.Keywords,
			Status:      status,
			Body:        string(doc.Body),
			BodyHTML:    string(doc.BodyHTML),
			SourcePath:  &sourcePath,
			Checksum:    &checksum,
			PublishedAt: publishedAt(doc),
		})
		if createErr != nil {
			return fmt.Errorf("markdown importer: create post %s: %w", postSlug, createErr)
		}
		acc.created(record.ID)
		i.logDebug("post imported", "slug", postSlug, "path", doc.FilePath)
		return nil
	}

	if existing.Checksum != nil && *existing.Checksum == checksum {
		acc.skip(existing.ID)
		return nil
	}

	if opts.DryRun {
		acc.skip(existing.ID)
		return nil
	}

	updated, updateErr := i.posts.Update(ctx, posts.UpdatePostRequest{
		ID:          existing.ID,
		Title:       title,
		Description: optionalString(doc.FrontMatter.Description),
		Layout:      optionalString(doc.FrontMatter.Layout),
		Keywords:    doc.FrontMatter.Keywords,
		Status:      status,
		Body:        string(doc.Body),
		BodyHTML:    string(doc.BodyHTML),
		SourcePath:  &sourcePath,
		Checksum:    &checksum,
		PublishedAt: publishedAt(doc),
	})
	if updateErr != nil {
		return fmt.Errorf("markdown importer: update post %s: %w", postSlug, updateErr)
	}
	acc.updated(updated.ID)
	i.logDebug("post refreshed", "slug", postSlug, "path", doc.FilePath)
	return nil
}

func (i *Importer) deleteOrphaned(ctx context.Context, seen map[string]struct{}, opts interfaces.SyncOptions, acc *syncAccumulator) error {
	existing, err := i.posts.List(ctx, posts.ListOptions{})
	if err != nil {
		return fmt.Errorf("markdown importer: list posts: %w", err)
	}

	for _, record := range existing {
		// Only markdown-sourced posts are eligible for pruning.
		if record.SourcePath == nil {
			continue
		}
		if _, ok := seen[record.Slug]; ok {
			continue
		}
		if opts.DryRun {
			acc.deleted++
			continue
		}
		if err := i.posts.Delete(ctx, posts.DeletePostRequest{ID: record.ID, HardDelete: true}); err != nil {
			return fmt.Errorf("markdown importer: delete post %s: %w", record.Slug, err)
		}
		acc.deleted++
		i.logDebug("post pruned", "slug", record.Slug)
	}

	return nil
}

func (i *Importer) logDebug(msg string, args ...any) {
	if i.logger != nil {
		i.logger.Debug(msg, args...)
	}
}

// claimSlug records the slug a document resolves to and rejects documents
// whose slug another file in the batch already claimed.
func claimSlug(doc *interfaces.Document, claimed map[string]string) error {
	key, err := documentSlug(doc)
	if err != nil {
		return err
	}
	if prior, ok := claimed[key]; ok {
		return fmt.Errorf("markdown importer: slug %q claimed by both %s and %s", key, prior, doc.FilePath)
	}
	claimed[key] = doc.FilePath
	return nil
}

// documentSlug resolves the post slug for a document: the frontmatter slug
// when present, otherwise the normalized filename stem.
func documentSlug(doc *interfaces.Document) (string, error) {
	if doc == nil {
		return "", ErrSlugUnresolvable
	}

	candidate := strings.TrimSpace(doc.FrontMatter.Slug)
	if candidate == "" {
		base := path.Base(doc.FilePath)
		candidate = strings.TrimSuffix(base, path.Ext(base))
	}

	normalized, err := slug.Normalize(candidate)
	if err != nil || normalized == "" {
		return "", fmt.Errorf("%w: %q", ErrSlugUnresolvable, candidate)
	}
	return normalized, nil
}

func documentStatus(doc *interfaces.Document) domain.Status {
	if doc.FrontMatter.Draft {
		return domain.StatusDraft
	}
	return domain.StatusPublished
}

func publishedAt(doc *interfaces.Document) *time.Time {
	if doc.FrontMatter.Draft {
		return nil
	}
	if doc.FrontMatter.Date.IsZero() {
		return nil
	}
	ts := doc.FrontMatter.Date.UTC()
	return &ts
}

func fallbackTitle(value string) string {
	if value == "" {
		return "Untitled"
	}
	words := strings.FieldsFunc(value, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for idx, word := range words {
		if word == "" {
			continue
		}
		words[idx] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

type importAccumulator struct {
	createdIDs []uuid.UUID
	updatedIDs []uuid.UUID
	skippedIDs []uuid.UUID
	errors     []error
}

func newImportAccumulator() *importAccumulator {
	return &importAccumulator{
		createdIDs: []uuid.UUID{},
		updatedIDs: []uuid.UUID{},
		skippedIDs: []uuid.UUID{},
		errors:     []error{},
	}
}

func (a *importAccumulator) created(id uuid.UUID) {
	if id != uuid.Nil {
		a.createdIDs = append(a.createdIDs, id)
	}
}

func (a *importAccumulator) updated(id uuid.UUID) {
	if id != uuid.Nil {
		a.updatedIDs = append(a.updatedIDs, id)
	}
}

func (a *importAccumulator) skip(id uuid.UUID) {
	if id != uuid.Nil {
		a.skippedIDs = append(a.skippedIDs, id)
	}
}

func (a *importAccumulator) addError(err error) {
	if err != nil {
		a.errors = append(a.errors, err)
	}
}

func (a *importAccumulator) result() *interfaces.ImportResult {
	return &interfaces.ImportResult{
		CreatedPostIDs: a.createdIDs,
		UpdatedPostIDs: a.updatedIDs,
		SkippedPostIDs: a.skippedIDs,
		Errors:         a.errors,
	}
}

type syncAccumulator struct {
	created int
	updated int
	deleted int
	skipped int
	errors  []error
}

func newSyncAccumulator() *syncAccumulator {
	return &syncAccumulator{
		errors: []error{},
	}
}

func (s *syncAccumulator) merge(res *interfaces.ImportResult) {
	if res == nil {
		return
	}
	s.created += len(res.CreatedPostIDs)
	s.updated += len(res.UpdatedPostIDs)
	s.skipped += len(res.SkippedPostIDs)
	s.errors = append(s.errors, res.Errors...)
}

func (s *syncAccumulator) addError(err error) {
	if err != nil {
		s.errors = append(s.errors, err)
	}
}

func (s *syncAccumulator) result() *interfaces.SyncResult {
	return &interfaces.SyncResult{
		Created: s.created,
		Updated: s.updated,
		Deleted: s.deleted,
		Skipped: s.skipped,
		Errors:  s.errors,
	}
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
