package posts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-site/domain"
)

type memoryPostRepository struct {
	byID   map[uuid.UUID]*Post
	bySlug map[string]uuid.UUID
}

func newMemoryPostRepository() *memoryPostRepository {
	return &memoryPostRepository{
		byID:   map[uuid.UUID]*Post{},
		bySlug: map[string]uuid.UUID{},
	}
}

func (m *memoryPostRepository) Create(_ context.Context, record *Post) (*Post, error) {
	clone := *record
	m.byID[clone.ID] = &clone
	m.bySlug[clone.Slug] = clone.ID
	return &clone, nil
}

func (m *memoryPostRepository) GetByID(_ context.Context, id uuid.UUID) (*Post, error) {
	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "post", Key: id.String()}
	}
	clone := *record
	return &clone, nil
}

func (m *memoryPostRepository) GetBySlug(_ context.Context, slug string) (*Post, error) {
	id, ok := m.bySlug[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "post", Key: slug}
	}
	return m.GetByID(context.Background(), id)
}

func (m *memoryPostRepository) List(_ context.Context, opts ListOptions) ([]*Post, error) {
	var out []*Post
	for _, record := range m.byID {
		if opts.Status != "" && record.Status != opts.Status {
			continue
		}
		if !opts.IncludeDeleted && record.DeletedAt != nil {
			continue
		}
		clone := *record
		out = append(out, &clone)
	}
	return out, nil
}

func (m *memoryPostRepository) Update(_ context.Context, record *Post) (*Post, error) {
	if _, ok := m.byID[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "post", Key: record.ID.String()}
	}
	clone := *record
	m.byID[clone.ID] = &clone
	return &clone, nil
}

func (m *memoryPostRepository) Delete(_ context.Context, id uuid.UUID) error {
	record, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "post", Key: id.String()}
	}
	delete(m.bySlug, record.Slug)
	delete(m.byID, id)
	return nil
}

func newTestService(t *testing.T) (*Service, *memoryPostRepository) {
	t.Helper()
	repo := newMemoryPostRepository()
	fixed := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	svc := NewServiceWithRepository(repo, WithClock(func() time.Time { return fixed }))
	return svc, repo
}

func TestServiceCreateDerivesDeterministicID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePostRequest{
		Slug:  "hello-world",
		Title: "Hello World",
		Body:  "# Hello\n",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected derived post ID, got uuid.Nil")
	}
	if created.Status != domain.StatusDraft {
		t.Fatalf("expected default status draft, got %q", created.Status)
	}

	again, err := svc.GetBySlug(ctx, "hello-world")
	if err != nil {
		t.Fatalf("GetBySlug returned error: %v", err)
	}
	if again.ID != created.ID {
		t.Fatalf("expected stable ID %s, got %s", created.ID, again.ID)
	}
}

func TestServiceCreateRejectsDuplicateSlug(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreatePostRequest{Slug: "notes", Title: "Notes", Body: "body"}); err != nil {
		t.Fatalf("first Create returned error: %v", err)
	}

	_, err := svc.Create(ctx, CreatePostRequest{Slug: "notes", Title: "Other", Body: "body"})
	if !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
}

func TestServiceCreateValidatesRequiredFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreatePostRequest{Slug: "", Title: "", Body: ""})
	if err == nil {
		t.Fatal("expected validation error for empty request")
	}
}

func TestServicePublishStampsPublishedAt(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePostRequest{Slug: "launch", Title: "Launch", Body: "body"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	published, err := svc.Publish(ctx, PublishPostRequest{ID: created.ID})
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if published.Status != domain.StatusPublished {
		t.Fatalf("expected status published, got %q", published.Status)
	}
	if published.PublishedAt == nil {
		t.Fatal("expected PublishedAt to be set")
	}

	if _, err := svc.Publish(ctx, PublishPostRequest{ID: created.ID}); !errors.Is(err, ErrAlreadyPublished) {
		t.Fatalf("expected ErrAlreadyPublished, got %v", err)
	}
}

func TestServiceUnpublishClearsPublishedAt(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePostRequest{
		Slug:   "retired",
		Title:  "Retired",
		Body:   "body",
		Status: domain.StatusPublished,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.PublishedAt == nil {
		t.Fatal("expected PublishedAt on published create")
	}

	draft, err := svc.Unpublish(ctx, created.ID)
	if err != nil {
		t.Fatalf("Unpublish returned error: %v", err)
	}
	if draft.Status != domain.StatusDraft {
		t.Fatalf("expected status draft, got %q", draft.Status)
	}
	if draft.PublishedAt != nil {
		t.Fatal("expected PublishedAt cleared")
	}

	if _, err := svc.Unpublish(ctx, created.ID); !errors.Is(err, ErrNotPublished) {
		t.Fatalf("expected ErrNotPublished, got %v", err)
	}
}

func TestServiceSoftDeleteHidesFromList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePostRequest{Slug: "ephemeral", Title: "Ephemeral", Body: "body"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Delete(ctx, DeletePostRequest{ID: created.ID}); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	visible, err := svc.List(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(visible) != 0 {
		t.Fatalf("expected soft-deleted post hidden, got %d records", len(visible))
	}

	all, err := svc.List(ctx, ListOptions{IncludeDeleted: true})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 record including deleted, got %d", len(all))
	}
}

func TestServiceHardDeleteRemovesRecord(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePostRequest{Slug: "gone", Title: "Gone", Body: "body"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Delete(ctx, DeletePostRequest{ID: created.ID, HardDelete: true}); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("expected empty repository, got %d records", len(repo.byID))
	}

	_, err = svc.GetByID(ctx, created.ID)
	if !IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestServiceUpdateKeepsSlug(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePostRequest{Slug: "stable", Title: "Stable", Body: "body"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	desc := "updated description"
	updated, err := svc.Update(ctx, UpdatePostRequest{
		ID:          created.ID,
		Title:       "Stable v2",
		Description: &desc,
		Body:        "new body",
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Slug != "stable" {
		t.Fatalf("expected slug unchanged, got %q", updated.Slug)
	}
	if updated.Title != "Stable v2" {
		t.Fatalf("expected updated title, got %q", updated.Title)
	}
	if updated.Description == nil || *updated.Description != desc {
		t.Fatalf("expected updated description, got %v", updated.Description)
	}
}
