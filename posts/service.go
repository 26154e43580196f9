package posts

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-site/internal/identity"
	"github.com/goliatone/go-site/internal/logging"
	"github.com/goliatone/go-site/pkg/interfaces"

	"github.com/goliatone/go-site/domain"
)

// Service exposes post lifecycle operations on top of the repository.
type Service struct {
	repo   PostRepository
	logger interfaces.Logger
	now    func() time.Time
}

// ServiceOption customizes service construction.
type ServiceOption func(*Service)

// WithLogger attaches a module logger to the service.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService builds a post service over a bun database.
func NewService(db *bun.DB, opts ...ServiceOption) *Service {
	return NewServiceWithRepository(NewBunPostRepository(db), opts...)
}

// NewServiceWithRepository builds a post service over an explicit repository,
// typically one wrapped with caching.
func NewServiceWithRepository(repo PostRepository, opts ...ServiceOption) *Service {
	svc := &Service{
		repo:   repo,
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Create registers a new post. An empty ID is derived deterministically from
// the slug so repeated imports of the same document converge on one record.
func (s *Service) Create(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	normalized, err := slug.Normalize(req.Slug)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrSlugInvalid, req.Slug)
	}
	if existing, err := s.repo.GetBySlug(ctx, normalized); err == nil && existing != nil {
		return nil, &SlugConflictError{Slug: normalized}
	} else if err != nil && !IsNotFound(err) {
		return nil, err
	}

	id := req.ID
	if id == uuid.Nil {
		id = identity.PostUUID(normalized)
	}

	status := req.Status
	if status == "" {
		status = domain.StatusDraft
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrStatusInvalid, status)
	}

	now := s.now().UTC()
	record := &Post{
		ID:          id,
		Slug:        normalized,
		Title:       req.Title,
		Description: req.Description,
		Layout:      req.Layout,
		Keywords:    req.Keywords,
		Status:      status,
		Body:        req.Body,
		BodyHTML:    req.BodyHTML,
		SourcePath:  req.SourcePath,
		Checksum:    req.Checksum,
		PublishedAt: req.PublishedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if record.Status == domain.StatusPublished && record.PublishedAt == nil {
		record.PublishedAt = &now
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("post created", "id", created.ID, "slug", created.Slug, "status", created.Status)
	return created, nil
}

// Update rewrites the mutable fields of an existing post. The slug is
// immutable; content that changes slug becomes a new post.
func (s *Service) Update(ctx context.Context, req UpdatePostRequest) (*Post, error) {
	if err := validateUpdate(req); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = record.Status
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrStatusInvalid, status)
	}

	now := s.now().UTC()
	record.Title = req.Title
	record.Description = req.Description
	record.Layout = req.Layout
	record.Keywords = req.Keywords
	record.Status = status
	record.Body = req.Body
	record.BodyHTML = req.BodyHTML
	record.SourcePath = req.SourcePath
	record.Checksum = req.Checksum
	if req.PublishedAt != nil {
		record.PublishedAt = req.PublishedAt
	}
	if record.Status == domain.StatusPublished && record.PublishedAt == nil {
		record.PublishedAt = &now
	}
	record.UpdatedAt = now

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("post updated", "id", updated.ID, "slug", updated.Slug, "status", updated.Status)
	return updated, nil
}

// GetByID fetches a post by primary key.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	if id == uuid.Nil {
		return nil, ErrPostIDRequired
	}
	return s.repo.GetByID(ctx, id)
}

// GetBySlug fetches a post by its slug.
func (s *Service) GetBySlug(ctx context.Context, value string) (*Post, error) {
	if value == "" {
		return nil, ErrSlugRequired
	}
	normalized, err := slug.Normalize(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrSlugInvalid, value)
	}
	return s.repo.GetBySlug(ctx, normalized)
}

// List returns posts ordered by slug, optionally filtered by status.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*Post, error) {
	if opts.Status != "" && !opts.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrStatusInvalid, opts.Status)
	}
	return s.repo.List(ctx, opts)
}

// Publish promotes a post to published and stamps PublishedAt.
func (s *Service) Publish(ctx context.Context, req PublishPostRequest) (*Post, error) {
	if req.ID == uuid.Nil {
		return nil, ErrPostIDRequired
	}

	record, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if record.Status == domain.StatusPublished {
		return nil, ErrAlreadyPublished
	}

	now := s.now().UTC()
	publishedAt := req.PublishedAt
	if publishedAt == nil {
		publishedAt = &now
	}

	record.Status = domain.StatusPublished
	record.PublishedAt = publishedAt
	record.UpdatedAt = now

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	s.logger.Info("post published", "id", updated.ID, "slug", updated.Slug, "published_at", updated.PublishedAt)
	return updated, nil
}

// Unpublish demotes a published post back to draft.
func (s *Service) Unpublish(ctx context.Context, id uuid.UUID) (*Post, error) {
	if id == uuid.Nil {
		return nil, ErrPostIDRequired
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status != domain.StatusPublished {
		return nil, ErrNotPublished
	}

	record.Status = domain.StatusDraft
	record.PublishedAt = nil
	record.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	s.logger.Info("post unpublished", "id", updated.ID, "slug", updated.Slug)
	return updated, nil
}

// Delete removes a post. Soft deletes keep the row with a deleted_at marker so
// importers can detect orphans before purging.
func (s *Service) Delete(ctx context.Context, req DeletePostRequest) error {
	if req.ID == uuid.Nil {
		return ErrPostIDRequired
	}

	if req.HardDelete {
		if err := s.repo.Delete(ctx, req.ID); err != nil {
			return err
		}
		s.logger.Info("post deleted", "id", req.ID, "hard", true)
		return nil
	}

	record, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	record.DeletedAt = &now
	record.UpdatedAt = now
	if _, err := s.repo.Update(ctx, record); err != nil {
		return err
	}

	s.logger.Info("post deleted", "id", req.ID, "hard", false)
	return nil
}

func validateCreate(req CreatePostRequest) error {
	errs := validation.Errors{}
	if req.Slug == "" {
		errs["slug"] = validation.NewError("posts_slug_required", "slug is required")
	} else if normalized, err := slug.Normalize(req.Slug); err != nil || !slug.IsValid(normalized) {
		errs["slug"] = validation.NewError("posts_slug_invalid", "slug contains invalid characters")
	}
	if req.Title == "" {
		errs["title"] = validation.NewError("posts_title_required", "title is required")
	}
	if req.Body == "" {
		errs["body"] = validation.NewError("posts_body_required", "body is required")
	}
	return errs.Filter()
}

func validateUpdate(req UpdatePostRequest) error {
	errs := validation.Errors{}
	if req.ID == uuid.Nil {
		errs["id"] = validation.NewError("posts_id_required", "post id is required")
	}
	if req.Title == "" {
		errs["title"] = validation.NewError("posts_title_required", "title is required")
	}
	if req.Body == "" {
		errs["body"] = validation.NewError("posts_body_required", "body is required")
	}
	return errs.Filter()
}
