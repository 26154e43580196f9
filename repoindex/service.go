package repoindex

import (
	"context"
	"io/fs"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-site/internal/identity"
	"github.com/goliatone/go-site/internal/logging"
	"github.com/goliatone/go-site/pkg/interfaces"
)

// Service manages the repository index page entries.
type Service struct {
	repo   EntryRepository
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

// NewService builds an index service over a bun database.
func NewService(db *bun.DB, opts ...ServiceOption) *Service {
	return NewServiceWithRepository(NewBunEntryRepository(db), opts...)
}

// NewServiceWithRepository builds an index service over an explicit repository.
func NewServiceWithRepository(repo EntryRepository, opts ...ServiceOption) *Service {
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

// Upsert creates the entry named in the request or refreshes it in place.
// IDs derive deterministically from the name so repeated syncs converge.
func (s *Service) Upsert(ctx context.Context, req UpsertEntryRequest) (*IndexEntry, bool, error) {
	if err := validateUpsert(req); err != nil {
		return nil, false, err
	}

	name := strings.TrimSpace(req.Name)
	now := s.now().UTC()

	existing, err := s.repo.GetByName(ctx, name)
	if err != nil && !IsNotFound(err) {
		return nil, false, err
	}

	if existing == nil {
		record := &IndexEntry{
			ID:          identity.IndexEntryUUID(name),
			Name:        name,
			URL:         req.URL,
			Description: req.Description,
			Topics:      req.Topics,
			Position:    req.Position,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		created, err := s.repo.Create(ctx, record)
		if err != nil {
			return nil, false, err
		}
		s.logger.Debug("index entry created", "name", created.Name, "url", created.URL)
		return created, true, nil
	}

	existing.URL = req.URL
	existing.Description = req.Description
	existing.Topics = req.Topics
	existing.Position = req.Position
	existing.UpdatedAt = now

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, false, err
	}
	s.logger.Debug("index entry updated", "name", updated.Name, "url", updated.URL)
	return updated, false, nil
}

// GetByName fetches a single entry by its name.
func (s *Service) GetByName(ctx context.Context, name string) (*IndexEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	return s.repo.GetByName(ctx, name)
}

// List returns all entries in index page order.
func (s *Service) List(ctx context.Context) ([]*IndexEntry, error) {
	return s.repo.List(ctx)
}

// Delete removes an entry by name.
func (s *Service) Delete(ctx context.Context, name string) error {
	record, err := s.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, record.ID); err != nil {
		return err
	}
	s.logger.Info("index entry deleted", "name", record.Name)
	return nil
}

// Sync reconciles stored entries against the authored index file. Entries
// absent from the file are deleted so the page always mirrors index.yml.
func (s *Service) Sync(ctx context.Context, fsys fs.FS, path string) (*SyncResult, error) {
	entries, err := LoadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	return s.SyncEntries(ctx, entries)
}

// SyncEntries reconciles stored entries against an already loaded list.
func (s *Service) SyncEntries(ctx context.Context, entries []UpsertEntryRequest) (*SyncResult, error) {
	result := &SyncResult{}
	seen := make(map[string]struct{}, len(entries))

	for _, req := range entries {
		_, created, err := s.Upsert(ctx, req)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		seen[strings.TrimSpace(req.Name)] = struct{}{}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	stored, err := s.repo.List(ctx)
	if err != nil {
		result.Errors = append(result.Errors, err)
		return result, nil
	}
	for _, record := range stored {
		if _, ok := seen[record.Name]; ok {
			continue
		}
		if err := s.repo.Delete(ctx, record.ID); err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		result.Deleted++
		s.logger.Info("index entry pruned", "name", record.Name)
	}

	s.logger.Info("index synced",
		"created", result.Created,
		"updated", result.Updated,
		"deleted", result.Deleted,
		"errors", len(result.Errors),
	)
	return result, nil
}

func validateUpsert(req UpsertEntryRequest) error {
	errs := validation.Errors{}
	if strings.TrimSpace(req.Name) == "" {
		errs["name"] = validation.NewError("repoindex_name_required", "entry name is required")
	}
	if strings.TrimSpace(req.URL) == "" {
		errs["url"] = validation.NewError("repoindex_url_required", "entry url is required")
	} else if err := validation.Validate(req.URL, is.URL); err != nil {
		errs["url"] = validation.NewError("repoindex_url_invalid", "entry url is invalid")
	}
	return errs.Filter()
}
