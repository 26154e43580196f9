package repoindex

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// EntryRepository is the storage contract consumed by the index service.
type EntryRepository interface {
	Create(ctx context.Context, record *IndexEntry) (*IndexEntry, error)
	GetByName(ctx context.Context, name string) (*IndexEntry, error)
	List(ctx context.Context) ([]*IndexEntry, error)
	Update(ctx context.Context, record *IndexEntry) (*IndexEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NewEntryRepository builds the generic bun repository for index entries. The
// name is the secondary identifier so lookups by name go through
// GetByIdentifier.
func NewEntryRepository(db *bun.DB) repository.Repository[*IndexEntry] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*IndexEntry]{
		NewRecord: func() *IndexEntry { return &IndexEntry{} },
		GetID: func(e *IndexEntry) uuid.UUID {
			return e.ID
		},
		SetID: func(e *IndexEntry, id uuid.UUID) {
			e.ID = id
		},
		GetIdentifier: func() string {
			return "name"
		},
		GetIdentifierValue: func(e *IndexEntry) string {
			return e.Name
		},
	})
}

// BunEntryRepository implements EntryRepository on top of bun.
type BunEntryRepository struct {
	repo repository.Repository[*IndexEntry]
}

// NewBunEntryRepository creates the index entry repository.
func NewBunEntryRepository(db *bun.DB) *BunEntryRepository {
	return NewBunEntryRepositoryWithCache(db, nil, nil)
}

// NewBunEntryRepositoryWithCache creates an index entry repository with
// caching services.
func NewBunEntryRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunEntryRepository {
	base := NewEntryRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunEntryRepository{repo: base}
}

func (r *BunEntryRepository) Create(ctx context.Context, record *IndexEntry) (*IndexEntry, error) {
	return r.repo.Create(ctx, record)
}

func (r *BunEntryRepository) GetByName(ctx context.Context, name string) (*IndexEntry, error) {
	record, err := r.repo.GetByIdentifier(ctx, name)
	if err != nil {
		return nil, mapRepositoryError(err, name)
	}
	return record, nil
}

func (r *BunEntryRepository) List(ctx context.Context) ([]*IndexEntry, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("position ASC", "name ASC")
		}),
	)
	return records, err
}

func (r *BunEntryRepository) Update(ctx context.Context, record *IndexEntry) (*IndexEntry, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns("url", "description", "topics", "position", "updated_at"),
	)
	if err != nil {
		return nil, mapRepositoryError(err, record.Name)
	}
	return updated, nil
}

func (r *BunEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &IndexEntry{ID: id})
}

func mapRepositoryError(err error, name string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Name: name}
	}
	return fmt.Errorf("repoindex repository error: %w", err)
}
