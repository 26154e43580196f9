package repoindex

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// IndexEntry is one repository listed on the index page. Entries come from
// the authored index.yml and keep their file order through Position.
type IndexEntry struct {
	bun.BaseModel `bun:"table:index_entries,alias:ie"`

	ID          uuid.UUID `bun:",pk,type:uuid"     json:"id"`
	Name        string    `bun:"name,notnull"      json:"name"`
	URL         string    `bun:"url,notnull"       json:"url"`
	Description string    `bun:"description"       json:"description,omitempty"`
	Topics      []string  `bun:"topics,type:jsonb" json:"topics,omitempty"`
	Position    int       `bun:"position,notnull,default:0" json:"position"`
	CreatedAt   time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// UpsertEntryRequest captures the fields accepted when adding or refreshing
// an index entry. Name is the natural key.
type UpsertEntryRequest struct {
	Name        string
	URL         string
	Description string
	Topics      []string
	Position    int
}

// SyncResult summarizes reconciling the stored index against index.yml.
type SyncResult struct {
	Created int
	Updated int
	Deleted int
	Errors  []error
}
