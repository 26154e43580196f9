package posts

import (
	"time"

	"github.com/goliatone/go-site/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Post is the canonical record for a published or draft article. Rows mirror
// the authored Markdown documents; the body is kept verbatim so the external
// renderer stays the single owner of presentation.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID          uuid.UUID     `bun:",pk,type:uuid"       json:"id"`
	Slug        string        `bun:"slug,notnull"        json:"slug"`
	Title       string        `bun:"title,notnull"       json:"title"`
	Description *string       `bun:"description"         json:"description,omitempty"`
	Layout      *string       `bun:"layout"              json:"layout,omitempty"`
	Keywords    []string      `bun:"keywords,type:jsonb" json:"keywords,omitempty"`
	Status      domain.Status `bun:"status,notnull,default:'draft'" json:"status"`
	Body        string        `bun:"body,notnull"        json:"body"`
	BodyHTML    string        `bun:"body_html"           json:"body_html,omitempty"`
	SourcePath  *string       `bun:"source_path"         json:"source_path,omitempty"`
	Checksum    *string       `bun:"checksum"            json:"checksum,omitempty"`
	PublishedAt *time.Time    `bun:"published_at,nullzero" json:"published_at,omitempty"`
	DeletedAt   *time.Time    `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
	CreatedAt   time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// CreatePostRequest captures the fields accepted when registering a post.
type CreatePostRequest struct {
	ID          uuid.UUID
	Slug        string
	Title       string
	Description *string
	Layout      *string
	Keywords    []string
	Status      domain.Status
	Body        string
	BodyHTML    string
	SourcePath  *string
	Checksum    *string
	PublishedAt *time.Time
}

// UpdatePostRequest captures the mutable fields of an existing post. The slug
// never changes implicitly; callers must address the record by ID.
type UpdatePostRequest struct {
	ID          uuid.UUID
	Title       string
	Description *string
	Layout      *string
	Keywords    []string
	Status      domain.Status
	Body        string
	BodyHTML    string
	SourcePath  *string
	Checksum    *string
	PublishedAt *time.Time
}

// PublishPostRequest promotes a draft to published.
type PublishPostRequest struct {
	ID          uuid.UUID
	PublishedAt *time.Time
}

// DeletePostRequest removes a post. HardDelete skips the soft-delete marker.
type DeletePostRequest struct {
	ID         uuid.UUID
	HardDelete bool
}

// ListOptions filters List results.
type ListOptions struct {
	Status         domain.Status
	IncludeDeleted bool
}
