package posts

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPostIDRequired      = errors.New("posts: post id required")
	ErrSlugRequired        = errors.New("posts: slug is required")
	ErrSlugInvalid         = errors.New("posts: slug contains invalid characters")
	ErrSlugExists          = errors.New("posts: slug already exists")
	ErrTitleRequired       = errors.New("posts: title is required")
	ErrBodyRequired        = errors.New("posts: body is required")
	ErrStatusInvalid       = errors.New("posts: status is invalid")
	ErrAlreadyPublished    = errors.New("posts: post already published")
	ErrNotPublished        = errors.New("posts: post is not published")
	ErrPublishedAtRequired = errors.New("posts: published posts require a publish timestamp")
)

// NotFoundError reports a missing post addressed by id or slug.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return "posts: not found"
	}
	resource := strings.TrimSpace(e.Resource)
	if resource == "" {
		resource = "post"
	}
	key := strings.TrimSpace(e.Key)
	if key == "" {
		return fmt.Sprintf("posts: %s not found", resource)
	}
	return fmt.Sprintf("posts: %s %s not found", resource, key)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// SlugConflictError surfaces duplicate slug violations with the offending value.
type SlugConflictError struct {
	Slug string
}

func (e *SlugConflictError) Error() string {
	if e == nil {
		return ErrSlugExists.Error()
	}
	slug := strings.TrimSpace(e.Slug)
	if slug == "" {
		return ErrSlugExists.Error()
	}
	return fmt.Sprintf("%s: slug=%s", ErrSlugExists.Error(), slug)
}

func (e *SlugConflictError) Unwrap() error {
	return ErrSlugExists
}
