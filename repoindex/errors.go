package repoindex

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNameRequired = errors.New("repoindex: entry name is required")
	ErrURLRequired  = errors.New("repoindex: entry url is required")
	ErrURLInvalid   = errors.New("repoindex: entry url is invalid")
)

// NotFoundError reports a missing index entry addressed by name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	if e == nil || strings.TrimSpace(e.Name) == "" {
		return "repoindex: entry not found"
	}
	return fmt.Sprintf("repoindex: entry %s not found", e.Name)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
