package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-site/pkg/interfaces"
)

// ParseFrontMatter extracts metadata and Markdown body content from the
// provided source bytes. It returns the structured frontmatter, the Markdown
// body without delimiters, and any error encountered.
//
// Decoding is lenient: values with unexpected types leave the typed field at
// its zero value but stay visible in Raw, so lint rules can report them
// instead of the load failing outright.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	raw := map[string]any{}

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &raw)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return frontMatterFromRaw(raw), body, nil
}

// BuildDocument assembles an interfaces.Document from the supplied file path,
// raw content, and modification time. BodyHTML is intentionally left empty so
// callers can render lazily.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		FilePath:     path,
		FrontMatter:  meta,
		Body:         body,
		LastModified: modified,
	}, nil
}

// namedFields are the keys lifted out of the metadata block into typed
// FrontMatter fields. Everything else lands in Custom.
var namedFields = map[string]struct{}{
	"layout":      {},
	"title":       {},
	"slug":        {},
	"description": {},
	"keywords":    {},
	"date":        {},
	"draft":       {},
}

// frontMatterDateLayouts are the string date formats accepted in addition to
// yaml's native timestamp parsing.
var frontMatterDateLayouts = []string{time.RFC3339, "2006-01-02"}

func frontMatterFromRaw(raw map[string]any) interfaces.FrontMatter {
	if raw == nil {
		raw = map[string]any{}
	}

	custom := map[string]any{}
	for key, value := range raw {
		if _, ok := namedFields[key]; ok {
			continue
		}
		custom[key] = value
	}

	meta := interfaces.FrontMatter{
		Layout:      stringField(raw, "layout"),
		Title:       stringField(raw, "title"),
		Slug:        stringField(raw, "slug"),
		Description: stringField(raw, "description"),
		Keywords:    stringSliceField(raw, "keywords"),
		Date:        dateField(raw, "date"),
		Draft:       boolField(raw, "draft"),
		Custom:      custom,
		Raw:         raw,
	}
	return meta
}

func stringField(raw map[string]any, key string) string {
	if value, ok := raw[key].(string); ok {
		return value
	}
	return ""
}

func stringSliceField(raw map[string]any, key string) []string {
	value, ok := raw[key]
	if !ok {
		return nil
	}
	switch typed := value.(type) {
	case []string:
		return append([]string(nil), typed...)
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func dateField(raw map[string]any, key string) time.Time {
	value, ok := raw[key]
	if !ok {
		return time.Time{}
	}
	switch typed := value.(type) {
	case time.Time:
		return typed
	case string:
		for _, layout := range frontMatterDateLayouts {
			if ts, err := time.Parse(layout, typed); err == nil {
				return ts
			}
		}
	}
	return time.Time{}
}

func boolField(raw map[string]any, key string) bool {
	if value, ok := raw[key].(bool); ok {
		return value
	}
	return false
}
