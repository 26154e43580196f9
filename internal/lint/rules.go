package lint

import (
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-site/internal/markdown"
	"github.com/goliatone/go-site/pkg/interfaces"
)

// Rule names double as stable identifiers in reports and CI output.
const (
	RuleTitle    = "frontmatter/title"
	RuleSlug     = "frontmatter/slug"
	RuleDesc     = "frontmatter/description"
	RuleDate     = "frontmatter/date"
	RuleKeywords = "frontmatter/keywords"
	RuleSchema   = "frontmatter/schema"
	RuleLinks    = "links/internal"
	RuleImages   = "links/images"
)

// dateLayouts are the accepted frontmatter date formats.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// Rule checks one document against a single hygiene property.
type Rule interface {
	Name() string
	Check(doc *interfaces.Document, site *siteIndex) []interfaces.Finding
}

// siteIndex is the resolution context shared by link rules: every authored
// path and slug visible in the current run, plus the content filesystem so
// static assets (images, downloads) resolve too.
type siteIndex struct {
	paths map[string]struct{}
	slugs map[string]int
	fsys  fs.FS
}

func newSiteIndex(docs []*interfaces.Document, fsys fs.FS) *siteIndex {
	idx := &siteIndex{
		paths: map[string]struct{}{},
		slugs: map[string]int{},
		fsys:  fsys,
	}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		idx.paths[normalizeTarget(doc.FilePath)] = struct{}{}
		if s := strings.TrimSpace(doc.FrontMatter.Slug); s != "" {
			idx.slugs[s]++
		}
	}
	return idx
}

// resolves reports whether an internal destination points at a known
// document. Both direct file paths and slug permalinks count.
func (idx *siteIndex) resolves(dest string) bool {
	target := normalizeTarget(dest)
	if target == "" {
		return false
	}
	if _, ok := idx.paths[target]; ok {
		return true
	}
	// Slug permalinks: /posts/my-slug, /my-slug, my-slug.html all resolve
	// when a document claims the slug.
	base := strings.TrimSuffix(target, ".html")
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	if idx.slugs[base] > 0 {
		return true
	}
	return idx.fileExists(target)
}

func (idx *siteIndex) fileExists(target string) bool {
	if idx.fsys == nil || target == "" {
		return false
	}
	if _, err := fs.Stat(idx.fsys, target); err == nil {
		return true
	}
	return false
}

func normalizeTarget(dest string) string {
	target := strings.TrimSpace(dest)
	if i := strings.IndexAny(target, "#?"); i >= 0 {
		target = target[:i]
	}
	target = strings.TrimPrefix(target, "./")
	target = strings.TrimPrefix(target, "/")
	return strings.TrimSuffix(target, "/")
}

// DefaultRules returns the rule set in report order. The schema validator is
// shared so the schema compiles once per service.
func DefaultRules(validator *SchemaValidator) []Rule {
	return []Rule{
		titleRule{},
		slugRule{},
		descriptionRule{},
		dateRule{now: time.Now},
		keywordsRule{},
		schemaRule{validator: validator},
		linksRule{},
		imagesRule{},
	}
}

type titleRule struct{}

func (titleRule) Name() string { return RuleTitle }

func (titleRule) Check(doc *interfaces.Document, _ *siteIndex) []interfaces.Finding {
	if strings.TrimSpace(doc.FrontMatter.Title) != "" {
		return nil
	}
	return []interfaces.Finding{{
		Rule:     RuleTitle,
		Severity: interfaces.SeverityError,
		Path:     doc.FilePath,
		Message:  "title is required",
	}}
}

type slugRule struct{}

func (slugRule) Name() string { return RuleSlug }

func (slugRule) Check(doc *interfaces.Document, site *siteIndex) []interfaces.Finding {
	value := strings.TrimSpace(doc.FrontMatter.Slug)
	if value == "" {
		return []interfaces.Finding{{
			Rule:     RuleSlug,
			Severity: interfaces.SeverityError,
			Path:     doc.FilePath,
			Message:  "slug is required",
		}}
	}
	if !slug.IsValid(value) {
		return []interfaces.Finding{{
			Rule:     RuleSlug,
			Severity: interfaces.SeverityError,
			Path:     doc.FilePath,
			Message:  fmt.Sprintf("slug %q is not url safe", value),
		}}
	}
	if site != nil && site.slugs[value] > 1 {
		return []interfaces.Finding{{
			Rule:     RuleSlug,
			Severity: interfaces.SeverityError,
			Path:     doc.FilePath,
			Message:  fmt.Sprintf("slug %q is claimed by multiple documents", value),
		}}
	}
	return nil
}

type descriptionRule struct{}

func (descriptionRule) Name() string { return RuleDesc }

func (descriptionRule) Check(doc *interfaces.Document, _ *siteIndex) []interfaces.Finding {
	if strings.TrimSpace(doc.FrontMatter.Description) != "" {
		return nil
	}
	return []interfaces.Finding{{
		Rule:     RuleDesc,
		Severity: interfaces.SeverityError,
		Path:     doc.FilePath,
		Message:  "description is required",
	}}
}

type dateRule struct {
	now func() time.Time
}

func (dateRule) Name() string { return RuleDate }

func (r dateRule) Check(doc *interfaces.Document, _ *siteIndex) []interfaces.Finding {
	raw, ok := doc.FrontMatter.Raw["date"]
	if !ok {
		return nil
	}
	switch typed := raw.(type) {
	case time.Time:
		return r.checkFuture(doc, typed)
	case string:
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, typed); err == nil {
				return r.checkFuture(doc, parsed)
			}
		}
		return []interfaces.Finding{{
			Rule:     RuleDate,
			Severity: interfaces.SeverityError,
			Path:     doc.FilePath,
			Message:  fmt.Sprintf("date %q is not RFC 3339 or YYYY-MM-DD", typed),
		}}
	default:
		return []interfaces.Finding{{
			Rule:     RuleDate,
			Severity: interfaces.SeverityError,
			Path:     doc.FilePath,
			Message:  fmt.Sprintf("date has unexpected type %T", raw),
		}}
	}
}

func (r dateRule) checkFuture(doc *interfaces.Document, date time.Time) []interfaces.Finding {
	now := time.Now
	if r.now != nil {
		now = r.now
	}
	if !date.After(now()) {
		return nil
	}
	return []interfaces.Finding{{
		Rule:     RuleDate,
		Severity: interfaces.SeverityWarning,
		Path:     doc.FilePath,
		Message:  fmt.Sprintf("date %s is in the future", date.Format("2006-01-02")),
	}}
}

type keywordsRule struct{}

func (keywordsRule) Name() string { return RuleKeywords }

func (keywordsRule) Check(doc *interfaces.Document, _ *siteIndex) []interfaces.Finding {
	if len(doc.FrontMatter.Keywords) > 0 {
		return nil
	}
	return []interfaces.Finding{{
		Rule:     RuleKeywords,
		Severity: interfaces.SeverityWarning,
		Path:     doc.FilePath,
		Message:  "keywords are empty",
	}}
}

type schemaRule struct {
	validator *SchemaValidator
}

func (schemaRule) Name() string { return RuleSchema }

func (r schemaRule) Check(doc *interfaces.Document, _ *siteIndex) []interfaces.Finding {
	issues := r.validator.Validate(doc.FrontMatter.Raw)
	if len(issues) == 0 {
		return nil
	}
	findings := make([]interfaces.Finding, 0, len(issues))
	for _, issue := range issues {
		message := issue.Message
		if issue.Location != "" {
			message = fmt.Sprintf("%s: %s", issue.Location, issue.Message)
		}
		findings = append(findings, interfaces.Finding{
			Rule:     RuleSchema,
			Severity: interfaces.SeverityError,
			Path:     doc.FilePath,
			Message:  message,
		})
	}
	return findings
}

type linksRule struct{}

func (linksRule) Name() string { return RuleLinks }

func (linksRule) Check(doc *interfaces.Document, site *siteIndex) []interfaces.Finding {
	return checkRefs(doc, site, markdown.RefLink, RuleLinks, "internal link %q does not resolve")
}

type imagesRule struct{}

func (imagesRule) Name() string { return RuleImages }

func (imagesRule) Check(doc *interfaces.Document, site *siteIndex) []interfaces.Finding {
	return checkRefs(doc, site, markdown.RefImage, RuleImages, "image %q does not resolve")
}

func checkRefs(doc *interfaces.Document, site *siteIndex, kind markdown.RefKind, rule, format string) []interfaces.Finding {
	refs, err := markdown.ExtractRefs(doc.Body)
	if err != nil {
		return []interfaces.Finding{{
			Rule:     rule,
			Severity: interfaces.SeverityError,
			Path:     doc.FilePath,
			Message:  fmt.Sprintf("parse body: %v", err),
		}}
	}

	var findings []interfaces.Finding
	for _, ref := range refs {
		if ref.Kind != kind || !ref.Internal() {
			continue
		}
		if site.resolves(ref.Destination) {
			continue
		}
		findings = append(findings, interfaces.Finding{
			Rule:     rule,
			Severity: interfaces.SeverityError,
			Path:     doc.FilePath,
			Message:  fmt.Sprintf(format, ref.Destination),
		})
	}
	return findings
}
