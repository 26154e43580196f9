package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// RefKind distinguishes the reference types collected from a document body.
type RefKind string

const (
	RefLink  RefKind = "link"
	RefImage RefKind = "image"
)

// Ref is a single outgoing reference (hyperlink or image) found in a
// Markdown body. Destination is reported verbatim as authored.
type Ref struct {
	Kind        RefKind
	Destination string
	Title       string
}

// External reports whether the reference points outside the site (absolute
// URL with a scheme, protocol-relative URL, or mailto).
func (r Ref) External() bool {
	dest := strings.TrimSpace(r.Destination)
	if strings.HasPrefix(dest, "//") {
		return true
	}
	if strings.HasPrefix(dest, "mailto:") {
		return true
	}
	return strings.Contains(dest, "://")
}

// Fragment reports whether the reference targets an anchor within the same
// document.
func (r Ref) Fragment() bool {
	return strings.HasPrefix(strings.TrimSpace(r.Destination), "#")
}

// Internal reports whether the reference must resolve within the site
// content (relative or root-relative path).
func (r Ref) Internal() bool {
	dest := strings.TrimSpace(r.Destination)
	if dest == "" {
		return false
	}
	return !r.External() && !r.Fragment()
}

var refEngine = goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Linkify))

// ExtractRefs parses the Markdown body and collects every link and image
// reference in document order. Code spans and fenced blocks never produce
// references since goldmark does not parse their contents.
func ExtractRefs(body []byte) ([]Ref, error) {
	reader := text.NewReader(body)
	root := refEngine.Parser().Parse(reader)

	var refs []Ref
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link:
			refs = append(refs, Ref{
				Kind:        RefLink,
				Destination: string(node.Destination),
				Title:       string(node.Title),
			})
		case *ast.Image:
			refs = append(refs, Ref{
				Kind:        RefImage,
				Destination: string(node.Destination),
				Title:       string(node.Title),
			})
		case *ast.AutoLink:
			refs = append(refs, Ref{
				Kind:        RefLink,
				Destination: string(node.URL(body)),
			})
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}
