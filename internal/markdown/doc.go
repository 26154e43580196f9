// Package markdown turns authored Markdown files into documents the rest of
// the toolkit can store, lint, and publish.
package markdown
