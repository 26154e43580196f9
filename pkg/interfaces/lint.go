package interfaces

import "context"

// Severity grades a lint finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding captures a single hygiene violation in an authored document.
type Finding struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Message  string   `json:"message"`
}

// Report aggregates findings across a lint run.
type Report struct {
	Findings []Finding      `json:"findings"`
	ByRule   map[string]int `json:"by_rule"`
	Errors   int            `json:"errors"`
	Warnings int            `json:"warnings"`
}

// Ok reports whether the run produced no error-severity findings. Warnings
// do not fail a run.
func (r *Report) Ok() bool {
	return r == nil || r.Errors == 0
}

// LintService checks authored content against the site hygiene rules.
type LintService interface {
	LintDirectory(ctx context.Context, dir string) (*Report, error)
	LintDocuments(ctx context.Context, docs []*Document) (*Report, error)
}
