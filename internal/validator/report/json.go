package report

import (
	"encoding/json"
	"io"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/common"
)

// RenderJSON writes the canonical report as indented JSON.
func RenderJSON(rep *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// SimplifiedIssue is one finding in the flat machine-readable report.
type SimplifiedIssue struct {
	Type        string   `json:"type"`
	File        string   `json:"file"`
	Location    string   `json:"location"`
	Line        int      `json:"line,omitempty"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
}

// Simplified is the flat report format for machine consumption. Its
// arithmetic follows the flat lists alone: warnings count as passed
// because they do not fail the run.
type Simplified struct {
	Timestamp   string            `json:"timestamp"`
	Status      string            `json:"status"`
	Checks      []string          `json:"checks"`
	TotalChecks int               `json:"total_checks"`
	Passed      int               `json:"passed"`
	Failed      int               `json:"failed"`
	Errors      []SimplifiedIssue `json:"errors"`
	Warnings    []SimplifiedIssue `json:"warnings"`
}

// Simplified projects the canonical report onto the flat format.
func (r *Report) Simplified() Simplified {
	failed := len(r.Errors)
	passed := len(r.Warnings)
	total := failed + passed
	if total == 0 {
		total = len(r.Checks)
	}
	return Simplified{
		Timestamp:   r.GeneratedAt,
		Status:      r.statusWord(),
		Checks:      append([]string{}, r.Checks...),
		TotalChecks: total,
		Passed:      passed,
		Failed:      failed,
		Errors:      simplifyIssues(r.Errors),
		Warnings:    simplifyIssues(r.Warnings),
	}
}

// RenderSimplifiedJSON writes the flat report as indented JSON.
func RenderSimplifiedJSON(rep *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	simplified := rep.Simplified()
	return enc.Encode(&simplified)
}

func (r *Report) statusWord() string {
	switch r.Summary.Status {
	case StatusFail:
		return "FAILED"
	case StatusFatal:
		return "FATAL"
	default:
		return "PASSED"
	}
}

func simplifyIssues(issues []common.Issue) []SimplifiedIssue {
	out := make([]SimplifiedIssue, 0, len(issues))
	for _, issue := range issues {
		file := issue.File
		if file == "" {
			file = issue.Location
		}
		suggestions := []string{}
		if issue.Fix != "" {
			suggestions = append(suggestions, issue.Fix)
		}
		out = append(out, SimplifiedIssue{
			Type:        issue.Rule,
			File:        file,
			Location:    issue.Location,
			Line:        issue.Line,
			Message:     issue.Message,
			Suggestions: suggestions,
		})
	}
	return out
}
