package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/common"
)

var separator = strings.Repeat("=", 70)

// RenderText writes the console rendering: the pass summary goes to
// stdout, errors and warnings grouped by rule go to stderr, and a
// failing run ends with a verdict line carrying the error count.
func RenderText(rep *Report, stdout, stderr io.Writer) {
	if rep.Summary.Status == StatusPass {
		fmt.Fprintln(stdout, "Swarm validation PASSED.")
		fmt.Fprintln(stdout, "  [PASS] All agents conform to Claude Code platform spec")
		fmt.Fprintln(stdout, "  [PASS] All agents follow swarm design constraints")
		fmt.Fprintln(stdout, "  [PASS] Flow specs reference valid agents")
		writeWarnings(stderr, rep.Warnings)
		return
	}

	for _, group := range groupByRule(rep.Errors) {
		fmt.Fprintf(stderr, "\n%s Errors (%d):\n", group.rule, len(group.issues))
		fmt.Fprintln(stderr, separator)
		for _, issue := range group.issues {
			fmt.Fprintln(stderr, issue.Format())
		}
	}
	writeWarnings(stderr, rep.Warnings)
	fmt.Fprintf(stderr, "\nSwarm validation FAILED (%d errors).\n", rep.Summary.Failed)
}

func writeWarnings(w io.Writer, warnings []common.Issue) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "WARNINGS (design guidelines, not errors):")
	fmt.Fprintln(w, separator)
	for _, group := range groupByRule(warnings) {
		fmt.Fprintf(w, "\n%s Warnings (%d):\n", group.rule, len(group.issues))
		for _, issue := range group.issues {
			fmt.Fprintln(w, issue.Format())
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Note: Warnings indicate swarm design guideline violations.")
	fmt.Fprintln(w, "      Use --strict flag to treat warnings as errors.")
}

type ruleGroup struct {
	rule   string
	issues []common.Issue
}

// groupByRule splits an already-sorted issue slice into contiguous rule
// groups, preserving order.
func groupByRule(issues []common.Issue) []ruleGroup {
	var groups []ruleGroup
	for _, issue := range issues {
		if n := len(groups); n == 0 || groups[n-1].rule != issue.Rule {
			groups = append(groups, ruleGroup{rule: issue.Rule})
		}
		last := &groups[len(groups)-1]
		last.issues = append(last.issues, issue)
	}
	return groups
}
