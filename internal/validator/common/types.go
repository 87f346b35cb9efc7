package common

import (
	"fmt"
	"sort"
)

// Severity classifies a validation issue.
type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warn"
	SeverityFatal Severity = "fatal"
)

// Rule identifiers, one per check family. RuleFatal marks load
// failures that abort the run before any checker executes.
const (
	RuleBijection   = "BIJECTION"
	RuleFrontmatter = "FRONTMATTER"
	RuleColor       = "COLOR"
	RuleReference   = "REFERENCE"
	RuleSkill       = "SKILL"
	RuleRunBase     = "RUNBASE"
	RuleFlow        = "FLOW"
	RulePrompt      = "PROMPT"
	RuleConfig      = "CONFIG"
	RuleUtility     = "UTILITY"
	RuleFatal       = "FATAL"
)

// Issue represents a single validation finding.
type Issue struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Scope    string   `json:"scope,omitempty"` // agent key, flow id, or skill name
	Location string   `json:"location"`
	File     string   `json:"file,omitempty"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
	Fix      string   `json:"fix,omitempty"`
}

// Format renders the issue as console lines: a marker line and,
// when a fix hint exists, an indented Fix line.
func (i Issue) Format() string {
	mark := "✗"
	if i.Severity == SeverityWarn {
		mark = "!"
	}
	s := fmt.Sprintf("%s %s: %s: %s", mark, i.Rule, i.Location, i.Message)
	if i.Fix != "" {
		s += fmt.Sprintf("\n  Fix: %s", i.Fix)
	}
	return s
}

// Sort orders issues deterministically by rule, location, line, then message.
func Sort(issues []Issue) {
	sort.SliceStable(issues, func(a, b int) bool {
		ia, ib := issues[a], issues[b]
		if ia.Rule != ib.Rule {
			return ia.Rule < ib.Rule
		}
		if ia.Location != ib.Location {
			return ia.Location < ib.Location
		}
		if ia.Line != ib.Line {
			return ia.Line < ib.Line
		}
		return ia.Message < ib.Message
	})
}

// List accumulates issues during a single checker pass.
type List struct {
	Issues []Issue
}

// Error appends an error-severity issue.
func (l *List) Error(rule, scope, location, message, fix string) {
	l.Issues = append(l.Issues, Issue{
		Rule:     rule,
		Severity: SeverityError,
		Scope:    scope,
		Location: location,
		Message:  message,
		Fix:      fix,
	})
}

// Warn appends a warn-severity issue.
func (l *List) Warn(rule, scope, location, message, fix string) {
	l.Issues = append(l.Issues, Issue{
		Rule:     rule,
		Severity: SeverityWarn,
		Scope:    scope,
		Location: location,
		Message:  message,
		Fix:      fix,
	})
}

// Add appends an issue built by the caller.
func (l *List) Add(issue Issue) {
	l.Issues = append(l.Issues, issue)
}

// CountErrors returns the number of error-severity issues.
func CountErrors(issues []Issue) int {
	n := 0
	for _, i := range issues {
		if i.Severity == SeverityError || i.Severity == SeverityFatal {
			n++
		}
	}
	return n
}

// CountWarns returns the number of warn-severity issues.
func CountWarns(issues []Issue) int {
	n := 0
	for _, i := range issues {
		if i.Severity == SeverityWarn {
			n++
		}
	}
	return n
}
