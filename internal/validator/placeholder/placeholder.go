// Package placeholder enforces the RUN_BASE artifact path convention in
// flow documentation and agent prompt text.
package placeholder

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/common"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/corpus"
)

// hardcodedPattern matches run directories spelled out instead of the
// placeholder, e.g. swarm/runs/run-123/ or swarm/runs/<run-id>/.
var hardcodedPattern = regexp.MustCompile(`swarm/runs/[a-zA-Z0-9_\-<>{}]+/`)

// malformedPattern matches spellings that look like RUN_BASE but will
// not substitute: shell syntax, brace syntax, a missing slash, or the
// lowercase form.
var malformedPattern = regexp.MustCompile(`(\$RUN_BASE|RUN_BASE\}|RUN_BASE[a-zA-Z_]|\{RUN_BASE[^/]|run_base/)`)

// Check scans flow documentation and entity bodies for hardcoded run
// paths and malformed placeholders. Fenced code blocks and comment lines
// are exempt.
func Check(c *corpus.Corpus) []common.Issue {
	var list common.List

	for i := range c.FlowDocs {
		doc := &c.FlowDocs[i]
		scanText(&list, doc.Text, doc.Path, 1, doc.ID)
	}
	for i := range c.Entities {
		ent := &c.Entities[i]
		scanText(&list, ent.Body, ent.Path, ent.BodyLine, ent.Key)
	}

	return list.Issues
}

// scanText reports placeholder violations in text. firstLine is the
// 1-based file line of the first text line, so extracted bodies still
// carry file-accurate positions.
func scanText(list *common.List, text, relPath string, firstLine int, scope string) {
	inCodeBlock := false

	for i, line := range strings.Split(text, "\n") {
		lineNum := firstLine + i
		stripped := strings.TrimSpace(line)

		if strings.HasPrefix(stripped, "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			continue
		}
		if strings.HasPrefix(stripped, "#") || strings.HasPrefix(stripped, "<!--") {
			continue
		}

		if m := hardcodedPattern.FindString(line); m != "" {
			list.Add(common.Issue{
				Rule:     common.RuleRunBase,
				Severity: common.SeverityError,
				Scope:    scope,
				Location: fmt.Sprintf("%s:line %d", relPath, lineNum),
				File:     relPath,
				Line:     lineNum,
				Message:  fmt.Sprintf("contains hardcoded path '%s'; should use RUN_BASE placeholder", m),
				Fix:      "Replace hardcoded path with 'RUN_BASE/<flow>/' in artifact instructions",
			})
		}

		for _, m := range malformedPattern.FindAllString(line, -1) {
			list.Add(common.Issue{
				Rule:     common.RuleRunBase,
				Severity: common.SeverityError,
				Scope:    scope,
				Location: fmt.Sprintf("%s:line %d", relPath, lineNum),
				File:     relPath,
				Line:     lineNum,
				Message:  fmt.Sprintf("malformed RUN_BASE placeholder '%s' (should be 'RUN_BASE/<flow>/', not '$RUN_BASE', '{RUN_BASE}', or 'RUN_BASEsignal')", m),
				Fix:      "Use 'RUN_BASE/<flow>/' with forward slash; valid examples: RUN_BASE/signal/, RUN_BASE/plan/, RUN_BASE/build/",
			})
		}
	}
}
