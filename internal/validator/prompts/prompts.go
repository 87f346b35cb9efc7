// Package prompts checks that agent prompt bodies carry the required
// structural sections: Inputs, Outputs, and Behavior headings.
package prompts

import (
	"regexp"
	"strings"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/common"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/corpus"
)

// Section headings are matched per line, case-insensitively, with
// optional plural on Inputs and Outputs.
var (
	inputPattern    = regexp.MustCompile(`(?im)^##\s+Inputs?\s*$`)
	outputPattern   = regexp.MustCompile(`(?im)^##\s+Outputs?\s*$`)
	behaviorPattern = regexp.MustCompile(`(?im)^##\s+Behavior\s*$`)
)

// Check scans the prompt body of every project/user agent for the
// required sections. Built-ins, unregistered files, and agents from
// other sources are out of scope. Findings are warnings; strict runs
// escalate them during aggregation.
func Check(c *corpus.Corpus) []common.Issue {
	var list common.List

	for i := range c.Entities {
		ent := &c.Entities[i]
		if corpus.IsBuiltin(ent.Key) {
			continue
		}
		entry, ok := c.Entry(ent.Key)
		if !ok || entry.Source != "project/user" {
			continue
		}

		var missing []string
		if !inputPattern.MatchString(ent.Body) {
			missing = append(missing, "## Inputs")
		}
		if !outputPattern.MatchString(ent.Body) {
			missing = append(missing, "## Outputs")
		}
		if !behaviorPattern.MatchString(ent.Body) {
			missing = append(missing, "## Behavior")
		}
		if len(missing) == 0 {
			continue
		}

		joined := strings.Join(missing, ", ")
		list.Add(common.Issue{
			Rule:     common.RulePrompt,
			Severity: common.SeverityWarn,
			Scope:    ent.Key,
			Location: ent.Path,
			File:     ent.Path,
			Message:  "missing required prompt sections: " + joined,
			Fix:      "Add the following sections to agent prompt: " + joined,
		})
	}

	return list.Issues
}
