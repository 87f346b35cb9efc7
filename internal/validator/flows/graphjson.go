package flows

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/common"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/corpus"
)

// flowSpecIDPattern recognizes main-flow spec ids like "4-gate".
var flowSpecIDPattern = regexp.MustCompile(`^\d+-[a-z]+$`)

// CheckGraphSpecs validates the utility flow declarations in
// swarm/spec/flows/*.graph.json: utility flows must carry an injection
// trigger, terminate with 'return' or 'pause', and stay out of the main
// SDLC numbering (1-7).
func CheckGraphSpecs(c *corpus.Corpus) []common.Issue {
	var list common.List
	for i := range c.GraphFiles {
		checkGraphSpec(&list, &c.GraphFiles[i])
	}
	return list.Issues
}

func checkGraphSpec(list *common.List, g *corpus.GraphFile) {
	var data map[string]any
	if err := json.Unmarshal(g.Data, &data); err != nil {
		list.Add(common.Issue{
			Rule:     common.RuleUtility,
			Severity: common.SeverityError,
			Location: g.Path,
			File:     g.Path,
			Message:  fmt.Sprintf("Invalid JSON in flow graph: %s", err),
			Fix:      "Fix JSON syntax errors in the flow graph file",
		})
		return
	}

	flowID := stringField(data, "id")
	if flowID == "" {
		flowID = strings.TrimSuffix(g.Name, ".graph.json")
	}
	flowNumber := intField(data, "flow_number")
	metadata, _ := data["metadata"].(map[string]any)
	isUtility, _ := metadata["is_utility_flow"].(bool)
	trigger := stringField(metadata, "injection_trigger")
	onComplete, _ := data["on_complete"].(map[string]any)
	nextFlow := stringField(onComplete, "next_flow")

	add := func(severity common.Severity, message, fix string) {
		list.Add(common.Issue{
			Rule:     common.RuleUtility,
			Severity: severity,
			Scope:    flowID,
			Location: g.Path,
			File:     g.Path,
			Message:  message,
			Fix:      fix,
		})
	}

	if isUtility && trigger == "" {
		add(common.SeverityError,
			fmt.Sprintf("Utility flow '%s' is missing injection_trigger in metadata", flowID),
			"Add 'injection_trigger' to metadata section (e.g., 'upstream_diverged', 'lint_failure')")
	}

	if isUtility && nextFlow != "" && nextFlow != "return" && nextFlow != "pause" {
		if flowSpecIDPattern.MatchString(nextFlow) {
			add(common.SeverityError,
				fmt.Sprintf("Utility flow '%s' has on_complete.next_flow='%s' which is a flow spec ID; utility flows should use 'return' or 'pause'", flowID, nextFlow),
				"Change on_complete.next_flow to 'return' (to resume interrupted flow) or 'pause' (for human intervention)")
		} else {
			add(common.SeverityWarn,
				fmt.Sprintf("Utility flow '%s' has unusual on_complete.next_flow='%s'; expected 'return' or 'pause'", flowID, nextFlow),
				"Consider using 'return' or 'pause' for utility flows")
		}
	}

	if isUtility && flowNumber < 8 {
		add(common.SeverityError,
			fmt.Sprintf("Utility flow '%s' has flow_number=%d; utility flows should use 8+ (main SDLC flows use 1-7)", flowID, flowNumber),
			"Change flow_number to 8 or higher to indicate this is a utility flow")
	}

	if flowNumber >= 1 && flowNumber <= 7 && isUtility {
		add(common.SeverityError,
			fmt.Sprintf("Flow '%s' (flow_number=%d) is marked as utility flow but uses SDLC flow number (1-7)", flowID, flowNumber),
			"Either remove is_utility_flow from metadata, or change flow_number to 8+")
	}

	if trigger != "" && !isUtility {
		add(common.SeverityWarn,
			fmt.Sprintf("Flow '%s' has injection_trigger='%s' but is_utility_flow is not true", flowID, trigger),
			"Add 'is_utility_flow: true' to metadata if this is a utility flow")
	}
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func intField(m map[string]any, key string) int {
	if m == nil {
		return 0
	}
	f, _ := m[key].(float64)
	return int(f)
}
