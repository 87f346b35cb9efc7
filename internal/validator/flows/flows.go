// Package flows validates flow graph structure: step invariants,
// documentation completeness, and dependency ordering.
package flows

import (
	"fmt"
	"strings"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/common"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/corpus"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/reference"
)

// Check validates every flow graph. res is the reference resolver's
// outcome: step agents it already reported are not reported again, so
// each unknown name surfaces exactly once. Callers that skipped the
// resolver pass nil and get the unknown-agent check here, without
// suggestions; fuzzy matching stays in the resolver.
func Check(c *corpus.Corpus, res *reference.Resolution) []common.Issue {
	var list common.List

	for i := range c.Flows {
		f := &c.Flows[i]

		if f.ParseErr != "" {
			list.Add(common.Issue{
				Rule:     common.RuleFlow,
				Severity: common.SeverityError,
				Scope:    f.ID,
				Location: f.Path,
				File:     f.Path,
				Message:  fmt.Sprintf("Failed to parse flow config: %s", f.ParseErr),
				Fix:      fmt.Sprintf("Fix YAML syntax in %s", f.Path),
			})
			checkDocumentation(&list, c, f)
			continue
		}

		for _, w := range f.UnknownFields {
			list.Warn(common.RuleFlow, f.ID, f.Path, w,
				"Remove the field or fix its spelling; known fields: key, title, description, steps, cross_cutting")
		}

		if len(f.Steps) == 0 {
			list.Add(common.Issue{
				Rule:     common.RuleFlow,
				Severity: common.SeverityError,
				Scope:    f.ID,
				Location: f.Path,
				File:     f.Path,
				Message:  fmt.Sprintf("Flow '%s' has no steps", f.ID),
				Fix:      fmt.Sprintf("Add at least one step to %s, or remove the flow definition", f.Path),
			})
		}

		ids := make(map[string]struct{}, len(f.Steps))
		for _, step := range f.Steps {
			ids[step.ID] = struct{}{}
		}

		for _, step := range f.Steps {
			if len(step.Agents) == 0 && !step.HumanOnly() {
				list.Add(common.Issue{
					Rule:     common.RuleFlow,
					Severity: common.SeverityError,
					Scope:    f.ID,
					Location: f.Path,
					File:     f.Path,
					Line:     step.Line,
					Message:  fmt.Sprintf("Step '%s/%s' has no agents and is not marked 'kind: human-only'", f.ID, step.ID),
					Fix:      "Either add agents to the step or mark it with 'kind: human-only'",
				})
			}

			checkStepAgents(&list, c, f, step, res)

			for _, dep := range step.DependsOn {
				if _, ok := ids[dep]; !ok {
					list.Warn(common.RuleFlow, f.ID, f.Path,
						fmt.Sprintf("Step '%s/%s' depends_on unknown step '%s'", f.ID, step.ID, dep),
						fmt.Sprintf("Reference an existing step id in flow '%s', or remove the dependency", f.ID))
				}
			}
		}

		if cycle := dependencyCycle(f.Steps); len(cycle) > 0 {
			list.Warn(common.RuleFlow, f.ID, f.Path,
				fmt.Sprintf("Flow '%s' has a depends_on cycle: %s", f.ID, strings.Join(cycle, " -> ")),
				"Remove one of the depends_on entries to break the cycle")
		}

		checkDocumentation(&list, c, f)
	}

	return list.Issues
}

// checkStepAgents reports step agents that resolve to nothing. Names in
// res already carry a REFERENCE error from the resolver and are skipped.
func checkStepAgents(list *common.List, c *corpus.Corpus, f *corpus.FlowGraph, step corpus.Step, res *reference.Resolution) {
	for _, name := range step.Agents {
		if c.KnownAgent(name) || res.IsUnresolved(f.ID, step.ID, name) {
			continue
		}
		list.Add(common.Issue{
			Rule:     common.RuleFlow,
			Severity: common.SeverityError,
			Scope:    f.ID,
			Location: f.Path,
			File:     f.Path,
			Line:     step.Line,
			Message:  fmt.Sprintf("Flow '%s' step '%s' references unknown agent '%s'", f.ID, step.ID, name),
			Fix:      fmt.Sprintf("Add '%s' to swarm/AGENTS.md, or fix the agent name", name),
		})
	}
}

func checkDocumentation(list *common.List, c *corpus.Corpus, f *corpus.FlowGraph) {
	doc, ok := c.FlowDocByID(f.ID)
	if !ok {
		list.Add(common.Issue{
			Rule:     common.RuleFlow,
			Severity: common.SeverityError,
			Scope:    f.ID,
			Location: f.Path,
			File:     f.Path,
			Message:  fmt.Sprintf("Flow '%s' config exists but documentation file is missing", f.ID),
			Fix:      fmt.Sprintf("Create %s with flow specification", f.DocPath),
		})
		return
	}
	if !doc.HasAutogenStart || !doc.HasAutogenEnd {
		list.Add(common.Issue{
			Rule:     common.RuleFlow,
			Severity: common.SeverityError,
			Scope:    f.ID,
			Location: doc.Path,
			File:     doc.Path,
			Message:  "Flow documentation missing autogen markers",
			Fix:      fmt.Sprintf("Add '<!-- FLOW AUTOGEN START -->' and '<!-- FLOW AUTOGEN END -->' markers to %s", doc.Path),
		})
	}
}

// dependencyCycle returns one depends_on cycle as a step id path ending
// where it started, or nil. Unknown dependency targets are skipped; they
// get their own warning.
func dependencyCycle(steps []corpus.Step) []string {
	deps := make(map[string][]string, len(steps))
	order := make([]string, 0, len(steps))
	for _, s := range steps {
		if _, ok := deps[s.ID]; ok {
			continue
		}
		order = append(order, s.ID)
		deps[s.ID] = nil
	}
	for _, s := range steps {
		for _, d := range s.DependsOn {
			if _, ok := deps[d]; ok {
				deps[s.ID] = append(deps[s.ID], d)
			}
		}
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(deps))
	var stack []string

	var visit func(id string) []string
	visit = func(id string) []string {
		state[id] = visiting
		stack = append(stack, id)
		for _, d := range deps[id] {
			switch state[d] {
			case visiting:
				// Close the loop from d's position in the stack.
				for i, s := range stack {
					if s == d {
						return append(append([]string{}, stack[i:]...), d)
					}
				}
			case unvisited:
				if cycle := visit(d); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
		return nil
	}

	for _, id := range order {
		if state[id] == unvisited {
			if cycle := visit(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
