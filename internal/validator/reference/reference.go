// Package reference resolves agent names used by flow configs and flow
// documentation against the registry. It owns the only fuzzy matching in
// the validator; the graph invariant checker consumes the resolution
// outcome instead of resolving names a second time.
package reference

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/common"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/corpus"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/suggest"
)

// Resolution records which step agents failed to resolve, keyed by flow
// and step id. Downstream checkers read it so each unresolved name is
// reported exactly once.
type Resolution struct {
	unresolved map[string]map[string][]string
}

func newResolution() *Resolution {
	return &Resolution{unresolved: make(map[string]map[string][]string)}
}

func (r *Resolution) record(flowID, stepID, name string) {
	steps, ok := r.unresolved[flowID]
	if !ok {
		steps = make(map[string][]string)
		r.unresolved[flowID] = steps
	}
	for _, have := range steps[stepID] {
		if have == name {
			return
		}
	}
	steps[stepID] = append(steps[stepID], name)
}

// IsUnresolved reports whether name failed to resolve for the given step.
func (r *Resolution) IsUnresolved(flowID, stepID, name string) bool {
	if r == nil {
		return false
	}
	for _, have := range r.unresolved[flowID][stepID] {
		if have == name {
			return true
		}
	}
	return false
}

// Unresolved returns a copy of the unresolved names recorded for a step,
// in the order they were encountered.
func (r *Resolution) Unresolved(flowID, stepID string) []string {
	if r == nil {
		return nil
	}
	names := r.unresolved[flowID][stepID]
	if len(names) == 0 {
		return nil
	}
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Count returns the total number of unresolved step references.
func (r *Resolution) Count() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, steps := range r.unresolved {
		for _, names := range steps {
			n += len(names)
		}
	}
	return n
}

// agentRefPattern matches inline "Agent: `name`" annotations in flow
// documentation.
var agentRefPattern = regexp.MustCompile("Agent:\\s*`([a-zA-Z0-9_\\-]+)`")

// Check resolves every agent reference in flow configs and flow
// documentation. Valid names are registry keys plus built-ins; a
// definition file alone does not make a name referable.
func Check(c *corpus.Corpus) ([]common.Issue, *Resolution) {
	var list common.List
	res := newResolution()

	candidates := append(c.RegistryKeys(), corpus.BuiltinAgents...)

	for i := range c.Flows {
		flow := &c.Flows[i]
		for _, step := range flow.Steps {
			for _, name := range step.Agents {
				if c.KnownAgent(name) {
					continue
				}
				res.record(flow.ID, step.ID, name)
				list.Add(stepIssue(flow, step, name, suggest.Closest(name, candidates)))
			}
		}
	}

	for i := range c.FlowDocs {
		doc := &c.FlowDocs[i]
		if !doc.IsFlowSpec {
			continue
		}
		for _, ref := range docAgentRefs(doc.Text) {
			if c.KnownAgent(ref.name) {
				continue
			}
			list.Add(docIssue(doc, ref, suggest.Closest(ref.name, candidates)))
		}
	}

	return list.Issues, res
}

func stepIssue(flow *corpus.FlowGraph, step corpus.Step, name string, suggestions []string) common.Issue {
	msg := fmt.Sprintf("Flow '%s' step '%s' references unknown agent '%s'", flow.ID, step.ID, name)
	fix := fmt.Sprintf("Add '%s' to swarm/AGENTS.md, or fix the agent name", name)
	if len(suggestions) > 0 {
		joined := strings.Join(suggestions, ", ")
		msg += fmt.Sprintf("; did you mean: %s?", joined)
		fix = fmt.Sprintf("Update agent reference to one of: %s, or add '%s' to swarm/AGENTS.md", joined, name)
	}
	return common.Issue{
		Rule:     common.RuleReference,
		Severity: common.SeverityError,
		Scope:    flow.ID,
		Location: flow.Path,
		File:     flow.Path,
		Line:     step.Line,
		Message:  msg,
		Fix:      fix,
	}
}

func docIssue(doc *corpus.FlowDoc, ref docRef, suggestions []string) common.Issue {
	msg := fmt.Sprintf("references unknown agent '%s'", ref.name)
	fix := fmt.Sprintf("Add '%s' to swarm/AGENTS.md, or fix the agent name", ref.name)
	if len(suggestions) > 0 {
		joined := strings.Join(suggestions, ", ")
		msg += fmt.Sprintf("; did you mean: %s?", joined)
		fix = fmt.Sprintf("Update reference to one of: %s, or add '%s' to swarm/AGENTS.md", joined, ref.name)
	}
	return common.Issue{
		Rule:     common.RuleReference,
		Severity: common.SeverityError,
		Scope:    doc.ID,
		Location: fmt.Sprintf("%s:line %d", doc.Path, ref.line),
		File:     doc.Path,
		Line:     ref.line,
		Message:  msg,
		Fix:      fix,
	}
}

type docRef struct {
	line int
	name string
}

// docAgentRefs extracts agent names from documentation text: inline
// "Agent:" annotations plus rows of step tables headed
// "| Step | Node | Type |" whose type column is "agent".
func docAgentRefs(text string) []docRef {
	var refs []docRef
	inTable := false

	for i, line := range strings.Split(text, "\n") {
		lineNum := i + 1

		if m := agentRefPattern.FindStringSubmatch(line); m != nil {
			refs = append(refs, docRef{line: lineNum, name: m[1]})
		}

		if strings.Contains(line, "| Step") && strings.Contains(line, "Node") && strings.Contains(line, "Type") {
			inTable = true
			continue
		}
		if !inTable {
			continue
		}
		if strings.HasPrefix(line, "|---") {
			continue
		}
		if !strings.HasPrefix(line, "|") {
			inTable = false
			continue
		}

		cols := strings.Split(strings.Trim(line, "|"), "|")
		for j := range cols {
			cols[j] = strings.TrimSpace(cols[j])
		}
		if len(cols) < 3 {
			continue
		}
		if _, err := strconv.Atoi(cols[0]); err != nil {
			continue
		}
		node := cols[1]
		if len(node) >= 2 && strings.HasPrefix(node, "`") && strings.HasSuffix(node, "`") {
			node = node[1 : len(node)-1]
		}
		if cols[2] == "agent" && node != "" {
			refs = append(refs, docRef{line: lineNum, name: node})
		}
	}

	return refs
}
