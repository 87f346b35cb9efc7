// Package report aggregates checker findings into the canonical
// validation report. Every rendering (console, JSON, simplified JSON,
// markdown) derives from the same Report value, so the orderings and
// totals agree across formats.
package report

import (
	"fmt"
	"time"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/common"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/corpus"
)

// Version identifies the report schema, not the tool build.
const Version = "1.0.0"

// Report status values.
const (
	StatusPass  = "PASS"
	StatusFail  = "FAIL"
	StatusFatal = "FATAL"
)

// Checker category names, shared with the run orchestrator and echoed
// in the report's checks list.
const (
	CheckBijection    = "agent_bijection"
	CheckFrontmatter  = "frontmatter"
	CheckReferences   = "flow_references"
	CheckPlaceholders = "runbase_paths"
	CheckSkills       = "skills"
	CheckFlows        = "flow_structure"
	CheckPrompts      = "prompt_sections"
	CheckConfig       = "config_coverage"
	CheckUtility      = "utility_graphs"
)

// Mode records the switches the run was invoked with, so a stored
// report stays interpretable.
type Mode struct {
	Strict       bool `json:"strict"`
	FlowsOnly    bool `json:"flows_only"`
	ModifiedOnly bool `json:"modified_only"`
	GitFallback  bool `json:"git_fallback"`
	CheckPrompts bool `json:"check_prompts"`
}

// Options configures aggregation.
type Options struct {
	Strict       bool
	FlowsOnly    bool
	ModifiedOnly bool
	GitFallback  bool
	CheckPrompts bool

	// Checks lists the checker categories that executed, in
	// registration order.
	Checks []string
}

// Check is one per-target check cell: pass, warn, or fail plus the
// first finding for that rule and target.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Fix     string `json:"fix,omitempty"`
}

// Target is the per-agent or per-flow breakdown. Checks is keyed by
// rule id; encoding/json sorts map keys, so output stays stable.
type Target struct {
	File        string           `json:"file"`
	Checks      map[string]Check `json:"checks"`
	HasIssues   bool             `json:"has_issues"`
	HasWarnings bool             `json:"has_warnings,omitempty"`
}

// Summary carries the verdict and the check arithmetic: total_checks
// counts errors, warnings, and surfaced pass cells; passed is the
// remainder after failures.
type Summary struct {
	Status             string   `json:"status"`
	TotalChecks        int      `json:"total_checks"`
	Passed             int      `json:"passed"`
	Failed             int      `json:"failed"`
	Warnings           int      `json:"warnings"`
	EntitiesWithIssues []string `json:"entities_with_issues"`
	FlowsWithIssues    []string `json:"flows_with_issues"`
}

// Report is the canonical aggregation result.
type Report struct {
	Version     string            `json:"version"`
	GeneratedAt string            `json:"generated_at"`
	Mode        Mode              `json:"mode"`
	Summary     Summary           `json:"summary"`
	Checks      []string          `json:"checks"`
	Entities    map[string]Target `json:"entities"`
	Flows       map[string]Target `json:"flows"`
	Errors      []common.Issue    `json:"errors"`
	Warnings    []common.Issue    `json:"warnings"`
}

// Rule sets surfaced as per-target cells, gated on the categories that
// ran. SKILL and UTILITY findings stay in the flat lists: their scopes
// are skill names and graph ids, not registry keys or flow configs.
var entityCellRules = []struct {
	rule  string
	check string
}{
	{common.RuleBijection, CheckBijection},
	{common.RuleFrontmatter, CheckFrontmatter},
	{common.RuleColor, CheckFrontmatter},
	{common.RuleRunBase, CheckPlaceholders},
	{common.RulePrompt, CheckPrompts},
	{common.RuleConfig, CheckConfig},
}

var flowCellRules = []struct {
	rule  string
	check string
}{
	{common.RuleReference, CheckReferences},
	{common.RuleRunBase, CheckPlaceholders},
	{common.RuleFlow, CheckFlows},
}

// passMessages is what a clean cell says, per rule.
var passMessages = map[string]string{
	common.RuleBijection:   "Registered in AGENTS.md",
	common.RuleFrontmatter: "Frontmatter valid",
	common.RuleColor:       "Color matches role family",
	common.RuleRunBase:     "RUN_BASE paths correct",
	common.RulePrompt:      "Prompt sections present",
	common.RuleConfig:      "Config aligned",
	common.RuleReference:   "All agent references valid",
	common.RuleFlow:        "Flow structure valid",
}

// Build aggregates issues into the canonical report. Strict mode
// escalates warnings to errors here, after the checkers ran, so checker
// logic never branches on strictness. Issues are stable-sorted before
// any grouping; no map iteration order reaches the output.
func Build(c *corpus.Corpus, issues []common.Issue, opts Options) *Report {
	all := make([]common.Issue, len(issues))
	copy(all, issues)
	if opts.Strict {
		for i := range all {
			if all[i].Severity == common.SeverityWarn {
				all[i].Severity = common.SeverityError
			}
		}
	}
	common.Sort(all)

	errs := []common.Issue{}
	warns := []common.Issue{}
	for _, issue := range all {
		if issue.Severity == common.SeverityWarn {
			warns = append(warns, issue)
		} else {
			errs = append(errs, issue)
		}
	}

	ran := make(map[string]bool, len(opts.Checks))
	for _, name := range opts.Checks {
		ran[name] = true
	}

	byCell := make(map[string][]common.Issue)
	for _, issue := range all {
		if issue.Scope == "" {
			continue
		}
		k := cellKey(issue.Rule, issue.Scope)
		byCell[k] = append(byCell[k], issue)
	}

	rep := &Report{
		Version:     Version,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Mode: Mode{
			Strict:       opts.Strict,
			FlowsOnly:    opts.FlowsOnly,
			ModifiedOnly: opts.ModifiedOnly,
			GitFallback:  opts.GitFallback,
			CheckPrompts: opts.CheckPrompts,
		},
		Checks:   append([]string{}, opts.Checks...),
		Entities: map[string]Target{},
		Flows:    map[string]Target{},
		Errors:   errs,
		Warnings: warns,
	}

	passCells := 0
	entitiesWithIssues := []string{}
	for _, key := range c.RegistryKeys() {
		entry, _ := c.Entry(key)
		if corpus.IsBuiltin(key) || entry.Source != "project/user" {
			continue
		}

		target := Target{
			File:   entityFile(c, key),
			Checks: map[string]Check{},
		}
		for _, cr := range entityCellRules {
			if !ran[cr.check] {
				continue
			}
			if cr.rule == common.RuleConfig && !c.HasAgentConfigDir {
				continue
			}
			cell := buildCell(cr.rule, byCell[cellKey(cr.rule, key)])
			target.Checks[cr.rule] = cell
			switch cell.Status {
			case "pass":
				passCells++
			case "fail":
				target.HasIssues = true
			case "warn":
				target.HasWarnings = true
			}
		}
		rep.Entities[key] = target
		if target.HasIssues {
			entitiesWithIssues = append(entitiesWithIssues, key)
		}
	}

	flowsWithIssues := []string{}
	for _, id := range c.FlowIDs() {
		target := Target{
			File:   flowFile(c, id),
			Checks: map[string]Check{},
		}
		for _, cr := range flowCellRules {
			if !ran[cr.check] {
				continue
			}
			cell := buildCell(cr.rule, byCell[cellKey(cr.rule, id)])
			target.Checks[cr.rule] = cell
			switch cell.Status {
			case "pass":
				passCells++
			case "fail":
				target.HasIssues = true
			case "warn":
				target.HasWarnings = true
			}
		}
		rep.Flows[id] = target
		if target.HasIssues {
			flowsWithIssues = append(flowsWithIssues, id)
		}
	}

	failed := len(errs)
	total := failed + len(warns) + passCells
	status := StatusPass
	if failed > 0 {
		status = StatusFail
	}
	rep.Summary = Summary{
		Status:             status,
		TotalChecks:        total,
		Passed:             total - failed,
		Failed:             failed,
		Warnings:           len(warns),
		EntitiesWithIssues: entitiesWithIssues,
		FlowsWithIssues:    flowsWithIssues,
	}
	return rep
}

// Fatal builds the short-circuit report for a corpus that could not be
// loaded. The single fatal issue is the entire report.
func Fatal(opts Options, issue common.Issue) *Report {
	issue.Severity = common.SeverityFatal
	return &Report{
		Version:     Version,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Mode: Mode{
			Strict:       opts.Strict,
			FlowsOnly:    opts.FlowsOnly,
			ModifiedOnly: opts.ModifiedOnly,
			GitFallback:  opts.GitFallback,
			CheckPrompts: opts.CheckPrompts,
		},
		Summary: Summary{
			Status:             StatusFatal,
			TotalChecks:        1,
			Failed:             1,
			EntitiesWithIssues: []string{},
			FlowsWithIssues:    []string{},
		},
		Checks:   []string{},
		Entities: map[string]Target{},
		Flows:    map[string]Target{},
		Errors:   []common.Issue{issue},
		Warnings: []common.Issue{},
	}
}

// buildCell condenses the issues for one (rule, target) pair: the first
// error wins, then the first warning, then a pass message.
func buildCell(rule string, issues []common.Issue) Check {
	for _, issue := range issues {
		if issue.Severity != common.SeverityWarn {
			return Check{Status: "fail", Message: issue.Message, Fix: issue.Fix}
		}
	}
	for _, issue := range issues {
		if issue.Severity == common.SeverityWarn {
			return Check{Status: "warn", Message: issue.Message, Fix: issue.Fix}
		}
	}
	return Check{Status: "pass", Message: passMessages[rule]}
}

func cellKey(rule, scope string) string {
	return rule + "\x00" + scope
}

func entityFile(c *corpus.Corpus, key string) string {
	if ent, ok := c.Entity(key); ok {
		return ent.Path
	}
	return fmt.Sprintf(".claude/agents/%s.md", key)
}

func flowFile(c *corpus.Corpus, id string) string {
	if doc, ok := c.FlowDocByID(id); ok {
		return doc.Path
	}
	return fmt.Sprintf("swarm/flows/flow-%s.md", id)
}
