package report

import (
	"fmt"
	"strings"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/common"
)

// displayNames maps checker categories to checklist labels.
var displayNames = map[string]string{
	CheckBijection:    "Agent Registry Bijection",
	CheckFrontmatter:  "Frontmatter Validation",
	CheckReferences:   "Flow References",
	CheckPlaceholders: "RUN_BASE Paths",
	CheckSkills:       "Skills Validation",
	CheckFlows:        "Flow Structure",
	CheckPrompts:      "Prompt Sections",
	CheckConfig:       "Config Coverage",
	CheckUtility:      "Utility Flow Graphs",
}

// checklistRules maps categories to the rules whose errors untick the
// category's box.
var checklistRules = map[string][]string{
	CheckBijection:    {common.RuleBijection},
	CheckFrontmatter:  {common.RuleFrontmatter, common.RuleColor},
	CheckReferences:   {common.RuleReference},
	CheckPlaceholders: {common.RuleRunBase},
	CheckSkills:       {common.RuleSkill},
	CheckFlows:        {common.RuleFlow},
	CheckPrompts:      {common.RulePrompt},
	CheckConfig:       {common.RuleConfig},
	CheckUtility:      {common.RuleUtility},
}

// RenderMarkdown builds the markdown rendering: title, status, the
// checks-performed checklist, then grouped error and warning blocks.
func RenderMarkdown(rep *Report) string {
	var b strings.Builder

	b.WriteString("# Swarm Validation Report\n\n")
	fmt.Fprintf(&b, "**Timestamp**: %s\n", rep.GeneratedAt)
	fmt.Fprintf(&b, "**Status**: %s\n\n", rep.statusWord())

	b.WriteString("## Checks Performed\n\n")
	failedRules := make(map[string]bool, len(rep.Errors))
	for _, issue := range rep.Errors {
		failedRules[issue.Rule] = true
	}
	for _, check := range rep.Checks {
		marker := "[x]"
		for _, rule := range checklistRules[check] {
			if failedRules[rule] {
				marker = "[ ]"
				break
			}
		}
		name := displayNames[check]
		if name == "" {
			name = check
		}
		fmt.Fprintf(&b, "- %s %s\n", marker, name)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Errors (%d)\n\n", len(rep.Errors))
	if len(rep.Errors) == 0 {
		b.WriteString("_No errors found._\n")
	} else {
		writeMarkdownIssues(&b, rep.Errors, "Error")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Warnings (%d)\n\n", len(rep.Warnings))
	if len(rep.Warnings) == 0 {
		b.WriteString("_No warnings._\n")
	} else {
		writeMarkdownIssues(&b, rep.Warnings, "Warning")
	}

	return b.String()
}

func writeMarkdownIssues(b *strings.Builder, issues []common.Issue, label string) {
	for _, issue := range issues {
		fmt.Fprintf(b, "### %s\n", issue.Rule)
		fmt.Fprintf(b, "**Location**: %s\n", issue.Location)
		fmt.Fprintf(b, "**%s**: %s\n", label, issue.Message)
		if issue.Fix != "" {
			fmt.Fprintf(b, "**Fix**: %s\n", issue.Fix)
		}
		b.WriteString("\n")
	}
}
