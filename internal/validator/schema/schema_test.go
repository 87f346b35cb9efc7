package schema

import (
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/app"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/testutil"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/common"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/corpus"
)

func runCheck(t *testing.T, registryRow, agentKey, agentContent string) []common.Issue {
	t.Helper()

	root := testutil.NewCorpusDir(t)
	testutil.WriteRegistry(t, root, registryRow)
	if agentKey != "" {
		testutil.WriteFile(t, root, ".claude/agents/"+agentKey+".md", agentContent)
	}

	c, err := corpus.Load(afero.NewOsFs(), app.ResolvePaths(root))
	if err != nil {
		t.Fatalf("load corpus: %v", err)
	}
	return Check(c)
}

func anyContains(issues []common.Issue, substr string) bool {
	for _, i := range issues {
		if strings.Contains(i.Message, substr) {
			return true
		}
	}
	return false
}

func TestCheckEntityFrontmatter(t *testing.T) {
	registryRow := "incident-responder|signal|verification|blue|project/user|Triages"

	tests := []struct {
		name         string
		content      string
		expectErrors int
		expectWarns  int
		messages     []string
	}{
		{
			name: "valid agent",
			content: `---
name: incident-responder
description: Triages incidents
model: inherit
color: blue
---
body
`,
			expectErrors: 0,
			expectWarns:  0,
		},
		{
			name:         "broken frontmatter",
			content:      "name: incident-responder\nno delimiters here\n",
			expectErrors: 1,
			messages:     []string{"YAML parse error:"},
		},
		{
			name: "missing required fields",
			content: `---
color: blue
---
`,
			expectErrors: 3,
			messages: []string{
				"missing required field 'name'",
				"missing required field 'description'",
				"missing required field 'model'",
			},
		},
		{
			name: "name does not match filename",
			content: `---
name: responder
description: Triages incidents
model: inherit
color: blue
---
`,
			expectErrors: 1,
			messages:     []string{"frontmatter 'name' field 'responder' does not match filename 'incident-responder'"},
		},
		{
			name: "invalid model",
			content: `---
name: incident-responder
description: Triages incidents
model: gpt-4
color: blue
---
`,
			expectErrors: 1,
			messages:     []string{"invalid model value 'gpt-4' (must be one of: inherit, haiku, sonnet, opus)"},
		},
		{
			name: "skills must be a list",
			content: `---
name: incident-responder
description: Triages incidents
model: inherit
color: blue
skills: policy-runner
---
`,
			expectErrors: 1,
			messages:     []string{"'skills' must be a list (got string)"},
		},
		{
			name: "design guideline fields",
			content: `---
name: incident-responder
description: Triages incidents
model: inherit
color: blue
tools: Read, Grep
permissionMode: ask
---
`,
			expectErrors: 0,
			expectWarns:  2,
			messages: []string{
				"field 'tools' found (swarm design guideline: omit this field)",
				"field 'permissionMode' found (swarm design guideline: omit this field)",
			},
		},
		{
			name: "missing color",
			content: `---
name: incident-responder
description: Triages incidents
model: inherit
---
`,
			expectErrors: 1,
			messages:     []string{"missing required field 'color' (expected 'blue' for role family 'verification')"},
		},
		{
			name: "invalid color",
			content: `---
name: incident-responder
description: Triages incidents
model: inherit
color: teal
---
`,
			expectErrors: 1,
			messages:     []string{"invalid color value 'teal'"},
		},
		{
			name: "color mismatch",
			content: `---
name: incident-responder
description: Triages incidents
model: inherit
color: green
---
`,
			expectErrors: 1,
			messages:     []string{"color 'green' does not match expected color 'blue' for role family 'verification'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := runCheck(t, registryRow, "incident-responder", tt.content)

			if got := common.CountErrors(issues); got != tt.expectErrors {
				t.Errorf("expected %d errors, got %d: %+v", tt.expectErrors, got, issues)
			}
			if got := common.CountWarns(issues); got != tt.expectWarns {
				t.Errorf("expected %d warnings, got %d: %+v", tt.expectWarns, got, issues)
			}
			for _, m := range tt.messages {
				if !anyContains(issues, m) {
					t.Errorf("expected an issue containing %q, got %+v", m, issues)
				}
			}
		})
	}
}

func TestCheckRegistryRowBlankColor(t *testing.T) {
	issues := runCheck(t,
		"foo-bar|signal|verification||project/user|Checks things",
		"foo-bar", `---
name: foo-bar
description: Checks things
model: inherit
color: blue
---
`)

	if len(issues) != 1 {
		t.Fatalf("expected exactly one issue, got %+v", issues)
	}
	issue := issues[0]
	if issue.Rule != common.RuleFrontmatter {
		t.Errorf("expected FRONTMATTER rule, got %s", issue.Rule)
	}
	if issue.Severity != common.SeverityError {
		t.Errorf("expected error severity, got %s", issue.Severity)
	}
	if !strings.Contains(issue.Message, "missing or invalid color field") {
		t.Errorf("unexpected message: %s", issue.Message)
	}
	if !strings.Contains(issue.Message, "'blue'") {
		t.Errorf("expected the blue expectation in: %s", issue.Message)
	}
	if !strings.Contains(issue.Location, "swarm/AGENTS.md:line ") {
		t.Errorf("expected a registry line location, got %s", issue.Location)
	}
}

func TestCheckRegistryRowWrongColor(t *testing.T) {
	issues := runCheck(t,
		"foo-bar|signal|critic|blue|project/user|Reviews",
		"foo-bar", `---
name: foo-bar
description: Reviews
model: inherit
color: red
---
`)

	if len(issues) != 1 {
		t.Fatalf("expected exactly one issue, got %+v", issues)
	}
	if !strings.Contains(issues[0].Message, "missing or invalid color field 'blue' (expected 'red' for role family 'critic')") {
		t.Errorf("unexpected message: %s", issues[0].Message)
	}
}

func TestCheckUnknownRoleFamily(t *testing.T) {
	issues := runCheck(t,
		"foo-bar|signal|design|purple|project/user|Designs",
		"foo-bar", `---
name: foo-bar
description: Designs
model: inherit
color: purple
---
`)

	if common.CountErrors(issues) != 0 {
		t.Errorf("unknown family must not produce errors: %+v", issues)
	}
	if common.CountWarns(issues) != 1 {
		t.Fatalf("expected exactly one warning, got %+v", issues)
	}
	if !strings.Contains(issues[0].Message, "unknown role_family 'design' in AGENTS.md (cannot validate color)") {
		t.Errorf("unexpected message: %s", issues[0].Message)
	}
	if issues[0].Rule != common.RuleColor {
		t.Errorf("expected COLOR rule, got %s", issues[0].Rule)
	}
}

func TestRoleFamilyColorMapIsTotalBijection(t *testing.T) {
	if len(RoleFamilyColors) != 8 {
		t.Fatalf("expected exactly eight role families, got %d", len(RoleFamilyColors))
	}
	seen := map[string]string{}
	for family, color := range RoleFamilyColors {
		if prev, dup := seen[color]; dup {
			t.Errorf("color %s mapped from both %s and %s", color, prev, family)
		}
		seen[color] = family

		valid := false
		for _, c := range ValidColors {
			if c == color {
				valid = true
			}
		}
		if !valid {
			t.Errorf("family %s maps to unknown color %s", family, color)
		}
	}
	if len(seen) != len(ValidColors) {
		t.Errorf("mapping must cover all %d colors, covers %d", len(ValidColors), len(seen))
	}
}
