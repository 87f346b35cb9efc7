// Package schema validates agent frontmatter fields and the role-family
// color mapping, over definition files and registry rows.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/app"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/common"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/corpus"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/frontmatter"
)

// ValidModels are the accepted frontmatter model values.
var ValidModels = []string{"inherit", "haiku", "sonnet", "opus"}

// ValidColors are the accepted frontmatter color values.
var ValidColors = []string{"red", "blue", "green", "yellow", "purple", "orange", "pink", "cyan"}

// RoleFamilyColors is the fixed one-to-one mapping from the eight role
// families to their colors.
var RoleFamilyColors = map[string]string{
	"shaping":        "yellow",
	"spec":           "purple",
	"implementation": "green",
	"critic":         "red",
	"verification":   "blue",
	"analytics":      "orange",
	"reporter":       "pink",
	"infra":          "cyan",
}

func roleFamilyNames() string {
	names := make([]string, 0, len(RoleFamilyColors))
	for f := range RoleFamilyColors {
		names = append(names, f)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// Check validates every definition file's frontmatter and every registry
// row's color cell.
func Check(c *corpus.Corpus) []common.Issue {
	var list common.List
	for i := range c.Entities {
		checkEntity(c, &c.Entities[i], &list)
	}
	for i := range c.Registry {
		checkRegistryRow(&c.Registry[i], &list)
	}
	return list.Issues
}

func checkEntity(c *corpus.Corpus, ent *corpus.EntityFile, list *common.List) {
	if !ent.ParseOK {
		list.Add(common.Issue{
			Rule:     common.RuleFrontmatter,
			Severity: common.SeverityError,
			Scope:    ent.Key,
			Location: ent.Path,
			File:     ent.Path,
			Message:  fmt.Sprintf("YAML parse error: %s", ent.ParseErr),
			Fix:      "Check YAML syntax; ensure frontmatter starts and ends with '---'",
		})
		return
	}

	h := ent.Header
	name := h.Str("name")
	switch {
	case name == "":
		fmError(list, ent, h.Line("name"),
			"missing required field 'name'",
			fmt.Sprintf("Add `name: %s` to frontmatter", ent.Key))
	case name != ent.Key:
		fmError(list, ent, h.Line("name"),
			fmt.Sprintf("frontmatter 'name' field '%s' does not match filename '%s'", name, ent.Key),
			fmt.Sprintf("Change `name: %s` to `name: %s`, or rename file to %s.md", name, ent.Key, name))
	}

	if h.Str("description") == "" {
		fmError(list, ent, h.Line("description"),
			"missing required field 'description'",
			"Add `description: <one-line description>` to frontmatter")
	}

	model := h.Str("model")
	if model == "" {
		fmError(list, ent, h.Line("model"),
			"missing required field 'model'",
			"Add `model: inherit` to frontmatter")
	} else if !contains(ValidModels, model) {
		fmError(list, ent, h.Line("model"),
			fmt.Sprintf("invalid model value '%s' (must be one of: %s)", model, strings.Join(ValidModels, ", ")),
			fmt.Sprintf("Change `model: %s` to one of: %s", model, strings.Join(ValidModels, ", ")))
	}

	if v, ok := h.Get("skills"); ok {
		if _, isList := v.([]any); !isList {
			fmError(list, ent, h.Line("skills"),
				fmt.Sprintf("'skills' must be a list (got %s)", frontmatter.TypeName(v)),
				"Change skills to list format: `skills: [skill1, skill2]` or use multi-line list")
		}
	}

	if h.Has("tools") {
		list.Add(common.Issue{
			Rule:     common.RuleFrontmatter,
			Severity: common.SeverityWarn,
			Scope:    ent.Key,
			Location: ent.Path,
			File:     ent.Path,
			Line:     h.Line("tools"),
			Message:  "field 'tools' found (swarm design guideline: omit this field)",
			Fix:      "Remove 'tools:' field; this swarm uses prompt-based constraints, not tool denial",
		})
	}
	if h.Has("permissionMode") {
		list.Add(common.Issue{
			Rule:     common.RuleFrontmatter,
			Severity: common.SeverityWarn,
			Scope:    ent.Key,
			Location: ent.Path,
			File:     ent.Path,
			Line:     h.Line("permissionMode"),
			Message:  "field 'permissionMode' found (swarm design guideline: omit this field)",
			Fix:      "Remove 'permissionMode:' field; this swarm enforces permissions at repo level",
		})
	}

	checkEntityColor(c, ent, list)
}

// checkEntityColor validates the file's color against the role family of
// its registry row. Unregistered files are bijection findings, not color
// findings, and unknown families are warned once at the registry row.
func checkEntityColor(c *corpus.Corpus, ent *corpus.EntityFile, list *common.List) {
	entry, ok := c.Entry(ent.Key)
	if !ok {
		return
	}
	family := strings.ToLower(strings.TrimSpace(entry.RoleFamily))
	expected, known := RoleFamilyColors[family]
	if !known {
		return
	}

	color := ent.Header.Str("color")
	h := ent.Header
	switch {
	case color == "":
		list.Add(common.Issue{
			Rule:     common.RuleColor,
			Severity: common.SeverityError,
			Scope:    ent.Key,
			Location: ent.Path,
			File:     ent.Path,
			Message:  fmt.Sprintf("missing required field 'color' (expected '%s' for role family '%s')", expected, family),
			Fix:      fmt.Sprintf("Add `color: %s` to frontmatter", expected),
		})
	case !contains(ValidColors, color):
		list.Add(common.Issue{
			Rule:     common.RuleColor,
			Severity: common.SeverityError,
			Scope:    ent.Key,
			Location: ent.Path,
			File:     ent.Path,
			Line:     h.Line("color"),
			Message:  fmt.Sprintf("invalid color value '%s' (expected one of: %s)", color, strings.Join(ValidColors, ", ")),
			Fix:      fmt.Sprintf("Change `color: %s` to `color: %s` to match role family in AGENTS.md", color, expected),
		})
	case color != expected:
		list.Add(common.Issue{
			Rule:     common.RuleColor,
			Severity: common.SeverityError,
			Scope:    ent.Key,
			Location: ent.Path,
			File:     ent.Path,
			Line:     h.Line("color"),
			Message:  fmt.Sprintf("color '%s' does not match expected color '%s' for role family '%s'", color, expected, family),
			Fix:      fmt.Sprintf("Change `color: %s` to `color: %s` to match role family in AGENTS.md", color, expected),
		})
	}
}

// checkRegistryRow validates the color cell of one registry row against
// the role-family mapping.
func checkRegistryRow(entry *corpus.RegistryEntry, list *common.List) {
	if corpus.IsBuiltin(entry.Key) {
		return
	}
	location := fmt.Sprintf("%s:line %d", app.RelRegistryFile, entry.Line)

	family := strings.ToLower(strings.TrimSpace(entry.RoleFamily))
	expected, known := RoleFamilyColors[family]
	if !known {
		list.Add(common.Issue{
			Rule:     common.RuleColor,
			Severity: common.SeverityWarn,
			Scope:    entry.Key,
			Location: location,
			File:     app.RelRegistryFile,
			Line:     entry.Line,
			Message:  fmt.Sprintf("unknown role_family '%s' in AGENTS.md (cannot validate color)", entry.RoleFamily),
			Fix:      fmt.Sprintf("Ensure role_family is one of: %s", roleFamilyNames()),
		})
		return
	}

	color := strings.TrimSpace(entry.Color)
	if color == expected {
		return
	}
	msg := fmt.Sprintf("missing or invalid color field (expected '%s' for role family '%s')", expected, family)
	if color != "" {
		msg = fmt.Sprintf("missing or invalid color field '%s' (expected '%s' for role family '%s')", color, expected, family)
	}
	list.Add(common.Issue{
		Rule:     common.RuleFrontmatter,
		Severity: common.SeverityError,
		Scope:    entry.Key,
		Location: location,
		File:     app.RelRegistryFile,
		Line:     entry.Line,
		Message:  msg,
		Fix:      fmt.Sprintf("Set color to '%s' in the swarm/AGENTS.md row for '%s'", expected, entry.Key),
	})
}

func fmError(list *common.List, ent *corpus.EntityFile, line int, message, fix string) {
	list.Add(common.Issue{
		Rule:     common.RuleFrontmatter,
		Severity: common.SeverityError,
		Scope:    ent.Key,
		Location: ent.Path,
		File:     ent.Path,
		Line:     line,
		Message:  message,
		Fix:      fix,
	})
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
