// Package skills verifies that every skill declared by an agent has a
// well-formed SKILL.md declaration.
package skills

import (
	"fmt"
	"path"
	"sort"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/app"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/common"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/corpus"
)

// Check validates every skill declared across agent headers. Skill
// directories nobody declares are ignored, and a corpus without a skills
// directory skips the check entirely.
func Check(c *corpus.Corpus) []common.Issue {
	if !c.HasSkillsDir {
		return nil
	}

	var list common.List

	for _, name := range declaredSkills(c) {
		rel := path.Join(app.RelSkillsDir, name, "SKILL.md")

		sf, ok := c.Skill(name)
		if !ok {
			list.Add(common.Issue{
				Rule:     common.RuleSkill,
				Severity: common.SeverityError,
				Scope:    name,
				Location: fmt.Sprintf("skill '%s'", name),
				File:     rel,
				Message:  fmt.Sprintf("declared by agents but %s does not exist", rel),
				Fix:      fmt.Sprintf("Create %s with valid frontmatter (name, description)", rel),
			})
			continue
		}

		if !sf.ParseOK {
			list.Add(common.Issue{
				Rule:     common.RuleSkill,
				Severity: common.SeverityError,
				Scope:    name,
				Location: sf.Path,
				File:     sf.Path,
				Message:  fmt.Sprintf("malformed YAML in skill frontmatter: %s", sf.ParseErr),
				Fix:      "Check YAML syntax in skill frontmatter",
			})
			continue
		}

		if sf.Header.Str("name") == "" {
			list.Add(common.Issue{
				Rule:     common.RuleSkill,
				Severity: common.SeverityError,
				Scope:    name,
				Location: sf.Path,
				File:     sf.Path,
				Message:  "missing required field 'name'",
				Fix:      fmt.Sprintf("Add `name: %s` to frontmatter", name),
			})
		}
		if sf.Header.Str("description") == "" {
			list.Add(common.Issue{
				Rule:     common.RuleSkill,
				Severity: common.SeverityError,
				Scope:    name,
				Location: sf.Path,
				File:     sf.Path,
				Message:  "missing required field 'description'",
				Fix:      "Add `description: <skill description>` to frontmatter",
			})
		}
	}

	return list.Issues
}

// declaredSkills returns the union of skills lists across agent headers,
// sorted for deterministic reporting. Headers whose skills field is not
// a list contribute nothing; the schema checker flags those.
func declaredSkills(c *corpus.Corpus) []string {
	seen := map[string]struct{}{}
	for i := range c.Entities {
		ent := &c.Entities[i]
		if !ent.ParseOK {
			continue
		}
		names, ok := ent.Header.StringList("skills")
		if !ok {
			continue
		}
		for _, n := range names {
			if n != "" {
				seen[n] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
