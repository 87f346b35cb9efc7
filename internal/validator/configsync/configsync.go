// Package configsync keeps the swarm/config/agents metadata files
// aligned with the registry: every project/user agent needs a config,
// every config needs a registry row, and the shared fields must agree.
// The whole check is skipped when the config directory does not exist.
package configsync

import (
	"fmt"
	"path"
	"strings"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/app"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/common"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/corpus"
)

// Check cross-references the registry with swarm/config/agents.
func Check(c *corpus.Corpus) []common.Issue {
	if !c.HasAgentConfigDir {
		return nil
	}

	var list common.List

	byKey := make(map[string]*corpus.AgentConfig, len(c.AgentConfigs))
	broken := make(map[string]bool)
	for i := range c.AgentConfigs {
		ac := &c.AgentConfigs[i]
		if ac.ParseErr != "" {
			list.Add(common.Issue{
				Rule:     common.RuleConfig,
				Severity: common.SeverityError,
				Scope:    ac.Key,
				Location: ac.Path,
				File:     ac.Path,
				Message:  fmt.Sprintf("Failed to parse agent config: %s", ac.ParseErr),
				Fix:      fmt.Sprintf("Fix YAML syntax in %s", ac.Path),
			})
			broken[ac.Key] = true
			continue
		}
		byKey[ac.Key] = ac
	}

	for i := range c.Registry {
		entry := &c.Registry[i]
		if corpus.IsBuiltin(entry.Key) || entry.Source != "project/user" {
			continue
		}

		ac, ok := byKey[entry.Key]
		if !ok {
			if broken[entry.Key] {
				// The parse error already covers this key.
				continue
			}
			list.Add(common.Issue{
				Rule:     common.RuleConfig,
				Severity: common.SeverityError,
				Scope:    entry.Key,
				Location: fmt.Sprintf("%s:line %d", app.RelRegistryFile, entry.Line),
				File:     app.RelRegistryFile,
				Line:     entry.Line,
				Message:  fmt.Sprintf("Agent '%s' is registered but swarm/config/agents/%s.yaml does not exist", entry.Key, entry.Key),
				Fix:      fmt.Sprintf("Create swarm/config/agents/%s.yaml with agent metadata, or remove entry from AGENTS.md", entry.Key),
			})
			continue
		}

		if category := ac.Fields["category"]; category != entry.RoleFamily {
			list.Add(common.Issue{
				Rule:     common.RuleConfig,
				Severity: common.SeverityError,
				Scope:    entry.Key,
				Location: ac.Path,
				File:     ac.Path,
				Message:  fmt.Sprintf("config 'category' is '%s' but AGENTS.md role_family is '%s'", category, entry.RoleFamily),
				Fix:      "Update 'category' in config to match role_family in AGENTS.md",
			})
		}
		if color := ac.Fields["color"]; color != entry.Color {
			list.Add(common.Issue{
				Rule:     common.RuleConfig,
				Severity: common.SeverityError,
				Scope:    entry.Key,
				Location: ac.Path,
				File:     ac.Path,
				Message:  fmt.Sprintf("config 'color' is '%s' but AGENTS.md color is '%s'", color, entry.Color),
				Fix:      "Update 'color' in config to match AGENTS.md",
			})
		}
	}

	for i := range c.AgentConfigs {
		ac := &c.AgentConfigs[i]
		stem := configStem(ac.Path)
		if _, ok := c.Entry(stem); ok {
			continue
		}
		list.Add(common.Issue{
			Rule:     common.RuleConfig,
			Severity: common.SeverityError,
			Scope:    stem,
			Location: ac.Path,
			File:     ac.Path,
			Message:  fmt.Sprintf("config exists for '%s' but agent is not in swarm/AGENTS.md", stem),
			Fix:      fmt.Sprintf("Add entry for '%s' to AGENTS.md or delete %s", stem, ac.Path),
		})
	}

	return list.Issues
}

func configStem(rel string) string {
	base := path.Base(rel)
	base = strings.TrimSuffix(base, ".yaml")
	return strings.TrimSuffix(base, ".yml")
}
