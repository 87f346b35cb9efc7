// Package bijection checks that registry keys and agent definition files
// form a one-to-one correspondence, in both directions.
package bijection

import (
	"fmt"
	"path"
	"strings"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/app"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/pkg/keyslug"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/common"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/corpus"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/suggest"
)

// Check visits every registry key and every definition file exactly once.
// Built-in agents are exempt on both sides.
func Check(c *corpus.Corpus) []common.Issue {
	var list common.List

	fileKeys := c.EntityKeys()
	registryKeys := c.RegistryKeys()

	for i := range c.Registry {
		entry := &c.Registry[i]
		if corpus.IsBuiltin(entry.Key) {
			continue
		}
		if _, ok := c.Entity(entry.Key); ok {
			continue
		}

		wantPath := path.Join(app.RelAgentsDir, entry.Key+".md")
		msg := fmt.Sprintf("registered in swarm/AGENTS.md but %s does not exist", wantPath)
		suggestions := suggest.Closest(entry.Key, fileKeys)
		msg += didYouMean(suggestions)

		fix := fmt.Sprintf("Create %s with valid frontmatter, or remove the entry from swarm/AGENTS.md", wantPath)
		if len(suggestions) > 0 {
			fix = fmt.Sprintf("Rename one of %s to %s.md, or create the file, or remove the entry from swarm/AGENTS.md",
				joinFiles(suggestions), entry.Key)
		}

		list.Add(common.Issue{
			Rule:     common.RuleBijection,
			Severity: common.SeverityError,
			Scope:    entry.Key,
			Location: fmt.Sprintf("%s:line %d", app.RelRegistryFile, entry.Line),
			File:     app.RelRegistryFile,
			Line:     entry.Line,
			Message:  msg,
			Fix:      fix,
		})
	}

	for i := range c.Entities {
		ent := &c.Entities[i]
		if corpus.IsBuiltin(ent.Key) {
			continue
		}
		if _, ok := c.Entry(ent.Key); ok {
			continue
		}

		msg := fmt.Sprintf("file exists but agent key '%s' is not in swarm/AGENTS.md", ent.Key)
		suggestions := suggest.Closest(ent.Key, registryKeys)
		msg += didYouMean(suggestions)

		fix := fmt.Sprintf("Add entry for '%s' to swarm/AGENTS.md or delete %s", ent.Key, ent.Path)
		if canon := keyslug.Canonical(ent.Key); canon != ent.Key {
			if _, registered := c.Entry(canon); registered {
				if _, hasFile := c.Entity(canon); !hasFile {
					fix = fmt.Sprintf("Rename %s to %s.md to match the registry entry", ent.Path, canon)
				}
			}
		} else if len(suggestions) > 0 {
			fix = fmt.Sprintf("Update '%s' to match one of: %s, or add new entry to swarm/AGENTS.md, or delete %s",
				ent.Key, strings.Join(suggestions, ", "), ent.Path)
		}

		list.Add(common.Issue{
			Rule:     common.RuleBijection,
			Severity: common.SeverityError,
			Scope:    ent.Key,
			Location: ent.Path,
			File:     ent.Path,
			Message:  msg,
			Fix:      fix,
		})
	}

	return list.Issues
}

func didYouMean(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}
	return fmt.Sprintf("; did you mean: %s?", strings.Join(suggestions, ", "))
}

func joinFiles(keys []string) string {
	files := make([]string, 0, len(keys))
	for _, k := range keys {
		files = append(files, k+".md")
	}
	return strings.Join(files, ", ")
}
