// Package testutil builds corpus fixtures for validator tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// NewCorpusDir creates a temp corpus root with the standard directory
// layout and returns its path.
func NewCorpusDir(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	dirs := []string{
		"swarm/flows",
		"swarm/config/flows",
		".claude/agents",
		".claude/skills",
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0o755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
	return root
}

// WriteFile writes content at a corpus-relative path, creating parents.
func WriteFile(t *testing.T, root, rel, content string) string {
	t.Helper()

	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("Failed to create parent of %s: %v", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", rel, err)
	}
	return full
}

// WriteRegistry writes swarm/AGENTS.md with the six-column agent table.
// Each row is "key|flows|family|color|source|role".
func WriteRegistry(t *testing.T, root string, rows ...string) {
	t.Helper()

	var b strings.Builder
	b.WriteString("# Swarm Agents\n\n")
	b.WriteString("| Key | Flows | Role Family | Color | Source | Short Role |\n")
	b.WriteString("|-----|-------|-------------|-------|--------|------------|\n")
	for _, row := range rows {
		cells := strings.Split(row, "|")
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	WriteFile(t, root, "swarm/AGENTS.md", b.String())
}

// AgentHeader returns frontmatter lines for a well-formed agent.
func AgentHeader(key, color string) []string {
	return []string{
		"name: " + key,
		"description: Test agent " + key,
		"model: inherit",
		"color: " + color,
	}
}

// WriteAgent writes a .claude/agents definition file from frontmatter
// lines and a prompt body.
func WriteAgent(t *testing.T, root, key string, headerLines []string, body string) {
	t.Helper()

	content := "---\n" + strings.Join(headerLines, "\n") + "\n---\n" + body
	WriteFile(t, root, ".claude/agents/"+key+".md", content)
}

// SkillContent returns a well-formed SKILL.md for name.
func SkillContent(name string) string {
	return "---\nname: " + name + "\ndescription: Skill " + name + "\n---\n\nUsage notes.\n"
}

// WriteSkill writes .claude/skills/<name>/SKILL.md.
func WriteSkill(t *testing.T, root, name, content string) {
	t.Helper()

	WriteFile(t, root, ".claude/skills/"+name+"/SKILL.md", content)
}

// WriteFlowConfig writes swarm/config/flows/<id>.yaml.
func WriteFlowConfig(t *testing.T, root, id, content string) {
	t.Helper()

	WriteFile(t, root, "swarm/config/flows/"+id+".yaml", content)
}

// WriteFlowDoc writes swarm/flows/flow-<id>.md.
func WriteFlowDoc(t *testing.T, root, id, content string) {
	t.Helper()

	WriteFile(t, root, "swarm/flows/flow-"+id+".md", content)
}

// WriteAgentConfig writes swarm/config/agents/<key>.yaml.
func WriteAgentConfig(t *testing.T, root, key, content string) {
	t.Helper()

	WriteFile(t, root, "swarm/config/agents/"+key+".yaml", content)
}

// WriteGraphSpec writes swarm/spec/flows/<name>.graph.json.
func WriteGraphSpec(t *testing.T, root, name, content string) {
	t.Helper()

	WriteFile(t, root, "swarm/spec/flows/"+name+".graph.json", content)
}
