package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/app"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/testutil"
)

func loadFixture(t *testing.T, root string) *Corpus {
	t.Helper()
	c, err := Load(afero.NewOsFs(), app.ResolvePaths(root))
	require.NoError(t, err)
	return c
}

func TestLoadFullCorpus(t *testing.T) {
	root := testutil.NewCorpusDir(t)
	testutil.WriteRegistry(t, root,
		"incident-responder|signal, gate|verification|blue|project/user|Triages incidents",
		"plan-writer|plan|spec|purple|project/user|Writes plans",
	)
	testutil.WriteAgent(t, root, "incident-responder",
		testutil.AgentHeader("incident-responder", "blue"),
		"\n## Inputs\n\nReports.\n")
	testutil.WriteAgent(t, root, "plan-writer",
		testutil.AgentHeader("plan-writer", "purple"), "")
	testutil.WriteSkill(t, root, "policy-runner", testutil.SkillContent("policy-runner"))
	testutil.WriteFlowConfig(t, root, "signal", `key: signal
title: Signal intake
steps:
  - id: triage
    agents: [incident-responder]
  - id: sign-off
    kind: human-only
`)
	testutil.WriteFlowDoc(t, root, "signal",
		"# Signal\n\n<!-- FLOW AUTOGEN START -->\nsteps\n<!-- FLOW AUTOGEN END -->\n")
	testutil.WriteFile(t, root, "swarm/config/agents/incident-responder.yaml",
		"key: incident-responder\ncategory: verification\ncolor: blue\n")
	testutil.WriteFile(t, root, "swarm/spec/flows/08-pause.graph.json",
		`{"id": "pause", "flow_number": 8}`)

	c := loadFixture(t, root)

	assert.Equal(t, []string{"incident-responder", "plan-writer"}, c.RegistryKeys())
	assert.Equal(t, []string{"incident-responder", "plan-writer"}, c.EntityKeys())

	entry, ok := c.Entry("incident-responder")
	require.True(t, ok)
	assert.Equal(t, []string{"signal", "gate"}, entry.Flows)
	assert.Greater(t, entry.Line, 0)

	ent, ok := c.Entity("incident-responder")
	require.True(t, ok)
	assert.True(t, ent.ParseOK)
	assert.Equal(t, "incident-responder", ent.Header.Str("name"))
	assert.Contains(t, ent.Body, "## Inputs")

	skill, ok := c.Skill("policy-runner")
	require.True(t, ok)
	assert.True(t, skill.ParseOK)
	assert.Equal(t, ".claude/skills/policy-runner/SKILL.md", skill.Path)

	require.Len(t, c.Flows, 1)
	flow := c.Flows[0]
	assert.True(t, flow.ParseOK)
	assert.Equal(t, "signal", flow.ID)
	require.Len(t, flow.Steps, 2)
	assert.Equal(t, "triage", flow.Steps[0].ID)
	assert.Equal(t, []string{"incident-responder"}, flow.Steps[0].Agents)
	assert.Greater(t, flow.Steps[0].Line, 0)
	assert.True(t, flow.Steps[1].HumanOnly())
	assert.Equal(t, "swarm/flows/flow-signal.md", flow.DocPath)

	doc, ok := c.FlowDocByID("signal")
	require.True(t, ok)
	assert.True(t, doc.HasAutogenStart)
	assert.True(t, doc.HasAutogenEnd)

	assert.True(t, c.HasAgentConfigDir)
	require.Len(t, c.AgentConfigs, 1)
	assert.Equal(t, "incident-responder", c.AgentConfigs[0].Key)
	assert.Equal(t, "verification", c.AgentConfigs[0].Fields["category"])

	require.Len(t, c.GraphFiles, 1)
	assert.Equal(t, "08-pause.graph.json", c.GraphFiles[0].Name)
}

func TestLoadMissingRegistryIsFatal(t *testing.T) {
	root := t.TempDir()
	_, err := Load(afero.NewOsFs(), app.ResolvePaths(root))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "swarm/AGENTS.md not found (required for validation)")
}

func TestLoadMalformedAgentKeepsFile(t *testing.T) {
	root := testutil.NewCorpusDir(t)
	testutil.WriteRegistry(t, root,
		"broken-agent|signal|critic|red|project/user|Broken")
	testutil.WriteFile(t, root, ".claude/agents/broken-agent.md",
		"name: broken-agent\nno frontmatter delimiters\n")

	c := loadFixture(t, root)
	ent, ok := c.Entity("broken-agent")
	require.True(t, ok)
	assert.False(t, ent.ParseOK)
	assert.Contains(t, ent.ParseErr, "must start with '---'")
	assert.Contains(t, ent.Body, "no frontmatter delimiters")
}

func TestLoadFlowConfigVariants(t *testing.T) {
	root := testutil.NewCorpusDir(t)
	testutil.WriteRegistry(t, root,
		"incident-responder|signal|verification|blue|project/user|Triages")
	testutil.WriteFlowConfig(t, root, "signal", `key: signal
steps:
  - id: triage
    agents: [incident-responder]
    surprise: true
`)
	testutil.WriteFlowConfig(t, root, "broken", "steps: [unclosed\n")

	c := loadFixture(t, root)
	require.Len(t, c.Flows, 2)

	var signal, broken *FlowGraph
	for i := range c.Flows {
		switch c.Flows[i].ID {
		case "signal":
			signal = &c.Flows[i]
		case "broken":
			broken = &c.Flows[i]
		}
	}
	require.NotNil(t, signal)
	require.NotNil(t, broken)

	assert.True(t, signal.ParseOK)
	require.Len(t, signal.UnknownFields, 1)
	assert.Contains(t, signal.UnknownFields[0], "surprise")
	require.Len(t, signal.Steps, 1)
	assert.Equal(t, []string{"incident-responder"}, signal.Steps[0].Agents)

	assert.False(t, broken.ParseOK)
	assert.NotEmpty(t, broken.ParseErr)
}

func TestLoadEmptyDirsAreNotErrors(t *testing.T) {
	root := t.TempDir()
	testutil.WriteRegistry(t, root,
		"lone-agent|signal|critic|red|project/user|Reviews")

	c := loadFixture(t, root)
	assert.Empty(t, c.Entities)
	assert.Empty(t, c.Skills)
	assert.Empty(t, c.Flows)
	assert.False(t, c.HasAgentConfigDir)
}

func TestLoadSkipsSymlinkedAgents(t *testing.T) {
	root := testutil.NewCorpusDir(t)
	testutil.WriteRegistry(t, root,
		"real-agent|signal|critic|red|project/user|Reviews")
	testutil.WriteAgent(t, root, "real-agent", testutil.AgentHeader("real-agent", "red"), "")

	outside := testutil.WriteFile(t, root, "elsewhere/linked-agent.md",
		"---\nname: linked-agent\n---\nbody\n")
	link := filepath.Join(root, ".claude", "agents", "linked-agent.md")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	c := loadFixture(t, root)
	assert.Equal(t, []string{"real-agent"}, c.EntityKeys())
}
