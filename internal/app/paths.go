package app

import (
	"os"
	"path/filepath"
)

// EnvRoot overrides corpus root discovery when set.
const EnvRoot = "SWARMLINT_ROOT"

// Corpus-relative locations of every surface the validator reads.
const (
	RelRegistryFile   = "swarm/AGENTS.md"
	RelAgentsDir      = ".claude/agents"
	RelSkillsDir      = ".claude/skills"
	RelFlowSpecsDir   = "swarm/flows"
	RelFlowConfigDir  = "swarm/config/flows"
	RelAgentConfigDir = "swarm/config/agents"
	RelGraphSpecDir   = "swarm/spec/flows"
)

// Paths holds the absolute location of every corpus surface.
type Paths struct {
	Root           string // corpus root (directory containing swarm/AGENTS.md)
	RegistryFile   string // Root/swarm/AGENTS.md
	AgentsDir      string // Root/.claude/agents
	SkillsDir      string // Root/.claude/skills
	FlowSpecsDir   string // Root/swarm/flows
	FlowConfigDir  string // Root/swarm/config/flows
	AgentConfigDir string // Root/swarm/config/agents
	GraphSpecDir   string // Root/swarm/spec/flows
}

// ResolvePaths builds the corpus path set under root.
func ResolvePaths(root string) Paths {
	join := func(rel string) string {
		return filepath.Join(root, filepath.FromSlash(rel))
	}
	return Paths{
		Root:           root,
		RegistryFile:   join(RelRegistryFile),
		AgentsDir:      join(RelAgentsDir),
		SkillsDir:      join(RelSkillsDir),
		FlowSpecsDir:   join(RelFlowSpecsDir),
		FlowConfigDir:  join(RelFlowConfigDir),
		AgentConfigDir: join(RelAgentConfigDir),
		GraphSpecDir:   join(RelGraphSpecDir),
	}
}

// FindRoot resolves the corpus root: an explicit flag value wins, then
// SWARMLINT_ROOT, then an upward walk from the working directory looking
// for swarm/AGENTS.md, then the working directory itself.
func FindRoot(flagRoot string) (string, error) {
	if flagRoot != "" {
		return filepath.Abs(flagRoot)
	}
	if env := os.Getenv(EnvRoot); env != "" {
		return filepath.Abs(env)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(RelRegistryFile))); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return cwd, nil
}
