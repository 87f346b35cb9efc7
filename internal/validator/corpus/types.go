// Package corpus defines the loaded snapshot of a swarm configuration
// tree. The loader reads everything once; checkers are pure functions of
// the snapshot and never touch the filesystem.
package corpus

import (
	"sort"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/frontmatter"
)

// BuiltinAgents are platform-provided agents that need no registry entry
// and no definition file.
var BuiltinAgents = []string{"explore", "plan-subagent", "general-subagent"}

// IsBuiltin reports whether key names a built-in agent.
func IsBuiltin(key string) bool {
	for _, b := range BuiltinAgents {
		if key == b {
			return true
		}
	}
	return false
}

// RegistryEntry is one row of the swarm/AGENTS.md agent table.
type RegistryEntry struct {
	Key        string
	Flows      []string // flow ids the agent participates in
	RoleFamily string
	Color      string
	Source     string // access designation, e.g. "project/user"
	Role       string // short role description
	Line       int    // 1-based line in swarm/AGENTS.md
}

// EntityFile is one agent definition file under .claude/agents.
type EntityFile struct {
	Key      string // filename stem
	Path     string // corpus-relative, forward slashes
	Header   *frontmatter.Header
	Body     string // prompt text after the frontmatter
	BodyLine int    // 1-based line where the body starts
	ParseOK  bool
	ParseErr string
}

// SkillFile is one .claude/skills/<name>/SKILL.md declaration.
type SkillFile struct {
	Name     string // directory name
	Path     string
	Header   *frontmatter.Header
	ParseOK  bool
	ParseErr string
}

// Step is one node of a flow graph.
type Step struct {
	ID        string
	Agents    []string
	Role      string
	Kind      string // "human-only" marks steps that run without agents
	DependsOn []string
	Line      int // 1-based line in the flow config
}

// HumanOnly reports whether the step is marked to run without agents.
func (s Step) HumanOnly() bool {
	return s.Kind == "human-only" || s.Kind == "human_only"
}

// FlowGraph is one swarm/config/flows/<id>.yaml definition.
type FlowGraph struct {
	ID            string
	Title         string
	Description   string
	Steps         []Step
	CrossCutting  []string
	Path          string
	ParseOK       bool
	ParseErr      string
	UnknownFields []string // strict-decode complaints, reported as warnings
	DocPath       string   // swarm/flows/flow-<id>.md
}

// FlowDoc is one Markdown file under swarm/flows.
type FlowDoc struct {
	Name            string // file name
	ID              string // flow id when the name matches flow-<id>.md
	IsFlowSpec      bool
	Path            string
	Text            string
	HasAutogenStart bool
	HasAutogenEnd   bool
}

// AgentConfig is one swarm/config/agents/<key>.yaml metadata file.
type AgentConfig struct {
	Key      string
	Path     string
	Fields   map[string]string
	ParseErr string
}

// GraphFile is one swarm/spec/flows/*.graph.json file, kept undecoded so
// the utility checker owns the JSON error reporting.
type GraphFile struct {
	Name string
	Path string
	Data []byte
}

// Corpus is the loaded snapshot every checker consumes.
type Corpus struct {
	Root string

	Registry     []RegistryEntry
	Entities     []EntityFile
	Skills       []SkillFile
	Flows        []FlowGraph
	FlowDocs     []FlowDoc
	AgentConfigs []AgentConfig
	GraphFiles   []GraphFile

	// HasAgentConfigDir distinguishes an absent swarm/config/agents
	// directory (checker skipped) from an empty one.
	HasAgentConfigDir bool

	// HasSkillsDir distinguishes an absent .claude/skills directory
	// (skill checks skipped) from an empty one.
	HasSkillsDir bool

	// Notes are loader observations worth logging but not validating,
	// such as a legacy registry header.
	Notes []string

	registryByKey map[string]int
	entityByKey   map[string]int
	skillByName   map[string]int
	docByID       map[string]int
}

// index rebuilds the lookup maps after the loader fills the slices.
func (c *Corpus) index() {
	c.registryByKey = make(map[string]int, len(c.Registry))
	for i, e := range c.Registry {
		c.registryByKey[e.Key] = i
	}
	c.entityByKey = make(map[string]int, len(c.Entities))
	for i, e := range c.Entities {
		c.entityByKey[e.Key] = i
	}
	c.skillByName = make(map[string]int, len(c.Skills))
	for i, s := range c.Skills {
		c.skillByName[s.Name] = i
	}
	c.docByID = make(map[string]int, len(c.FlowDocs))
	for i, d := range c.FlowDocs {
		if d.IsFlowSpec {
			c.docByID[d.ID] = i
		}
	}
}

// Entry returns the registry entry for key.
func (c *Corpus) Entry(key string) (*RegistryEntry, bool) {
	i, ok := c.registryByKey[key]
	if !ok {
		return nil, false
	}
	return &c.Registry[i], true
}

// Entity returns the definition file for key.
func (c *Corpus) Entity(key string) (*EntityFile, bool) {
	i, ok := c.entityByKey[key]
	if !ok {
		return nil, false
	}
	return &c.Entities[i], true
}

// Skill returns the skill file for name.
func (c *Corpus) Skill(name string) (*SkillFile, bool) {
	i, ok := c.skillByName[name]
	if !ok {
		return nil, false
	}
	return &c.Skills[i], true
}

// FlowDocByID returns the documentation file for a flow id.
func (c *Corpus) FlowDocByID(id string) (*FlowDoc, bool) {
	i, ok := c.docByID[id]
	if !ok {
		return nil, false
	}
	return &c.FlowDocs[i], true
}

// RegistryKeys returns all registry keys sorted.
func (c *Corpus) RegistryKeys() []string {
	keys := make([]string, 0, len(c.Registry))
	for _, e := range c.Registry {
		keys = append(keys, e.Key)
	}
	sort.Strings(keys)
	return keys
}

// EntityKeys returns all definition-file keys sorted.
func (c *Corpus) EntityKeys() []string {
	keys := make([]string, 0, len(c.Entities))
	for _, e := range c.Entities {
		keys = append(keys, e.Key)
	}
	sort.Strings(keys)
	return keys
}

// KnownAgent reports whether name resolves to a registry key or built-in.
func (c *Corpus) KnownAgent(name string) bool {
	if _, ok := c.registryByKey[name]; ok {
		return true
	}
	return IsBuiltin(name)
}

// FlowIDs returns the ids of all flow configs sorted.
func (c *Corpus) FlowIDs() []string {
	ids := make([]string, 0, len(c.Flows))
	for _, f := range c.Flows {
		ids = append(ids, f.ID)
	}
	sort.Strings(ids)
	return ids
}
