package corpus

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/app"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/frontmatter"
)

// Load reads the whole corpus under paths into a snapshot. The only fatal
// condition is an unreadable registry; every other problem is recorded on
// the artifact it belongs to and surfaces through the checkers.
func Load(fsys afero.Fs, paths app.Paths) (*Corpus, error) {
	c := &Corpus{Root: paths.Root}

	data, err := afero.ReadFile(fsys, paths.RegistryFile)
	if err != nil {
		return nil, fmt.Errorf("%s not found (required for validation): %w", app.RelRegistryFile, err)
	}
	c.Registry, c.Notes = ParseRegistry(string(data))

	c.loadEntities(fsys, paths)
	c.loadSkills(fsys, paths)
	c.loadFlows(fsys, paths)
	c.loadFlowDocs(fsys, paths)
	c.loadAgentConfigs(fsys, paths)
	c.loadGraphFiles(fsys, paths)

	sort.Slice(c.Entities, func(i, j int) bool { return c.Entities[i].Key < c.Entities[j].Key })
	sort.Slice(c.Skills, func(i, j int) bool { return c.Skills[i].Name < c.Skills[j].Name })
	sort.Slice(c.Flows, func(i, j int) bool { return c.Flows[i].ID < c.Flows[j].ID })
	sort.Slice(c.FlowDocs, func(i, j int) bool { return c.FlowDocs[i].Name < c.FlowDocs[j].Name })
	sort.Slice(c.AgentConfigs, func(i, j int) bool { return c.AgentConfigs[i].Key < c.AgentConfigs[j].Key })
	sort.Slice(c.GraphFiles, func(i, j int) bool { return c.GraphFiles[i].Name < c.GraphFiles[j].Name })

	c.index()
	return c, nil
}

func (c *Corpus) loadEntities(fsys afero.Fs, paths app.Paths) {
	for _, name := range listFiles(c, fsys, paths.AgentsDir, app.RelAgentsDir, ".md") {
		full := filepath.Join(paths.AgentsDir, name)
		rel := path.Join(app.RelAgentsDir, name)
		raw, err := afero.ReadFile(fsys, full)
		if err != nil {
			c.Notes = append(c.Notes, fmt.Sprintf("skipping %s: %v", rel, err))
			continue
		}

		ent := EntityFile{
			Key:  strings.TrimSuffix(name, ".md"),
			Path: rel,
		}
		parsed, perr := frontmatter.Parse(string(raw))
		if perr != nil {
			ent.ParseErr = perr.Error()
			ent.Body = string(raw)
			ent.BodyLine = 1
		} else {
			ent.ParseOK = true
			ent.Header = parsed.Header
			ent.Body = parsed.Body
			ent.BodyLine = parsed.BodyLine
		}
		c.Entities = append(c.Entities, ent)
	}
}

func (c *Corpus) loadSkills(fsys afero.Fs, paths app.Paths) {
	infos, err := afero.ReadDir(fsys, paths.SkillsDir)
	if err != nil {
		c.noteDirError(app.RelSkillsDir, err)
		return
	}
	c.HasSkillsDir = true
	for _, fi := range infos {
		if !fi.IsDir() {
			continue
		}
		full := filepath.Join(paths.SkillsDir, fi.Name(), "SKILL.md")
		rel := path.Join(app.RelSkillsDir, fi.Name(), "SKILL.md")
		raw, rerr := afero.ReadFile(fsys, full)
		if rerr != nil {
			continue
		}

		sf := SkillFile{Name: fi.Name(), Path: rel}
		parsed, perr := frontmatter.Parse(string(raw))
		if perr != nil {
			sf.ParseErr = perr.Error()
		} else {
			sf.ParseOK = true
			sf.Header = parsed.Header
		}
		c.Skills = append(c.Skills, sf)
	}
}

func (c *Corpus) loadFlows(fsys afero.Fs, paths app.Paths) {
	for _, name := range listFiles(c, fsys, paths.FlowConfigDir, app.RelFlowConfigDir, ".yaml", ".yml") {
		full := filepath.Join(paths.FlowConfigDir, name)
		rel := path.Join(app.RelFlowConfigDir, name)
		raw, err := afero.ReadFile(fsys, full)
		if err != nil {
			c.Notes = append(c.Notes, fmt.Sprintf("skipping %s: %v", rel, err))
			continue
		}
		stem := strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")
		c.Flows = append(c.Flows, parseFlowConfig(raw, stem, rel))
	}
}

func (c *Corpus) loadFlowDocs(fsys afero.Fs, paths app.Paths) {
	for _, name := range listFiles(c, fsys, paths.FlowSpecsDir, app.RelFlowSpecsDir, ".md") {
		full := filepath.Join(paths.FlowSpecsDir, name)
		rel := path.Join(app.RelFlowSpecsDir, name)
		raw, err := afero.ReadFile(fsys, full)
		if err != nil {
			c.Notes = append(c.Notes, fmt.Sprintf("skipping %s: %v", rel, err))
			continue
		}

		doc := FlowDoc{
			Name: name,
			Path: rel,
			Text: string(raw),
		}
		if strings.HasPrefix(name, "flow-") {
			doc.IsFlowSpec = true
			doc.ID = strings.TrimSuffix(strings.TrimPrefix(name, "flow-"), ".md")
		}
		doc.HasAutogenStart = strings.Contains(doc.Text, "FLOW AUTOGEN START")
		doc.HasAutogenEnd = strings.Contains(doc.Text, "FLOW AUTOGEN END")
		c.FlowDocs = append(c.FlowDocs, doc)
	}
}

func (c *Corpus) loadAgentConfigs(fsys afero.Fs, paths app.Paths) {
	if fi, err := fsys.Stat(paths.AgentConfigDir); err != nil || !fi.IsDir() {
		return
	}
	c.HasAgentConfigDir = true

	for _, name := range listFiles(c, fsys, paths.AgentConfigDir, app.RelAgentConfigDir, ".yaml", ".yml") {
		full := filepath.Join(paths.AgentConfigDir, name)
		rel := path.Join(app.RelAgentConfigDir, name)
		raw, err := afero.ReadFile(fsys, full)
		if err != nil {
			c.Notes = append(c.Notes, fmt.Sprintf("skipping %s: %v", rel, err))
			continue
		}

		stem := strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")
		cfg := AgentConfig{Key: stem, Path: rel, Fields: map[string]string{}}
		var m map[string]any
		if yerr := yaml.Unmarshal(raw, &m); yerr != nil {
			cfg.ParseErr = yerr.Error()
		} else {
			for k, v := range m {
				switch v.(type) {
				case string, bool, int, int64, float64:
					cfg.Fields[k] = strings.TrimSpace(fmt.Sprintf("%v", v))
				case nil:
					cfg.Fields[k] = ""
				}
			}
			if k := cfg.Fields["key"]; k != "" {
				cfg.Key = k
			}
		}
		c.AgentConfigs = append(c.AgentConfigs, cfg)
	}
}

func (c *Corpus) loadGraphFiles(fsys afero.Fs, paths app.Paths) {
	infos, err := afero.ReadDir(fsys, paths.GraphSpecDir)
	if err != nil {
		c.noteDirError(app.RelGraphSpecDir, err)
		return
	}
	for _, fi := range infos {
		if fi.IsDir() || !strings.HasSuffix(fi.Name(), ".graph.json") {
			continue
		}
		full := filepath.Join(paths.GraphSpecDir, fi.Name())
		if isSymlink(fsys, full) {
			continue
		}
		raw, rerr := afero.ReadFile(fsys, full)
		if rerr != nil {
			continue
		}
		c.GraphFiles = append(c.GraphFiles, GraphFile{
			Name: fi.Name(),
			Path: path.Join(app.RelGraphSpecDir, fi.Name()),
			Data: raw,
		})
	}
}

// listFiles returns regular files in dir with one of the given suffixes,
// symlinks excluded. A missing directory is an empty corpus surface, not
// an error.
func listFiles(c *Corpus, fsys afero.Fs, dir, relDir string, suffixes ...string) []string {
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		c.noteDirError(relDir, err)
		return nil
	}
	var names []string
	for _, fi := range infos {
		if fi.IsDir() {
			continue
		}
		matched := false
		for _, s := range suffixes {
			if strings.HasSuffix(fi.Name(), s) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if isSymlink(fsys, filepath.Join(dir, fi.Name())) {
			continue
		}
		names = append(names, fi.Name())
	}
	return names
}

func (c *Corpus) noteDirError(relDir string, err error) {
	if os.IsNotExist(err) {
		return
	}
	c.Notes = append(c.Notes, fmt.Sprintf("cannot read %s: %v", relDir, err))
}

func isSymlink(fsys afero.Fs, p string) bool {
	lst, ok := fsys.(afero.Lstater)
	if !ok {
		return false
	}
	fi, lstatCalled, err := lst.LstatIfPossible(p)
	if err != nil || !lstatCalled {
		return false
	}
	return fi.Mode()&os.ModeSymlink != 0
}
