package corpus

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/app"
)

type flowConfigDoc struct {
	Key          string        `yaml:"key"`
	Title        string        `yaml:"title"`
	Description  string        `yaml:"description"`
	Steps        []flowStepDoc `yaml:"steps"`
	CrossCutting []string      `yaml:"cross_cutting"`
}

type flowStepDoc struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Agents      []string `yaml:"agents"`
	Role        string   `yaml:"role"`
	Description string   `yaml:"description"`
	Kind        string   `yaml:"kind"`
	DependsOn   []string `yaml:"depends_on"`
}

var reUnknownField = regexp.MustCompile(`line (\d+): field (\S+) not found`)

// parseFlowConfig decodes one flow config. Unknown fields degrade to
// warnings instead of failing the parse; real YAML errors are recorded on
// the graph so the flow checker can report them.
func parseFlowConfig(data []byte, stem, relPath string) FlowGraph {
	fg := FlowGraph{ID: stem, Path: relPath}
	fg.DocPath = path.Join(app.RelFlowSpecsDir, "flow-"+stem+".md")

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc flowConfigDoc
	err := dec.Decode(&doc)
	if err != nil && !errors.Is(err, io.EOF) {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			unknown := unknownFieldMessages(typeErr)
			if len(unknown) == len(typeErr.Errors) {
				fg.UnknownFields = unknown
				doc = flowConfigDoc{}
				if lerr := yaml.Unmarshal(data, &doc); lerr != nil {
					fg.ParseErr = lerr.Error()
					return fg
				}
			} else {
				fg.ParseErr = err.Error()
				return fg
			}
		} else {
			fg.ParseErr = err.Error()
			return fg
		}
	}

	fg.ParseOK = true
	if doc.Key != "" {
		fg.ID = doc.Key
	}
	fg.Title = doc.Title
	fg.Description = doc.Description
	fg.CrossCutting = doc.CrossCutting
	for _, s := range doc.Steps {
		role := s.Role
		if role == "" {
			role = s.Description
		}
		fg.Steps = append(fg.Steps, Step{
			ID:        s.ID,
			Agents:    s.Agents,
			Role:      strings.TrimSpace(role),
			Kind:      s.Kind,
			DependsOn: s.DependsOn,
		})
	}
	fillStepLines(data, fg.Steps)
	fg.DocPath = path.Join(app.RelFlowSpecsDir, "flow-"+fg.ID+".md")
	return fg
}

func unknownFieldMessages(typeErr *yaml.TypeError) []string {
	var msgs []string
	for _, e := range typeErr.Errors {
		m := reUnknownField.FindStringSubmatch(e)
		if m == nil {
			return nil
		}
		msgs = append(msgs, fmt.Sprintf("unknown field '%s' (line %s)", m[2], m[1]))
	}
	return msgs
}

// fillStepLines walks the YAML document to record each step's source line.
func fillStepLines(data []byte, steps []Step) {
	var doc yaml.Node
	if yaml.Unmarshal(data, &doc) != nil || len(doc.Content) == 0 {
		return
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "steps" {
			continue
		}
		seq := root.Content[i+1]
		if seq.Kind != yaml.SequenceNode {
			return
		}
		for j, item := range seq.Content {
			if j < len(steps) {
				steps[j].Line = item.Line
			}
		}
		return
	}
}
