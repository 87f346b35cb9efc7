package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/testutil"
)

// execute runs the CLI with captured writers. SWARMLINT_HOME is pointed
// at an empty directory unless the test pre-set it.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	if os.Getenv("SWARMLINT_HOME") == "" {
		t.Setenv("SWARMLINT_HOME", t.TempDir())
	}

	var stdout, stderr bytes.Buffer
	root := NewRoot()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func cleanCorpus(t *testing.T) string {
	t.Helper()

	root := testutil.NewCorpusDir(t)
	testutil.WriteRegistry(t, root, "gate-keeper|gate|critic|red|project/user|Reviews gates")
	testutil.WriteAgent(t, root, "gate-keeper", testutil.AgentHeader("gate-keeper", "red"), "Review gates.\n")
	testutil.WriteFlowConfig(t, root, "gate", "key: gate\nsteps:\n  - id: collect\n    agents: [gate-keeper]\n")
	testutil.WriteFlowDoc(t, root, "gate", "# Gate\n\n<!-- FLOW AUTOGEN START -->\n<!-- FLOW AUTOGEN END -->\n")
	return root
}

func brokenCorpus(t *testing.T) string {
	t.Helper()

	root := cleanCorpus(t)
	testutil.WriteAgent(t, root, "stray", testutil.AgentHeader("stray", "red"), "Unregistered.\n")
	return root
}

func warnOnlyCorpus(t *testing.T) string {
	t.Helper()

	root := testutil.NewCorpusDir(t)
	testutil.WriteRegistry(t, root, "gate-keeper|gate|critic|red|project/user|Reviews gates")
	testutil.WriteAgent(t, root, "gate-keeper", testutil.AgentHeader("gate-keeper", "red"), "Review gates.\n")
	testutil.WriteFlowConfig(t, root, "gate", "key: gate\nowner: ops\nsteps:\n  - id: collect\n    agents: [gate-keeper]\n")
	testutil.WriteFlowDoc(t, root, "gate", "# Gate\n\n<!-- FLOW AUTOGEN START -->\n<!-- FLOW AUTOGEN END -->\n")
	return root
}

func decodeJSON(t *testing.T, out string) map[string]interface{} {
	t.Helper()

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &m), "output is not JSON: %s", out)
	return m
}

func TestValidateCleanCorpus(t *testing.T) {
	stdout, stderr, err := execute(t, "validate", "--root", cleanCorpus(t))

	assert.NoError(t, err)
	assert.Contains(t, stdout, "Swarm validation PASSED.")
	assert.Contains(t, stdout, "[PASS] All agents conform to Claude Code platform spec")
	assert.Empty(t, stderr)
}

func TestValidateBrokenCorpus(t *testing.T) {
	stdout, stderr, err := execute(t, "validate", "--root", brokenCorpus(t))

	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "BIJECTION Errors (1):")
	assert.Contains(t, stderr, "Swarm validation FAILED (1 errors).")
}

func TestValidateWarningsDoNotFail(t *testing.T) {
	stdout, stderr, err := execute(t, "validate", "--root", warnOnlyCorpus(t))

	assert.NoError(t, err)
	assert.Contains(t, stdout, "Swarm validation PASSED.")
	assert.Contains(t, stderr, "WARNINGS (design guidelines, not errors):")
	assert.Contains(t, stderr, "Use --strict flag to treat warnings as errors.")
}

func TestValidateStrictEscalatesWarnings(t *testing.T) {
	_, stderr, err := execute(t, "validate", "--root", warnOnlyCorpus(t), "--strict")

	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, stderr, "FLOW Errors (1):")
}

func TestValidateJSONReport(t *testing.T) {
	stdout, _, err := execute(t, "validate", "--root", brokenCorpus(t), "--json")

	assert.ErrorIs(t, err, ErrValidationFailed)
	m := decodeJSON(t, stdout)
	assert.Equal(t, "1.0.0", m["version"])

	summary := m["summary"].(map[string]interface{})
	assert.Equal(t, "FAIL", summary["status"])

	entities := m["entities"].(map[string]interface{})
	assert.Contains(t, entities, "gate-keeper")
}

func TestValidateSimplifiedReport(t *testing.T) {
	stdout, _, err := execute(t, "validate", "--root", brokenCorpus(t), "--report", "json")

	assert.ErrorIs(t, err, ErrValidationFailed)
	m := decodeJSON(t, stdout)
	assert.Equal(t, "FAILED", m["status"])
	assert.Contains(t, m, "total_checks")
	assert.NotContains(t, m, "summary", "--report json must emit the simplified shape")
}

func TestValidateReportTakesPrecedenceOverJSON(t *testing.T) {
	stdout, _, err := execute(t, "validate", "--root", brokenCorpus(t), "--json", "--report", "json")

	assert.ErrorIs(t, err, ErrValidationFailed)
	m := decodeJSON(t, stdout)
	assert.Equal(t, "FAILED", m["status"])
	assert.NotContains(t, m, "summary")
}

func TestValidateMarkdownReport(t *testing.T) {
	stdout, _, err := execute(t, "validate", "--root", brokenCorpus(t), "--report", "markdown")

	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.True(t, strings.HasPrefix(stdout, "# Swarm Validation Report"), "got: %s", stdout)
	assert.Contains(t, stdout, "## Errors (1)")
}

func TestValidateInvalidReportFormat(t *testing.T) {
	_, _, err := execute(t, "validate", "--root", cleanCorpus(t), "--report", "xml")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidationFailed)
	assert.NotErrorIs(t, err, ErrFatal)
	assert.Contains(t, err.Error(), "invalid --report format")
}

func TestValidateFatalMissingRegistry(t *testing.T) {
	stdout, stderr, err := execute(t, "validate", "--root", t.TempDir())

	assert.ErrorIs(t, err, ErrFatal)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "ERROR: swarm/AGENTS.md not found")
}

func TestValidateFatalJSONReport(t *testing.T) {
	stdout, _, err := execute(t, "validate", "--root", t.TempDir(), "--json")

	assert.ErrorIs(t, err, ErrFatal)
	m := decodeJSON(t, stdout)
	summary := m["summary"].(map[string]interface{})
	assert.Equal(t, "FATAL", summary["status"])

	errs := m["errors"].([]interface{})
	require.Len(t, errs, 1)
	assert.Equal(t, "FATAL", errs[0].(map[string]interface{})["rule"])
}

func TestValidateOutFileDefaultsToFullJSON(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "report.json")

	stdout, _, err := execute(t, "validate", "--root", cleanCorpus(t), "--out", outFile)

	assert.NoError(t, err)
	assert.Contains(t, stdout, "Swarm validation PASSED.")

	data, rerr := os.ReadFile(outFile)
	require.NoError(t, rerr)
	m := decodeJSON(t, string(data))
	assert.Equal(t, "1.0.0", m["version"])
}

func TestValidateOutFileMarkdown(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "report.md")

	_, _, err := execute(t, "validate", "--root", cleanCorpus(t), "--report", "markdown", "--out", outFile)

	assert.NoError(t, err)
	data, rerr := os.ReadFile(outFile)
	require.NoError(t, rerr)
	assert.True(t, strings.HasPrefix(string(data), "# Swarm Validation Report"))
}

func TestValidateFlowsOnlySkipsAgentChecks(t *testing.T) {
	stdout, _, err := execute(t, "validate", "--root", brokenCorpus(t), "--flows-only")

	assert.NoError(t, err, "the stray agent only trips bijection, which flows-only skips")
	assert.Contains(t, stdout, "Swarm validation PASSED.")
}

func TestValidateCheckPrompts(t *testing.T) {
	stdout, _, err := execute(t, "validate", "--root", cleanCorpus(t), "--check-prompts", "--json")

	assert.NoError(t, err, "prompt findings are warnings")
	m := decodeJSON(t, stdout)
	assert.Contains(t, m["checks"], "prompt_sections")

	summary := m["summary"].(map[string]interface{})
	assert.Equal(t, "PASS", summary["status"])
	assert.Greater(t, summary["warnings"], float64(0))
}

func TestValidateCheckModifiedFallsBackWithoutGit(t *testing.T) {
	// The corpus temp dir is outside any git repository, so the git
	// calls fail and the run falls back to a full scan.
	stdout, _, err := execute(t, "validate", "--root", cleanCorpus(t), "--check-modified", "--json")

	assert.NoError(t, err)
	m := decodeJSON(t, stdout)
	mode := m["mode"].(map[string]interface{})
	assert.Equal(t, true, mode["modified_only"])
	assert.Equal(t, true, mode["git_fallback"])

	summary := m["summary"].(map[string]interface{})
	assert.Equal(t, "PASS", summary["status"])
}

func TestValidateSettingsStrictDefault(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "setting.json"), []byte(`{"strict": true}`), 0o644))
	t.Setenv("SWARMLINT_HOME", home)

	root := warnOnlyCorpus(t)

	_, stderr, err := execute(t, "validate", "--root", root)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, stderr, "FLOW Errors")

	// An explicit flag wins over the settings default.
	_, _, err = execute(t, "validate", "--root", root, "--strict=false")
	assert.NoError(t, err)
}
