package placeholder

import (
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/app"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/testutil"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/common"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/corpus"
)

func loadFixture(t *testing.T, root string) *corpus.Corpus {
	t.Helper()

	c, err := corpus.Load(afero.NewOsFs(), app.ResolvePaths(root))
	if err != nil {
		t.Fatalf("load corpus: %v", err)
	}
	return c
}

func TestCheckEntityHardcodedPath(t *testing.T) {
	root := testutil.NewCorpusDir(t)
	testutil.WriteRegistry(t, root, "gate-keeper|gate|critic|red|project/user|Reviews gates")
	testutil.WriteAgent(t, root, "gate-keeper", testutil.AgentHeader("gate-keeper", "red"),
		"Collect findings.\nWrite the gate report to swarm/runs/my-incident-123/gate/report.md when done.\n")

	issues := Check(loadFixture(t, root))

	if len(issues) != 1 {
		t.Fatalf("expected one issue, got %+v", issues)
	}
	issue := issues[0]
	if issue.Rule != common.RuleRunBase {
		t.Errorf("expected RUNBASE rule, got %s", issue.Rule)
	}
	if issue.Severity != common.SeverityError {
		t.Errorf("expected error severity, got %s", issue.Severity)
	}
	want := "contains hardcoded path 'swarm/runs/my-incident-123/'; should use RUN_BASE placeholder"
	if issue.Message != want {
		t.Errorf("message mismatch:\n got %q\nwant %q", issue.Message, want)
	}
	if issue.Fix != "Replace hardcoded path with 'RUN_BASE/<flow>/' in artifact instructions" {
		t.Errorf("unexpected fix %q", issue.Fix)
	}
	// Header occupies lines 1-6, body starts on 7, violation on its
	// second line.
	if issue.Location != ".claude/agents/gate-keeper.md:line 8" {
		t.Errorf("unexpected location %q", issue.Location)
	}
	if issue.Scope != "gate-keeper" {
		t.Errorf("expected agent scope, got %q", issue.Scope)
	}
}

func TestCheckFlowDocMalformedVariants(t *testing.T) {
	root := testutil.NewCorpusDir(t)
	testutil.WriteRegistry(t, root, "gate-keeper|gate|critic|red|project/user|Reviews gates")
	testutil.WriteFlowDoc(t, root, "signal", strings.Join([]string{
		"Write artifacts under $RUN_BASE please.",
		"Or maybe {RUN_BASE} works?",
		"Or RUN_BASEsignal without a slash.",
		"Or the lowercase run_base/ form.",
	}, "\n"))

	issues := Check(loadFixture(t, root))

	if len(issues) != 4 {
		t.Fatalf("expected four issues, got %+v", issues)
	}
	wantTexts := []string{"'$RUN_BASE'", "'{RUN_BASE}'", "'RUN_BASEs'", "'run_base/'"}
	for i, wantText := range wantTexts {
		if !strings.Contains(issues[i].Message, "malformed RUN_BASE placeholder "+wantText) {
			t.Errorf("issue %d: expected offending text %s in %q", i, wantText, issues[i].Message)
		}
		if issues[i].Line != i+1 {
			t.Errorf("issue %d: expected line %d, got %d", i, i+1, issues[i].Line)
		}
		if issues[i].Scope != "signal" {
			t.Errorf("issue %d: expected flow scope, got %q", i, issues[i].Scope)
		}
	}
}

func TestCheckSkipsCodeBlocksAndComments(t *testing.T) {
	root := testutil.NewCorpusDir(t)
	testutil.WriteRegistry(t, root, "gate-keeper|gate|critic|red|project/user|Reviews gates")
	testutil.WriteFlowDoc(t, root, "signal", strings.Join([]string{
		"# Heading mentioning swarm/runs/example-1/",
		"<!-- commented swarm/runs/example-2/ -->",
		"```",
		"cat swarm/runs/example-3/report.md",
		"echo $RUN_BASE",
		"```",
		"Artifacts go to RUN_BASE/signal/ as usual.",
	}, "\n"))

	issues := Check(loadFixture(t, root))

	if len(issues) != 0 {
		t.Errorf("expected no issues, got %+v", issues)
	}
}

func TestCheckValidPlaceholderForms(t *testing.T) {
	root := testutil.NewCorpusDir(t)
	testutil.WriteRegistry(t, root, "gate-keeper|gate|critic|red|project/user|Reviews gates")
	testutil.WriteAgent(t, root, "gate-keeper", testutil.AgentHeader("gate-keeper", "red"),
		"Read RUN_BASE/signal/findings.md and write RUN_BASE/gate/report.md.\n")

	issues := Check(loadFixture(t, root))

	if len(issues) != 0 {
		t.Errorf("expected no issues, got %+v", issues)
	}
}

func TestCheckHardcodedAndMalformedOnOneLine(t *testing.T) {
	root := testutil.NewCorpusDir(t)
	testutil.WriteRegistry(t, root, "gate-keeper|gate|critic|red|project/user|Reviews gates")
	testutil.WriteFlowDoc(t, root, "signal",
		"Copy swarm/runs/old-9/a.md to $RUN_BASE and also $RUN_BASE again.\n")

	issues := Check(loadFixture(t, root))

	// One hardcoded-path issue per line, one malformed issue per match.
	if len(issues) != 3 {
		t.Fatalf("expected three issues, got %+v", issues)
	}
	if !strings.Contains(issues[0].Message, "contains hardcoded path 'swarm/runs/old-9/'") {
		t.Errorf("unexpected first message %q", issues[0].Message)
	}
}
