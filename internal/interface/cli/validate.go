package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/app"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/infra/persistence/file"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/interface/external/gitcli"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/pkg/runid"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/common"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/corpus"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/integrated"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/report"
)

// Sentinel errors for exit code mapping. Findings and fatal load
// failures are already rendered by the time these are returned, so
// main only translates them into process exit codes.
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrFatal            = errors.New("validation aborted")
)

type validateOptions struct {
	root          string
	strict        bool
	checkModified bool
	flowsOnly     bool
	checkPrompts  bool
	jsonOut       bool
	reportFormat  string
	outFile       string
	debug         bool
}

func newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the swarm configuration corpus",
		Long:  "Checks the agent registry, definition files, flow configs, skills, and supporting specs for consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.root, "root", "", "Corpus root (default: $SWARMLINT_ROOT, then upward search for swarm/AGENTS.md)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Treat design warnings as errors")
	cmd.Flags().BoolVar(&opts.checkModified, "check-modified", false, "Run only checkers watching files modified per git")
	cmd.Flags().BoolVar(&opts.flowsOnly, "flows-only", false, "Run only flow reference and structure checks")
	cmd.Flags().BoolVar(&opts.checkPrompts, "check-prompts", false, "Check agent prompts for required sections")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Write the full JSON report to stdout")
	cmd.Flags().StringVar(&opts.reportFormat, "report", "", "Report format: json (simplified) or markdown")
	cmd.Flags().StringVar(&opts.outFile, "out", "", "Also write the report to FILE atomically")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *validateOptions) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	if opts.reportFormat != "" && opts.reportFormat != "json" && opts.reportFormat != "markdown" {
		return fmt.Errorf("invalid --report format %q (expected json or markdown)", opts.reportFormat)
	}

	if opts.debug {
		GetLogger().SetLevel(LogLevelDebug)
	}

	// Flags win over setting.json defaults.
	strict := opts.strict
	if !cmd.Flags().Changed("strict") && globalConfig != nil {
		strict = globalConfig.Strict()
	}
	checkPrompts := opts.checkPrompts
	if !cmd.Flags().Changed("check-prompts") && globalConfig != nil {
		checkPrompts = globalConfig.CheckPrompts()
	}

	root, err := app.FindRoot(opts.root)
	if err != nil {
		return err
	}

	id := runid.New()
	Debug("run %s: validating corpus at %s", id, root)

	ropts := report.Options{
		Strict:       strict,
		FlowsOnly:    opts.flowsOnly,
		CheckPrompts: checkPrompts,
	}

	var modified map[string]struct{}
	if opts.checkModified {
		ropts.ModifiedOnly = true
		set, gerr := gitRunner().ModifiedFiles(cmd.Context(), root)
		if gerr != nil {
			Warn("git unavailable, falling back to full validation: %v", gerr)
			ropts.GitFallback = true
		} else {
			modified = set
			Debug("run %s: %d modified paths", id, len(set))
		}
	}

	c, err := corpus.Load(afero.NewOsFs(), app.ResolvePaths(root))
	if err != nil {
		return renderFatal(opts, ropts, stdout, stderr, err)
	}

	result, err := integrated.Run(cmd.Context(), c, integrated.Options{
		FlowsOnly:    opts.flowsOnly,
		CheckPrompts: checkPrompts,
		Modified:     modified,
	})
	if err != nil {
		return err
	}
	ropts.Checks = result.Checks

	rep := report.Build(c, result.Issues, ropts)

	if err := renderReport(opts, rep, stdout, stderr); err != nil {
		return err
	}
	if err := writeOut(opts, rep); err != nil {
		return err
	}

	if rep.Summary.Status != report.StatusPass {
		return ErrValidationFailed
	}
	return nil
}

// gitRunner builds the git adapter from settings; SWARMLINT_GIT_BIN
// overrides the configured binary.
func gitRunner() gitcli.Runner {
	bin := os.Getenv("SWARMLINT_GIT_BIN")
	if bin == "" && globalConfig != nil {
		bin = globalConfig.GitBin()
	}
	r := gitcli.NewRunner(bin)
	if globalConfig != nil && globalConfig.GitTimeoutSec() > 0 {
		r.Timeout = globalConfig.GitTimeout()
	}
	return r
}

// renderFatal reports an unusable corpus: structured formats still emit
// a report with FATAL status, the console prints a single ERROR line.
func renderFatal(opts *validateOptions, ropts report.Options, stdout, stderr io.Writer, cause error) error {
	issue := common.Issue{
		Rule:     common.RuleFatal,
		Severity: common.SeverityFatal,
		Location: app.RelRegistryFile,
		Message:  cause.Error(),
		Fix:      "Run from the swarm repository root, or pass --root",
	}
	rep := report.Fatal(ropts, issue)

	switch {
	case opts.reportFormat == "json":
		if err := report.RenderSimplifiedJSON(rep, stdout); err != nil {
			return err
		}
	case opts.reportFormat == "markdown":
		fmt.Fprint(stdout, report.RenderMarkdown(rep))
	case opts.jsonOut:
		if err := report.RenderJSON(rep, stdout); err != nil {
			return err
		}
	default:
		fmt.Fprintf(stderr, "ERROR: %v\n", cause)
	}
	if err := writeOut(opts, rep); err != nil {
		return err
	}
	return ErrFatal
}

func renderReport(opts *validateOptions, rep *report.Report, stdout, stderr io.Writer) error {
	switch {
	case opts.reportFormat == "json":
		return report.RenderSimplifiedJSON(rep, stdout)
	case opts.reportFormat == "markdown":
		_, err := fmt.Fprint(stdout, report.RenderMarkdown(rep))
		return err
	case opts.jsonOut:
		return report.RenderJSON(rep, stdout)
	default:
		report.RenderText(rep, stdout, stderr)
		return nil
	}
}

// writeOut persists the structured rendering selected by --report, or
// the full JSON when the console renderer is active.
func writeOut(opts *validateOptions, rep *report.Report) error {
	if opts.outFile == "" {
		return nil
	}

	var buf bytes.Buffer
	switch opts.reportFormat {
	case "json":
		if err := report.RenderSimplifiedJSON(rep, &buf); err != nil {
			return err
		}
	case "markdown":
		buf.WriteString(report.RenderMarkdown(rep))
	default:
		if err := report.RenderJSON(rep, &buf); err != nil {
			return err
		}
	}

	if err := file.WriteFileAtomic(afero.NewOsFs(), opts.outFile, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", opts.outFile, err)
	}
	Info("report written to %s", opts.outFile)
	return nil
}
