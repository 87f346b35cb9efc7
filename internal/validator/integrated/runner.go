// Package integrated orchestrates the checker pipeline. The corpus is
// loaded once up front; independent checkers fan out over a bounded
// worker pool, and the graph invariant checker runs after the pool
// joins so it can consume the reference resolution.
package integrated

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/app"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/bijection"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/common"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/configsync"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/corpus"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/flows"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/placeholder"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/prompts"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/reference"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/report"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/schema"
	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/validator/skills"
)

// Options select which checkers run and how wide the pool is.
type Options struct {
	// FlowsOnly restricts the run to the reference resolver and the
	// graph invariant checker.
	FlowsOnly bool

	// CheckPrompts enables the prompt section checker.
	CheckPrompts bool

	// Modified gates checkers on their watched path prefixes. nil runs
	// every checker; an empty set runs none.
	Modified map[string]struct{}

	// Workers bounds the checker pool. 0 means runtime.NumCPU().
	Workers int
}

// Result is the merged outcome of one pipeline run.
type Result struct {
	// Issues are stable-sorted by rule, location, line, and message.
	Issues []common.Issue

	// Checks names the checker categories that executed, in
	// registration order.
	Checks []string
}

type checker struct {
	name      string
	prefixes  []string
	flowsOnly bool
	run       func(*corpus.Corpus) []common.Issue
}

// registry orders the checkers and binds their watched path prefixes.
// The resolver and the graph invariant checker carry nil run functions:
// the pool special-cases the resolver to capture its resolution, and
// the graph checker runs after the pool joins.
var registry = []checker{
	{
		name:     report.CheckBijection,
		prefixes: []string{app.RelRegistryFile, app.RelAgentsDir + "/"},
		run:      bijection.Check,
	},
	{
		name:     report.CheckFrontmatter,
		prefixes: []string{app.RelAgentsDir + "/", app.RelRegistryFile},
		run:      schema.Check,
	},
	{
		name:      report.CheckReferences,
		prefixes:  []string{app.RelFlowSpecsDir + "/", app.RelFlowConfigDir + "/", app.RelRegistryFile},
		flowsOnly: true,
	},
	{
		name:     report.CheckPlaceholders,
		prefixes: []string{app.RelFlowSpecsDir + "/", app.RelAgentsDir + "/"},
		run:      placeholder.Check,
	},
	{
		name:     report.CheckSkills,
		prefixes: []string{app.RelSkillsDir + "/", app.RelAgentsDir + "/"},
		run:      skills.Check,
	},
	{
		name:      report.CheckFlows,
		prefixes:  []string{app.RelFlowConfigDir + "/", app.RelFlowSpecsDir + "/"},
		flowsOnly: true,
	},
	{
		name:     report.CheckPrompts,
		prefixes: []string{app.RelAgentsDir + "/"},
		run:      prompts.Check,
	},
	{
		name:     report.CheckConfig,
		prefixes: []string{app.RelAgentConfigDir + "/", app.RelRegistryFile},
		run:      configsync.Check,
	},
	{
		name:     report.CheckUtility,
		prefixes: []string{app.RelGraphSpecDir + "/"},
		run:      flows.CheckGraphSpecs,
	},
}

func (ck checker) watches(modified map[string]struct{}) bool {
	if modified == nil {
		return true
	}
	for path := range modified {
		for _, prefix := range ck.prefixes {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
	}
	return false
}

func plan(opts Options) []checker {
	var planned []checker
	for _, ck := range registry {
		if opts.FlowsOnly && !ck.flowsOnly {
			continue
		}
		if ck.name == report.CheckPrompts && !opts.CheckPrompts {
			continue
		}
		if !ck.watches(opts.Modified) {
			continue
		}
		planned = append(planned, ck)
	}
	return planned
}

// Run executes the planned checkers against the corpus and merges their
// findings. It returns an error only when the context is canceled; the
// checkers themselves report through issues, never errors.
func Run(ctx context.Context, c *corpus.Corpus, opts Options) (*Result, error) {
	planned := plan(opts)
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	log := app.GetLogger()
	start := time.Now()

	var (
		mu  sync.Mutex
		all []common.Issue
		res *reference.Resolution
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	runFlows := false
	for _, ck := range planned {
		if ck.name == report.CheckFlows {
			runFlows = true
			continue
		}
		ck := ck
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t0 := time.Now()
			var found []common.Issue
			if ck.name == report.CheckReferences {
				var resolution *reference.Resolution
				found, resolution = reference.Check(c)
				mu.Lock()
				res = resolution
				mu.Unlock()
			} else {
				found = ck.run(c)
			}
			mu.Lock()
			all = append(all, found...)
			mu.Unlock()
			log.Debug("checker %s: %d issues in %s", ck.name, len(found), time.Since(t0).Round(time.Microsecond))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if runFlows {
		t0 := time.Now()
		found := flows.Check(c, res)
		all = append(all, found...)
		log.Debug("checker %s: %d issues in %s", report.CheckFlows, len(found), time.Since(t0).Round(time.Microsecond))
	}

	common.Sort(all)

	names := make([]string, 0, len(planned))
	for _, ck := range planned {
		names = append(names, ck.name)
	}
	log.Debug("pipeline finished: %d checkers, %d issues in %s", len(planned), len(all), time.Since(start).Round(time.Microsecond))

	return &Result{Issues: all, Checks: names}, nil
}
