// Package gitcli shells out to git to discover which corpus files the
// current branch touches. The validate command uses it for the
// modified-only mode; any failure here makes the caller fall back to a
// full scan.
package gitcli

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds each git invocation.
const DefaultTimeout = 5 * time.Second

type Runner struct {
	Bin     string
	Timeout time.Duration
}

// NewRunner returns a Runner for bin, defaulting to "git" on PATH.
func NewRunner(bin string) Runner {
	if bin == "" {
		bin = "git"
	}
	return Runner{Bin: bin, Timeout: DefaultTimeout}
}

// ModifiedFiles returns corpus-relative paths changed since the base
// branch, merged with the working tree status. Git reports paths
// relative to the repository root, so when the corpus root sits below
// it the paths are rebased; paths outside the corpus root are dropped.
func (r Runner) ModifiedFiles(ctx context.Context, root string) (map[string]struct{}, error) {
	prefix, err := r.run(ctx, root, "rev-parse", "--show-prefix")
	if err != nil {
		return nil, err
	}
	prefix = strings.TrimSpace(prefix)

	var paths []string
	if base := r.baseBranch(ctx, root); base != "" {
		out, err := r.run(ctx, root, "diff", "--name-only", base+"...HEAD")
		if err != nil {
			return nil, err
		}
		paths = append(paths, parseNameOnly(out)...)
	}

	out, err := r.run(ctx, root, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	paths = append(paths, parsePorcelain(out)...)

	modified := make(map[string]struct{})
	for _, p := range paths {
		if rel, ok := rebase(p, prefix); ok {
			modified[rel] = struct{}{}
		}
	}
	return modified, nil
}

// baseBranch resolves the branch to diff against: the remote HEAD when
// one is configured, otherwise the first of origin/main, origin/master,
// main, master that exists. Empty when nothing resolves, in which case
// only the working tree status contributes.
func (r Runner) baseBranch(ctx context.Context, root string) string {
	if out, err := r.run(ctx, root, "symbolic-ref", "refs/remotes/origin/HEAD"); err == nil {
		ref := strings.TrimSpace(out)
		if name := strings.TrimPrefix(ref, "refs/remotes/"); name != ref && name != "" {
			return name
		}
	}
	for _, cand := range []string{"origin/main", "origin/master", "main", "master"} {
		if _, err := r.run(ctx, root, "rev-parse", "--verify", "--quiet", cand); err == nil {
			return cand
		}
	}
	return ""
}

func (r Runner) run(ctx context.Context, dir string, args ...string) (string, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, r.Bin, args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}

// parseNameOnly splits `git diff --name-only` output into paths.
func parseNameOnly(out string) []string {
	var paths []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths
}

// parsePorcelain extracts paths from `git status --porcelain` lines.
// The two status characters and the separator are fixed-width; renames
// report the destination path.
func parsePorcelain(out string) []string {
	var paths []string
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		path := line[3:]
		if idx := strings.Index(path, " -> "); idx >= 0 {
			path = path[idx+4:]
		}
		path = strings.Trim(path, `"`)
		if path != "" {
			paths = append(paths, path)
		}
	}
	return paths
}

// rebase converts a repo-relative path into a corpus-relative one.
// Reports false when the path lies outside the corpus root.
func rebase(path, prefix string) (string, bool) {
	if prefix == "" {
		return path, true
	}
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	return path[len(prefix):], true
}
