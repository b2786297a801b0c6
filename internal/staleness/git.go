package staleness

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// ChangeType classifies one path's status in a Delta.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeModified ChangeType = "modified"
	ChangeDeleted  ChangeType = "deleted"
	ChangeRenamed  ChangeType = "renamed"
)

// Delta is the set of file changes between a stored commit and the
// current working tree, combining `git diff --name-status` (committed
// changes) with `git status --porcelain` (uncommitted changes), per
// spec.md §4.5 step 1.
type Delta struct {
	HeadHash string
	Added    []string
	Modified []string
	Deleted  []string
	Renamed  map[string]string // old path -> new path
}

// ChangeType reports how path changed, or "" if it didn't.
func (d *Delta) ChangeType(path string) ChangeType {
	for _, p := range d.Added {
		if p == path {
			return ChangeAdded
		}
	}
	for _, p := range d.Modified {
		if p == path {
			return ChangeModified
		}
	}
	for _, p := range d.Deleted {
		if p == path {
			return ChangeDeleted
		}
	}
	for old, new_ := range d.Renamed {
		if new_ == path || old == path {
			return ChangeRenamed
		}
	}
	return ""
}

// Affected returns the union of every path touched by the delta (old and
// new paths for renames included), sorted and deduplicated.
func (d *Delta) Affected() []string {
	set := map[string]bool{}
	for _, p := range d.Added {
		set[p] = true
	}
	for _, p := range d.Modified {
		set[p] = true
	}
	for _, p := range d.Deleted {
		set[p] = true
	}
	for old, new_ := range d.Renamed {
		set[old] = true
		set[new_] = true
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// CurrentHash returns `git rev-parse --short HEAD`, or NoGitSentinel if
// repoPath isn't a git repository or the binary is missing. Git failures
// here are never fatal, per spec.md §7's Git error kind.
func CurrentHash(repoPath string) string {
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	cmd.Dir = repoPath
	out, err := cmd.Output()
	if err != nil {
		return NoGitSentinel
	}
	return strings.TrimSpace(string(out))
}

// DetectDelta computes the changes between storedHash and the current
// working tree (HEAD plus any uncommitted changes), implementing spec.md
// §4.5 step 1. A non-git root or a missing stored hash yields an empty Delta
// (HeadHash is the current hash, NoGitSentinel outside a repository) and no
// error; a failing `git diff` or `git status` returns an error.
func DetectDelta(repoPath, storedHash string) (*Delta, error) {
	head := CurrentHash(repoPath)
	if head == NoGitSentinel || storedHash == NoGitSentinel || storedHash == "" {
		return &Delta{HeadHash: head, Renamed: map[string]string{}}, nil
	}

	delta := &Delta{HeadHash: head, Renamed: map[string]string{}}

	diffOut, err := runGit(repoPath, "diff", "--name-status", "-M", storedHash, "HEAD")
	if err != nil {
		return nil, fmt.Errorf("git diff: %w", err)
	}
	applyNameStatus(delta, diffOut)

	statusOut, err := runGit(repoPath, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("git status: %w", err)
	}
	applyPorcelain(delta, statusOut)

	sort.Strings(delta.Added)
	sort.Strings(delta.Modified)
	sort.Strings(delta.Deleted)
	return delta, nil
}

func runGit(repoPath string, args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = repoPath
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("%s", string(exitErr.Stderr))
		}
		return nil, err
	}
	return out, nil
}

func applyNameStatus(delta *Delta, output []byte) {
	sc := bufio.NewScanner(bytes.NewReader(output))
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			continue
		}
		status, paths := parts[0], parts[1:]
		switch status[0] {
		case 'A':
			delta.Added = append(delta.Added, paths[0])
		case 'M':
			delta.Modified = append(delta.Modified, paths[0])
		case 'D':
			delta.Deleted = append(delta.Deleted, paths[0])
		case 'R':
			if len(paths) >= 2 {
				delta.Renamed[paths[0]] = paths[1]
			}
		case 'C':
			if len(paths) >= 2 {
				delta.Added = append(delta.Added, paths[1])
			}
		}
	}
}

// applyPorcelain folds `git status --porcelain` entries (uncommitted
// working-tree changes) into the same buckets, skipping paths already
// categorized by the committed diff.
func applyPorcelain(delta *Delta, output []byte) {
	known := map[string]bool{}
	for _, p := range delta.Added {
		known[p] = true
	}
	for _, p := range delta.Modified {
		known[p] = true
	}
	for _, p := range delta.Deleted {
		known[p] = true
	}

	sc := bufio.NewScanner(bytes.NewReader(output))
	for sc.Scan() {
		line := sc.Text()
		if len(line) < 4 {
			continue
		}
		statusCode := strings.TrimSpace(line[:2])
		path := strings.TrimSpace(line[3:])
		if known[path] {
			continue
		}
		switch {
		case strings.Contains(statusCode, "D"):
			delta.Deleted = append(delta.Deleted, path)
		case strings.Contains(statusCode, "A") || statusCode == "??":
			delta.Added = append(delta.Added, path)
		default:
			delta.Modified = append(delta.Modified, path)
		}
		known[path] = true
	}
}
