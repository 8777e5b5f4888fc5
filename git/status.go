package git

import (
	"context"
	"strings"
)

// BranchStatus is a point-in-time view of the working copy, recomputed on
// each query and never cached.
type BranchStatus struct {
	// Branch is the current branch name
	Branch string `json:"branch"`

	// IsFeature indicates the branch matches a configured feature pattern
	IsFeature bool `json:"is_feature"`

	// IsDirty indicates the working copy has uncommitted changes
	IsDirty bool `json:"is_dirty"`

	// Ahead indicates local commits not yet pushed to the upstream branch
	Ahead bool `json:"ahead"`

	// HasRemote indicates the branch tracks a remote branch
	HasRemote bool `json:"has_remote"`
}

// Status computes the BranchStatus from one `git status -sb` call. The
// patterns decide the IsFeature flag.
func (r *Repository) Status(ctx context.Context, patterns []string) (*BranchStatus, error) {
	res, err := r.run(ctx, "status", "-sb")
	if err != nil {
		return nil, err
	}

	status := &BranchStatus{}
	for _, line := range res.Lines {
		if strings.HasPrefix(line, "## ") {
			parseStatusHeader(line, status)
			continue
		}
		if strings.TrimSpace(line) != "" {
			status.IsDirty = true
		}
	}

	status.IsFeature = IsFeatureBranch(status.Branch, patterns)
	return status, nil
}

// parseStatusHeader parses the "## branch...origin/branch [ahead 1]" line
func parseStatusHeader(line string, status *BranchStatus) {
	header := strings.TrimPrefix(line, "## ")

	// "No commits yet on main" style headers
	if rest, ok := strings.CutPrefix(header, "No commits yet on "); ok {
		status.Branch = strings.TrimSpace(rest)
		return
	}

	name := header
	if before, _, ok := strings.Cut(header, "..."); ok {
		name = before
		status.HasRemote = true
	}
	// Drop any trailing tracking info, e.g. "main [ahead 1, behind 2]"
	name, _, _ = strings.Cut(name, " ")
	status.Branch = name

	status.Ahead = strings.Contains(header, "[ahead")
}

// ConflictFiles scans `git status --porcelain` for unmerged paths (UU, AA
// or DD index states) and returns them. An empty slice means the last
// merge left no conflicts behind.
func (r *Repository) ConflictFiles(ctx context.Context) ([]string, error) {
	res, err := r.run(ctx, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	return parseConflictFiles(res.Lines), nil
}

func parseConflictFiles(lines []string) []string {
	var files []string
	for _, line := range lines {
		if len(line) < 4 {
			continue
		}
		switch line[:2] {
		case "UU", "AA", "DD":
			files = append(files, strings.TrimSpace(line[3:]))
		}
	}
	return files
}
