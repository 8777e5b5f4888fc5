package flow_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branchflow/branchflow/config"
	"github.com/branchflow/branchflow/flow"
	"github.com/branchflow/branchflow/git"
	"github.com/branchflow/branchflow/testutil"
)

// setupWorkRepo creates a working clone wired to a local bare origin, with
// main and develop pushed. Returns the working copy path.
func setupWorkRepo(t *testing.T) string {
	t.Helper()

	origin := t.TempDir()
	testutil.RunGitCommand(t, origin, "init", "--bare")

	work := t.TempDir()
	testutil.RunGitCommand(t, work, "init")
	testutil.RunGitCommand(t, work, "config", "user.name", "Test User")
	testutil.RunGitCommand(t, work, "config", "user.email", "test@example.com")
	testutil.RunGitCommand(t, work, "remote", "add", "origin", origin)

	testutil.CreateCommit(t, work, "README.md", "# demo\n")
	testutil.RunGitCommand(t, work, "branch", "-m", "main")
	testutil.RunGitCommand(t, work, "push", "-u", "origin", "main")

	testutil.RunGitCommand(t, work, "branch", "develop", "main")
	testutil.RunGitCommand(t, work, "push", "origin", "develop")

	return work
}

func TestAutoMergeAgainstRealRepo(t *testing.T) {
	testutil.RequireGit(t)
	work := setupWorkRepo(t)

	testutil.CreateBranch(t, work, "feature/demo")
	testutil.CreateCommit(t, work, "feature.txt", "feature work\n")

	repo := git.Open(work)
	engine := flow.New(repo, config.NewMemStore(config.Default()))

	outcome := <-engine.AutoMerge(context.Background(), "develop")
	require.True(t, outcome.Success, "outcome: %+v", outcome)
	require.Len(t, outcome.Merged, 2)

	// The workflow ends back on the feature branch
	current, err := repo.CurrentBranch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "feature/demo", current)

	// The feature commit reached develop
	testutil.RunGitCommand(t, work, "checkout", "develop")
	_, err = os.Stat(filepath.Join(work, "feature.txt"))
	assert.NoError(t, err)
}

func TestAutoMergeConflictAgainstRealRepo(t *testing.T) {
	testutil.RequireGit(t)
	work := setupWorkRepo(t)

	testutil.CreateCommit(t, work, "conflict.txt", "base\n")
	testutil.RunGitCommand(t, work, "push", "origin", "main")

	// develop rewrites the file one way
	testutil.RunGitCommand(t, work, "checkout", "develop")
	testutil.RunGitCommand(t, work, "merge", "main")
	testutil.CreateCommit(t, work, "conflict.txt", "develop version\n")
	testutil.RunGitCommand(t, work, "push", "origin", "develop")

	// the feature branch rewrites it another way
	testutil.RunGitCommand(t, work, "checkout", "main")
	testutil.CreateBranch(t, work, "feature/demo")
	testutil.CreateCommit(t, work, "conflict.txt", "feature version\n")

	repo := git.Open(work)
	engine := flow.New(repo, config.NewMemStore(config.Default()))

	outcome := <-engine.AutoMerge(context.Background(), "develop")
	assert.False(t, outcome.Success)
	assert.True(t, outcome.IsConflict(), "outcome: %+v", outcome)
	assert.Contains(t, outcome.ConflictFiles, "conflict.txt")
}

func TestQuickCommitAgainstRealRepo(t *testing.T) {
	testutil.RequireGit(t)
	work := setupWorkRepo(t)

	testutil.CreateBranch(t, work, "feature/demo")
	require.NoError(t, os.WriteFile(filepath.Join(work, "change.txt"), []byte("pending\n"), 0600))

	repo := git.Open(work)
	engine := flow.New(repo, config.NewMemStore(config.Default()))

	outcome := <-engine.QuickCommit(context.Background(), "fix: record pending change", "")
	require.True(t, outcome.Success, "outcome: %+v", outcome)

	dirty, err := repo.HasUncommittedChanges(context.Background())
	require.NoError(t, err)
	assert.False(t, dirty)
}

func TestCreateBranchAgainstRealRepo(t *testing.T) {
	testutil.RequireGit(t)
	work := setupWorkRepo(t)

	repo := git.Open(work)
	engine := flow.New(repo, config.NewMemStore(config.Default()))

	outcome := <-engine.CreateBranch(context.Background(), "feature/20250604/login_tester", "develop")
	require.True(t, outcome.Success, "outcome: %+v", outcome)

	current, err := repo.CurrentBranch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "feature/20250604/login_tester", current)
}
