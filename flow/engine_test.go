package flow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branchflow/branchflow/command"
	"github.com/branchflow/branchflow/config"
	"github.com/branchflow/branchflow/errors"
	"github.com/branchflow/branchflow/git"
)

var testTime = time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)

func newTestEngine(m *command.MockRunner, cfg *config.Config) *Engine {
	e := New(git.NewRepository(m), config.NewMemStore(cfg))
	e.now = func() time.Time { return testTime }
	// isolate from the process-wide lock so tests cannot interfere
	e.lock = NewLock()
	return e
}

// onBranch wires the mock to report a clean working copy on the given branch
func onBranch(m *command.MockRunner, branch string) {
	m.AddExactMatch([]string{"branch", "--show-current"}, command.Result{Success: true, Lines: []string{branch}})
}

func TestAutoMerge_AllStepsInOrder(t *testing.T) {
	m := command.NewMockRunner()
	onBranch(m, "feature/x")

	e := newTestEngine(m, config.Default())
	outcome := <-e.AutoMerge(context.Background(), "develop")

	require.True(t, outcome.Success, "outcome: %+v", outcome)
	assert.Equal(t, []string{
		"branch --show-current",
		"status --porcelain",
		"checkout main",
		"pull",
		"checkout feature/x",
		"merge main",
		"status --porcelain",
		"push origin feature/x",
		"checkout develop",
		"merge feature/x",
		"status --porcelain",
		"push origin develop",
		"checkout feature/x",
	}, m.CallStrings())

	require.Len(t, outcome.Merged, 2)
	assert.Equal(t, MergeRecord{From: "main", To: "feature/x", CommitCount: 0, CompletedAt: testTime}, outcome.Merged[0])
	assert.Equal(t, MergeRecord{From: "feature/x", To: "develop", CommitCount: 0, CompletedAt: testTime}, outcome.Merged[1])
}

func TestAutoMerge_ConflictOnTargetMerge(t *testing.T) {
	m := command.NewMockRunner()
	onBranch(m, "feature/x")

	// The third status scan (after merging the feature into the target)
	// reports unmerged paths.
	porcelainCalls := 0
	m.AddRule(func(args []string) bool {
		if len(args) == 2 && args[0] == "status" && args[1] == "--porcelain" {
			porcelainCalls++
			return porcelainCalls == 3
		}
		return false
	}, command.Result{Success: true, Lines: []string{"UU src/app.go", "AA docs/readme.md"}})

	e := newTestEngine(m, config.Default())
	outcome := <-e.AutoMerge(context.Background(), "develop")

	assert.False(t, outcome.Success)
	assert.True(t, outcome.IsConflict())
	assert.Equal(t, []string{"src/app.go", "docs/readme.md"}, outcome.ConflictFiles)

	// Push-to-target never executes after a conflict
	assert.NotContains(t, m.CallStrings(), "push origin develop")
}

func TestAutoMerge_ConflictWinsOverMergeExitCode(t *testing.T) {
	m := command.NewMockRunner()
	onBranch(m, "feature/x")

	// The merge into the feature branch fails AND leaves unmerged paths;
	// the conflict outcome wins and carries the file list.
	m.AddExactMatch([]string{"merge", "main"}, command.Result{Err: "Automatic merge failed"})
	porcelainCalls := 0
	m.AddRule(func(args []string) bool {
		if len(args) == 2 && args[0] == "status" && args[1] == "--porcelain" {
			porcelainCalls++
			return porcelainCalls == 2
		}
		return false
	}, command.Result{Success: true, Lines: []string{"UU main.go"}})

	e := newTestEngine(m, config.Default())
	outcome := <-e.AutoMerge(context.Background(), "develop")

	assert.True(t, outcome.IsConflict())
	assert.Equal(t, []string{"main.go"}, outcome.ConflictFiles)
}

func TestAutoMerge_FailsFastOnPull(t *testing.T) {
	m := command.NewMockRunner()
	onBranch(m, "feature/x")
	m.AddExactMatch([]string{"pull"}, command.Result{Err: "fatal: unable to access remote"})

	e := newTestEngine(m, config.Default())
	outcome := <-e.AutoMerge(context.Background(), "develop")

	assert.False(t, outcome.Success)
	assert.Equal(t, errors.ErrCodeCommandFailed, outcome.Code)
	assert.Contains(t, outcome.Message, "unable to access remote")

	// The chain stops at the failed step
	calls := m.CallStrings()
	assert.Equal(t, "pull", calls[len(calls)-1])
}

func TestAutoMerge_DirtyWorkingCopy(t *testing.T) {
	m := command.NewMockRunner()
	onBranch(m, "feature/x")
	m.AddExactMatch([]string{"status", "--porcelain"}, command.Result{Success: true, Lines: []string{" M main.go"}})

	e := newTestEngine(m, config.Default())
	outcome := <-e.AutoMerge(context.Background(), "develop")

	assert.False(t, outcome.Success)
	assert.Equal(t, errors.ErrCodeGitDirty, outcome.Code)

	// No mutation happened before the precondition failed
	assert.Equal(t, []string{"branch --show-current", "status --porcelain"}, m.CallStrings())
}

func TestAutoMerge_NotAFeatureBranch(t *testing.T) {
	m := command.NewMockRunner()
	onBranch(m, "main")

	e := newTestEngine(m, config.Default())
	outcome := <-e.AutoMerge(context.Background(), "develop")

	assert.Equal(t, errors.ErrCodeNotFeature, outcome.Code)
	assert.Equal(t, []string{"branch --show-current"}, m.CallStrings())
}

func TestAutoMerge_InvalidConfiguration(t *testing.T) {
	m := command.NewMockRunner()
	e := newTestEngine(m, &config.Config{})
	outcome := <-e.AutoMerge(context.Background(), "develop")

	assert.Equal(t, errors.ErrCodeConfigInvalid, outcome.Code)
	assert.Empty(t, m.CallStrings(), "no git command runs with invalid configuration")
}

func TestAutoMerge_TargetValidation(t *testing.T) {
	m := command.NewMockRunner()
	e := newTestEngine(m, config.Default())

	// CJK target names fail the strict ASCII rule even though the general
	// branch name rule accepts them
	outcome := <-e.AutoMerge(context.Background(), "功能")
	assert.Equal(t, errors.ErrCodePreconditionFailed, outcome.Code)

	outcome = <-e.AutoMerge(context.Background(), "staging")
	assert.Equal(t, errors.ErrCodePreconditionFailed, outcome.Code)
	assert.Contains(t, outcome.Message, "not a configured target")
}

// gateRunner blocks the first git invocation until released, keeping a
// workflow in flight for as long as a test needs.
type gateRunner struct {
	inner   *command.MockRunner
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gateRunner) Run(ctx context.Context, args ...string) command.Result {
	g.once.Do(func() {
		close(g.started)
		<-g.release
	})
	return g.inner.Run(ctx, args...)
}

func TestLockIsSharedAcrossEngines(t *testing.T) {
	m1 := command.NewMockRunner()
	onBranch(m1, "feature/x")
	gate := &gateRunner{inner: m1, started: make(chan struct{}), release: make(chan struct{})}

	e1 := New(git.NewRepository(gate), config.NewMemStore(config.Default()))
	e1.now = func() time.Time { return testTime }

	m2 := command.NewMockRunner()
	onBranch(m2, "feature/y")
	e2 := New(git.NewRepository(m2), config.NewMemStore(config.Default()))

	first := e1.AutoMerge(context.Background(), "develop")
	<-gate.started

	// The guarantee is process-wide: a second Engine is rejected while the
	// first one's workflow is still running.
	second := <-e2.AutoMerge(context.Background(), "develop")
	assert.True(t, second.IsBusy(), "outcome: %+v", second)
	assert.Empty(t, m2.CallStrings(), "rejected workflow must not touch git state")

	close(gate.release)
	outcome := <-first
	assert.True(t, outcome.Success, "outcome: %+v", outcome)
}

func TestWorkflow_BusyRejection(t *testing.T) {
	m := command.NewMockRunner()
	e := newTestEngine(m, config.Default())

	require.True(t, e.lock.TryAcquire())

	outcome := <-e.AutoMerge(context.Background(), "develop")
	assert.True(t, outcome.IsBusy())
	assert.Empty(t, m.CallStrings(), "busy rejection must not touch git state")

	e.lock.Release()

	// After release the lock is usable again
	onBranch(m, "feature/x")
	outcome = <-e.AutoMerge(context.Background(), "develop")
	assert.True(t, outcome.Success)
}

func TestWorkflow_LockReleasedAfterFailure(t *testing.T) {
	m := command.NewMockRunner()
	onBranch(m, "main")

	e := newTestEngine(m, config.Default())
	<-e.AutoMerge(context.Background(), "develop")

	assert.False(t, e.lock.Busy())
}

func TestQuickCommit_WithoutMerge(t *testing.T) {
	m := command.NewMockRunner()
	e := newTestEngine(m, config.Default())

	outcome := <-e.QuickCommit(context.Background(), "fix: login", "")
	require.True(t, outcome.Success)
	assert.Equal(t, []string{"add .", "commit -m fix: login"}, m.CallStrings())
	assert.Empty(t, outcome.Merged)
}

func TestQuickCommit_WithFollowOnMerge(t *testing.T) {
	m := command.NewMockRunner()
	onBranch(m, "feature/x")

	e := newTestEngine(m, config.Default())
	outcome := <-e.QuickCommit(context.Background(), "fix: login", "develop")

	require.True(t, outcome.Success, "outcome: %+v", outcome)
	calls := m.CallStrings()
	assert.Equal(t, "add .", calls[0])
	assert.Equal(t, "commit -m fix: login", calls[1])
	assert.Contains(t, calls, "merge feature/x")
	assert.Contains(t, calls, "push origin develop")
	assert.Len(t, outcome.Merged, 2)
}

func TestQuickCommit_RejectsBadMessage(t *testing.T) {
	m := command.NewMockRunner()
	e := newTestEngine(m, config.Default())

	outcome := <-e.QuickCommit(context.Background(), "   ", "")
	assert.Equal(t, errors.ErrCodePreconditionFailed, outcome.Code)
	assert.Empty(t, m.CallStrings())
}

func TestCreateBranch_FromHead(t *testing.T) {
	m := command.NewMockRunner()
	m.AddExactMatch([]string{"branch", "-a"}, command.Result{Success: true, Lines: []string{"* main"}})
	onBranch(m, "feature/20250604/login_john")

	e := newTestEngine(m, config.Default())
	outcome := <-e.CreateBranch(context.Background(), "feature/20250604/login_john", "")

	require.True(t, outcome.Success, "outcome: %+v", outcome)
	assert.Equal(t, []string{
		"branch -a",
		"checkout -b feature/20250604/login_john",
		"branch --show-current",
	}, m.CallStrings())
}

func TestCreateBranch_FromBase(t *testing.T) {
	m := command.NewMockRunner()
	m.AddExactMatch([]string{"branch", "-a"}, command.Result{Success: true, Lines: []string{"* main", "  develop"}})
	onBranch(m, "feature/y")

	e := newTestEngine(m, config.Default())
	outcome := <-e.CreateBranch(context.Background(), "feature/y", "develop")

	require.True(t, outcome.Success, "outcome: %+v", outcome)
	assert.Equal(t, []string{
		"branch -a",
		"branch -a",
		"checkout develop",
		"checkout -b feature/y",
		"branch --show-current",
	}, m.CallStrings())
}

func TestCreateBranch_DuplicateName(t *testing.T) {
	m := command.NewMockRunner()
	m.AddExactMatch([]string{"branch", "-a"}, command.Result{Success: true, Lines: []string{"* main", "  remotes/origin/feature/x"}})

	e := newTestEngine(m, config.Default())
	outcome := <-e.CreateBranch(context.Background(), "feature/x", "")

	assert.Equal(t, errors.ErrCodeBranchExists, outcome.Code)
	assert.Equal(t, []string{"branch -a"}, m.CallStrings())
}

func TestCreateBranch_MissingBase(t *testing.T) {
	m := command.NewMockRunner()
	m.AddExactMatch([]string{"branch", "-a"}, command.Result{Success: true, Lines: []string{"* main"}})

	e := newTestEngine(m, config.Default())
	outcome := <-e.CreateBranch(context.Background(), "feature/y", "develop")

	assert.Equal(t, errors.ErrCodePreconditionFailed, outcome.Code)
	assert.Contains(t, outcome.Message, "develop")
}

func TestCreateBranch_VerifiesResultingBranch(t *testing.T) {
	m := command.NewMockRunner()
	m.AddExactMatch([]string{"branch", "-a"}, command.Result{Success: true, Lines: []string{"* main"}})
	onBranch(m, "main")

	e := newTestEngine(m, config.Default())
	outcome := <-e.CreateBranch(context.Background(), "feature/y", "")

	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Message, "feature/y")
	assert.Contains(t, outcome.Message, "main")
}

func TestCreateBranch_RejectsInvalidName(t *testing.T) {
	m := command.NewMockRunner()
	e := newTestEngine(m, config.Default())

	outcome := <-e.CreateBranch(context.Background(), "bad name", "")
	assert.Equal(t, errors.ErrCodePreconditionFailed, outcome.Code)
	assert.Empty(t, m.CallStrings())
}
