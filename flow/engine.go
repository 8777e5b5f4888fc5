package flow

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/branchflow/branchflow/config"
	"github.com/branchflow/branchflow/errors"
	"github.com/branchflow/branchflow/git"
	"github.com/branchflow/branchflow/logging"
)

// Step names the phases of the auto-merge workflow, in execution order.
type Step string

const (
	StepPreparing              Step = "preparing"
	StepCheckingEnvironment    Step = "checking-environment"
	StepUpdatingMain           Step = "updating-main"
	StepMergingMainToFeature   Step = "merging-main-to-feature"
	StepPushingFeature         Step = "pushing-feature"
	StepMergingFeatureToTarget Step = "merging-feature-to-target"
	StepPushingTarget          Step = "pushing-target"
	StepCleaningUp             Step = "cleaning-up"
	StepCompleted              Step = "completed"
)

// Engine drives the merge, quick-commit and create-branch workflows. All
// git access goes through the injected Repository; configuration comes
// from the injected Store. Mutating workflows are serialized through a
// lock shared by every Engine in the process, so at most one is in
// flight at any time regardless of how many engines exist.
type Engine struct {
	repo  *git.Repository
	store config.Store
	lock  *Lock
	log   *logrus.Entry

	// now is swappable so tests get deterministic timestamps
	now func() time.Time
}

// New creates an Engine
func New(repo *git.Repository, store config.Store) *Engine {
	return &Engine{
		repo:  repo,
		store: store,
		lock:  processLock,
		log:   logging.NewLogger("flow"),
		now:   time.Now,
	}
}

// AutoMerge runs the full merge workflow toward target and returns a
// single-value channel resolving to the outcome. The caller is never
// blocked; a second invocation while one is in flight resolves to a Busy
// outcome without touching git state.
func (e *Engine) AutoMerge(ctx context.Context, target string) <-chan Outcome {
	return e.dispatch(ctx, "auto-merge", func(ctx context.Context) Outcome {
		return e.runAutoMerge(ctx, target)
	})
}

// QuickCommit stages everything and commits with message. When
// mergeTarget is non-empty the auto-merge workflow follows under the same
// lock acquisition.
func (e *Engine) QuickCommit(ctx context.Context, message, mergeTarget string) <-chan Outcome {
	return e.dispatch(ctx, "quick-commit", func(ctx context.Context) Outcome {
		return e.runQuickCommit(ctx, message, mergeTarget)
	})
}

// CreateBranch creates and checks out a new branch. An empty base means
// the branch starts at the current HEAD.
func (e *Engine) CreateBranch(ctx context.Context, name, base string) <-chan Outcome {
	return e.dispatch(ctx, "create-branch", func(ctx context.Context) Outcome {
		return e.runCreateBranch(ctx, name, base)
	})
}

// dispatch acquires the operation lock, runs the workflow on a background
// goroutine and resolves the returned channel with its outcome. The lock
// is released on every path; a panic inside a step becomes a failure
// outcome instead of crossing the workflow boundary.
func (e *Engine) dispatch(ctx context.Context, name string, fn func(context.Context) Outcome) <-chan Outcome {
	ch := make(chan Outcome, 1)

	if !e.lock.TryAcquire() {
		e.log.WithField("workflow", name).Warn("rejected: another workflow is in flight")
		ch <- busyOutcome()
		close(ch)
		return ch
	}

	go func() {
		defer close(ch)
		defer e.lock.Release()
		defer func() {
			if r := recover(); r != nil {
				e.log.WithField("workflow", name).Errorf("workflow panicked: %v", r)
				ch <- failureOutcome(errors.ErrCodeCommandFailed, fmt.Sprintf("unexpected error: %v", r))
			}
		}()

		e.log.WithField("workflow", name).Info("workflow started")
		outcome := fn(ctx)
		e.log.WithFields(logrus.Fields{"workflow": name, "success": outcome.Success}).Info("workflow finished")
		ch <- outcome
	}()

	return ch
}

// runAutoMerge executes the fixed step sequence. Any step failure aborts
// the remaining chain and is returned verbatim; partial progress (e.g. an
// already-pushed feature branch) is left in place and recoverable by
// re-running.
func (e *Engine) runAutoMerge(ctx context.Context, target string) Outcome {
	log := e.log.WithField("workflow", "auto-merge")

	// Preparing
	cfg, err := e.store.Load()
	if err != nil {
		return outcomeFromError(err)
	}

	// CheckingEnvironment: no mutation happens before all checks pass
	log.WithField("step", StepCheckingEnvironment).Debug("checking environment")
	if problems := cfg.Validate(); len(problems) > 0 {
		return outcomeFromError(errors.ConfigInvalid(problems))
	}

	// Target names pass the ASCII-only rule, which is stricter than the
	// general branch name rule on purpose.
	if !git.ValidateBranchNameStrict(target) {
		return failureOutcome(errors.ErrCodePreconditionFailed, fmt.Sprintf("invalid merge target name '%s'", target))
	}
	if !containsTarget(cfg, target) {
		return failureOutcome(errors.ErrCodePreconditionFailed, fmt.Sprintf("'%s' is not a configured target branch", target))
	}

	feature, err := e.repo.CurrentBranch(ctx)
	if err != nil {
		return outcomeFromError(err)
	}
	if !git.IsFeatureBranch(feature, cfg.FeaturePatterns) {
		return outcomeFromError(errors.NotFeatureBranch(feature))
	}

	dirty, err := e.repo.HasUncommittedChanges(ctx)
	if err != nil {
		return outcomeFromError(err)
	}
	if dirty {
		return outcomeFromError(errors.Dirty())
	}

	// UpdatingMain
	log.WithField("step", StepUpdatingMain).Info("updating main branch")
	if err := e.repo.Checkout(ctx, cfg.MainBranch); err != nil {
		return outcomeFromError(err)
	}
	if err := e.repo.Pull(ctx); err != nil {
		return outcomeFromError(err)
	}

	// MergingMainToFeature
	log.WithField("step", StepMergingMainToFeature).Info("merging main into feature")
	if outcome, ok := e.mergeInto(ctx, feature, cfg.MainBranch); !ok {
		return outcome
	}

	// PushingFeature
	log.WithField("step", StepPushingFeature).Info("pushing feature branch")
	if err := e.repo.Push(ctx, feature); err != nil {
		return outcomeFromError(err)
	}

	// MergingFeatureToTarget
	log.WithField("step", StepMergingFeatureToTarget).Info("merging feature into target")
	if outcome, ok := e.mergeInto(ctx, target, feature); !ok {
		return outcome
	}

	// PushingTarget; the checkout back to the feature branch happens
	// regardless of the push outcome.
	log.WithField("step", StepPushingTarget).Info("pushing target branch")
	pushErr := e.repo.Push(ctx, target)

	// CleaningUp is best-effort; its own failure never becomes the result
	log.WithField("step", StepCleaningUp).Debug("returning to feature branch")
	if err := e.repo.Checkout(ctx, feature); err != nil {
		log.WithField("step", StepCleaningUp).Warnf("could not return to %s: %v", feature, err)
	}

	if pushErr != nil {
		return outcomeFromError(pushErr)
	}

	// Completed
	completed := e.now()
	merged := []MergeRecord{
		{From: cfg.MainBranch, To: feature, CompletedAt: completed},
		{From: feature, To: target, CompletedAt: completed},
	}
	return successOutcome(fmt.Sprintf("merged %s into %s", feature, target), merged)
}

// mergeInto checks out into, merges from, then re-scans working copy
// status for unmerged paths. A conflicted state wins over the merge
// command's own exit code: some merges exit non-fatally yet leave
// conflicts behind.
func (e *Engine) mergeInto(ctx context.Context, into, from string) (Outcome, bool) {
	if err := e.repo.Checkout(ctx, into); err != nil {
		return outcomeFromError(err), false
	}

	mergeErr := e.repo.Merge(ctx, from)

	files, scanErr := e.repo.ConflictFiles(ctx)
	if scanErr == nil && len(files) > 0 {
		return conflictOutcome(from, into, files), false
	}
	if mergeErr != nil {
		return outcomeFromError(mergeErr), false
	}
	if scanErr != nil {
		return outcomeFromError(scanErr), false
	}

	return Outcome{}, true
}

func (e *Engine) runQuickCommit(ctx context.Context, message, mergeTarget string) Outcome {
	// Callers validate the message beforehand; re-checking here keeps the
	// workflow safe as a library entry point.
	if !git.ValidateCommitMessage(message) {
		return failureOutcome(errors.ErrCodePreconditionFailed, "commit message is blank or too long")
	}

	if err := e.repo.StageAll(ctx); err != nil {
		return outcomeFromError(err)
	}
	if err := e.repo.Commit(ctx, message); err != nil {
		return outcomeFromError(err)
	}

	if mergeTarget == "" {
		return successOutcome("changes committed", nil)
	}

	return e.runAutoMerge(ctx, mergeTarget)
}

func (e *Engine) runCreateBranch(ctx context.Context, name, base string) Outcome {
	if !git.ValidateBranchName(name) {
		return failureOutcome(errors.ErrCodePreconditionFailed, fmt.Sprintf("invalid branch name '%s'", name))
	}

	exists, err := e.repo.BranchExists(ctx, name)
	if err != nil {
		return outcomeFromError(err)
	}
	if exists {
		return outcomeFromError(errors.BranchExists(name))
	}

	if base != "" {
		baseExists, err := e.repo.BranchExists(ctx, base)
		if err != nil {
			return outcomeFromError(err)
		}
		if !baseExists {
			return failureOutcome(errors.ErrCodePreconditionFailed, fmt.Sprintf("base branch '%s' does not exist", base))
		}
		if err := e.repo.Checkout(ctx, base); err != nil {
			return outcomeFromError(err)
		}
	}

	if err := e.repo.CheckoutNew(ctx, name); err != nil {
		return outcomeFromError(err)
	}

	current, err := e.repo.CurrentBranch(ctx)
	if err != nil {
		return outcomeFromError(err)
	}
	if current != name {
		return failureOutcome(errors.ErrCodeCommandFailed,
			fmt.Sprintf("expected to be on '%s' after creation but found '%s'", name, current))
	}

	return successOutcome(fmt.Sprintf("created and checked out %s", name), nil)
}

func containsTarget(cfg *config.Config, target string) bool {
	for _, t := range cfg.TargetBranches {
		if t.Name == target {
			return true
		}
	}
	return false
}
