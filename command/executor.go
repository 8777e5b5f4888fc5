package command

import (
	"context"
	"os/exec"
)

// Executor abstracts process creation so the code that builds and runs
// git commands never calls os/exec directly. Tests substitute their own
// implementation (a stub PATH, a recording double) without touching the
// production path.
type Executor interface {
	// Command returns an exec.Cmd for name and args.
	Command(name string, args ...string) *exec.Cmd

	// CommandContext returns an exec.Cmd bound to ctx.
	CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd
}

// RealExecutor creates commands through os/exec.
type RealExecutor struct{}

// Command creates an exec.Cmd.
func (e *RealExecutor) Command(name string, args ...string) *exec.Cmd {
	return exec.Command(name, args...)
}

// CommandContext creates an exec.Cmd bound to ctx.
func (e *RealExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}
