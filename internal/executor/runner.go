package executor

import (
	"context"
	"os/exec"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/maxkimambo/taskcompose/internal/logger"
	"github.com/maxkimambo/taskcompose/internal/task"
)

// Runner runs a single task
type Runner interface {
	Run(ctx context.Context, t task.Task) error
}

// RunnerFunc adapts a function to Runner
type RunnerFunc func(ctx context.Context, t task.Task) error

// Run calls f(ctx, t)
func (f RunnerFunc) Run(ctx context.Context, t task.Task) error {
	return f(ctx, t)
}

// CommandRunner runs `<environment> <location>` as a child process in the
// task's directory. Output lines go to the operational log.
type CommandRunner struct {
	// Env is appended to the inherited process environment
	Env []string
}

// NewCommandRunner creates a runner that executes tasks as processes
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{}
}

// Run starts the process and waits for it. Cancelling ctx kills it.
func (r *CommandRunner) Run(ctx context.Context, t task.Task) error {
	cmd := exec.CommandContext(ctx, t.Environment(), t.Location())
	cmd.Dir = filepath.Dir(t.Location())
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}

	entry := logger.Op.With(logger.WithTask(t.Location()))
	stdout := entry.WriterLevel(logrus.InfoLevel)
	defer stdout.Close()
	stderr := entry.WriterLevel(logrus.WarnLevel)
	defer stderr.Close()

	cmd.Stdout = stdout
	cmd.Stderr = stderr

	entry.WithField("environment", t.Environment()).Debug("Starting process")

	return cmd.Run()
}

// DryRunRunner logs each task instead of running it
type DryRunRunner struct{}

// Run logs the command that would run
func (DryRunRunner) Run(_ context.Context, t task.Task) error {
	logger.User.Infof("[dry-run] %s %s", t.Environment(), t.Location())
	return nil
}
