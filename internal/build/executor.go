package build

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"
)

//go:generate mockgen -destination=mocks/mock_executor.go -package=mocks . Executor

// Executor runs a single step to completion. It returns *ExitError when
// the process ran and failed; any other error means it never started.
type Executor interface {
	Run(ctx context.Context, step Step) error
}

// ExecExecutor runs steps as child processes.
type ExecExecutor struct {
	// Stdout and Stderr receive the process output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
	// Env, when non-nil, replaces the inherited environment.
	Env []string
}

func (e *ExecExecutor) Run(ctx context.Context, step Step) error {
	cmd := exec.CommandContext(ctx, step.Program, step.Args...)
	cmd.Dir = step.Dir
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if len(step.Env) > 0 {
		base := e.Env
		if base == nil {
			base = os.Environ()
		}
		cmd.Env = mergeEnv(base, step.Env)
	} else {
		cmd.Env = e.Env
	}

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Status: exitStatus(exitErr)}
	}
	return err
}

// mergeEnv returns base with every entry of overrides replaced or appended.
func mergeEnv(base, overrides []string) []string {
	env := slices.Clone(base)
	idx := make(map[string]int, len(env))
	for i, kv := range env {
		if k, _, ok := strings.Cut(kv, "="); ok {
			idx[k] = i
		}
	}
	for _, kv := range overrides {
		k, _, _ := strings.Cut(kv, "=")
		if i, ok := idx[k]; ok {
			env[i] = kv
		} else {
			idx[k] = len(env)
			env = append(env, kv)
		}
	}
	return env
}
