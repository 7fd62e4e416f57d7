package build

import (
	"context"
	"errors"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Pipeline runs a Plan's steps one after another and then places its
// artifacts. The first failure ends the run; nothing is rolled back.
type Pipeline struct {
	exec Executor
	log  *log.Logger
}

// NewPipeline creates a Pipeline running steps through exec. A nil
// logger discards output.
func NewPipeline(exec Executor, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Pipeline{exec: exec, log: logger}
}

// Execute runs plan. Failures are reported as *StepFailedError,
// *SpawnError or *CopyError.
func (p *Pipeline) Execute(ctx context.Context, plan Plan) error {
	for i, step := range plan.Steps {
		if step.Dir == "" {
			step.Dir = plan.SourceDir
		}
		index := i + 1
		p.log.Info("running", "step", index, "of", len(plan.Steps), "cmd", step.String())

		err := p.exec.Run(ctx, step)
		if err == nil {
			continue
		}
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return &StepFailedError{Index: index, Step: step, Status: exitErr.Status}
		}
		return &SpawnError{Index: index, Step: step, Err: err}
	}

	for _, a := range plan.Artifacts {
		src := filepath.Join(plan.SourceDir, a.Src)
		dst := a.Dst
		if dst == "" {
			dst = filepath.Base(a.Src)
		}
		dst = filepath.Join(plan.BinDir, dst)

		p.log.Debug("placing artifact", "src", src, "dst", dst)
		if err := copyFile(src, dst); err != nil {
			return &CopyError{Src: src, Dst: dst, Err: err}
		}
	}
	return nil
}
