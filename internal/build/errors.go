package build

import "fmt"

// ExitStatus describes how a finished process ended.
type ExitStatus struct {
	Code   int
	Signal string // set when the process was killed by a signal
}

func (s ExitStatus) String() string {
	if s.Signal != "" {
		return "signal: " + s.Signal
	}
	return fmt.Sprintf("exit status %d", s.Code)
}

// ExitError is returned by an Executor when the process ran but did not
// exit successfully.
type ExitError struct {
	Status ExitStatus
}

func (e *ExitError) Error() string { return e.Status.String() }

// StepFailedError reports a step whose process exited unsuccessfully.
type StepFailedError struct {
	Index  int // 1-based
	Step   Step
	Status ExitStatus
}

func (e *StepFailedError) Error() string {
	return fmt.Sprintf("step %d (%s) failed: %s", e.Index, e.Step, e.Status)
}

// SpawnError reports a step whose process could not be started.
type SpawnError struct {
	Index int // 1-based
	Step  Step
	Err   error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Step, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// CopyError reports an artifact that could not be placed.
type CopyError struct {
	Src, Dst string
	Err      error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copy %s to %s: %v", e.Src, e.Dst, e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }
