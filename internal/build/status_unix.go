//go:build unix

package build

import (
	"os/exec"
	"syscall"
)

func exitStatus(err *exec.ExitError) ExitStatus {
	if ws, ok := err.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return ExitStatus{Code: -1, Signal: ws.Signal().String()}
	}
	return ExitStatus{Code: err.ExitCode()}
}
