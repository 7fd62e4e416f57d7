//go:build !unix

package build

import "os/exec"

func exitStatus(err *exec.ExitError) ExitStatus {
	return ExitStatus{Code: err.ExitCode()}
}
