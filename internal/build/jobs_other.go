//go:build !linux

package build

import "runtime"

// Jobs returns the number of CPUs this process may run on.
func Jobs() int {
	return runtime.NumCPU()
}
